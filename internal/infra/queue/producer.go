package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	amqp "github.com/rabbitmq/amqp091-go"
)

var leadEventsPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lead_events_published_total",
		Help: "Total number of lead events published to RabbitMQ",
	},
	[]string{"action", "status"},
)

// Ações publicadas para automações downstream (enriquecimento,
// sincronização com outras ferramentas). O serviço só produz; quem
// consome é externo.
const (
	ActionLeadCreated   = "lead.created"
	ActionLeadUpdated   = "lead.updated"
	ActionLeadDeleted   = "lead.deleted"
	ActionLeadsImported = "leads.imported"
)

type LeadEventPayload struct {
	Action     string    `json:"action"`
	LeadID     string    `json:"lead_id,omitempty"`
	LeadIDs    []string  `json:"lead_ids,omitempty"`
	Count      int       `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, payload LeadEventPayload) error {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.leads
		RoutingKey,   // k.lead-event
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)

	if err != nil {
		leadEventsPublished.WithLabelValues(payload.Action, "error").Inc()
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	leadEventsPublished.WithLabelValues(payload.Action, "ok").Inc()
	return nil
}
