package usecase

import (
	"context"

	"github.com/xavierca1/leadstack/internal/entity"
	"github.com/xavierca1/leadstack/internal/infra/queue"
)

type QueueProducerInterface interface {
	PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error
}

type EmailService interface {
	SendImportSummary(to, fileName string, inserted int) error
}

type ImportLeadsOutput struct {
	Inserted int            `json:"inserted"`
	Leads    []*entity.Lead `json:"leads"`
}
