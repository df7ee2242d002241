package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/leadstack/internal/entity"
	"github.com/xavierca1/leadstack/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Queue  QueueProducerInterface
	Logger *zap.Logger
}

func NewCreateLeadUseCase(
	repo entity.LeadRepositoryInterface,
	producer QueueProducerInterface,
	logger *zap.Logger,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:   repo,
		Queue:  producer,
		Logger: logger,
	}
}

// Execute: corpo cru -> builder -> gate -> insert. Status ausente vira
// "New" antes de persistir. O evento é publicado fora do caminho da
// resposta e falha dele nunca chega ao cliente.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, body map[string]any) (*entity.Lead, error) {
	payload := BuildLeadPayload(body)

	if err := ValidateLeadPayload(payload); err != nil {
		return nil, err
	}

	if payload.Status == nil {
		status := entity.StatusNew
		payload.Status = &status
	}

	lead, err := uc.Repo.Insert(ctx, payload)
	if err != nil {
		return nil, err
	}

	if uc.Queue != nil {
		go func() {
			event := queue.LeadEventPayload{
				Action: queue.ActionLeadCreated,
				LeadID: lead.ID,
			}
			if err := uc.Queue.PublishLeadEvent(context.Background(), event); err != nil {
				uc.Logger.Warn("lead event not published", zap.String("action", event.Action), zap.Error(err))
			}
		}()
	}

	return lead, nil
}
