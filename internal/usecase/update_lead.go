package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/leadstack/internal/entity"
	"github.com/xavierca1/leadstack/internal/infra/queue"
)

type UpdateLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Queue  QueueProducerInterface
	Logger *zap.Logger
}

func NewUpdateLeadUseCase(
	repo entity.LeadRepositoryInterface,
	producer QueueProducerInterface,
	logger *zap.Logger,
) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{
		Repo:   repo,
		Queue:  producer,
		Logger: logger,
	}
}

// Execute sobrescreve o lead inteiro com o payload reconstruído
// (full overwrite, sem patch e sem checagem de versão: o último
// write vence). Diferente do create, status ausente NÃO vira "New".
func (uc *UpdateLeadUseCase) Execute(ctx context.Context, id string, body map[string]any) (*entity.Lead, error) {
	payload := BuildLeadPayload(body)

	if err := ValidateLeadPayload(payload); err != nil {
		return nil, err
	}

	lead, err := uc.Repo.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	if uc.Queue != nil {
		go func() {
			event := queue.LeadEventPayload{
				Action: queue.ActionLeadUpdated,
				LeadID: lead.ID,
			}
			if err := uc.Queue.PublishLeadEvent(context.Background(), event); err != nil {
				uc.Logger.Warn("lead event not published", zap.String("action", event.Action), zap.Error(err))
			}
		}()
	}

	return lead, nil
}
