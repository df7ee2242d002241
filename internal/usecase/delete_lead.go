package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/leadstack/internal/entity"
	"github.com/xavierca1/leadstack/internal/infra/queue"
)

type DeleteLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Queue  QueueProducerInterface
	Logger *zap.Logger
}

func NewDeleteLeadUseCase(
	repo entity.LeadRepositoryInterface,
	producer QueueProducerInterface,
	logger *zap.Logger,
) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{
		Repo:   repo,
		Queue:  producer,
		Logger: logger,
	}
}

// Execute remove o lead por id, sem cascata (a entidade não tem
// filhos). O evento sai fora do caminho da resposta, como nos demais.
func (uc *DeleteLeadUseCase) Execute(ctx context.Context, id string) error {
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return err
	}

	if uc.Queue != nil {
		go func() {
			event := queue.LeadEventPayload{
				Action: queue.ActionLeadDeleted,
				LeadID: id,
			}
			if err := uc.Queue.PublishLeadEvent(context.Background(), event); err != nil {
				uc.Logger.Warn("lead event not published", zap.String("action", event.Action), zap.Error(err))
			}
		}()
	}

	return nil
}
