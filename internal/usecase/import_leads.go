package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/leadstack/internal/entity"
	"github.com/xavierca1/leadstack/internal/infra/queue"
)

type ImportLeadsUseCase struct {
	Repo        entity.LeadRepositoryInterface
	Queue       QueueProducerInterface
	Mail        EmailService
	NotifyEmail string
	Logger      *zap.Logger
}

func NewImportLeadsUseCase(
	repo entity.LeadRepositoryInterface,
	producer QueueProducerInterface,
	mailService EmailService,
	notifyEmail string,
	logger *zap.Logger,
) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{
		Repo:        repo,
		Queue:       producer,
		Mail:        mailService,
		NotifyEmail: notifyEmail,
		Logger:      logger,
	}
}

// Execute valida TODOS os elementos antes de gravar qualquer um: se um
// único lead falhar no gate, o lote inteiro é rejeitado. O insert dos
// sobreviventes é uma operação só (transação única no repositório).
//
// fileName é só informativo (vai no email de resumo); vazio no caminho
// JSON.
func (uc *ImportLeadsUseCase) Execute(ctx context.Context, bodies []map[string]any, fileName string) (*ImportLeadsOutput, error) {
	if len(bodies) == 0 {
		return nil, &DomainError{
			Code:    "EMPTY_IMPORT",
			Message: "No leads supplied. Provide an array under `leads`.",
		}
	}

	payloads := make([]*entity.LeadPayload, 0, len(bodies))
	for _, body := range bodies {
		payload := BuildLeadPayload(body)

		if !HasPrimaryContact(payload) {
			return nil, &DomainError{
				Code:    "VALIDATION_ERROR",
				Message: "Each lead must include at least a first_name or one email address.",
			}
		}

		if payload.Status == nil {
			status := entity.StatusNew
			payload.Status = &status
		}

		payloads = append(payloads, payload)
	}

	leads, err := uc.Repo.InsertMany(ctx, payloads)
	if err != nil {
		return nil, err
	}

	go uc.notify(leads, fileName)

	return &ImportLeadsOutput{
		Inserted: len(leads),
		Leads:    leads,
	}, nil
}

func (uc *ImportLeadsUseCase) notify(leads []*entity.Lead, fileName string) {
	if uc.Queue != nil {
		ids := make([]string, len(leads))
		for i, lead := range leads {
			ids[i] = lead.ID
		}
		event := queue.LeadEventPayload{
			Action:  queue.ActionLeadsImported,
			LeadIDs: ids,
			Count:   len(ids),
		}
		if err := uc.Queue.PublishLeadEvent(context.Background(), event); err != nil {
			uc.Logger.Warn("lead event not published", zap.String("action", event.Action), zap.Error(err))
		}
	}

	if uc.Mail != nil && uc.NotifyEmail != "" {
		if err := uc.Mail.SendImportSummary(uc.NotifyEmail, fileName, len(leads)); err != nil {
			uc.Logger.Warn("import summary email not sent", zap.Error(err))
		}
	}
}
