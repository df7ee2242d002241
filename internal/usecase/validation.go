package usecase

import "github.com/xavierca1/leadstack/internal/entity"

// A única regra de negócio do sistema: um lead precisa de first_name
// ou de pelo menos um email. Todo o resto é opcional.

func HasPrimaryContact(payload *entity.LeadPayload) bool {
	return payload.FirstName != nil || len(payload.Emails) > 0
}

func ValidateLeadPayload(payload *entity.LeadPayload) error {
	if !HasPrimaryContact(payload) {
		return &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: "First name or an email address is required.",
		}
	}
	return nil
}
