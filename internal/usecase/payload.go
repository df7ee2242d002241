package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/xavierca1/leadstack/internal/entity"
)

// O corpo chega como JSON arbitrário (map[string]any). Cada normalizador
// abaixo aceita qualquer coisa e devolve nil quando a entrada não tem a
// forma esperada ou fica vazia depois da limpeza. Elementos inválidos
// são descartados em silêncio, nunca viram erro.

// stringOrNull: trim; string vazia ou não-string vira nil.
func stringOrNull(value any) *string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// stringify cobre os valores que o decoder de JSON produz. Números
// inteiros saem sem casa decimal ("42", não "42.000000").
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// NormalizeContactEntries canoniza uma lista de emails/telefones.
// O valor pode vir em "value", "email" ou "phone" (o primeiro não-vazio
// vence). "primary" aceita bool ou a string literal "true".
// Devolve nil se a entrada não for lista ou se nada sobrar.
func NormalizeContactEntries(raw any) []entity.ContactEntry {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	var normalized []entity.ContactEntry
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}

		value := stringOrNull(record["value"])
		if value == nil {
			value = stringOrNull(record["email"])
		}
		if value == nil {
			value = stringOrNull(record["phone"])
		}
		if value == nil {
			continue
		}

		entry := entity.ContactEntry{
			Value: *value,
			Label: stringOrNull(record["label"]),
		}
		switch p := record["primary"].(type) {
		case bool:
			primary := p
			entry.Primary = &primary
		case string:
			primary := p == "true"
			entry.Primary = &primary
		}

		normalized = append(normalized, entry)
	}

	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

// NormalizeCustomFields canoniza um bag chave/valor: chaves com trim,
// chaves vazias caem fora, valores viram string ou null.
func NormalizeCustomFields(raw any) map[string]*string {
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	result := make(map[string]*string)
	for key, value := range fields {
		safeKey := strings.TrimSpace(key)
		if safeKey == "" {
			continue
		}
		if value == nil {
			result[safeKey] = nil
			continue
		}
		s := stringify(value)
		result[safeKey] = &s
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// BuildLeadPayload compõe os normalizadores e a sanitização escalar em
// um payload canônico pronto para persistência. Transformação pura.
//
// Derivações:
//   - first_name: valor explícito, senão o primeiro token de "name"
//   - name: valor explícito, senão first_name + " " + last_name
//
// Status passa pelo stringOrNull e nada mais: valor livre é preservado.
func BuildLeadPayload(body map[string]any) *entity.LeadPayload {
	firstName := stringOrNull(body["first_name"])
	if firstName == nil {
		if name := stringOrNull(body["name"]); name != nil {
			token := strings.Fields(*name)[0]
			firstName = &token
		}
	}

	lastName := stringOrNull(body["last_name"])

	name := stringOrNull(body["name"])
	if name == nil {
		var parts []string
		if firstName != nil {
			parts = append(parts, *firstName)
		}
		if lastName != nil {
			parts = append(parts, *lastName)
		}
		if joined := strings.Join(parts, " "); joined != "" {
			name = &joined
		}
	}

	return &entity.LeadPayload{
		Name:      name,
		FirstName: firstName,
		LastName:  lastName,
		Emails:    NormalizeContactEntries(body["emails"]),
		Phones:    NormalizeContactEntries(body["phones"]),
		Source:    stringOrNull(body["source"]),
		Status:    stringOrNull(body["status"]),

		JobTitle:   stringOrNull(body["job_title"]),
		Department: stringOrNull(body["department"]),
		Industry:   stringOrNull(body["industry"]),
		Experience: stringOrNull(body["experience"]),
		LinkedIn:   stringOrNull(body["linkedin"]),
		Twitter:    stringOrNull(body["twitter"]),
		Facebook:   stringOrNull(body["facebook"]),
		Website:    stringOrNull(body["website"]),
		City:       stringOrNull(body["city"]),
		State:      stringOrNull(body["state"]),
		Country:    stringOrNull(body["country"]),

		CompanyName:        stringOrNull(body["company_name"]),
		CompanyDomain:      stringOrNull(body["company_domain"]),
		CompanyWebsite:     stringOrNull(body["company_website"]),
		CompanyIndustry:    stringOrNull(body["company_industry"]),
		CompanySize:        stringOrNull(body["company_size"]),
		CompanyRevenue:     stringOrNull(body["company_revenue"]),
		CompanyFoundedYear: stringOrNull(body["company_founded_year"]),
		CompanyLinkedIn:    stringOrNull(body["company_linkedin"]),
		CompanyPhone:       stringOrNull(body["company_phone"]),

		CustomFields: NormalizeCustomFields(body["custom_fields"]),
		Tags:         NormalizeTags(body["tags"]),
	}
}
