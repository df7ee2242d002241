package usecase

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"regexp"
	"strings"
)

// Mapeia um CSV (UTF-8, com cabeçalho) para corpos parciais de lead,
// a mesma forma que chega via JSON. Cada linha ainda passa pelo
// BuildLeadPayload + gate de validação no import.
//
// Colunas multi-valor (emails, phones, tags) aceitam vírgula ou pipe
// como separador. custom_fields é uma célula com um objeto JSON.

var (
	multiValueDelimiter = regexp.MustCompile(`[|,]`)
	innerWhitespace     = regexp.MustCompile(`\s+`)
)

var csvScalarColumns = []string{
	"first_name", "last_name", "status",
	"job_title", "department", "industry", "experience",
	"linkedin", "twitter", "facebook", "website",
	"city", "state", "country",
	"company_name", "company_domain", "company_website",
	"company_industry", "company_size", "company_revenue",
	"company_founded_year", "company_linkedin", "company_phone",
}

// ParseLeadsCSV lê o arquivo inteiro e devolve um corpo parcial por
// linha aproveitável. Linhas sem nenhuma célula preenchida caem fora
// antes do mapeamento. Só erro de leitura/forma do CSV é propagado.
func ParseLeadsCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, column := range header {
		header[i] = strings.TrimSpace(column)
	}

	var bodies []map[string]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(map[string]string, len(header))
		blank := true
		for i, column := range header {
			if i >= len(record) {
				break
			}
			row[column] = record[i]
			if strings.TrimSpace(record[i]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		bodies = append(bodies, MapCSVRow(row))
	}

	return bodies, nil
}

// MapCSVRow converte uma linha já parseada na forma de corpo JSON.
// Colunas vazias não entram no mapa (ausente, não null).
func MapCSVRow(row map[string]string) map[string]any {
	safe := func(key string) string {
		return strings.TrimSpace(row[key])
	}

	body := make(map[string]any)
	for _, column := range csvScalarColumns {
		if value := safe(column); value != "" {
			body[column] = value
		}
	}

	if emails := parseContactCell(safe("emails")); emails != nil {
		body["emails"] = emails
	}
	if phones := parseContactCell(safe("phones")); phones != nil {
		body["phones"] = phones
	}
	if tags := parseTagCell(safe("tags")); tags != nil {
		body["tags"] = tags
	}
	if fields := parseCustomFieldsCell(safe("custom_fields")); fields != nil {
		body["custom_fields"] = fields
	}

	return body
}

// parseContactCell: separa por [|,], remove espaço interno de cada
// token, descarta vazios. O primeiro token vira primary, label "Work".
func parseContactCell(value string) []any {
	if value == "" {
		return nil
	}

	var entries []any
	for _, part := range multiValueDelimiter.Split(value, -1) {
		token := innerWhitespace.ReplaceAllString(strings.TrimSpace(part), "")
		if token == "" {
			continue
		}
		entries = append(entries, map[string]any{
			"value":   token,
			"label":   "Work",
			"primary": len(entries) == 0,
		})
	}

	if len(entries) == 0 {
		return nil
	}
	return entries
}

func parseTagCell(value string) []any {
	if value == "" {
		return nil
	}

	var tags []any
	for _, part := range multiValueDelimiter.Split(value, -1) {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		return nil
	}
	return tags
}

// parseCustomFieldsCell aceita só objeto JSON não-array. Qualquer outra
// coisa (JSON quebrado incluso) é descartada sem erro: o usuário não é
// avisado, a linha segue sem custom_fields.
func parseCustomFieldsCell(value string) map[string]any {
	if value == "" {
		return nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		return nil
	}
	fields, ok := parsed.(map[string]any)
	if !ok {
		return nil
	}
	return fields
}
