package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeadsCSVMapsRows(t *testing.T) {
	csvData := strings.Join([]string{
		"first_name,last_name,emails,phones,status,tags,custom_fields,company_name",
		`Jane,Doe,"a@b.com|c@d.com","+55 11 99999-0000",Contacted,"vip,hot","{""origin"":""webinar""}",Acme`,
		",,,,,,,",
		`Bob,,bob@acme.io,,,,,`,
	}, "\n")

	rows, err := ParseLeadsCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	// Linha toda em branco cai fora antes do mapeamento.
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "Jane", first["first_name"])
	assert.Equal(t, "Doe", first["last_name"])
	assert.Equal(t, "Contacted", first["status"])
	assert.Equal(t, "Acme", first["company_name"])

	emails, ok := first["emails"].([]any)
	require.True(t, ok)
	require.Len(t, emails, 2)

	entry := emails[0].(map[string]any)
	assert.Equal(t, "a@b.com", entry["value"])
	assert.Equal(t, "Work", entry["label"])
	assert.Equal(t, true, entry["primary"])

	second := emails[1].(map[string]any)
	assert.Equal(t, "c@d.com", second["value"])
	assert.Equal(t, false, second["primary"])

	phones := first["phones"].([]any)
	require.Len(t, phones, 1)
	// Espaço interno do telefone é removido no caminho CSV.
	assert.Equal(t, "+551199999-0000", phones[0].(map[string]any)["value"])

	tags := first["tags"].([]any)
	assert.Equal(t, []any{"vip", "hot"}, tags)

	fields := first["custom_fields"].(map[string]any)
	assert.Equal(t, "webinar", fields["origin"])

	bob := rows[1]
	assert.Equal(t, "Bob", bob["first_name"])
	_, hasLast := bob["last_name"]
	assert.False(t, hasLast)
}

func TestParseLeadsCSVEndToEndPayload(t *testing.T) {
	csvData := "first_name,emails\nJane,jane@acme.io\n"

	rows, err := ParseLeadsCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	payload := BuildLeadPayload(rows[0])
	require.Len(t, payload.Emails, 1)
	assert.Equal(t, "jane@acme.io", payload.Emails[0].Value)
	require.NotNil(t, payload.Emails[0].Label)
	assert.Equal(t, "Work", *payload.Emails[0].Label)
	require.NotNil(t, payload.Emails[0].Primary)
	assert.True(t, *payload.Emails[0].Primary)
	assert.NoError(t, ValidateLeadPayload(payload))
}

func TestMapCSVRowMalformedCustomFieldsDropped(t *testing.T) {
	body := MapCSVRow(map[string]string{
		"first_name":    "Jane",
		"custom_fields": `{not valid json`,
	})

	// JSON quebrado some em silêncio, a linha continua válida.
	_, present := body["custom_fields"]
	assert.False(t, present)
	assert.Equal(t, "Jane", body["first_name"])
}

func TestMapCSVRowCustomFieldsArrayRejected(t *testing.T) {
	body := MapCSVRow(map[string]string{
		"first_name":    "Jane",
		"custom_fields": `["a","b"]`,
	})

	_, present := body["custom_fields"]
	assert.False(t, present)
}

func TestParseLeadsCSVEmptyFile(t *testing.T) {
	rows, err := ParseLeadsCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rows)

	onlyHeader, err := ParseLeadsCSV(strings.NewReader("first_name,emails\n"))
	require.NoError(t, err)
	assert.Nil(t, onlyHeader)
}
