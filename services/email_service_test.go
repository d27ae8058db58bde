package services

import (
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
)

func TestProcessTemplate(t *testing.T) {
	out := processTemplate("Hola {{customer_name}}, su cotizacion {{quote_number}} (correlativo {{correlative}})",
		models.EmailData{
			CustomerName: "Maria",
			QuoteNumber:  "FC-20260829-1234",
			Correlative:  "0042",
		})
	assert.Equal(t, "Hola Maria, su cotizacion FC-20260829-1234 (correlativo 0042)", out)
}

func TestProcessTemplateLeavesUnknownPlaceholders(t *testing.T) {
	out := processTemplate("{{customer_name}} {{unknown_var}}", models.EmailData{CustomerName: "X"})
	assert.Equal(t, "X {{unknown_var}}", out)
}

func TestConvertHTMLToText(t *testing.T) {
	html := `<div><p>Estimado cliente,</p><ul><li>Zinc</li><li>Cumbrera</li></ul></div>`
	text := convertHTMLToText(html)

	assert.Contains(t, text, "Estimado cliente,")
	assert.Contains(t, text, "- Zinc")
	assert.Contains(t, text, "- Cumbrera")
	assert.NotContains(t, text, "<p>")
}

func TestSendInternalCopyRequiresRecipient(t *testing.T) {
	es := &EmailService{}
	err := es.SendInternalCopy(models.EmailData{QuoteNumber: "FC-1"}, []byte("%PDF"))
	assert.Error(t, err)
}
