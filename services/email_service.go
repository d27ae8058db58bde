package services

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"backend/models"

	"golang.org/x/net/html"
)

// Mailer is the outbound-mail surface quote submission depends on. The
// EmailService below is the SMTP implementation; tests substitute their own.
type Mailer interface {
	SendQuotePDF(data models.EmailData, pdf []byte) error
	SendInternalCopy(data models.EmailData, pdf []byte) error
}

// EmailService sends transactional mail over SMTP.
type EmailService struct {
	host       string
	port       string
	username   string
	password   string
	from       string
	internalTo string
}

// NewEmailService builds the service from SMTP_* environment variables.
func NewEmailService() *EmailService {
	return &EmailService{
		host:       os.Getenv("SMTP_HOST"),
		port:       os.Getenv("SMTP_PORT"),
		username:   os.Getenv("SMTP_USER"),
		password:   os.Getenv("SMTP_PASSWORD"),
		from:       os.Getenv("SMTP_FROM"),
		internalTo: os.Getenv("INTERNAL_NOTIFY_EMAIL"),
	}
}

// convertHTMLToText converts HTML content to plain text for the text body of
// outbound mail.
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "table", "tr":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "td", "th":
				text.WriteString(" | ")
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}

	extractText(doc)

	result := text.String()
	result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	return strings.TrimSpace(result)
}

// processTemplate substitutes {{variable}} placeholders.
func processTemplate(templateStr string, data models.EmailData) string {
	variables := map[string]string{
		"customer_name": data.CustomerName,
		"email":         data.Email,
		"quote_number":  data.QuoteNumber,
		"correlative":   data.Correlative,
		"company_name":  data.CompanyName,
		"reset_link":    data.ResetLink,
		"support_email": data.SupportEmail,
	}

	result := templateStr
	for key, value := range variables {
		placeholder := fmt.Sprintf("{{%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

const quoteEmailTemplate = `<div>
<p>Estimado {{customer_name}},</p>
<p>Adjuntamos la cotizacion <b>{{quote_number}}</b> (correlativo {{correlative}}) solicitada en nuestro sitio.</p>
<p>Ante cualquier consulta responda este correo o escriba a {{support_email}}.</p>
<p>Saludos,<br>Equipo Fasercon</p>
</div>`

const internalCopyTemplate = `<div>
<p>Nueva cotizacion recibida.</p>
<p>Numero: {{quote_number}} | Correlativo: {{correlative}}</p>
<p>Cliente: {{customer_name}} ({{company_name}}) - {{email}}</p>
</div>`

// SendQuotePDF mails the rendered quote to the customer with the PDF
// attached.
func (es *EmailService) SendQuotePDF(data models.EmailData, pdf []byte) error {
	if data.SupportEmail == "" {
		data.SupportEmail = es.internalTo
	}
	body := processTemplate(quoteEmailTemplate, data)
	subject := fmt.Sprintf("Cotizacion %s - Fasercon", data.QuoteNumber)
	filename := fmt.Sprintf("cotizacion_%s.pdf", data.QuoteNumber)

	return es.sendWithAttachment(data.Email, subject, body, filename, pdf)
}

// SendInternalCopy mails the back-office notification. Independent from the
// customer send: either may fail without affecting the other.
func (es *EmailService) SendInternalCopy(data models.EmailData, pdf []byte) error {
	if es.internalTo == "" {
		return fmt.Errorf("INTERNAL_NOTIFY_EMAIL not configured")
	}
	body := processTemplate(internalCopyTemplate, data)
	subject := fmt.Sprintf("[interno] Cotizacion %s recibida", data.QuoteNumber)
	filename := fmt.Sprintf("cotizacion_%s.pdf", data.QuoteNumber)

	return es.sendWithAttachment(es.internalTo, subject, body, filename, pdf)
}

const resetEmailTemplate = `<div>
<p>Recibimos una solicitud para restablecer su contrasena.</p>
<p>Use el siguiente enlace dentro de los proximos 15 minutos:</p>
<p>{{reset_link}}</p>
<p>Si usted no solicito este cambio, ignore este correo.</p>
</div>`

// SendPasswordReset mails a reset link to a staff account.
func (es *EmailService) SendPasswordReset(to, resetLink string) error {
	body := processTemplate(resetEmailTemplate, models.EmailData{ResetLink: resetLink})
	return es.sendPlain(to, "Restablecer contrasena", convertHTMLToText(body))
}

func (es *EmailService) auth() smtp.Auth {
	return smtp.PlainAuth("", es.username, es.password, es.host)
}

func (es *EmailService) addr() string {
	port := es.port
	if port == "" {
		port = "587"
	}
	return es.host + ":" + port
}

func (es *EmailService) sendPlain(to, subject, body string) error {
	headers := []string{
		"From: " + es.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}
	msg := []byte(strings.Join(headers, "\r\n") + "\r\n")

	return smtp.SendMail(es.addr(), es.auth(), es.from, []string{to}, msg)
}

// sendWithAttachment builds a multipart/mixed message with a plain-text body
// (converted from the HTML template) and one PDF attachment.
func (es *EmailService) sendWithAttachment(to, subject, htmlBody, filename string, pdf []byte) error {
	boundary := "fasercon-quote-boundary"

	var msg strings.Builder
	msg.WriteString("From: " + es.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: multipart/mixed; boundary=" + boundary + "\r\n\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(convertHTMLToText(htmlBody) + "\r\n\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: application/pdf\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("Content-Disposition: attachment; filename=" + filename + "\r\n\r\n")

	encoded := base64.StdEncoding.EncodeToString(pdf)
	for len(encoded) > 76 {
		msg.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	msg.WriteString(encoded + "\r\n")
	msg.WriteString("--" + boundary + "--\r\n")

	return smtp.SendMail(es.addr(), es.auth(), es.from, []string{to}, []byte(msg.String()))
}
