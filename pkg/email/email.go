package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"net/url"
	"strings"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
}

// Attachment is a file sent along with a message
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// InvoiceMail is the content of an invoice notification
type InvoiceMail struct {
	To          string
	ClientName  string
	CompanyName string
	Kind        string
	Number      string
	Total       string
	DueDate     string
	Attachment  *Attachment
}

// SendFunc delivers a raw message; it matches smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   SendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// WithSender replaces the SMTP delivery function
func (s *EmailService) WithSender(send SendFunc) *EmailService {
	s.send = send
	return s
}

// Configured reports whether an SMTP host is set
func (s *EmailService) Configured() bool {
	return s.config.SMTPHost != ""
}

// SendInvoice mails an invoice or quote with its PDF attached
func (s *EmailService) SendInvoice(m InvoiceMail) error {
	if m.To == "" {
		return fmt.Errorf("invoice %s: client has no email address", m.Number)
	}
	if m.Kind == "" {
		m.Kind = "Invoice"
	}

	htmlContent, err := s.renderInvoiceEmail(m)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("%s %s from %s", m.Kind, m.Number, m.CompanyName)
	var attachments []Attachment
	if m.Attachment != nil {
		attachments = append(attachments, *m.Attachment)
	}
	message, err := s.buildMessage(m.To, subject, htmlContent, attachments)
	if err != nil {
		return err
	}
	return s.sendEmail(m.To, message)
}

// SendPasswordResetEmail mails a link to the reset-password page
func (s *EmailService) SendPasswordResetEmail(toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		s.config.FrontendURL,
		url.QueryEscape(token),
		url.QueryEscape(toEmail),
	)

	tmpl, err := template.New("password_reset").Parse(passwordResetTemplate)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	data := struct{ Email, ResetURL, AppName string }{toEmail, resetURL, s.config.FromName}
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	message, err := s.buildMessage(toEmail, "Reset your password", buf.String(), nil)
	if err != nil {
		return err
	}
	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage builds a multipart message with an HTML body and attachments
func (s *EmailService) buildMessage(to, subject, htmlBody string, attachments []Attachment) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.config.FromName), s.config.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	body, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="UTF-8"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := body.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	for _, a := range attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.FileName)},
		})
		if err != nil {
			return nil, err
		}
		if _, err := part.Write([]byte(wrap(base64.StdEncoding.EncodeToString(a.Data), 76))); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderInvoiceEmail renders the invoice email template
func (s *EmailService) renderInvoiceEmail(m InvoiceMail) (string, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		InvoiceMail
		PortalURL string
	}{
		InvoiceMail: m,
		PortalURL:   s.config.FrontendURL,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func wrap(s string, width int) string {
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\r\n")
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}

// invoiceTemplate is the HTML template for invoice emails
const invoiceTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Kind}} {{.Number}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="background: #4f46e5; padding: 30px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 24px;">{{.CompanyName}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 30px; color: #4a5568; font-size: 16px; line-height: 1.6;">
                <p>Hello {{if .ClientName}}{{.ClientName}}{{else}}there{{end}},</p>
                <p>Please find attached {{.Kind}} <strong>{{.Number}}</strong> for <strong>{{.Total}}</strong>.</p>
                {{if .DueDate}}<p>Payment is due by <strong>{{.DueDate}}</strong>.</p>{{end}}
                {{if .PortalURL}}<p>You can also view it online at <a href="{{.PortalURL}}">{{.PortalURL}}</a>.</p>{{end}}
                <p>Thank you for your business.</p>
            </td>
        </tr>
    </table>
</body>
</html>
`

const passwordResetTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Reset your password</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="padding: 30px; color: #4a5568; font-size: 16px; line-height: 1.6;">
                <p>We received a request to reset the {{.AppName}} password for {{.Email}}.</p>
                <p><a href="{{.ResetURL}}" style="color: #4f46e5;">Reset password</a></p>
                <p>The link expires in one hour. If you did not ask for this, you can ignore this email.</p>
            </td>
        </tr>
    </table>
</body>
</html>
`
