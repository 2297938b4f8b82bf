package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/ken6921-byte/zuinsurance-app/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending health-check reports to
// customers, optionally with the PDF rendering attached.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// SendHealthReport mails the Markdown summary; pdfData may be nil.
func (m *Mailer) SendHealthReport(to, subject, body string, pdfData []byte) error {
	if m.host == "" {
		return fmt.Errorf("mailer: SMTP not configured")
	}

	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if len(pdfData) > 0 {
		if _, err := e.Attach(bytes.NewReader(pdfData), "health_report.pdf", "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
