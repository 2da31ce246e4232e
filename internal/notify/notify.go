// Package notify mails run summaries.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"starquote/internal/components/assert"
	"starquote/internal/components/telemetry"
	"starquote/internal/quote"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("starquote/notify")

const report_mail_send = "mail.send"

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

func (c SmtpConfig) Enabled() bool {
	return c.Server != "" && c.EmailAddress != "" && len(c.To) > 0
}

func (c SmtpConfig) addr() string {
	port := c.Port
	if port == 0 {
		port = 587
	}
	return fmt.Sprintf("%s:%d", c.Server, port)
}

type sendFunc func(mail *email.Email, addr string, auth smtp.Auth) error

func sendEmail(mail *email.Email, addr string, auth smtp.Auth) error {
	return mail.Send(addr, auth)
}

type Mailer struct {
	config SmtpConfig
	tel    telemetry.API

	// note: fault injection point
	send sendFunc
}

func NewMailer(config SmtpConfig, tel telemetry.API) Mailer {
	assert.NotEmptyStr(config.Server, "smtp server")
	assert.NotEmptyStr(config.EmailAddress, "smtp email address")
	assert.NotNil(tel, "telemetry")

	return Mailer{
		config: config,
		tel:    telemetry.NewScopedAPI("notify", tel),
		send:   sendEmail,
	}
}

// Body renders the plain text mail body of a summary.
func Body(fields []quote.Field) string {
	width := 0
	for _, f := range fields {
		if len(f.Name) > width {
			width = len(f.Name)
		}
	}

	var sb strings.Builder
	sb.WriteString("Latest premium quotes:\n\n")
	for _, f := range fields {
		fmt.Fprintf(&sb, "%-*s  %s\n", width, f.Name, f.Value)
	}
	sb.WriteString("\nA dash means the portal did not return a premium for that plan.")
	return sb.String()
}

func (m Mailer) Send(ctx context.Context, subject string, fields []quote.Field) error {
	_, span := tracer.Start(ctx, "Mailer:Send")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("starquote <%s>", m.config.EmailAddress)
	mail.To = m.config.To
	mail.Subject = subject
	mail.Text = []byte(Body(fields))

	addr := m.config.addr()
	err := m.send(
		mail,
		addr,
		smtp.PlainAuth("", m.config.EmailAddress, m.config.Password, m.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = m.send(mail, addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		m.tel.ReportBroken(report_mail_send, err, addr)
		return err
	}
	return nil
}
