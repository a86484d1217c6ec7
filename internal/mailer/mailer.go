package mailer

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/formaplus/docgen/internal/logger"
)

// Attachment is a generated document attached by filename and raw bytes.
type Attachment struct {
	Filename string
	Data     []byte
}

// Message is one outbound HTML email.
type Message struct {
	To          string
	Subject     string
	HTMLBody    []byte
	Attachments []Attachment
}

// Config carries the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer struct {
	cfg       Config
	appLogger *logger.Logger
}

func New(cfg Config, appLogger *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, appLogger: appLogger}
}

// Send delivers one message over SMTP. Delivery is at-most-once; a failure is
// returned to the caller, never retried here.
func (m *Mailer) Send(msg Message) error {
	const component = "Mailer"

	if msg.To == "" {
		return fmt.Errorf("message has no recipient")
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.cfg.From)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/html", string(msg.HTMLBody))

	for _, att := range msg.Attachments {
		data := att.Data
		mail.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	m.appLogger.Info(component, "Email sent: to=%s subject=%q attachments=%d", msg.To, msg.Subject, len(msg.Attachments))
	return nil
}
