package email

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// SMTPSender implementa Mailer usando SMTP.
type SMTPSender struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

func (s *SMTPSender) message(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	// Preferimos multipart/alternative (txt + html)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text == "" {
			m.SetBody("text/html", msg.HTML)
		} else {
			m.AddAlternative("text/html", msg.HTML)
		}
	}
	return m
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // solo dev
	}
	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	default:
		// "auto": go-mail negocia STARTTLS si el server lo ofrece
	}
	return d
}

// Send envía el mensaje. go-mail no recibe ctx: sólo se chequea antes de discar.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	log := logger.From(ctx).With(
		logger.Component("email.smtp"),
		logger.String("host", s.Host),
		logger.Int("port", s.Port),
	)
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Debug("sending email",
		logger.String("subject", msg.Subject),
		logger.String("tls_mode", s.TLSMode),
	)
	if err := s.dialer().DialAndSend(s.message(msg)); err != nil {
		d := DiagnoseSMTP(err)
		log.Error("smtp send failed",
			logger.Err(err),
			logger.String("diag", d.Code),
			logger.Bool("temporary", d.Temporary),
		)
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Info("email sent")
	return nil
}
