// Package email envía los correos transaccionales (hoy: reset de password).
//
// Con smtp.host vacío se usa LogSender, que sólo registra el mensaje.
package email

import (
	"context"

	"github.com/dropDatabas3/michelangelo/internal/config"
)

// Message es un correo multipart/alternative (texto + HTML).
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer entrega un mensaje. Un error significa que no se pudo entregar.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// New elige SMTPSender o LogSender según la config.
func New(cfg *config.Config) Mailer {
	if cfg.SMTP.Host == "" {
		return LogSender{}
	}
	return &SMTPSender{
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		From:               cfg.SMTP.From,
		User:               cfg.SMTP.Username,
		Pass:               cfg.SMTP.Password,
		TLSMode:            cfg.SMTP.TLS,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
	}
}
