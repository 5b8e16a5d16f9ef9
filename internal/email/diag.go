package email

import (
	"errors"
	"net"
	"strings"
)

// SMTPDiag clasifica un error SMTP para el log.
type SMTPDiag struct {
	Code      string // auth|tls|dial|timeout|rate_limited|invalid_recipient|rejected|network|unknown
	Temporary bool   // si conviene reintentar
}

// DiagnoseSMTP inspecciona el error (tipo y texto) y devuelve un código.
func DiagnoseSMTP(err error) SMTPDiag {
	if err == nil {
		return SMTPDiag{Code: "unknown"}
	}
	s := strings.ToLower(err.Error())
	has := func(subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}

	var ne net.Error
	isNet := errors.As(err, &ne)
	switch {
	case isNet && ne.Timeout(), has("timeout"):
		return SMTPDiag{Code: "timeout", Temporary: true}
	case has("connection refused", "no such host", "dial tcp"):
		return SMTPDiag{Code: "dial", Temporary: true}
	case has("x509:"), has("tls") && has("handshake", "certificate"):
		return SMTPDiag{Code: "tls"}
	case has("5.7.8", "535", "authentication failed", "username and password not accepted"):
		return SMTPDiag{Code: "auth"}
	case has("4.7.0", "rate limit", "try again later", "421", "451"):
		return SMTPDiag{Code: "rate_limited", Temporary: true}
	case has("5.1.1", "user unknown", "mailbox not found"):
		return SMTPDiag{Code: "invalid_recipient"}
	case has("5.7.1", "message rejected", "dmarc", "spf"):
		return SMTPDiag{Code: "rejected"}
	case isNet:
		return SMTPDiag{Code: "network", Temporary: true}
	}
	return SMTPDiag{Code: "unknown"}
}
