package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/michelangelo/internal/config"
)

func TestRenderReset(t *testing.T) {
	link := "http://localhost:3000/reset-password?token=abc.def&x=1"
	m, err := RenderReset("ana@example.com", ResetVars{Username: "ana", Link: link, TTL: "15m0s"})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", m.To)
	assert.Equal(t, ResetSubject, m.Subject)
	assert.Contains(t, m.Text, link)
	assert.Contains(t, m.Text, "15m0s")
	// html/template escapa el & del query
	assert.Contains(t, m.HTML, "token=abc.def&amp;x=1")
}

func TestNew_PicksSender(t *testing.T) {
	cfg := config.Default()
	_, ok := New(cfg).(LogSender)
	assert.True(t, ok)

	cfg.SMTP.Host = "smtp.example.com"
	s, ok := New(cfg).(*SMTPSender)
	require.True(t, ok)
	assert.Equal(t, 587, s.Port)
	assert.Equal(t, "auto", s.TLSMode)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, LogSender{}.Send(context.Background(), Message{To: "a@b.c", Subject: "x"}))
}

func TestSMTPSender_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &SMTPSender{Host: "127.0.0.1", Port: 1}
	assert.ErrorIs(t, s.Send(ctx, Message{To: "a@b.c"}), context.Canceled)
}

func TestDiagnoseSMTP(t *testing.T) {
	cases := []struct{ msg, want string }{
		{"dial tcp 1.2.3.4:25: connection refused", "dial"},
		{"535 5.7.8 authentication failed", "auth"},
		{"x509: certificate signed by unknown authority", "tls"},
		{"550 5.1.1 user unknown", "invalid_recipient"},
		{"421 try again later", "rate_limited"},
		{"something odd", "unknown"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DiagnoseSMTP(errors.New(c.msg)).Code, c.msg)
	}
	assert.True(t, DiagnoseSMTP(errors.New(strings.ToUpper("dial tcp: no such host"))).Temporary)
}
