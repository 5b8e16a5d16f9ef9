// Package audit registra eventos de seguridad de cuentas. Van al logger
// estructurado con logger name "audit" para poder rutearlos aparte.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

type Event string

const (
	AccountRegistered      Event = "account.registered"
	LoginSucceeded         Event = "login.succeeded"
	LoginFailed            Event = "login.failed"
	PasswordResetRequested Event = "password_reset.requested"
	PasswordResetCompleted Event = "password_reset.completed"
	SessionRevoked         Event = "session.revoked"
	FederatedLogin         Event = "federated.login"
)

// Log escribe el evento con el request_id del contexto, si lo hay.
func Log(ctx context.Context, event Event, fields ...zap.Field) {
	logger.From(ctx).Named("audit").Info(string(event), append(fields, zap.String("event", string(event)))...)
}
