package logger

import (
	"strings"

	"go.uber.org/zap"
)

// ─── HTTP ───

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Route(v string) zap.Field     { return zap.String("route", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// ─── Negocio ───

// AccountID es la clave interna de la cuenta.
func AccountID(v int64) zap.Field { return zap.Int64("account_id", v) }

// PublicID es el identificador opaco que ve el cliente.
func PublicID(v string) zap.Field { return zap.String("public_id", v) }

func EntryID(v string) zap.Field  { return zap.String("entry_id", v) }
func Provider(v string) zap.Field { return zap.String("provider", v) }

// Email registra la dirección enmascarada (a…@e….com).
func Email(v string) zap.Field { return zap.String("email", MaskEmail(v)) }

// MaskEmail deja la primera letra del usuario y del dominio.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	user, dom, ok := strings.Cut(s, "@")
	if !ok || user == "" {
		if len(s) <= 3 {
			return strings.Repeat("*", len(s))
		}
		return s[:1] + "…"
	}
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	host, rest, _ := strings.Cut(dom, ".")
	if len(host) > 1 {
		host = host[:1] + "…"
	}
	if rest != "" {
		host += "." + rest
	}
	return user + "@" + host
}

// ─── Sistema ───

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }
