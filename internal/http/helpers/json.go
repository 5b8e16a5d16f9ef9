// Package helpers reúne utilidades de request/response compartidas por los controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
)

const (
	// MaxBodySize limita los bodies JSON.
	MaxBodySize     = 64 * 1024
	ContentTypeJSON = "application/json; charset=utf-8"
)

// ReadJSON decodifica el body en dst con límite de tamaño. Rechaza campos
// desconocidos y bodies con más de un documento.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return httperrors.ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return httperrors.ErrInvalidJSON.WithDetail("empty body")
		default:
			return httperrors.ErrInvalidJSON.WithCause(err)
		}
	}
	if dec.More() {
		return httperrors.ErrInvalidJSON.WithDetail("unexpected data after JSON body")
	}
	return nil
}

// WriteJSON escribe v con status y Cache-Control: no-store.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	NoStore(w)
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// NoStore evita que proxies o el browser cacheen respuestas con tokens.
func NoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// BearerToken extrae el token de "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
