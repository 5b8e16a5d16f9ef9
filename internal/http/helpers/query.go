package helpers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
)

// DateLayout es el formato de fechas de la API (ledger).
const DateLayout = "2006-01-02"

// QueryInt lee un entero opcional; vacío devuelve def.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, httperrors.ErrInvalidParameter.WithDetail(key + " must be a non-negative integer")
	}
	return n, nil
}

// QueryDate lee una fecha YYYY-MM-DD opcional.
func QueryDate(r *http.Request, key string) (*time.Time, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, httperrors.ErrInvalidParameter.WithDetail(key + " must be YYYY-MM-DD")
	}
	return &d, nil
}
