// Package ledger contiene el controller de movimientos del libro personal.
package ledger

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
	dto "github.com/dropDatabas3/michelangelo/internal/http/dto/ledger"
	httperrors "github.com/dropDatabas3/michelangelo/internal/http/errors"
	"github.com/dropDatabas3/michelangelo/internal/http/helpers"
	mw "github.com/dropDatabas3/michelangelo/internal/http/middlewares"
	svc "github.com/dropDatabas3/michelangelo/internal/http/services/ledger"
	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

type LedgerController struct {
	service svc.Service
}

func NewLedgerController(service svc.Service) *LedgerController {
	return &LedgerController{service: service}
}

// account saca la cuenta del contexto; sin ella responde 401.
func account(w http.ResponseWriter, r *http.Request) (*types.Account, bool) {
	acc, ok := mw.GetAccount(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
	}
	return acc, ok
}

// Create maneja POST /api/ledger/entries
func (c *LedgerController) Create(w http.ResponseWriter, r *http.Request) {
	acc, ok := account(w, r)
	if !ok {
		return
	}
	var req dto.CreateEntryRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	e, err := c.service.Add(r.Context(), acc, req)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/ledger/entries/"+e.ID)
	helpers.WriteJSON(w, http.StatusCreated, dto.FromEntry(e))
}

// List maneja GET /api/ledger/entries?kind=&from=&to=&limit=&offset=
func (c *LedgerController) List(w http.ResponseWriter, r *http.Request) {
	acc, ok := account(w, r)
	if !ok {
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, eff, err := c.service.List(r.Context(), acc, f)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromEntries(out, eff.Limit, eff.Offset))
}

// Get maneja GET /api/ledger/entries/{id}
func (c *LedgerController) Get(w http.ResponseWriter, r *http.Request) {
	acc, ok := account(w, r)
	if !ok {
		return
	}
	e, err := c.service.Get(r.Context(), acc, chi.URLParam(r, "id"))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromEntry(e))
}

// Update maneja PATCH /api/ledger/entries/{id}
func (c *LedgerController) Update(w http.ResponseWriter, r *http.Request) {
	acc, ok := account(w, r)
	if !ok {
		return
	}
	var req dto.UpdateEntryRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	e, err := c.service.Update(r.Context(), acc, chi.URLParam(r, "id"), req)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromEntry(e))
}

// Delete maneja DELETE /api/ledger/entries/{id}
func (c *LedgerController) Delete(w http.ResponseWriter, r *http.Request) {
	acc, ok := account(w, r)
	if !ok {
		return
	}
	if err := c.service.Delete(r.Context(), acc, chi.URLParam(r, "id")); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary maneja GET /api/ledger/summary?kind=&from=&to=
func (c *LedgerController) Summary(w http.ResponseWriter, r *http.Request) {
	acc, ok := account(w, r)
	if !ok {
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out, err := c.service.Summary(r.Context(), acc, f)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromTotals(out))
}

func parseFilter(r *http.Request) (types.EntryFilter, error) {
	var f types.EntryFilter
	var err error
	f.Kind = types.EntryKind(r.URL.Query().Get("kind"))
	if f.From, err = helpers.QueryDate(r, "from"); err != nil {
		return f, err
	}
	if f.To, err = helpers.QueryDate(r, "to"); err != nil {
		return f, err
	}
	if f.Limit, err = helpers.QueryInt(r, "limit", 0); err != nil {
		return f, err
	}
	if f.Offset, err = helpers.QueryInt(r, "offset", 0); err != nil {
		return f, err
	}
	return f, nil
}

func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := helpers.AsValidation(err); ok {
		httperrors.WriteError(w, appErr)
		return
	}
	if errors.Is(err, svc.ErrEntryNotFound) {
		httperrors.WriteError(w, httperrors.ErrEntryNotFound)
		return
	}
	logger.From(r.Context()).Error("ledger error",
		logger.Layer("controller"), logger.Err(err))
	httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
}
