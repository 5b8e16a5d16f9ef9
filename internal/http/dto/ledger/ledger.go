// Package ledger contiene los DTOs de movimientos y resumen.
package ledger

import (
	"time"

	"github.com/dropDatabas3/michelangelo/internal/domain/types"
)

const dateLayout = "2006-01-02"

// CreateEntryRequest: OccurredOn en YYYY-MM-DD; vacío = hoy (UTC).
type CreateEntryRequest struct {
	Kind        string `json:"kind"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Category    string `json:"category"`
	Description string `json:"description"`
	OccurredOn  string `json:"occurred_on"`
}

type UpdateEntryRequest struct {
	Kind        *string `json:"kind"`
	AmountCents *int64  `json:"amount_cents"`
	Currency    *string `json:"currency"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	OccurredOn  *string `json:"occurred_on"`
}

type EntryResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	OccurredOn  string    `json:"occurred_on"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromEntry(e *types.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		Kind:        string(e.Kind),
		AmountCents: e.AmountCents,
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		OccurredOn:  e.OccurredOn.Format(dateLayout),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type ListResponse struct {
	Entries []EntryResponse `json:"entries"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

func FromEntries(in []types.Entry, limit, offset int) ListResponse {
	out := ListResponse{Entries: make([]EntryResponse, 0, len(in)), Limit: limit, Offset: offset}
	for i := range in {
		out.Entries = append(out.Entries, FromEntry(&in[i]))
	}
	return out
}

type TotalsResponse struct {
	Currency     string `json:"currency"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	BalanceCents int64  `json:"balance_cents"`
}

type SummaryResponse struct {
	Totals []TotalsResponse `json:"totals"`
}

func FromTotals(in []types.CurrencyTotals) SummaryResponse {
	out := SummaryResponse{Totals: make([]TotalsResponse, 0, len(in))}
	for _, t := range in {
		out.Totals = append(out.Totals, TotalsResponse{
			Currency:     t.Currency,
			IncomeCents:  t.IncomeCents,
			ExpenseCents: t.ExpenseCents,
			BalanceCents: t.BalanceCents(),
		})
	}
	return out
}
