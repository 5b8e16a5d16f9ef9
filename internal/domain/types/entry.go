package types

import "time"

// EntryKind distingue ingresos de egresos.
type EntryKind string

const (
	EntryIncome  EntryKind = "income"
	EntryExpense EntryKind = "expense"
)

// IsValid retorna true si el kind es conocido.
func (k EntryKind) IsValid() bool {
	return k == EntryIncome || k == EntryExpense
}

// Entry es un movimiento del libro personal de una cuenta.
type Entry struct {
	ID          string
	AccountID   int64
	Kind        EntryKind
	AmountCents int64
	Currency    string
	Category    string
	Description string
	OccurredOn  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EntryPatch es una actualización parcial de un movimiento.
type EntryPatch struct {
	Kind        *EntryKind
	AmountCents *int64
	Currency    *string
	Category    *string
	Description *string
	OccurredOn  *time.Time
}

// Apply copia los campos presentes sobre el movimiento.
func (p EntryPatch) Apply(e *Entry) {
	if p.Kind != nil {
		e.Kind = *p.Kind
	}
	if p.AmountCents != nil {
		e.AmountCents = *p.AmountCents
	}
	if p.Currency != nil {
		e.Currency = *p.Currency
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.OccurredOn != nil {
		e.OccurredOn = *p.OccurredOn
	}
}

// EntryFilter filtra el listado; From/To son inclusivos.
type EntryFilter struct {
	Kind   EntryKind
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Matches aplica Kind/From/To (no paginación).
func (f EntryFilter) Matches(e Entry) bool {
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.From != nil && e.OccurredOn.Before(*f.From) {
		return false
	}
	if f.To != nil && e.OccurredOn.After(*f.To) {
		return false
	}
	return true
}

// CurrencyTotals es el resumen de una moneda.
type CurrencyTotals struct {
	Currency     string
	IncomeCents  int64
	ExpenseCents int64
}

// BalanceCents = ingresos - egresos.
func (t CurrencyTotals) BalanceCents() int64 { return t.IncomeCents - t.ExpenseCents }
