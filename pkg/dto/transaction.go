package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCreate is a DTO for recording money lent to or borrowed from a person.
type TransactionCreate struct {
	PersonID  uuid.UUID       `json:"person_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"` // Main unit, e.g. rupees
	Direction string          `json:"direction" validate:"required"`
	Date      time.Time       `json:"date"` // Defaults to now when zero
	Note      string          `json:"note,omitempty" validate:"max=500"`
}

// TransactionUpdate is a DTO for editing a transaction. Nil fields keep their
// current value.
type TransactionUpdate struct {
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Direction *string          `json:"direction,omitempty"`
	Date      *time.Time       `json:"date,omitempty"`
	Note      *string          `json:"note,omitempty" validate:"omitempty,max=500"`
}

// Empty reports whether no field is set.
func (u TransactionUpdate) Empty() bool {
	return u.Amount == nil && u.Direction == nil && u.Date == nil && u.Note == nil
}
