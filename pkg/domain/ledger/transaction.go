package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single amount lent to or borrowed from a person.
//
// Invariants:
// - Amount is always positive; the sign is derived from Direction.
// - Date is user-assigned and may differ from CreatedAt.
type Transaction struct {
	ID        uuid.UUID
	PersonID  uuid.UUID
	Amount    decimal.Decimal
	Direction Direction
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

// NewTransaction validates the inputs and creates a Transaction with a fresh id.
// A zero date defaults to the creation time.
func NewTransaction(
	personID uuid.UUID,
	amount decimal.Decimal,
	direction Direction,
	date time.Time,
	note string,
) (*Transaction, error) {
	if personID == uuid.Nil {
		return nil, ErrMissingPerson
	}
	tx := &Transaction{
		ID:        NewID(),
		PersonID:  personID,
		CreatedAt: Now(),
	}
	if err := tx.Revise(amount, direction, date, note); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTransactionFromData creates a Transaction from raw data (used for DB
// hydration and replicated documents). It bypasses validation.
func NewTransactionFromData(
	id, personID uuid.UUID,
	amount decimal.Decimal,
	direction Direction,
	date time.Time,
	note string,
	created time.Time,
) *Transaction {
	return &Transaction{
		ID:        id,
		PersonID:  personID,
		Amount:    amount,
		Direction: direction,
		Date:      date,
		Note:      note,
		CreatedAt: created,
	}
}

// Revise overwrites the editable fields after validating them. The receiver
// is left untouched when validation fails.
func (t *Transaction) Revise(
	amount decimal.Decimal,
	direction Direction,
	date time.Time,
	note string,
) error {
	amount, err := NormalizeAmount(amount)
	if err != nil {
		return err
	}
	if !direction.Valid() {
		return ErrInvalidDirection
	}
	if date.IsZero() {
		date = t.CreatedAt
	}
	t.Amount = amount
	t.Direction = direction
	t.Date = Timestamp(date)
	t.Note = strings.TrimSpace(note)
	return nil
}

// Signed returns the amount with its balance sign: positive when lent,
// negative when borrowed.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Direction == Borrowed {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Snapshot captures the current editable state as a history entry.
func (t *Transaction) Snapshot(changedAt time.Time) *TransactionHistory {
	return &TransactionHistory{
		ID:                NewID(),
		TransactionID:     t.ID,
		PreviousAmount:    t.Amount,
		PreviousDirection: t.Direction,
		PreviousDate:      t.Date,
		PreviousNote:      t.Note,
		ChangedAt:         Timestamp(changedAt),
	}
}

// SameAs reports whether both records hold the same field values.
func (t *Transaction) SameAs(o *Transaction) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.ID == o.ID &&
		t.PersonID == o.PersonID &&
		t.Amount.Equal(o.Amount) &&
		t.Direction == o.Direction &&
		t.Date.Equal(o.Date) &&
		t.Note == o.Note &&
		t.CreatedAt.Equal(o.CreatedAt)
}

// SameContent is SameAs restricted to the fields an edit can change.
func (t *Transaction) SameContent(o *Transaction) bool {
	return t.Amount.Equal(o.Amount) &&
		t.Direction == o.Direction &&
		t.Date.Equal(o.Date) &&
		t.Note == o.Note
}

// TransactionHistory is an append-only snapshot of a transaction's state
// taken right before an edit.
type TransactionHistory struct {
	ID                uuid.UUID
	TransactionID     uuid.UUID
	PreviousAmount    decimal.Decimal
	PreviousDirection Direction
	PreviousDate      time.Time
	PreviousNote      string
	ChangedAt         time.Time
}
