// Package ledger holds the debt-tracking entities: people, the transactions
// recorded against them, the edit history of those transactions, and the
// unrelated payment-card wallet that shares the same store.
package ledger

import (
	"fmt"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinorUnitScale is the number of decimal places kept for amounts.
const MinorUnitScale = 2

var (
	// ErrNameRequired is returned when a person is created or renamed with an empty name.
	ErrNameRequired = fmt.Errorf("%w: name is required", domain.ErrValidation)
	// ErrAmountMustBePositive is returned when a transaction amount is zero or negative.
	ErrAmountMustBePositive = fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	// ErrAmountTooLarge is returned when an amount does not fit in int64 minor units.
	ErrAmountTooLarge = fmt.Errorf("%w: amount too large", domain.ErrValidation)
	// ErrInvalidDirection is returned for a direction other than LENT or BORROWED.
	ErrInvalidDirection = fmt.Errorf("%w: invalid direction", domain.ErrValidation)
	// ErrInvalidCardType is returned for a card type outside VISA, MASTERCARD, RUPAY.
	ErrInvalidCardType = fmt.Errorf("%w: invalid card type", domain.ErrValidation)
	// ErrMissingPerson is returned when a transaction has no person.
	ErrMissingPerson = fmt.Errorf("%w: person is required", domain.ErrValidation)
)

// NewID mints a time-ordered UUIDv7. Ids are unique across devices, so the
// same value is used verbatim as the remote document key.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Timestamp normalizes t to UTC at millisecond precision, the resolution kept
// by the remote mirror. Without it a record that round-trips through the
// mirror would no longer compare equal to its local copy.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Now returns the current time as a Timestamp.
func Now() time.Time {
	return Timestamp(time.Now())
}

// NormalizeAmount rounds amount to minor units and checks that it is
// positive and storable.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(MinorUnitScale)
	if !amount.IsPositive() {
		return decimal.Zero, ErrAmountMustBePositive
	}
	if !amount.Shift(MinorUnitScale).BigInt().IsInt64() {
		return decimal.Zero, ErrAmountTooLarge
	}
	return amount, nil
}

// ToMinorUnits converts an amount to integer minor units (e.g. paise).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(MinorUnitScale).Round(0).IntPart()
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, -MinorUnitScale)
}
