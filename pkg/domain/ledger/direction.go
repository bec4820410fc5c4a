package ledger

import "strings"

// Direction tells who handed money to whom.
type Direction string

const (
	// Lent means the user gave money; the counterparty owes it back.
	Lent Direction = "LENT"
	// Borrowed means the user received money; the user owes it back.
	Borrowed Direction = "BORROWED"
)

// Legacy names written by the first mobile client.
const (
	legacyGave = "YOU_GAVE"
	legacyGot  = "YOU_GOT"
)

// ParseDirection parses a direction, accepting the legacy YOU_GAVE/YOU_GOT names.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Lent), legacyGave:
		return Lent, nil
	case string(Borrowed), legacyGot:
		return Borrowed, nil
	default:
		return "", ErrInvalidDirection
	}
}

// Valid reports whether d is LENT or BORROWED.
func (d Direction) Valid() bool {
	return d == Lent || d == Borrowed
}

func (d Direction) String() string {
	return string(d)
}
