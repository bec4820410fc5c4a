package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CardType is the payment network of a card.
type CardType string

// Supported card networks.
const (
	Visa       CardType = "VISA"
	Mastercard CardType = "MASTERCARD"
	RuPay      CardType = "RUPAY"
)

// ParseCardType parses a card network name.
func ParseCardType(s string) (CardType, error) {
	ct := CardType(strings.ToUpper(strings.TrimSpace(s)))
	switch ct {
	case Visa, Mastercard, RuPay:
		return ct, nil
	default:
		return "", ErrInvalidCardType
	}
}

// Card is a payment card kept in the wallet. Cards carry no balance semantics.
type Card struct {
	ID         uuid.UUID
	Name       string
	Number     string
	Type       CardType
	NameOnCard string
	Expiry     string
	CVV        string
	Color      string
	CreatedAt  time.Time
}

// NewCard creates a Card with a fresh id. Field-level validation happens on
// the input DTO; only the network is checked here.
func NewCard(name, number string, cardType CardType, nameOnCard, expiry, cvv, color string) (*Card, error) {
	if _, err := ParseCardType(string(cardType)); err != nil {
		return nil, err
	}
	return &Card{
		ID:         NewID(),
		Name:       strings.TrimSpace(name),
		Number:     strings.ReplaceAll(number, " ", ""),
		Type:       cardType,
		NameOnCard: strings.TrimSpace(nameOnCard),
		Expiry:     strings.TrimSpace(expiry),
		CVV:        cvv,
		Color:      color,
		CreatedAt:  Now(),
	}, nil
}

// MaskedNumber returns the card number with all but the last four digits hidden.
func (c *Card) MaskedNumber() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return strings.Repeat("•", len(c.Number)-4) + c.Number[len(c.Number)-4:]
}

// SameAs reports whether both records hold the same field values.
func (c *Card) SameAs(o *Card) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.ID == o.ID &&
		c.Name == o.Name &&
		c.Number == o.Number &&
		c.Type == o.Type &&
		c.NameOnCard == o.NameOnCard &&
		c.Expiry == o.Expiry &&
		c.CVV == o.CVV &&
		c.Color == o.Color &&
		c.CreatedAt.Equal(o.CreatedAt)
}
