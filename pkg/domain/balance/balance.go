// Package balance derives per-person and overall net positions from a set of
// transactions. Everything here is a pure function of its inputs.
package balance

import (
	"fmt"
	"slices"

	"github.com/Rhymond/go-money"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used to render amounts when no currency is configured.
const DefaultCurrency = money.INR

// Color is the presentation hint attached to the overall balance.
type Color string

const (
	Red   Color = "red"
	Green Color = "green"
)

// PersonBalance is the net position against one person. Exactly one of
// OwesMe, IOwe and Settled is true.
type PersonBalance struct {
	Person        *ledger.Person
	NetBalance    decimal.Decimal
	OwesMe        bool
	IOwe          bool
	Settled       bool
	DisplayAmount decimal.Decimal
}

// GlobalBalance is the net position across every person.
type GlobalBalance struct {
	GlobalNet     decimal.Decimal
	TotalLent     decimal.Decimal
	TotalBorrowed decimal.Decimal
	Message       string
	Color         Color
}

// CalculatePersonBalance sums lent minus borrowed over txs. Transactions are
// expected to belong to person; no filtering is done.
func CalculatePersonBalance(person *ledger.Person, txs []*ledger.Transaction) PersonBalance {
	net := decimal.Zero
	for _, tx := range txs {
		net = net.Add(tx.Signed())
	}
	return PersonBalance{
		Person:        person,
		NetBalance:    net,
		OwesMe:        net.IsPositive(),
		IOwe:          net.IsNegative(),
		Settled:       net.IsZero(),
		DisplayAmount: net.Abs(),
	}
}

type options struct {
	currency string
}

// Option configures CalculateGlobalBalance.
type Option func(*options)

// WithCurrency sets the ISO 4217 code used in the balance message.
// Unknown codes fall back to DefaultCurrency.
func WithCurrency(code string) Option {
	return func(o *options) {
		if code != "" && money.GetCurrency(code) != nil {
			o.currency = code
		}
	}
}

// CalculateGlobalBalance aggregates per-person balances and builds the
// headline message.
func CalculateGlobalBalance(balances []PersonBalance, opts ...Option) GlobalBalance {
	o := options{currency: DefaultCurrency}
	for _, opt := range opts {
		opt(&o)
	}

	g := GlobalBalance{
		GlobalNet:     decimal.Zero,
		TotalLent:     decimal.Zero,
		TotalBorrowed: decimal.Zero,
	}
	for _, b := range balances {
		g.GlobalNet = g.GlobalNet.Add(b.NetBalance)
		switch {
		case b.NetBalance.IsPositive():
			g.TotalLent = g.TotalLent.Add(b.NetBalance)
		case b.NetBalance.IsNegative():
			g.TotalBorrowed = g.TotalBorrowed.Add(b.NetBalance.Abs())
		}
	}

	switch {
	case g.GlobalNet.IsNegative():
		g.Message = fmt.Sprintf("You are in debt. Pay %s to be debt-free", Format(g.GlobalNet.Abs(), o.currency))
		g.Color = Red
	case g.GlobalNet.IsZero():
		g.Message = "You are free of debt"
		g.Color = Green
	default:
		g.Message = fmt.Sprintf("You will receive %s", Format(g.GlobalNet, o.currency))
		g.Color = Green
	}
	return g
}

// Format renders amount in the given currency, e.g. ₹1,500.00. Amounts are
// rounded to the currency's own number of decimals.
func Format(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	units := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(units, cur.Code).Display()
}

// Summarize groups txs by person and returns one balance per person, in the
// order persons are given. Transactions of unknown persons are ignored.
func Summarize(persons []*ledger.Person, txs []*ledger.Transaction) []PersonBalance {
	byPerson := make(map[uuid.UUID][]*ledger.Transaction, len(persons))
	for _, tx := range txs {
		byPerson[tx.PersonID] = append(byPerson[tx.PersonID], tx)
	}
	out := make([]PersonBalance, 0, len(persons))
	for _, p := range persons {
		out = append(out, CalculatePersonBalance(p, byPerson[p.ID]))
	}
	return out
}

// SortByMagnitude orders balances by absolute net balance, largest first.
// Equal magnitudes keep their relative order.
func SortByMagnitude(balances []PersonBalance) {
	slices.SortStableFunc(balances, func(a, b PersonBalance) int {
		return b.DisplayAmount.Cmp(a.DisplayAmount)
	})
}
