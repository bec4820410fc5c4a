package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/amirasaad/debtfree/pkg/app"
	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type txsCmd struct {
	person string
}

func (*txsCmd) Name() string     { return "txs" }
func (*txsCmd) Synopsis() string { return "list transactions, newest first" }
func (*txsCmd) Usage() string {
	return `debtfree txs [-person <person-id>]
`
}

func (c *txsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.person, "person", "", "Only list transactions with this person")
}

func (c *txsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	var personID uuid.UUID
	if c.person != "" {
		id, err := parseID([]string{c.person}, "person")
		if err != nil {
			return usage(c, err)
		}
		personID = id
	}
	return run(ctx, args, func(a *app.App) error {
		var (
			txs []*ledger.Transaction
			err error
		)
		if personID != uuid.Nil {
			txs, err = a.Ledger.GetTransactionsByPerson(ctx, personID)
		} else {
			txs, err = a.Ledger.GetAllTransactions(ctx)
		}
		if err != nil {
			return err
		}
		names, err := personNames(ctx, a)
		if err != nil {
			return err
		}
		renderTransactions(stdout, txs, names, a.Ledger.Currency())
		return nil
	})
}

func personNames(ctx context.Context, a *app.App) (map[uuid.UUID]string, error) {
	people, err := a.Ledger.GetAllPersons(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}
	return names, nil
}

// txCmd records money lent to or borrowed from a person.
type txCmd struct {
	direction ledger.Direction
	name      string
	synopsis  string

	amount string
	date   string
	note   string
}

func newLendCmd() *txCmd {
	return &txCmd{direction: ledger.Lent, name: "lend", synopsis: "record money you gave to a person"}
}

func newBorrowCmd() *txCmd {
	return &txCmd{direction: ledger.Borrowed, name: "borrow", synopsis: "record money you received from a person"}
}

func (c *txCmd) Name() string     { return c.name }
func (c *txCmd) Synopsis() string { return c.synopsis }
func (c *txCmd) Usage() string {
	return fmt.Sprintf(`debtfree %s -amount <amount> [-date YYYY-MM-DD] [-note <note>] <person-id>
`, c.name)
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Amount in main units, e.g. 1500.50 (required)")
	f.StringVar(&c.date, "date", "", "Date of the transaction. Defaults to now.")
	f.StringVar(&c.note, "note", "", "Free-form note")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	personID, err := parseID(f.Args(), "person")
	if err != nil {
		return usage(c, err)
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return usage(c, err)
	}
	date, err := parseDate(c.date)
	if err != nil {
		return usage(c, err)
	}
	return run(ctx, args, func(a *app.App) error {
		tx, err := a.Sync.AddTransaction(ctx, dto.TransactionCreate{
			PersonID:  personID,
			Amount:    amount,
			Direction: string(c.direction),
			Date:      date,
			Note:      c.note,
		})
		if tx == nil {
			return err
		}
		saved(fmt.Sprintf("Recorded %s (%s)", tx.Direction, tx.ID), err)
		return nil
	})
}

type editTxCmd struct {
	amount    string
	direction string
	date      string
	note      string
}

func (*editTxCmd) Name() string { return "edit-tx" }
func (*editTxCmd) Synopsis() string {
	return "edit a transaction, keeping its previous state in history"
}
func (*editTxCmd) Usage() string {
	return `debtfree edit-tx [-amount <amount>] [-direction LENT|BORROWED] [-date YYYY-MM-DD] [-note <note>] <tx-id>

  Only the flags given are changed.
`
}

func (c *editTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "New amount")
	f.StringVar(&c.direction, "direction", "", "New direction, LENT or BORROWED")
	f.StringVar(&c.date, "date", "", "New date")
	f.StringVar(&c.note, "note", "", "New note")
}

func (c *editTxCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	id, err := parseID(f.Args(), "transaction")
	if err != nil {
		return usage(c, err)
	}
	in, err := c.update(f)
	if err != nil {
		return usage(c, err)
	}
	return run(ctx, args, func(a *app.App) error {
		tx, err := a.Sync.UpdateTransaction(ctx, id, in)
		if tx == nil {
			return err
		}
		saved("Updated transaction "+tx.ID.String(), err)
		return nil
	})
}

func (c *editTxCmd) update(f *flag.FlagSet) (dto.TransactionUpdate, error) {
	var (
		in   dto.TransactionUpdate
		errs []error
	)
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "amount":
			amount, err := parseAmount(c.amount)
			errs = append(errs, err)
			in.Amount = &amount
		case "direction":
			in.Direction = &c.direction
		case "date":
			date, err := parseDate(c.date)
			errs = append(errs, err)
			in.Date = &date
		case "note":
			in.Note = &c.note
		}
	})
	return in, errors.Join(errs...)
}

type rmTxCmd struct{}

func (*rmTxCmd) Name() string     { return "rm-tx" }
func (*rmTxCmd) Synopsis() string { return "delete a transaction" }
func (*rmTxCmd) Usage() string {
	return `debtfree rm-tx <tx-id>
`
}
func (*rmTxCmd) SetFlags(*flag.FlagSet) {}

func (c *rmTxCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	id, err := parseID(f.Args(), "transaction")
	if err != nil {
		return usage(c, err)
	}
	return run(ctx, args, func(a *app.App) error {
		err := a.Sync.DeleteTransaction(ctx, id)
		if err != nil && !remoteOnly(err) {
			return err
		}
		saved("Deleted transaction "+id.String(), err)
		return nil
	})
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the edit history of a transaction" }
func (*historyCmd) Usage() string {
	return `debtfree history <tx-id>
`
}
func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	id, err := parseID(f.Args(), "transaction")
	if err != nil {
		return usage(c, err)
	}
	return run(ctx, args, func(a *app.App) error {
		tx, err := a.Ledger.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		history, err := a.Ledger.GetTransactionHistory(ctx, id)
		if err != nil {
			return err
		}
		renderHistory(stdout, tx, history, a.Ledger.Currency())
		return nil
	})
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", domain.ErrValidation)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", domain.ErrValidation, s)
	}
	return d, nil
}

// parseDate parses YYYY-MM-DD in local time. An empty string is the zero
// time, which the ledger replaces with now.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", domain.ErrValidation, s)
	}
	return t, nil
}
