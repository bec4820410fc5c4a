package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/amirasaad/debtfree/infra/export"
	"github.com/amirasaad/debtfree/pkg/app"
	"github.com/amirasaad/debtfree/pkg/domain/balance"
	"github.com/google/subcommands"
)

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show the overall balance" }
func (*balanceCmd) Usage() string {
	return `debtfree balance

  Shows every person's balance and the overall position.
`
}
func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return run(ctx, args, func(a *app.App) error {
		people, global, err := a.Ledger.Summary(ctx)
		if err != nil {
			return err
		}
		balance.SortByMagnitude(people)
		renderSummary(stdout, people, global, a.Ledger.Currency())
		return nil
	})
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export balances and transactions to an Excel workbook" }
func (*exportCmd) Usage() string {
	return `debtfree export [-o <file.xlsx>]
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "debtfree.xlsx", "Output file")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return run(ctx, args, func(a *app.App) error {
		people, global, err := a.Ledger.Summary(ctx)
		if err != nil {
			return err
		}
		txs, err := a.Ledger.GetAllTransactions(ctx)
		if err != nil {
			return err
		}
		f, err := os.Create(c.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.output, err)
		}
		err = export.Write(f, export.Ledger{
			Balances:     people,
			Global:       global,
			Transactions: txs,
			Currency:     a.Ledger.Currency(),
		})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		successColor.Fprintf(stdout, "Exported %d people and %d transactions to %s\n", //nolint:errcheck
			len(people), len(txs), c.output)
		return nil
	})
}
