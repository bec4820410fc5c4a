// Command debtfree keeps a ledger of money lent and borrowed and mirrors it
// to the cloud when signed in.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
)

var envFile = flag.String("env-file", ".env", "Path to the environment file")

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&peopleCmd{}, "people")
	c.Register(&addPersonCmd{}, "people")
	c.Register(&editPersonCmd{}, "people")
	c.Register(&rmPersonCmd{}, "people")

	c.Register(&txsCmd{}, "transactions")
	c.Register(newLendCmd(), "transactions")
	c.Register(newBorrowCmd(), "transactions")
	c.Register(&editTxCmd{}, "transactions")
	c.Register(&rmTxCmd{}, "transactions")
	c.Register(&historyCmd{}, "transactions")

	c.Register(&balanceCmd{}, "balances")
	c.Register(&exportCmd{}, "balances")

	c.Register(&cardsCmd{}, "cards")
	c.Register(&addCardCmd{}, "cards")
	c.Register(&rmCardCmd{}, "cards")

	c.Register(&syncCmd{}, "sync")
	c.Register(&serveCmd{}, "sync")
}

func main() {
	register(subcommands.DefaultCommander)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	e := &env{envFile: *envFile}
	status := subcommands.Execute(ctx, e)
	e.close()
	stop()
	os.Exit(int(status))
}
