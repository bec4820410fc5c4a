package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/amirasaad/debtfree/pkg/app"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/google/subcommands"
)

type cardsCmd struct{}

func (*cardsCmd) Name() string     { return "cards" }
func (*cardsCmd) Synopsis() string { return "list saved cards" }
func (*cardsCmd) Usage() string {
	return `debtfree cards
`
}
func (*cardsCmd) SetFlags(*flag.FlagSet) {}

func (c *cardsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return run(ctx, args, func(a *app.App) error {
		cards, err := a.Ledger.GetAllCards(ctx)
		if err != nil {
			return err
		}
		renderCards(stdout, cards)
		return nil
	})
}

type addCardCmd struct {
	in dto.CardCreate
}

func (*addCardCmd) Name() string     { return "add-card" }
func (*addCardCmd) Synopsis() string { return "save a payment card" }
func (*addCardCmd) Usage() string {
	return `debtfree add-card -name <name> -number <number> -type VISA|MASTERCARD|RUPAY [-holder <name>] [-expiry MM/YY] [-cvv <cvv>] [-color <color>]
`
}

func (c *addCardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in.Name, "name", "", "Label of the card (required)")
	f.StringVar(&c.in.Number, "number", "", "Card number (required)")
	f.StringVar(&c.in.Type, "type", "", "Card network (required)")
	f.StringVar(&c.in.NameOnCard, "holder", "", "Name printed on the card")
	f.StringVar(&c.in.Expiry, "expiry", "", "Expiry as MM/YY")
	f.StringVar(&c.in.CVV, "cvv", "", "Security code")
	f.StringVar(&c.in.Color, "color", "", "Display color")
}

func (c *addCardCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return run(ctx, args, func(a *app.App) error {
		card, err := a.Sync.AddCard(ctx, c.in)
		if card == nil {
			return err
		}
		saved(fmt.Sprintf("Saved %s %s (%s)", card.Name, card.MaskedNumber(), card.ID), err)
		return nil
	})
}

type rmCardCmd struct{}

func (*rmCardCmd) Name() string     { return "rm-card" }
func (*rmCardCmd) Synopsis() string { return "delete a saved card" }
func (*rmCardCmd) Usage() string {
	return `debtfree rm-card <card-id>
`
}
func (*rmCardCmd) SetFlags(*flag.FlagSet) {}

func (c *rmCardCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	id, err := parseID(f.Args(), "card")
	if err != nil {
		return usage(c, err)
	}
	return run(ctx, args, func(a *app.App) error {
		err := a.Sync.DeleteCard(ctx, id)
		if err != nil && !remoteOnly(err) {
			return err
		}
		saved("Deleted card "+id.String(), err)
		return nil
	})
}
