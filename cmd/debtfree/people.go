package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/amirasaad/debtfree/pkg/app"
	"github.com/amirasaad/debtfree/pkg/domain/balance"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/google/subcommands"
)

type peopleCmd struct{}

func (*peopleCmd) Name() string     { return "people" }
func (*peopleCmd) Synopsis() string { return "list people and what each owes" }
func (*peopleCmd) Usage() string {
	return `debtfree people

  Lists every person with their net balance, largest first.
`
}
func (*peopleCmd) SetFlags(*flag.FlagSet) {}

func (c *peopleCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return run(ctx, args, func(a *app.App) error {
		people, _, err := a.Ledger.Summary(ctx)
		if err != nil {
			return err
		}
		balance.SortByMagnitude(people)
		renderPeople(stdout, people, a.Ledger.Currency())
		return nil
	})
}

type addPersonCmd struct {
	name  string
	phone string
	notes string
}

func (*addPersonCmd) Name() string     { return "add-person" }
func (*addPersonCmd) Synopsis() string { return "add a person to the ledger" }
func (*addPersonCmd) Usage() string {
	return `debtfree add-person -name <name> [-phone <phone>] [-notes <notes>]
`
}

func (c *addPersonCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the person (required)")
	f.StringVar(&c.phone, "phone", "", "Phone number")
	f.StringVar(&c.notes, "notes", "", "Free-form notes")
}

func (c *addPersonCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return run(ctx, args, func(a *app.App) error {
		p, err := a.Sync.AddPerson(ctx, dto.PersonCreate{Name: c.name, Phone: c.phone, Notes: c.notes})
		if p == nil {
			return err
		}
		saved(fmt.Sprintf("Added %s (%s)", p.Name, p.ID), err)
		return nil
	})
}

type editPersonCmd struct {
	name  string
	phone string
	notes string
}

func (*editPersonCmd) Name() string     { return "edit-person" }
func (*editPersonCmd) Synopsis() string { return "change a person's details" }
func (*editPersonCmd) Usage() string {
	return `debtfree edit-person [-name <name>] [-phone <phone>] [-notes <notes>] <person-id>

  Only the flags given are changed.
`
}

func (c *editPersonCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New name")
	f.StringVar(&c.phone, "phone", "", "New phone number")
	f.StringVar(&c.notes, "notes", "", "New notes")
}

func (c *editPersonCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	id, err := parseID(f.Args(), "person")
	if err != nil {
		return usage(c, err)
	}
	var in dto.PersonUpdate
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			in.Name = &c.name
		case "phone":
			in.Phone = &c.phone
		case "notes":
			in.Notes = &c.notes
		}
	})
	return run(ctx, args, func(a *app.App) error {
		p, err := a.Sync.UpdatePerson(ctx, id, in)
		if p == nil {
			return err
		}
		saved("Updated "+p.Name, err)
		return nil
	})
}

type rmPersonCmd struct{}

func (*rmPersonCmd) Name() string     { return "rm-person" }
func (*rmPersonCmd) Synopsis() string { return "delete a person and all their transactions" }
func (*rmPersonCmd) Usage() string {
	return `debtfree rm-person <person-id>
`
}
func (*rmPersonCmd) SetFlags(*flag.FlagSet) {}

func (c *rmPersonCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	id, err := parseID(f.Args(), "person")
	if err != nil {
		return usage(c, err)
	}
	return run(ctx, args, func(a *app.App) error {
		err := a.Sync.DeletePerson(ctx, id)
		if err != nil && !remoteOnly(err) {
			return err
		}
		saved("Deleted person "+id.String(), err)
		return nil
	})
}
