package main

import (
	"fmt"
	"io"

	"github.com/amirasaad/debtfree/pkg/domain/balance"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func renderPeople(w io.Writer, balances []balance.PersonBalance, currency string) {
	if len(balances) == 0 {
		fmt.Fprintln(w, "No people yet.")
		return
	}
	t := newTable("ID", "Name", "Phone", "Balance", "Status")
	for _, b := range balances {
		t.Row(b.Person.ID.String(), b.Person.Name, b.Person.Phone,
			balance.Format(b.DisplayAmount, currency), status(b))
	}
	fmt.Fprintln(w, t)
}

func renderTransactions(w io.Writer, txs []*ledger.Transaction, names map[uuid.UUID]string, currency string) {
	if len(txs) == 0 {
		fmt.Fprintln(w, "No transactions.")
		return
	}
	t := newTable("ID", "Person", "Date", "Direction", "Amount", "Note")
	for _, tx := range txs {
		t.Row(tx.ID.String(), names[tx.PersonID], tx.Date.Format(dateLayout),
			tx.Direction.String(), balance.Format(tx.Amount, currency), tx.Note)
	}
	fmt.Fprintln(w, t)
}

func renderHistory(w io.Writer, current *ledger.Transaction, history []*ledger.TransactionHistory, currency string) {
	fmt.Fprintf(w, "Current: %s %s on %s %s\n", current.Direction, balance.Format(current.Amount, currency),
		current.Date.Format(dateLayout), current.Note)
	if len(history) == 0 {
		fmt.Fprintln(w, "Never edited.")
		return
	}
	t := newTable("Changed", "Direction", "Amount", "Date", "Note")
	for _, h := range history {
		t.Row(h.ChangedAt.Format("2006-01-02 15:04"), h.PreviousDirection.String(),
			balance.Format(h.PreviousAmount, currency), h.PreviousDate.Format(dateLayout), h.PreviousNote)
	}
	fmt.Fprintln(w, t)
}

func renderCards(w io.Writer, cards []*ledger.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards.")
		return
	}
	t := newTable("ID", "Name", "Type", "Number", "Expiry")
	for _, c := range cards {
		t.Row(c.ID.String(), c.Name, string(c.Type), c.MaskedNumber(), c.Expiry)
	}
	fmt.Fprintln(w, t)
}

func renderSummary(w io.Writer, people []balance.PersonBalance, global balance.GlobalBalance, currency string) {
	renderPeople(w, people, currency)
	fmt.Fprintf(w, "Lent %s, borrowed %s\n",
		balance.Format(global.TotalLent, currency), balance.Format(global.TotalBorrowed, currency))
	c := color.New(color.FgGreen, color.Bold)
	if global.Color == balance.Red {
		c = color.New(color.FgRed, color.Bold)
	}
	c.Fprintln(w, global.Message) //nolint:errcheck
}

func status(b balance.PersonBalance) string {
	switch {
	case b.OwesMe:
		return "owes you"
	case b.IOwe:
		return "you owe"
	default:
		return "settled"
	}
}
