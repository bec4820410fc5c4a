// Package export writes the ledger to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain/balance"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	BalancesSheet     = "Balances"
	TransactionsSheet = "Transactions"
)

// amountFormat is the built-in "#,##0.00" number format.
const amountFormat = 4

// Ledger is the data one workbook holds.
type Ledger struct {
	Balances     []balance.PersonBalance
	Global       balance.GlobalBalance
	Transactions []*ledger.Transaction
	Currency     string
}

// Write renders l as an .xlsx workbook to w.
func Write(w io.Writer, l Ledger) error {
	f, err := Workbook(l)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook: one sheet of balances and one of
// transactions.
func Workbook(l Ledger) (*excelize.File, error) {
	f := excelize.NewFile()
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export: %w", err)
	}
	headStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export: %w", err)
	}

	if err := f.SetSheetName("Sheet1", BalancesSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := writeBalances(f, l, headStyle, amountStyle); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(TransactionsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := writeTransactions(f, l, headStyle, amountStyle); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func writeBalances(f *excelize.File, l Ledger, headStyle, amountStyle int) error {
	sheet := BalancesSheet
	header := []any{"Name", "Phone", "Net", "Status"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	row := 2
	for _, pb := range l.Balances {
		status := "Settled"
		switch {
		case pb.OwesMe:
			status = "Owes you"
		case pb.IOwe:
			status = "You owe"
		}
		values := []any{pb.Person.Name, pb.Person.Phone, pb.NetBalance.InexactFloat64(), status}
		if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		row++
	}

	row++
	totals := [][]any{
		{"Total lent", "", l.Global.TotalLent.InexactFloat64()},
		{"Total borrowed", "", l.Global.TotalBorrowed.InexactFloat64()},
		{"Net", "", l.Global.GlobalNet.InexactFloat64(), l.Global.Message},
	}
	for _, values := range totals {
		if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell("A", row), cell("A", row), headStyle); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		row++
	}

	if err := f.SetCellStyle(sheet, "A1", "D1", headStyle); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetCellStyle(sheet, "C2", cell("C", row), amountStyle); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for col, width := range map[string]float64{"A": 24, "B": 16, "C": 14, "D": 40} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}

func writeTransactions(f *excelize.File, l Ledger, headStyle, amountStyle int) error {
	sheet := TransactionsSheet
	names := make(map[uuid.UUID]string, len(l.Balances))
	for _, pb := range l.Balances {
		names[pb.Person.ID] = pb.Person.Name
	}

	header := []any{"Date", "Person", "Direction", "Amount", fmt.Sprintf("Signed (%s)", l.Currency), "Note"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for i, tx := range l.Transactions {
		values := []any{
			tx.Date.In(time.Local).Format(time.DateOnly),
			names[tx.PersonID],
			tx.Direction.String(),
			tx.Amount.InexactFloat64(),
			tx.Signed().InexactFloat64(),
			tx.Note,
		}
		if err := f.SetSheetRow(sheet, cell("A", i+2), &values); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	last := len(l.Transactions) + 1
	if err := f.SetCellStyle(sheet, "A1", "F1", headStyle); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetCellStyle(sheet, "D2", cell("E", max(last, 2)), amountStyle); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for col, width := range map[string]float64{"A": 12, "B": 24, "C": 12, "D": 14, "E": 14, "F": 40} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
