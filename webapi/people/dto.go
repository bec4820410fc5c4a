package people

import (
	"time"

	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of POST /people/:id/transactions.
type TransactionRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction" validate:"required"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note" validate:"max=500"`
}

func (r TransactionRequest) toCreate(personID uuid.UUID) dto.TransactionCreate {
	return dto.TransactionCreate{
		PersonID:  personID,
		Amount:    r.Amount,
		Direction: r.Direction,
		Date:      r.Date,
		Note:      r.Note,
	}
}
