package transactions

import (
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/service/cloudsync"
	"github.com/amirasaad/debtfree/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the transaction endpoints.
//
// Routes:
//   - GET    /transactions              : List every transaction.
//   - GET    /transactions/:id          : Get one transaction.
//   - PUT    /transactions/:id          : Edit a transaction, keeping its prior state in the history.
//   - DELETE /transactions/:id          : Delete a transaction and its history.
//   - GET    /transactions/:id/history  : List prior states, most recent first.
func Routes(app *fiber.App, syncSvc *cloudsync.Coordinator) {
	app.Get("/transactions", ListTransactions(syncSvc))
	app.Get("/transactions/:id", GetTransaction(syncSvc))
	app.Put("/transactions/:id", UpdateTransaction(syncSvc))
	app.Delete("/transactions/:id", DeleteTransaction(syncSvc))
	app.Get("/transactions/:id/history", GetHistory(syncSvc))
}

func ListTransactions(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txs, err := syncSvc.Ledger().GetAllTransactions(c.UserContext())
		if err != nil {
			log.Errorf("Failed to list transactions: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", dto.MapSlice(txs, dto.ToTransactionRead))
	}
}

func GetTransaction(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		tx, err := syncSvc.Ledger().GetTransaction(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", dto.ToTransactionRead(tx))
	}
}

func UpdateTransaction(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[dto.TransactionUpdate](c)
		if input == nil {
			return err
		}
		tx, err := syncSvc.UpdateTransaction(c.UserContext(), id, *input)
		if tx == nil {
			log.Errorf("Failed to update transaction %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to update transaction", err)
		}
		return common.WriteResponseJSON(c, fiber.StatusOK, "Transaction updated", dto.ToTransactionRead(tx), err)
	}
}

func DeleteTransaction(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		err = syncSvc.DeleteTransaction(c.UserContext(), id)
		if err != nil && !common.IsRemoteOnly(err) {
			log.Errorf("Failed to delete transaction %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to delete transaction", err)
		}
		return common.WriteResponseJSON(c, fiber.StatusOK, "Transaction deleted", nil, err)
	}
}

func GetHistory(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		history, err := syncSvc.Ledger().GetTransactionHistory(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get history", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "History fetched", dto.MapSlice(history, dto.ToHistoryRead))
	}
}
