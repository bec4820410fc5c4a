package people

import (
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/service/cloudsync"
	"github.com/amirasaad/debtfree/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the people endpoints.
//
// Routes:
//   - GET    /people                   : List people, most recent first.
//   - POST   /people                   : Add a person.
//   - GET    /people/:id               : Get one person.
//   - PATCH  /people/:id               : Edit a person.
//   - DELETE /people/:id               : Delete a person and their transactions.
//   - GET    /people/:id/transactions  : List a person's transactions.
//   - POST   /people/:id/transactions  : Record a transaction with a person.
func Routes(app *fiber.App, syncSvc *cloudsync.Coordinator) {
	app.Get("/people", ListPeople(syncSvc))
	app.Post("/people", CreatePerson(syncSvc))
	app.Get("/people/:id", GetPerson(syncSvc))
	app.Patch("/people/:id", UpdatePerson(syncSvc))
	app.Delete("/people/:id", DeletePerson(syncSvc))
	app.Get("/people/:id/transactions", ListTransactions(syncSvc))
	app.Post("/people/:id/transactions", CreateTransaction(syncSvc))
}

func ListPeople(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		people, err := syncSvc.Ledger().GetAllPersons(c.UserContext())
		if err != nil {
			log.Errorf("Failed to list people: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list people", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "People fetched", dto.MapSlice(people, dto.ToPersonRead))
	}
}

func CreatePerson(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.PersonCreate](c)
		if input == nil {
			return err
		}
		p, err := syncSvc.AddPerson(c.UserContext(), *input)
		if p == nil {
			log.Errorf("Failed to add person: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to add person", err)
		}
		return common.WriteResponseJSON(c, fiber.StatusCreated, "Person added", dto.ToPersonRead(p), err)
	}
}

func GetPerson(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		p, err := syncSvc.Ledger().GetPerson(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get person", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Person fetched", dto.ToPersonRead(p))
	}
}

func UpdatePerson(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[dto.PersonUpdate](c)
		if input == nil {
			return err
		}
		p, err := syncSvc.UpdatePerson(c.UserContext(), id, *input)
		if p == nil {
			log.Errorf("Failed to update person %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to update person", err)
		}
		return common.WriteResponseJSON(c, fiber.StatusOK, "Person updated", dto.ToPersonRead(p), err)
	}
}

func DeletePerson(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		err = syncSvc.DeletePerson(c.UserContext(), id)
		if err != nil && !common.IsRemoteOnly(err) {
			log.Errorf("Failed to delete person %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to delete person", err)
		}
		return common.WriteResponseJSON(c, fiber.StatusOK, "Person deleted", nil, err)
	}
}

func ListTransactions(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		if _, err = syncSvc.Ledger().GetPerson(c.UserContext(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		txs, err := syncSvc.Ledger().GetTransactionsByPerson(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", dto.MapSlice(txs, dto.ToTransactionRead))
	}
}

func CreateTransaction(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[TransactionRequest](c)
		if input == nil {
			return err
		}
		tx, err := syncSvc.AddTransaction(c.UserContext(), input.toCreate(id))
		if tx == nil {
			log.Errorf("Failed to add transaction for %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to add transaction", err)
		}
		return common.WriteResponseJSON(c, fiber.StatusCreated, "Transaction added", dto.ToTransactionRead(tx), err)
	}
}
