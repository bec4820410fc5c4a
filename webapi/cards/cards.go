package cards

import (
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/service/cloudsync"
	"github.com/amirasaad/debtfree/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers the card endpoints. Card numbers are returned masked.
func Routes(app *fiber.App, syncSvc *cloudsync.Coordinator) {
	app.Get("/cards", ListCards(syncSvc))
	app.Post("/cards", CreateCard(syncSvc))
	app.Get("/cards/:id", GetCard(syncSvc))
	app.Put("/cards/:id", UpdateCard(syncSvc))
	app.Delete("/cards/:id", DeleteCard(syncSvc))
}

func ListCards(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cards, err := syncSvc.Ledger().GetAllCards(c.UserContext())
		if err != nil {
			log.Errorf("Failed to list cards: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to list cards", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Cards fetched", dto.MapSlice(cards, dto.ToCardRead))
	}
}

func CreateCard(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.CardCreate](c)
		if input == nil {
			return err
		}
		card, err := syncSvc.AddCard(c.UserContext(), *input)
		if card == nil {
			log.Errorf("Failed to add card: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to add card", err)
		}
		return common.WriteResponseJSON(c, fiber.StatusCreated, "Card added", dto.ToCardRead(card), err)
	}
}

func GetCard(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		card, err := syncSvc.Ledger().GetCard(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get card", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Card fetched", dto.ToCardRead(card))
	}
}

func UpdateCard(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[dto.CardUpdate](c)
		if input == nil {
			return err
		}
		card, err := syncSvc.UpdateCard(c.UserContext(), id, *input)
		if card == nil {
			log.Errorf("Failed to update card %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to update card", err)
		}
		return common.WriteResponseJSON(c, fiber.StatusOK, "Card updated", dto.ToCardRead(card), err)
	}
}

func DeleteCard(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		err = syncSvc.DeleteCard(c.UserContext(), id)
		if err != nil && !common.IsRemoteOnly(err) {
			log.Errorf("Failed to delete card %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to delete card", err)
		}
		return common.WriteResponseJSON(c, fiber.StatusOK, "Card deleted", nil, err)
	}
}
