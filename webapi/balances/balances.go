// Package balances serves the ledger summary and the sync status.
package balances

import (
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/service/cloudsync"
	"github.com/amirasaad/debtfree/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// SyncStatus is the body of GET /sync.
type SyncStatus struct {
	State    string `json:"state"`
	Identity string `json:"identity,omitempty"`
	Parked   int    `json:"parked"`
}

func Routes(app *fiber.App, syncSvc *cloudsync.Coordinator) {
	app.Get("/balances", GetBalances(syncSvc))
	app.Get("/sync", GetSyncStatus(syncSvc))
	app.Post("/sync/push", PushAll(syncSvc))
}

func GetBalances(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		people, global, err := syncSvc.Ledger().Summary(c.UserContext())
		if err != nil {
			log.Errorf("Failed to compute balances: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to compute balances", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, global.Message, dto.ToSummaryRead(people, global))
	}
}

func GetSyncStatus(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := syncSvc.Status()
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Sync status", SyncStatus{
			State:    st.State.String(),
			Identity: st.Identity,
			Parked:   st.Parked,
		})
	}
}

func PushAll(syncSvc *cloudsync.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := syncSvc.PushAll(c.UserContext()); err != nil {
			log.Errorf("Failed to push ledger: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to push ledger", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Ledger pushed", nil)
	}
}
