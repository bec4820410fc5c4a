// Package webapi serves the ledger as a local JSON API. It is organized into
// sub-packages per resource:
// - people: People and their transactions
// - transactions: Transaction edits and history
// - cards: Wallet cards
// - balances: Balance summary and sync status
package webapi

import (
	"errors"
	"strings"
	"time"

	"github.com/amirasaad/debtfree/pkg/app"
	balancesweb "github.com/amirasaad/debtfree/webapi/balances"
	cardsweb "github.com/amirasaad/debtfree/webapi/cards"
	"github.com/amirasaad/debtfree/webapi/common"
	peopleweb "github.com/amirasaad/debtfree/webapi/people"
	transactionsweb "github.com/amirasaad/debtfree/webapi/transactions"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "debtfree",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	maxRequests, window := 100, time.Minute
	if rl := a.Config.RateLimit; rl != nil && rl.MaxRequests > 0 {
		maxRequests, window = rl.MaxRequests, rl.Window
	}
	// Uses X-Forwarded-For header when behind a proxy
	// Falls back to X-Real-IP or direct IP if needed
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				first, _, _ := strings.Cut(forwardedFor, ",")
				return strings.TrimSpace(first)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New(logger.Config{Output: a.Deps.AccessLog}))

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("debtfree API is running")
	})

	peopleweb.Routes(fiberApp, a.Sync)
	transactionsweb.Routes(fiberApp, a.Sync)
	cardsweb.Routes(fiberApp, a.Sync)
	balancesweb.Routes(fiberApp, a.Sync)
	return fiberApp
}
