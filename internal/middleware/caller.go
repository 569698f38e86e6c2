package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/solo_wallet/internal/wallet"
)

// CallerIdentity copies the principal asserted by the hosting environment
// from header into the request locals. The header is trusted as authentic;
// an absent header yields an empty caller, which the wallet rejects on every
// owner-gated operation.
func CallerIdentity(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := strings.TrimSpace(c.Get(header))
		c.Locals(wallet.CallerLocal, caller)
		return c.Next()
	}
}
