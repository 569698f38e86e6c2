package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/solo_wallet/internal/wallet"
)

// RegisterWalletRoutes wires the wallet operations.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	group := r.Group("/wallet")
	group.Get("/balance", h.Balance)
	group.Put("/balance", h.SetBalance)
	group.Post("/send", h.Send)
	group.Post("/receive", h.Receive)
	group.Get("/owner", h.Owner)
	group.Put("/owner", h.SetOwner)
}
