package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// CallerLocal is the fiber Locals key holding the authenticated caller.
const CallerLocal = "caller_id"

// CallerFrom returns the caller identity placed on the request by the
// caller identity middleware, or "" when absent.
func CallerFrom(c *fiber.Ctx) string {
	caller, _ := c.Locals(CallerLocal).(string)
	return caller
}

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	store *Store
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type setBalanceRequest struct {
	NewBalance *uint64 `json:"new_balance"`
}

type sendRequest struct {
	Amount *uint64 `json:"amount"`
	To     *string `json:"to"`
}

type receiveRequest struct {
	Amount *uint64 `json:"amount"`
}

type setOwnerRequest struct {
	NewOwner string `json:"new_owner"`
}

// SetBalance overrides the balance.
func (h *Handler) SetBalance(c *fiber.Ctx) error {
	var req setBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.NewBalance == nil {
		return fiber.NewError(http.StatusBadRequest, "new_balance is required")
	}
	if err := h.store.SetBalance(c.UserContext(), CallerFrom(c), *req.NewBalance); err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Send debits the balance and forwards the optional recipient.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Amount == nil {
		return fiber.NewError(http.StatusBadRequest, "amount is required")
	}
	if err := h.store.SendTokens(c.UserContext(), CallerFrom(c), *req.Amount, req.To); err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Receive credits the balance.
func (h *Handler) Receive(c *fiber.Ctx) error {
	var req receiveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Amount == nil {
		return fiber.NewError(http.StatusBadRequest, "amount is required")
	}
	if err := h.store.ReceiveTokens(c.UserContext(), CallerFrom(c), *req.Amount); err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Balance returns the current balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"balance": h.store.Balance()})
}

// SetOwner transfers ownership of the wallet.
func (h *Handler) SetOwner(c *fiber.Ctx) error {
	var req setOwnerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.SetOwner(c.UserContext(), CallerFrom(c), req.NewOwner); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Owner returns the current owner identity.
func (h *Handler) Owner(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"owner": h.store.Owner()})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInsufficientBalance):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrOverflow):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalidIdentity):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
