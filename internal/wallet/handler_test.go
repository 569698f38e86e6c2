package wallet

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func setupHandlerApp(t *testing.T) (*fiber.App, *Store) {
	t.Helper()
	store := newTestStore(t)
	h := NewHandler(store)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(CallerLocal, c.Get("X-Caller-ID"))
		return c.Next()
	})
	app.Put("/wallet/balance", h.SetBalance)
	app.Get("/wallet/balance", h.Balance)
	app.Post("/wallet/send", h.Send)
	app.Post("/wallet/receive", h.Receive)
	app.Put("/wallet/owner", h.SetOwner)
	app.Get("/wallet/owner", h.Owner)
	return app, store
}

func doRequest(t *testing.T, app *fiber.App, method, path, caller, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if caller != "" {
		req.Header.Set("X-Caller-ID", caller)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	decoded := map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &decoded); err != nil {
			t.Fatalf("invalid json %q: %v", string(payload), err)
		}
	}
	return resp.StatusCode, decoded
}

func TestHandlerScenario(t *testing.T) {
	app, store := setupHandlerApp(t)

	status, _ := doRequest(t, app, http.MethodPut, "/wallet/balance", testOwner, `{"new_balance":100}`)
	if status != http.StatusOK {
		t.Fatalf("set balance: expected 200 got %d", status)
	}

	status, _ = doRequest(t, app, http.MethodPost, "/wallet/send", testOwner, `{"amount":50,"to":"r"}`)
	if status != http.StatusOK {
		t.Fatalf("send: expected 200 got %d", status)
	}

	status, body := doRequest(t, app, http.MethodPost, "/wallet/send", testOwner, `{"amount":150,"to":"r"}`)
	if status != http.StatusConflict || body["error"] != "Insufficient balance" {
		t.Fatalf("overdraw: got %d %v", status, body)
	}

	status, _ = doRequest(t, app, http.MethodPost, "/wallet/receive", testOwner, `{"amount":25}`)
	if status != http.StatusOK {
		t.Fatalf("receive: expected 200 got %d", status)
	}

	status, body = doRequest(t, app, http.MethodPut, "/wallet/balance", "intruder", `{"new_balance":999}`)
	if status != http.StatusForbidden || body["error"] != "Unauthorized" {
		t.Fatalf("intruder: got %d %v", status, body)
	}

	status, body = doRequest(t, app, http.MethodGet, "/wallet/balance", "", "")
	if status != http.StatusOK {
		t.Fatalf("get balance: expected 200 got %d", status)
	}
	if body["balance"] != float64(75) {
		t.Fatalf("expected balance 75, got %v", body["balance"])
	}
	if store.Balance() != 75 {
		t.Fatalf("store balance %d", store.Balance())
	}
}

func TestHandlerRejectsMissingAmount(t *testing.T) {
	app, _ := setupHandlerApp(t)
	status, _ := doRequest(t, app, http.MethodPost, "/wallet/receive", testOwner, `{}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", status)
	}
}

func TestHandlerRejectsNegativeAmount(t *testing.T) {
	app, store := setupHandlerApp(t)
	status, _ := doRequest(t, app, http.MethodPost, "/wallet/receive", testOwner, `{"amount":-5}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", status)
	}
	if store.Balance() != 0 {
		t.Fatalf("balance changed: %d", store.Balance())
	}
}

func TestHandlerOwnerTransfer(t *testing.T) {
	app, _ := setupHandlerApp(t)

	status, _ := doRequest(t, app, http.MethodPut, "/wallet/owner", "intruder", `{"new_owner":"intruder"}`)
	if status != http.StatusForbidden {
		t.Fatalf("intruder owner change: expected 403 got %d", status)
	}

	status, _ = doRequest(t, app, http.MethodPut, "/wallet/owner", testOwner, `{"new_owner":"alice"}`)
	if status != http.StatusNoContent {
		t.Fatalf("owner change: expected 204 got %d", status)
	}

	status, body := doRequest(t, app, http.MethodGet, "/wallet/owner", "", "")
	if status != http.StatusOK || body["owner"] != "alice" {
		t.Fatalf("get owner: got %d %v", status, body)
	}
}
