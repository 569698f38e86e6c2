package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/solo_wallet/internal/logging"
	"github.com/congo-pay/solo_wallet/internal/wallet"
)

const testCaller = "owner-principal"

func setupTestApp(t *testing.T) (*fiber.App, *wallet.Store, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	store, err := wallet.Initialize(testCaller, wallet.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("initialize wallet: %v", err)
	}
	h := wallet.NewHandler(store)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	logger := logging.Discard()
	app.Use(CallerIdentity("X-Caller-ID"))
	app.Use(Idempotency(cache, time.Minute, logger))
	app.Post("/receive", h.Receive)
	app.Get("/balance", h.Balance)

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, store, cleanup
}

func receiveRequest(caller, key string) *http.Request {
	req := httptest.NewRequest(fiber.MethodPost, "/receive", strings.NewReader(`{"amount":25}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("X-Caller-ID", caller)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	app, _, cleanup := setupTestApp(t)
	defer cleanup()

	resp, err := app.Test(receiveRequest(testCaller, ""))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestIdempotencySkipsSafeMethods(t *testing.T) {
	app, _, cleanup := setupTestApp(t)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/balance", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, store, cleanup := setupTestApp(t)
	defer cleanup()

	resp, err := app.Test(receiveRequest(testCaller, "abc123"))
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status %d got %d", fiber.StatusOK, resp.StatusCode)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	// Second request should return the cached response without crediting again.
	resp2, err := app.Test(receiveRequest(testCaller, "abc123"))
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if resp2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected cached status %d got %d", fiber.StatusOK, resp2.StatusCode)
	}
	cachedPayload, err := io.ReadAll(resp2.Body)
	if err != nil {
		t.Fatalf("read cached body: %v", err)
	}
	resp2.Body.Close()

	if string(cachedPayload) != string(payload) {
		t.Fatalf("expected cached payload %s got %s", string(payload), string(cachedPayload))
	}
	var decoded map[string]any
	if err := json.Unmarshal(cachedPayload, &decoded); err != nil {
		t.Fatalf("cached payload invalid json: %v", err)
	}
	if got := store.Balance(); got != 25 {
		t.Fatalf("expected single credit of 25, balance %d", got)
	}
}

func TestIdempotencyDoesNotCacheFailures(t *testing.T) {
	app, store, cleanup := setupTestApp(t)
	defer cleanup()

	resp, err := app.Test(receiveRequest("intruder", "k1"))
	if err != nil {
		t.Fatalf("intruder request: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected %d got %d", fiber.StatusForbidden, resp.StatusCode)
	}

	// Same key, different caller: separate entry, and the failed one was released.
	resp, err = app.Test(receiveRequest(testCaller, "k1"))
	if err != nil {
		t.Fatalf("owner request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
	}
	if got := store.Balance(); got != 25 {
		t.Fatalf("expected balance 25, got %d", got)
	}
}

func TestIdempotencyRejectsKeyReusedWithDifferentBody(t *testing.T) {
	app, store, cleanup := setupTestApp(t)
	defer cleanup()

	resp, err := app.Test(receiveRequest(testCaller, "reused"))
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
	}

	req := httptest.NewRequest(fiber.MethodPost, "/receive", strings.NewReader(`{"amount":30}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("X-Caller-ID", testCaller)
	req.Header.Set(idempotencyKeyHeader, "reused")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected %d got %d", fiber.StatusUnprocessableEntity, resp.StatusCode)
	}
	if got := store.Balance(); got != 25 {
		t.Fatalf("expected balance 25, got %d", got)
	}
}

func TestIdempotencyCacheKeySeparatesCallers(t *testing.T) {
	if idempotencyCacheKey("a:b", "c") == idempotencyCacheKey("a", "b:c") {
		t.Fatal("distinct caller/key pairs share a cache key")
	}
	if idempotencyCacheKey("a", "k") != idempotencyCacheKey("a", "k") {
		t.Fatal("cache key is not stable")
	}
}
