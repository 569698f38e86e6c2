package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/congo-pay/solo_wallet/internal/wallet"
)

const (
	defaultCallerHeader = "X-Caller-ID"
	idempotencyHeader   = "Idempotency-Key"
	apiPrefix           = "/api/v1/wallet"
)

// Client calls the wallet HTTP API on behalf of one caller identity.
type Client struct {
	Base         string
	Caller       string
	CallerHeader string
	HTTP         *http.Client
}

// New builds a client for the server at base acting as caller.
func New(base, caller string) *Client {
	return &Client{
		Base:         strings.TrimRight(base, "/"),
		Caller:       caller,
		CallerHeader: defaultCallerHeader,
		HTTP:         http.DefaultClient,
	}
}

// APIError is a non-2xx response whose message matched no wallet error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wallet api: %d %s", e.Status, e.Message)
}

var knownErrors = []error{
	wallet.ErrUnauthorized,
	wallet.ErrInsufficientBalance,
	wallet.ErrOverflow,
	wallet.ErrInvalidIdentity,
}

// SetBalance overrides the wallet balance.
func (c *Client) SetBalance(ctx context.Context, newBalance uint64) error {
	return c.do(ctx, http.MethodPut, "/balance", map[string]any{"new_balance": newBalance}, nil)
}

// SendTokens debits amount, optionally naming a recipient.
func (c *Client) SendTokens(ctx context.Context, amount uint64, to *string) error {
	body := map[string]any{"amount": amount}
	if to != nil {
		body["to"] = *to
	}
	return c.do(ctx, http.MethodPost, "/send", body, nil)
}

// ReceiveTokens credits amount.
func (c *Client) ReceiveTokens(ctx context.Context, amount uint64) error {
	return c.do(ctx, http.MethodPost, "/receive", map[string]any{"amount": amount}, nil)
}

// Balance reads the current balance.
func (c *Client) Balance(ctx context.Context) (uint64, error) {
	var out struct {
		Balance uint64 `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/balance", nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// SetOwner transfers ownership to newOwner.
func (c *Client) SetOwner(ctx context.Context, newOwner string) error {
	return c.do(ctx, http.MethodPut, "/owner", map[string]any{"new_owner": newOwner}, nil)
}

// Owner reads the current owner identity.
func (c *Client) Owner(ctx context.Context) (string, error) {
	var out struct {
		Owner string `json:"owner"`
	}
	if err := c.do(ctx, http.MethodGet, "/owner", nil, &out); err != nil {
		return "", err
	}
	return out.Owner, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+apiPrefix+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Caller != "" {
		header := c.CallerHeader
		if header == "" {
			header = defaultCallerHeader
		}
		req.Header.Set(header, c.Caller)
	}
	if method != http.MethodGet {
		req.Header.Set(idempotencyHeader, uuid.NewString())
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	for _, known := range knownErrors {
		if msg == known.Error() {
			return known
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// IsAPIError reports whether err is an APIError with the given status.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
