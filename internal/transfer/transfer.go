package transfer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/congo-pay/solo_wallet/internal/wallet"
)

// Publisher delivers a transfer intent to the external transfer service.
type Publisher interface {
	Publish(ctx context.Context, intent wallet.TransferIntent) error
}

// Event is the wire representation of a transfer intent.
type Event struct {
	ID               string    `json:"id"`
	Recipient        string    `json:"recipient"`
	Amount           uint64    `json:"amount"`
	RemainingBalance uint64    `json:"remaining_balance"`
	Caller           string    `json:"caller"`
	RequestedAt      time.Time `json:"requested_at"`
}

// NewEvent converts an intent into its wire representation.
func NewEvent(intent wallet.TransferIntent) Event {
	return Event{
		ID:               intent.ID,
		Recipient:        intent.Recipient,
		Amount:           intent.Amount,
		RemainingBalance: intent.RemainingBalance,
		Caller:           intent.Caller,
		RequestedAt:      intent.RequestedAt.UTC(),
	}
}

func encode(intent wallet.TransferIntent) ([]byte, error) {
	return json.Marshal(NewEvent(intent))
}

// LogPublisher writes intents to the structured logger. Used when no
// transfer backend is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs a logging publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish writes the intent to the structured logger.
func (p *LogPublisher) Publish(_ context.Context, intent wallet.TransferIntent) error {
	if p == nil || p.logger == nil {
		return nil
	}
	p.logger.Info("tokens sent",
		slog.String("intent_id", intent.ID),
		slog.String("recipient", intent.Recipient),
		slog.Uint64("amount", intent.Amount),
	)
	return nil
}
