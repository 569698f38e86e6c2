package transfer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/congo-pay/solo_wallet/internal/wallet"
)

// OutboxSchema creates the table a downstream relayer drains.
const OutboxSchema = `CREATE TABLE IF NOT EXISTS transfer_outbox (
    id UUID PRIMARY KEY,
    recipient TEXT NOT NULL,
    amount NUMERIC(20, 0) NOT NULL,
    remaining_balance NUMERIC(20, 0) NOT NULL,
    caller TEXT NOT NULL,
    payload JSONB NOT NULL,
    requested_at TIMESTAMPTZ NOT NULL,
    relayed_at TIMESTAMPTZ
)`

// Execer is the subset of pgxpool.Pool used by the outbox.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// OutboxPublisher records transfer intents in PostgreSQL for later relay.
type OutboxPublisher struct {
	db Execer
}

// NewOutboxPublisher builds an outbox publisher backed by db.
func NewOutboxPublisher(db Execer) *OutboxPublisher {
	return &OutboxPublisher{db: db}
}

// EnsureSchema creates the outbox table if it does not exist.
func (p *OutboxPublisher) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, OutboxSchema); err != nil {
		return fmt.Errorf("create transfer_outbox: %w", err)
	}
	return nil
}

// Publish inserts the intent. Re-publishing the same intent id is a no-op.
func (p *OutboxPublisher) Publish(ctx context.Context, intent wallet.TransferIntent) error {
	intentID, err := uuid.Parse(intent.ID)
	if err != nil {
		return fmt.Errorf("parse intent id: %w", err)
	}
	payload, err := encode(intent)
	if err != nil {
		return fmt.Errorf("encode transfer intent: %w", err)
	}
	_, err = p.db.Exec(ctx, `INSERT INTO transfer_outbox (id, recipient, amount, remaining_balance, caller, payload, requested_at)
        VALUES ($1, $2, $3::text::numeric, $4::text::numeric, $5, $6, $7)
        ON CONFLICT (id) DO NOTHING`,
		intentID,
		intent.Recipient,
		strconv.FormatUint(intent.Amount, 10),
		strconv.FormatUint(intent.RemainingBalance, 10),
		intent.Caller,
		payload,
		intent.RequestedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert transfer_outbox: %w", err)
	}
	return nil
}
