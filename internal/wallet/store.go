package wallet

import (
	"context"
	"log/slog"
	"math/bits"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the wallet record. Every operation runs to completion under a
// single mutex, so no partial update is ever observable.
type Store struct {
	mu        sync.Mutex
	record    Record
	logger    *slog.Logger
	forwarder Forwarder
}

// Option customises a Store at initialization.
type Option func(*Store)

// WithLogger sets the logger used for balance and owner observations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithForwarder sets the collaborator that receives transfer intents on send.
func WithForwarder(f Forwarder) Option {
	return func(s *Store) {
		s.forwarder = f
	}
}

// Initialize creates the store with a zero balance owned by caller. It is the
// one-time setup hook; there is no way to re-run it against an existing store.
func Initialize(caller string, opts ...Option) (*Store, error) {
	if caller == "" {
		return nil, ErrInvalidIdentity
	}
	s := &Store{
		record: Record{Owner: caller},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Info("wallet initialized", slog.String("owner", caller))
	return s, nil
}

// SetBalance overwrites the balance. Only the owner may call it.
func (s *Store) SetBalance(_ context.Context, caller string, newBalance uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.record.Owner {
		return ErrUnauthorized
	}
	s.record.Balance = newBalance
	return nil
}

// SendTokens debits amount from the balance. When recipient is non-nil the
// intent is forwarded to the transfer collaborator once the debit is applied;
// the forward outcome never affects the record.
func (s *Store) SendTokens(ctx context.Context, caller string, amount uint64, recipient *string) error {
	s.mu.Lock()
	if caller != s.record.Owner {
		s.mu.Unlock()
		return ErrUnauthorized
	}
	if amount > s.record.Balance {
		s.mu.Unlock()
		return ErrInsufficientBalance
	}
	s.record.Balance -= amount
	remaining := s.record.Balance
	s.mu.Unlock()

	s.logger.Info("remaining balance after sending", slog.Uint64("balance", remaining))

	if recipient == nil {
		return nil
	}
	intent := TransferIntent{
		ID:               uuid.NewString(),
		Recipient:        *recipient,
		Amount:           amount,
		RemainingBalance: remaining,
		Caller:           caller,
		RequestedAt:      time.Now().UTC(),
	}
	if s.forwarder == nil {
		s.logger.Warn("no transfer forwarder configured, intent dropped",
			slog.String("intent_id", intent.ID),
			slog.String("recipient", intent.Recipient),
		)
		return nil
	}
	s.forwarder.Forward(ctx, intent)
	return nil
}

// ReceiveTokens credits amount to the balance, failing with ErrOverflow
// instead of wrapping.
func (s *Store) ReceiveTokens(_ context.Context, caller string, amount uint64) error {
	s.mu.Lock()
	if caller != s.record.Owner {
		s.mu.Unlock()
		return ErrUnauthorized
	}
	sum, carry := bits.Add64(s.record.Balance, amount, 0)
	if carry != 0 {
		s.mu.Unlock()
		return ErrOverflow
	}
	s.record.Balance = sum
	s.mu.Unlock()

	s.logger.Info("balance after receiving", slog.Uint64("balance", sum))
	return nil
}

// Balance returns the current balance. Reads are unrestricted.
func (s *Store) Balance() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Balance
}

// SetOwner transfers ownership. Only the current owner may call it.
func (s *Store) SetOwner(_ context.Context, caller, newOwner string) error {
	s.mu.Lock()
	if caller != s.record.Owner {
		s.mu.Unlock()
		return ErrUnauthorized
	}
	if newOwner == "" {
		s.mu.Unlock()
		return ErrInvalidIdentity
	}
	s.record.Owner = newOwner
	s.mu.Unlock()

	s.logger.Info("new owner set", slog.String("owner", newOwner))
	return nil
}

// Owner returns the current owner identity. Reads are unrestricted.
func (s *Store) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Owner
}

// Snapshot returns a copy of the record.
func (s *Store) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}
