package transfer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/congo-pay/solo_wallet/internal/wallet"
)

const publishTimeout = 5 * time.Second

// ErrClosed is returned by Close when the dispatcher was already closed.
var ErrClosed = errors.New("dispatcher closed")

// Dispatcher queues transfer intents and publishes them on a background
// worker. Forward never blocks; a full queue drops the intent.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	queue     chan wallet.TransferIntent
	done      chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts a dispatcher with the given queue size.
func NewDispatcher(publisher Publisher, size int, logger *slog.Logger) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	d := &Dispatcher{
		publisher: publisher,
		logger:    logger,
		queue:     make(chan wallet.TransferIntent, size),
		done:      make(chan struct{}),
	}
	go d.run()
	return d
}

var _ wallet.Forwarder = (*Dispatcher)(nil)

// Forward enqueues the intent for publishing.
func (d *Dispatcher) Forward(_ context.Context, intent wallet.TransferIntent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("transfer dispatcher closed, intent dropped", slog.String("intent_id", intent.ID))
		return
	}
	select {
	case d.queue <- intent:
	default:
		d.logger.Warn("transfer queue full, intent dropped",
			slog.String("intent_id", intent.ID),
			slog.String("recipient", intent.Recipient),
		)
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for intent := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := d.publisher.Publish(ctx, intent); err != nil {
			d.logger.Error("publish transfer intent",
				slog.String("intent_id", intent.ID),
				slog.String("recipient", intent.Recipient),
				slog.Any("error", err),
			)
		}
		cancel()
	}
}

// Close stops accepting intents and waits for queued ones to be published
// or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
