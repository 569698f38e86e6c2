package wallet

import (
	"context"
	"time"
)

// Record is the single balance/owner pair held by a Store. Values handed out
// by the Store are copies.
type Record struct {
	Balance uint64
	Owner   string
}

// TransferIntent describes value the owner asked to move to an external
// recipient. The local record is already debited when an intent is emitted.
type TransferIntent struct {
	ID               string
	Recipient        string
	Amount           uint64
	RemainingBalance uint64
	Caller           string
	RequestedAt      time.Time
}

// Forwarder hands transfer intents to the external transfer service.
// Implementations must not block the caller.
type Forwarder interface {
	Forward(ctx context.Context, intent TransferIntent)
}
