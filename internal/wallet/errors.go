package wallet

import "errors"

var (
	// ErrUnauthorized is returned when the caller is not the stored owner.
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrInsufficientBalance is returned when a debit exceeds the balance.
	ErrInsufficientBalance = errors.New("Insufficient balance")

	// ErrOverflow is returned when a credit would exceed the uint64 range.
	ErrOverflow = errors.New("balance overflow")

	// ErrInvalidIdentity is returned for an empty owner or initializer identity.
	ErrInvalidIdentity = errors.New("invalid identity")
)
