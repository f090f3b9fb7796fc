package services

import "errors"

var (
	// ErrInvalidAmount rejects non-positive amounts before any mutation.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidCurrency rejects empty currency codes before any mutation.
	ErrInvalidCurrency = errors.New("currency is required")

	// ErrNotFound means the referenced entity does not exist for this owner.
	ErrNotFound = errors.New("not found")

	// ErrMissingDetail means a transaction was created without a direction
	// payload (expense, income or transfer).
	ErrMissingDetail = errors.New("transaction detail is required")

	// ErrMissingToAccount means a transfer has no destination account.
	ErrMissingToAccount = errors.New("transfer requires a destination account")

	// ErrInvalidName rejects empty catalog entry names.
	ErrInvalidName = errors.New("name is required")
)
