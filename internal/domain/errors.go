package domain

import "errors"

var (
	// ErrConfiguration reports a provider that cannot run because a credential is missing
	ErrConfiguration = errors.New("provider not configured")

	// ErrProviderUnavailable covers network failures, timeouts, bad statuses and bad payloads
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrInvalidInput is a client error, e.g. a malformed posting id
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by point lookups that match nothing
	ErrNotFound = errors.New("posting not found")

	// ErrStoreUnavailable means the local job store could not be queried
	ErrStoreUnavailable = errors.New("job store unavailable")
)
