package engine

import "errors"

// Decision-time errors are resolved before any state mutation; commit-time
// conflicts are retried before being surfaced.
var (
	// ErrCampaignNotActive rejects plays outside the promotion window or
	// against a promotion that is not active. Nothing is touched.
	ErrCampaignNotActive = errors.New("campaign not active")

	// ErrTokenInvalid rejects unknown token codes.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenAlreadyUsed rejects a token that has already been consumed.
	// The original outcome is never re-derived.
	ErrTokenAlreadyUsed = errors.New("token already used")

	// ErrAllocationConflict is a transient commit conflict between concurrent
	// plays. The service retries the whole commit a bounded number of times.
	ErrAllocationConflict = errors.New("allocation conflict")

	// ErrConfigurationInvalid rejects engine configs at write time.
	ErrConfigurationInvalid = errors.New("engine configuration invalid")
)
