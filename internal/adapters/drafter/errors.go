package drafter

import "errors"

var (
	// ErrUnavailable indicates the generation endpoint could not be
	// reached or refused the request.
	ErrUnavailable = errors.New("drafter unavailable")

	// ErrInvalidResponse indicates the endpoint answered but the body
	// did not contain a usable draft.
	ErrInvalidResponse = errors.New("invalid drafter response")
)
