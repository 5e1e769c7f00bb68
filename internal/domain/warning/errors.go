package warning

import "errors"

// Sentinel kinds for warning workflow preconditions. These are surfaced
// to callers unchanged so workflow misuse stays distinguishable from
// missing data or collaborator outages.
var (
	// ErrSequence is returned when a final warning is requested without
	// a prior issued first warning, or when an open final warning
	// already exists.
	ErrSequence = errors.New("final warning requires a prior issued first warning")

	// ErrAlreadyIssued is returned when issuing a warning that is not in
	// the drafted state. Issuance is idempotent by rejection, not by
	// silent no-op, because it has an external notification side effect.
	ErrAlreadyIssued = errors.New("warning already issued")

	// ErrNotIssued is returned when acknowledging or recording an
	// outcome on a warning that was never issued.
	ErrNotIssued = errors.New("warning not yet issued")

	// ErrEmptyMessage is returned when issuing with neither a draft
	// message nor an override.
	ErrEmptyMessage = errors.New("no message to issue")

	// ErrDraftUnavailable is returned when the text-generation
	// collaborator fails, times out, or produces an invalid response.
	// Callers may retry with backoff; no partial warning is persisted.
	ErrDraftUnavailable = errors.New("draft generation unavailable")

	// ErrInvalidOutcome is returned for an unknown outcome value.
	ErrInvalidOutcome = errors.New("invalid warning outcome")
)
