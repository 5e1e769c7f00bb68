package repository

import "errors"

// Sentinel kinds for store lookups.
var (
	ErrFellowNotFound     = errors.New("fellow not found")
	ErrWarningNotFound    = errors.New("warning not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrDuplicateCheckIn   = errors.New("check-in already exists for week")
)
