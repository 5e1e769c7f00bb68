// Package repository defines the persistence contract for the engine
// and its in-memory and MySQL implementations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/internal/domain/model"
)

// Stats is a snapshot of store contents for monitoring.
type Stats struct {
	Fellows     int
	CheckIns    int
	Assessments int
	Warnings    int
}

// Store provides read/write access to engine state.
//
// SaveAssessment and MarkWarningIssued are the two transactional
// boundaries: each applies its record change and the owning fellow's
// derived fields atomically, so readers never observe one without the
// other.
type Store interface {
	// CreateFellow registers a fellow.
	CreateFellow(ctx context.Context, f model.Fellow) error

	// FellowByID returns the fellow or ErrFellowNotFound.
	FellowByID(ctx context.Context, id uuid.UUID) (model.Fellow, error)

	// ActiveFellows lists fellows with active status.
	ActiveFellows(ctx context.Context) ([]model.Fellow, error)

	// CreateCheckIn stores a weekly check-in. At most one check-in may
	// exist per (fellow, week); violations return ErrDuplicateCheckIn.
	CreateCheckIn(ctx context.Context, ci model.CheckIn) error

	// CheckInsInRange returns check-ins with week in [fromWeek, toWeek],
	// newest week first.
	CheckInsInRange(ctx context.Context, fellowID uuid.UUID, fromWeek, toWeek int) ([]model.CheckIn, error)

	// SaveAssessment upserts the assessment keyed by (fellow, week) and
	// updates the fellow's current risk score and level in the same
	// transaction. Re-running for the same key overwrites. The fellow's
	// previous risk level is returned so callers can detect transitions.
	SaveAssessment(ctx context.Context, a model.Assessment) (model.Assessment, model.RiskLevel, error)

	// AssessmentsBefore returns up to limit assessments with week < week,
	// most-recent-first.
	AssessmentsBefore(ctx context.Context, fellowID uuid.UUID, week, limit int) ([]model.Assessment, error)

	// AssessmentsByFellow returns all assessments for a fellow, newest
	// week first.
	AssessmentsByFellow(ctx context.Context, fellowID uuid.UUID) ([]model.Assessment, error)

	// AssessmentsByWeek returns all assessments for a week, highest
	// score first.
	AssessmentsByWeek(ctx context.Context, week int) ([]model.Assessment, error)

	// CreateWarning stores a drafted warning.
	CreateWarning(ctx context.Context, w model.Warning) error

	// WarningByID returns the warning or ErrWarningNotFound.
	WarningByID(ctx context.Context, id uuid.UUID) (model.Warning, error)

	// WarningsByFellow returns all warnings for a fellow, newest first.
	WarningsByFellow(ctx context.Context, fellowID uuid.UUID) ([]model.Warning, error)

	// MarkWarningIssued transitions a drafted warning to issued, sets
	// the final message and increments the fellow's warnings count, all
	// atomically. Concurrent calls are serialized: exactly one succeeds,
	// the rest fail with warning.ErrAlreadyIssued.
	MarkWarningIssued(ctx context.Context, id uuid.UUID, finalMessage string, at time.Time) (model.Warning, error)

	// MarkWarningAcknowledged transitions an issued warning to
	// acknowledged. Drafted warnings fail with warning.ErrNotIssued;
	// acknowledging twice is a no-op.
	MarkWarningAcknowledged(ctx context.Context, id uuid.UUID, at time.Time) (model.Warning, error)

	// RecordWarningOutcome records the reviewer-decided outcome on an
	// issued or acknowledged warning.
	RecordWarningOutcome(ctx context.Context, id uuid.UUID, outcome model.WarningOutcome) (model.Warning, error)

	// CountFellowsByLevel aggregates fellows by current risk level.
	CountFellowsByLevel(ctx context.Context) (map[model.RiskLevel]int, error)

	// Stats reports store contents for the stats endpoint.
	Stats(ctx context.Context) (Stats, error)
}
