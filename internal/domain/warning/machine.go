// Package warning implements the two-stage warning workflow as an
// explicit state machine: drafted -> issued -> acknowledged, with a
// reviewer-recorded outcome terminating issued warnings.
package warning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/pkg/logger"
	"github.com/mentorled/fellowtrack/pkg/metrics"
)

// Store is the persistence the machine needs. The repository adapter
// satisfies it. The Mark* methods own the transactional state checks so
// concurrent transitions serialize at the store.
type Store interface {
	FellowByID(ctx context.Context, id uuid.UUID) (model.Fellow, error)
	AssessmentsByFellow(ctx context.Context, fellowID uuid.UUID) ([]model.Assessment, error)
	CreateWarning(ctx context.Context, w model.Warning) error
	WarningByID(ctx context.Context, id uuid.UUID) (model.Warning, error)
	WarningsByFellow(ctx context.Context, fellowID uuid.UUID) ([]model.Warning, error)
	MarkWarningIssued(ctx context.Context, id uuid.UUID, finalMessage string, at time.Time) (model.Warning, error)
	MarkWarningAcknowledged(ctx context.Context, id uuid.UUID, at time.Time) (model.Warning, error)
	RecordWarningOutcome(ctx context.Context, id uuid.UUID, outcome model.WarningOutcome) (model.Warning, error)
}

// DraftRequest is the context handed to the text-generation collaborator.
type DraftRequest struct {
	Level           model.WarningLevel
	FellowName      string
	Role            string
	WarningsCount   int
	Concerns        []string
	Assessment      *model.Assessment
	PreviousWarning *model.Warning
}

// Draft is the validated output of the text-generation collaborator.
type Draft struct {
	Message      string
	Tone         string
	KeyPoints    []string
	Requirements []string
	Timeline     string
}

// Drafter generates warning message drafts. The adapter behind it is
// treated as untrusted: it validates structure and length before
// returning.
type Drafter interface {
	Draft(ctx context.Context, req DraftRequest) (Draft, error)
}

// Machine drives the warning lifecycle for fellows.
type Machine struct {
	store   Store
	drafter Drafter
	now     func() time.Time
	log     logger.Logger
}

// Option applies a configuration option to the Machine.
type Option func(*Machine)

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// NewMachine creates a warning state machine. The drafter is injected
// explicitly so tests can substitute a deterministic fake.
func NewMachine(store Store, drafter Drafter, opts ...Option) *Machine {
	m := &Machine{
		store:   store,
		drafter: drafter,
		now:     time.Now,
		log:     logger.Named("warning"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Draft creates a warning in the drafted state, with the message text
// generated by the injected drafter. A final-level draft requires a
// prior issued first warning; at most one final warning may be open per
// fellow. Nothing is persisted when drafting fails.
func (m *Machine) Draft(ctx context.Context, fellowID uuid.UUID, level model.WarningLevel, concerns []string) (model.Warning, error) {
	fellow, err := m.store.FellowByID(ctx, fellowID)
	if err != nil {
		return model.Warning{}, fmt.Errorf("draft warning: %w", err)
	}

	var previous *model.Warning
	if level == model.WarningFinal {
		previous, err = m.checkFinalPreconditions(ctx, fellowID)
		if err != nil {
			return model.Warning{}, err
		}
	}

	req := DraftRequest{
		Level:           level,
		FellowName:      fellow.Name,
		Role:            fellow.Role,
		WarningsCount:   fellow.WarningsCount,
		Concerns:        concerns,
		PreviousWarning: previous,
	}
	if assessments, aerr := m.store.AssessmentsByFellow(ctx, fellowID); aerr == nil && len(assessments) > 0 {
		req.Assessment = &assessments[0]
	}

	draft, err := m.drafter.Draft(ctx, req)
	if err != nil {
		metrics.RecordDrafterError()
		return model.Warning{}, fmt.Errorf("%w: %v", ErrDraftUnavailable, err)
	}

	w := model.Warning{
		ID:           uuid.New(),
		FellowID:     fellowID,
		Level:        level,
		State:        model.WarningDrafted,
		Concerns:     concerns,
		Requirements: draft.Requirements,
		Timeline:     draft.Timeline,
		DraftMessage: draft.Message,
		CreatedAt:    m.now().UTC(),
	}
	if err := m.store.CreateWarning(ctx, w); err != nil {
		return model.Warning{}, fmt.Errorf("persist drafted warning: %w", err)
	}

	metrics.RecordWarningDrafted(string(level))
	m.log.Info(ctx, "warning drafted",
		logger.String("warning_id", w.ID.String()),
		logger.String("fellow_id", fellowID.String()),
		logger.String("level", string(level)),
	)
	return w, nil
}

// checkFinalPreconditions enforces the escalation sequence and returns
// the issued first warning used as drafting context.
func (m *Machine) checkFinalPreconditions(ctx context.Context, fellowID uuid.UUID) (*model.Warning, error) {
	warnings, err := m.store.WarningsByFellow(ctx, fellowID)
	if err != nil {
		return nil, fmt.Errorf("load warning history: %w", err)
	}

	var priorFirst *model.Warning
	for i := range warnings {
		w := warnings[i]
		if w.Level == model.WarningFinal && w.Outcome == "" {
			return nil, fmt.Errorf("%w: an open final warning already exists", ErrSequence)
		}
		if w.Level == model.WarningFirst && w.IssuedAt != nil && priorFirst == nil {
			priorFirst = &w
		}
	}
	if priorFirst == nil {
		return nil, ErrSequence
	}
	return priorFirst, nil
}

// Issue transitions a drafted warning to issued. The final message is
// the override when given, otherwise the draft message; issuing with
// neither fails. The store serializes concurrent attempts so exactly
// one succeeds and the fellow's warnings count increments exactly once.
func (m *Machine) Issue(ctx context.Context, warningID uuid.UUID, finalMessageOverride string) (model.Warning, error) {
	w, err := m.store.WarningByID(ctx, warningID)
	if err != nil {
		return model.Warning{}, fmt.Errorf("issue warning: %w", err)
	}
	if w.State != model.WarningDrafted {
		return model.Warning{}, ErrAlreadyIssued
	}

	msg := finalMessageOverride
	if msg == "" {
		msg = w.DraftMessage
	}
	if msg == "" {
		return model.Warning{}, ErrEmptyMessage
	}

	issued, err := m.store.MarkWarningIssued(ctx, warningID, msg, m.now().UTC())
	if err != nil {
		return model.Warning{}, err
	}

	metrics.RecordWarningIssued(string(issued.Level))
	m.log.Info(ctx, "warning issued",
		logger.String("warning_id", issued.ID.String()),
		logger.String("fellow_id", issued.FellowID.String()),
		logger.String("level", string(issued.Level)),
	)
	return issued, nil
}

// Acknowledge records the fellow's receipt of an issued warning.
func (m *Machine) Acknowledge(ctx context.Context, warningID uuid.UUID) (model.Warning, error) {
	w, err := m.store.MarkWarningAcknowledged(ctx, warningID, m.now().UTC())
	if err != nil {
		return model.Warning{}, err
	}
	metrics.RecordWarningAcknowledged()
	return w, nil
}

// RecordOutcome sets the reviewer-decided disposition on an issued or
// acknowledged warning. The outcome is decided by a human, never
// computed here.
func (m *Machine) RecordOutcome(ctx context.Context, warningID uuid.UUID, outcome model.WarningOutcome) (model.Warning, error) {
	switch outcome {
	case model.OutcomeResolved, model.OutcomeEscalated, model.OutcomeRemoval:
	default:
		return model.Warning{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}
	return m.store.RecordWarningOutcome(ctx, warningID, outcome)
}
