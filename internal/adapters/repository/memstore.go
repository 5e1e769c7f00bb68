package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/internal/domain/warning"
)

// assessmentKey identifies the unique (fellow, week) slot.
type assessmentKey struct {
	fellowID uuid.UUID
	week     int
}

// MemStore implements Store with in-process maps guarded by a single
// mutex. Transactional boundaries fall out naturally: every mutation
// runs under the lock, so an assessment upsert and the fellow's risk
// fields, or a warning issuance and the warnings count, are observed
// together or not at all.
type MemStore struct {
	mu          sync.RWMutex
	fellows     map[uuid.UUID]model.Fellow
	checkIns    map[uuid.UUID][]model.CheckIn // keyed by fellow
	assessments map[assessmentKey]model.Assessment
	warnings    map[uuid.UUID]model.Warning
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		fellows:     make(map[uuid.UUID]model.Fellow),
		checkIns:    make(map[uuid.UUID][]model.CheckIn),
		assessments: make(map[assessmentKey]model.Assessment),
		warnings:    make(map[uuid.UUID]model.Warning),
	}
}

// CreateFellow registers a fellow.
func (s *MemStore) CreateFellow(_ context.Context, f model.Fellow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fellows[f.ID] = cloneFellow(f)
	return nil
}

// FellowByID returns the fellow or ErrFellowNotFound.
func (s *MemStore) FellowByID(_ context.Context, id uuid.UUID) (model.Fellow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fellows[id]
	if !ok {
		return model.Fellow{}, fmt.Errorf("%w: %s", ErrFellowNotFound, id)
	}
	return cloneFellow(f), nil
}

// ActiveFellows lists fellows with active status.
func (s *MemStore) ActiveFellows(_ context.Context) ([]model.Fellow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Fellow
	for _, f := range s.fellows {
		if f.Status == model.StatusActive {
			out = append(out, cloneFellow(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// CreateCheckIn stores a weekly check-in, rejecting duplicates per
// (fellow, week).
func (s *MemStore) CreateCheckIn(_ context.Context, ci model.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fellows[ci.FellowID]; !ok {
		return fmt.Errorf("%w: %s", ErrFellowNotFound, ci.FellowID)
	}
	for _, existing := range s.checkIns[ci.FellowID] {
		if existing.Week == ci.Week {
			return fmt.Errorf("%w: fellow %s week %d", ErrDuplicateCheckIn, ci.FellowID, ci.Week)
		}
	}
	s.checkIns[ci.FellowID] = append(s.checkIns[ci.FellowID], cloneCheckIn(ci))
	return nil
}

// CheckInsInRange returns check-ins with week in [fromWeek, toWeek],
// newest week first.
func (s *MemStore) CheckInsInRange(_ context.Context, fellowID uuid.UUID, fromWeek, toWeek int) ([]model.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.CheckIn
	for _, ci := range s.checkIns[fellowID] {
		if ci.Week >= fromWeek && ci.Week <= toWeek {
			out = append(out, cloneCheckIn(ci))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week > out[j].Week })
	return out, nil
}

// SaveAssessment upserts by (fellow, week) and updates the fellow's
// current risk fields in the same critical section.
func (s *MemStore) SaveAssessment(_ context.Context, a model.Assessment) (model.Assessment, model.RiskLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.fellows[a.FellowID]
	if !ok {
		return model.Assessment{}, "", fmt.Errorf("%w: %s", ErrFellowNotFound, a.FellowID)
	}
	previousLevel := f.CurrentRiskLevel

	key := assessmentKey{fellowID: a.FellowID, week: a.Week}
	if existing, ok := s.assessments[key]; ok {
		// Keep the identity of the slot stable across re-runs.
		a.ID = existing.ID
	} else if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.assessments[key] = cloneAssessment(a)

	f.CurrentRiskScore = model.Float(a.RiskScore)
	f.CurrentRiskLevel = a.RiskLevel
	f.UpdatedAt = a.AssessedAt
	s.fellows[a.FellowID] = f

	return cloneAssessment(a), previousLevel, nil
}

// AssessmentsBefore returns up to limit assessments with week < week,
// most-recent-first.
func (s *MemStore) AssessmentsBefore(_ context.Context, fellowID uuid.UUID, week, limit int) ([]model.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Assessment
	for key, a := range s.assessments {
		if key.fellowID == fellowID && a.Week < week && a.Week >= week-limit {
			out = append(out, cloneAssessment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week > out[j].Week })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AssessmentsByFellow returns all assessments for a fellow, newest week
// first.
func (s *MemStore) AssessmentsByFellow(_ context.Context, fellowID uuid.UUID) ([]model.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Assessment
	for key, a := range s.assessments {
		if key.fellowID == fellowID {
			out = append(out, cloneAssessment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week > out[j].Week })
	return out, nil
}

// AssessmentsByWeek returns all assessments for a week, highest score
// first.
func (s *MemStore) AssessmentsByWeek(_ context.Context, week int) ([]model.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Assessment
	for key, a := range s.assessments {
		if key.week == week {
			out = append(out, cloneAssessment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RiskScore > out[j].RiskScore })
	return out, nil
}

// CreateWarning stores a drafted warning.
func (s *MemStore) CreateWarning(_ context.Context, w model.Warning) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fellows[w.FellowID]; !ok {
		return fmt.Errorf("%w: %s", ErrFellowNotFound, w.FellowID)
	}
	s.warnings[w.ID] = cloneWarning(w)
	return nil
}

// WarningByID returns the warning or ErrWarningNotFound.
func (s *MemStore) WarningByID(_ context.Context, id uuid.UUID) (model.Warning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.warnings[id]
	if !ok {
		return model.Warning{}, fmt.Errorf("%w: %s", ErrWarningNotFound, id)
	}
	return cloneWarning(w), nil
}

// WarningsByFellow returns all warnings for a fellow, newest first.
func (s *MemStore) WarningsByFellow(_ context.Context, fellowID uuid.UUID) ([]model.Warning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Warning
	for _, w := range s.warnings {
		if w.FellowID == fellowID {
			out = append(out, cloneWarning(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkWarningIssued transitions drafted -> issued and increments the
// fellow's warnings count under the same lock. The state recheck here
// is what serializes concurrent issuance: exactly one caller sees the
// drafted state.
func (s *MemStore) MarkWarningIssued(_ context.Context, id uuid.UUID, finalMessage string, at time.Time) (model.Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.warnings[id]
	if !ok {
		return model.Warning{}, fmt.Errorf("%w: %s", ErrWarningNotFound, id)
	}
	if w.State != model.WarningDrafted {
		return model.Warning{}, warning.ErrAlreadyIssued
	}
	f, ok := s.fellows[w.FellowID]
	if !ok {
		return model.Warning{}, fmt.Errorf("%w: %s", ErrFellowNotFound, w.FellowID)
	}

	w.State = model.WarningIssued
	w.FinalMessage = finalMessage
	w.IssuedAt = &at
	s.warnings[id] = w

	f.WarningsCount++
	f.UpdatedAt = at
	s.fellows[w.FellowID] = f

	return cloneWarning(w), nil
}

// MarkWarningAcknowledged transitions issued -> acknowledged.
// Acknowledging twice is a no-op; acknowledging a draft fails.
func (s *MemStore) MarkWarningAcknowledged(_ context.Context, id uuid.UUID, at time.Time) (model.Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.warnings[id]
	if !ok {
		return model.Warning{}, fmt.Errorf("%w: %s", ErrWarningNotFound, id)
	}
	switch w.State {
	case model.WarningDrafted:
		return model.Warning{}, warning.ErrNotIssued
	case model.WarningAcknowledged:
		return cloneWarning(w), nil
	}

	w.State = model.WarningAcknowledged
	w.Acknowledged = true
	w.AcknowledgedAt = &at
	s.warnings[id] = w
	return cloneWarning(w), nil
}

// RecordWarningOutcome sets the reviewer-decided outcome on an issued
// or acknowledged warning.
func (s *MemStore) RecordWarningOutcome(_ context.Context, id uuid.UUID, outcome model.WarningOutcome) (model.Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.warnings[id]
	if !ok {
		return model.Warning{}, fmt.Errorf("%w: %s", ErrWarningNotFound, id)
	}
	if w.State == model.WarningDrafted {
		return model.Warning{}, warning.ErrNotIssued
	}
	w.Outcome = outcome
	s.warnings[id] = w
	return cloneWarning(w), nil
}

// CountFellowsByLevel aggregates fellows by current risk level.
func (s *MemStore) CountFellowsByLevel(_ context.Context) (map[model.RiskLevel]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[model.RiskLevel]int)
	for _, f := range s.fellows {
		level := f.CurrentRiskLevel
		if level == "" {
			level = model.LevelOnTrack
		}
		counts[level]++
	}
	return counts, nil
}

// Stats reports store contents.
func (s *MemStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var checkIns int
	for _, cis := range s.checkIns {
		checkIns += len(cis)
	}
	return Stats{
		Fellows:     len(s.fellows),
		CheckIns:    checkIns,
		Assessments: len(s.assessments),
		Warnings:    len(s.warnings),
	}, nil
}

// Clone helpers keep stored values free of aliasing with callers.

func cloneFellow(f model.Fellow) model.Fellow {
	out := f
	out.Milestone1Score = cloneFloat(f.Milestone1Score)
	out.Milestone2Score = cloneFloat(f.Milestone2Score)
	out.Milestone3Score = cloneFloat(f.Milestone3Score)
	out.CurrentRiskScore = cloneFloat(f.CurrentRiskScore)
	return out
}

func cloneCheckIn(ci model.CheckIn) model.CheckIn {
	out := ci
	out.SentimentScore = cloneFloat(ci.SentimentScore)
	out.RiskContribution = cloneFloat(ci.RiskContribution)
	if ci.EnergyLevel != nil {
		v := *ci.EnergyLevel
		out.EnergyLevel = &v
	}
	return out
}

func cloneAssessment(a model.Assessment) model.Assessment {
	out := a
	out.Signals = cloneSignals(a.Signals)
	if a.Concerns != nil {
		out.Concerns = make(map[model.Concern]string, len(a.Concerns))
		for k, v := range a.Concerns {
			out.Concerns[k] = v
		}
	}
	return out
}

func cloneSignals(s model.SignalSet) model.SignalSet {
	out := s
	out.AvgSentiment = cloneFloat(s.AvgSentiment)
	out.AvgCheckInRisk = cloneFloat(s.AvgCheckInRisk)
	out.AvgEnergy = cloneFloat(s.AvgEnergy)
	out.MilestoneAverage = cloneFloat(s.MilestoneAverage)
	out.PriorRiskScores = append([]float64(nil), s.PriorRiskScores...)
	return out
}

func cloneWarning(w model.Warning) model.Warning {
	out := w
	out.Concerns = append([]string(nil), w.Concerns...)
	out.Requirements = append([]string(nil), w.Requirements...)
	if w.IssuedAt != nil {
		v := *w.IssuedAt
		out.IssuedAt = &v
	}
	if w.AcknowledgedAt != nil {
		v := *w.AcknowledgedAt
		out.AcknowledgedAt = &v
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
