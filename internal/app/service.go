// Package app wires the domain pieces into the assessment service.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/internal/adapters/notify"
	"github.com/mentorled/fellowtrack/internal/adapters/repository"
	"github.com/mentorled/fellowtrack/internal/domain/classify"
	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/internal/domain/scoring"
	"github.com/mentorled/fellowtrack/internal/domain/signal"
	"github.com/mentorled/fellowtrack/internal/domain/warning"
	"github.com/mentorled/fellowtrack/pkg/logger"
	"github.com/mentorled/fellowtrack/pkg/metrics"
)

// Service runs assessments and drives warning escalation.
type Service struct {
	store     repository.Store
	collector *signal.Collector
	machine   *warning.Machine
	notifier  notify.Notifier
	now       func() time.Time
	log       logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithNotifier sets the escalation notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds the service around a store, collector, and warning machine.
func New(store repository.Store, collector *signal.Collector, machine *warning.Machine, opts ...Option) *Service {
	s := &Service{
		store:     store,
		collector: collector,
		machine:   machine,
		notifier:  notify.Noop{},
		now:       time.Now,
		log:       logger.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess runs the full pipeline for one fellow and week: collect
// signals, score, classify, persist. Re-running for the same week
// overwrites the stored assessment rather than appending.
func (s *Service) Assess(ctx context.Context, fellowID uuid.UUID, week int) (model.Assessment, error) {
	start := time.Now()
	metrics.RecordAssessmentRun()

	signals, err := s.collector.Collect(ctx, fellowID, week)
	if err != nil {
		metrics.RecordAssessmentFailed("collect")
		return model.Assessment{}, err
	}

	score, err := scoring.Score(signals)
	if err != nil {
		metrics.RecordAssessmentFailed("score")
		return model.Assessment{}, err
	}

	fellow, err := s.store.FellowByID(ctx, fellowID)
	if err != nil {
		metrics.RecordAssessmentFailed("store")
		return model.Assessment{}, err
	}

	level := classify.Level(score)
	assessment := model.Assessment{
		FellowID:          fellowID,
		Week:              week,
		RiskScore:         score,
		RiskLevel:         level,
		Signals:           signals,
		Concerns:          classify.Concerns(signals),
		RecommendedAction: classify.Recommend(level, fellow.WarningsCount),
		AssessedAt:        s.now().UTC(),
	}

	saved, previousLevel, err := s.store.SaveAssessment(ctx, assessment)
	if err != nil {
		metrics.RecordAssessmentFailed("store")
		return model.Assessment{}, err
	}

	metrics.ObserveAssessmentDuration(time.Since(start).Seconds())
	s.log.Info(ctx, "fellow assessed",
		logger.String("fellow_id", fellowID.String()),
		logger.Int("week", week),
		logger.Float64("score", saved.RiskScore),
		logger.String("level", string(saved.RiskLevel)),
		logger.String("action", string(saved.RecommendedAction)),
	)

	if saved.RiskLevel != previousLevel {
		metrics.RecordLevelTransition(string(saved.RiskLevel))
		if saved.RiskLevel.Rank() >= model.LevelAtRisk.Rank() {
			s.notifier.Notify(ctx, notify.Event{
				Kind:       notify.KindLevelChanged,
				FellowID:   fellow.ID,
				FellowName: fellow.Name,
				Level:      saved.RiskLevel,
				Score:      saved.RiskScore,
				Week:       week,
				Concerns:   concernList(saved.Concerns),
			})
		}
	}
	s.refreshLevelGauges(ctx)

	return saved, nil
}

// Fellow returns one fellow.
func (s *Service) Fellow(ctx context.Context, id uuid.UUID) (model.Fellow, error) {
	return s.store.FellowByID(ctx, id)
}

// RegisterFellow stores a new fellow with generated identity.
func (s *Service) RegisterFellow(ctx context.Context, f model.Fellow) (model.Fellow, error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Status == "" {
		f.Status = model.StatusActive
	}
	now := s.now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	if err := s.store.CreateFellow(ctx, f); err != nil {
		return model.Fellow{}, err
	}
	return f, nil
}

// SubmitCheckIn stores a weekly check-in for a fellow.
func (s *Service) SubmitCheckIn(ctx context.Context, ci model.CheckIn) (model.CheckIn, error) {
	if _, err := s.store.FellowByID(ctx, ci.FellowID); err != nil {
		return model.CheckIn{}, err
	}
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	if ci.SubmittedAt.IsZero() {
		ci.SubmittedAt = s.now().UTC()
	}
	if err := s.store.CreateCheckIn(ctx, ci); err != nil {
		return model.CheckIn{}, err
	}
	return ci, nil
}

// Summary aggregates the cohort by current risk level.
type Summary struct {
	Total    int                     `json:"total"`
	ByLevel  map[model.RiskLevel]int `json:"by_level"`
	AtRisk   int                     `json:"at_risk_or_worse"`
	Assessed time.Time               `json:"generated_at"`
}

// CohortSummary reports how the cohort is distributed across levels.
func (s *Service) CohortSummary(ctx context.Context) (Summary, error) {
	counts, err := s.store.CountFellowsByLevel(ctx)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{ByLevel: counts, Assessed: s.now().UTC()}
	for level, n := range counts {
		sum.Total += n
		if level.Rank() >= model.LevelAtRisk.Rank() {
			sum.AtRisk += n
		}
	}
	return sum, nil
}

// AssessmentsForWeek lists a week's assessments, highest risk first.
func (s *Service) AssessmentsForWeek(ctx context.Context, week int) ([]model.Assessment, error) {
	return s.store.AssessmentsByWeek(ctx, week)
}

// AssessmentHistory lists a fellow's assessments, newest first.
func (s *Service) AssessmentHistory(ctx context.Context, fellowID uuid.UUID) ([]model.Assessment, error) {
	if _, err := s.store.FellowByID(ctx, fellowID); err != nil {
		return nil, err
	}
	return s.store.AssessmentsByFellow(ctx, fellowID)
}

// WarningHistory lists a fellow's warnings, newest first.
func (s *Service) WarningHistory(ctx context.Context, fellowID uuid.UUID) ([]model.Warning, error) {
	if _, err := s.store.FellowByID(ctx, fellowID); err != nil {
		return nil, err
	}
	return s.store.WarningsByFellow(ctx, fellowID)
}

// Warning returns one warning.
func (s *Service) Warning(ctx context.Context, id uuid.UUID) (model.Warning, error) {
	return s.store.WarningByID(ctx, id)
}

// DraftWarning produces a drafted warning for the fellow. Concerns
// default to the latest assessment's when none are supplied.
func (s *Service) DraftWarning(ctx context.Context, fellowID uuid.UUID, level model.WarningLevel, concerns []string) (model.Warning, error) {
	if len(concerns) == 0 {
		assessments, err := s.store.AssessmentsByFellow(ctx, fellowID)
		if err != nil {
			return model.Warning{}, err
		}
		if len(assessments) > 0 {
			concerns = concernList(assessments[0].Concerns)
		}
	}

	return s.machine.Draft(ctx, fellowID, level, concerns)
}

// IssueWarning transitions a drafted warning to issued and notifies
// the escalation channel.
func (s *Service) IssueWarning(ctx context.Context, warningID uuid.UUID, finalMessageOverride string) (model.Warning, error) {
	w, err := s.machine.Issue(ctx, warningID, finalMessageOverride)
	if err != nil {
		return model.Warning{}, err
	}

	fellow, ferr := s.store.FellowByID(ctx, w.FellowID)
	if ferr != nil {
		s.log.Warn(ctx, "fellow lookup after issuance", logger.Error(ferr))
		return w, nil
	}
	s.notifier.Notify(ctx, notify.Event{
		Kind:       notify.KindWarningIssued,
		FellowID:   fellow.ID,
		FellowName: fellow.Name,
		Level:      fellow.CurrentRiskLevel,
		Concerns:   w.Concerns,
	})
	return w, nil
}

// AcknowledgeWarning records the fellow's acknowledgement.
func (s *Service) AcknowledgeWarning(ctx context.Context, warningID uuid.UUID) (model.Warning, error) {
	return s.machine.Acknowledge(ctx, warningID)
}

// RecordWarningOutcome records the reviewer's disposition.
func (s *Service) RecordWarningOutcome(ctx context.Context, warningID uuid.UUID, outcome model.WarningOutcome) (model.Warning, error) {
	return s.machine.RecordOutcome(ctx, warningID, outcome)
}

// Stats reports store contents.
func (s *Service) Stats(ctx context.Context) (repository.Stats, error) {
	return s.store.Stats(ctx)
}

func (s *Service) refreshLevelGauges(ctx context.Context) {
	counts, err := s.store.CountFellowsByLevel(ctx)
	if err != nil {
		s.log.Warn(ctx, "refresh level gauges", logger.Error(err))
		return
	}
	for _, level := range model.Levels() {
		metrics.UpdateFellowsByLevel(string(level), counts[level])
	}
}

func concernList(m map[model.Concern]string) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for _, key := range []model.Concern{
		model.ConcernCompliance, model.ConcernLowMorale, model.ConcernLowEnergy,
		model.ConcernCollaboration, model.ConcernPerformance, model.ConcernWarnings,
		model.ConcernTrend,
	} {
		if desc, ok := m[key]; ok {
			out = append(out, desc)
		}
	}
	return out
}
