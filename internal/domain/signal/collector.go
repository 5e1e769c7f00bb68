// Package signal reduces a fellow's raw history into a normalized
// signal set for scoring.
//
// The collector is the only part of the engine that reads stored data;
// it performs no writes and is safe to re-run.
package signal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/internal/domain/model"
)

// Default lookback windows, in weeks.
const (
	defaultCheckInLookback    = 3
	defaultAssessmentLookback = 2
)

// Reader is the read-only data access the collector needs. The
// repository adapter satisfies it.
type Reader interface {
	// FellowByID returns the fellow or repository.ErrFellowNotFound.
	FellowByID(ctx context.Context, id uuid.UUID) (model.Fellow, error)

	// CheckInsInRange returns check-ins with week in [fromWeek, toWeek].
	CheckInsInRange(ctx context.Context, fellowID uuid.UUID, fromWeek, toWeek int) ([]model.CheckIn, error)

	// AssessmentsBefore returns up to limit assessments with week < week,
	// most-recent-first.
	AssessmentsBefore(ctx context.Context, fellowID uuid.UUID, week, limit int) ([]model.Assessment, error)
}

// Collector gathers risk signals for one fellow at one week.
type Collector struct {
	reader             Reader
	checkInLookback    int
	assessmentLookback int
}

// Option applies a configuration option to the Collector.
type Option func(*Collector)

// WithCheckInLookback sets the check-in window in weeks.
func WithCheckInLookback(weeks int) Option {
	return func(c *Collector) {
		if weeks > 0 {
			c.checkInLookback = weeks
		}
	}
}

// WithAssessmentLookback sets how many prior assessments feed the trend.
func WithAssessmentLookback(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.assessmentLookback = n
		}
	}
}

// NewCollector creates a collector reading through r.
func NewCollector(r Reader, opts ...Option) *Collector {
	c := &Collector{
		reader:             r,
		checkInLookback:    defaultCheckInLookback,
		assessmentLookback: defaultAssessmentLookback,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect reduces the fellow's recent history into a SignalSet. All
// averages are computed only over present values; a field with no
// observations stays absent rather than being coerced to zero.
func (c *Collector) Collect(ctx context.Context, fellowID uuid.UUID, week int) (model.SignalSet, error) {
	fellow, err := c.reader.FellowByID(ctx, fellowID)
	if err != nil {
		return model.SignalSet{}, fmt.Errorf("collect signals for fellow %s: %w", fellowID, err)
	}

	checkIns, err := c.reader.CheckInsInRange(ctx, fellowID, week-c.checkInLookback, week)
	if err != nil {
		return model.SignalSet{}, fmt.Errorf("collect check-ins for fellow %s: %w", fellowID, err)
	}

	var s model.SignalSet
	s.CheckInComplianceRate = float64(len(checkIns)) / float64(c.checkInLookback)
	if s.CheckInComplianceRate > 1 {
		s.CheckInComplianceRate = 1
	}

	c.reduceCheckIns(checkIns, &s)

	if scores := fellow.MilestoneScores(); len(scores) > 0 {
		var sum float64
		for _, v := range scores {
			sum += v
		}
		s.MilestoneAverage = model.Float(sum / float64(len(scores)))
		s.MilestoneCount = len(scores)
	}

	s.WarningsCount = fellow.WarningsCount

	prior, err := c.reader.AssessmentsBefore(ctx, fellowID, week, c.assessmentLookback)
	if err != nil {
		return model.SignalSet{}, fmt.Errorf("collect prior assessments for fellow %s: %w", fellowID, err)
	}
	for _, a := range prior {
		s.PriorRiskScores = append(s.PriorRiskScores, a.RiskScore)
	}

	return s, nil
}

// reduceCheckIns folds per-check-in fields into the signal set.
func (c *Collector) reduceCheckIns(checkIns []model.CheckIn, s *model.SignalSet) {
	var (
		sentimentSum float64
		sentimentN   int
		riskSum      float64
		riskN        int
		energySum    float64
		energyN      int
		collabN      int
		struggling   int
		selfN        int
		below        int
	)

	for _, ci := range checkIns {
		if ci.SentimentScore != nil {
			sentimentSum += *ci.SentimentScore
			sentimentN++
		}
		if ci.RiskContribution != nil {
			riskSum += *ci.RiskContribution
			riskN++
		}
		if ci.EnergyLevel != nil {
			energySum += float64(*ci.EnergyLevel)
			energyN++
		}
		if ci.CollaborationRating != "" {
			collabN++
			if ci.CollaborationRating == model.CollabStruggling {
				struggling++
			}
		}
		if ci.SelfAssessment != "" {
			selfN++
			if ci.SelfAssessment == model.SelfBelow {
				below++
			}
		}
	}

	if sentimentN > 0 {
		s.AvgSentiment = model.Float(sentimentSum / float64(sentimentN))
	}
	if riskN > 0 {
		s.AvgCheckInRisk = model.Float(riskSum / float64(riskN))
	}
	if energyN > 0 {
		s.AvgEnergy = model.Float(energySum / float64(energyN))
	}
	if collabN > 0 {
		s.CollaborationIssueRate = float64(struggling) / float64(collabN)
	}
	if selfN > 0 {
		s.BelowExpectationsRate = float64(below) / float64(selfN)
	}
}
