// Package scoring computes a bounded risk score from a signal set.
//
// The scorer is a pure function: a weighted sum over the signals that are
// actually present, renormalized by the weight used, so missing signals
// redistribute weight proportionally instead of biasing toward "safe".
package scoring

import (
	"math"

	"github.com/mentorled/fellowtrack/internal/domain/model"
)

// Component weights. They sum to 1.0 when every signal is present.
const (
	weightCompliance    = 0.15
	weightCheckInRisk   = 0.25
	weightSentiment     = 0.15
	weightEnergy        = 0.10
	weightMilestone     = 0.20
	weightCollaboration = 0.05
	weightBelow         = 0.05
	weightWarnings      = 0.05
)

// Compliance thresholds and their risk contributions.
const (
	complianceLowCutoff = 0.33
	complianceMidCutoff = 0.67
	complianceLowRisk   = 0.8
	complianceMidRisk   = 0.4
	warningsCap         = 3.0
	trendAmplifier      = 1.2
	energyScaleMax      = 10.0
	milestoneScaleMax   = 4.0
)

// accumulator collects weighted contributions and the weight actually used.
type accumulator struct {
	sum        float64
	weightUsed float64
}

func (a *accumulator) add(contribution, weight float64) {
	a.sum += contribution * weight
	a.weightUsed += weight
}

// Score maps a signal set to a risk score in [0, 1], rounded to two
// decimal places. It returns ErrInsufficientSignals when no signal at
// all is present: an empty assessment is an error, not an on-track
// result.
func Score(s model.SignalSet) (float64, error) {
	if empty(s) {
		return 0, ErrInsufficientSignals
	}

	var acc accumulator

	// Check-in compliance is graded against two cutoffs rather than
	// scaled linearly; only outright non-compliance carries risk.
	switch {
	case s.CheckInComplianceRate < complianceLowCutoff:
		acc.add(complianceLowRisk, weightCompliance)
	case s.CheckInComplianceRate < complianceMidCutoff:
		acc.add(complianceMidRisk, weightCompliance)
	default:
		acc.add(0, weightCompliance)
	}

	if s.AvgCheckInRisk != nil {
		acc.add(*s.AvgCheckInRisk, weightCheckInRisk)
	}

	if s.AvgSentiment != nil {
		// Sentiment arrives in [-1, 1]; map to [0, 1] and invert.
		acc.add(1.0-(*s.AvgSentiment+1.0)/2.0, weightSentiment)
	}

	if s.AvgEnergy != nil {
		acc.add(1.0-*s.AvgEnergy/energyScaleMax, weightEnergy)
	}

	if s.MilestoneAverage != nil {
		acc.add(1.0-*s.MilestoneAverage/milestoneScaleMax, weightMilestone)
	}

	// Collaboration and self-assessment rates are always present and
	// default to zero when no check-ins carry them. They participate in
	// renormalization unconditionally.
	acc.add(s.CollaborationIssueRate, weightCollaboration)
	acc.add(s.BelowExpectationsRate, weightBelow)

	acc.add(math.Min(float64(s.WarningsCount)/warningsCap, 1.0), weightWarnings)

	score := acc.sum / acc.weightUsed

	// Direction matters, not just level: amplify before rounding when
	// the prior scores show a rising trend.
	if s.TrendIncreasing() {
		score = math.Min(score*trendAmplifier, 1.0)
	}

	return math.Round(score*100) / 100, nil
}

// empty reports whether the set carries no signal at all. The collector
// produces exactly this zero-valued set for a fellow with no check-ins,
// no milestones, no warnings and no prior assessments.
func empty(s model.SignalSet) bool {
	return s.AvgSentiment == nil &&
		s.AvgCheckInRisk == nil &&
		s.AvgEnergy == nil &&
		s.MilestoneAverage == nil &&
		s.MilestoneCount == 0 &&
		s.WarningsCount == 0 &&
		len(s.PriorRiskScores) == 0 &&
		s.CheckInComplianceRate == 0 &&
		s.CollaborationIssueRate == 0 &&
		s.BelowExpectationsRate == 0
}
