// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the ordinal risk classification for a fellow.
type RiskLevel string

const (
	LevelOnTrack  RiskLevel = "on_track"
	LevelMonitor  RiskLevel = "monitor"
	LevelAtRisk   RiskLevel = "at_risk"
	LevelCritical RiskLevel = "critical"
)

// Rank orders levels so callers can compare severity.
func (l RiskLevel) Rank() int {
	switch l {
	case LevelOnTrack:
		return 0
	case LevelMonitor:
		return 1
	case LevelAtRisk:
		return 2
	case LevelCritical:
		return 3
	}
	return -1
}

// Levels lists all risk levels in ascending severity.
func Levels() []RiskLevel {
	return []RiskLevel{LevelOnTrack, LevelMonitor, LevelAtRisk, LevelCritical}
}

// Action is the recommended intervention produced by classification.
type Action string

const (
	ActionContinueMonitoring    Action = "continue_monitoring"
	ActionSchedule1on1          Action = "schedule_1_on_1"
	ActionIssueWarning          Action = "issue_warning"
	ActionIssueFinalWarning     Action = "final_warning"
	ActionImmediateIntervention Action = "immediate_intervention"
)

// Concern identifies one triggered concern rule.
type Concern string

const (
	ConcernCompliance    Concern = "check_in_compliance"
	ConcernLowMorale     Concern = "low_morale"
	ConcernLowEnergy     Concern = "low_energy"
	ConcernCollaboration Concern = "collaboration"
	ConcernPerformance   Concern = "performance"
	ConcernWarnings      Concern = "warnings"
	ConcernTrend         Concern = "trend"
)

// FellowStatus tracks program membership state.
type FellowStatus string

const (
	StatusActive  FellowStatus = "active"
	StatusRemoved FellowStatus = "removed"
)

// SelfAssessment is a fellow's own weekly rating.
type SelfAssessment string

const (
	SelfExceeded SelfAssessment = "exceeded"
	SelfMet      SelfAssessment = "met"
	SelfBelow    SelfAssessment = "below"
)

// CollaborationRating reports how a fellow is working with their team.
type CollaborationRating string

const (
	CollabGreat      CollaborationRating = "great"
	CollabGood       CollaborationRating = "good"
	CollabOkay       CollaborationRating = "okay"
	CollabStruggling CollaborationRating = "struggling"
)

// Fellow is a monitored program participant. The engine writes the
// current risk fields and the warnings count; everything else is
// owned by the surrounding system.
type Fellow struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Role             string       `json:"role"`
	Status           FellowStatus `json:"status"`
	Milestone1Score  *float64     `json:"milestone_1_score,omitempty"`
	Milestone2Score  *float64     `json:"milestone_2_score,omitempty"`
	Milestone3Score  *float64     `json:"milestone_3_score,omitempty"`
	CurrentRiskScore *float64     `json:"current_risk_score,omitempty"`
	CurrentRiskLevel RiskLevel    `json:"current_risk_level,omitempty"`
	WarningsCount    int          `json:"warnings_count"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// MilestoneScores returns the present milestone scores in order.
func (f *Fellow) MilestoneScores() []float64 {
	var out []float64
	for _, s := range []*float64{f.Milestone1Score, f.Milestone2Score, f.Milestone3Score} {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// CheckIn is one weekly self-report. Analysis fields (sentiment, risk
// contribution) are produced upstream by the check-in analyzer and may
// be absent.
type CheckIn struct {
	ID                  uuid.UUID           `json:"id"`
	FellowID            uuid.UUID           `json:"fellow_id"`
	Week                int                 `json:"week"`
	Accomplishments     string              `json:"accomplishments,omitempty"`
	Blockers            string              `json:"blockers,omitempty"`
	SelfAssessment      SelfAssessment      `json:"self_assessment,omitempty"`
	CollaborationRating CollaborationRating `json:"collaboration_rating,omitempty"`
	EnergyLevel         *int                `json:"energy_level,omitempty"`
	SentimentScore      *float64            `json:"sentiment_score,omitempty"`
	RiskContribution    *float64            `json:"risk_contribution,omitempty"`
	SubmittedAt         time.Time           `json:"submitted_at"`
}

// SignalSet is the normalized bag of indicators for one fellow at one
// evaluation week. Pointer fields distinguish "no signal" from zero.
type SignalSet struct {
	CheckInComplianceRate  float64   `json:"check_in_compliance_rate"`
	AvgSentiment           *float64  `json:"avg_sentiment,omitempty"`
	AvgCheckInRisk         *float64  `json:"avg_check_in_risk,omitempty"`
	AvgEnergy              *float64  `json:"avg_energy,omitempty"`
	CollaborationIssueRate float64   `json:"collaboration_issue_rate"`
	BelowExpectationsRate  float64   `json:"below_expectations_rate"`
	MilestoneAverage       *float64  `json:"milestone_average,omitempty"`
	MilestoneCount         int       `json:"milestone_count"`
	WarningsCount          int       `json:"warnings_count"`
	PriorRiskScores        []float64 `json:"prior_risk_scores,omitempty"` // most-recent-first
}

// TrendIncreasing reports whether the most recent prior score exceeds
// the mean of the older ones by more than 10%.
func (s SignalSet) TrendIncreasing() bool {
	if len(s.PriorRiskScores) < 2 {
		return false
	}
	latest := s.PriorRiskScores[0]
	older := s.PriorRiskScores[1:]
	var sum float64
	for _, v := range older {
		sum += v
	}
	mean := sum / float64(len(older))
	return latest > mean*1.1
}

// Assessment is the persisted outcome of one scoring run, keyed by
// (fellow, week).
type Assessment struct {
	ID                uuid.UUID          `json:"id"`
	FellowID          uuid.UUID          `json:"fellow_id"`
	Week              int                `json:"week"`
	RiskScore         float64            `json:"risk_score"`
	RiskLevel         RiskLevel          `json:"risk_level"`
	Signals           SignalSet          `json:"signals"`
	Concerns          map[Concern]string `json:"concerns"`
	RecommendedAction Action             `json:"recommended_action"`
	AssessedAt        time.Time          `json:"assessed_at"`
}

// WarningLevel distinguishes the two escalation stages.
type WarningLevel string

const (
	WarningFirst WarningLevel = "first"
	WarningFinal WarningLevel = "final"
)

// WarningState is the explicit lifecycle state of a warning.
type WarningState string

const (
	WarningDrafted      WarningState = "drafted"
	WarningIssued       WarningState = "issued"
	WarningAcknowledged WarningState = "acknowledged"
)

// WarningOutcome is the reviewer-recorded terminal disposition.
type WarningOutcome string

const (
	OutcomeResolved  WarningOutcome = "resolved"
	OutcomeEscalated WarningOutcome = "escalated"
	OutcomeRemoval   WarningOutcome = "removal"
)

// Warning is one drafted or issued intervention, owned by its fellow.
//
// Invariants: IssuedAt is set iff State is at least issued;
// Acknowledged and AcknowledgedAt are set iff State is acknowledged;
// a drafted warning carries neither.
type Warning struct {
	ID             uuid.UUID      `json:"id"`
	FellowID       uuid.UUID      `json:"fellow_id"`
	Level          WarningLevel   `json:"level"`
	State          WarningState   `json:"state"`
	Concerns       []string       `json:"concerns"`
	Requirements   []string       `json:"requirements"`
	Timeline       string         `json:"timeline,omitempty"`
	DraftMessage   string         `json:"draft_message,omitempty"`
	FinalMessage   string         `json:"final_message,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	Acknowledged   bool           `json:"acknowledged"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	Outcome        WarningOutcome `json:"outcome,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Float is a convenience for building optional signal values.
func Float(v float64) *float64 { return &v }

// IntPtr is a convenience for building optional integer values.
func IntPtr(v int) *int { return &v }
