// Package classify maps risk scores to levels and signal sets to
// concerns and recommended actions.
//
// This is the sole bridge between scoring and the warning workflow:
// it only recommends, it never issues anything.
package classify

import (
	"fmt"

	"github.com/mentorled/fellowtrack/internal/domain/model"
)

// Level thresholds. Each bucket is closed on the lower side, so a score
// of exactly 0.25 classifies as monitor.
const (
	monitorThreshold  = 0.25
	atRiskThreshold   = 0.50
	criticalThreshold = 0.75
)

// Concern rule cutoffs.
const (
	complianceConcernCutoff    = 0.67
	sentimentConcernCutoff     = -0.3
	energyConcernCutoff        = 4.0
	collaborationConcernCutoff = 0.3
	milestoneConcernCutoff     = 2.5
)

// Level maps a risk score to its ordinal classification.
func Level(score float64) model.RiskLevel {
	switch {
	case score < monitorThreshold:
		return model.LevelOnTrack
	case score < atRiskThreshold:
		return model.LevelMonitor
	case score < criticalThreshold:
		return model.LevelAtRisk
	default:
		return model.LevelCritical
	}
}

// Concerns extracts triggered concern rules from a signal set. Each
// description embeds the underlying numeric evidence so it can be
// audited independently of the score.
func Concerns(s model.SignalSet) map[model.Concern]string {
	concerns := make(map[model.Concern]string)

	if s.CheckInComplianceRate < complianceConcernCutoff {
		concerns[model.ConcernCompliance] = fmt.Sprintf("Low check-in rate: %.1f%%", s.CheckInComplianceRate*100)
	}
	if s.AvgSentiment != nil && *s.AvgSentiment < sentimentConcernCutoff {
		concerns[model.ConcernLowMorale] = fmt.Sprintf("Negative sentiment: %.2f", *s.AvgSentiment)
	}
	if s.AvgEnergy != nil && *s.AvgEnergy < energyConcernCutoff {
		concerns[model.ConcernLowEnergy] = fmt.Sprintf("Low energy levels: %.1f/10", *s.AvgEnergy)
	}
	if s.CollaborationIssueRate > collaborationConcernCutoff {
		concerns[model.ConcernCollaboration] = fmt.Sprintf("Struggling with team collaboration in %.0f%% of recent check-ins", s.CollaborationIssueRate*100)
	}
	if s.MilestoneAverage != nil && *s.MilestoneAverage < milestoneConcernCutoff {
		concerns[model.ConcernPerformance] = fmt.Sprintf("Below target milestone performance: %.2f/4", *s.MilestoneAverage)
	}
	if s.WarningsCount > 0 {
		concerns[model.ConcernWarnings] = fmt.Sprintf("%d warning(s) issued", s.WarningsCount)
	}
	if s.TrendIncreasing() {
		concerns[model.ConcernTrend] = fmt.Sprintf("Risk score is increasing: latest %.2f vs prior trend", s.PriorRiskScores[0])
	}

	return concerns
}

// Recommend maps a level and the fellow's warning history to the
// recommended intervention.
func Recommend(level model.RiskLevel, warningsCount int) model.Action {
	switch level {
	case model.LevelCritical:
		return model.ActionImmediateIntervention
	case model.LevelAtRisk:
		if warningsCount >= 1 {
			return model.ActionIssueFinalWarning
		}
		return model.ActionIssueWarning
	case model.LevelMonitor:
		return model.ActionSchedule1on1
	default:
		return model.ActionContinueMonitoring
	}
}
