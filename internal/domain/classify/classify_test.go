package classify_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mentorled/fellowtrack/internal/domain/classify"
	"github.com/mentorled/fellowtrack/internal/domain/model"
)

func TestLevel(t *testing.T) {
	Convey("Given scores across the classification range", t, func() {
		cases := []struct {
			score float64
			level model.RiskLevel
		}{
			{0.0, model.LevelOnTrack},
			{0.2499, model.LevelOnTrack},
			{0.25, model.LevelMonitor},
			{0.4999, model.LevelMonitor},
			{0.50, model.LevelAtRisk},
			{0.7499, model.LevelAtRisk},
			{0.75, model.LevelCritical},
			{1.0, model.LevelCritical},
		}

		Convey("Then each bucket is closed on its lower bound", func() {
			for _, tc := range cases {
				So(classify.Level(tc.score), ShouldEqual, tc.level)
			}
		})
	})
}

func TestConcerns(t *testing.T) {
	Convey("Given a signal set triggering every rule", t, func() {
		signals := model.SignalSet{
			CheckInComplianceRate:  0.33,
			AvgSentiment:           model.Float(-0.4),
			AvgEnergy:              model.Float(3),
			MilestoneAverage:       model.Float(2.0),
			CollaborationIssueRate: 0.4,
			WarningsCount:          1,
			PriorRiskScores:        []float64{0.5, 0.3},
		}

		concerns := classify.Concerns(signals)

		Convey("Then every concern kind is reported with its evidence", func() {
			So(concerns, ShouldContainKey, model.ConcernCompliance)
			So(concerns, ShouldContainKey, model.ConcernLowMorale)
			So(concerns, ShouldContainKey, model.ConcernLowEnergy)
			So(concerns, ShouldContainKey, model.ConcernCollaboration)
			So(concerns, ShouldContainKey, model.ConcernPerformance)
			So(concerns, ShouldContainKey, model.ConcernWarnings)
			So(concerns, ShouldContainKey, model.ConcernTrend)
			So(concerns[model.ConcernWarnings], ShouldEqual, "1 warning(s) issued")
		})
	})

	Convey("Given a healthy signal set", t, func() {
		signals := model.SignalSet{
			CheckInComplianceRate: 1.0,
			AvgSentiment:          model.Float(0.5),
			AvgEnergy:             model.Float(8),
			MilestoneAverage:      model.Float(3.5),
		}

		Convey("Then no concerns are raised", func() {
			So(classify.Concerns(signals), ShouldBeEmpty)
		})
	})

	Convey("Given absent optional signals", t, func() {
		signals := model.SignalSet{CheckInComplianceRate: 1.0}

		Convey("Then absence does not trigger sentiment, energy, or performance rules", func() {
			concerns := classify.Concerns(signals)
			So(concerns, ShouldNotContainKey, model.ConcernLowMorale)
			So(concerns, ShouldNotContainKey, model.ConcernLowEnergy)
			So(concerns, ShouldNotContainKey, model.ConcernPerformance)
		})
	})
}

func TestRecommend(t *testing.T) {
	Convey("Given each risk level", t, func() {
		Convey("Then critical always demands immediate intervention", func() {
			So(classify.Recommend(model.LevelCritical, 0), ShouldEqual, model.ActionImmediateIntervention)
			So(classify.Recommend(model.LevelCritical, 2), ShouldEqual, model.ActionImmediateIntervention)
		})

		Convey("Then at-risk escalates with warning history", func() {
			So(classify.Recommend(model.LevelAtRisk, 0), ShouldEqual, model.ActionIssueWarning)
			So(classify.Recommend(model.LevelAtRisk, 1), ShouldEqual, model.ActionIssueFinalWarning)
		})

		Convey("Then monitor schedules a 1:1 and on-track keeps monitoring", func() {
			So(classify.Recommend(model.LevelMonitor, 0), ShouldEqual, model.ActionSchedule1on1)
			So(classify.Recommend(model.LevelOnTrack, 0), ShouldEqual, model.ActionContinueMonitoring)
		})
	})
}
