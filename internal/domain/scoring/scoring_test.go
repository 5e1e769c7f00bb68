package scoring_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/internal/domain/scoring"
)

func TestScore(t *testing.T) {
	Convey("Given a fully populated signal set", t, func() {
		signals := model.SignalSet{
			CheckInComplianceRate:  0.33,
			AvgCheckInRisk:         model.Float(0.6),
			AvgSentiment:           model.Float(-0.4),
			AvgEnergy:              model.Float(3),
			MilestoneAverage:       model.Float(2.0),
			MilestoneCount:         2,
			CollaborationIssueRate: 0.4,
			BelowExpectationsRate:  0.2,
			WarningsCount:          1,
		}

		Convey("Then the weighted components sum to the documented score", func() {
			score, err := scoring.Score(signals)
			So(err, ShouldBeNil)
			// 0.06 + 0.15 + 0.105 + 0.07 + 0.10 + 0.02 + 0.01 + 0.0167
			So(score, ShouldEqual, 0.53)
		})

		Convey("And scoring is pure", func() {
			first, err := scoring.Score(signals)
			So(err, ShouldBeNil)
			second, err := scoring.Score(signals)
			So(err, ShouldBeNil)
			So(second, ShouldEqual, first)
			So(*signals.AvgCheckInRisk, ShouldEqual, 0.6)
		})
	})

	Convey("Given a set with no signal at all", t, func() {
		Convey("Then scoring fails instead of reporting on-track", func() {
			_, err := scoring.Score(model.SignalSet{})
			So(err, ShouldEqual, scoring.ErrInsufficientSignals)
		})
	})

	Convey("Given only some signals", t, func() {
		Convey("When just compliance carries risk", func() {
			signals := model.SignalSet{CheckInComplianceRate: 0.2}

			Convey("Then the weight renormalizes over present components", func() {
				score, err := scoring.Score(signals)
				So(err, ShouldBeNil)
				// 0.8*0.15 over weight 0.15+0.05+0.05+0.05
				So(score, ShouldEqual, 0.4)
			})
		})

		Convey("When an absent signal is supplied as its zero value instead", func() {
			withAbsence := model.SignalSet{
				CheckInComplianceRate: 1.0,
				AvgCheckInRisk:        model.Float(0.5),
			}
			withZero := withAbsence
			withZero.AvgSentiment = model.Float(0)

			Convey("Then the scores differ, absence is not zero", func() {
				a, err := scoring.Score(withAbsence)
				So(err, ShouldBeNil)
				b, err := scoring.Score(withZero)
				So(err, ShouldBeNil)
				So(b, ShouldNotEqual, a)
				So(b, ShouldBeGreaterThan, a)
			})
		})
	})

	Convey("Given compliance rates around the cutoffs", t, func() {
		base := model.SignalSet{AvgCheckInRisk: model.Float(0)}

		lowRate := base
		lowRate.CheckInComplianceRate = 0.32
		midRate := base
		midRate.CheckInComplianceRate = 0.33
		fullRate := base
		fullRate.CheckInComplianceRate = 0.67

		low, err := scoring.Score(lowRate)
		So(err, ShouldBeNil)
		mid, err := scoring.Score(midRate)
		So(err, ShouldBeNil)
		full, err := scoring.Score(fullRate)
		So(err, ShouldBeNil)

		Convey("Then risk decreases stepwise as compliance improves", func() {
			So(low, ShouldBeGreaterThan, mid)
			So(mid, ShouldBeGreaterThan, full)
			So(full, ShouldEqual, 0)
		})
	})

	Convey("Given two sets differing only in check-in risk", t, func() {
		base := model.SignalSet{
			CheckInComplianceRate: 1.0,
			AvgCheckInRisk:        model.Float(0.2),
			AvgSentiment:          model.Float(0.1),
			AvgEnergy:             model.Float(6),
		}
		riskier := base
		riskier.AvgCheckInRisk = model.Float(0.9)

		lower, err := scoring.Score(base)
		So(err, ShouldBeNil)
		higher, err := scoring.Score(riskier)
		So(err, ShouldBeNil)

		Convey("Then raising check-in risk never lowers the score", func() {
			So(higher, ShouldBeGreaterThan, lower)
		})
	})

	Convey("Given prior scores that trend upward", t, func() {
		signals := model.SignalSet{
			CheckInComplianceRate: 1.0,
			AvgCheckInRisk:        model.Float(0.55),
		}

		base, err := scoring.Score(signals)
		So(err, ShouldBeNil)
		So(base, ShouldEqual, 0.25)

		Convey("When the latest prior exceeds the older mean by over 10%", func() {
			signals.PriorRiskScores = []float64{0.5, 0.3}

			Convey("Then the score is amplified", func() {
				score, err := scoring.Score(signals)
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 0.3)
			})
		})

		Convey("When the trend is flat", func() {
			signals.PriorRiskScores = []float64{0.3, 0.3}

			Convey("Then no amplification applies", func() {
				score, err := scoring.Score(signals)
				So(err, ShouldBeNil)
				So(score, ShouldEqual, base)
			})
		})

		Convey("When only one prior score exists", func() {
			signals.PriorRiskScores = []float64{0.9}

			Convey("Then no trend can be established", func() {
				score, err := scoring.Score(signals)
				So(err, ShouldBeNil)
				So(score, ShouldEqual, base)
			})
		})
	})

	Convey("Given maximal risk on every signal with a rising trend", t, func() {
		signals := model.SignalSet{
			CheckInComplianceRate:  0.0,
			AvgCheckInRisk:         model.Float(1.0),
			AvgSentiment:           model.Float(-1.0),
			AvgEnergy:              model.Float(1.0),
			MilestoneAverage:       model.Float(0),
			MilestoneCount:         1,
			CollaborationIssueRate: 1.0,
			BelowExpectationsRate:  1.0,
			WarningsCount:          5,
			PriorRiskScores:        []float64{0.9, 0.5},
		}

		Convey("Then amplification caps the score at 1.0", func() {
			score, err := scoring.Score(signals)
			So(err, ShouldBeNil)
			So(score, ShouldBeLessThanOrEqualTo, 1.0)
			So(score, ShouldBeGreaterThan, 0.9)
		})
	})

	Convey("Given a warnings count beyond the cap", t, func() {
		atCap := model.SignalSet{CheckInComplianceRate: 1.0, WarningsCount: 3}
		beyond := model.SignalSet{CheckInComplianceRate: 1.0, WarningsCount: 30}

		a, err := scoring.Score(atCap)
		So(err, ShouldBeNil)
		b, err := scoring.Score(beyond)
		So(err, ShouldBeNil)

		Convey("Then the warnings contribution saturates", func() {
			So(b, ShouldEqual, a)
		})
	})
}
