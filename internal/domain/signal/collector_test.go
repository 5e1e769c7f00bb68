package signal_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/mentorled/fellowtrack/internal/adapters/repository"
	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/internal/domain/signal"
)

type fakeReader struct {
	fellow      model.Fellow
	checkIns    []model.CheckIn
	assessments []model.Assessment
	missing     bool
}

func (f *fakeReader) FellowByID(_ context.Context, id uuid.UUID) (model.Fellow, error) {
	if f.missing {
		return model.Fellow{}, fmt.Errorf("%w: %s", repository.ErrFellowNotFound, id)
	}
	return f.fellow, nil
}

func (f *fakeReader) CheckInsInRange(_ context.Context, _ uuid.UUID, fromWeek, toWeek int) ([]model.CheckIn, error) {
	var out []model.CheckIn
	for _, ci := range f.checkIns {
		if ci.Week >= fromWeek && ci.Week <= toWeek {
			out = append(out, ci)
		}
	}
	return out, nil
}

func (f *fakeReader) AssessmentsBefore(_ context.Context, _ uuid.UUID, week, limit int) ([]model.Assessment, error) {
	var out []model.Assessment
	for _, a := range f.assessments {
		if a.Week < week && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestCollect(t *testing.T) {
	fellowID := uuid.New()

	Convey("Given a fellow with a full history", t, func() {
		reader := &fakeReader{
			fellow: model.Fellow{
				ID:              fellowID,
				Name:            "Ada",
				Milestone1Score: model.Float(3.0),
				Milestone2Score: model.Float(2.0),
				WarningsCount:   1,
			},
			checkIns: []model.CheckIn{
				{Week: 4, SentimentScore: model.Float(0.2), RiskContribution: model.Float(0.4),
					EnergyLevel: model.IntPtr(6), CollaborationRating: model.CollabStruggling,
					SelfAssessment: model.SelfBelow},
				{Week: 5, SentimentScore: model.Float(-0.6), RiskContribution: model.Float(0.6),
					EnergyLevel: model.IntPtr(4), CollaborationRating: model.CollabGood,
					SelfAssessment: model.SelfMet},
			},
			assessments: []model.Assessment{
				{Week: 5, RiskScore: 0.5},
				{Week: 4, RiskScore: 0.3},
			},
		}
		collector := signal.NewCollector(reader)

		Convey("When collecting for week 6", func() {
			s, err := collector.Collect(context.Background(), fellowID, 6)
			So(err, ShouldBeNil)

			Convey("Then compliance is check-ins over the lookback window", func() {
				So(s.CheckInComplianceRate, ShouldAlmostEqual, 2.0/3.0)
			})

			Convey("Then averages cover only the present values", func() {
				So(*s.AvgSentiment, ShouldAlmostEqual, -0.2)
				So(*s.AvgCheckInRisk, ShouldAlmostEqual, 0.5)
				So(*s.AvgEnergy, ShouldAlmostEqual, 5.0)
				So(s.CollaborationIssueRate, ShouldAlmostEqual, 0.5)
				So(s.BelowExpectationsRate, ShouldAlmostEqual, 0.5)
			})

			Convey("Then milestones and warnings come from the fellow", func() {
				So(*s.MilestoneAverage, ShouldAlmostEqual, 2.5)
				So(s.MilestoneCount, ShouldEqual, 2)
				So(s.WarningsCount, ShouldEqual, 1)
			})

			Convey("Then prior scores arrive most-recent-first", func() {
				So(s.PriorRiskScores, ShouldResemble, []float64{0.5, 0.3})
			})
		})
	})

	Convey("Given check-ins with missing analysis fields", t, func() {
		reader := &fakeReader{
			fellow: model.Fellow{ID: fellowID},
			checkIns: []model.CheckIn{
				{Week: 1},
				{Week: 2, EnergyLevel: model.IntPtr(8)},
			},
		}
		collector := signal.NewCollector(reader)

		Convey("When collecting for week 3", func() {
			s, err := collector.Collect(context.Background(), fellowID, 3)
			So(err, ShouldBeNil)

			Convey("Then fields with no observations stay absent, not zero", func() {
				So(s.AvgSentiment, ShouldBeNil)
				So(s.AvgCheckInRisk, ShouldBeNil)
				So(s.MilestoneAverage, ShouldBeNil)
				So(*s.AvgEnergy, ShouldAlmostEqual, 8.0)
			})
		})
	})

	Convey("Given a fellow with no history at all", t, func() {
		reader := &fakeReader{fellow: model.Fellow{ID: fellowID}}
		collector := signal.NewCollector(reader)

		Convey("Then the collector returns the zero-signal set", func() {
			s, err := collector.Collect(context.Background(), fellowID, 1)
			So(err, ShouldBeNil)
			So(s.CheckInComplianceRate, ShouldEqual, 0)
			So(s.AvgSentiment, ShouldBeNil)
			So(s.PriorRiskScores, ShouldBeEmpty)
		})
	})

	Convey("Given an unknown fellow", t, func() {
		collector := signal.NewCollector(&fakeReader{missing: true})

		Convey("Then collection fails with not found", func() {
			_, err := collector.Collect(context.Background(), uuid.New(), 1)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, repository.ErrFellowNotFound), ShouldBeTrue)
		})
	})

	Convey("Given more check-ins than the lookback expects", t, func() {
		checkIns := make([]model.CheckIn, 0, 5)
		for w := 1; w <= 5; w++ {
			checkIns = append(checkIns, model.CheckIn{Week: w, EnergyLevel: model.IntPtr(5)})
		}
		reader := &fakeReader{fellow: model.Fellow{ID: fellowID}, checkIns: checkIns}
		collector := signal.NewCollector(reader, signal.WithCheckInLookback(3))

		Convey("Then compliance caps at 1", func() {
			s, err := collector.Collect(context.Background(), fellowID, 5)
			So(err, ShouldBeNil)
			So(s.CheckInComplianceRate, ShouldEqual, 1.0)
		})
	})
}
