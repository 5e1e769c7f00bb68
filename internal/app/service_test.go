package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/mentorled/fellowtrack/internal/adapters/notify"
	"github.com/mentorled/fellowtrack/internal/adapters/repository"
	"github.com/mentorled/fellowtrack/internal/app"
	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/internal/domain/scoring"
	"github.com/mentorled/fellowtrack/internal/domain/signal"
	"github.com/mentorled/fellowtrack/internal/domain/warning"
	"github.com/mentorled/fellowtrack/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

type capturingNotifier struct {
	events []notify.Event
}

func (c *capturingNotifier) Notify(_ context.Context, ev notify.Event) {
	c.events = append(c.events, ev)
}

type stubDrafter struct{}

func (stubDrafter) Draft(_ context.Context, _ warning.DraftRequest) (warning.Draft, error) {
	return warning.Draft{
		Message:      strings.Repeat("formal warning text. ", 12),
		Requirements: []string{"weekly check-ins"},
		Timeline:     "2 weeks",
	}, nil
}

func newService(store *repository.MemStore, notifier notify.Notifier) *app.Service {
	collector := signal.NewCollector(store)
	machine := warning.NewMachine(store, stubDrafter{})
	return app.New(store, collector, machine, app.WithNotifier(notifier))
}

func seedRiskyFellow(ctx context.Context, store *repository.MemStore) model.Fellow {
	fellow := model.Fellow{
		ID:              uuid.New(),
		Name:            "Noor",
		Role:            "product",
		Status:          model.StatusActive,
		Milestone1Score: model.Float(2.0),
	}
	_ = store.CreateFellow(ctx, fellow)
	for week := 4; week <= 5; week++ {
		_ = store.CreateCheckIn(ctx, model.CheckIn{
			ID:               uuid.New(),
			FellowID:         fellow.ID,
			Week:             week,
			SentimentScore:   model.Float(-0.5),
			RiskContribution: model.Float(0.7),
			EnergyLevel:      model.IntPtr(3),
			SelfAssessment:   model.SelfBelow,
			SubmittedAt:      time.Now().UTC(),
		})
	}
	return fellow
}

func TestServiceAssess(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fellow with risky history", t, func() {
		store := repository.NewMemStore()
		notifier := &capturingNotifier{}
		svc := newService(store, notifier)
		fellow := seedRiskyFellow(ctx, store)

		Convey("When assessing week 6", func() {
			a, err := svc.Assess(ctx, fellow.ID, 6)
			So(err, ShouldBeNil)

			Convey("Then the record carries score, level, and concerns", func() {
				So(a.RiskScore, ShouldBeGreaterThan, 0)
				So(a.RiskScore, ShouldBeLessThanOrEqualTo, 1)
				So(a.RiskLevel, ShouldNotEqual, model.RiskLevel(""))
				So(a.Concerns, ShouldNotBeEmpty)
				So(a.Week, ShouldEqual, 6)
			})

			Convey("Then the fellow's current risk fields are updated", func() {
				got, err := svc.Fellow(ctx, fellow.ID)
				So(err, ShouldBeNil)
				So(*got.CurrentRiskScore, ShouldEqual, a.RiskScore)
				So(got.CurrentRiskLevel, ShouldEqual, a.RiskLevel)
			})

			Convey("Then re-running the same week overwrites in place", func() {
				again, err := svc.Assess(ctx, fellow.ID, 6)
				So(err, ShouldBeNil)
				So(again.ID, ShouldResemble, a.ID)
				So(again.RiskScore, ShouldEqual, a.RiskScore)

				history, err := svc.AssessmentHistory(ctx, fellow.ID)
				So(err, ShouldBeNil)
				So(history, ShouldHaveLength, 1)
			})

			Convey("Then the escalation channel heard about the level change", func() {
				So(a.RiskLevel.Rank(), ShouldBeGreaterThanOrEqualTo, model.LevelAtRisk.Rank())
				So(notifier.events, ShouldNotBeEmpty)
				So(notifier.events[0].Kind, ShouldEqual, notify.KindLevelChanged)
				So(notifier.events[0].FellowName, ShouldEqual, "Noor")
			})

			Convey("And a re-run at the same level stays quiet", func() {
				seen := len(notifier.events)
				_, err := svc.Assess(ctx, fellow.ID, 6)
				So(err, ShouldBeNil)
				So(notifier.events, ShouldHaveLength, seen)
			})
		})

		Convey("When assessing an unknown fellow", func() {
			_, err := svc.Assess(ctx, uuid.New(), 1)
			So(errors.Is(err, repository.ErrFellowNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a fellow with no history at all", t, func() {
		store := repository.NewMemStore()
		svc := newService(store, notify.Noop{})
		bare := model.Fellow{ID: uuid.New(), Name: "Blank", Status: model.StatusActive}
		So(store.CreateFellow(ctx, bare), ShouldBeNil)

		Convey("Then assessment refuses to guess", func() {
			_, err := svc.Assess(ctx, bare.ID, 1)
			So(errors.Is(err, scoring.ErrInsufficientSignals), ShouldBeTrue)
		})
	})
}

func TestServiceSummaryAndWarnings(t *testing.T) {
	ctx := context.Background()

	Convey("Given an assessed cohort", t, func() {
		store := repository.NewMemStore()
		svc := newService(store, notify.Noop{})
		risky := seedRiskyFellow(ctx, store)
		calm := model.Fellow{ID: uuid.New(), Name: "Sam", Status: model.StatusActive}
		So(store.CreateFellow(ctx, calm), ShouldBeNil)

		_, err := svc.Assess(ctx, risky.ID, 6)
		So(err, ShouldBeNil)

		Convey("Then the summary splits the cohort by level", func() {
			sum, err := svc.CohortSummary(ctx)
			So(err, ShouldBeNil)
			So(sum.Total, ShouldEqual, 2)
			So(sum.ByLevel[model.LevelOnTrack], ShouldEqual, 1)
			So(sum.AtRisk, ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("When drafting a warning with no explicit concerns", func() {
			w, err := svc.DraftWarning(ctx, risky.ID, model.WarningFirst, nil)
			So(err, ShouldBeNil)

			Convey("Then concerns default to the latest assessment's", func() {
				So(w.Concerns, ShouldNotBeEmpty)
			})

			Convey("And issuing it notifies the escalation channel", func() {
				notifier := &capturingNotifier{}
				svc2 := newService(store, notifier)
				issued, err := svc2.IssueWarning(ctx, w.ID, "")
				So(err, ShouldBeNil)
				So(issued.State, ShouldEqual, model.WarningIssued)
				So(notifier.events, ShouldHaveLength, 1)
				So(notifier.events[0].Kind, ShouldEqual, notify.KindWarningIssued)
			})
		})
	})
}
