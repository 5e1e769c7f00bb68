// Package seed loads YAML fixtures into the store at startup. It is
// meant for demos and local development against the memory backend.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/pkg/logger"
)

// Store is the subset of the repository the seeder writes through.
type Store interface {
	CreateFellow(ctx context.Context, f model.Fellow) error
	CreateCheckIn(ctx context.Context, ci model.CheckIn) error
}

type fixture struct {
	Fellows []fellowFixture `yaml:"fellows"`
}

type fellowFixture struct {
	ID              string           `yaml:"id"`
	Name            string           `yaml:"name"`
	Role            string           `yaml:"role"`
	Status          string           `yaml:"status"`
	Milestone1Score *float64         `yaml:"milestone_1_score"`
	Milestone2Score *float64         `yaml:"milestone_2_score"`
	Milestone3Score *float64         `yaml:"milestone_3_score"`
	CheckIns        []checkInFixture `yaml:"check_ins"`
}

type checkInFixture struct {
	Week                int      `yaml:"week"`
	Accomplishments     string   `yaml:"accomplishments"`
	Blockers            string   `yaml:"blockers"`
	SelfAssessment      string   `yaml:"self_assessment"`
	CollaborationRating string   `yaml:"collaboration_rating"`
	EnergyLevel         *int     `yaml:"energy_level"`
	SentimentScore      *float64 `yaml:"sentiment_score"`
	RiskContribution    *float64 `yaml:"risk_contribution"`
}

// Load reads the fixture at path and inserts its fellows and check-ins.
func Load(ctx context.Context, store Store, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	log := logger.Named("seed")
	now := time.Now().UTC()

	for _, ff := range fx.Fellows {
		id := uuid.New()
		if ff.ID != "" {
			id, err = uuid.Parse(ff.ID)
			if err != nil {
				return fmt.Errorf("fellow %q: invalid id: %w", ff.Name, err)
			}
		}
		status := model.StatusActive
		if ff.Status != "" {
			status = model.FellowStatus(ff.Status)
		}

		f := model.Fellow{
			ID:              id,
			Name:            ff.Name,
			Role:            ff.Role,
			Status:          status,
			Milestone1Score: ff.Milestone1Score,
			Milestone2Score: ff.Milestone2Score,
			Milestone3Score: ff.Milestone3Score,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := store.CreateFellow(ctx, f); err != nil {
			return fmt.Errorf("seed fellow %q: %w", ff.Name, err)
		}

		for _, cf := range ff.CheckIns {
			ci := model.CheckIn{
				ID:                  uuid.New(),
				FellowID:            id,
				Week:                cf.Week,
				Accomplishments:     cf.Accomplishments,
				Blockers:            cf.Blockers,
				SelfAssessment:      model.SelfAssessment(cf.SelfAssessment),
				CollaborationRating: model.CollaborationRating(cf.CollaborationRating),
				EnergyLevel:         cf.EnergyLevel,
				SentimentScore:      cf.SentimentScore,
				RiskContribution:    cf.RiskContribution,
				SubmittedAt:         now,
			}
			if err := store.CreateCheckIn(ctx, ci); err != nil {
				return fmt.Errorf("seed check-in for %q week %d: %w", ff.Name, cf.Week, err)
			}
		}
	}

	log.Info(ctx, "fixtures loaded", logger.Int("fellows", len(fx.Fellows)))
	return nil
}
