package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/internal/domain/warning"
)

// MySQLStore implements Store against MySQL. Structured fields
// (signals, concerns, requirements) are stored as JSON columns; the
// transactional boundaries use row locks so concurrent issuance
// serializes at the database.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore opens a connection pool and ensures the schema exists.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	dsn, err := normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// normalizeDSN validates the DSN and forces parseTime on, since the
// DATETIME columns are scanned straight into time.Time.
func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// isDuplicateKey reports whether err is a MySQL unique-key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// Close releases the connection pool.
func (s *MySQLStore) Close() error { return s.db.Close() }

func (s *MySQLStore) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fellows (
			id CHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL,
			milestone_1_score DOUBLE NULL,
			milestone_2_score DOUBLE NULL,
			milestone_3_score DOUBLE NULL,
			current_risk_score DOUBLE NULL,
			current_risk_level VARCHAR(20) NOT NULL DEFAULT '',
			warnings_count INT NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS check_ins (
			id CHAR(36) PRIMARY KEY,
			fellow_id CHAR(36) NOT NULL,
			week INT NOT NULL,
			accomplishments TEXT,
			blockers TEXT,
			self_assessment VARCHAR(20) NOT NULL DEFAULT '',
			collaboration_rating VARCHAR(20) NOT NULL DEFAULT '',
			energy_level INT NULL,
			sentiment_score DOUBLE NULL,
			risk_contribution DOUBLE NULL,
			submitted_at DATETIME NOT NULL,
			UNIQUE KEY uq_fellow_week (fellow_id, week),
			INDEX idx_checkins_fellow (fellow_id)
		)`,
		`CREATE TABLE IF NOT EXISTS assessments (
			id CHAR(36) PRIMARY KEY,
			fellow_id CHAR(36) NOT NULL,
			week INT NOT NULL,
			risk_score DOUBLE NOT NULL,
			risk_level VARCHAR(20) NOT NULL,
			signals JSON NOT NULL,
			concerns JSON NOT NULL,
			recommended_action VARCHAR(30) NOT NULL,
			assessed_at DATETIME NOT NULL,
			UNIQUE KEY uq_fellow_week_risk (fellow_id, week),
			INDEX idx_assessments_week (week)
		)`,
		`CREATE TABLE IF NOT EXISTS warnings (
			id CHAR(36) PRIMARY KEY,
			fellow_id CHAR(36) NOT NULL,
			level VARCHAR(10) NOT NULL,
			state VARCHAR(15) NOT NULL,
			concerns JSON NOT NULL,
			requirements JSON NOT NULL,
			timeline VARCHAR(100) NOT NULL DEFAULT '',
			draft_message TEXT,
			final_message TEXT,
			issued_at DATETIME NULL,
			acknowledged TINYINT(1) NOT NULL DEFAULT 0,
			acknowledged_at DATETIME NULL,
			outcome VARCHAR(20) NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			INDEX idx_warnings_fellow (fellow_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// CreateFellow registers a fellow.
func (s *MySQLStore) CreateFellow(ctx context.Context, f model.Fellow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fellows (id, name, role, status, milestone_1_score, milestone_2_score,
			milestone_3_score, current_risk_score, current_risk_level, warnings_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID.String(), f.Name, f.Role, string(f.Status),
		f.Milestone1Score, f.Milestone2Score, f.Milestone3Score,
		f.CurrentRiskScore, string(f.CurrentRiskLevel), f.WarningsCount,
		f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fellow: %w", err)
	}
	return nil
}

func scanFellow(row interface{ Scan(...any) error }) (model.Fellow, error) {
	var (
		f     model.Fellow
		id    string
		level string
	)
	err := row.Scan(&id, &f.Name, &f.Role, (*string)(&f.Status),
		&f.Milestone1Score, &f.Milestone2Score, &f.Milestone3Score,
		&f.CurrentRiskScore, &level, &f.WarningsCount, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return model.Fellow{}, err
	}
	f.ID, err = uuid.Parse(id)
	f.CurrentRiskLevel = model.RiskLevel(level)
	return f, err
}

const fellowColumns = `id, name, role, status, milestone_1_score, milestone_2_score,
	milestone_3_score, current_risk_score, current_risk_level, warnings_count, created_at, updated_at`

// FellowByID returns the fellow or ErrFellowNotFound.
func (s *MySQLStore) FellowByID(ctx context.Context, id uuid.UUID) (model.Fellow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fellowColumns+` FROM fellows WHERE id = ?`, id.String())
	f, err := scanFellow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fellow{}, fmt.Errorf("%w: %s", ErrFellowNotFound, id)
	}
	if err != nil {
		return model.Fellow{}, fmt.Errorf("select fellow: %w", err)
	}
	return f, nil
}

// ActiveFellows lists fellows with active status.
func (s *MySQLStore) ActiveFellows(ctx context.Context) ([]model.Fellow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fellowColumns+` FROM fellows WHERE status = ? ORDER BY id`, string(model.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("select active fellows: %w", err)
	}
	defer rows.Close()

	var out []model.Fellow
	for rows.Next() {
		f, err := scanFellow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fellow: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CreateCheckIn stores a weekly check-in.
func (s *MySQLStore) CreateCheckIn(ctx context.Context, ci model.CheckIn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO check_ins (id, fellow_id, week, accomplishments, blockers, self_assessment,
			collaboration_rating, energy_level, sentiment_score, risk_contribution, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ci.ID.String(), ci.FellowID.String(), ci.Week, ci.Accomplishments, ci.Blockers,
		string(ci.SelfAssessment), string(ci.CollaborationRating),
		ci.EnergyLevel, ci.SentimentScore, ci.RiskContribution, ci.SubmittedAt,
	)
	if isDuplicateKey(err) {
		return fmt.Errorf("%w: fellow %s week %d", ErrDuplicateCheckIn, ci.FellowID, ci.Week)
	}
	if err != nil {
		return fmt.Errorf("insert check-in: %w", err)
	}
	return nil
}

// CheckInsInRange returns check-ins with week in [fromWeek, toWeek].
func (s *MySQLStore) CheckInsInRange(ctx context.Context, fellowID uuid.UUID, fromWeek, toWeek int) ([]model.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fellow_id, week, accomplishments, blockers, self_assessment,
			collaboration_rating, energy_level, sentiment_score, risk_contribution, submitted_at
		 FROM check_ins WHERE fellow_id = ? AND week BETWEEN ? AND ? ORDER BY week DESC`,
		fellowID.String(), fromWeek, toWeek)
	if err != nil {
		return nil, fmt.Errorf("select check-ins: %w", err)
	}
	defer rows.Close()

	var out []model.CheckIn
	for rows.Next() {
		var (
			ci      model.CheckIn
			id, fid string
			selfA   string
			collab  string
		)
		if err := rows.Scan(&id, &fid, &ci.Week, &ci.Accomplishments, &ci.Blockers,
			&selfA, &collab, &ci.EnergyLevel, &ci.SentimentScore, &ci.RiskContribution,
			&ci.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		ci.ID, _ = uuid.Parse(id)
		ci.FellowID, _ = uuid.Parse(fid)
		ci.SelfAssessment = model.SelfAssessment(selfA)
		ci.CollaborationRating = model.CollaborationRating(collab)
		out = append(out, ci)
	}
	return out, rows.Err()
}

// SaveAssessment upserts by (fellow, week) and updates the fellow's
// current risk fields in one transaction.
func (s *MySQLStore) SaveAssessment(ctx context.Context, a model.Assessment) (model.Assessment, model.RiskLevel, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Assessment{}, "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var previousLevel string
	err = tx.QueryRowContext(ctx,
		`SELECT current_risk_level FROM fellows WHERE id = ? FOR UPDATE`, a.FellowID.String()).
		Scan(&previousLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Assessment{}, "", fmt.Errorf("%w: %s", ErrFellowNotFound, a.FellowID)
	}
	if err != nil {
		return model.Assessment{}, "", fmt.Errorf("lock fellow: %w", err)
	}

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM assessments WHERE fellow_id = ? AND week = ?`,
		a.FellowID.String(), a.Week).Scan(&existingID)
	switch {
	case err == nil:
		a.ID, _ = uuid.Parse(existingID)
	case errors.Is(err, sql.ErrNoRows):
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
	default:
		return model.Assessment{}, "", fmt.Errorf("select assessment: %w", err)
	}

	signalsJSON, err := json.Marshal(a.Signals)
	if err != nil {
		return model.Assessment{}, "", fmt.Errorf("marshal signals: %w", err)
	}
	concernsJSON, err := json.Marshal(a.Concerns)
	if err != nil {
		return model.Assessment{}, "", fmt.Errorf("marshal concerns: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO assessments (id, fellow_id, week, risk_score, risk_level, signals, concerns, recommended_action, assessed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE risk_score = VALUES(risk_score), risk_level = VALUES(risk_level),
			signals = VALUES(signals), concerns = VALUES(concerns),
			recommended_action = VALUES(recommended_action), assessed_at = VALUES(assessed_at)`,
		a.ID.String(), a.FellowID.String(), a.Week, a.RiskScore, string(a.RiskLevel),
		signalsJSON, concernsJSON, string(a.RecommendedAction), a.AssessedAt,
	); err != nil {
		return model.Assessment{}, "", fmt.Errorf("upsert assessment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE fellows SET current_risk_score = ?, current_risk_level = ?, updated_at = ? WHERE id = ?`,
		a.RiskScore, string(a.RiskLevel), a.AssessedAt, a.FellowID.String(),
	); err != nil {
		return model.Assessment{}, "", fmt.Errorf("update fellow risk: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Assessment{}, "", fmt.Errorf("commit assessment: %w", err)
	}
	return a, model.RiskLevel(previousLevel), nil
}

func (s *MySQLStore) queryAssessments(ctx context.Context, query string, args ...any) ([]model.Assessment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select assessments: %w", err)
	}
	defer rows.Close()

	var out []model.Assessment
	for rows.Next() {
		var (
			a            model.Assessment
			id, fid      string
			level        string
			action       string
			signalsJSON  []byte
			concernsJSON []byte
		)
		if err := rows.Scan(&id, &fid, &a.Week, &a.RiskScore, &level,
			&signalsJSON, &concernsJSON, &action, &a.AssessedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a.ID, _ = uuid.Parse(id)
		a.FellowID, _ = uuid.Parse(fid)
		a.RiskLevel = model.RiskLevel(level)
		a.RecommendedAction = model.Action(action)
		if err := json.Unmarshal(signalsJSON, &a.Signals); err != nil {
			return nil, fmt.Errorf("unmarshal signals: %w", err)
		}
		if err := json.Unmarshal(concernsJSON, &a.Concerns); err != nil {
			return nil, fmt.Errorf("unmarshal concerns: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const assessmentColumns = `id, fellow_id, week, risk_score, risk_level, signals, concerns, recommended_action, assessed_at`

// AssessmentsBefore returns assessments within the lookback window
// before week, most-recent-first.
func (s *MySQLStore) AssessmentsBefore(ctx context.Context, fellowID uuid.UUID, week, limit int) ([]model.Assessment, error) {
	return s.queryAssessments(ctx,
		`SELECT `+assessmentColumns+` FROM assessments
		 WHERE fellow_id = ? AND week < ? AND week >= ? ORDER BY week DESC LIMIT ?`,
		fellowID.String(), week, week-limit, limit)
}

// AssessmentsByFellow returns all assessments for a fellow, newest week first.
func (s *MySQLStore) AssessmentsByFellow(ctx context.Context, fellowID uuid.UUID) ([]model.Assessment, error) {
	return s.queryAssessments(ctx,
		`SELECT `+assessmentColumns+` FROM assessments WHERE fellow_id = ? ORDER BY week DESC`,
		fellowID.String())
}

// AssessmentsByWeek returns all assessments for a week, highest score first.
func (s *MySQLStore) AssessmentsByWeek(ctx context.Context, week int) ([]model.Assessment, error) {
	return s.queryAssessments(ctx,
		`SELECT `+assessmentColumns+` FROM assessments WHERE week = ? ORDER BY risk_score DESC`,
		week)
}

// CreateWarning stores a drafted warning.
func (s *MySQLStore) CreateWarning(ctx context.Context, w model.Warning) error {
	concernsJSON, err := json.Marshal(w.Concerns)
	if err != nil {
		return fmt.Errorf("marshal concerns: %w", err)
	}
	requirementsJSON, err := json.Marshal(w.Requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO warnings (id, fellow_id, level, state, concerns, requirements, timeline,
			draft_message, final_message, issued_at, acknowledged, acknowledged_at, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID.String(), w.FellowID.String(), string(w.Level), string(w.State),
		concernsJSON, requirementsJSON, w.Timeline, w.DraftMessage, w.FinalMessage,
		w.IssuedAt, w.Acknowledged, w.AcknowledgedAt, string(w.Outcome), w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert warning: %w", err)
	}
	return nil
}

const warningColumns = `id, fellow_id, level, state, concerns, requirements, timeline,
	draft_message, final_message, issued_at, acknowledged, acknowledged_at, outcome, created_at`

func scanWarning(row interface{ Scan(...any) error }) (model.Warning, error) {
	var (
		w            model.Warning
		id, fid      string
		level        string
		state        string
		outcome      string
		concernsJSON []byte
		reqJSON      []byte
	)
	err := row.Scan(&id, &fid, &level, &state, &concernsJSON, &reqJSON, &w.Timeline,
		&w.DraftMessage, &w.FinalMessage, &w.IssuedAt, &w.Acknowledged, &w.AcknowledgedAt,
		&outcome, &w.CreatedAt)
	if err != nil {
		return model.Warning{}, err
	}
	w.ID, _ = uuid.Parse(id)
	w.FellowID, _ = uuid.Parse(fid)
	w.Level = model.WarningLevel(level)
	w.State = model.WarningState(state)
	w.Outcome = model.WarningOutcome(outcome)
	if err := json.Unmarshal(concernsJSON, &w.Concerns); err != nil {
		return model.Warning{}, fmt.Errorf("unmarshal concerns: %w", err)
	}
	if err := json.Unmarshal(reqJSON, &w.Requirements); err != nil {
		return model.Warning{}, fmt.Errorf("unmarshal requirements: %w", err)
	}
	return w, nil
}

// WarningByID returns the warning or ErrWarningNotFound.
func (s *MySQLStore) WarningByID(ctx context.Context, id uuid.UUID) (model.Warning, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+warningColumns+` FROM warnings WHERE id = ?`, id.String())
	w, err := scanWarning(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Warning{}, fmt.Errorf("%w: %s", ErrWarningNotFound, id)
	}
	if err != nil {
		return model.Warning{}, fmt.Errorf("select warning: %w", err)
	}
	return w, nil
}

// WarningsByFellow returns all warnings for a fellow, newest first.
func (s *MySQLStore) WarningsByFellow(ctx context.Context, fellowID uuid.UUID) ([]model.Warning, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+warningColumns+` FROM warnings WHERE fellow_id = ? ORDER BY created_at DESC`,
		fellowID.String())
	if err != nil {
		return nil, fmt.Errorf("select warnings: %w", err)
	}
	defer rows.Close()

	var out []model.Warning
	for rows.Next() {
		w, err := scanWarning(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// MarkWarningIssued transitions drafted -> issued and increments the
// fellow's warnings count in one transaction. The row lock on the
// warning serializes concurrent issuance.
func (s *MySQLStore) MarkWarningIssued(ctx context.Context, id uuid.UUID, finalMessage string, at time.Time) (model.Warning, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Warning{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx, `SELECT `+warningColumns+` FROM warnings WHERE id = ? FOR UPDATE`, id.String())
	w, err := scanWarning(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Warning{}, fmt.Errorf("%w: %s", ErrWarningNotFound, id)
	}
	if err != nil {
		return model.Warning{}, fmt.Errorf("lock warning: %w", err)
	}
	if w.State != model.WarningDrafted {
		return model.Warning{}, warning.ErrAlreadyIssued
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE warnings SET state = ?, final_message = ?, issued_at = ? WHERE id = ?`,
		string(model.WarningIssued), finalMessage, at, id.String()); err != nil {
		return model.Warning{}, fmt.Errorf("update warning: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE fellows SET warnings_count = warnings_count + 1, updated_at = ? WHERE id = ?`,
		at, w.FellowID.String()); err != nil {
		return model.Warning{}, fmt.Errorf("increment warnings count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Warning{}, fmt.Errorf("commit issuance: %w", err)
	}

	w.State = model.WarningIssued
	w.FinalMessage = finalMessage
	w.IssuedAt = &at
	return w, nil
}

// MarkWarningAcknowledged transitions issued -> acknowledged.
func (s *MySQLStore) MarkWarningAcknowledged(ctx context.Context, id uuid.UUID, at time.Time) (model.Warning, error) {
	w, err := s.WarningByID(ctx, id)
	if err != nil {
		return model.Warning{}, err
	}
	switch w.State {
	case model.WarningDrafted:
		return model.Warning{}, warning.ErrNotIssued
	case model.WarningAcknowledged:
		return w, nil
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE warnings SET state = ?, acknowledged = 1, acknowledged_at = ? WHERE id = ? AND state = ?`,
		string(model.WarningAcknowledged), at, id.String(), string(model.WarningIssued)); err != nil {
		return model.Warning{}, fmt.Errorf("update warning: %w", err)
	}

	w.State = model.WarningAcknowledged
	w.Acknowledged = true
	w.AcknowledgedAt = &at
	return w, nil
}

// RecordWarningOutcome sets the reviewer-decided outcome.
func (s *MySQLStore) RecordWarningOutcome(ctx context.Context, id uuid.UUID, outcome model.WarningOutcome) (model.Warning, error) {
	w, err := s.WarningByID(ctx, id)
	if err != nil {
		return model.Warning{}, err
	}
	if w.State == model.WarningDrafted {
		return model.Warning{}, warning.ErrNotIssued
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE warnings SET outcome = ? WHERE id = ?`, string(outcome), id.String()); err != nil {
		return model.Warning{}, fmt.Errorf("update outcome: %w", err)
	}
	w.Outcome = outcome
	return w, nil
}

// CountFellowsByLevel aggregates fellows by current risk level.
func (s *MySQLStore) CountFellowsByLevel(ctx context.Context) (map[model.RiskLevel]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT current_risk_level, COUNT(*) FROM fellows GROUP BY current_risk_level`)
	if err != nil {
		return nil, fmt.Errorf("count fellows: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.RiskLevel]int)
	for rows.Next() {
		var (
			level string
			n     int
		)
		if err := rows.Scan(&level, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		if level == "" {
			level = string(model.LevelOnTrack)
		}
		counts[model.RiskLevel(level)] += n
	}
	return counts, rows.Err()
}

// Stats reports store contents.
func (s *MySQLStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM fellows), (SELECT COUNT(*) FROM check_ins),
			(SELECT COUNT(*) FROM assessments), (SELECT COUNT(*) FROM warnings)`)
	if err := row.Scan(&st.Fellows, &st.CheckIns, &st.Assessments, &st.Warnings); err != nil {
		return Stats{}, fmt.Errorf("select stats: %w", err)
	}
	return st, nil
}
