package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"mergington/internal/model"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrActivityFull     = errors.New("activity is full")
	ErrAlreadySignedUp  = errors.New("student already signed up")
	ErrNotSignedUp      = errors.New("student not signed up")
)

type Repository interface {
	GetAllActivities(ctx context.Context) ([]model.Activity, error)
	GetParticipantsByActivityID(ctx context.Context, activityID int64) ([]model.Participant, error)
	SignupTx(ctx context.Context, activityName, email string) error
	UnregisterTx(ctx context.Context, activityName, email string) error
	SeedActivitiesTx(ctx context.Context, samples []model.SeedActivity) (bool, error)
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) GetAllActivities(ctx context.Context) ([]model.Activity, error) {
	query := `
		SELECT id, name, description, schedule, max_participants, created_at, updated_at
		FROM activities
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Description,
			&a.Schedule,
			&a.MaxParticipants,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}

	return activities, nil
}

func (r *repository) GetParticipantsByActivityID(ctx context.Context, activityID int64) ([]model.Participant, error) {
	query := `
		SELECT id, activity_id, email, created_at
		FROM participants
		WHERE activity_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := make([]model.Participant, 0)
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.ActivityID, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, nil
}

// SignupTx performs the duplicate and capacity checks and the participant
// insert inside a single transaction, holding a row lock on the activity so
// two concurrent signups cannot both take the last open slot.
func (r *repository) SignupTx(ctx context.Context, activityName, email string) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var activityID int64
	var maxParticipants int
	err = tx.QueryRowContext(ctx, `
		SELECT id, max_participants
		FROM activities
		WHERE name = $1
		FOR UPDATE
	`, activityName).Scan(&activityID, &maxParticipants)
	if err != nil {
		_ = tx.Rollback()
		return ErrActivityNotFound
	}

	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM participants
		WHERE activity_id = $1 AND email = $2
	`, activityID, email).Scan(&existing)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to check duplicate signup: %w", err)
	}
	if existing > 0 {
		_ = tx.Rollback()
		return ErrAlreadySignedUp
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM participants
		WHERE activity_id = $1
	`, activityID).Scan(&count)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= maxParticipants {
		_ = tx.Rollback()
		return ErrActivityFull
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO participants (activity_id, email, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`, activityID, email).Scan(&id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to create participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *repository) UnregisterTx(ctx context.Context, activityName, email string) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var activityID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM activities
		WHERE name = $1
		FOR UPDATE
	`, activityName).Scan(&activityID)
	if err != nil {
		_ = tx.Rollback()
		return ErrActivityNotFound
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM participants
		WHERE activity_id = $1 AND email = $2
	`, activityID, email)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete participant: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return ErrNotSignedUp
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SeedActivitiesTx populates the activities table on first run. The emptiness
// check and all inserts share one transaction so concurrent first-time
// startups cannot double-seed. Returns true when seeding actually ran.
func (r *repository) SeedActivitiesTx(ctx context.Context, samples []model.SeedActivity) (bool, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to count activities: %w", err)
	}
	if count > 0 {
		_ = tx.Rollback()
		return false, nil
	}

	for _, s := range samples {
		var activityID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO activities (name, description, schedule, max_participants)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, s.Name, s.Description, s.Schedule, s.MaxParticipants).Scan(&activityID)
		if err != nil {
			_ = tx.Rollback()
			return false, fmt.Errorf("failed to seed activity %q: %w", s.Name, err)
		}

		for _, email := range s.Participants {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO participants (activity_id, email, created_at)
				VALUES ($1, $2, NOW())
			`, activityID, email); err != nil {
				_ = tx.Rollback()
				return false, fmt.Errorf("failed to seed participant %q: %w", email, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	return true, nil
}
