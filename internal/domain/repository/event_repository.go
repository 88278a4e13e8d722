package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"evreg/internal/common"
	"evreg/internal/domain/model"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id int64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListOpen(ctx context.Context, now time.Time) ([]model.Event, error)
	Delete(ctx context.Context, id int64) error
}

type pgEventRepository struct {
	db *sql.DB
}

func NewPgEventRepository(db *sql.DB) EventRepository {
	return &pgEventRepository{db: db}
}

const eventColumns = `id, name, slug, description, registration_opens, registration_closes, last_modified`

func (r *pgEventRepository) Create(ctx context.Context, e *model.Event) error {
	query := `INSERT INTO events (name, slug, description, registration_opens, registration_closes, last_modified)
	          VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Slug, e.Description, e.RegistrationOpens, e.RegistrationCloses,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("pgEventRepository.Create: %w", err)
	}
	return nil
}

func (r *pgEventRepository) Update(ctx context.Context, e *model.Event) error {
	query := `UPDATE events SET
	              name = $1, slug = $2, description = $3,
	              registration_opens = $4, registration_closes = $5,
	              last_modified = CURRENT_TIMESTAMP
	          WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		e.Name, e.Slug, e.Description, e.RegistrationOpens, e.RegistrationCloses, e.ID)
	if err != nil {
		return fmt.Errorf("pgEventRepository.Update: %w", err)
	}
	return requireRow(result, "pgEventRepository.Update")
}

func (r *pgEventRepository) FindByID(ctx context.Context, id int64) (*model.Event, error) {
	e := &model.Event{}
	var lastModified sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id).Scan(
		&e.ID, &e.Name, &e.Slug, &e.Description, &e.RegistrationOpens, &e.RegistrationCloses, &lastModified,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgEventRepository.FindByID: %w", err)
	}
	if lastModified.Valid {
		e.LastModified = &lastModified.Time
	}
	return e, nil
}

func (r *pgEventRepository) List(ctx context.Context) ([]model.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events ORDER BY registration_opens`)
}

func (r *pgEventRepository) ListOpen(ctx context.Context, now time.Time) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
	          WHERE registration_opens < $1 AND registration_closes > $1
	          ORDER BY registration_opens`
	return r.list(ctx, query, now)
}

func (r *pgEventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgEventRepository.Delete: %w", err)
	}
	return requireRow(result, "pgEventRepository.Delete")
}

func (r *pgEventRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.list: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var lastModified sql.NullTime
		if err := rows.Scan(&e.ID, &e.Name, &e.Slug, &e.Description,
			&e.RegistrationOpens, &e.RegistrationCloses, &lastModified); err != nil {
			return nil, fmt.Errorf("pgEventRepository.list scan: %w", err)
		}
		if lastModified.Valid {
			e.LastModified = &lastModified.Time
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// requireRow maps zero affected rows to ErrNotFound for update/delete by id.
func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
