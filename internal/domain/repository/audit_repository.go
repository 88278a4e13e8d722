package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evreg/internal/common"
	"evreg/internal/domain/model"
)

type AuditRepository interface {
	Create(ctx context.Context, audit *model.Audit) error
	Update(ctx context.Context, audit *model.Audit) error
	FindByID(ctx context.Context, id int64) (*model.Audit, error)
	// ListByEventWithSeats returns the event's audits with total and free
	// seats derived from location capacity and enrollment counts.
	ListByEventWithSeats(ctx context.Context, eventID int64) ([]model.AuditSeats, error)
	Delete(ctx context.Context, id int64) error
	// LockForEnrollment loads an audit and its location capacity while
	// holding a row lock on the audit until the surrounding transaction
	// ends. Concurrent enrollments for the same audit serialize on it.
	LockForEnrollment(ctx context.Context, tx *sql.Tx, id int64) (*model.Audit, int, error)
}

type pgAuditRepository struct {
	db *sql.DB
}

func NewPgAuditRepository(db *sql.DB) AuditRepository {
	return &pgAuditRepository{db: db}
}

const auditColumns = `id, event_id, location_id, active, starts, ends, last_modified`

func (r *pgAuditRepository) Create(ctx context.Context, a *model.Audit) error {
	query := `INSERT INTO audits (event_id, location_id, active, starts, ends, last_modified)
	          VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		a.EventID, a.LocationID, a.Active, a.Starts, a.Ends,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("pgAuditRepository.Create: %w", err)
	}
	return nil
}

func (r *pgAuditRepository) Update(ctx context.Context, a *model.Audit) error {
	query := `UPDATE audits SET
	              location_id = $1, active = $2, starts = $3, ends = $4,
	              last_modified = CURRENT_TIMESTAMP
	          WHERE id = $5 AND event_id = $6`
	result, err := r.db.ExecContext(ctx, query,
		a.LocationID, a.Active, a.Starts, a.Ends, a.ID, a.EventID)
	if err != nil {
		return fmt.Errorf("pgAuditRepository.Update: %w", err)
	}
	return requireRow(result, "pgAuditRepository.Update")
}

func (r *pgAuditRepository) FindByID(ctx context.Context, id int64) (*model.Audit, error) {
	a := &model.Audit{}
	var lastModified sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT `+auditColumns+` FROM audits WHERE id = $1`, id).Scan(
		&a.ID, &a.EventID, &a.LocationID, &a.Active, &a.Starts, &a.Ends, &lastModified,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAuditRepository.FindByID: %w", err)
	}
	if lastModified.Valid {
		a.LastModified = &lastModified.Time
	}
	return a, nil
}

func (r *pgAuditRepository) ListByEventWithSeats(ctx context.Context, eventID int64) ([]model.AuditSeats, error) {
	query := `SELECT a.id, a.event_id, a.location_id, a.active, a.starts, a.ends, a.last_modified,
	                 l.name, l.capacity,
	                 (SELECT COUNT(*) FROM enrollments e WHERE e.audit_id = a.id) AS enrolled
	          FROM audits a
	          JOIN locations l ON l.id = a.location_id
	          WHERE a.event_id = $1
	          ORDER BY a.starts`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgAuditRepository.ListByEventWithSeats: %w", err)
	}
	defer rows.Close()

	var audits []model.AuditSeats
	for rows.Next() {
		var a model.AuditSeats
		var lastModified sql.NullTime
		var capacity, enrolled int
		if err := rows.Scan(&a.ID, &a.EventID, &a.LocationID, &a.Active, &a.Starts, &a.Ends,
			&lastModified, &a.LocationName, &capacity, &enrolled); err != nil {
			return nil, fmt.Errorf("pgAuditRepository.ListByEventWithSeats scan: %w", err)
		}
		if lastModified.Valid {
			a.LastModified = &lastModified.Time
		}
		a.TotalSeats = capacity
		a.AvailableSeats = model.SeatsAvailable(capacity, enrolled)
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func (r *pgAuditRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgAuditRepository.Delete: %w", err)
	}
	return requireRow(result, "pgAuditRepository.Delete")
}

func (r *pgAuditRepository) LockForEnrollment(ctx context.Context, tx *sql.Tx, id int64) (*model.Audit, int, error) {
	query := `SELECT a.id, a.event_id, a.location_id, a.active, a.starts, a.ends, l.capacity
	          FROM audits a
	          JOIN locations l ON l.id = a.location_id
	          WHERE a.id = $1
	          FOR UPDATE OF a`
	a := &model.Audit{}
	var capacity int
	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, id)
	} else {
		row = r.db.QueryRowContext(ctx, query, id)
	}
	err := row.Scan(&a.ID, &a.EventID, &a.LocationID, &a.Active, &a.Starts, &a.Ends, &capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, common.ErrNotFound
		}
		return nil, 0, fmt.Errorf("pgAuditRepository.LockForEnrollment: %w", err)
	}
	return a, capacity, nil
}
