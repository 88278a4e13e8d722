package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evreg/internal/common"
	"evreg/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, enrollment *model.Enrollment) error
	CountByAudit(ctx context.Context, tx *sql.Tx, auditID int64) (int, error)
	FindByID(ctx context.Context, id int64) (*model.Enrollment, error)
	ListByUser(ctx context.Context, userID int64) ([]model.EnrollmentDetail, error)
	Delete(ctx context.Context, id int64) error
}

type pgEnrollmentRepository struct {
	db *sql.DB
}

func NewPgEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &pgEnrollmentRepository{db: db}
}

func (r *pgEnrollmentRepository) Create(ctx context.Context, tx *sql.Tx, e *model.Enrollment) error {
	subjects, err := model.EncodeSubjects(e.Subjects)
	if err != nil {
		return fmt.Errorf("pgEnrollmentRepository.Create encode subjects: %w", err)
	}
	query := `INSERT INTO enrollments (audit_id, user_id, enrollment_date, subjects, last_modified)
	          VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
	          RETURNING id`
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, e.AuditID, e.UserID, e.EnrollmentDate, subjects).Scan(&e.ID)
	} else {
		err = r.db.QueryRowContext(ctx, query, e.AuditID, e.UserID, e.EnrollmentDate, subjects).Scan(&e.ID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // one enrollment per user and audit
			return fmt.Errorf("user is already enrolled for this audit: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgEnrollmentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgEnrollmentRepository) CountByAudit(ctx context.Context, tx *sql.Tx, auditID int64) (int, error) {
	query := `SELECT COUNT(*) FROM enrollments WHERE audit_id = $1`
	var count int
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, auditID).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, query, auditID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("pgEnrollmentRepository.CountByAudit: %w", err)
	}
	return count, nil
}

func (r *pgEnrollmentRepository) FindByID(ctx context.Context, id int64) (*model.Enrollment, error) {
	query := `SELECT id, audit_id, user_id, enrollment_date, subjects FROM enrollments WHERE id = $1`
	e := &model.Enrollment{}
	var subjects string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.AuditID, &e.UserID, &e.EnrollmentDate, &subjects,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgEnrollmentRepository.FindByID: %w", err)
	}
	if e.Subjects, err = model.DecodeSubjects(subjects); err != nil {
		return nil, fmt.Errorf("pgEnrollmentRepository.FindByID decode subjects: %w", err)
	}
	return e, nil
}

func (r *pgEnrollmentRepository) ListByUser(ctx context.Context, userID int64) ([]model.EnrollmentDetail, error) {
	query := `SELECT e.id, e.audit_id, e.user_id, e.enrollment_date, e.subjects,
	                 ev.name, l.name, a.starts, a.ends
	          FROM enrollments e
	          JOIN audits a ON a.id = e.audit_id
	          JOIN events ev ON ev.id = a.event_id
	          JOIN locations l ON l.id = a.location_id
	          WHERE e.user_id = $1
	          ORDER BY a.starts`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgEnrollmentRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var details []model.EnrollmentDetail
	for rows.Next() {
		var d model.EnrollmentDetail
		var subjects string
		if err := rows.Scan(&d.ID, &d.AuditID, &d.UserID, &d.EnrollmentDate, &subjects,
			&d.EventName, &d.LocationName, &d.AuditStarts, &d.AuditEnds); err != nil {
			return nil, fmt.Errorf("pgEnrollmentRepository.ListByUser scan: %w", err)
		}
		if d.Subjects, err = model.DecodeSubjects(subjects); err != nil {
			return nil, fmt.Errorf("pgEnrollmentRepository.ListByUser decode subjects: %w", err)
		}
		d.SubjectsDisplay = model.HumanizeSubjects(d.Subjects)
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *pgEnrollmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgEnrollmentRepository.Delete: %w", err)
	}
	return requireRow(result, "pgEnrollmentRepository.Delete")
}
