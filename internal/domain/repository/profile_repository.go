package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"evreg/internal/common"
	"evreg/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.RegistrationProfile) error
	FindByEmail(ctx context.Context, email string) (*model.RegistrationProfile, error)
	FindByKey(ctx context.Context, activationKey string) (*model.RegistrationProfile, error)
	MarkActivated(ctx context.Context, tx *sql.Tx, id int64, when time.Time) error
}

type pgProfileRepository struct {
	db *sql.DB
}

func NewPgProfileRepository(db *sql.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

const profileColumns = `id, first_name, last_name, email, password_hash, dob, identifier_id,
	zipcode, city, street, country, ip_address, activation_key,
	registration_date, activation_date, expiration_date`

func (r *pgProfileRepository) Create(ctx context.Context, p *model.RegistrationProfile) error {
	query := `INSERT INTO registration_profiles
	              (first_name, last_name, email, password_hash, dob, identifier_id,
	               zipcode, city, street, country, ip_address, activation_key,
	               registration_date, expiration_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.FirstName, p.LastName, p.Email, p.PasswordHash, p.DOB, p.IdentifierID,
		p.Zipcode, p.City, p.Street, p.Country, nullableString(p.IPAddress), p.ActivationKey,
		p.RegistrationDate, p.ExpirationDate,
	).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("email already registered: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProfileRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProfileRepository) FindByEmail(ctx context.Context, email string) (*model.RegistrationProfile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM registration_profiles WHERE email = $1`, email)
}

func (r *pgProfileRepository) FindByKey(ctx context.Context, activationKey string) (*model.RegistrationProfile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM registration_profiles WHERE activation_key = $1`, activationKey)
}

func (r *pgProfileRepository) MarkActivated(ctx context.Context, tx *sql.Tx, id int64, when time.Time) error {
	query := `UPDATE registration_profiles SET activation_date = $1
	          WHERE id = $2 AND activation_date IS NULL`

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.ExecContext(ctx, query, when, id)
	} else {
		result, err = r.db.ExecContext(ctx, query, when, id)
	}
	if err != nil {
		return fmt.Errorf("pgProfileRepository.MarkActivated: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProfileRepository.MarkActivated rows affected: %w", err)
	}
	if rows == 0 {
		// Lost the race against a concurrent activation of the same key.
		return common.ErrAlreadyActivated
	}
	return nil
}

func (r *pgProfileRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.RegistrationProfile, error) {
	p := &model.RegistrationProfile{}
	var ipAddress sql.NullString
	var activationDate sql.NullTime
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.PasswordHash, &p.DOB, &p.IdentifierID,
		&p.Zipcode, &p.City, &p.Street, &p.Country, &ipAddress, &p.ActivationKey,
		&p.RegistrationDate, &activationDate, &p.ExpirationDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProfileRepository.findOne: %w", err)
	}
	if ipAddress.Valid {
		p.IPAddress = ipAddress.String
	}
	if activationDate.Valid {
		p.ActivationDate = &activationDate.Time
	}
	return p, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
