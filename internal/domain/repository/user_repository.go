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

type UserRepository interface {
	Create(ctx context.Context, tx *sql.Tx, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, first_name, last_name, email, password_hash,
	dob, identifier_id, zipcode, city, street, country`

func (r *pgUserRepository) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	query := `INSERT INTO users (username, first_name, last_name, email, password_hash,
	              dob, identifier_id, zipcode, city, street, country, last_modified)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP)
	          RETURNING id`
	args := []interface{}{
		user.Username, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.DOB, user.IdentifierID, user.Zipcode, user.City, user.Street, user.Country,
	}

	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&user.ID)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *pgUserRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.DOB, &user.IdentifierID, &user.Zipcode, &user.City, &user.Street, &user.Country,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.findOne: %w", err)
	}
	if err := r.loadGroups(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) loadGroups(ctx context.Context, user *model.User) error {
	query := `SELECT g.id, g.name FROM groups g
	          JOIN user_groups ug ON ug.group_id = g.id
	          WHERE ug.user_id = $1 ORDER BY g.id`
	rows, err := r.db.QueryContext(ctx, query, user.ID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.loadGroups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var group model.Group
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return fmt.Errorf("pgUserRepository.loadGroups scan: %w", err)
		}
		user.Groups = append(user.Groups, group)
	}
	return rows.Err()
}
