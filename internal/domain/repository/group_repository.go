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

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	FindByName(ctx context.Context, name string) (*model.Group, error)
	AddMember(ctx context.Context, groupID, userID int64) error
}

type pgGroupRepository struct {
	db *sql.DB
}

func NewPgGroupRepository(db *sql.DB) GroupRepository {
	return &pgGroupRepository{db: db}
}

func (r *pgGroupRepository) Create(ctx context.Context, group *model.Group) error {
	query := `INSERT INTO groups (name) VALUES ($1) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, group.Name).Scan(&group.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("group with this name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgGroupRepository.Create: %w", err)
	}
	return nil
}

func (r *pgGroupRepository) FindByName(ctx context.Context, name string) (*model.Group, error) {
	group := &model.Group{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM groups WHERE name = $1`, name).
		Scan(&group.ID, &group.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgGroupRepository.FindByName: %w", err)
	}
	return group, nil
}

func (r *pgGroupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	query := `INSERT INTO user_groups (user_id, group_id) VALUES ($1, $2)
	          ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, groupID); err != nil {
		return fmt.Errorf("pgGroupRepository.AddMember: %w", err)
	}
	return nil
}
