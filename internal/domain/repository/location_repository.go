package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evreg/internal/common"
	"evreg/internal/domain/model"
)

type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) error
	Update(ctx context.Context, location *model.Location) error
	FindByID(ctx context.Context, id int64) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
}

type pgLocationRepository struct {
	db *sql.DB
}

func NewPgLocationRepository(db *sql.DB) LocationRepository {
	return &pgLocationRepository{db: db}
}

const locationColumns = `id, name, capacity, zipcode, city, street, country,
	address_additions, maps_url, last_modified`

func (r *pgLocationRepository) Create(ctx context.Context, l *model.Location) error {
	query := `INSERT INTO locations
	              (name, capacity, zipcode, city, street, country, address_additions, maps_url, last_modified)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		l.Name, l.Capacity, l.Zipcode, l.City, l.Street, l.Country,
		nullableString(l.AddressAdditions), nullableString(l.MapsURL),
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("pgLocationRepository.Create: %w", err)
	}
	return nil
}

func (r *pgLocationRepository) Update(ctx context.Context, l *model.Location) error {
	query := `UPDATE locations SET
	              name = $1, capacity = $2, zipcode = $3, city = $4, street = $5, country = $6,
	              address_additions = $7, maps_url = $8, last_modified = CURRENT_TIMESTAMP
	          WHERE id = $9`
	result, err := r.db.ExecContext(ctx, query,
		l.Name, l.Capacity, l.Zipcode, l.City, l.Street, l.Country,
		nullableString(l.AddressAdditions), nullableString(l.MapsURL), l.ID)
	if err != nil {
		return fmt.Errorf("pgLocationRepository.Update: %w", err)
	}
	return requireRow(result, "pgLocationRepository.Update")
}

func (r *pgLocationRepository) FindByID(ctx context.Context, id int64) (*model.Location, error) {
	l := &model.Location{}
	var additions, mapsURL sql.NullString
	var lastModified sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id).Scan(
		&l.ID, &l.Name, &l.Capacity, &l.Zipcode, &l.City, &l.Street, &l.Country,
		&additions, &mapsURL, &lastModified,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgLocationRepository.FindByID: %w", err)
	}
	l.AddressAdditions = additions.String
	l.MapsURL = mapsURL.String
	if lastModified.Valid {
		l.LastModified = &lastModified.Time
	}
	return l, nil
}

func (r *pgLocationRepository) List(ctx context.Context) ([]model.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("pgLocationRepository.List: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		var additions, mapsURL sql.NullString
		var lastModified sql.NullTime
		if err := rows.Scan(&l.ID, &l.Name, &l.Capacity, &l.Zipcode, &l.City, &l.Street, &l.Country,
			&additions, &mapsURL, &lastModified); err != nil {
			return nil, fmt.Errorf("pgLocationRepository.List scan: %w", err)
		}
		l.AddressAdditions = additions.String
		l.MapsURL = mapsURL.String
		if lastModified.Valid {
			l.LastModified = &lastModified.Time
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}
