package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sighting-intake-service/internal/domain"
	"sighting-intake-service/internal/platform/obs"
)

var errNilDB = errors.New("sql sighting repository: DB is nil")

// SQL-backed implementation of the SightingRepository port, shared by the
// SQLite and PostgreSQL drivers. Row ids give the insertion order.
type SQLSightingRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLSightingRepository(db *sql.DB, d Dialect) *SQLSightingRepository {
	return &SQLSightingRepository{DB: db, Dialect: d}
}

func (r *SQLSightingRepository) Append(ctx context.Context, s domain.Sighting) (_ domain.Sighting, err error) {
	defer obs.Time(ctx, r.Dialect.Name, "append")(&err)

	if r.DB == nil {
		return domain.Sighting{}, fmt.Errorf("append sighting: %w: %w", domain.ErrStorageWrite, errNilDB)
	}

	_, err = r.DB.ExecContext(ctx, r.Dialect.insert,
		s.Species,
		s.Location.Latitude,
		s.Location.Longitude,
		s.DateTime,
		s.Observations,
	)
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("append sighting: %w: insert row: %w", domain.ErrStorageWrite, err)
	}

	return s, nil
}

func (r *SQLSightingRepository) List(ctx context.Context) (_ []domain.Sighting, err error) {
	defer obs.Time(ctx, r.Dialect.Name, "list")(&err)

	if r.DB == nil {
		return nil, fmt.Errorf("list sightings: %w: %w", domain.ErrStorageRead, errNilDB)
	}

	query := `
	SELECT
		species,
		latitude,
		longitude,
		date_time,
		observations
	FROM sightings
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sightings: %w: query sightings table: %w", domain.ErrStorageRead, err)
	}
	defer rows.Close()

	sightings := make([]domain.Sighting, 0, 64)
	for rows.Next() {
		var s domain.Sighting
		err := rows.Scan(&s.Species, &s.Location.Latitude, &s.Location.Longitude, &s.DateTime, &s.Observations)
		if err != nil {
			return nil, fmt.Errorf("list sightings: %w: scan row: %w", domain.ErrStorageParse, err)
		}
		sightings = append(sightings, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sightings: %w: row iteration: %w", domain.ErrStorageRead, err)
	}

	return sightings, nil
}
