package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect holds the SQL that differs between SQLite and PostgreSQL.
type Dialect struct {
	Name        string
	createTable string
	insert      string
}

var (
	SQLite = Dialect{
		Name: "sqlite",
		createTable: `
	CREATE TABLE IF NOT EXISTS sightings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		species TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		date_time TEXT NOT NULL,
		observations TEXT NOT NULL DEFAULT ''
	);
	`,
		insert: `
	INSERT INTO sightings (
		species,
		latitude,
		longitude,
		date_time,
		observations
	)
	VALUES (?, ?, ?, ?, ?);
	`,
	}

	Postgres = Dialect{
		Name: "postgres",
		createTable: `
	CREATE TABLE IF NOT EXISTS sightings (
		id BIGSERIAL PRIMARY KEY,
		species TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		date_time TEXT NOT NULL,
		observations TEXT NOT NULL DEFAULT ''
	);
	`,
		insert: `
	INSERT INTO sightings (
		species,
		latitude,
		longitude,
		date_time,
		observations
	)
	VALUES ($1, $2, $3, $4, $5);
	`,
	}
)

// Create the sightings table if it does not exist.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, d.createTable); err != nil {
		return fmt.Errorf("init schema: create %s sightings table: %w", d.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
