package repositories

import (
	"database/sql"
	"fmt"
)

type TableInfo struct {
	Schema string `json:"table_schema"`
	Name   string `json:"table_name"`
}

// DBRepository — introspection helpers for the admin surface.
type DBRepository interface {
	Ping() error
	ListTables() ([]TableInfo, error)
}

type dbRepository struct {
	DB *sql.DB
}

func NewDBRepository(db *sql.DB) DBRepository {
	return &dbRepository{DB: db}
}

func (r *dbRepository) Ping() error {
	var ok int
	if err := r.DB.QueryRow(`SELECT 1`).Scan(&ok); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

func (r *dbRepository) ListTables() ([]TableInfo, error) {
	const q = `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name
	`
	rows, err := r.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("db list tables: %w", err)
	}
	defer rows.Close()

	var out []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return nil, fmt.Errorf("db list tables scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
