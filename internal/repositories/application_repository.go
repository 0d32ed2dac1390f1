package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"leaduni/internal/models"
)

// ErrNoFields — PATCH без единого поля.
var ErrNoFields = errors.New("no fields provided to update")

type ApplicationRepository interface {
	List(limit int) ([]*models.Application, error)
	Create(app *models.Application) error
	Update(id int, fields map[string]any) (*models.Application, error)
}

type applicationRepository struct {
	DB *sql.DB
}

func NewApplicationRepository(db *sql.DB) ApplicationRepository {
	return &applicationRepository{DB: db}
}

const applicationColumns = `id, offer_id, company_id, profile_id, status, created_at`

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	a := &models.Application{}
	err := row.Scan(&a.ID, &a.OfferID, &a.CompanyID, &a.ProfileID, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *applicationRepository) List(limit int) ([]*models.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q := fmt.Sprintf(`SELECT %s FROM applications ORDER BY id DESC LIMIT $1`, applicationColumns)
	rows, err := r.DB.Query(q, limit)
	if err != nil {
		return nil, fmt.Errorf("application list: %w", err)
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("application list scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *applicationRepository) Create(app *models.Application) error {
	const q = `
		INSERT INTO applications (offer_id, company_id, profile_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q,
		app.OfferID, app.CompanyID, app.ProfileID, app.Status,
	).Scan(&app.ID, &app.CreatedAt); err != nil {
		return fmt.Errorf("application insert: %w", err)
	}
	return nil
}

var applicationUpdatable = map[string]bool{
	"status": true,
}

func (r *applicationRepository) Update(id int, fields map[string]any) (*models.Application, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !applicationUpdatable[k] {
			return nil, fmt.Errorf("application update: unknown field %q", k)
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, ErrNoFields
	}
	sort.Strings(keys)

	set := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		set = append(set, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, fields[k])
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE applications SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(keys)+1, applicationColumns)
	a, err := scanApplication(r.DB.QueryRow(q, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("application update: %w", err)
	}
	return a, nil
}
