package repositories

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"leaduni/internal/models"
)

type ProfileRepository interface {
	List(limit int) ([]*models.Profile, error)
	GetByID(id int) (*models.Profile, error)
	Update(id int, fields map[string]any) (*models.Profile, error)
}

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{DB: db}
}

const profileColumns = `id, user_id, user_email, first_name, last_name, career, current_term, created_at`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.UserEmail,
		&p.FirstName, &p.LastName, &p.Career, &p.CurrentTerm,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) List(limit int) ([]*models.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q := fmt.Sprintf(`SELECT %s FROM profiles ORDER BY id DESC LIMIT $1`, profileColumns)
	rows, err := r.DB.Query(q, limit)
	if err != nil {
		return nil, fmt.Errorf("profile list: %w", err)
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("profile list scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profileRepository) GetByID(id int) (*models.Profile, error) {
	q := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1`, profileColumns)
	p, err := scanProfile(r.DB.QueryRow(q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profile get: %w", err)
	}
	return p, nil
}

// allowed PATCH columns; everything else in the payload is rejected
var profileUpdatable = map[string]bool{
	"first_name":   true,
	"last_name":    true,
	"career":       true,
	"current_term": true,
}

// Update — динамический SET только по разрешённым полям.
func (r *profileRepository) Update(id int, fields map[string]any) (*models.Profile, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !profileUpdatable[k] {
			return nil, fmt.Errorf("profile update: unknown field %q", k)
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

	q := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(keys)+1, profileColumns)
	p, err := scanProfile(r.DB.QueryRow(q, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profile update: %w", err)
	}
	return p, nil
}
