package repositories

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"leaduni/internal/models"
)

type NotificationRepository interface {
	List(limit int) ([]*models.Notification, error)
	ListByEmail(email string, limit int) ([]*models.Notification, error)
	Create(n *models.Notification) error
	Update(id int, fields map[string]any) (*models.Notification, error)
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

const notificationColumns = `id, profile_id, user_email, kind, title, message, read, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	n := &models.Notification{}
	err := row.Scan(&n.ID, &n.ProfileID, &n.UserEmail, &n.Kind, &n.Title, &n.Message, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) List(limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q := fmt.Sprintf(`SELECT %s FROM notifications ORDER BY id DESC LIMIT $1`, notificationColumns)
	return r.queryMany(q, limit)
}

func (r *notificationRepository) ListByEmail(email string, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q := fmt.Sprintf(`SELECT %s FROM notifications WHERE user_email = $1 ORDER BY id DESC LIMIT $2`, notificationColumns)
	return r.queryMany(q, email, limit)
}

func (r *notificationRepository) queryMany(q string, args ...any) ([]*models.Notification, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("notification list: %w", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("notification list scan: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepository) Create(n *models.Notification) error {
	const q = `
		INSERT INTO notifications (profile_id, user_email, kind, title, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, read, created_at
	`
	if err := r.DB.QueryRow(q,
		n.ProfileID, n.UserEmail, n.Kind, n.Title, n.Message,
	).Scan(&n.ID, &n.Read, &n.CreatedAt); err != nil {
		return fmt.Errorf("notification insert: %w", err)
	}
	return nil
}

var notificationUpdatable = map[string]bool{
	"read":    true,
	"title":   true,
	"message": true,
}

func (r *notificationRepository) Update(id int, fields map[string]any) (*models.Notification, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !notificationUpdatable[k] {
			return nil, fmt.Errorf("notification update: unknown field %q", k)
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

	q := fmt.Sprintf(`UPDATE notifications SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(keys)+1, notificationColumns)
	n, err := scanNotification(r.DB.QueryRow(q, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("notification update: %w", err)
	}
	return n, nil
}
