package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"leaduni/internal/models"
)

// ErrDuplicateEmail — уникальный индекс по email сработал при вставке.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	// CreateWithProfile inserts the account and its profile in one
	// transaction; both rows commit or neither does.
	CreateWithProfile(user *models.User, profile *models.Profile) error
	UpdateCredential(email, salt, hash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `
		SELECT id, email, role, password_salt, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	u := &models.User{}
	err := r.DB.QueryRow(q, email).Scan(
		&u.ID, &u.Email, &u.Role, &u.PasswordSalt, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by email: %w", err)
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT id, email, role, password_salt, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	u := &models.User{}
	err := r.DB.QueryRow(q, id).Scan(
		&u.ID, &u.Email, &u.Role, &u.PasswordSalt, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by id: %w", err)
	}
	return u, nil
}

func (r *userRepository) CreateWithProfile(user *models.User, profile *models.Profile) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("user create: begin tx: %w", err)
	}
	defer tx.Rollback()

	const insertUser = `
		INSERT INTO users (email, role, password_salt, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(insertUser,
		user.Email, user.Role, user.PasswordSalt, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("user insert: %w", err)
	}

	const insertProfile = `
		INSERT INTO profiles (user_id, user_email, first_name, last_name, career, current_term)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	profile.UserID = user.ID
	profile.UserEmail = user.Email
	if err := tx.QueryRow(insertProfile,
		profile.UserID, profile.UserEmail,
		profile.FirstName, profile.LastName,
		profile.Career, profile.CurrentTerm,
	).Scan(&profile.ID, &profile.CreatedAt); err != nil {
		return fmt.Errorf("profile insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("user create: commit: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateCredential(email, salt, hash string) error {
	const q = `
		UPDATE users
		SET password_salt = $1, password_hash = $2
		WHERE email = $3
	`
	res, err := r.DB.Exec(q, salt, hash, email)
	if err != nil {
		return fmt.Errorf("user update credential: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
