package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"leaduni/internal/authz"
	"leaduni/internal/models"
	"leaduni/internal/otp"
	"leaduni/internal/repositories"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

const minPasswordLen = 6

// AccountService — регистрация, сброс пароля и вход. Все мутации аккаунта
// идут строго после успешной проверки кода; код гасится только после того,
// как мутация применена (см. Reservation в otp_service.go).
type AccountService struct {
	Users  repositories.UserRepository
	OTP    *OTPService
	Auth   AuthService
	Emails EmailService
}

func NewAccountService(users repositories.UserRepository, otpSvc *OTPService, auth AuthService, emails EmailService) *AccountService {
	return &AccountService{
		Users:  users,
		OTP:    otpSvc,
		Auth:   auth,
		Emails: emails,
	}
}

type AuthResult struct {
	User    *models.User    `json:"user"`
	Profile *models.Profile `json:"profile,omitempty"`
	Token   string          `json:"token"`
}

func (s *AccountService) Register(req *models.RegisterRequest) (*AuthResult, error) {
	email := otp.NormalizeEmail(req.Email)
	password := strings.TrimSpace(req.Password)
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)

	if email == "" || password == "" || strings.TrimSpace(req.Code) == "" ||
		firstName == "" || lastName == "" {
		return nil, ErrInvalidInput
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	reservation, err := s.OTP.Verify(email, req.Code)
	if err != nil {
		return nil, err
	}

	salt, hash, err := s.Auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Role:         authz.RoleUser,
		PasswordSalt: salt,
		PasswordHash: hash,
	}
	profile := &models.Profile{
		FirstName:   firstName,
		LastName:    lastName,
		Career:      strings.TrimSpace(req.Career),
		CurrentTerm: strings.TrimSpace(req.CurrentTerm),
	}

	// Аккаунт и профиль — одна транзакция. Гонка "кто-то успел
	// зарегистрироваться между выдачей кода и его погашением" ловится
	// уникальным индексом внутри той же транзакции.
	if err := s.Users.CreateWithProfile(user, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			// такой код уже никому не пригодится
			reservation.Consume()
			return nil, ErrEmailTaken
		}
		// мутация не применилась — код НЕ гасим, пользователь повторит
		return nil, fmt.Errorf("register: %w", err)
	}

	reservation.Consume()

	token, err := s.Auth.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if s.Emails != nil {
		if err := s.Emails.SendWelcomeEmail(user.Email, profile.FirstName); err != nil {
			// warn but do not fail registration
			log.Printf("[account][register] welcome email failed for %s: %v", user.Email, err)
		}
	}

	log.Printf("[account][register] ok user_id=%d email=%q", user.ID, user.Email)
	return &AuthResult{User: user, Profile: profile, Token: token}, nil
}

func (s *AccountService) ResetPassword(req *models.ResetPasswordRequest) error {
	email := otp.NormalizeEmail(req.Email)
	newPassword := strings.TrimSpace(req.NewPassword)

	if email == "" || strings.TrimSpace(req.Code) == "" || newPassword == "" {
		return ErrInvalidInput
	}
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}

	reservation, err := s.OTP.Verify(email, req.Code)
	if err != nil {
		return err
	}

	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if user == nil {
		// код верный, но гасить его не на чем
		s.OTP.Discard(email)
		return ErrAccountNotFound
	}

	salt, hash, err := s.Auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdateCredential(email, salt, hash); err != nil {
		// замена не применилась — код остаётся
		return fmt.Errorf("reset password: %w", err)
	}

	reservation.Consume()
	log.Printf("[account][reset] ok email=%q", email)
	return nil
}

func (s *AccountService) Login(email, password string) (*AuthResult, error) {
	email = otp.NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	// нет аккаунта и неверный пароль неразличимы снаружи
	if user == nil || !s.Auth.CheckPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Auth.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	log.Printf("[account][login] ok user_id=%d", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}
