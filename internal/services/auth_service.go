package services

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/pbkdf2"

	"leaduni/internal/middleware"
	"leaduni/internal/models"
)

const (
	saltBytes   = 16
	digestBytes = 64
)

type AuthService interface {
	// HashPassword returns a fresh hex salt and the hex PBKDF2-SHA512 digest.
	HashPassword(password string) (salt, hash string, err error)
	CheckPassword(password, salt, hash string) bool
	GenerateToken(user *models.User) (string, error)
}

type authService struct {
	jwtSecret  []byte
	tokenTTL   time.Duration
	iterations int
}

func NewAuthService(jwtSecret string, tokenTTL time.Duration, iterations int) AuthService {
	if iterations <= 0 {
		iterations = 120000
	}
	return &authService{
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		iterations: iterations,
	}
}

func (s *authService) HashPassword(password string) (string, string, error) {
	saltRaw := make([]byte, saltBytes)
	if _, err := rand.Read(saltRaw); err != nil {
		return "", "", fmt.Errorf("hash password: salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(password), saltRaw, s.iterations, digestBytes, sha512.New)
	return hex.EncodeToString(saltRaw), hex.EncodeToString(digest), nil
}

func (s *authService) CheckPassword(password, salt, hash string) bool {
	saltRaw, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	digest := pbkdf2.Key([]byte(password), saltRaw, s.iterations, len(expected), sha512.New)
	return subtle.ConstantTimeCompare(digest, expected) == 1
}

func (s *authService) GenerateToken(user *models.User) (string, error) {
	claims := &middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
