package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"leaduni/internal/otp"
	"leaduni/internal/repositories"
	"leaduni/internal/utils"
)

var (
	ErrEmailRequired   = errors.New("email is required")
	ErrEmailTaken      = errors.New("email already registered")
	ErrResendThrottled = errors.New("resend throttled")
	ErrNoPendingCode   = errors.New("no pending code")
	ErrCodeExpired     = errors.New("code expired")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrCodeInvalid     = errors.New("code invalid")
	ErrDeliveryFailed  = errors.New("code delivery failed")
)

// Настройки безопасности (перекрываются конфигом)
const (
	defaultCodeTTL     = 10 * time.Minute
	defaultCooldown    = 60 * time.Second
	defaultMaxAttempts = 5
	defaultCodeLength  = 4
)

// OTPService — выдача и проверка одноразовых кодов для регистрации и сброса
// пароля. Код живёт только в otp.Store; наружу уходит по почте.
type OTPService struct {
	Store    *otp.Store
	Users    repositories.UserRepository
	Notifier EmailService

	CodeTTL     time.Duration
	Cooldown    time.Duration
	MaxAttempts int
	CodeLength  int

	// seams for tests
	Now     func() time.Time
	GenCode func(digits int) (string, error)
}

func NewOTPService(store *otp.Store, users repositories.UserRepository, notifier EmailService) *OTPService {
	return &OTPService{
		Store:       store,
		Users:       users,
		Notifier:    notifier,
		CodeTTL:     defaultCodeTTL,
		Cooldown:    defaultCooldown,
		MaxAttempts: defaultMaxAttempts,
		CodeLength:  defaultCodeLength,
		Now:         time.Now,
		GenCode:     utils.NewNumericCode,
	}
}

// RequestCode — шаг 1 регистрации/сброса: генерируем код, кладём в стор,
// шлём на почту. При активном кулдауне стор не трогаем и письмо не шлём.
func (s *OTPService) RequestCode(email string) error {
	email = otp.NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	existing, err := s.Users.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("otp request: user lookup: %w", err)
	}
	if existing != nil {
		return ErrEmailTaken
	}

	if pending, ok := s.Store.Get(email); ok {
		if s.Now().Sub(pending.LastSentAt) < s.Cooldown {
			log.Printf("[otp][request] throttled email=%q", email)
			return ErrResendThrottled
		}
	}

	code, err := s.GenCode(s.CodeLength)
	if err != nil {
		return fmt.Errorf("otp request: generate code: %w", err)
	}

	s.Store.Put(email, code, s.CodeTTL)

	// Если письмо не ушло — запись остаётся: пользователь сможет повторить
	// запрос после кулдауна, откатывать стор смысла нет.
	if err := s.Notifier.SendVerificationCode(email, code); err != nil {
		log.Printf("[otp][request] send failed email=%q: %v", email, err)
		return ErrDeliveryFailed
	}

	log.Printf("[otp][request] sent email=%q", email)
	return nil
}

// Reservation — успешно проверенный код, ещё не погашенный. Вызывающий
// сначала выполняет свою мутацию (insert/update) и только потом Consume;
// упавшая мутация оставляет код пригодным для повтора.
type Reservation struct {
	email string
	store *otp.Store
}

func (r *Reservation) Email() string { return r.email }

func (r *Reservation) Consume() {
	r.store.Remove(r.email)
}

// Verify — проверка кода. Порядок проверок фиксированный: сначала срок и
// бюджет попыток, потом сравнение — протухшая запись не должна продлевать
// окно перебора. На исчерпании/протухании запись удаляется сразу.
func (s *OTPService) Verify(email, submitted string) (*Reservation, error) {
	email = otp.NormalizeEmail(email)

	pending, ok := s.Store.Get(email)
	if !ok {
		return nil, ErrNoPendingCode
	}

	if pending.ExpiredAt(s.Now()) {
		s.Store.Remove(email)
		return nil, ErrCodeExpired
	}

	if pending.Attempts >= s.MaxAttempts {
		s.Store.Remove(email)
		return nil, ErrTooManyAttempts
	}

	if !codeEqual(pending.Code, submitted) {
		attempts, _ := s.Store.Touch(email)
		log.Printf("[otp][verify] mismatch email=%q attempts=%d", email, attempts)
		return nil, ErrCodeInvalid
	}

	return &Reservation{email: email, store: s.Store}, nil
}

func codeEqual(stored, submitted string) bool {
	submitted = strings.TrimSpace(submitted)
	if len(stored) != len(submitted) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}

// Discard — сносим запись независимо от исхода (например, код верный, но
// аккаунта для сброса пароля не существует — погасить такой код нельзя,
// держать его дальше незачем).
func (s *OTPService) Discard(email string) {
	s.Store.Remove(otp.NormalizeEmail(email))
}
