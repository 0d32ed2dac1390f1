package services

import (
	"time"

	"leaduni/internal/models"
	"leaduni/internal/otp"
	"leaduni/internal/repositories"
)

// fakeUserRepo — in-memory UserRepository.
type fakeUserRepo struct {
	users     map[string]*models.User
	nextID    int
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByID(id int) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CreateWithProfile(user *models.User, profile *models.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[user.Email]; ok {
		return repositories.ErrDuplicateEmail
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	profile.ID = f.nextID
	profile.UserID = user.ID
	profile.UserEmail = user.Email
	profile.CreatedAt = user.CreatedAt
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateCredential(email, salt, hash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil
	}
	u.PasswordSalt = salt
	u.PasswordHash = hash
	return nil
}

// fakeEmailService — records outgoing mail instead of dialing SMTP.
type fakeEmailService struct {
	codes   []string
	welcome []string
	failErr error
}

func (f *fakeEmailService) SendVerificationCode(email, code string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeEmailService) SendWelcomeEmail(email, firstName string) error {
	f.welcome = append(f.welcome, email)
	return nil
}

// testClock — управляемое время для стора и сервиса.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1700000000, 0)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestOTPService(clock *testClock, users repositories.UserRepository, emails EmailService) (*OTPService, *otp.Store) {
	store := otp.NewStore()
	store.Now = clock.Now
	svc := NewOTPService(store, users, emails)
	svc.Now = clock.Now
	codes := []string{"1234", "5678", "9012", "3456"}
	i := 0
	svc.GenCode = func(int) (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
	return svc, store
}
