package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaduni/internal/models"
)

func newTestAccountService(clock *testClock) (*AccountService, *fakeUserRepo, *fakeEmailService) {
	users := newFakeUserRepo()
	emails := &fakeEmailService{}
	otpSvc, _ := newTestOTPService(clock, users, emails)
	accounts := NewAccountService(users, otpSvc, newTestAuthService(), emails)
	return accounts, users, emails
}

func registerReq(code string) *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:     "a@x.com",
		Password:  "secret1",
		Code:      code,
		FirstName: "A",
		LastName:  "B",
		Career:    "Ingeniería de Software",
	}
}

func TestRegister_HappyPath(t *testing.T) {
	clock := newTestClock()
	accounts, users, emails := newTestAccountService(clock)

	require.NoError(t, accounts.OTP.RequestCode("a@x.com"))

	result, err := accounts.Register(registerReq("1234"))
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "user", result.User.Role)
	require.NotNil(t, result.Profile)
	assert.Equal(t, result.User.ID, result.Profile.UserID)
	assert.Equal(t, "a@x.com", result.Profile.UserEmail)

	stored, err := users.GetByEmail("a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordSalt)
	assert.NotEmpty(t, stored.PasswordHash)

	assert.Equal(t, []string{"a@x.com"}, emails.welcome)

	// повтор с тем же кодом — записи больше нет
	_, err = accounts.Register(registerReq("1234"))
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

func TestRegister_MissingFields(t *testing.T) {
	accounts, _, _ := newTestAccountService(newTestClock())

	req := registerReq("1234")
	req.FirstName = " "
	_, err := accounts.Register(req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_ShortPassword(t *testing.T) {
	accounts, _, _ := newTestAccountService(newTestClock())

	req := registerReq("1234")
	req.Password = "12345"
	_, err := accounts.Register(req)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_WrongCodePropagates(t *testing.T) {
	clock := newTestClock()
	accounts, _, _ := newTestAccountService(clock)
	require.NoError(t, accounts.OTP.RequestCode("a@x.com"))

	_, err := accounts.Register(registerReq("0000"))
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestRegister_DuplicateConsumesCode(t *testing.T) {
	clock := newTestClock()
	accounts, users, _ := newTestAccountService(clock)
	require.NoError(t, accounts.OTP.RequestCode("a@x.com"))

	// второй претендент успел создать аккаунт между выдачей и погашением
	users.createErr = nil
	require.NoError(t, users.CreateWithProfile(
		&models.User{Email: "a@x.com", Role: "user"}, &models.Profile{},
	))

	_, err := accounts.Register(registerReq("1234"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	// код при этом выброшен
	_, err = accounts.Register(registerReq("1234"))
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

func TestRegister_InsertFailureLeavesCodeIntact(t *testing.T) {
	clock := newTestClock()
	accounts, users, _ := newTestAccountService(clock)
	require.NoError(t, accounts.OTP.RequestCode("a@x.com"))

	users.createErr = errors.New("pq: connection reset")
	_, err := accounts.Register(registerReq("1234"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPendingCode)

	// код не сгорел — повтор после восстановления БД проходит
	users.createErr = nil
	result, err := accounts.Register(registerReq("1234"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func seedUser(t *testing.T, accounts *AccountService, email, password string) {
	t.Helper()
	salt, hash, err := accounts.Auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, accounts.Users.(*fakeUserRepo).CreateWithProfile(
		&models.User{Email: email, Role: "user", PasswordSalt: salt, PasswordHash: hash},
		&models.Profile{FirstName: "A", LastName: "B"},
	))
}

func TestResetPassword_ReplacesCredential(t *testing.T) {
	clock := newTestClock()
	accounts, users, _ := newTestAccountService(clock)
	seedUser(t, accounts, "a@x.com", "oldpass1")

	// выдача кода для существующего аккаунта идёт мимо RequestCode
	accounts.OTP.Store.Put("a@x.com", "1234", accounts.OTP.CodeTTL)

	err := accounts.ResetPassword(&models.ResetPasswordRequest{
		Email: "a@x.com", Code: "1234", NewPassword: "newpass1",
	})
	require.NoError(t, err)

	stored, err := users.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.True(t, accounts.Auth.CheckPassword("newpass1", stored.PasswordSalt, stored.PasswordHash))
	assert.False(t, accounts.Auth.CheckPassword("oldpass1", stored.PasswordSalt, stored.PasswordHash))

	// код погашен
	err = accounts.ResetPassword(&models.ResetPasswordRequest{
		Email: "a@x.com", Code: "1234", NewPassword: "newpass2",
	})
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

func TestResetPassword_ShortPassword(t *testing.T) {
	accounts, _, _ := newTestAccountService(newTestClock())
	err := accounts.ResetPassword(&models.ResetPasswordRequest{
		Email: "a@x.com", Code: "1234", NewPassword: "123",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestResetPassword_NoAccountDiscardsCode(t *testing.T) {
	clock := newTestClock()
	accounts, _, _ := newTestAccountService(clock)

	accounts.OTP.Store.Put("ghost@x.com", "1234", accounts.OTP.CodeTTL)

	err := accounts.ResetPassword(&models.ResetPasswordRequest{
		Email: "ghost@x.com", Code: "1234", NewPassword: "newpass1",
	})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, ok := accounts.OTP.Store.Get("ghost@x.com")
	assert.False(t, ok)
}

func TestLogin_Success(t *testing.T) {
	accounts, _, _ := newTestAccountService(newTestClock())
	seedUser(t, accounts, "a@x.com", "secret1")

	result, err := accounts.Login(" A@X.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Nil(t, result.Profile)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	accounts, _, _ := newTestAccountService(newTestClock())
	seedUser(t, accounts, "a@x.com", "secret1")

	_, errUnknown := accounts.Login("nobody@x.com", "secret1")
	_, errWrongPw := accounts.Login("a@x.com", "wrongpw")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}
