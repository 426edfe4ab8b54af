package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"teamtrack/internal/authz"
	"teamtrack/internal/config"
	"teamtrack/internal/models"
	"teamtrack/internal/repositories"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*models.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetOtp(userID, code string, expiresAt time.Time, deactivate bool) error {
	u := f.users[userID]
	u.OtpCode = &code
	u.OtpExpiration = &expiresAt
	if deactivate {
		u.IsActive = false
	}
	return nil
}

func (f *fakeUserRepo) ClearOtp(userID string, activate bool) error {
	u := f.users[userID]
	u.OtpCode = nil
	u.OtpExpiration = nil
	if activate {
		u.IsActive = true
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(userID, passwordHash string) error {
	f.users[userID].PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) UpdateRole(userID string, role authz.Role) error {
	f.users[userID].Role = role
	return nil
}

func (f *fakeUserRepo) ListByRole(role authz.Role) ([]*models.User, error) {
	var res []*models.User
	for _, u := range f.users {
		if u.Role == role {
			cp := *u
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (f *fakeUserRepo) CountByRole(role authz.Role) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) Search(filter repositories.UserSearchFilter) ([]*models.User, int, error) {
	var res []*models.User
	for _, u := range f.users {
		cp := *u
		res = append(res, &cp)
	}
	return res, len(res), nil
}

// fakeLedger is an in-memory RevocationLedger.
type fakeLedger struct {
	revoked map[string]time.Time
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{revoked: map[string]time.Time{}}
}

func (f *fakeLedger) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	f.revoked[token] = expiresAt
	return nil
}

func (f *fakeLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, ok := f.revoked[token]
	return ok, nil
}

func (f *fakeLedger) PurgeExpired(ctx context.Context) (int64, error) {
	var n int64
	now := time.Now()
	for token, exp := range f.revoked {
		if exp.Before(now) {
			delete(f.revoked, token)
			n++
		}
	}
	return n, nil
}

// fakeNotifier records sent messages.
type fakeNotifier struct {
	sent []struct{ To, Subject, Body string }
}

func (f *fakeNotifier) Send(to, subject, body string) error {
	f.sent = append(f.sent, struct{ To, Subject, Body string }{to, subject, body})
	return nil
}

func (f *fakeNotifier) lastBody() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Body
}

type authFixture struct {
	repo   *fakeUserRepo
	ledger *fakeLedger
	mail   *fakeNotifier
	tokens TokenService
	svc    AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newFakeUserRepo()
	ledger := newFakeLedger()
	mail := &fakeNotifier{}
	tokens := NewTokenService(testJWTConfig())
	svc := NewAuthService(repo, ledger, tokens, NewOtpGenerator(), mail, config.OTPConfig{
		RegisterTTL:       config.Duration(20 * time.Minute),
		ForgotPasswordTTL: config.Duration(15 * time.Minute),
		ChangePasswordTTL: config.Duration(10 * time.Minute),
	})
	return &authFixture{repo: repo, ledger: ledger, mail: mail, tokens: tokens, svc: svc}
}

func (fx *authFixture) findByEmail(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := fx.repo.GetByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func registerReq() models.RegisterRequest {
	return models.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
		Role:     "TeamMember",
		Phone:    "123456",
	}
}

func TestRegisterCreatesInactiveUserWithOtp(t *testing.T) {
	fx := newAuthFixture(t)

	require.NoError(t, fx.svc.Register(registerReq()))

	u := fx.findByEmail(t, "alice@example.com")
	assert.Equal(t, "alice@example.com", u.Email)
	assert.False(t, u.IsActive)
	require.NotNil(t, u.OtpCode)
	require.NotNil(t, u.OtpExpiration)
	assert.Len(t, *u.OtpCode, 6)
	assert.WithinDuration(t, time.Now().UTC().Add(20*time.Minute), *u.OtpExpiration, 5*time.Second)

	require.Len(t, fx.mail.sent, 1)
	assert.Contains(t, fx.mail.lastBody(), *u.OtpCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fx := newAuthFixture(t)
	require.NoError(t, fx.svc.Register(registerReq()))

	err := fx.svc.Register(registerReq())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterInvalidRole(t *testing.T) {
	fx := newAuthFixture(t)
	req := registerReq()
	req.Role = "Superuser"
	assert.ErrorIs(t, fx.svc.Register(req), ErrInvalidRole)
}

func TestConfirmOtpActivatesAndIssuesToken(t *testing.T) {
	fx := newAuthFixture(t)
	require.NoError(t, fx.svc.Register(registerReq()))
	code := *fx.findByEmail(t, "alice@example.com").OtpCode

	token, err := fx.svc.ConfirmOtp("alice@example.com", code)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	u := fx.findByEmail(t, "alice@example.com")
	assert.True(t, u.IsActive)
	assert.Nil(t, u.OtpCode)

	claims, err := fx.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestConfirmOtpWrongCode(t *testing.T) {
	fx := newAuthFixture(t)
	require.NoError(t, fx.svc.Register(registerReq()))

	_, err := fx.svc.ConfirmOtp("alice@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidOtp)
}

func TestConfirmOtpExpiredCode(t *testing.T) {
	fx := newAuthFixture(t)
	require.NoError(t, fx.svc.Register(registerReq()))
	u := fx.findByEmail(t, "alice@example.com")

	past := time.Now().UTC().Add(-time.Second)
	require.NoError(t, fx.repo.SetOtp(u.ID, *u.OtpCode, past, false))

	_, err := fx.svc.ConfirmOtp("alice@example.com", *u.OtpCode)
	assert.ErrorIs(t, err, ErrInvalidOtp)
}

func TestConfirmOtpAlreadyActive(t *testing.T) {
	fx := newAuthFixture(t)
	require.NoError(t, fx.svc.Register(registerReq()))
	code := *fx.findByEmail(t, "alice@example.com").OtpCode
	_, err := fx.svc.ConfirmOtp("alice@example.com", code)
	require.NoError(t, err)

	_, err = fx.svc.ConfirmOtp("alice@example.com", code)
	assert.ErrorIs(t, err, ErrAlreadyActive)
}

func TestConfirmOtpUnknownEmail(t *testing.T) {
	fx := newAuthFixture(t)
	_, err := fx.svc.ConfirmOtp("nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func confirmAndLogin(t *testing.T, fx *authFixture) (string, *models.User) {
	t.Helper()
	require.NoError(t, fx.svc.Register(registerReq()))
	code := *fx.findByEmail(t, "alice@example.com").OtpCode
	_, err := fx.svc.ConfirmOtp("alice@example.com", code)
	require.NoError(t, err)

	token, user, err := fx.svc.Login("alice@example.com", "secret123")
	require.NoError(t, err)
	return token, user
}

func TestLoginSuccess(t *testing.T) {
	fx := newAuthFixture(t)
	token, user := confirmAndLogin(t, fx)

	require.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestLoginUniformErrorForUnknownAndWrongPassword(t *testing.T) {
	fx := newAuthFixture(t)
	confirmAndLogin(t, fx)

	_, _, errUnknown := fx.svc.Login("nobody@example.com", "whatever")
	_, _, errWrong := fx.svc.Login("alice@example.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	fx := newAuthFixture(t)
	require.NoError(t, fx.svc.Register(registerReq()))

	_, _, err := fx.svc.Login("alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLogoutRevokesToken(t *testing.T) {
	fx := newAuthFixture(t)
	token, _ := confirmAndLogin(t, fx)

	require.NoError(t, fx.svc.Logout(context.Background(), token))

	revoked, err := fx.ledger.IsRevoked(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// a second logout with the same token is fine
	require.NoError(t, fx.svc.Logout(context.Background(), token))
}

func TestLogoutEmptyToken(t *testing.T) {
	fx := newAuthFixture(t)
	assert.ErrorIs(t, fx.svc.Logout(context.Background(), "  "), ErrTokenMissing)
}

func TestForgotPasswordLocksAccount(t *testing.T) {
	fx := newAuthFixture(t)
	confirmAndLogin(t, fx)

	require.NoError(t, fx.svc.ForgotPassword("alice@example.com"))

	u := fx.findByEmail(t, "alice@example.com")
	assert.False(t, u.IsActive)
	require.NotNil(t, u.OtpCode)

	// login is locked out until the reset completes
	_, _, err := fx.svc.Login("alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	fx := newAuthFixture(t)
	assert.NoError(t, fx.svc.ForgotPassword("nobody@example.com"))
	assert.Empty(t, fx.mail.sent)
}

func TestResetPasswordRoundTrip(t *testing.T) {
	fx := newAuthFixture(t)
	confirmAndLogin(t, fx)
	require.NoError(t, fx.svc.ForgotPassword("alice@example.com"))
	code := *fx.findByEmail(t, "alice@example.com").OtpCode

	require.NoError(t, fx.svc.ResetPassword("alice@example.com", code, "brand-new-pw"))

	u := fx.findByEmail(t, "alice@example.com")
	assert.True(t, u.IsActive)
	assert.Nil(t, u.OtpCode)

	_, _, err := fx.svc.Login("alice@example.com", "brand-new-pw")
	assert.NoError(t, err)
	_, _, err = fx.svc.Login("alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPasswordBadOtp(t *testing.T) {
	fx := newAuthFixture(t)
	confirmAndLogin(t, fx)
	require.NoError(t, fx.svc.ForgotPassword("alice@example.com"))

	err := fx.svc.ResetPassword("alice@example.com", "000000", "brand-new-pw")
	assert.ErrorIs(t, err, ErrInvalidOtp)
}

func TestChangePasswordWithOtp(t *testing.T) {
	fx := newAuthFixture(t)
	_, user := confirmAndLogin(t, fx)

	require.NoError(t, fx.svc.SendOtpForPasswordChange(user.ID))
	u := fx.findByEmail(t, "alice@example.com")
	// the account stays active, unlike the forgot-password flow
	assert.True(t, u.IsActive)
	require.NotNil(t, u.OtpCode)
	code := *u.OtpCode

	// wrong current password
	err := fx.svc.ChangePasswordWithOtp("alice@example.com", code, "wrong", "next-pw")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, fx.svc.ChangePasswordWithOtp("alice@example.com", code, "secret123", "next-pw"))

	_, _, err = fx.svc.Login("alice@example.com", "next-pw")
	assert.NoError(t, err)
}

func TestVerifyPassword(t *testing.T) {
	fx := newAuthFixture(t)
	_, user := confirmAndLogin(t, fx)

	ok, err := fx.svc.VerifyPassword(user.ID, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fx.svc.VerifyPassword(user.ID, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = fx.svc.VerifyPassword("missing-id", "secret123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestHashPasswordProducesBcrypt(t *testing.T) {
	fx := newAuthFixture(t)
	hash, err := fx.svc.HashPassword("secret123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret123")))
}
