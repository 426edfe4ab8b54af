package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"teamtrack/internal/authz"
	"teamtrack/internal/config"
	"teamtrack/internal/models"
	"teamtrack/internal/repositories"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyActive      = errors.New("user already confirmed")
	ErrInvalidOtp         = errors.New("invalid or expired OTP")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not confirmed")
	ErrWrongPassword      = errors.New("invalid current password")
	ErrTokenMissing       = errors.New("token is missing")
)

// Notifier delivers OTP codes and notifications. Delivery failures are
// logged by the flows and never roll back committed state.
type Notifier interface {
	Send(to, subject, body string) error
}

type AuthService interface {
	Register(req models.RegisterRequest) error
	ConfirmOtp(email, code string) (string, error)
	Login(email, password string) (string, *models.User, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(email string) error
	ResetPassword(email, code, newPassword string) error
	SendOtpForPasswordChange(userID string) error
	ChangePasswordWithOtp(email, code, currentPassword, newPassword string) error
	VerifyPassword(userID, candidate string) (bool, error)
	HashPassword(password string) (string, error)
}

type authService struct {
	users   repositories.UserRepository
	ledger  repositories.RevocationLedger
	tokens  TokenService
	otp     *OtpGenerator
	emails  Notifier
	otpCfg  config.OTPConfig
}

func NewAuthService(
	users repositories.UserRepository,
	ledger repositories.RevocationLedger,
	tokens TokenService,
	otp *OtpGenerator,
	emails Notifier,
	otpCfg config.OTPConfig,
) AuthService {
	return &authService{
		users:  users,
		ledger: ledger,
		tokens: tokens,
		otp:    otp,
		emails: emails,
		otpCfg: otpCfg,
	}
}

func (s *authService) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// otpMatches: the code is valid only while now is strictly before the
// expiry; a code presented exactly at the expiry instant is rejected.
func otpMatches(user *models.User, code string) bool {
	if user.OtpCode == nil || user.OtpExpiration == nil {
		return false
	}
	if *user.OtpCode != code {
		return false
	}
	return time.Now().UTC().Before(user.OtpExpiration.UTC())
}

func (s *authService) sendOtpMail(email, subject, body string) {
	if s.emails == nil {
		return
	}
	if err := s.emails.Send(email, subject, body); err != nil {
		// the OTP is already stored: from the state machine's point of
		// view it was sent, delivery is best effort
		log.Printf("[auth][otp] failed to send email to %s: %v", email, err)
	}
}

func (s *authService) Register(req models.RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role := authz.RoleTeamMember
	if strings.TrimSpace(req.Role) != "" {
		parsed, err := authz.ParseRole(req.Role)
		if err != nil {
			return ErrInvalidRole
		}
		role = parsed
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return err
	}

	code, expiresAt := s.otp.Generate(s.otpCfg.RegisterTTL.Std())
	user := &models.User{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Email:         email,
		PasswordHash:  hash,
		Role:          role,
		Phone:         strings.TrimSpace(req.Phone),
		IsActive:      false,
		OtpCode:       &code,
		OtpExpiration: &expiresAt,
		CreatedDate:   time.Now().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		return err
	}

	log.Printf("[auth][register] created inactive user id=%s", user.ID)
	s.sendOtpMail(email, "Your OTP Code",
		fmt.Sprintf("Your OTP is: %s . It will expire in %d minutes.", code, int(s.otpCfg.RegisterTTL.Std().Minutes())))
	return nil
}

func (s *authService) ConfirmOtp(email, code string) (string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if user.IsActive {
		return "", ErrAlreadyActive
	}
	if !otpMatches(user, code) {
		return "", ErrInvalidOtp
	}

	if err := s.users.ClearOtp(user.ID, true); err != nil {
		return "", err
	}
	user.IsActive = true

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", err
	}
	log.Printf("[auth][confirm-otp] account activated id=%s", user.ID)
	return token, nil
}

func (s *authService) Login(email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		log.Printf("[auth][login] lookup failed: %v", err)
		return "", nil, ErrInvalidCredentials
	}
	if user == nil {
		// same error as a wrong password: no account enumeration
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrAccountInactive
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	log.Printf("[auth][login] success id=%s role=%s", user.ID, user.Role)
	return token, user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenMissing
	}
	// the token already passed AccessControl to reach this call, so an
	// unverified parse of the expiry is enough
	expiry, err := s.tokens.ExtractExpiry(token)
	if err != nil {
		return ErrTokenMissing
	}
	if err := s.ledger.Revoke(ctx, token, expiry); err != nil {
		return err
	}
	log.Printf("[auth][logout] token revoked, expires %s", expiry.Format(time.RFC3339))
	return nil
}

func (s *authService) ForgotPassword(email string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil || user == nil {
		// don't leak existence; same success shape either way
		log.Printf("[auth][forgot-password] request for unknown email (err=%v)", err)
		return nil
	}

	code, expiresAt := s.otp.Generate(s.otpCfg.ForgotPasswordTTL.Std())
	// deactivation locks the account out of login until the reset
	// completes
	if err := s.users.SetOtp(user.ID, code, expiresAt, true); err != nil {
		return err
	}
	s.sendOtpMail(user.Email, "Reset Password OTP",
		fmt.Sprintf("Your OTP is: %s. It will expire in %d minutes.", code, int(s.otpCfg.ForgotPasswordTTL.Std().Minutes())))
	return nil
}

func (s *authService) ResetPassword(email, code, newPassword string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !otpMatches(user, code) {
		return ErrInvalidOtp
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(user.ID, hash); err != nil {
		return err
	}
	// reactivates the account locked by ForgotPassword
	if err := s.users.ClearOtp(user.ID, true); err != nil {
		return err
	}
	log.Printf("[auth][reset-password] password reset id=%s", user.ID)
	return nil
}

func (s *authService) SendOtpForPasswordChange(userID string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	code, expiresAt := s.otp.Generate(s.otpCfg.ChangePasswordTTL.Std())
	// unlike ForgotPassword the account stays active
	if err := s.users.SetOtp(user.ID, code, expiresAt, false); err != nil {
		return err
	}
	s.sendOtpMail(user.Email, "OTP for Password Change",
		fmt.Sprintf("Your OTP code is: %s", code))
	return nil
}

func (s *authService) ChangePasswordWithOtp(email, code, currentPassword, newPassword string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !otpMatches(user, code) {
		return ErrInvalidOtp
	}
	// this flow proves both OTP possession and knowledge of the current
	// password, unlike ResetPassword
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrWrongPassword
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(user.ID, hash); err != nil {
		return err
	}
	if err := s.users.ClearOtp(user.ID, false); err != nil {
		return err
	}
	log.Printf("[auth][change-password] password changed id=%s", user.ID)
	return nil
}

func (s *authService) VerifyPassword(userID, candidate string) (bool, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil, nil
}
