package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamtrack/internal/authz"
	"teamtrack/internal/models"
	"teamtrack/internal/repositories"
)

var ErrInvalidRole = errors.New("invalid role")

// UserService covers the administrative user-management surface. The
// self-service registration path lives in AuthService.
type UserService interface {
	CreateUser(name, email, password string, role authz.Role, phone string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	Search(filter repositories.UserSearchFilter) ([]*models.User, int, error)
	ChangeRole(userID string, role authz.Role) error
	DeleteUser(id string) error
	CountByRole(role authz.Role) (int, error)
}

type userService struct {
	repo   repositories.UserRepository
	auth   AuthService
	emails Notifier
}

func NewUserService(repo repositories.UserRepository, auth AuthService, emails Notifier) UserService {
	return &userService{repo: repo, auth: auth, emails: emails}
}

// CreateUser is the admin path: the account is active immediately, no
// OTP confirmation round-trip.
func (s *userService) CreateUser(name, email, password string, role authz.Role, phone string) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        strings.TrimSpace(phone),
		IsActive:     true,
		CreatedDate:  time.Now().UTC(),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if s.emails != nil {
		if err := s.emails.Send(user.Email, "Welcome to TeamTrack",
			"Your account has been created by an administrator."); err != nil {
			// warn but do not fail creation
			log.Printf("CreateUser: warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) GetUserByID(id string) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(email)
}

func (s *userService) Search(filter repositories.UserSearchFilter) ([]*models.User, int, error) {
	return s.repo.Search(filter)
}

func (s *userService) ChangeRole(userID string, role authz.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.repo.UpdateRole(userID, role)
}

func (s *userService) DeleteUser(id string) error {
	return s.repo.Delete(id)
}

func (s *userService) CountByRole(role authz.Role) (int, error) {
	return s.repo.CountByRole(role)
}
