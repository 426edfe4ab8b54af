package models

import (
	"time"

	"teamtrack/internal/authz"
)

type User struct {
	ID           string     `json:"id"` // uuid, stable
	Name         string     `json:"name"`
	Email        string     `json:"email"` // stored lower-case
	PasswordHash string     `json:"-"`
	Role         authz.Role `json:"role"`
	Phone        string     `json:"phone,omitempty"`

	// false until the registration OTP is confirmed; also false while a
	// forgot-password OTP is pending
	IsActive bool `json:"is_active"`

	// both set or both nil
	OtpCode       *string    `json:"-"`
	OtpExpiration *time.Time `json:"-"`

	CreatedDate time.Time `json:"created_date"`
}

// PublicUser is the projection returned by login/profile endpoints.
type PublicUser struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  authz.Role `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type ConfirmOtpRequest struct {
	Email string `json:"email" binding:"required,email"`
	Otp   string `json:"otp" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Otp         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ChangePasswordWithOtpRequest struct {
	Email           string `json:"email" binding:"required,email"`
	OtpCode         string `json:"otp_code" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type VerifyPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
}
