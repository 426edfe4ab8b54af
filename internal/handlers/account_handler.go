package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamtrack/internal/models"
	"teamtrack/internal/obs"
	"teamtrack/internal/services"
)

type AccountHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAccountHandler(authService services.AuthService, userService services.UserService) *AccountHandler {
	return &AccountHandler{authService: authService, userService: userService}
}

// SendOtpForPasswordChange emails an OTP to the authenticated user.
// Unlike forgot-password this does not deactivate the account.
func (h *AccountHandler) SendOtpForPasswordChange(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User is not authenticated."})
		return
	}

	if err := h.authService.SendOtpForPasswordChange(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		log.Printf("[account][send-otp] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		return
	}

	obs.OtpIssuedTotal.WithLabelValues("change_password").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent."})
}

// ChangePasswordWithOtp is email-scoped (anonymous): it requires both a
// valid OTP and the current password.
func (h *AccountHandler) ChangePasswordWithOtp(c *gin.Context) {
	var req models.ChangePasswordWithOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authService.ChangePasswordWithOtp(req.Email, req.OtpCode, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		case errors.Is(err, services.ErrInvalidOtp):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP."})
		case errors.Is(err, services.ErrWrongPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid current password."})
		default:
			log.Printf("[account][change-password] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password change failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
}

func (h *AccountHandler) VerifyPassword(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User is not authenticated."})
		return
	}

	var req models.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.authService.VerifyPassword(userID, req.CurrentPassword)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		log.Printf("[account][verify-password] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid current password."})
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *AccountHandler) GetProfileDetails(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	user, err := h.userService.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}
