package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamtrack/internal/middleware"
	"teamtrack/internal/models"
	"teamtrack/internal/obs"
	"teamtrack/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// @Summary      Register a new account
// @Description  Creates an inactive account and emails a confirmation OTP
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      200       {object}  map[string]string
// @Failure      400       {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.Register(req); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered."})
			return
		}
		if errors.Is(err, services.ErrInvalidRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role."})
			return
		}
		log.Printf("[auth][register] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	obs.OtpIssuedTotal.WithLabelValues("register").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to email. Please confirm to complete registration."})
}

// @Summary      Confirm registration OTP
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        confirm  body      models.ConfirmOtpRequest  true  "Email and OTP"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Router       /auth/confirm-otp [post]
func (h *AuthHandler) ConfirmOtp(c *gin.Context) {
	var req models.ConfirmOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.ConfirmOtp(req.Email, req.Otp)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User not found."})
		case errors.Is(err, services.ErrAlreadyActive):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already confirmed."})
		case errors.Is(err, services.ErrInvalidOtp):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP."})
		default:
			log.Printf("[auth][confirm-otp] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Confirmation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account confirmed successfully.",
		"token":   token,
	})
}

// @Summary      Log in
// @Description  Authenticates the user and returns a bearer token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountInactive):
			obs.LoginsTotal.WithLabelValues("inactive").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is not confirmed. Please verify OTP."})
		case errors.Is(err, services.ErrInvalidCredentials):
			obs.LoginsTotal.WithLabelValues("bad_credentials").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		default:
			log.Printf("[auth][login] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	obs.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.Public(),
	})
}

// @Summary      Profile of the authenticated user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	user, err := h.userService.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name": user.Name,
		"role": user.Role,
	})
}

// @Summary      Log out and revoke the token
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is missing or invalid"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, services.ErrTokenMissing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token is missing or invalid"})
			return
		}
		log.Printf("[auth][logout] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successfully and token revoked"})
}

// @Summary      Request a password-reset OTP
// @Description  Always answers with the same message, whether or not the email exists
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        forgot  body      models.ForgotPasswordRequest  true  "Email"
// @Success      200     {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		log.Printf("[auth][forgot-password] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Request failed"})
		return
	}

	obs.OtpIssuedTotal.WithLabelValues("forgot_password").Inc()
	// same shape for known and unknown emails
	c.JSON(http.StatusOK, gin.H{"message": "OTP Sent to You, Check Your Email"})
}

// @Summary      Reset password with an OTP
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetPasswordRequest  true  "Email, OTP and new password"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ResetPassword(req.Email, req.Otp, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		case errors.Is(err, services.ErrInvalidOtp):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
		default:
			log.Printf("[auth][reset-password] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Reset failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}
