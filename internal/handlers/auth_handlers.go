package handlers

import (
	"errors"
	"net/http"

	"gymstack/internal/common"
	"gymstack/internal/models"
	"gymstack/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles login, registration and password reset requests
type AuthHandlers struct {
	authSvc services.AuthService
}

func NewAuthHandlers(authSvc services.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email and password and returns a bearer token
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := common.ValidateRequiredString(req.Password, "password"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authSvc.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, services.ErrRateLimited):
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	return c.JSON(http.StatusOK, result)
}

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Name     string  `json:"name"`
	Gender   string  `json:"gender"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
}

// Register creates a new account. The role field is honored only when the
// caller is an authenticated admin; everyone else becomes a member.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := common.ValidateRequiredString(req.Username, "username"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := common.ValidateGender(req.Gender); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}

	roleName := models.RoleMember
	if req.Role == models.RoleAdmin {
		callerRole, ok := common.GetRoleFromContext(c.Request().Context())
		if !ok || callerRole != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Only admins can create admin accounts")
		}
		roleName = models.RoleAdmin
	}

	user, err := h.authSvc.Register(c.Request().Context(), services.RegisterInput{
		Name:     req.Name,
		Gender:   req.Gender,
		Email:    req.Email,
		Username: req.Username,
		Phone:    req.Phone,
		Password: req.Password,
		RoleName: roleName,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusConflict, "Email is already registered")
		case errors.Is(err, services.ErrUsernameTaken):
			return echo.NewHTTPError(http.StatusConflict, "Username is already taken")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Registration failed")
	}

	return c.JSON(http.StatusCreated, user)
}

// Me returns the authenticated user's profile and role snapshot
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, userType, err := h.authSvc.Me(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":        user,
		"role":        userType.Name,
		"permissions": userType.Permissions(),
	})
}

// ForgotPasswordRequest represents the reset-request payload
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword triggers a reset email. The response is identical whether
// or not the address is registered.
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authSvc.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process reset request")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "If the email is registered, a reset link has been sent",
	})
}

// ResetPasswordRequest represents the reset-completion payload
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword completes a reset with the emailed token
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Token, "token"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}

	if err := h.authSvc.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired reset token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reset password")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password updated successfully",
	})
}
