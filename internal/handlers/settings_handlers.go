package handlers

import (
	"errors"
	"net/http"

	"gymstack/internal/common"
	"gymstack/internal/repositories"
	"gymstack/internal/services"

	"github.com/labstack/echo/v4"
)

// SettingsHandlers handles the admin lookup tables: payment types and user
// types
type SettingsHandlers struct {
	settingsSvc services.SettingsService
}

func NewSettingsHandlers(settingsSvc services.SettingsService) *SettingsHandlers {
	return &SettingsHandlers{settingsSvc: settingsSvc}
}

// ListPaymentTypes returns all payment types
func (h *SettingsHandlers) ListPaymentTypes(c echo.Context) error {
	types, err := h.settingsSvc.ListPaymentTypes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list payment types")
	}
	return c.JSON(http.StatusOK, types)
}

// PaymentTypeRequest represents create/update payloads for payment types
type PaymentTypeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreatePaymentType adds a payment type
func (h *SettingsHandlers) CreatePaymentType(c echo.Context) error {
	var req PaymentTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == nil || *req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	pt, err := h.settingsSvc.CreatePaymentType(c.Request().Context(), *req.Name, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrPaymentTypeNameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "A payment type with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create payment type")
	}
	return c.JSON(http.StatusCreated, pt)
}

// UpdatePaymentType patches a payment type
func (h *SettingsHandlers) UpdatePaymentType(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "payment type ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req PaymentTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	pt, err := h.settingsSvc.UpdatePaymentType(c.Request().Context(), id, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentTypeNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Payment type not found")
		case errors.Is(err, services.ErrPaymentTypeNameTaken):
			return echo.NewHTTPError(http.StatusConflict, "A payment type with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update payment type")
	}
	return c.JSON(http.StatusOK, pt)
}

// DeletePaymentType removes a payment type
func (h *SettingsHandlers) DeletePaymentType(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "payment type ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.settingsSvc.DeletePaymentType(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrPaymentTypeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Payment type not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete payment type")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Payment type deleted successfully",
	})
}

// ListUserTypes returns all user types with their permission flags
func (h *SettingsHandlers) ListUserTypes(c echo.Context) error {
	types, err := h.settingsSvc.ListUserTypes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list user types")
	}
	return c.JSON(http.StatusOK, types)
}

// CreateUserTypeRequest represents the user type creation payload
type CreateUserTypeRequest struct {
	Name                 string `json:"name"`
	CanViewSubscriptions bool   `json:"can_view_subscriptions"`
	CanViewMembers       bool   `json:"can_view_members"`
	CanViewPayments      bool   `json:"can_view_payments"`
}

// CreateUserType adds a user type
func (h *SettingsHandlers) CreateUserType(c echo.Context) error {
	var req CreateUserTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := h.settingsSvc.CreateUserType(c.Request().Context(), req.Name, req.CanViewSubscriptions, req.CanViewMembers, req.CanViewPayments)
	if err != nil {
		if errors.Is(err, services.ErrUserTypeNameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "A user type with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user type")
	}
	return c.JSON(http.StatusCreated, t)
}

// UpdateUserTypeRequest represents the user type patch payload
type UpdateUserTypeRequest struct {
	Name                 *string `json:"name"`
	CanViewSubscriptions *bool   `json:"can_view_subscriptions"`
	CanViewMembers       *bool   `json:"can_view_members"`
	CanViewPayments      *bool   `json:"can_view_payments"`
}

// UpdateUserType patches a user type; changes apply to a user at next login
func (h *SettingsHandlers) UpdateUserType(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "user type ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdateUserTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	t, err := h.settingsSvc.UpdateUserType(c.Request().Context(), id, req.Name, req.CanViewSubscriptions, req.CanViewMembers, req.CanViewPayments)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserTypeNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User type not found")
		case errors.Is(err, services.ErrUserTypeNameTaken):
			return echo.NewHTTPError(http.StatusConflict, "A user type with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user type")
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteUserType removes a user type unless a user still references it
func (h *SettingsHandlers) DeleteUserType(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "user type ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.settingsSvc.DeleteUserType(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrUserTypeNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User type not found")
		case errors.Is(err, repositories.ErrUserTypeInUse):
			return echo.NewHTTPError(http.StatusConflict, "User type is assigned to one or more users")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user type")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "User type deleted successfully",
	})
}
