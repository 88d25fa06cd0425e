package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gymstack/internal/common"
	"gymstack/internal/services"

	"github.com/labstack/echo/v4"
)

const maxImageSize = 5 << 20 // 5MB

// PlanHandlers handles the plan catalog and checkout routes
type PlanHandlers struct {
	planSvc         services.PlanService
	subscriptionSvc services.SubscriptionService
	settingsSvc     services.SettingsService
}

func NewPlanHandlers(planSvc services.PlanService, subscriptionSvc services.SubscriptionService, settingsSvc services.SettingsService) *PlanHandlers {
	return &PlanHandlers{
		planSvc:         planSvc,
		subscriptionSvc: subscriptionSvc,
		settingsSvc:     settingsSvc,
	}
}

// ListPlans returns the plan catalog (public, cached)
func (h *PlanHandlers) ListPlans(c echo.Context) error {
	plans, err := h.planSvc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list plans")
	}
	return c.JSON(http.StatusOK, plans)
}

// GetPlan returns a single plan by ID (public)
func (h *PlanHandlers) GetPlan(c echo.Context) error {
	planID, err := common.ValidateUUID(c.Param("id"), "plan ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	plan, err := h.planSvc.Get(c.Request().Context(), planID)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Plan not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load plan")
	}
	return c.JSON(http.StatusOK, plan)
}

// GetPlanImage streams the plan's image from object storage (public)
func (h *PlanHandlers) GetPlanImage(c echo.Context) error {
	planID, err := common.ValidateUUID(c.Param("id"), "plan ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reader, err := h.planSvc.StreamImage(c.Request().Context(), planID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound), errors.Is(err, services.ErrImageMissing):
			return echo.NewHTTPError(http.StatusNotFound, "Image not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load image")
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, "image/*", reader)
}

// ListPaymentTypes exposes the payment-type names used by the checkout form
func (h *PlanHandlers) ListPaymentTypes(c echo.Context) error {
	types, err := h.settingsSvc.ListPaymentTypes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list payment types")
	}
	return c.JSON(http.StatusOK, types)
}

// CreatePlan creates a plan from a multipart form with an optional image (admin)
func (h *PlanHandlers) CreatePlan(c echo.Context) error {
	ctx := c.Request().Context()
	adminID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	name := c.FormValue("name")
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
	}
	if err := common.ValidatePositiveFloat(price, "price", 1_000_000); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	durationDays, err := strconv.Atoi(c.FormValue("duration"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "duration must be an integer")
	}
	if err := common.ValidatePositiveInteger(durationDays, "duration", 3650); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var description *string
	if desc := c.FormValue("description"); desc != "" {
		description = &desc
	}

	plan, err := h.planSvc.Create(ctx, adminID, name, description, price, durationDays)
	if err != nil {
		if errors.Is(err, services.ErrPlanNameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "A plan with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create plan")
	}

	if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxImageSize {
			return echo.NewHTTPError(http.StatusBadRequest, "Image exceeds 5MB limit")
		}
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image")
		}
		defer src.Close()
		if err := h.planSvc.UploadImage(ctx, plan.ID, src, file.Size, file.Header.Get("Content-Type")); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image")
		}
	}

	return c.JSON(http.StatusCreated, plan)
}

// UpdatePlan patches plan fields, optionally replacing or removing the image (admin)
func (h *PlanHandlers) UpdatePlan(c echo.Context) error {
	ctx := c.Request().Context()
	planID, err := common.ValidateUUID(c.Param("id"), "plan ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var name, description *string
	var price *float64
	var durationDays *int

	if v := c.FormValue("name"); v != "" {
		name = &v
	}
	if v := c.FormValue("description"); v != "" {
		description = &v
	}
	if v := c.FormValue("price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
		}
		if err := common.ValidatePositiveFloat(parsed, "price", 1_000_000); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		price = &parsed
	}
	if v := c.FormValue("duration"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "duration must be an integer")
		}
		if err := common.ValidatePositiveInteger(parsed, "duration", 3650); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		durationDays = &parsed
	}

	plan, err := h.planSvc.Update(ctx, planID, name, description, price, durationDays)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Plan not found")
		case errors.Is(err, services.ErrPlanNameTaken):
			return echo.NewHTTPError(http.StatusConflict, "A plan with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update plan")
	}

	if c.QueryParam("removeImage") == "true" {
		if err := h.planSvc.RemoveImage(ctx, planID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove image")
		}
	} else if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxImageSize {
			return echo.NewHTTPError(http.StatusBadRequest, "Image exceeds 5MB limit")
		}
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image")
		}
		defer src.Close()
		if err := h.planSvc.UploadImage(ctx, planID, src, file.Size, file.Header.Get("Content-Type")); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image")
		}
	}

	return c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a plan and its stored image (admin)
func (h *PlanHandlers) DeletePlan(c echo.Context) error {
	planID, err := common.ValidateUUID(c.Param("id"), "plan ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.planSvc.Delete(c.Request().Context(), planID); err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Plan not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete plan")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Plan deleted successfully",
	})
}

// Subscribe purchases a plan for the authenticated member
func (h *PlanHandlers) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()
	memberID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req services.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	planID, err := common.ValidateUUID(c.Param("id"), "plan ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.PlanID = planID

	result, err := h.subscriptionSvc.Subscribe(ctx, memberID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Plan not found")
		case errors.Is(err, services.ErrAlreadySubscribed):
			return echo.NewHTTPError(http.StatusConflict, "Already subscribed to this plan")
		case errors.Is(err, services.ErrPaymentTypeNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown payment method")
		case errors.Is(err, services.ErrNoPaymentMethod), errors.Is(err, services.ErrTransactionFailed):
			return echo.NewHTTPError(http.StatusInternalServerError, "Subscription failed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Subscription failed")
	}

	return c.JSON(http.StatusCreated, result)
}

// MySubscriptions lists the caller's subscriptions with plan details
func (h *PlanHandlers) MySubscriptions(c echo.Context) error {
	ctx := c.Request().Context()
	memberID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	subscriptions, err := h.subscriptionSvc.ListByMember(ctx, memberID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list subscriptions")
	}
	return c.JSON(http.StatusOK, subscriptions)
}
