package handlers

import (
	"net/http"

	"gymstack/internal/common"
	"gymstack/internal/services"

	"github.com/labstack/echo/v4"
)

// PaymentHandlers serves the admin payment dashboard
type PaymentHandlers struct {
	paymentSvc services.PaymentService
}

func NewPaymentHandlers(paymentSvc services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{paymentSvc: paymentSvc}
}

// ListPaymentsRequest represents query parameters for the payment dashboard
type ListPaymentsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListPayments returns denormalized payment rows joined with members, plans
// and payment types, newest first
func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	var req ListPaymentsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	payments, err := h.paymentSvc.ListDetailed(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list payments")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"limit":    limit,
		"offset":   offset,
	})
}
