package handlers

import (
	"net/http"

	"gymstack/internal/common"
	"gymstack/internal/services"

	"github.com/labstack/echo/v4"
)

// ContactHandlers forwards contact-form submissions by email
type ContactHandlers struct {
	mailSvc services.MailService
}

func NewContactHandlers(mailSvc services.MailService) *ContactHandlers {
	return &ContactHandlers{mailSvc: mailSvc}
}

// ContactRequest represents a contact-form submission
type ContactRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Message string `json:"message"`
}

// SendMessage emails the submission to the configured receiver. The body is
// HTML-escaped before it leaves the process.
func (h *ContactHandlers) SendMessage(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Contact == "" && req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "contact or message is required")
	}

	name := common.SanitizeHTMLElement(req.Name)
	contact := common.SanitizeHTMLElement(req.Contact)
	message := common.SanitizeHTMLElement(req.Message)

	if err := h.mailSvc.SendContactMessage(name, contact, message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send message")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Message sent successfully",
	})
}
