package handlers

import (
	"errors"
	"net/http"

	"gymstack/internal/common"
	"gymstack/internal/services"

	"github.com/labstack/echo/v4"
)

// MemberHandlers handles the admin member directory and the subscription
// dashboard
type MemberHandlers struct {
	memberSvc       services.MemberService
	subscriptionSvc services.SubscriptionService
}

func NewMemberHandlers(memberSvc services.MemberService, subscriptionSvc services.SubscriptionService) *MemberHandlers {
	return &MemberHandlers{memberSvc: memberSvc, subscriptionSvc: subscriptionSvc}
}

// ListMembersRequest represents query parameters for listing members
type ListMembersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListMembers returns users whose type is "member"
func (h *MemberHandlers) ListMembers(c echo.Context) error {
	var req ListMembersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	members, err := h.memberSvc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list members")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": members,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetMember returns one member by ID
func (h *MemberHandlers) GetMember(c echo.Context) error {
	memberID, err := common.ValidateUUID(c.Param("id"), "member ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.memberSvc.Get(c.Request().Context(), memberID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Member not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load member")
	}
	return c.JSON(http.StatusOK, member)
}

// UpdateMemberRequest represents the member update payload
type UpdateMemberRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// UpdateMember patches a member's profile; only provided fields change
func (h *MemberHandlers) UpdateMember(c echo.Context) error {
	memberID, err := common.ValidateUUID(c.Param("id"), "member ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	member, err := h.memberSvc.UpdateProfile(c.Request().Context(), memberID, req.Name, req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Member not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update member")
	}
	return c.JSON(http.StatusOK, member)
}

// ListSubscriptions returns all subscriptions with plan details for the
// admin dashboard
func (h *MemberHandlers) ListSubscriptions(c echo.Context) error {
	var req ListMembersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	subscriptions, err := h.subscriptionSvc.ListAll(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list subscriptions")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": subscriptions,
		"limit":         limit,
		"offset":        offset,
	})
}
