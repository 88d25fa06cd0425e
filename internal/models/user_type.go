package models

import (
	"time"

	"github.com/google/uuid"
)

// Canonical role names. Every user references exactly one user type;
// the type name decides admin-ness, the flags gate the admin view routes.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type UserType struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	CanViewSubscriptions bool      `json:"can_view_subscriptions" db:"can_view_subscriptions"`
	CanViewMembers       bool      `json:"can_view_members" db:"can_view_members"`
	CanViewPayments      bool      `json:"can_view_payments" db:"can_view_payments"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

// PermissionBundle is the view-permission snapshot carried inside a JWT.
// It is captured at login and not re-read from the database per request,
// so permission edits take effect on the next login.
type PermissionBundle struct {
	CanViewSubscriptions bool `json:"can_view_subscriptions"`
	CanViewMembers       bool `json:"can_view_members"`
	CanViewPayments      bool `json:"can_view_payments"`
}

func (t *UserType) Permissions() PermissionBundle {
	return PermissionBundle{
		CanViewSubscriptions: t.CanViewSubscriptions,
		CanViewMembers:       t.CanViewMembers,
		CanViewPayments:      t.CanViewPayments,
	}
}
