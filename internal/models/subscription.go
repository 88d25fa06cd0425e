package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionActive    = "Active"
	SubscriptionExpired   = "Expired"
	SubscriptionCancelled = "Cancelled"
)

// Subscription is a member's time-bounded claim on a plan. Rows live in the
// "subscribe" table and are created only by the subscription transactor,
// together with their payment row.
type Subscription struct {
	ID          uuid.UUID `json:"id" db:"id"`
	MemberID    uuid.UUID `json:"member_id" db:"member_id"`
	PlanID      uuid.UUID `json:"plan_id" db:"plan_id"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Status      string    `json:"status" db:"status"`
	RenewalDate time.Time `json:"renewal_date" db:"renewal_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SubscriptionDetail is the denormalized row returned to members listing
// their own subscriptions.
type SubscriptionDetail struct {
	Subscription
	PlanName  string  `json:"plan_name" db:"plan_name"`
	PlanPrice float64 `json:"plan_price" db:"plan_price"`
}
