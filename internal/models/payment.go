package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment records a monetary transaction. Amount is a snapshot of the plan
// price at purchase time and is never recomputed. Rows are immutable after
// insert. Raw card numbers are never persisted; only an irreversible hash
// plus the last four digits for display.
type Payment struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	MemberID       uuid.UUID  `json:"member_id" db:"member_id"`
	SubscriptionID *uuid.UUID `json:"subscribe_id" db:"subscribe_id"`
	Amount         float64    `json:"amount" db:"amount"`
	PaymentTypeID  uuid.UUID  `json:"payment_type_id" db:"payment_type_id"`
	CardHash       *string    `json:"card_hash" db:"card_hash"`
	CardLast4      *string    `json:"card_last4" db:"card_last4"`
	PaidAt         time.Time  `json:"paid_at" db:"paid_at"`
}

// PaymentDetail is the denormalized dashboard row joining payments with
// members, subscriptions, plans and payment types.
type PaymentDetail struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	MemberID        uuid.UUID  `json:"member_id" db:"member_id"`
	MemberName      string     `json:"name" db:"name"`
	SubscriptionID  *uuid.UUID `json:"subscribe_id" db:"subscribe_id"`
	PlanID          *uuid.UUID `json:"plan_id" db:"plan_id"`
	PlanName        *string    `json:"plan_name" db:"plan_name"`
	Amount          float64    `json:"amount" db:"amount"`
	CardLast4       *string    `json:"card_last4" db:"card_last4"`
	PaymentTypeID   uuid.UUID  `json:"payment_type_id" db:"payment_type_id"`
	PaymentTypeName *string    `json:"payment_type" db:"payment_type"`
	PaidAt          time.Time  `json:"paid_at" db:"paid_at"`
}
