package services

import "errors"

var (
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailTaken    = errors.New("email is already registered")
	ErrUsernameTaken = errors.New("username is already taken")

	ErrPlanNotFound       = errors.New("plan not found")
	ErrPlanNameTaken      = errors.New("a plan with this name already exists")
	ErrImageMissing       = errors.New("no image uploaded")
	ErrMemberNotFound     = errors.New("member not found")
	ErrUserTypeNotFound   = errors.New("user type not found")
	ErrUserTypeNameTaken  = errors.New("a user type with this name already exists")
	ErrSupplementNotFound = errors.New("supplement not found")

	// ErrAlreadySubscribed blocks a second live subscription to the same plan.
	ErrAlreadySubscribed = errors.New("already subscribed to this plan")

	ErrPaymentTypeNotFound  = errors.New("payment type not found")
	ErrPaymentTypeNameTaken = errors.New("a payment type with this name already exists")
	ErrNoPaymentMethod      = errors.New("no payment method available")

	ErrTransactionFailed = errors.New("subscription transaction failed")

	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrRateLimited       = errors.New("too many attempts, try again later")
)
