package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gymstack/internal/models"
	"gymstack/internal/repositories"

	"github.com/google/uuid"
)

// SubscribeRequest is the checkout payload. CardNumber is used only to derive
// a fingerprint; it is never persisted or logged.
type SubscribeRequest struct {
	PlanID          uuid.UUID  `json:"plan_id"`
	PaymentTypeID   *uuid.UUID `json:"payment_type_id"`
	PaymentTypeName *string    `json:"payment_type"`
	CardNumber      *string    `json:"card_number"`
	CardHolder      *string    `json:"card_holder"`
}

// SubscribeResult pairs the two rows the transactor wrote.
type SubscribeResult struct {
	Subscription *models.Subscription `json:"subscription"`
	Payment      *models.Payment      `json:"payment"`
}

// SubscriptionService runs the purchase transaction and serves subscription
// queries.
type SubscriptionService interface {
	Subscribe(ctx context.Context, memberID uuid.UUID, req SubscribeRequest) (*SubscribeResult, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*models.SubscriptionDetail, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.SubscriptionDetail, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	db            repositories.DB
	plans         repositories.PlanRepository
	subscriptions repositories.SubscriptionRepository
	payments      repositories.PaymentRepository
	paymentTypes  repositories.PaymentTypeRepository
}

func NewSubscriptionService(db repositories.DB, plans repositories.PlanRepository, subscriptions repositories.SubscriptionRepository, payments repositories.PaymentRepository, paymentTypes repositories.PaymentTypeRepository) SubscriptionService {
	return &subscriptionService{
		db:            db,
		plans:         plans,
		subscriptions: subscriptions,
		payments:      payments,
		paymentTypes:  paymentTypes,
	}
}

// Subscribe creates the subscription and its payment in one database
// transaction. The amount is a snapshot of the plan price at purchase time.
func (s *subscriptionService) Subscribe(ctx context.Context, memberID uuid.UUID, req SubscribeRequest) (*SubscribeResult, error) {
	plan, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	now := time.Now()
	active, err := s.subscriptions.CountActive(ctx, memberID, plan.ID, now)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrAlreadySubscribed
	}

	paymentType, err := s.resolvePaymentType(ctx, req)
	if err != nil {
		return nil, err
	}

	cardHash, cardLast4 := cardFingerprint(req.CardNumber)

	startDate := now
	endDate := startDate.AddDate(0, 0, plan.DurationDays)
	subscription := &models.Subscription{
		ID:          uuid.New(),
		MemberID:    memberID,
		PlanID:      plan.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      models.SubscriptionActive,
		RenewalDate: endDate,
	}
	payment := &models.Payment{
		ID:             uuid.New(),
		MemberID:       memberID,
		SubscriptionID: &subscription.ID,
		Amount:         plan.Price,
		PaymentTypeID:  paymentType.ID,
		CardHash:       cardHash,
		CardLast4:      cardLast4,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	defer tx.Rollback(ctx)

	if err := s.subscriptions.CreateInTx(ctx, tx, subscription); err != nil {
		log.Printf("ERROR: subscription insert failed for member %s: %v", memberID, err)
		return nil, ErrTransactionFailed
	}
	if err := s.payments.CreateInTx(ctx, tx, payment); err != nil {
		log.Printf("ERROR: payment insert failed for member %s: %v", memberID, err)
		return nil, ErrTransactionFailed
	}
	if err := tx.Commit(ctx); err != nil {
		log.Printf("ERROR: subscription commit failed for member %s: %v", memberID, err)
		return nil, ErrTransactionFailed
	}

	return &SubscribeResult{Subscription: subscription, Payment: payment}, nil
}

// resolvePaymentType picks the payment method: explicit id first, then name,
// then "Credit Card"/"Cash" inferred from the presence of card details, then
// the oldest row. Only an empty payment_type table is unrecoverable.
func (s *subscriptionService) resolvePaymentType(ctx context.Context, req SubscribeRequest) (*models.PaymentType, error) {
	if req.PaymentTypeID != nil {
		pt, err := s.paymentTypes.GetByID(ctx, *req.PaymentTypeID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrPaymentTypeNotFound
			}
			return nil, err
		}
		return pt, nil
	}

	if req.PaymentTypeName != nil && *req.PaymentTypeName != "" {
		pt, err := s.paymentTypes.GetByName(ctx, *req.PaymentTypeName)
		if err == nil {
			return pt, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		// Unknown name falls through to inference
	}

	inferred := "Cash"
	if req.CardNumber != nil && *req.CardNumber != "" {
		inferred = "Credit Card"
	}
	pt, err := s.paymentTypes.GetByName(ctx, inferred)
	if err == nil {
		return pt, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	pt, err = s.paymentTypes.First(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoPaymentMethod
		}
		return nil, err
	}
	return pt, nil
}

// cardFingerprint reduces a card number to a SHA-256 hex digest of its digits
// plus the last four for display. Returns nils when no card was given.
func cardFingerprint(cardNumber *string) (*string, *string) {
	if cardNumber == nil {
		return nil, nil
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, *cardNumber)
	if digits == "" {
		return nil, nil
	}

	sum := sha256.Sum256([]byte(digits))
	hash := hex.EncodeToString(sum[:])

	last4 := digits
	if len(digits) > 4 {
		last4 = digits[len(digits)-4:]
	}
	return &hash, &last4
}

func (s *subscriptionService) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*models.SubscriptionDetail, error) {
	return s.subscriptions.ListByMember(ctx, memberID)
}

func (s *subscriptionService) ListAll(ctx context.Context, limit, offset int) ([]*models.SubscriptionDetail, error) {
	return s.subscriptions.ListAll(ctx, limit, offset)
}

// ExpireOverdue is the hourly maintenance pass flipping lapsed subscriptions
// to Expired.
func (s *subscriptionService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.subscriptions.ExpireOverdue(ctx, time.Now())
}
