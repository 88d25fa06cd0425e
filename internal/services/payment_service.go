package services

import (
	"context"

	"gymstack/internal/models"
	"gymstack/internal/repositories"
)

// PaymentService serves the admin payment dashboard. Payments are only ever
// written by the subscription transactor.
type PaymentService interface {
	ListDetailed(ctx context.Context, limit, offset int) ([]*models.PaymentDetail, error)
}

type paymentService struct {
	payments repositories.PaymentRepository
}

func NewPaymentService(payments repositories.PaymentRepository) PaymentService {
	return &paymentService{payments: payments}
}

func (s *paymentService) ListDetailed(ctx context.Context, limit, offset int) ([]*models.PaymentDetail, error) {
	return s.payments.ListDetailed(ctx, limit, offset)
}
