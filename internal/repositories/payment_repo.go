package repositories

import (
	"context"

	"gymstack/internal/models"

	"github.com/jackc/pgx/v5"
)

type PaymentRepository interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, payment *models.Payment) error
	ListDetailed(ctx context.Context, limit, offset int) ([]*models.PaymentDetail, error)
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepo(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

// CreateInTx inserts the payment inside the caller's transaction, paired with
// the subscription insert.
func (r *paymentRepo) CreateInTx(ctx context.Context, tx pgx.Tx, payment *models.Payment) error {
	query := `
		INSERT INTO payment (id, member_id, subscribe_id, amount, payment_type_id, card_hash, card_last4, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := tx.Exec(ctx, query, payment.ID, payment.MemberID, payment.SubscriptionID, payment.Amount, payment.PaymentTypeID, payment.CardHash, payment.CardLast4)
	return err
}

// ListDetailed joins payments with members, subscriptions, plans and payment
// types for the admin dashboard. Subscription and plan sides are LEFT JOINs:
// a payment survives its subscription being deleted.
func (r *paymentRepo) ListDetailed(ctx context.Context, limit, offset int) ([]*models.PaymentDetail, error) {
	query := `
		SELECT pay.id, pay.member_id, u.name, pay.subscribe_id,
		       s.plan_id, pl.name AS plan_name,
		       pay.amount, pay.card_last4,
		       pay.payment_type_id, pt.name AS payment_type,
		       pay.paid_at
		FROM payment pay
		JOIN users u ON pay.member_id = u.id
		LEFT JOIN subscribe s ON pay.subscribe_id = s.id
		LEFT JOIN plans pl ON s.plan_id = pl.id
		LEFT JOIN payment_type pt ON pay.payment_type_id = pt.id
		ORDER BY pay.paid_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*models.PaymentDetail
	for rows.Next() {
		d := &models.PaymentDetail{}
		if err := rows.Scan(&d.ID, &d.MemberID, &d.MemberName, &d.SubscriptionID, &d.PlanID, &d.PlanName, &d.Amount, &d.CardLast4, &d.PaymentTypeID, &d.PaymentTypeName, &d.PaidAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
