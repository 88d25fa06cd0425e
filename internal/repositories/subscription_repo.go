package repositories

import (
	"context"
	"time"

	"gymstack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubscriptionRepository interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, sub *models.Subscription) error
	CountActive(ctx context.Context, memberID, planID uuid.UUID, now time.Time) (int, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*models.SubscriptionDetail, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.SubscriptionDetail, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	ListExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]*models.SubscriptionDetail, error)
}

type subscriptionRepo struct {
	db DB
}

func NewSubscriptionRepo(db DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

// CreateInTx inserts the subscription inside the caller's transaction so the
// paired payment row commits or rolls back with it.
func (r *subscriptionRepo) CreateInTx(ctx context.Context, tx pgx.Tx, sub *models.Subscription) error {
	query := `
		INSERT INTO subscribe (id, member_id, plan_id, start_date, end_date, status, renewal_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := tx.Exec(ctx, query, sub.ID, sub.MemberID, sub.PlanID, sub.StartDate, sub.EndDate, sub.Status, sub.RenewalDate)
	return err
}

// CountActive counts the member's live subscriptions to a plan. A row counts
// as live while its status is Active and its end date has not passed.
func (r *subscriptionRepo) CountActive(ctx context.Context, memberID, planID uuid.UUID, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM subscribe
		WHERE member_id = $1 AND plan_id = $2 AND status = $3 AND end_date > $4
	`
	var count int
	if err := r.db.QueryRow(ctx, query, memberID, planID, models.SubscriptionActive, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

const subscriptionDetailQuery = `
	SELECT s.id, s.member_id, s.plan_id, s.start_date, s.end_date, s.status, s.renewal_date, s.created_at,
	       p.name AS plan_name, p.price AS plan_price
	FROM subscribe s
	JOIN plans p ON s.plan_id = p.id
`

func scanSubscriptionDetails(rows pgx.Rows) ([]*models.SubscriptionDetail, error) {
	defer rows.Close()

	var details []*models.SubscriptionDetail
	for rows.Next() {
		d := &models.SubscriptionDetail{}
		if err := rows.Scan(&d.ID, &d.MemberID, &d.PlanID, &d.StartDate, &d.EndDate, &d.Status, &d.RenewalDate, &d.CreatedAt, &d.PlanName, &d.PlanPrice); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *subscriptionRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*models.SubscriptionDetail, error) {
	query := subscriptionDetailQuery + `
	WHERE s.member_id = $1
	ORDER BY s.created_at DESC`
	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	return scanSubscriptionDetails(rows)
}

func (r *subscriptionRepo) ListAll(ctx context.Context, limit, offset int) ([]*models.SubscriptionDetail, error) {
	query := subscriptionDetailQuery + `
	ORDER BY s.created_at DESC
	LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanSubscriptionDetails(rows)
}

// ExpireOverdue flips Active subscriptions whose end date has passed to
// Expired and reports how many rows changed.
func (r *subscriptionRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE subscribe SET status = $1 WHERE status = $2 AND end_date <= $3`
	tag, err := r.db.Exec(ctx, query, models.SubscriptionExpired, models.SubscriptionActive, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListExpiringWithin returns Active subscriptions whose end date falls inside
// (now, now+window], for renewal reminders.
func (r *subscriptionRepo) ListExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]*models.SubscriptionDetail, error) {
	query := subscriptionDetailQuery + `
	WHERE s.status = $1 AND s.end_date > $2 AND s.end_date <= $3
	ORDER BY s.end_date ASC`
	rows, err := r.db.Query(ctx, query, models.SubscriptionActive, now, now.Add(window))
	if err != nil {
		return nil, err
	}
	return scanSubscriptionDetails(rows)
}
