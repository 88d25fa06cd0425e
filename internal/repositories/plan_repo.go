package repositories

import (
	"context"
	"errors"

	"gymstack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	List(ctx context.Context) ([]*models.Plan, error)
	Update(ctx context.Context, id uuid.UUID, name, description *string, price *float64, durationDays *int) (*models.Plan, error)
	SetImageKey(ctx context.Context, id uuid.UUID, imageKey *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	NameExists(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
}

type planRepo struct {
	db DB
}

func NewPlanRepo(db DB) PlanRepository {
	return &planRepo{db: db}
}

const planColumns = `id, name, description, price, duration_days, image_key, admin_id, created_at, updated_at`

func scanPlan(row pgx.Row) (*models.Plan, error) {
	plan := &models.Plan{}
	err := row.Scan(&plan.ID, &plan.Name, &plan.Description, &plan.Price, &plan.DurationDays, &plan.ImageKey, &plan.AdminID, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (r *planRepo) Create(ctx context.Context, plan *models.Plan) error {
	query := `
		INSERT INTO plans (id, name, description, price, duration_days, image_key, admin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, plan.ID, plan.Name, plan.Description, plan.Price, plan.DurationDays, plan.ImageKey, plan.AdminID)
	return err
}

func (r *planRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`
	return scanPlan(r.db.QueryRow(ctx, query, id))
}

func (r *planRepo) List(ctx context.Context) ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		plan := &models.Plan{}
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Description, &plan.Price, &plan.DurationDays, &plan.ImageKey, &plan.AdminID, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// Update patches only the provided fields and returns the fresh row.
func (r *planRepo) Update(ctx context.Context, id uuid.UUID, name, description *string, price *float64, durationDays *int) (*models.Plan, error) {
	query := `
		UPDATE plans
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    price = COALESCE($3, price),
		    duration_days = COALESCE($4, duration_days),
		    updated_at = NOW()
		WHERE id = $5
		RETURNING ` + planColumns
	return scanPlan(r.db.QueryRow(ctx, query, name, description, price, durationDays, id))
}

func (r *planRepo) SetImageKey(ctx context.Context, id uuid.UUID, imageKey *string) error {
	query := `UPDATE plans SET image_key = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, imageKey, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *planRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *planRepo) NameExists(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM plans WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2))`
	if err := r.db.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
