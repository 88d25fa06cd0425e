package repositories

import (
	"context"
	"errors"

	"gymstack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentTypeRepository interface {
	Create(ctx context.Context, paymentType *models.PaymentType) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentType, error)
	GetByName(ctx context.Context, name string) (*models.PaymentType, error)
	// First returns the oldest payment type, the fallback when a purchase
	// names no method at all.
	First(ctx context.Context) (*models.PaymentType, error)
	List(ctx context.Context) ([]*models.PaymentType, error)
	Update(ctx context.Context, id uuid.UUID, name, description *string) (*models.PaymentType, error)
	Delete(ctx context.Context, id uuid.UUID) error
	NameExists(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
}

type paymentTypeRepo struct {
	db DB
}

func NewPaymentTypeRepo(db DB) PaymentTypeRepository {
	return &paymentTypeRepo{db: db}
}

const paymentTypeColumns = `id, name, description, created_at`

func scanPaymentType(row pgx.Row) (*models.PaymentType, error) {
	pt := &models.PaymentType{}
	err := row.Scan(&pt.ID, &pt.Name, &pt.Description, &pt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pt, nil
}

func (r *paymentTypeRepo) Create(ctx context.Context, paymentType *models.PaymentType) error {
	query := `
		INSERT INTO payment_type (id, name, description, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(ctx, query, paymentType.ID, paymentType.Name, paymentType.Description)
	return err
}

func (r *paymentTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentType, error) {
	query := `SELECT ` + paymentTypeColumns + ` FROM payment_type WHERE id = $1`
	return scanPaymentType(r.db.QueryRow(ctx, query, id))
}

func (r *paymentTypeRepo) GetByName(ctx context.Context, name string) (*models.PaymentType, error) {
	query := `SELECT ` + paymentTypeColumns + ` FROM payment_type WHERE name = $1`
	return scanPaymentType(r.db.QueryRow(ctx, query, name))
}

func (r *paymentTypeRepo) First(ctx context.Context) (*models.PaymentType, error) {
	query := `SELECT ` + paymentTypeColumns + ` FROM payment_type ORDER BY created_at ASC LIMIT 1`
	return scanPaymentType(r.db.QueryRow(ctx, query))
}

func (r *paymentTypeRepo) List(ctx context.Context) ([]*models.PaymentType, error) {
	query := `SELECT ` + paymentTypeColumns + ` FROM payment_type ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.PaymentType
	for rows.Next() {
		pt := &models.PaymentType{}
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.Description, &pt.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, pt)
	}
	return types, rows.Err()
}

func (r *paymentTypeRepo) Update(ctx context.Context, id uuid.UUID, name, description *string) (*models.PaymentType, error) {
	query := `
		UPDATE payment_type
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description)
		WHERE id = $3
		RETURNING ` + paymentTypeColumns
	return scanPaymentType(r.db.QueryRow(ctx, query, name, description, id))
}

func (r *paymentTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payment_type WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *paymentTypeRepo) NameExists(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM payment_type WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2))`
	if err := r.db.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
