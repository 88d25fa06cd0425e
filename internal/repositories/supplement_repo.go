package repositories

import (
	"context"
	"errors"

	"gymstack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SupplementRepository interface {
	Create(ctx context.Context, supplement *models.Supplement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplement, error)
	List(ctx context.Context) ([]*models.Supplement, error)
	Update(ctx context.Context, id uuid.UUID, name, description *string, price *float64) (*models.Supplement, error)
	SetImageKey(ctx context.Context, id uuid.UUID, imageKey *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplementRepo struct {
	db DB
}

func NewSupplementRepo(db DB) SupplementRepository {
	return &supplementRepo{db: db}
}

const supplementColumns = `id, name, description, price, image_key, created_at, updated_at`

func scanSupplement(row pgx.Row) (*models.Supplement, error) {
	s := &models.Supplement{}
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.ImageKey, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *supplementRepo) Create(ctx context.Context, supplement *models.Supplement) error {
	query := `
		INSERT INTO suplements (id, name, description, price, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, supplement.ID, supplement.Name, supplement.Description, supplement.Price, supplement.ImageKey)
	return err
}

func (r *supplementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplement, error) {
	query := `SELECT ` + supplementColumns + ` FROM suplements WHERE id = $1`
	return scanSupplement(r.db.QueryRow(ctx, query, id))
}

func (r *supplementRepo) List(ctx context.Context) ([]*models.Supplement, error) {
	query := `SELECT ` + supplementColumns + ` FROM suplements ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var supplements []*models.Supplement
	for rows.Next() {
		s := &models.Supplement{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.ImageKey, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		supplements = append(supplements, s)
	}
	return supplements, rows.Err()
}

func (r *supplementRepo) Update(ctx context.Context, id uuid.UUID, name, description *string, price *float64) (*models.Supplement, error) {
	query := `
		UPDATE suplements
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    price = COALESCE($3, price),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING ` + supplementColumns
	return scanSupplement(r.db.QueryRow(ctx, query, name, description, price, id))
}

func (r *supplementRepo) SetImageKey(ctx context.Context, id uuid.UUID, imageKey *string) error {
	query := `UPDATE suplements SET image_key = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, imageKey, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *supplementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suplements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
