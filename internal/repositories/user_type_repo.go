package repositories

import (
	"context"
	"errors"

	"gymstack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserTypeRepository interface {
	Create(ctx context.Context, userType *models.UserType) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserType, error)
	GetByName(ctx context.Context, name string) (*models.UserType, error)
	List(ctx context.Context) ([]*models.UserType, error)
	Update(ctx context.Context, id uuid.UUID, name *string, canViewSubscriptions, canViewMembers, canViewPayments *bool) (*models.UserType, error)
	Delete(ctx context.Context, id uuid.UUID) error
	NameExists(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
}

type userTypeRepo struct {
	db DB
}

func NewUserTypeRepo(db DB) UserTypeRepository {
	return &userTypeRepo{db: db}
}

const userTypeColumns = `id, name, can_view_subscriptions, can_view_members, can_view_payments, created_at`

func scanUserType(row pgx.Row) (*models.UserType, error) {
	t := &models.UserType{}
	err := row.Scan(&t.ID, &t.Name, &t.CanViewSubscriptions, &t.CanViewMembers, &t.CanViewPayments, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *userTypeRepo) Create(ctx context.Context, userType *models.UserType) error {
	query := `
		INSERT INTO user_type (id, name, can_view_subscriptions, can_view_members, can_view_payments, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, userType.ID, userType.Name, userType.CanViewSubscriptions, userType.CanViewMembers, userType.CanViewPayments)
	return err
}

func (r *userTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.UserType, error) {
	query := `SELECT ` + userTypeColumns + ` FROM user_type WHERE id = $1`
	return scanUserType(r.db.QueryRow(ctx, query, id))
}

func (r *userTypeRepo) GetByName(ctx context.Context, name string) (*models.UserType, error) {
	query := `SELECT ` + userTypeColumns + ` FROM user_type WHERE name = $1`
	return scanUserType(r.db.QueryRow(ctx, query, name))
}

func (r *userTypeRepo) List(ctx context.Context) ([]*models.UserType, error) {
	query := `SELECT ` + userTypeColumns + ` FROM user_type ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*models.UserType
	for rows.Next() {
		t := &models.UserType{}
		if err := rows.Scan(&t.ID, &t.Name, &t.CanViewSubscriptions, &t.CanViewMembers, &t.CanViewPayments, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// Update patches only the provided fields and returns the fresh row.
func (r *userTypeRepo) Update(ctx context.Context, id uuid.UUID, name *string, canViewSubscriptions, canViewMembers, canViewPayments *bool) (*models.UserType, error) {
	query := `
		UPDATE user_type
		SET name = COALESCE($1, name),
		    can_view_subscriptions = COALESCE($2, can_view_subscriptions),
		    can_view_members = COALESCE($3, can_view_members),
		    can_view_payments = COALESCE($4, can_view_payments)
		WHERE id = $5
		RETURNING ` + userTypeColumns
	return scanUserType(r.db.QueryRow(ctx, query, name, canViewSubscriptions, canViewMembers, canViewPayments, id))
}

// Delete refuses to remove a user type while any user still references it.
func (r *userTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var inUse bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM users WHERE user_type_id = $1)`
	if err := r.db.QueryRow(ctx, checkQuery, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse {
		return ErrUserTypeInUse
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM user_type WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userTypeRepo) NameExists(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_type WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2))`
	if err := r.db.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
