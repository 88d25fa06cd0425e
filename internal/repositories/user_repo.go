package repositories

import (
	"context"
	"errors"
	"fmt"

	"gymstack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailOrUsernameExists(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email, phone *string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
	ListMembers(ctx context.Context, limit, offset int) ([]*models.User, error)
	GetMember(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, user_type_id, name, gender, email, username, phone, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.UserTypeID, &user.Name, &user.Gender, &user.Email, &user.Username, &user.Phone, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, user_type_id, name, gender, email, username, phone, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.UserTypeID, user.Name, user.Gender, user.Email, user.Username, user.Phone, user.PasswordHash)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) EmailOrUsernameExists(ctx context.Context, email, username string) (bool, bool, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE email = $1),
			COUNT(*) FILTER (WHERE username = $2)
		FROM users
		WHERE email = $1 OR username = $2
	`
	var emailCount, usernameCount int
	if err := r.db.QueryRow(ctx, query, email, username).Scan(&emailCount, &usernameCount); err != nil {
		return false, false, fmt.Errorf("failed to check duplicates: %w", err)
	}
	return emailCount > 0, usernameCount > 0, nil
}

// UpdateProfile updates only the provided fields and returns the fresh row.
func (r *userRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, email, phone *string) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
		    email = COALESCE($2, email),
		    phone = COALESCE($3, phone),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, name, email, phone, id))
}

func (r *userRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) ListMembers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT u.` + "id, u.user_type_id, u.name, u.gender, u.email, u.username, u.phone, u.password_hash, u.created_at, u.updated_at" + `
		FROM users u
		JOIN user_type t ON u.user_type_id = t.id
		WHERE t.name = $1
		ORDER BY u.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, models.RoleMember, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.UserTypeID, &user.Name, &user.Gender, &user.Email, &user.Username, &user.Phone, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) GetMember(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT u.id, u.user_type_id, u.name, u.gender, u.email, u.username, u.phone, u.password_hash, u.created_at, u.updated_at
		FROM users u
		JOIN user_type t ON u.user_type_id = t.id
		WHERE u.id = $1 AND t.name = $2
	`
	return scanUser(r.db.QueryRow(ctx, query, id, models.RoleMember))
}
