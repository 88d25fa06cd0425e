package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserTypeID   uuid.UUID `json:"user_type_id" db:"user_type_id"`
	Name         string    `json:"name" db:"name"`
	Gender       string    `json:"gender" db:"gender"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	Phone        *string   `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
