package models

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Description  *string    `json:"description" db:"description"`
	Price        float64    `json:"price" db:"price"`
	DurationDays int        `json:"duration" db:"duration_days"`
	ImageKey     *string    `json:"-" db:"image_key"` // MinIO object key, served via /plans/:id/image
	AdminID      *uuid.UUID `json:"admin_id" db:"admin_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
