package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplement is a shop item from the supplement catalog. The backing table
// keeps the deployed schema's spelling ("suplements").
type Supplement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageKey    *string   `json:"-" db:"image_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
