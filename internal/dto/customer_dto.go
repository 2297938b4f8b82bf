package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	IDNo     string `json:"id_no"    validate:"max=20"`
	Birthday string `json:"birthday" validate:"max=20"`
	Phone    string `json:"phone"    validate:"max=30"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Address  string `json:"address"  validate:"max=200"`
	Notes    string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=100"`
	IDNo     *string `json:"id_no"    validate:"omitempty,max=20"`
	Birthday *string `json:"birthday" validate:"omitempty,max=20"`
	Phone    *string `json:"phone"    validate:"omitempty,max=30"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Address  *string `json:"address"  validate:"omitempty,max=200"`
	Notes    *string `json:"notes"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IDNo      string    `json:"id_no"`
	Birthday  string    `json:"birthday"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
