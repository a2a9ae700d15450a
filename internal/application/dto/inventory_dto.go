package dto

import "time"

// RegisterMovementRequest body para POST /api/movements.
// Quantity puede venir con signo o como magnitud; el tipo define el signo final.
type RegisterMovementRequest struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Type      string `json:"type" validate:"required,oneof=IN OUT SALE"`
	Quantity  int64  `json:"quantity" validate:"required,ne=0"`
	RefType   string `json:"ref_type,omitempty"`
	RefID     string `json:"ref_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// MovementResponse movimiento del libro (cantidad ya con signo).
type MovementResponse struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`
	VariantID string    `json:"variant_id"`
	UnitID    string    `json:"unit_id,omitempty"`
	Quantity  int64     `json:"quantity"`
	RefType   string    `json:"ref_type,omitempty"`
	RefID     string    `json:"ref_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// MovementListResponse kardex de una variante.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
