package dto

import "time"

// CreateBranchRequest entrada para crear una sucursal en el tenant del token.
type CreateBranchRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Code    string `json:"code" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=255"`
	City    string `json:"city" validate:"omitempty,max=100"`
	State   string `json:"state" validate:"omitempty,max=50"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	IsMain    bool      `json:"is_main"`
	IsActive  bool      `json:"is_active"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
