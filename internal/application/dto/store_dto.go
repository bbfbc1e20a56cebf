package dto

import "time"

// CreateStoreRequest body para POST /api/stores.
type CreateStoreRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"` // main, sub
	ParentStoreID *string `json:"parent_store_id,omitempty"`
	Address       string  `json:"address,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Email         string  `json:"email,omitempty"`
}

// StoreResponse representación de una tienda.
type StoreResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	ParentStoreID *string   `json:"parent_store_id,omitempty"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Address       string    `json:"address,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
