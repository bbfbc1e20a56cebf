package entity

import "time"

// Tipos de negocio soportados por la plataforma.
const (
	CompanyTypeBakery = "bakery"
	CompanyTypeTools  = "tools"
)

// Company representa una organización/tenant del sistema (multi-tenant).
type Company struct {
	ID        string
	Name      string
	Type      string // ver constantes CompanyType*
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
