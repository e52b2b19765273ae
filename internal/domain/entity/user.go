package entity

import "time"

// Papéis de usuário.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User usuário do sistema, vinculado a uma empresa (tenant).
type User struct {
	ID            string
	CodigoEmpresa string
	Email         string
	PasswordHash  string
	Name          string
	Role          string // admin | operador
	Status        string // active | inactive
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
