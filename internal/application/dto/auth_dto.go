package dto

import "time"

// RegisterRequest entrada para registro de usuário (password em texto, o use case faz o hash).
type RegisterRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	CodigoEmpresa string `json:"codigo_empresa" validate:"required"`
	Name          string `json:"name" validate:"omitempty,max=200"`
	Role          string `json:"role" validate:"omitempty,oneof=admin operador"`
}

// UserResponse saída de um usuário (sem password).
type UserResponse struct {
	ID            string    `json:"id"`
	CodigoEmpresa string    `json:"codigo_empresa"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse saída com token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
