package entity

import "time"

// User representa un participante WIC autenticado. El ledger de saldos y
// canasta está ligado 1:1 a su ID.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
