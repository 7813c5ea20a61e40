package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role — роль действующего лица в системе
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Actor — действующее лицо, от имени которого выполняется команда.
// Роль проверяется оркестратором независимо от транспортного слоя.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

// ParseRole проверяет, что значение входит в известный набор ролей
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// IsStaff сообщает, является ли роль персоналом (faculty или admin)
func (r Role) IsStaff() bool {
	return r == RoleFaculty || r == RoleAdmin
}
