package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/service"
)

// StaffRepository — справочник персонала поверх PostgreSQL
type StaffRepository struct {
	db *pgxpool.Pool
}

func NewStaffRepository(db *pgxpool.Pool) service.StaffDirectory {
	return &StaffRepository{db: db}
}

// GetStaff возвращает сотрудника по идентификатору. Записи с ролью student
// здесь не видны: назначать инциденты можно только персоналу.
func (r *StaffRepository) GetStaff(ctx context.Context, id uuid.UUID) (*models.Actor, error) {
	actor := &models.Actor{}
	query := `
		SELECT id, name, role
		FROM staff
		WHERE id = $1 AND role IN ('faculty', 'admin');
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&actor.ID, &actor.Name, &actor.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("staff member with id %s: %w", id, models.ErrNotFound)
		}
		return nil, storeErr("failed to get staff member", err)
	}
	return actor, nil
}
