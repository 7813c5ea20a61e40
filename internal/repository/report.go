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

const reportColumns = `
	id,
	reporter_id,
	reporter_name,
	anonymous,
	category,
	description,
	address,
	status,
	created_at,
	updated_at
`

// ReportRepository — хранилище жалоб на инфраструктуру поверх PostgreSQL
type ReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) service.ReportRepository {
	return &ReportRepository{db: db}
}

// Create создает новую запись о жалобе в бд
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (reporter_id, reporter_name, anonymous, category, description, address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		report.ReporterID,
		report.ReporterName,
		report.Anonymous,
		report.Category,
		report.Description,
		report.Address,
		report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return storeErr("failed to create report", err)
	}
	return nil
}

// List возвращает жалобы, опционально отфильтрованные по статусу
func (r *ReportRepository) List(ctx context.Context, status *models.ReportStatus) ([]*models.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports`, reportColumns)
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("failed to list reports", err)
	}
	defer rows.Close()

	reports := make([]*models.Report, 0)
	for rows.Next() {
		report := &models.Report{}
		err := rows.Scan(
			&report.ID,
			&report.ReporterID,
			&report.ReporterName,
			&report.Anonymous,
			&report.Category,
			&report.Description,
			&report.Address,
			&report.Status,
			&report.CreatedAt,
			&report.UpdatedAt,
		)
		if err != nil {
			return nil, storeErr("failed to scan report row", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error report list iteration", err)
	}
	return reports, nil
}

// UpdateStatus меняет статус жалобы и возвращает обновлённую запись
func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) (*models.Report, error) {
	query := fmt.Sprintf(`
		UPDATE reports SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2
		RETURNING %s;
	`, reportColumns)

	report := &models.Report{}
	err := r.db.QueryRow(ctx, query, status, id).Scan(
		&report.ID,
		&report.ReporterID,
		&report.ReporterName,
		&report.Anonymous,
		&report.Category,
		&report.Description,
		&report.Address,
		&report.Status,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report with id %s: %w", id, models.ErrNotFound)
		}
		return nil, storeErr("failed to update report status", err)
	}
	return report, nil
}
