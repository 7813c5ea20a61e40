package service

//go:generate mockgen -source=report.go -destination=mocks/mock_report.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ReportRepository определяет контракт для работы с бд жалоб
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context, status *models.ReportStatus) ([]*models.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) (*models.Report, error)
}

// ReportService — бизнес-логика жалоб на инфраструктуру. Простой CRUD-поток
// рядом с движком инцидентов; статусами управляет только персонал.
type ReportService interface {
	CreateReport(ctx context.Context, actor models.Actor, category, description, address string, anonymous bool) (*models.Report, error)
	ListReports(ctx context.Context, statusFilter string) ([]*models.Report, error)
	SetReportStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status string) (*models.Report, error)
}

type reportService struct {
	repo   ReportRepository
	logger *logrus.Logger
}

func NewReportService(repo ReportRepository, logger *logrus.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// CreateReport создает жалобу. Для анонимной жалобы имя заявителя скрывается.
func (s *reportService) CreateReport(ctx context.Context, actor models.Actor, category, description, address string, anonymous bool) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "report",
		"method":   "CreateReport",
		"actor_id": actor.ID,
	})
	log.Info("Attempting to create a new report")

	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("report: description must not be empty: %w", models.ErrValidation)
	}

	reporterName := actor.Name
	if anonymous {
		reporterName = ""
	}

	report := &models.Report{
		ReporterID:   actor.ID,
		ReporterName: reporterName,
		Anonymous:    anonymous,
		Category:     strings.TrimSpace(category),
		Description:  strings.TrimSpace(description),
		Address:      strings.TrimSpace(address),
		Status:       models.ReportOpen,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		log.WithError(err).Error("Failed to create report in repository")
		return nil, fmt.Errorf("report: could not create report: %w", err)
	}

	log.WithField("report_id", report.ID).Info("Report created successfully")
	return report, nil
}

// ListReports возвращает жалобы с необязательным фильтром по статусу
func (s *reportService) ListReports(ctx context.Context, statusFilter string) ([]*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "ListReports",
	})

	var status *models.ReportStatus
	if statusFilter != "" {
		parsed, err := models.ParseReportStatus(statusFilter)
		if err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
		status = &parsed
	}

	reports, err := s.repo.List(ctx, status)
	if err != nil {
		log.WithError(err).Error("Failed to list reports from repository")
		return nil, fmt.Errorf("report: could not list reports: %w", err)
	}

	log.WithField("count", len(reports)).Info("Reports listed successfully")
	return reports, nil
}

// SetReportStatus меняет статус жалобы; доступно только персоналу
func (s *reportService) SetReportStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "SetReportStatus",
		"report_id": id,
		"actor_id":  actor.ID,
	})
	log.Info("Attempting to update report status")

	if !actor.Role.IsStaff() {
		log.Warn("Report status change rejected: actor is not staff")
		return nil, fmt.Errorf("report: only staff may change report status: %w", models.ErrInvalidTransition)
	}

	parsed, err := models.ParseReportStatus(status)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	report, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		log.WithError(err).Error("Failed to update report status in repository")
		return nil, fmt.Errorf("report: could not update report status: %w", err)
	}

	log.WithField("status", parsed).Info("Report status updated successfully")
	return report, nil
}
