package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReportStatus — статус жалобы на инфраструктуру
type ReportStatus string

const (
	ReportOpen       ReportStatus = "open"
	ReportInProgress ReportStatus = "in_progress"
	ReportClosed     ReportStatus = "closed"
)

// Report — жалоба на инфраструктуру кампуса. В отличие от инцидентов,
// жалоба может быть анонимной: имя заявителя тогда не раскрывается.
type Report struct {
	ID           uuid.UUID    `json:"id"`
	ReporterID   uuid.UUID    `json:"reporter_id"`
	ReporterName string       `json:"reporter_name,omitempty"`
	Anonymous    bool         `json:"anonymous"`
	Category     string       `json:"category"`
	Description  string       `json:"description"`
	Address      string       `json:"address,omitempty"`
	Status       ReportStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ParseReportStatus проверяет, что значение входит в известный набор статусов жалоб
func ParseReportStatus(s string) (ReportStatus, error) {
	st := ReportStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case ReportOpen, ReportInProgress, ReportClosed:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown report status %q", ErrValidation, s)
}
