package v1

import (
	"time"

	"github.com/google/uuid"
)

// BeginHoldRequest DTO для начала удержания SOS-кнопки
// @Description DTO для начала удержания SOS-кнопки
type BeginHoldRequest struct {
	Type               string   `json:"type" validate:"required"`
	LocationPermission bool     `json:"location_permission"`
	Latitude           *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude          *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Address            string   `json:"address,omitempty"`
}

// HoldStatusResponse DTO состояния удержания
// @Description DTO состояния удержания
type HoldStatusResponse struct {
	State            string     `json:"state"`
	RemainingSeconds int        `json:"remaining_seconds"`
	IncidentID       *uuid.UUID `json:"incident_id,omitempty"`
	FailureReason    string     `json:"failure_reason,omitempty"`
}

// AssignIncidentRequest DTO для назначения инцидента сотруднику
// @Description DTO для назначения инцидента сотруднику
type AssignIncidentRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required,uuid"`
}

// ReprioritizeIncidentRequest DTO для ре-триажа приоритета
// @Description DTO для ре-триажа приоритета
type ReprioritizeIncidentRequest struct {
	Priority string `json:"priority" validate:"required,oneof=normal high critical"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID           uuid.UUID  `json:"id"`
	ReporterID   uuid.UUID  `json:"reporter_id"`
	ReporterName string     `json:"reporter_name"`
	Type         string     `json:"type"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	Description  string     `json:"description"`
	Address      string     `json:"address,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	AssignedTo   *uuid.UUID `json:"assigned_to,omitempty"`
	DangerRank   int        `json:"danger_rank"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MapPointResponse DTO точки для внешнего картографического вьювера
// @Description DTO точки для внешнего картографического вьювера
type MapPointResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// CreateReportRequest DTO для создания жалобы на инфраструктуру
// @Description DTO для создания жалобы на инфраструктуру
type CreateReportRequest struct {
	Category    string `json:"category" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"required"`
	Address     string `json:"address,omitempty"`
	Anonymous   bool   `json:"anonymous"`
}

// UpdateReportStatusRequest DTO для смены статуса жалобы
// @Description DTO для смены статуса жалобы
type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress closed"`
}

// ReportResponse DTO для ответа с информацией о жалобе
// @Description DTO для ответа с информацией о жалобе
type ReportResponse struct {
	ID           uuid.UUID `json:"id"`
	ReporterName string    `json:"reporter_name,omitempty"`
	Anonymous    bool      `json:"anonymous"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Address      string    `json:"address,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
