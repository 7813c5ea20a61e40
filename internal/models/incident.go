package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IncidentType — классификация экстренного инцидента
type IncidentType string

const (
	TypeGeneral    IncidentType = "general"
	TypeMedical    IncidentType = "medical"
	TypeSecurity   IncidentType = "security"
	TypeFire       IncidentType = "fire"
	TypeHarassment IncidentType = "harassment"
	TypeVoice      IncidentType = "voice"
	TypeManual     IncidentType = "manual"
)

// IncidentPriority — приоритет инцидента
type IncidentPriority string

const (
	PriorityNormal   IncidentPriority = "normal"
	PriorityHigh     IncidentPriority = "high"
	PriorityCritical IncidentPriority = "critical"
)

// IncidentStatus — статус жизненного цикла инцидента
type IncidentStatus string

const (
	StatusActive   IncidentStatus = "active"
	StatusAssigned IncidentStatus = "assigned"
	StatusResolved IncidentStatus = "resolved"
)

// GeoPoint — географическая координата, захваченная при создании инцидента
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Incident — каноническая запись экстренного инцидента
type Incident struct {
	ID           uuid.UUID        `json:"id"`
	ReporterID   uuid.UUID        `json:"reporter_id"`
	ReporterName string           `json:"reporter_name"`
	Type         IncidentType     `json:"type"`
	Priority     IncidentPriority `json:"priority"`
	Status       IncidentStatus   `json:"status"`
	Description  string           `json:"description"`
	Address      string           `json:"address,omitempty"`
	Location     *GeoPoint        `json:"location,omitempty"`
	AssignedTo   *uuid.UUID       `json:"assigned_to,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// IncidentDraft — заготовка инцидента до присвоения идентификатора хранилищем.
// Статус не задаётся: хранилище всегда создаёт инцидент как active.
type IncidentDraft struct {
	ReporterID   uuid.UUID
	ReporterName string
	Type         IncidentType
	Priority     IncidentPriority
	Description  string
	Address      string
	Location     *GeoPoint
}

// ParseIncidentType проверяет, что значение входит в известный набор типов
func ParseIncidentType(s string) (IncidentType, error) {
	t := IncidentType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeGeneral, TypeMedical, TypeSecurity, TypeFire, TypeHarassment, TypeVoice, TypeManual:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown incident type %q", ErrValidation, s)
}

// ParseIncidentPriority проверяет, что значение входит в известный набор приоритетов
func ParseIncidentPriority(s string) (IncidentPriority, error) {
	p := IncidentPriority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PriorityNormal, PriorityHigh, PriorityCritical:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown incident priority %q", ErrValidation, s)
}

// ParseIncidentStatus проверяет, что значение входит в известный набор статусов
func ParseIncidentStatus(s string) (IncidentStatus, error) {
	st := IncidentStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusActive, StatusAssigned, StatusResolved:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown incident status %q", ErrValidation, s)
}

// DefaultPriority возвращает приоритет по умолчанию для типа инцидента.
// Пожар эскалируется до critical, угрозы жизни и безопасности — до high.
func DefaultPriority(t IncidentType) IncidentPriority {
	switch t {
	case TypeFire:
		return PriorityCritical
	case TypeMedical, TypeSecurity, TypeVoice:
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// NewIncidentDraft собирает и валидирует заготовку инцидента.
// Пустое описание или неизвестный тип отклоняются до обращения к хранилищу.
func NewIncidentDraft(reporterID uuid.UUID, reporterName, incidentType, description, address string, loc *GeoPoint) (*IncidentDraft, error) {
	t, err := ParseIncidentType(incidentType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: incident description must not be empty", ErrValidation)
	}
	if reporterID == uuid.Nil {
		return nil, fmt.Errorf("%w: incident reporter is required", ErrValidation)
	}
	return &IncidentDraft{
		ReporterID:   reporterID,
		ReporterName: reporterName,
		Type:         t,
		Priority:     DefaultPriority(t),
		Description:  strings.TrimSpace(description),
		Address:      strings.TrimSpace(address),
		Location:     loc,
	}, nil
}

// DangerRank — производный вес инцидента для сортировки на дашбордах.
// Используется только для отображения, не для логики переходов.
func (i *Incident) DangerRank() int {
	rank := 0
	switch i.Priority {
	case PriorityCritical:
		rank = 6
	case PriorityHigh:
		rank = 4
	case PriorityNormal:
		rank = 2
	}
	if i.Status == StatusResolved {
		rank = 0
	}
	return rank
}
