package service

//go:generate mockgen -source=view.go -destination=mocks/mock_view.go -package=mocks

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// MapPoint — тройка (широта, долгота, подпись) для внешнего картографического
// вьювера. Внутренности отрисовки карты системе неизвестны.
type MapPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// IncidentViews — живые проекции инцидентов, ограниченные ролью.
// Каждая роль видит ровно свою область: студент — свои инциденты,
// преподаватель — назначенные ему, админ — всё. Широкая область (broad)
// у студента и преподавателя даёт обзор всех активных, только для чтения.
type IncidentViews interface {
	List(ctx context.Context, actor models.Actor, broad bool) ([]*models.Incident, error)
	Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error)
	Stream(ctx context.Context, actor models.Actor, broad bool) (<-chan []*models.Incident, error)
	MapPoints(ctx context.Context, actor models.Actor) ([]MapPoint, error)
}

type incidentViews struct {
	store  IncidentStore
	logger *logrus.Logger
}

func NewIncidentViews(store IncidentStore, logger *logrus.Logger) IncidentViews {
	return &incidentViews{
		store:  store,
		logger: logger,
	}
}

// ScopeForActor сводит роль к области видимости запроса
func ScopeForActor(actor models.Actor, broad bool) QueryScope {
	switch actor.Role {
	case models.RoleAdmin:
		return AllScope()
	case models.RoleFaculty:
		if broad {
			return AllActiveScope()
		}
		return AssignedToScope(actor.ID)
	default:
		if broad {
			return AllActiveScope()
		}
		return ReportedByScope(actor.ID)
	}
}

// RankIncidents упорядочивает снимок для отображения: сначала по статусу
// (active, assigned, resolved), внутри статуса — по весу опасности, затем по
// свежести. Чистая функция от последнего снимка, никакого слияния с записью.
func RankIncidents(incidents []*models.Incident) []*models.Incident {
	ranked := make([]*models.Incident, len(incidents))
	copy(ranked, incidents)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := statusRank(ranked[i].Status), statusRank(ranked[j].Status)
		if si != sj {
			return si < sj
		}
		if ranked[i].DangerRank() != ranked[j].DangerRank() {
			return ranked[i].DangerRank() > ranked[j].DangerRank()
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})
	return ranked
}

func statusRank(s models.IncidentStatus) int {
	switch s {
	case models.StatusActive:
		return 0
	case models.StatusAssigned:
		return 1
	default:
		return 2
	}
}

// List возвращает ранжированную проекцию по области видимости роли
func (v *incidentViews) List(ctx context.Context, actor models.Actor, broad bool) ([]*models.Incident, error) {
	scope := ScopeForActor(actor, broad)
	log := v.logger.WithFields(logrus.Fields{
		"service":  "views",
		"method":   "List",
		"actor_id": actor.ID,
		"scope":    scope.Kind,
	})

	incidents, err := v.store.List(ctx, scope)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from store")
		return nil, fmt.Errorf("views: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed")
	return RankIncidents(incidents), nil
}

// Get возвращает один инцидент с учётом видимости роли: персонал видит всё,
// студент — свои инциденты и неразрешённые чужие (ситуационный обзор).
func (v *incidentViews) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Incident, error) {
	incident, err := v.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("views: could not get incident: %w", err)
	}
	if !actor.Role.IsStaff() && actor.ID != incident.ReporterID && incident.Status == models.StatusResolved {
		return nil, fmt.Errorf("views: incident %s is outside the actor scope: %w", id, models.ErrNotFound)
	}
	return incident, nil
}

// Stream открывает живой поток ранжированных снимков. Поток закрывается
// отменой контекста вызывающей стороны; подвисших таймеров после этого нет.
func (v *incidentViews) Stream(ctx context.Context, actor models.Actor, broad bool) (<-chan []*models.Incident, error) {
	scope := ScopeForActor(actor, broad)
	log := v.logger.WithFields(logrus.Fields{
		"service":  "views",
		"method":   "Stream",
		"actor_id": actor.ID,
		"scope":    scope.Kind,
	})

	snapshots, err := v.store.Subscribe(ctx, scope)
	if err != nil {
		log.WithError(err).Error("Failed to subscribe to incident stream")
		return nil, fmt.Errorf("views: could not open incident stream: %w", err)
	}

	out := make(chan []*models.Incident, 1)
	go func() {
		defer close(out)
		for snapshot := range snapshots {
			select {
			case out <- RankIncidents(snapshot):
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Incident stream opened")
	return out, nil
}

// MapPoints отдаёт инциденты с координатами внешнему картографическому вьюверу
func (v *incidentViews) MapPoints(ctx context.Context, actor models.Actor) ([]MapPoint, error) {
	incidents, err := v.List(ctx, actor, true)
	if err != nil {
		return nil, err
	}

	points := make([]MapPoint, 0, len(incidents))
	for _, incident := range incidents {
		if incident.Location == nil {
			continue
		}
		points = append(points, MapPoint{
			Latitude:  incident.Location.Latitude,
			Longitude: incident.Location.Longitude,
			Label:     fmt.Sprintf("%s (%s)", incident.Type, incident.Priority),
		})
	}
	return points, nil
}
