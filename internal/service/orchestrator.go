package service

//go:generate mockgen -source=orchestrator.go -destination=mocks/mock_orchestrator.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// IncidentOrchestrator — единственный компонент, которому позволено запрашивать
// переходы статуса. Роль действующего лица проверяется здесь, независимо от
// того, каким транспортом пришла команда.
type IncidentOrchestrator interface {
	Assign(ctx context.Context, actor models.Actor, incidentID, assigneeID uuid.UUID) (*models.Incident, error)
	Resolve(ctx context.Context, actor models.Actor, incidentID uuid.UUID) (*models.Incident, error)
	Reprioritize(ctx context.Context, actor models.Actor, incidentID uuid.UUID, priority models.IncidentPriority) (*models.Incident, error)
}

type incidentOrchestrator struct {
	store     IncidentStore
	staff     StaffDirectory
	logger    *logrus.Logger
	publisher webhook.EventPublisher
}

func NewIncidentOrchestrator(store IncidentStore, staff StaffDirectory, logger *logrus.Logger, publisher webhook.EventPublisher) IncidentOrchestrator {
	return &incidentOrchestrator{
		store:     store,
		staff:     staff,
		logger:    logger,
		publisher: publisher,
	}
}

// Assign переводит инцидент active -> assigned.
// Разрешено только персоналу; назначаемый должен быть действующим сотрудником.
func (o *incidentOrchestrator) Assign(ctx context.Context, actor models.Actor, incidentID, assigneeID uuid.UUID) (*models.Incident, error) {
	log := o.logger.WithFields(logrus.Fields{
		"service":     "orchestrator",
		"method":      "Assign",
		"incident_id": incidentID,
		"actor_id":    actor.ID,
		"actor_role":  actor.Role,
	})
	log.Info("Attempting to assign incident")

	if !actor.Role.IsStaff() {
		log.Warn("Assign rejected: actor is not staff")
		return nil, fmt.Errorf("orchestrator: role %s may not assign: %w", actor.Role, models.ErrInvalidTransition)
	}

	current, err := o.store.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Failed to load incident for assignment")
		return nil, fmt.Errorf("orchestrator: could not load incident: %w", err)
	}
	if current.Status != models.StatusActive {
		log.WithField("status", current.Status).Warn("Assign rejected: incident is not active")
		return nil, fmt.Errorf("orchestrator: cannot assign incident in status %s: %w", current.Status, models.ErrInvalidTransition)
	}

	assignee, err := o.staff.GetStaff(ctx, assigneeID)
	if err != nil {
		log.WithError(err).WithField("assignee_id", assigneeID).Warn("Assign rejected: assignee is not valid staff")
		return nil, fmt.Errorf("orchestrator: assignee %s is not a valid staff member: %w", assigneeID, models.ErrValidation)
	}

	updated, err := o.store.Update(ctx, incidentID, StatusTransition{
		From:       models.StatusActive,
		To:         models.StatusAssigned,
		AssignedTo: &assignee.ID,
	})
	if err != nil {
		log.WithError(err).Error("Failed to apply assign transition")
		return nil, fmt.Errorf("orchestrator: could not assign incident: %w", err)
	}

	o.publish(ctx, webhook.EventIncidentAssigned, updated)
	log.WithField("assignee_id", assignee.ID).Info("Incident assigned successfully")
	return updated, nil
}

// Resolve переводит инцидент в терминальный статус resolved.
// Из active — заявитель либо персонал; из assigned — любой сотрудник,
// не обязательно назначенный. Назначенный при этом сохраняется для аудита.
func (o *incidentOrchestrator) Resolve(ctx context.Context, actor models.Actor, incidentID uuid.UUID) (*models.Incident, error) {
	log := o.logger.WithFields(logrus.Fields{
		"service":     "orchestrator",
		"method":      "Resolve",
		"incident_id": incidentID,
		"actor_id":    actor.ID,
		"actor_role":  actor.Role,
	})
	log.Info("Attempting to resolve incident")

	current, err := o.store.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Failed to load incident for resolution")
		return nil, fmt.Errorf("orchestrator: could not load incident: %w", err)
	}

	switch current.Status {
	case models.StatusActive:
		if !actor.Role.IsStaff() && actor.ID != current.ReporterID {
			log.Warn("Resolve rejected: student is not the reporter")
			return nil, fmt.Errorf("orchestrator: only the reporter or staff may resolve an active incident: %w", models.ErrInvalidTransition)
		}
	case models.StatusAssigned:
		if !actor.Role.IsStaff() {
			log.Warn("Resolve rejected: actor is not staff")
			return nil, fmt.Errorf("orchestrator: only staff may resolve an assigned incident: %w", models.ErrInvalidTransition)
		}
	default:
		log.WithField("status", current.Status).Warn("Resolve rejected: resolved is terminal")
		return nil, fmt.Errorf("orchestrator: cannot resolve incident in status %s: %w", current.Status, models.ErrInvalidTransition)
	}

	updated, err := o.store.Update(ctx, incidentID, StatusTransition{
		From:       current.Status,
		To:         models.StatusResolved,
		AssignedTo: current.AssignedTo,
	})
	if err != nil {
		log.WithError(err).Error("Failed to apply resolve transition")
		return nil, fmt.Errorf("orchestrator: could not resolve incident: %w", err)
	}

	o.publish(ctx, webhook.EventIncidentResolved, updated)
	log.Info("Incident resolved successfully")
	return updated, nil
}

// Reprioritize выполняет ручной ре-триаж приоритета персоналом.
// Статус при этом не меняется; resolved ре-триажу не подлежит.
func (o *incidentOrchestrator) Reprioritize(ctx context.Context, actor models.Actor, incidentID uuid.UUID, priority models.IncidentPriority) (*models.Incident, error) {
	log := o.logger.WithFields(logrus.Fields{
		"service":     "orchestrator",
		"method":      "Reprioritize",
		"incident_id": incidentID,
		"actor_id":    actor.ID,
		"priority":    priority,
	})
	log.Info("Attempting to reprioritize incident")

	if !actor.Role.IsStaff() {
		log.Warn("Reprioritize rejected: actor is not staff")
		return nil, fmt.Errorf("orchestrator: role %s may not reprioritize: %w", actor.Role, models.ErrInvalidTransition)
	}

	current, err := o.store.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Failed to load incident for reprioritization")
		return nil, fmt.Errorf("orchestrator: could not load incident: %w", err)
	}
	if current.Status == models.StatusResolved {
		log.Warn("Reprioritize rejected: incident already resolved")
		return nil, fmt.Errorf("orchestrator: cannot reprioritize a resolved incident: %w", models.ErrInvalidTransition)
	}

	updated, err := o.store.SetPriority(ctx, incidentID, priority)
	if err != nil {
		log.WithError(err).Error("Failed to set incident priority")
		return nil, fmt.Errorf("orchestrator: could not reprioritize incident: %w", err)
	}

	log.Info("Incident reprioritized successfully")
	return updated, nil
}

// publish отправляет событие жизненного цикла во внешнюю границу уведомлений.
// Сбой публикации не откатывает уже применённый переход, только логируется.
func (o *incidentOrchestrator) publish(ctx context.Context, eventType string, incident *models.Incident) {
	if o.publisher == nil {
		return
	}
	event := webhook.IncidentEvent{
		Event:    eventType,
		Incident: incident,
	}
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.WithError(err).WithField("event", eventType).Error("Failed to publish incident event")
	}
}
