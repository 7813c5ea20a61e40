package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/service"
)

const incidentChangeChannel = "incident_changes"

// changeEvent — оповещение об изменении одной записи, публикуемое в Redis
// после каждого зафиксированного create/update. Само содержимое снимка
// подписчик всегда перечитывает из БД: поток не кеширует и не расходится.
type changeEvent struct {
	IncidentID uuid.UUID             `json:"incident_id"`
	ReporterID uuid.UUID             `json:"reporter_id"`
	AssignedTo *uuid.UUID            `json:"assigned_to,omitempty"`
	Status     models.IncidentStatus `json:"status"`
}

// publishChange рассылает оповещение всем открытым подпискам.
// Сбой публикации не откатывает уже зафиксированную запись.
func (r *IncidentRepository) publishChange(ctx context.Context, incident *models.Incident) {
	event := changeEvent{
		IncidentID: incident.ID,
		ReporterID: incident.ReporterID,
		AssignedTo: incident.AssignedTo,
		Status:     incident.Status,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal incident change event")
		return
	}
	if err := r.redisClient.Publish(ctx, incidentChangeChannel, payload).Err(); err != nil {
		r.logger.WithError(err).WithField("incident_id", incident.ID).Error("Failed to publish incident change event")
	}
}

// Subscribe открывает живой поток снимков по области видимости. Первый снимок
// приходит сразу, далее — по каждому изменению, затрагивающему область.
// Поток завершается только отменой контекста вызывающей стороны.
func (r *IncidentRepository) Subscribe(ctx context.Context, scope service.QueryScope) (<-chan []*models.Incident, error) {
	sub := r.redisClient.Subscribe(ctx, incidentChangeChannel)
	// Дожидаемся подтверждения подписки, чтобы не потерять изменения между
	// первым снимком и началом доставки оповещений
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, storeErr("failed to open incident subscription", err)
	}

	out := make(chan []*models.Incident, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		if !r.pushSnapshot(ctx, scope, out) {
			return
		}

		notifications := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-notifications:
				if !ok {
					return
				}
				var event changeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					r.logger.WithError(err).Error("Failed to unmarshal incident change event")
					continue
				}
				if !eventInScope(event, scope) {
					continue
				}
				if !r.pushSnapshot(ctx, scope, out) {
					return
				}
			}
		}
	}()

	return out, nil
}

// pushSnapshot перечитывает область из БД и отправляет полный снимок.
// Возвращает false, когда подписка отменена.
func (r *IncidentRepository) pushSnapshot(ctx context.Context, scope service.QueryScope, out chan<- []*models.Incident) bool {
	snapshot, err := r.List(ctx, scope)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		// Временная недоступность хранилища не убивает подписку:
		// следующий снимок уйдёт по следующему оповещению
		r.logger.WithError(err).Error("Failed to build subscription snapshot")
		return true
	}
	select {
	case out <- snapshot:
		return true
	case <-ctx.Done():
		return false
	}
}

// eventInScope решает, затрагивает ли изменение данную область видимости
func eventInScope(event changeEvent, scope service.QueryScope) bool {
	switch scope.Kind {
	case service.ScopeReportedBy:
		return event.ReporterID == scope.UserID
	case service.ScopeAssignedTo:
		return event.AssignedTo != nil && *event.AssignedTo == scope.UserID
	default:
		return true
	}
}
