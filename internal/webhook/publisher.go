package webhook

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/campus_safety_system/internal/models"
)

const (
	incidentQueueKey = "incident_events"

	// Типы событий жизненного цикла инцидента
	EventIncidentCreated  = "incident.created"
	EventIncidentAssigned = "incident.assigned"
	EventIncidentResolved = "incident.resolved"
)

// IncidentEvent — полезная нагрузка уведомления о событии жизненного цикла.
// Доставляется внешнему push-сервису на его границе; сам сервис вне системы.
type IncidentEvent struct {
	Event     string           `json:"event"`
	Incident  *models.Incident `json:"incident"`
	Timestamp time.Time        `json:"timestamp"`
}

// EventPublisher — интерфейс для публикации событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisEventPublisher — реализация EventPublisher поверх очереди Redis
type RedisEventPublisher struct {
	redisClient *redis.Client
}

// NewRedisEventPublisher создает новый RedisEventPublisher
func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{
		redisClient: client,
	}
}

// Publish кладет событие в очередь Redis на доставку воркером
func (p *RedisEventPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}

	// LPUSH в левую часть списка, воркер забирает BRPOP с правой
	if err := p.redisClient.LPush(ctx, incidentQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish incident event to Redis: %w", err)
	}
	return nil
}
