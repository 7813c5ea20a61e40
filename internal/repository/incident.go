package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/service"
	"github.com/sirupsen/logrus"
)

const incidentColumns = `
	id,
	reporter_id,
	reporter_name,
	type,
	priority,
	status,
	description,
	address,
	latitude,
	longitude,
	assigned_to,
	created_at,
	updated_at
`

// IncidentRepository — реализация шлюза инцидентов поверх PostgreSQL.
// Redis несёт две обязанности: кеш чтения по идентификатору и канал
// оповещений об изменениях, питающий живые подписки (см. subscribe.go).
type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	logger      *logrus.Logger
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, logger *logrus.Logger) service.IncidentStore {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		logger:      logger,
	}
}

// storeErr переводит ошибку соединения в доменную ErrStoreUnavailable
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, models.ErrStoreUnavailable, err)
}

// Create создает новую запись об инциденте. Статус принудительно active:
// инцидент не может существовать ни в каком другом статусе при создании.
func (r *IncidentRepository) Create(ctx context.Context, draft *models.IncidentDraft) (*models.Incident, error) {
	var lat, lon *float64
	if draft.Location != nil {
		lat = &draft.Location.Latitude
		lon = &draft.Location.Longitude
	}

	incident := &models.Incident{
		ReporterID:   draft.ReporterID,
		ReporterName: draft.ReporterName,
		Type:         draft.Type,
		Priority:     draft.Priority,
		Status:       models.StatusActive,
		Description:  draft.Description,
		Address:      draft.Address,
		Location:     draft.Location,
	}

	query := `
		INSERT INTO incidents (reporter_id, reporter_name, type, priority, status, description, address, latitude, longitude)
		VALUES ($1, $2, $3, $4, 'active', $5, $6, $7, $8) RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		draft.ReporterID,
		draft.ReporterName,
		draft.Type,
		draft.Priority,
		draft.Description,
		draft.Address,
		lat,
		lon,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return nil, storeErr("failed to create incident", err)
	}

	r.publishChange(ctx, incident)
	return incident, nil
}

// GetByID возвращает инцидент по его UUID, сначала пробуя кеш
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	if cached, err := r.getIncidentFromCache(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM incidents WHERE id = $1;`, incidentColumns)
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, storeErr("failed to get incident by id", err)
	}

	if err := r.setIncidentCache(ctx, incident); err != nil {
		r.logger.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// Update атомарно применяет переход статуса: статус и назначенный меняются
// одним UPDATE, причём только если текущий статус совпадает с ожидаемым.
// Переход из resolved шлюз отвергает сам, даже в обход оркестратора.
func (r *IncidentRepository) Update(ctx context.Context, id uuid.UUID, tr service.StatusTransition) (*models.Incident, error) {
	if tr.From == models.StatusResolved {
		return nil, fmt.Errorf("incident %s: resolved is terminal: %w", id, models.ErrInvalidTransition)
	}

	query := fmt.Sprintf(`
		UPDATE incidents SET
			status = $1,
			assigned_to = $2,
			updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING %s;
	`, incidentColumns)
	incident, err := scanIncident(r.db.QueryRow(ctx, query, tr.To, tr.AssignedTo, id, tr.From))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Либо записи нет, либо её статус уже не tr.From — различаем
			return nil, r.classifyMissedUpdate(ctx, id)
		}
		return nil, storeErr("failed to update incident", err)
	}

	r.invalidateIncidentCache(ctx, id)
	r.publishChange(ctx, incident)
	return incident, nil
}

// SetPriority меняет приоритет инцидента при ре-триаже; resolved не трогается
func (r *IncidentRepository) SetPriority(ctx context.Context, id uuid.UUID, priority models.IncidentPriority) (*models.Incident, error) {
	query := fmt.Sprintf(`
		UPDATE incidents SET
			priority = $1,
			updated_at = NOW()
		WHERE id = $2 AND status <> 'resolved'
		RETURNING %s;
	`, incidentColumns)
	incident, err := scanIncident(r.db.QueryRow(ctx, query, priority, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMissedUpdate(ctx, id)
		}
		return nil, storeErr("failed to set incident priority", err)
	}

	r.invalidateIncidentCache(ctx, id)
	r.publishChange(ctx, incident)
	return incident, nil
}

// classifyMissedUpdate различает несуществующую запись и запрещённый переход
func (r *IncidentRepository) classifyMissedUpdate(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM incidents WHERE id = $1);`, id).Scan(&exists); err != nil {
		return storeErr("failed to check incident existence", err)
	}
	if !exists {
		return fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
	}
	return fmt.Errorf("incident %s is not in the expected status: %w", id, models.ErrInvalidTransition)
}

// List возвращает инциденты, попадающие в область видимости
func (r *IncidentRepository) List(ctx context.Context, scope service.QueryScope) ([]*models.Incident, error) {
	query := fmt.Sprintf(`SELECT %s FROM incidents`, incidentColumns)
	args := []any{}

	switch scope.Kind {
	case service.ScopeAllActive:
		query += ` WHERE status <> 'resolved'`
	case service.ScopeReportedBy:
		query += ` WHERE reporter_id = $1`
		args = append(args, scope.UserID)
	case service.ScopeAssignedTo:
		query += ` WHERE assigned_to = $1`
		args = append(args, scope.UserID)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("failed to list incidents", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, storeErr("failed to scan incident row", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error list iteration", err)
	}
	return incidents, nil
}

// scanIncident собирает модель из строки выборки; координата есть только
// если обе её составляющие не NULL
func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var lat, lon *float64
	err := row.Scan(
		&incident.ID,
		&incident.ReporterID,
		&incident.ReporterName,
		&incident.Type,
		&incident.Priority,
		&incident.Status,
		&incident.Description,
		&incident.Address,
		&lat,
		&lon,
		&incident.AssignedTo,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		incident.Location = &models.GeoPoint{Latitude: *lat, Longitude: *lon}
	}
	return incident, nil
}

// getIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) getIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// setIncidentCache сохраняет инцидент в Redis с коротким TTL
func (r *IncidentRepository) setIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// invalidateIncidentCache удаляет инцидент из Redis кеша после мутации
func (r *IncidentRepository) invalidateIncidentCache(ctx context.Context, id uuid.UUID) {
	key := fmt.Sprintf("incident:%s", id.String())
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		r.logger.WithError(err).WithField("incident_id", id).Warn("Failed to invalidate incident cache")
	}
}
