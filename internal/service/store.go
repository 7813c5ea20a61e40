package service

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/models"
)

// ScopeKind — вид области видимости подписки/выборки
type ScopeKind string

const (
	ScopeAll        ScopeKind = "all"
	ScopeAllActive  ScopeKind = "all_active"
	ScopeReportedBy ScopeKind = "reported_by"
	ScopeAssignedTo ScopeKind = "assigned_to"
)

// QueryScope — предикат, определяющий какие инциденты видит подписка или выборка
type QueryScope struct {
	Kind   ScopeKind
	UserID uuid.UUID // заполняется для reported_by и assigned_to
}

func AllScope() QueryScope                    { return QueryScope{Kind: ScopeAll} }
func AllActiveScope() QueryScope              { return QueryScope{Kind: ScopeAllActive} }
func ReportedByScope(id uuid.UUID) QueryScope { return QueryScope{Kind: ScopeReportedBy, UserID: id} }
func AssignedToScope(id uuid.UUID) QueryScope { return QueryScope{Kind: ScopeAssignedTo, UserID: id} }

// StatusTransition — атомарное изменение статуса (и назначенного, если он меняется).
// From обязателен: хранилище применяет переход только если текущий статус совпадает.
type StatusTransition struct {
	From       models.IncidentStatus
	To         models.IncidentStatus
	AssignedTo *uuid.UUID
}

// IncidentStore — единственная абстракция над внешним хранилищем инцидентов.
// Подписки — единственный механизм согласованности между ролями:
// потребители считают живой поток источником истины и не ведут расходящийся кеш.
type IncidentStore interface {
	// Create сохраняет новый инцидент; статус принудительно active.
	Create(ctx context.Context, draft *models.IncidentDraft) (*models.Incident, error)

	// GetByID возвращает инцидент по идентификатору (ErrNotFound, если записи нет)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)

	// Update атомарно применяет переход статуса. Возвращает ErrNotFound для
	// несуществующей записи и ErrInvalidTransition, если текущий статус не
	// совпадает с ожидаемым или запрошен переход из resolved.
	Update(ctx context.Context, id uuid.UUID, tr StatusTransition) (*models.Incident, error)

	// List возвращает срез инцидентов, попадающих в область видимости
	List(ctx context.Context, scope QueryScope) ([]*models.Incident, error)

	// SetPriority меняет приоритет инцидента при ручном ре-триаже персоналом
	SetPriority(ctx context.Context, id uuid.UUID, priority models.IncidentPriority) (*models.Incident, error)

	// Subscribe открывает живой поток полных снимков результата по области
	// видимости: первый снимок приходит сразу, далее — по каждому изменению,
	// затрагивающему область. Поток закрывается только отменой контекста.
	Subscribe(ctx context.Context, scope QueryScope) (<-chan []*models.Incident, error)
}

// StaffDirectory — справочник персонала для проверки назначаемых сотрудников
type StaffDirectory interface {
	// GetStaff возвращает сотрудника по идентификатору (ErrNotFound, если
	// запись отсутствует или принадлежит не-персоналу)
	GetStaff(ctx context.Context, id uuid.UUID) (*models.Actor, error)
}
