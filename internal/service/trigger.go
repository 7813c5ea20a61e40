package service

//go:generate mockgen -source=trigger.go -destination=mocks/mock_trigger.go -package=mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// DefaultHoldSeconds — длительность удержания SOS-кнопки до срабатывания
const DefaultHoldSeconds = 5

// ClientLocation — граница поставщика геолокации. Координата приходит от
// клиента вместе с флагом разрешения; без разрешения отсчёт не начинается.
type ClientLocation struct {
	PermissionGranted bool
	Point             *models.GeoPoint
	Address           string
}

// HoldStatus — снимок состояния удержания для отображения клиенту
type HoldStatus struct {
	State            string     `json:"state"` // idle | counting
	RemainingSeconds int        `json:"remaining_seconds"`
	IncidentID       *uuid.UUID `json:"incident_id,omitempty"`
	FailureReason    string     `json:"failure_reason,omitempty"`
}

const (
	holdStateIdle     = "idle"
	holdStateCounting = "counting"
)

// SOSTrigger превращает удержание SOS-кнопки в подтверждённый запрос создания
// инцидента с окном отмены. Повторный BeginHold во время отсчёта — no-op,
// Release до нуля отменяет без побочных эффектов.
type SOSTrigger interface {
	BeginHold(ctx context.Context, actor models.Actor, incidentType string, loc ClientLocation) (HoldStatus, error)
	Hold(actorID uuid.UUID) HoldStatus
	Release(actorID uuid.UUID) HoldStatus
}

// holdSession — одно активное удержание: Idle -> Counting(n) -> Idle.
// seq привязывает сессию к поколению удержаний действующего лица:
// запоздавший исход устаревшей сессии не перезапишет состояние новой.
type holdSession struct {
	actor        models.Actor
	incidentType models.IncidentType
	location     *models.GeoPoint
	address      string
	remaining    int
	released     bool
	seq          uint64
	stop         chan struct{}
}

// holdOutcome — результат последнего завершившегося удержания
type holdOutcome struct {
	incidentID *uuid.UUID
	failure    string
}

type sosTrigger struct {
	mu        sync.Mutex
	holds     map[uuid.UUID]*holdSession
	outcomes  map[uuid.UUID]*holdOutcome
	seqs      map[uuid.UUID]uint64
	store     IncidentStore
	publisher webhook.EventPublisher
	logger    *logrus.Logger

	holdSeconds  int
	tickInterval time.Duration
	createWait   time.Duration
}

// NewSOSTrigger создает контроллер SOS-триггера. tickInterval задаёт период
// одного деления отсчёта (в проде — секунда, в тестах укорачивается).
func NewSOSTrigger(store IncidentStore, publisher webhook.EventPublisher, logger *logrus.Logger, holdSeconds int, tickInterval time.Duration) SOSTrigger {
	if holdSeconds <= 0 {
		holdSeconds = DefaultHoldSeconds
	}
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	return &sosTrigger{
		holds:        make(map[uuid.UUID]*holdSession),
		outcomes:     make(map[uuid.UUID]*holdOutcome),
		seqs:         make(map[uuid.UUID]uint64),
		store:        store,
		publisher:    publisher,
		logger:       logger,
		holdSeconds:  holdSeconds,
		tickInterval: tickInterval,
		createWait:   10 * time.Second,
	}
}

// BeginHold начинает отсчёт для действующего лица. Если отсчёт уже идёт,
// второй вызов ничего не меняет и возвращает текущее состояние.
func (t *sosTrigger) BeginHold(ctx context.Context, actor models.Actor, incidentType string, loc ClientLocation) (HoldStatus, error) {
	log := t.logger.WithFields(logrus.Fields{
		"service":  "trigger",
		"method":   "BeginHold",
		"actor_id": actor.ID,
		"type":     incidentType,
	})

	// Без разрешения на геолокацию отсчёт не начинается вовсе
	if !loc.PermissionGranted {
		log.Warn("Hold rejected: location permission not granted")
		return HoldStatus{State: holdStateIdle}, fmt.Errorf("trigger: location permission required: %w", models.ErrPermissionDenied)
	}
	if loc.Point == nil {
		log.Warn("Hold rejected: location fix unavailable")
		return HoldStatus{State: holdStateIdle}, fmt.Errorf("trigger: location fix unavailable: %w", models.ErrLocationUnavailable)
	}

	parsedType, err := models.ParseIncidentType(incidentType)
	if err != nil {
		log.WithError(err).Warn("Hold rejected: unknown incident type")
		return HoldStatus{State: holdStateIdle}, fmt.Errorf("trigger: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.holds[actor.ID]; ok {
		log.Info("Hold already in progress, ignoring repeated BeginHold")
		return HoldStatus{State: holdStateCounting, RemainingSeconds: existing.remaining}, nil
	}

	t.seqs[actor.ID]++
	session := &holdSession{
		actor:        actor,
		incidentType: parsedType,
		location:     loc.Point,
		address:      loc.Address,
		remaining:    t.holdSeconds,
		seq:          t.seqs[actor.ID],
		stop:         make(chan struct{}),
	}
	t.holds[actor.ID] = session
	delete(t.outcomes, actor.ID)

	go t.runCountdown(session)

	log.WithField("hold_seconds", t.holdSeconds).Info("Hold countdown started")
	return HoldStatus{State: holdStateCounting, RemainingSeconds: session.remaining}, nil
}

// Hold возвращает текущее состояние удержания для действующего лица
func (t *sosTrigger) Hold(actorID uuid.UUID) HoldStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	if session, ok := t.holds[actorID]; ok {
		return HoldStatus{State: holdStateCounting, RemainingSeconds: session.remaining}
	}
	status := HoldStatus{State: holdStateIdle}
	if outcome, ok := t.outcomes[actorID]; ok {
		status.IncidentID = outcome.incidentID
		status.FailureReason = outcome.failure
	}
	return status
}

// Release отменяет идущий отсчёт. Отмена синхронна: после возврата ни один
// тик больше не сработает и инцидент создан не будет.
func (t *sosTrigger) Release(actorID uuid.UUID) HoldStatus {
	log := t.logger.WithFields(logrus.Fields{
		"service":  "trigger",
		"method":   "Release",
		"actor_id": actorID,
	})

	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.holds[actorID]
	if !ok {
		// Отсчёт уже завершился или не начинался — отменять нечего
		log.Info("Release with no active hold")
		return HoldStatus{State: holdStateIdle}
	}

	session.released = true
	delete(t.holds, actorID)
	close(session.stop)

	log.Info("Hold released, countdown cancelled")
	return HoldStatus{State: holdStateIdle}
}

// runCountdown ведёт отсчёт и по естественному истечению создаёт ровно один
// инцидент. Гонка между финальным тиком и Release разрешается под мьютексом:
// кто первым снял сессию с учёта, тот и определил исход.
func (t *sosTrigger) runCountdown(session *holdSession) {
	ticker := time.NewTicker(t.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-session.stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			if session.released {
				t.mu.Unlock()
				return
			}
			session.remaining--
			if session.remaining > 0 {
				t.mu.Unlock()
				continue
			}
			// Отсчёт дошёл до нуля: снимаем сессию и выходим из-под мьютекса
			delete(t.holds, session.actor.ID)
			t.mu.Unlock()

			t.fire(session)
			return
		}
	}
}

// fire выполняет единственный запрос создания инцидента после истечения отсчёта
func (t *sosTrigger) fire(session *holdSession) {
	log := t.logger.WithFields(logrus.Fields{
		"service":  "trigger",
		"method":   "fire",
		"actor_id": session.actor.ID,
		"type":     session.incidentType,
	})
	log.Info("Hold countdown expired, creating incident")

	// Удержание переживает HTTP-запрос, поэтому контекст свой
	ctx, cancel := context.WithTimeout(context.Background(), t.createWait)
	defer cancel()

	description := fmt.Sprintf("SOS trigger fired: %s emergency reported by %s via press-and-hold", session.incidentType, session.actor.Name)
	draft, err := models.NewIncidentDraft(session.actor.ID, session.actor.Name, string(session.incidentType), description, session.address, session.location)
	if err != nil {
		log.WithError(err).Error("Failed to build incident draft")
		t.recordOutcome(session, &holdOutcome{failure: err.Error()})
		return
	}

	incident, err := t.store.Create(ctx, draft)
	if err != nil {
		// Ошибка хранилища всплывает к клиенту; ретрай — только осознанное
		// повторное удержание
		log.WithError(err).Error("Failed to create incident in store")
		t.recordOutcome(session, &holdOutcome{failure: "incident could not be saved, hold again to retry"})
		return
	}

	t.recordOutcome(session, &holdOutcome{incidentID: &incident.ID})
	log.WithField("incident_id", incident.ID).Info("Incident created by trigger")

	if t.publisher != nil {
		if err := t.publisher.Publish(ctx, webhook.IncidentEvent{Event: webhook.EventIncidentCreated, Incident: incident}); err != nil {
			log.WithError(err).Error("Failed to publish incident created event")
		}
	}
}

// recordOutcome фиксирует исход завершившегося удержания. Исход устаревшей
// сессии отбрасывается: после неё уже началось новое удержание, и его
// состояние принадлежит новому поколению.
func (t *sosTrigger) recordOutcome(session *holdSession, outcome *holdOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seqs[session.actor.ID] != session.seq {
		return
	}
	t.outcomes[session.actor.ID] = outcome
}
