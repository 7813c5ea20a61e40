package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/service"
	"github.com/shenikar/campus_safety_system/internal/service/mocks"
	"github.com/shenikar/campus_safety_system/internal/webhook"
	webhook_mocks "github.com/shenikar/campus_safety_system/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testTick = 10 * time.Millisecond

// newTestTrigger — вспомогательная функция для создания триггера с моками
// и укороченным периодом тика
func newTestTrigger(t *testing.T) (service.SOSTrigger, *mocks.MockIncidentStore, *webhook_mocks.MockEventPublisher) {
	ctrl := gomock.NewController(t)
	storeMock := mocks.NewMockIncidentStore(ctrl)
	publisherMock := webhook_mocks.NewMockEventPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	trigger := service.NewSOSTrigger(storeMock, publisherMock, logger, service.DefaultHoldSeconds, testTick)
	return trigger, storeMock, publisherMock
}

func grantedLocation() service.ClientLocation {
	return service.ClientLocation{
		PermissionGranted: true,
		Point:             &models.GeoPoint{Latitude: 55.75, Longitude: 37.62},
		Address:           "Main campus, building 3",
	}
}

func testStudent() models.Actor {
	return models.Actor{ID: uuid.New(), Name: "Test Student", Role: models.RoleStudent}
}

func TestBeginHold_PermissionDenied(t *testing.T) {
	// Подготовка: мок хранилища без ожиданий — любой вызов Create провалит тест
	trigger, _, _ := newTestTrigger(t)
	actor := testStudent()

	// Действие
	status, err := trigger.BeginHold(context.Background(), actor, "medical", service.ClientLocation{PermissionGranted: false})

	// Проверки: отсчёт не начался, контроллер остался в idle
	require.ErrorIs(t, err, models.ErrPermissionDenied)
	assert.Equal(t, "idle", status.State)
	assert.Equal(t, "idle", trigger.Hold(actor.ID).State)
}

func TestBeginHold_LocationUnavailable(t *testing.T) {
	trigger, _, _ := newTestTrigger(t)
	actor := testStudent()

	status, err := trigger.BeginHold(context.Background(), actor, "medical", service.ClientLocation{PermissionGranted: true, Point: nil})

	require.ErrorIs(t, err, models.ErrLocationUnavailable)
	assert.Equal(t, "idle", status.State)
}

func TestBeginHold_UnknownType(t *testing.T) {
	trigger, _, _ := newTestTrigger(t)
	actor := testStudent()

	_, err := trigger.BeginHold(context.Background(), actor, "earthquake", grantedLocation())

	require.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "idle", trigger.Hold(actor.ID).State)
}

func TestBeginHold_ReleaseBeforeExpiry(t *testing.T) {
	// Подготовка
	trigger, _, _ := newTestTrigger(t)
	actor := testStudent()

	// Действие: начинаем удержание и отпускаем до истечения отсчёта
	status, err := trigger.BeginHold(context.Background(), actor, "general", grantedLocation())
	require.NoError(t, err)
	assert.Equal(t, "counting", status.State)
	assert.Equal(t, service.DefaultHoldSeconds, status.RemainingSeconds)

	time.Sleep(2 * testTick)
	released := trigger.Release(actor.ID)

	// Проверки: отмена синхронна, инцидент не создан (Create без ожиданий)
	assert.Equal(t, "idle", released.State)
	time.Sleep(service.DefaultHoldSeconds * testTick * 2)
	final := trigger.Hold(actor.ID)
	assert.Equal(t, "idle", final.State)
	assert.Nil(t, final.IncidentID)
}

func TestBeginHold_NaturalExpiry_CreatesExactlyOneIncident(t *testing.T) {
	// Подготовка
	trigger, storeMock, publisherMock := newTestTrigger(t)
	actor := testStudent()
	incidentID := uuid.New()

	var captured *models.IncidentDraft
	storeMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, draft *models.IncidentDraft) (*models.Incident, error) {
			captured = draft
			return &models.Incident{
				ID:         incidentID,
				ReporterID: draft.ReporterID,
				Type:       draft.Type,
				Priority:   draft.Priority,
				Status:     models.StatusActive,
				Location:   draft.Location,
			}, nil
		}).
		Times(1)
	publisherMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	// Действие: удержание без отпускания до конца отсчёта
	_, err := trigger.BeginHold(context.Background(), actor, "medical", grantedLocation())
	require.NoError(t, err)

	// Проверки: ровно один инцидент, контроллер снова в idle
	require.Eventually(t, func() bool {
		status := trigger.Hold(actor.ID)
		return status.State == "idle" && status.IncidentID != nil
	}, time.Second, testTick)

	assert.Equal(t, incidentID, *trigger.Hold(actor.ID).IncidentID)
	require.NotNil(t, captured)
	assert.Equal(t, models.TypeMedical, captured.Type)
	assert.Equal(t, models.PriorityHigh, captured.Priority) // По классификации medical
	assert.Equal(t, actor.ID, captured.ReporterID)
	require.NotNil(t, captured.Location)
	assert.InDelta(t, 55.75, captured.Location.Latitude, 1e-9)
}

func TestBeginHold_DoubleHold_SingleCountdown(t *testing.T) {
	// Подготовка
	trigger, storeMock, publisherMock := newTestTrigger(t)
	actor := testStudent()

	storeMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&models.Incident{ID: uuid.New(), Status: models.StatusActive}, nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	// Действие: два вызова BeginHold подряд
	first, err := trigger.BeginHold(context.Background(), actor, "fire", grantedLocation())
	require.NoError(t, err)
	second, err := trigger.BeginHold(context.Background(), actor, "fire", grantedLocation())
	require.NoError(t, err)

	// Проверки: второй вызов — no-op, отсчёт один, инцидент один (Times(1))
	assert.Equal(t, "counting", first.State)
	assert.Equal(t, "counting", second.State)

	require.Eventually(t, func() bool {
		return trigger.Hold(actor.ID).State == "idle"
	}, time.Second, testTick)
}

func TestBeginHold_StoreFailure_SurfacedWithoutRetry(t *testing.T) {
	// Подготовка: хранилище недоступно
	trigger, storeMock, _ := newTestTrigger(t)
	actor := testStudent()

	storeMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, models.ErrStoreUnavailable).
		Times(1)

	// Действие
	_, err := trigger.BeginHold(context.Background(), actor, "security", grantedLocation())
	require.NoError(t, err)

	// Проверки: ошибка всплыла, автоматического ретрая нет (Create Times(1)),
	// контроллер вернулся в idle и готов к повторному удержанию
	require.Eventually(t, func() bool {
		status := trigger.Hold(actor.ID)
		return status.State == "idle" && status.FailureReason != ""
	}, time.Second, testTick)
	assert.Nil(t, trigger.Hold(actor.ID).IncidentID)
}

func TestHold_StaleFireDoesNotOverwriteNewerHold(t *testing.T) {
	// Подготовка: создание инцидента первого удержания подвисает в хранилище,
	// пока действующее лицо успевает начать и отпустить новое удержание
	trigger, storeMock, publisherMock := newTestTrigger(t)
	actor := testStudent()

	createEntered := make(chan struct{})
	createRelease := make(chan struct{})
	recorded := make(chan struct{})

	storeMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, draft *models.IncidentDraft) (*models.Incident, error) {
			close(createEntered)
			<-createRelease
			return &models.Incident{ID: uuid.New(), ReporterID: draft.ReporterID, Status: models.StatusActive}, nil
		}).
		Times(1)
	publisherMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, webhook.IncidentEvent) error {
			close(recorded)
			return nil
		}).
		Times(1)

	_, err := trigger.BeginHold(context.Background(), actor, "general", grantedLocation())
	require.NoError(t, err)

	select {
	case <-createEntered:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the first hold to fire")
	}

	// Действие: пока первый инцидент ещё сохраняется, начинается и отменяется
	// новое удержание
	_, err = trigger.BeginHold(context.Background(), actor, "general", grantedLocation())
	require.NoError(t, err)
	trigger.Release(actor.ID)

	close(createRelease)
	select {
	case <-recorded:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the first fire to finish")
	}

	// Проверки: исход устаревшего удержания отброшен — последнее удержание
	// было отменено, и его состояние остаётся чистым idle
	final := trigger.Hold(actor.ID)
	assert.Equal(t, "idle", final.State)
	assert.Nil(t, final.IncidentID)
	assert.Empty(t, final.FailureReason)
}

func TestHold_IndependentPerActor(t *testing.T) {
	// Подготовка: два студента держат кнопку одновременно
	trigger, storeMock, publisherMock := newTestTrigger(t)
	first := testStudent()
	second := testStudent()

	storeMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&models.Incident{ID: uuid.New(), Status: models.StatusActive}, nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	_, err := trigger.BeginHold(context.Background(), first, "general", grantedLocation())
	require.NoError(t, err)
	_, err = trigger.BeginHold(context.Background(), second, "general", grantedLocation())
	require.NoError(t, err)

	// Действие: первый отпускает, второй держит до конца
	trigger.Release(first.ID)

	// Проверки: создан ровно один инцидент — второго студента
	require.Eventually(t, func() bool {
		return trigger.Hold(second.ID).State == "idle" && trigger.Hold(second.ID).IncidentID != nil
	}, time.Second, testTick)
	assert.Nil(t, trigger.Hold(first.ID).IncidentID)
}
