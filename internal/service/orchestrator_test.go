package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/service"
	"github.com/shenikar/campus_safety_system/internal/service/mocks"
	webhook_mocks "github.com/shenikar/campus_safety_system/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestOrchestrator — вспомогательная функция для создания оркестратора с моками
func newTestOrchestrator(t *testing.T) (service.IncidentOrchestrator, *mocks.MockIncidentStore, *mocks.MockStaffDirectory, *webhook_mocks.MockEventPublisher) {
	ctrl := gomock.NewController(t)
	storeMock := mocks.NewMockIncidentStore(ctrl)
	staffMock := mocks.NewMockStaffDirectory(ctrl)
	publisherMock := webhook_mocks.NewMockEventPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	orchestrator := service.NewIncidentOrchestrator(storeMock, staffMock, logger, publisherMock)
	return orchestrator, storeMock, staffMock, publisherMock
}

func testFaculty() models.Actor {
	return models.Actor{ID: uuid.New(), Name: "Test Faculty", Role: models.RoleFaculty}
}

func testAdmin() models.Actor {
	return models.Actor{ID: uuid.New(), Name: "Test Admin", Role: models.RoleAdmin}
}

func activeIncident(reporterID uuid.UUID) *models.Incident {
	return &models.Incident{
		ID:         uuid.New(),
		ReporterID: reporterID,
		Type:       models.TypeSecurity,
		Priority:   models.PriorityHigh,
		Status:     models.StatusActive,
	}
}

func TestAssign_Success(t *testing.T) {
	// Подготовка
	orchestrator, storeMock, staffMock, publisherMock := newTestOrchestrator(t)
	actor := testAdmin()
	assignee := testFaculty()
	incident := activeIncident(uuid.New())

	// Ожидания
	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)
	staffMock.EXPECT().GetStaff(gomock.Any(), assignee.ID).Return(&assignee, nil)
	storeMock.EXPECT().
		Update(gomock.Any(), incident.ID, service.StatusTransition{
			From:       models.StatusActive,
			To:         models.StatusAssigned,
			AssignedTo: &assignee.ID,
		}).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, tr service.StatusTransition) (*models.Incident, error) {
			updated := *incident
			updated.Status = tr.To
			updated.AssignedTo = tr.AssignedTo
			return &updated, nil
		})
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	// Действие
	updated, err := orchestrator.Assign(context.Background(), actor, incident.ID, assignee.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, assignee.ID, *updated.AssignedTo)
}

func TestAssign_ByStudent_Rejected(t *testing.T) {
	// Подготовка: студентам переход active -> assigned недоступен;
	// хранилище не должно вызываться вовсе
	orchestrator, _, _, _ := newTestOrchestrator(t)
	actor := testStudent()

	// Действие
	_, err := orchestrator.Assign(context.Background(), actor, uuid.New(), uuid.New())

	// Проверки
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestAssign_NonActiveIncident_Rejected(t *testing.T) {
	// Подготовка
	orchestrator, storeMock, _, _ := newTestOrchestrator(t)
	actor := testFaculty()
	incident := activeIncident(uuid.New())
	incident.Status = models.StatusAssigned

	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)

	// Действие
	_, err := orchestrator.Assign(context.Background(), actor, incident.ID, uuid.New())

	// Проверки: Update не вызывался (без ожиданий)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestAssign_UnknownAssignee_Rejected(t *testing.T) {
	// Подготовка: назначаемый не найден в реестре персонала
	orchestrator, storeMock, staffMock, _ := newTestOrchestrator(t)
	actor := testAdmin()
	incident := activeIncident(uuid.New())
	assigneeID := uuid.New()

	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)
	staffMock.EXPECT().GetStaff(gomock.Any(), assigneeID).Return(nil, models.ErrNotFound)

	// Действие
	_, err := orchestrator.Assign(context.Background(), actor, incident.ID, assigneeID)

	// Проверки
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestResolve_ActiveByReporter(t *testing.T) {
	// Подготовка: заявитель-студент закрывает собственный активный инцидент
	orchestrator, storeMock, _, publisherMock := newTestOrchestrator(t)
	actor := testStudent()
	incident := activeIncident(actor.ID)

	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)
	storeMock.EXPECT().
		Update(gomock.Any(), incident.ID, service.StatusTransition{
			From: models.StatusActive,
			To:   models.StatusResolved,
		}).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, tr service.StatusTransition) (*models.Incident, error) {
			updated := *incident
			updated.Status = tr.To
			return &updated, nil
		})
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	// Действие
	updated, err := orchestrator.Resolve(context.Background(), actor, incident.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)
}

func TestResolve_ActiveByOtherStudent_Rejected(t *testing.T) {
	// Подготовка: чужой активный инцидент студенту закрывать нельзя
	orchestrator, storeMock, _, _ := newTestOrchestrator(t)
	actor := testStudent()
	incident := activeIncident(uuid.New())

	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)

	// Действие
	_, err := orchestrator.Resolve(context.Background(), actor, incident.ID)

	// Проверки
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestResolve_AssignedByNonAssignedStaff(t *testing.T) {
	// Подготовка: закрыть назначенный инцидент может любой сотрудник,
	// не только назначенный; назначенный сохраняется для аудита
	orchestrator, storeMock, _, publisherMock := newTestOrchestrator(t)
	actor := testFaculty()
	assigneeID := uuid.New()
	incident := activeIncident(uuid.New())
	incident.Status = models.StatusAssigned
	incident.AssignedTo = &assigneeID

	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)
	storeMock.EXPECT().
		Update(gomock.Any(), incident.ID, service.StatusTransition{
			From:       models.StatusAssigned,
			To:         models.StatusResolved,
			AssignedTo: &assigneeID,
		}).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, tr service.StatusTransition) (*models.Incident, error) {
			updated := *incident
			updated.Status = tr.To
			return &updated, nil
		})
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	// Действие
	updated, err := orchestrator.Resolve(context.Background(), actor, incident.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, assigneeID, *updated.AssignedTo)
}

func TestResolve_AssignedByStudent_Rejected(t *testing.T) {
	// Подготовка: назначенный инцидент студенту закрывать нельзя,
	// даже если он его заявитель
	orchestrator, storeMock, _, _ := newTestOrchestrator(t)
	actor := testStudent()
	incident := activeIncident(actor.ID)
	incident.Status = models.StatusAssigned

	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)

	// Действие
	_, err := orchestrator.Resolve(context.Background(), actor, incident.ID)

	// Проверки
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestResolve_AlreadyResolved_Rejected(t *testing.T) {
	// Подготовка: resolved — терминальный статус, переходов из него нет
	orchestrator, storeMock, _, _ := newTestOrchestrator(t)
	actor := testAdmin()
	incident := activeIncident(uuid.New())
	incident.Status = models.StatusResolved

	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)

	// Действие
	_, err := orchestrator.Resolve(context.Background(), actor, incident.ID)

	// Проверки
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestReprioritize_Success(t *testing.T) {
	// Подготовка
	orchestrator, storeMock, _, _ := newTestOrchestrator(t)
	actor := testFaculty()
	incident := activeIncident(uuid.New())

	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)
	storeMock.EXPECT().
		SetPriority(gomock.Any(), incident.ID, models.PriorityCritical).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, priority models.IncidentPriority) (*models.Incident, error) {
			updated := *incident
			updated.Priority = priority
			return &updated, nil
		})

	// Действие
	updated, err := orchestrator.Reprioritize(context.Background(), actor, incident.ID, models.PriorityCritical)

	// Проверки: приоритет изменён, статус остался прежним
	require.NoError(t, err)
	assert.Equal(t, models.PriorityCritical, updated.Priority)
	assert.Equal(t, models.StatusActive, updated.Status)
}

func TestReprioritize_ByStudent_Rejected(t *testing.T) {
	orchestrator, _, _, _ := newTestOrchestrator(t)
	actor := testStudent()

	_, err := orchestrator.Reprioritize(context.Background(), actor, uuid.New(), models.PriorityHigh)

	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestReprioritize_Resolved_Rejected(t *testing.T) {
	orchestrator, storeMock, _, _ := newTestOrchestrator(t)
	actor := testAdmin()
	incident := activeIncident(uuid.New())
	incident.Status = models.StatusResolved

	storeMock.EXPECT().GetByID(gomock.Any(), incident.ID).Return(incident, nil)

	_, err := orchestrator.Reprioritize(context.Background(), actor, incident.ID, models.PriorityNormal)

	require.ErrorIs(t, err, models.ErrInvalidTransition)
}
