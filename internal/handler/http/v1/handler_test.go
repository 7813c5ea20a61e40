package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/campus_safety_system/internal/config"
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/service"
	"github.com/shenikar/campus_safety_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testAPIKey = "test-api-key"

type testEnv struct {
	router       *gin.Engine
	trigger      *mocks.MockSOSTrigger
	orchestrator *mocks.MockIncidentOrchestrator
	views        *mocks.MockIncidentViews
	reports      *mocks.MockReportService
	staff        *mocks.MockStaffDirectory
}

// newTestEnv — вспомогательная функция: собирает роутер с моками всех сервисов
func newTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	env := &testEnv{
		trigger:      mocks.NewMockSOSTrigger(ctrl),
		orchestrator: mocks.NewMockIncidentOrchestrator(ctrl),
		views:        mocks.NewMockIncidentViews(ctrl),
		reports:      mocks.NewMockReportService(ctrl),
		staff:        mocks.NewMockStaffDirectory(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{APIKeys: []string{testAPIKey}}
	handler := NewHandler(env.trigger, env.orchestrator, env.views, env.reports, logger, cfg)

	env.router = gin.New()
	handler.RegisterRoutes(env.router.Group("/api/v1"), env.staff)
	return env
}

// makeRequest выполняет запрос к тестовому роутеру с заголовками действующего лица
func (e *testEnv) makeRequest(t *testing.T, method, path string, body any, actor *models.Actor) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	if actor != nil {
		req.Header.Set("X-Actor-Id", actor.ID.String())
		req.Header.Set("X-Actor-Name", actor.Name)
		req.Header.Set("X-Actor-Role", string(actor.Role))
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

// expectStaffVerification настраивает справочник персонала на подтверждение роли
func (e *testEnv) expectStaffVerification(actor models.Actor) {
	verified := actor
	e.staff.EXPECT().GetStaff(gomock.Any(), actor.ID).Return(&verified, nil).AnyTimes()
}

func studentActor() models.Actor {
	return models.Actor{ID: uuid.New(), Name: "Test Student", Role: models.RoleStudent}
}

func adminActor() models.Actor {
	return models.Actor{ID: uuid.New(), Name: "Test Admin", Role: models.RoleAdmin}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	// Health-check доступен без API-ключа и заголовков действующего лица
	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/health", nil)
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestAuth_MissingAPIKey(t *testing.T) {
	env := newTestEnv(t)
	actor := studentActor()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents", nil)
	req.Header.Set("X-Actor-Id", actor.ID.String())
	req.Header.Set("X-Actor-Role", string(actor.Role))
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuth_BearerTokenAccepted(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	actor := studentActor()
	env.views.EXPECT().List(gomock.Any(), actor, false).Return(nil, nil)

	// Действие: ключ передан через Authorization: Bearer вместо X-API-Key
	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("X-Actor-Id", actor.ID.String())
	req.Header.Set("X-Actor-Name", actor.Name)
	req.Header.Set("X-Actor-Role", string(actor.Role))
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	// Проверки
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAuth_StaffClaimRejected(t *testing.T) {
	// Подготовка: действующее лицо объявляет себя админом, но справочник
	// персонала такой записи не знает
	env := newTestEnv(t)
	actor := adminActor()
	env.staff.EXPECT().GetStaff(gomock.Any(), actor.ID).Return(nil, models.ErrNotFound)

	// Действие
	recorder := env.makeRequest(t, http.MethodGet, "/api/v1/incidents", nil, &actor)

	// Проверки
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestBeginHold_Accepted(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	actor := studentActor()
	lat, lon := 55.75, 37.62

	env.trigger.EXPECT().
		BeginHold(gomock.Any(), actor, "medical", service.ClientLocation{
			PermissionGranted: true,
			Point:             &models.GeoPoint{Latitude: lat, Longitude: lon},
			Address:           "Library",
		}).
		Return(service.HoldStatus{State: "counting", RemainingSeconds: 5}, nil)

	// Действие
	recorder := env.makeRequest(t, http.MethodPost, "/api/v1/sos/hold", BeginHoldRequest{
		Type:               "medical",
		LocationPermission: true,
		Latitude:           &lat,
		Longitude:          &lon,
		Address:            "Library",
	}, &actor)

	// Проверки
	assert.Equal(t, http.StatusAccepted, recorder.Code)

	var response HoldStatusResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "counting", response.State)
	assert.Equal(t, 5, response.RemainingSeconds)
}

func TestBeginHold_PermissionDenied(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	actor := studentActor()

	env.trigger.EXPECT().
		BeginHold(gomock.Any(), actor, "general", gomock.Any()).
		Return(service.HoldStatus{State: "idle"}, fmt.Errorf("trigger: location permission required: %w", models.ErrPermissionDenied))

	// Действие
	recorder := env.makeRequest(t, http.MethodPost, "/api/v1/sos/hold", BeginHoldRequest{
		Type:               "general",
		LocationPermission: false,
	}, &actor)

	// Проверки
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestBeginHold_InvalidBody(t *testing.T) {
	env := newTestEnv(t)
	actor := studentActor()

	// Тип обязателен: пустое тело отклоняется до вызова триггера
	recorder := env.makeRequest(t, http.MethodPost, "/api/v1/sos/hold", map[string]any{}, &actor)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestReleaseHold(t *testing.T) {
	env := newTestEnv(t)
	actor := studentActor()

	env.trigger.EXPECT().Release(actor.ID).Return(service.HoldStatus{State: "idle"})

	recorder := env.makeRequest(t, http.MethodDelete, "/api/v1/sos/hold", nil, &actor)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestListIncidents_BroadView(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	actor := studentActor()
	incident := &models.Incident{
		ID:       uuid.New(),
		Type:     models.TypeFire,
		Priority: models.PriorityCritical,
		Status:   models.StatusActive,
	}

	env.views.EXPECT().List(gomock.Any(), actor, true).Return([]*models.Incident{incident}, nil)

	// Действие
	recorder := env.makeRequest(t, http.MethodGet, "/api/v1/incidents?view=broad", nil, &actor)

	// Проверки
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response []IncidentResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, incident.ID, response[0].ID)
	assert.Equal(t, "fire", response[0].Type)
}

func TestGetIncident_NotFound(t *testing.T) {
	env := newTestEnv(t)
	actor := studentActor()
	id := uuid.New()

	env.views.EXPECT().
		Get(gomock.Any(), actor, id).
		Return(nil, fmt.Errorf("views: %w", models.ErrNotFound))

	recorder := env.makeRequest(t, http.MethodGet, "/api/v1/incidents/"+id.String(), nil, &actor)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetIncident_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	actor := studentActor()

	recorder := env.makeRequest(t, http.MethodGet, "/api/v1/incidents/not-a-uuid", nil, &actor)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAssignIncident_Success(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	actor := adminActor()
	env.expectStaffVerification(actor)

	incidentID := uuid.New()
	assigneeID := uuid.New()
	assigned := &models.Incident{
		ID:         incidentID,
		Status:     models.StatusAssigned,
		AssignedTo: &assigneeID,
	}

	env.orchestrator.EXPECT().
		Assign(gomock.Any(), actor, incidentID, assigneeID).
		Return(assigned, nil)

	// Действие
	recorder := env.makeRequest(t, http.MethodPost, "/api/v1/incidents/"+incidentID.String()+"/assign",
		AssignIncidentRequest{AssigneeID: assigneeID.String()}, &actor)

	// Проверки
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response IncidentResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "assigned", response.Status)
	require.NotNil(t, response.AssignedTo)
	assert.Equal(t, assigneeID, *response.AssignedTo)
}

func TestAssignIncident_Conflict(t *testing.T) {
	// Подготовка: переход из resolved запрещён, оркестратор отвечает конфликтом
	env := newTestEnv(t)
	actor := adminActor()
	env.expectStaffVerification(actor)
	incidentID := uuid.New()

	env.orchestrator.EXPECT().
		Assign(gomock.Any(), actor, incidentID, gomock.Any()).
		Return(nil, fmt.Errorf("orchestrator: %w", models.ErrInvalidTransition))

	// Действие
	recorder := env.makeRequest(t, http.MethodPost, "/api/v1/incidents/"+incidentID.String()+"/assign",
		AssignIncidentRequest{AssigneeID: uuid.New().String()}, &actor)

	// Проверки
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestResolveIncident_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	actor := studentActor()
	incidentID := uuid.New()

	env.orchestrator.EXPECT().
		Resolve(gomock.Any(), actor, incidentID).
		Return(nil, fmt.Errorf("orchestrator: %w", models.ErrStoreUnavailable))

	recorder := env.makeRequest(t, http.MethodPost, "/api/v1/incidents/"+incidentID.String()+"/resolve", nil, &actor)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestReprioritizeIncident_Success(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	actor := adminActor()
	env.expectStaffVerification(actor)
	incidentID := uuid.New()

	env.orchestrator.EXPECT().
		Reprioritize(gomock.Any(), actor, incidentID, models.PriorityCritical).
		Return(&models.Incident{ID: incidentID, Priority: models.PriorityCritical, Status: models.StatusActive}, nil)

	// Действие
	recorder := env.makeRequest(t, http.MethodPatch, "/api/v1/incidents/"+incidentID.String()+"/priority",
		ReprioritizeIncidentRequest{Priority: "critical"}, &actor)

	// Проверки
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestReprioritizeIncident_UnknownPriority(t *testing.T) {
	env := newTestEnv(t)
	actor := adminActor()
	env.expectStaffVerification(actor)

	// Приоритет вне enum отклоняется валидатором до вызова оркестратора
	recorder := env.makeRequest(t, http.MethodPatch, "/api/v1/incidents/"+uuid.New().String()+"/priority",
		ReprioritizeIncidentRequest{Priority: "urgent"}, &actor)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestIncidentMapPoints(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	actor := studentActor()

	env.views.EXPECT().
		MapPoints(gomock.Any(), actor).
		Return([]service.MapPoint{{Latitude: 55.75, Longitude: 37.62, Label: "fire (critical)"}}, nil)

	// Действие
	recorder := env.makeRequest(t, http.MethodGet, "/api/v1/incidents/map-points", nil, &actor)

	// Проверки
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response []MapPointResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "fire (critical)", response[0].Label)
}

func TestCreateReport_Created(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	actor := studentActor()

	env.reports.EXPECT().
		CreateReport(gomock.Any(), actor, "lighting", "Broken lamp", "Dorm 2", true).
		Return(&models.Report{
			ID:         uuid.New(),
			ReporterID: actor.ID,
			Anonymous:  true,
			Category:   "lighting",
			Status:     models.ReportOpen,
		}, nil)

	// Действие
	recorder := env.makeRequest(t, http.MethodPost, "/api/v1/reports", CreateReportRequest{
		Category:    "lighting",
		Description: "Broken lamp",
		Address:     "Dorm 2",
		Anonymous:   true,
	}, &actor)

	// Проверки: анонимная жалоба не раскрывает имя заявителя
	assert.Equal(t, http.StatusCreated, recorder.Code)

	var response ReportResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.True(t, response.Anonymous)
	assert.Empty(t, response.ReporterName)
	assert.Equal(t, "open", response.Status)
}

func TestUpdateReportStatus_Success(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	actor := adminActor()
	env.expectStaffVerification(actor)
	reportID := uuid.New()

	env.reports.EXPECT().
		SetReportStatus(gomock.Any(), actor, reportID, "closed").
		Return(&models.Report{ID: reportID, Status: models.ReportClosed}, nil)

	// Действие
	recorder := env.makeRequest(t, http.MethodPatch, "/api/v1/reports/"+reportID.String()+"/status",
		UpdateReportStatusRequest{Status: "closed"}, &actor)

	// Проверки
	assert.Equal(t, http.StatusOK, recorder.Code)
}
