package v1

import (
	"github.com/shenikar/campus_safety_system/internal/models"
	"github.com/shenikar/campus_safety_system/internal/service"
)

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	resp := &IncidentResponse{
		ID:           model.ID,
		ReporterID:   model.ReporterID,
		ReporterName: model.ReporterName,
		Type:         string(model.Type),
		Priority:     string(model.Priority),
		Status:       string(model.Status),
		Description:  model.Description,
		Address:      model.Address,
		AssignedTo:   model.AssignedTo,
		DangerRank:   model.DangerRank(),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	if model.Location != nil {
		resp.Latitude = &model.Location.Latitude
		resp.Longitude = &model.Location.Longitude
	}
	return resp
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// HoldStatusToResponse преобразует состояние удержания в DTO
func HoldStatusToResponse(status service.HoldStatus) *HoldStatusResponse {
	return &HoldStatusResponse{
		State:            status.State,
		RemainingSeconds: status.RemainingSeconds,
		IncidentID:       status.IncidentID,
		FailureReason:    status.FailureReason,
	}
}

// MapPointsToResponses преобразует точки карты в DTO
func MapPointsToResponses(points []service.MapPoint) []*MapPointResponse {
	responses := make([]*MapPointResponse, len(points))
	for i, point := range points {
		responses[i] = &MapPointResponse{
			Latitude:  point.Latitude,
			Longitude: point.Longitude,
			Label:     point.Label,
		}
	}
	return responses
}

// ModelToReportResponse преобразует жалобу в DTO. Имя заявителя анонимной
// жалобы наружу не отдается.
func ModelToReportResponse(model *models.Report) *ReportResponse {
	name := model.ReporterName
	if model.Anonymous {
		name = ""
	}
	return &ReportResponse{
		ID:           model.ID,
		ReporterName: name,
		Anonymous:    model.Anonymous,
		Category:     model.Category,
		Description:  model.Description,
		Address:      model.Address,
		Status:       string(model.Status),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// ModelsToReportResponses преобразует слайс жалоб в слайс DTO
func ModelsToReportResponses(models []*models.Report) []*ReportResponse {
	responses := make([]*ReportResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToReportResponse(model)
	}
	return responses
}
