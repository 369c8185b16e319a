package v1

import "github.com/doanhtu07/web-slinger-dispatch/internal/models"

// DTOToIncidentModel converts a confirmed submission into the domain model.
func DTOToIncidentModel(dto CreateIncidentRequest) *models.ReportDraft {
	return &models.ReportDraft{
		IncidentType: models.IncidentType(dto.IncidentType),
		Description:  dto.Description,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
		LocationName: dto.LocationName,
	}
}

// DraftToResponse converts a pipeline draft into its response DTO.
func DraftToResponse(draft *models.ReportDraft) *ReportDraftResponse {
	return &ReportDraftResponse{
		IncidentType:  string(draft.IncidentType),
		Description:   draft.Description,
		Severity:      string(draft.Severity),
		Latitude:      draft.Latitude,
		Longitude:     draft.Longitude,
		LocationName:  draft.LocationName,
		Confidence:    draft.Confidence,
		LowConfidence: draft.LowConfidence,
	}
}

// ModelToIncidentResponse converts the domain model into the response DTO.
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:           model.ID,
		IncidentType: string(model.IncidentType),
		Description:  model.Description,
		Latitude:     model.Latitude,
		Longitude:    model.Longitude,
		LocationName: model.LocationName,
		Status:       string(model.Status),
		ReporterName: model.ReporterName,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// ModelsToIncidentResponses converts a slice of models into response DTOs.
func ModelsToIncidentResponses(incidents []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(incidents))
	for i, model := range incidents {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// PointToResponse converts a monitored point into its response DTO.
func PointToResponse(p models.MonitoredPoint) *MonitoredPointResponse {
	return &MonitoredPointResponse{
		Key:       p.Key,
		Kind:      string(p.Kind),
		Label:     p.Label,
		Latitude:  p.Location.Lat,
		Longitude: p.Location.Lng,
	}
}

// PointsToResponses converts a slice of monitored points into DTOs.
func PointsToResponses(points []models.MonitoredPoint) []*MonitoredPointResponse {
	responses := make([]*MonitoredPointResponse, len(points))
	for i, p := range points {
		responses[i] = PointToResponse(p)
	}
	return responses
}
