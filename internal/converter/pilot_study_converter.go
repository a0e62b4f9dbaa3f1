package converter

import (
	"time"

	"account-service/internal/delivery/dto"
	"account-service/internal/domain/entity"
	"account-service/internal/validation/field"
)

// PilotStudyToResponse converts a PilotStudy entity to its response DTO.
// Membership and data type lists are always arrays.
func PilotStudyToResponse(ps *entity.PilotStudy) *dto.PilotStudyResponse {
	if ps == nil {
		return nil
	}

	res := &dto.PilotStudyResponse{
		ID:                       ps.ID,
		Name:                     ps.Name,
		Start:                    formatDatetime(ps.Start),
		End:                      formatDatetime(ps.End),
		TotalHealthProfessionals: ps.TotalHealthProfessionals,
		TotalPatients:            ps.TotalPatients,
		HealthProfessionalsID:    ps.HealthProfessionalsID(),
		PatientsID:               ps.PatientsID(),
		Location:                 ps.Location,
		DataTypes:                []string{},
		CreatedAt:                ps.CreatedAt,
	}
	if ps.IsActive != nil {
		res.IsActive = *ps.IsActive
	}
	if ps.DataTypes != nil {
		res.DataTypes = ps.DataTypes
	}
	return res
}

func PilotStudiesToResponses(studies []entity.PilotStudy) []dto.PilotStudyResponse {
	responses := make([]dto.PilotStudyResponse, len(studies))
	for i := range studies {
		responses[i] = *PilotStudyToResponse(&studies[i])
	}
	return responses
}

func formatDatetime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(field.ISODatetime)
}
