package converter

import (
	"account-service/internal/delivery/dto"
	"account-service/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO. The password is
// never copied.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:                 user.ID,
		Type:               string(user.Type),
		Scopes:             user.Scopes(),
		Email:              user.Email,
		BirthDate:          user.BirthDate,
		PhoneNumber:        user.PhoneNumber,
		SelectedPilotStudy: user.SelectedPilotStudy,
		Language:           user.Language,
		LastLogin:          user.LastLogin,
		CreatedAt:          user.CreatedAt,
	}
}

func HealthProfessionalToResponse(hp *entity.HealthProfessional) *dto.HealthProfessionalResponse {
	if hp == nil {
		return nil
	}

	return &dto.HealthProfessionalResponse{
		UserResponse:      *UserToResponse(&hp.User),
		HealthArea:        string(hp.HealthArea),
		TotalPilotStudies: hp.TotalPilotStudies,
		TotalPatients:     hp.TotalPatients,
	}
}

func HealthProfessionalsToResponses(hps []entity.HealthProfessional) []dto.HealthProfessionalResponse {
	responses := make([]dto.HealthProfessionalResponse, len(hps))
	for i := range hps {
		responses[i] = *HealthProfessionalToResponse(&hps[i])
	}
	return responses
}

func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	res := &dto.PatientResponse{
		UserResponse: *UserToResponse(&patient.User),
		Name:         patient.Name,
		Gender:       string(patient.Gender),
	}
	if patient.PilotStudies != nil {
		res.PilotStudies = PilotStudiesToResponses(patient.PilotStudies)
	}
	return res
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

func AdminToResponse(admin *entity.Admin) *dto.AdminResponse {
	if admin == nil {
		return nil
	}

	return &dto.AdminResponse{
		UserResponse:             *UserToResponse(&admin.User),
		TotalAdmins:              admin.TotalAdmins,
		TotalHealthProfessionals: admin.TotalHealthProfessionals,
		TotalPatients:            admin.TotalPatients,
		TotalPilotStudies:        admin.TotalPilotStudies,
	}
}

func AdminsToResponses(admins []entity.Admin) []dto.AdminResponse {
	responses := make([]dto.AdminResponse, len(admins))
	for i := range admins {
		responses[i] = *AdminToResponse(&admins[i])
	}
	return responses
}
