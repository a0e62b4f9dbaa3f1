package dto

import "time"

// Response DTOs

type UserResponse struct {
	ID                 string     `json:"id"`
	Type               string     `json:"type"`
	Scopes             []string   `json:"scopes"`
	Email              string     `json:"email"`
	BirthDate          string     `json:"birth_date"`
	PhoneNumber        string     `json:"phone_number,omitempty"`
	SelectedPilotStudy string     `json:"selected_pilot_study,omitempty"`
	Language           string     `json:"language,omitempty"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type HealthProfessionalResponse struct {
	UserResponse
	HealthArea        string `json:"health_area"`
	TotalPilotStudies int64  `json:"total_pilot_studies"`
	TotalPatients     int64  `json:"total_patients"`
}

type PatientResponse struct {
	UserResponse
	Name         string               `json:"name"`
	Gender       string               `json:"gender"`
	PilotStudies []PilotStudyResponse `json:"pilot_studies,omitempty"`
}

type AdminResponse struct {
	UserResponse
	TotalAdmins              int64 `json:"total_admins"`
	TotalHealthProfessionals int64 `json:"total_health_professionals"`
	TotalPatients            int64 `json:"total_patients"`
	TotalPilotStudies        int64 `json:"total_pilot_studies"`
}

// Request DTOs

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
