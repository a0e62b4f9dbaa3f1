package dto

import "time"

type PilotStudyResponse struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	IsActive                 bool      `json:"is_active"`
	Start                    string    `json:"start"`
	End                      string    `json:"end"`
	TotalHealthProfessionals int       `json:"total_health_professionals"`
	TotalPatients            int       `json:"total_patients"`
	HealthProfessionalsID    []string  `json:"health_professionals_id"`
	PatientsID               []string  `json:"patients_id"`
	Location                 string    `json:"location,omitempty"`
	DataTypes                []string  `json:"data_types"`
	CreatedAt                time.Time `json:"created_at"`
}
