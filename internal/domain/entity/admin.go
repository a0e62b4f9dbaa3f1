package entity

type Admin struct {
	User

	// Dashboard counts, derived on read.
	TotalAdmins              int64 `gorm:"-" json:"total_admins"`
	TotalHealthProfessionals int64 `gorm:"-" json:"total_health_professionals"`
	TotalPatients            int64 `gorm:"-" json:"total_patients"`
	TotalPilotStudies        int64 `gorm:"-" json:"total_pilot_studies"`
}

func NewAdmin() *Admin {
	return &Admin{User: User{Type: UserTypeAdmin}}
}

func (Admin) TableName() string {
	return "users"
}

func (a *Admin) FromJSON(v any) error {
	return a.User.FromJSON(v)
}
