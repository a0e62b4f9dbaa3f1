package entity

type HealthArea string

const (
	HealthAreaNutrition     HealthArea = "nutrition"
	HealthAreaDentistry     HealthArea = "dentistry"
	HealthAreaNursing       HealthArea = "nursing"
	HealthAreaEndocrinology HealthArea = "endocrinology"
	HealthAreaOther         HealthArea = "other"
)

func HealthAreas() []string {
	return []string{
		string(HealthAreaNutrition),
		string(HealthAreaDentistry),
		string(HealthAreaNursing),
		string(HealthAreaEndocrinology),
		string(HealthAreaOther),
	}
}

type HealthProfessional struct {
	User
	HealthArea HealthArea `gorm:"type:varchar(32)" json:"health_area,omitempty"`

	// Derived on read, never persisted.
	TotalPilotStudies int64 `gorm:"-" json:"total_pilot_studies"`
	TotalPatients     int64 `gorm:"-" json:"total_patients"`
}

func NewHealthProfessional() *HealthProfessional {
	return &HealthProfessional{User: User{Type: UserTypeHealthProfessional}}
}

func (HealthProfessional) TableName() string {
	return "users"
}

func (h *HealthProfessional) FromJSON(v any) error {
	raw, id, err := jsonInput(v)
	if err != nil || raw == nil {
		if id != "" {
			h.ID = id
		}
		return err
	}
	var in struct {
		userJSON
		HealthArea *string `json:"health_area"`
	}
	if err := unmarshal(raw, &in); err != nil {
		return err
	}
	in.applyTo(&h.User)
	if in.HealthArea != nil {
		h.HealthArea = HealthArea(*in.HealthArea)
	}
	return nil
}
