package entity

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func Genders() []string {
	return []string{string(GenderMale), string(GenderFemale)}
}

type Patient struct {
	User
	Name   string `gorm:"type:varchar(255)" json:"name,omitempty"`
	Gender Gender `gorm:"type:varchar(16)" json:"gender,omitempty"`

	// Populated on demand.
	PilotStudies []PilotStudy `gorm:"-" json:"pilot_studies,omitempty"`
}

func NewPatient() *Patient {
	return &Patient{User: User{Type: UserTypePatient}}
}

func (Patient) TableName() string {
	return "users"
}

func (p *Patient) FromJSON(v any) error {
	raw, id, err := jsonInput(v)
	if err != nil || raw == nil {
		if id != "" {
			p.ID = id
		}
		return err
	}
	var in struct {
		userJSON
		Name   *string `json:"name"`
		Gender *string `json:"gender"`
	}
	if err := unmarshal(raw, &in); err != nil {
		return err
	}
	in.applyTo(&p.User)
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Gender != nil {
		p.Gender = Gender(*in.Gender)
	}
	return nil
}
