package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"account-service/internal/validation/field"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PilotStudy groups the health professionals and patients taking part in a
// study. Membership is stored as ordered id arrays and populated on read.
type PilotStudy struct {
	ID        string                      `gorm:"type:varchar(24);primaryKey"`
	Name      string                      `gorm:"type:varchar(255);uniqueIndex;not null"`
	IsActive  *bool                       `gorm:"not null;default:true"`
	Start     *time.Time                  `gorm:"column:start_date;not null"`
	End       *time.Time                  `gorm:"column:end_date;not null"`
	Location  string                      `gorm:"type:varchar(255)"`
	DataTypes datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	HealthProfessionalIDs datatypes.JSONSlice[string] `gorm:"column:health_professionals;type:jsonb;not null"`
	PatientIDs            datatypes.JSONSlice[string] `gorm:"column:patients;type:jsonb;not null"`

	HealthProfessionals []HealthProfessional `gorm:"-"`
	Patients            []Patient            `gorm:"-"`

	TotalHealthProfessionals int `gorm:"-"`
	TotalPatients            int `gorm:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PilotStudy) TableName() string {
	return "pilot_studies"
}

// AddHealthProfessional appends hp and drops later entries sharing an id.
func (p *PilotStudy) AddHealthProfessional(hp HealthProfessional) {
	p.HealthProfessionals = append(p.HealthProfessionals, hp)
	p.HealthProfessionals = lo.UniqBy(p.HealthProfessionals, func(h HealthProfessional) string {
		return h.ID
	})
	p.TotalHealthProfessionals = len(p.HealthProfessionals)
}

// AddPatient appends patient and drops later entries sharing an id.
func (p *PilotStudy) AddPatient(patient Patient) {
	p.Patients = append(p.Patients, patient)
	p.Patients = lo.UniqBy(p.Patients, func(pt Patient) string {
		return pt.ID
	})
	p.TotalPatients = len(p.Patients)
}

func (p *PilotStudy) RemoveHealthProfessional(id string) {
	p.HealthProfessionals = lo.Reject(p.HealthProfessionals, func(h HealthProfessional, _ int) bool {
		return h.ID == id
	})
	p.TotalHealthProfessionals = len(p.HealthProfessionals)
}

func (p *PilotStudy) RemovePatient(id string) {
	p.Patients = lo.Reject(p.Patients, func(pt Patient, _ int) bool {
		return pt.ID == id
	})
	p.TotalPatients = len(p.Patients)
}

func (p *PilotStudy) HasHealthProfessional(id string) bool {
	return lo.ContainsBy(p.HealthProfessionals, func(h HealthProfessional) bool { return h.ID == id })
}

func (p *PilotStudy) HasPatient(id string) bool {
	return lo.ContainsBy(p.Patients, func(pt Patient) bool { return pt.ID == id })
}

func (p *PilotStudy) HealthProfessionalsID() []string {
	return lo.Map(p.HealthProfessionals, func(h HealthProfessional, _ int) string { return h.ID })
}

func (p *PilotStudy) PatientsID() []string {
	return lo.Map(p.Patients, func(pt Patient, _ int) string { return pt.ID })
}

func (p *PilotStudy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

func (p *PilotStudy) BeforeSave(tx *gorm.DB) error {
	p.HealthProfessionalIDs = datatypes.JSONSlice[string](p.HealthProfessionalsID())
	p.PatientIDs = datatypes.JSONSlice[string](p.PatientsID())
	return nil
}

func (p *PilotStudy) AfterFind(tx *gorm.DB) error {
	p.HealthProfessionals = lo.Map(p.HealthProfessionalIDs, func(id string, _ int) HealthProfessional {
		return HealthProfessional{User: User{ID: id, Type: UserTypeHealthProfessional}}
	})
	p.Patients = lo.Map(p.PatientIDs, func(id string, _ int) Patient {
		return Patient{User: User{ID: id, Type: UserTypePatient}}
	})
	p.TotalHealthProfessionals = len(p.HealthProfessionals)
	p.TotalPatients = len(p.Patients)
	return nil
}

// ConvertDatetimeString renders non string values as ISO 8601, validates the
// text and parses it.
func ConvertDatetimeString(v any) (time.Time, error) {
	var text string
	switch t := v.(type) {
	case string:
		text = t
	case time.Time:
		text = t.UTC().Format(field.ISODatetime)
	case *time.Time:
		if t == nil {
			return time.Time{}, field.Datetime("")
		}
		text = t.UTC().Format(field.ISODatetime)
	default:
		text = fmt.Sprint(t)
	}
	if err := field.Datetime(text); err != nil {
		return time.Time{}, err
	}
	return field.ParseDatetime(text)
}

type pilotStudyJSON struct {
	ID                    *string           `json:"id"`
	Name                  *string           `json:"name"`
	IsActive              *bool             `json:"is_active"`
	Start                 any               `json:"start"`
	End                   any               `json:"end"`
	Location              *string           `json:"location"`
	DataTypes             []string          `json:"data_types"`
	HealthProfessionalsID []string          `json:"health_professionals_id"`
	HealthProfessionals   []json.RawMessage `json:"health_professionals"`
	PatientsID            []string          `json:"patients_id"`
	Patients              []json.RawMessage `json:"patients"`
}

// FromJSON applies the fields present in v. A bare id sets only ID.
func (p *PilotStudy) FromJSON(v any) error {
	raw, id, err := jsonInput(v)
	if err != nil || raw == nil {
		if id != "" {
			p.ID = id
		}
		return err
	}
	var in pilotStudyJSON
	if err := unmarshal(raw, &in); err != nil {
		return err
	}

	if in.ID != nil {
		p.ID = *in.ID
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.IsActive != nil {
		p.IsActive = in.IsActive
	}
	if in.Start != nil {
		start, err := ConvertDatetimeString(in.Start)
		if err != nil {
			return err
		}
		p.Start = &start
	}
	if in.End != nil {
		end, err := ConvertDatetimeString(in.End)
		if err != nil {
			return err
		}
		p.End = &end
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.DataTypes != nil {
		p.DataTypes = in.DataTypes
	}

	if in.HealthProfessionalsID != nil || in.HealthProfessionals != nil {
		p.HealthProfessionals = []HealthProfessional{}
		for _, hpID := range in.HealthProfessionalsID {
			p.AddHealthProfessional(HealthProfessional{User: User{ID: hpID, Type: UserTypeHealthProfessional}})
		}
		for _, item := range in.HealthProfessionals {
			hp := NewHealthProfessional()
			if err := hp.FromJSON(item); err != nil {
				return err
			}
			p.AddHealthProfessional(*hp)
		}
	}
	if in.PatientsID != nil || in.Patients != nil {
		p.Patients = []Patient{}
		for _, patientID := range in.PatientsID {
			p.AddPatient(Patient{User: User{ID: patientID, Type: UserTypePatient}})
		}
		for _, item := range in.Patients {
			patient := NewPatient()
			if err := patient.FromJSON(item); err != nil {
				return err
			}
			p.AddPatient(*patient)
		}
	}
	return nil
}
