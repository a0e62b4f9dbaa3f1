package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeAdmin              UserType = "admin"
	UserTypeHealthProfessional UserType = "health_professional"
	UserTypePatient            UserType = "patient"
)

// User is the record shared by admins, health professionals and patients. All
// variants live in the users table tagged by Type.
type User struct {
	ID                 string     `gorm:"type:varchar(24);primaryKey" json:"id"`
	Type               UserType   `gorm:"type:varchar(32);not null;index" json:"type"`
	Email              string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password           string     `gorm:"type:text;not null" json:"-"`
	BirthDate          string     `gorm:"type:varchar(10)" json:"birth_date,omitempty"`
	PhoneNumber        string     `gorm:"type:varchar(32)" json:"phone_number,omitempty"`
	SelectedPilotStudy string     `gorm:"type:varchar(24)" json:"selected_pilot_study,omitempty"`
	Language           string     `gorm:"type:varchar(16)" json:"language,omitempty"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a new object id when none was given.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// Scopes returns the permissions granted to the user's type.
func (u *User) Scopes() []string {
	return ScopesFor(u.Type)
}

// NewID returns a new 24 hex character identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

func (u *User) FromJSON(v any) error {
	raw, id, err := jsonInput(v)
	if err != nil || raw == nil {
		if id != "" {
			u.ID = id
		}
		return err
	}
	var in userJSON
	if err := unmarshal(raw, &in); err != nil {
		return err
	}
	in.applyTo(u)
	return nil
}

type userJSON struct {
	ID                 *string `json:"id"`
	Email              *string `json:"email"`
	Password           *string `json:"password"`
	BirthDate          *string `json:"birth_date"`
	PhoneNumber        *string `json:"phone_number"`
	SelectedPilotStudy *string `json:"selected_pilot_study"`
	Language           *string `json:"language"`
}

// applyTo copies the present fields. Type is never taken from input.
func (in userJSON) applyTo(u *User) {
	if in.ID != nil {
		u.ID = *in.ID
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		u.Password = *in.Password
	}
	if in.BirthDate != nil {
		u.BirthDate = *in.BirthDate
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.SelectedPilotStudy != nil {
		u.SelectedPilotStudy = *in.SelectedPilotStudy
	}
	if in.Language != nil {
		u.Language = *in.Language
	}
}
