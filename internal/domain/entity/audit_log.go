package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string           `gorm:"type:varchar(24);index" json:"user_id,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionUserLogin          = "user.login"
	AuditActionUserLogout         = "user.logout"
	AuditActionUserDelete         = "user.delete"
	AuditActionUserPasswordChange = "user.password_change"

	AuditActionAdminCreate              = "admin.create"
	AuditActionAdminUpdate              = "admin.update"
	AuditActionHealthProfessionalCreate = "health_professional.create"
	AuditActionHealthProfessionalUpdate = "health_professional.update"
	AuditActionPatientCreate            = "patient.create"
	AuditActionPatientUpdate            = "patient.update"

	AuditActionPilotStudyCreate                   = "pilot_study.create"
	AuditActionPilotStudyUpdate                   = "pilot_study.update"
	AuditActionPilotStudyDelete                   = "pilot_study.delete"
	AuditActionPilotStudyAssociateProfessional    = "pilot_study.associate_health_professional"
	AuditActionPilotStudyDisassociateProfessional = "pilot_study.disassociate_health_professional"
	AuditActionPilotStudyAssociatePatient         = "pilot_study.associate_patient"
	AuditActionPilotStudyDisassociatePatient      = "pilot_study.disassociate_patient"
)
