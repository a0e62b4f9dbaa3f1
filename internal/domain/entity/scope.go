package entity

// Permission scopes carried in access tokens.
const (
	ScopeAdminsCreate = "admins:create"
	ScopeAdminsRead   = "admins:read"
	ScopeAdminsUpdate = "admins:update"
	ScopeAdminsDelete = "admins:delete"

	ScopeHealthProfessionalsCreate = "healthprofessionals:create"
	ScopeHealthProfessionalsRead   = "healthprofessionals:read"
	ScopeHealthProfessionalsUpdate = "healthprofessionals:update"
	ScopeHealthProfessionalsDelete = "healthprofessionals:delete"

	ScopePatientsCreate = "patients:create"
	ScopePatientsRead   = "patients:read"
	ScopePatientsUpdate = "patients:update"
	ScopePatientsDelete = "patients:delete"

	ScopePilotsCreate = "pilots:create"
	ScopePilotsRead   = "pilots:read"
	ScopePilotsUpdate = "pilots:update"
	ScopePilotsDelete = "pilots:delete"

	ScopeAuditLogsRead = "auditlogs:read"
)

var scopesByType = map[UserType][]string{
	UserTypeAdmin: {
		ScopeAdminsCreate, ScopeAdminsRead, ScopeAdminsUpdate, ScopeAdminsDelete,
		ScopeHealthProfessionalsCreate, ScopeHealthProfessionalsRead, ScopeHealthProfessionalsUpdate, ScopeHealthProfessionalsDelete,
		ScopePatientsCreate, ScopePatientsRead, ScopePatientsUpdate, ScopePatientsDelete,
		ScopePilotsCreate, ScopePilotsRead, ScopePilotsUpdate, ScopePilotsDelete,
		ScopeAuditLogsRead,
	},
	UserTypeHealthProfessional: {
		ScopeHealthProfessionalsRead, ScopeHealthProfessionalsUpdate,
		ScopePatientsCreate, ScopePatientsRead, ScopePatientsUpdate, ScopePatientsDelete,
		ScopePilotsRead, ScopePilotsUpdate,
	},
	UserTypePatient: {
		ScopePatientsRead, ScopePatientsUpdate,
		ScopePilotsRead,
	},
}

// ScopesFor returns a copy of the scopes granted to a user type.
func ScopesFor(t UserType) []string {
	scopes := scopesByType[t]
	out := make([]string, len(scopes))
	copy(out, scopes)
	return out
}
