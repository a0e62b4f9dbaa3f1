package exception

// User facing texts shared by validators, usecases and handlers.
const (
	MsgRequiredFields      = "Required fields were not provided..."
	MsgInvalidID           = "Some ID provided does not have a valid format!"
	DescInvalidID          = "A 24-byte hex ID similar to this: 507f191e810c19729de860ea is expected."
	MsgParameterNotUpdated = "This parameter could not be updated."
	DescPasswordNotUpdated = "A specific route to update user password already exists. Access: PATCH /v1/users/{user_id}/password to update your password."
	MsgInvalidEmail        = "Invalid email address!"

	DescHealthProfessionalsRoute = "A specific route to manage health_professionals already exists. Access: POST|DELETE /v1/pilotstudies/{pilotstudy_id}/healthprofessionals/{healthprofessional_id}"
	DescPatientsRoute            = "A specific route to manage patients already exists. Access: POST|DELETE /v1/pilotstudies/{pilotstudy_id}/patients/{patient_id}"

	MsgHealthProfessionalNotRegistered = "It is necessary for health professional to be registered before proceeding."
	MsgPatientNotRegistered            = "It is necessary for patient to be registered before proceeding."
	DescIDsNotRegistered               = "The following IDs were verified without registration: "

	MsgPilotStudyNotFound          = "Pilot Study not found!"
	DescPilotStudyNotFound         = "Pilot Study not found or already removed. A new operation for the same resource is required."
	MsgHealthProfessionalNotFound  = "Health Professional not found!"
	DescHealthProfessionalNotFound = "Health Professional not found or already removed. A new operation for the same resource is required."
	MsgPatientNotFound             = "Patient not found!"
	DescPatientNotFound            = "Patient not found or already removed. A new operation for the same resource is required."
	MsgAdminNotFound               = "Admin not found!"
	DescAdminNotFound              = "Admin not found or already removed. A new operation for the same resource is required."
	MsgUserNotFound                = "User not found!"
	DescUserNotFound               = "User not found or already removed. A new operation for the same resource is required."

	MsgPasswordNotMatch  = "Password does not match!"
	DescPasswordNotMatch = "The old password parameter does not match with the actual user password."

	MsgUserAlreadyExists       = "A registration with the same unique data already exists!"
	MsgPilotStudyAlreadyExists = "A pilot study with the same name already exists!"
)
