package validation

import (
	"account-service/internal/domain/entity"
	"account-service/internal/domain/exception"
)

// CreatePilotStudy requires name, is_active, start and end. An explicit false
// is_active is accepted. Initial health professionals need a well formed id.
// End is not compared with start.
func CreatePilotStudy(ps *entity.PilotStudy) error {
	r := newRequired("Pilot Study")
	r.check(ps.Name == "", "name")
	r.check(ps.IsActive == nil, "is_active")
	r.check(ps.Start == nil, "start")
	r.check(ps.End == nil, "end")
	for _, hp := range ps.HealthProfessionals {
		if hp.ID == "" {
			r.check(true, "health_professionals.id")
			break
		}
	}
	if err := r.err(); err != nil {
		return err
	}

	for _, hp := range ps.HealthProfessionals {
		if err := ObjectID(hp.ID); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePilotStudy rejects membership lists, which have their own routes.
func UpdatePilotStudy(ps *entity.PilotStudy) error {
	if ps.HealthProfessionals != nil {
		return exception.NewValidationException(exception.MsgParameterNotUpdated, exception.DescHealthProfessionalsRoute)
	}
	if ps.Patients != nil {
		return exception.NewValidationException(exception.MsgParameterNotUpdated, exception.DescPatientsRoute)
	}
	if ps.ID != "" {
		return ObjectID(ps.ID)
	}
	return nil
}
