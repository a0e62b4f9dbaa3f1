package validation

import (
	"account-service/internal/domain/entity"
	"account-service/internal/domain/exception"
)

func CreateHealthProfessional(hp *entity.HealthProfessional) error {
	r := newRequired("Health Professional")
	r.check(hp.Email == "", "email")
	r.check(hp.Password == "", "password")
	r.check(hp.HealthArea == "", "health_area")
	r.check(hp.BirthDate == "", "birth_date")
	if err := r.err(); err != nil {
		return err
	}
	if err := Email(hp.Email); err != nil {
		return err
	}
	if err := HealthArea(string(hp.HealthArea)); err != nil {
		return err
	}
	return Date(hp.BirthDate)
}

func CreatePatient(patient *entity.Patient) error {
	r := newRequired("Patient")
	r.check(patient.Name == "", "name")
	r.check(patient.Email == "", "email")
	r.check(patient.Password == "", "password")
	r.check(patient.Gender == "", "gender")
	r.check(patient.BirthDate == "", "birth_date")
	if err := r.err(); err != nil {
		return err
	}
	if err := Email(patient.Email); err != nil {
		return err
	}
	if err := Gender(string(patient.Gender)); err != nil {
		return err
	}
	return Date(patient.BirthDate)
}

func CreateAdmin(admin *entity.Admin) error {
	r := newRequired("Admin")
	r.check(admin.Email == "", "email")
	r.check(admin.Password == "", "password")
	r.check(admin.BirthDate == "", "birth_date")
	if err := r.err(); err != nil {
		return err
	}
	if err := Email(admin.Email); err != nil {
		return err
	}
	return Date(admin.BirthDate)
}

// UpdateUser rejects a password before looking at any other field.
func UpdateUser(user *entity.User) error {
	if user.Password != "" {
		return exception.NewValidationException(exception.MsgParameterNotUpdated, exception.DescPasswordNotUpdated)
	}
	if user.ID != "" {
		if err := ObjectID(user.ID); err != nil {
			return err
		}
	}
	if user.Email != "" {
		if err := Email(user.Email); err != nil {
			return err
		}
	}
	if user.BirthDate != "" {
		if err := Date(user.BirthDate); err != nil {
			return err
		}
	}
	if user.SelectedPilotStudy != "" {
		return ObjectID(user.SelectedPilotStudy)
	}
	return nil
}

func UpdateHealthProfessional(hp *entity.HealthProfessional) error {
	if err := UpdateUser(&hp.User); err != nil {
		return err
	}
	if hp.HealthArea != "" {
		return HealthArea(string(hp.HealthArea))
	}
	return nil
}

func UpdatePatient(patient *entity.Patient) error {
	if err := UpdateUser(&patient.User); err != nil {
		return err
	}
	if patient.Gender != "" {
		return Gender(string(patient.Gender))
	}
	return nil
}

func UpdateAdmin(admin *entity.Admin) error {
	return UpdateUser(&admin.User)
}
