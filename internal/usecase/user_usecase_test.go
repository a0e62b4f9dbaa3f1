package usecase

import (
	"context"
	"errors"
	"testing"

	"account-service/internal/delivery/dto"
	"account-service/internal/domain/entity"
	"account-service/internal/domain/event"
	"account-service/internal/domain/exception"
	"account-service/pkg/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddHealthProfessional(t *testing.T) {
	t.Run("password is hashed", func(t *testing.T) {
		f := newFixture()
		hp := f.addHealthProfessional(t, "hp@mail.com")

		assert.Len(t, hp.ID, 24)
		assert.Equal(t, entity.UserTypeHealthProfessional, hp.Type)
		assert.Equal(t, "hashed:secret", hp.Password)
		assert.Equal(t, []string{entity.AuditActionHealthProfessionalCreate}, f.store.AuditActions())
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture()

		_, err := f.hps.Add(context.Background(), entity.NewHealthProfessional())

		vErr := asValidation(t, err)
		assert.Equal(t, "Required fields were not provided...", vErr.Message)
		assert.Equal(t, "Health Professional validation: email, password, health_area, birth_date is required!", vErr.Description)
	})

	t.Run("email shared with another user type", func(t *testing.T) {
		f := newFixture()
		f.addPatient(t, "taken@mail.com")
		hp := entity.NewHealthProfessional()
		hp.Email = "taken@mail.com"
		hp.Password = "secret"
		hp.BirthDate = "1990-01-01"
		hp.HealthArea = entity.HealthAreaDentistry

		_, err := f.hps.Add(context.Background(), hp)

		var conflict *exception.ConflictException
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, exception.MsgUserAlreadyExists, conflict.Message)
	})
}

func TestHealthProfessionalTotals(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h1 := f.addHealthProfessional(t, "h1@mail.com")
	f.addHealthProfessional(t, "h2@mail.com")
	patient := f.addPatient(t, "patient@mail.com")
	ps := f.addPilotStudy(t, "p", h1.ID)
	_, err := f.pilots.AssociatePatient(ctx, ps.ID, patient.ID)
	require.NoError(t, err)

	got, err := f.hps.GetByID(ctx, h1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalPilotStudies)
	assert.Equal(t, int64(1), got.TotalPatients)

	all, err := f.hps.GetAll(ctx, query.New())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].TotalPilotStudies)
	assert.Equal(t, int64(0), all[1].TotalPilotStudies)

	missing, err := f.hps.GetByID(ctx, unknownID)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateHealthProfessional(t *testing.T) {
	t.Run("password is rejected", func(t *testing.T) {
		f := newFixture()
		hp := f.addHealthProfessional(t, "hp@mail.com")
		update := entity.NewHealthProfessional()
		require.NoError(t, update.FromJSON(`{"password": "other"}`))
		update.ID = hp.ID

		_, err := f.hps.Update(context.Background(), update)

		vErr := asValidation(t, err)
		assert.Equal(t, "This parameter could not be updated.", vErr.Message)
		assert.Equal(t, exception.DescPasswordNotUpdated, vErr.Description)
	})

	t.Run("fields are merged", func(t *testing.T) {
		f := newFixture()
		hp := f.addHealthProfessional(t, "hp@mail.com")
		update := entity.NewHealthProfessional()
		update.ID = hp.ID
		update.HealthArea = entity.HealthAreaNursing
		update.Language = "pt-BR"

		updated, err := f.hps.Update(context.Background(), update)
		require.NoError(t, err)

		assert.Equal(t, "hp@mail.com", updated.Email)
		assert.Equal(t, entity.HealthAreaNursing, updated.HealthArea)
		assert.Equal(t, "pt-BR", updated.Language)
		assert.Equal(t, "hashed:secret", updated.Password)
	})

	t.Run("invalid health area", func(t *testing.T) {
		f := newFixture()
		hp := f.addHealthProfessional(t, "hp@mail.com")
		update := entity.NewHealthProfessional()
		update.ID = hp.ID
		update.HealthArea = "surgery"

		_, err := f.hps.Update(context.Background(), update)

		assert.Equal(t, "Value not mapped for health_area: surgery", asValidation(t, err).Message)
	})

	t.Run("only the owner or an admin", func(t *testing.T) {
		f := newFixture()
		hp := f.addHealthProfessional(t, "hp@mail.com")
		other := f.addHealthProfessional(t, "other@mail.com")
		admin := f.addAdmin(t, "admin@mail.com")
		update := func() *entity.HealthProfessional {
			u := entity.NewHealthProfessional()
			u.ID = hp.ID
			u.Language = "pt-BR"
			return u
		}

		_, err := f.hps.Update(asActor(other.ID, entity.UserTypeHealthProfessional), update())
		assert.ErrorIs(t, err, ErrForbidden)

		got, err := f.hps.GetByID(context.Background(), hp.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Language)

		_, err = f.hps.Update(asActor(hp.ID, entity.UserTypeHealthProfessional), update())
		assert.NoError(t, err)
		_, err = f.hps.Update(asActor(admin.ID, entity.UserTypeAdmin), update())
		assert.NoError(t, err)
	})
}

func TestPatientGetByID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient(t, "patient@mail.com")

	plain, err := f.patients.GetByID(ctx, patient.ID, true)
	require.NoError(t, err)
	assert.NotNil(t, plain.PilotStudies)
	assert.Empty(t, plain.PilotStudies)

	ps := f.addPilotStudy(t, "p")
	_, err = f.pilots.AssociatePatient(ctx, ps.ID, patient.ID)
	require.NoError(t, err)

	withStudies, err := f.patients.GetByID(ctx, patient.ID, true)
	require.NoError(t, err)
	require.Len(t, withStudies.PilotStudies, 1)
	assert.Equal(t, "p", withStudies.PilotStudies[0].Name)

	without, err := f.patients.GetByID(ctx, patient.ID, false)
	require.NoError(t, err)
	assert.Nil(t, without.PilotStudies)
}

func TestUpdatePatient(t *testing.T) {
	f := newFixture()
	patient := f.addPatient(t, "patient@mail.com")
	update := entity.NewPatient()
	update.ID = patient.ID
	update.Gender = entity.GenderFemale
	update.Name = "Maria"

	updated, err := f.patients.Update(context.Background(), update)
	require.NoError(t, err)

	assert.Equal(t, entity.GenderFemale, updated.Gender)
	assert.Equal(t, "Maria", updated.Name)
	assert.Equal(t, "1992-02-29", updated.BirthDate)
}

func TestUpdatePatientOwnership(t *testing.T) {
	f := newFixture()
	p1 := f.addPatient(t, "p1@mail.com")
	p2 := f.addPatient(t, "p2@mail.com")
	member := f.addHealthProfessional(t, "member@mail.com")
	outsider := f.addHealthProfessional(t, "outsider@mail.com")
	ps := f.addPilotStudy(t, "p", member.ID)
	_, err := f.pilots.AssociatePatient(context.Background(), ps.ID, p2.ID)
	require.NoError(t, err)

	update := func(email string) *entity.Patient {
		u := entity.NewPatient()
		u.ID = p2.ID
		u.Email = email
		return u
	}

	t.Run("another patient", func(t *testing.T) {
		_, err := f.patients.Update(asActor(p1.ID, entity.UserTypePatient), update("taken@mail.com"))
		assert.ErrorIs(t, err, ErrForbidden)

		got, err := f.patients.GetByID(context.Background(), p2.ID, false)
		require.NoError(t, err)
		assert.Equal(t, "p2@mail.com", got.Email)
	})

	t.Run("health professional outside the pilot study", func(t *testing.T) {
		_, err := f.patients.Update(asActor(outsider.ID, entity.UserTypeHealthProfessional), update("outsider@p2.com"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("health professional of the pilot study", func(t *testing.T) {
		updated, err := f.patients.Update(asActor(member.ID, entity.UserTypeHealthProfessional), update("member@p2.com"))
		require.NoError(t, err)
		assert.Equal(t, "member@p2.com", updated.Email)
	})

	t.Run("the patient", func(t *testing.T) {
		updated, err := f.patients.Update(asActor(p2.ID, entity.UserTypePatient), update("self@p2.com"))
		require.NoError(t, err)
		assert.Equal(t, "self@p2.com", updated.Email)
	})
}

func TestAdminDashboard(t *testing.T) {
	f := newFixture()
	admin := f.addAdmin(t, "admin@mail.com")
	f.addHealthProfessional(t, "h1@mail.com")
	f.addHealthProfessional(t, "h2@mail.com")
	f.addPatient(t, "patient@mail.com")
	f.addPilotStudy(t, "p")

	got, err := f.admins.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.TotalAdmins)
	assert.Equal(t, int64(2), got.TotalHealthProfessionals)
	assert.Equal(t, int64(1), got.TotalPatients)
	assert.Equal(t, int64(1), got.TotalPilotStudies)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.admins.EnsureDefaultAdmin(ctx, "admin@mail.com", "admin123"))
	require.NoError(t, f.admins.EnsureDefaultAdmin(ctx, "other@mail.com", "admin123"))

	total, err := f.admins.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = f.auth.Authenticate(ctx, &dto.AuthRequest{Email: "admin@mail.com", Password: "admin123"})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	t.Run("success revokes tokens", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		hp := f.addHealthProfessional(t, "hp@mail.com")
		_, err := f.auth.Authenticate(ctx, &dto.AuthRequest{Email: "hp@mail.com", Password: "secret"})
		require.NoError(t, err)
		require.Equal(t, 2, f.tokens.Len())

		err = f.users.ChangePassword(asActor(hp.ID, entity.UserTypeHealthProfessional), hp.ID, "secret", "new-secret")
		require.NoError(t, err)

		assert.Equal(t, 0, f.tokens.Len())
		_, err = f.auth.Authenticate(ctx, &dto.AuthRequest{Email: "hp@mail.com", Password: "new-secret"})
		assert.NoError(t, err)
		assert.Contains(t, f.store.AuditActions(), entity.AuditActionUserPasswordChange)
	})

	t.Run("wrong old password", func(t *testing.T) {
		f := newFixture()
		hp := f.addHealthProfessional(t, "hp@mail.com")

		err := f.users.ChangePassword(context.Background(), hp.ID, "wrong", "new-secret")

		vErr := asValidation(t, err)
		assert.Equal(t, exception.MsgPasswordNotMatch, vErr.Message)
		assert.Equal(t, exception.DescPasswordNotMatch, vErr.Description)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newFixture()
		err := f.users.ChangePassword(context.Background(), unknownID, "secret", "new-secret")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("another user", func(t *testing.T) {
		f := newFixture()
		hp := f.addHealthProfessional(t, "hp@mail.com")
		patient := f.addPatient(t, "patient@mail.com")

		err := f.users.ChangePassword(asActor(patient.ID, entity.UserTypePatient), hp.ID, "secret", "new-secret")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin may change any password", func(t *testing.T) {
		f := newFixture()
		admin := f.addAdmin(t, "admin@mail.com")
		patient := f.addPatient(t, "patient@mail.com")

		err := f.users.ChangePassword(asActor(admin.ID, entity.UserTypeAdmin), patient.ID, "secret", "new-secret")

		assert.NoError(t, err)
	})
}

func TestRemoveUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h1 := f.addHealthProfessional(t, "h1@mail.com")
	h2 := f.addHealthProfessional(t, "h2@mail.com")
	ps := f.addPilotStudy(t, "p", h1.ID, h2.ID)

	require.NoError(t, f.users.Remove(ctx, h1.ID))
	require.NoError(t, f.users.Remove(ctx, h1.ID))

	got, err := f.pilots.GetByID(ctx, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{h2.ID}, got.HealthProfessionalsID())
	assert.Equal(t, 1, got.TotalHealthProfessionals)

	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, event.UserDeleteEvent, f.publisher.Events[0].Name)
	assert.Equal(t, h1.ID, f.publisher.Events[0].Payload["id"])

	missing, err := f.hps.GetByID(ctx, h1.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAuditLogUsecase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addHealthProfessional(t, "hp@mail.com")
	f.addPilotStudy(t, "p")

	logs, err := f.audit.GetAll(ctx, query.New().Where("action", entity.AuditActionPilotStudyCreate))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	got, err := f.audit.GetByID(ctx, logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionPilotStudyCreate, got.Action)

	total, err := f.audit.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	missing, err := f.audit.GetByID(ctx, 99)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
