package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"account-service/internal/domain/entity"
	"account-service/internal/domain/event"
	"account-service/internal/domain/exception"
	"account-service/pkg/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unknownID = "5a62be07d6f33400146c9b61"

func TestPilotStudyAssociationScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h1 := f.addHealthProfessional(t, "h1@mail.com")
	h2 := f.addHealthProfessional(t, "h2@mail.com")

	ps := &entity.PilotStudy{}
	require.NoError(t, ps.FromJSON(fmt.Sprintf(`{
		"name": "pilotstudy",
		"is_active": true,
		"start": "2018-05-18T10:00:00.000Z",
		"end": "2018-12-18T10:00:00.000Z",
		"health_professionals_id": [%q]
	}`, h1.ID)))
	created, err := f.pilots.Create(ctx, ps)
	require.NoError(t, err)

	got, err := f.pilots.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{h1.ID}, got.HealthProfessionalsID())

	_, err = f.pilots.AssociateHealthProfessional(ctx, created.ID, h2.ID)
	require.NoError(t, err)
	hps, err := f.pilots.GetAllHealthProfessionals(ctx, created.ID, query.New())
	require.NoError(t, err)
	assert.Len(t, hps, 2)

	require.NoError(t, f.pilots.DisassociateHealthProfessional(ctx, created.ID, h1.ID))
	hps, err = f.pilots.GetAllHealthProfessionals(ctx, created.ID, query.New())
	require.NoError(t, err)
	require.Len(t, hps, 1)
	assert.Equal(t, h2.ID, hps[0].ID)
}

func TestGetAllHealthProfessionalsFillsTotals(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hp := f.addHealthProfessional(t, "h1@mail.com")
	patient := f.addPatient(t, "patient@mail.com")
	ps := f.addPilotStudy(t, "p", hp.ID)
	_, err := f.pilots.AssociatePatient(ctx, ps.ID, patient.ID)
	require.NoError(t, err)

	hps, err := f.pilots.GetAllHealthProfessionals(ctx, ps.ID, query.New())

	require.NoError(t, err)
	require.Len(t, hps, 1)
	assert.Equal(t, int64(1), hps[0].TotalPilotStudies)
	assert.Equal(t, int64(1), hps[0].TotalPatients)
}

func TestMemberListingsHonourFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h1 := f.addHealthProfessional(t, "h1@mail.com")
	h2 := f.addHealthProfessional(t, "h2@mail.com")
	_, err := f.hps.Update(ctx, &entity.HealthProfessional{User: entity.User{ID: h2.ID}, HealthArea: entity.HealthAreaDentistry})
	require.NoError(t, err)
	p1 := f.addPatient(t, "p1@mail.com")
	p2 := f.addPatient(t, "p2@mail.com")
	_, err = f.patients.Update(ctx, &entity.Patient{User: entity.User{ID: p2.ID}, Gender: entity.GenderFemale})
	require.NoError(t, err)

	ps := f.addPilotStudy(t, "p", h1.ID, h2.ID)
	for _, id := range []string{p1.ID, p2.ID} {
		_, err := f.pilots.AssociatePatient(ctx, ps.ID, id)
		require.NoError(t, err)
	}

	t.Run("health professionals", func(t *testing.T) {
		q := query.New().Where("health_area", string(entity.HealthAreaDentistry))

		hps, err := f.pilots.GetAllHealthProfessionals(ctx, ps.ID, q)
		require.NoError(t, err)
		require.Len(t, hps, 1)
		assert.Equal(t, h2.ID, hps[0].ID)

		total, err := f.pilots.CountHealthProfessionalsFromPilotStudy(ctx, ps.ID, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		total, err = f.pilots.CountHealthProfessionalsFromPilotStudy(ctx, ps.ID, query.New())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("patients", func(t *testing.T) {
		q := query.New().Where("gender", string(entity.GenderFemale))

		patients, err := f.pilots.GetAllPatients(ctx, ps.ID, q)
		require.NoError(t, err)
		require.Len(t, patients, 1)
		assert.Equal(t, p2.ID, patients[0].ID)

		total, err := f.pilots.CountPatientsFromPilotStudy(ctx, ps.ID, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		total, err = f.pilots.CountPatientsFromPilotStudy(ctx, ps.ID, query.New().Where("name", "Elvis Aaron"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestCreatePilotStudy(t *testing.T) {
	t.Run("unregistered health professional", func(t *testing.T) {
		f := newFixture()
		h1 := f.addHealthProfessional(t, "h1@mail.com")
		ps := &entity.PilotStudy{}
		require.NoError(t, ps.FromJSON(fmt.Sprintf(`{"name":"p","is_active":true,"start":"2018-05-18","end":"2018-12-18","health_professionals_id":[%q,%q]}`, h1.ID, unknownID)))

		_, err := f.pilots.Create(context.Background(), ps)

		vErr := asValidation(t, err)
		assert.Equal(t, "It is necessary for health professional to be registered before proceeding.", vErr.Message)
		assert.Equal(t, "The following IDs were verified without registration: "+unknownID, vErr.Description)
	})

	t.Run("patients are not taken on creation", func(t *testing.T) {
		f := newFixture()
		patient := f.addPatient(t, "patient@mail.com")
		ps := &entity.PilotStudy{}
		require.NoError(t, ps.FromJSON(fmt.Sprintf(`{"name":"p","is_active":false,"start":"2018-05-18","end":"2018-12-18","patients_id":[%q]}`, patient.ID)))

		created, err := f.pilots.Create(context.Background(), ps)
		require.NoError(t, err)

		got, err := f.pilots.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Empty(t, got.PatientsID())
		assert.Equal(t, 0, got.TotalPatients)
	})

	t.Run("duplicate initial members are stored once", func(t *testing.T) {
		f := newFixture()
		h1 := f.addHealthProfessional(t, "h1@mail.com")

		created := f.addPilotStudy(t, "p", h1.ID, h1.ID)

		assert.Equal(t, []string{h1.ID}, created.HealthProfessionalsID())
		assert.Equal(t, 1, created.TotalHealthProfessionals)
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newFixture()
		f.addPilotStudy(t, "p")

		_, err := f.pilots.Create(context.Background(), newPilotStudy("p"))

		var conflict *exception.ConflictException
		assert.True(t, errors.As(err, &conflict))
	})

	t.Run("audited", func(t *testing.T) {
		f := newFixture()
		f.addPilotStudy(t, "p")
		assert.Contains(t, f.store.AuditActions(), entity.AuditActionPilotStudyCreate)
	})
}

func TestAssociateHealthProfessional(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		f := newFixture()
		h1 := f.addHealthProfessional(t, "h1@mail.com")
		ps := f.addPilotStudy(t, "p")

		for range 2 {
			_, err := f.pilots.AssociateHealthProfessional(context.Background(), ps.ID, h1.ID)
			require.NoError(t, err)
		}

		got, err := f.pilots.GetByID(context.Background(), ps.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{h1.ID}, got.HealthProfessionalsID())
	})

	t.Run("missing pilot study is a no-op", func(t *testing.T) {
		f := newFixture()
		h1 := f.addHealthProfessional(t, "h1@mail.com")

		ps, err := f.pilots.AssociateHealthProfessional(context.Background(), unknownID, h1.ID)

		assert.NoError(t, err)
		assert.Nil(t, ps)
	})

	t.Run("unregistered health professional", func(t *testing.T) {
		f := newFixture()
		ps := f.addPilotStudy(t, "p")

		_, err := f.pilots.AssociateHealthProfessional(context.Background(), ps.ID, unknownID)

		var assocErr *exception.AssociationException
		require.True(t, errors.As(err, &assocErr))
		assert.Equal(t, "It is necessary for health professional to be registered before proceeding.", assocErr.Message)
		assert.Equal(t, "The following IDs were verified without registration: "+unknownID, assocErr.Description)
		asValidation(t, err)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture()

		_, err := f.pilots.AssociateHealthProfessional(context.Background(), "123", unknownID)

		assert.Equal(t, "Some ID provided does not have a valid format!", asValidation(t, err).Message)
	})
}

func TestDisassociateHealthProfessional(t *testing.T) {
	t.Run("absent membership succeeds", func(t *testing.T) {
		f := newFixture()
		h1 := f.addHealthProfessional(t, "h1@mail.com")
		h2 := f.addHealthProfessional(t, "h2@mail.com")
		ps := f.addPilotStudy(t, "p", h1.ID)

		require.NoError(t, f.pilots.DisassociateHealthProfessional(context.Background(), ps.ID, h2.ID))

		got, err := f.pilots.GetByID(context.Background(), ps.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{h1.ID}, got.HealthProfessionalsID())
	})

	t.Run("missing pilot study succeeds", func(t *testing.T) {
		f := newFixture()
		assert.NoError(t, f.pilots.DisassociateHealthProfessional(context.Background(), unknownID, unknownID))
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		f := newFixture()
		ps := f.addPilotStudy(t, "p")
		f.store.Err = errors.New("connection refused")

		err := f.pilots.DisassociateHealthProfessional(context.Background(), ps.ID, unknownID)

		assert.EqualError(t, err, "connection refused")
	})
}

func TestPatientAssociation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	patient := f.addPatient(t, "patient@mail.com")
	ps := f.addPilotStudy(t, "p")

	_, err := f.pilots.AssociatePatient(ctx, ps.ID, unknownID)
	assert.Equal(t, "It is necessary for patient to be registered before proceeding.", asValidation(t, err).Message)

	got, err := f.pilots.AssociatePatient(ctx, ps.ID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{patient.ID}, got.PatientsID())

	total, err := f.pilots.CountPatientsFromPilotStudy(ctx, ps.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	studies, err := f.pilots.GetAllByPatient(ctx, patient.ID, query.New())
	require.NoError(t, err)
	require.Len(t, studies, 1)
	assert.Equal(t, ps.ID, studies[0].ID)

	require.NoError(t, f.pilots.DisassociatePatient(ctx, ps.ID, patient.ID))
	require.NoError(t, f.pilots.DisassociatePatient(ctx, ps.ID, patient.ID))

	patients, err := f.pilots.GetAllPatients(ctx, ps.ID, query.New())
	require.NoError(t, err)
	assert.Empty(t, patients)
	assert.Contains(t, f.store.AuditActions(), entity.AuditActionPilotStudyDisassociatePatient)
}

func TestUpdatePilotStudy(t *testing.T) {
	t.Run("membership lists are rejected", func(t *testing.T) {
		f := newFixture()
		ps := f.addPilotStudy(t, "p")
		update := &entity.PilotStudy{}
		require.NoError(t, update.FromJSON(`{"health_professionals_id": []}`))
		update.ID = ps.ID

		_, err := f.pilots.Update(context.Background(), update)

		vErr := asValidation(t, err)
		assert.Equal(t, "This parameter could not be updated.", vErr.Message)
		assert.Contains(t, vErr.Description, "/healthprofessionals/")
	})

	t.Run("present fields are merged", func(t *testing.T) {
		f := newFixture()
		h1 := f.addHealthProfessional(t, "h1@mail.com")
		ps := f.addPilotStudy(t, "p", h1.ID)
		update := &entity.PilotStudy{}
		require.NoError(t, update.FromJSON(`{"name": "renamed", "is_active": false}`))
		update.ID = ps.ID

		updated, err := f.pilots.Update(context.Background(), update)
		require.NoError(t, err)

		assert.Equal(t, "renamed", updated.Name)
		assert.False(t, *updated.IsActive)
		assert.Equal(t, ps.Start, updated.Start)
		assert.Equal(t, []string{h1.ID}, updated.HealthProfessionalsID())
	})

	t.Run("missing pilot study", func(t *testing.T) {
		f := newFixture()
		updated, err := f.pilots.Update(context.Background(), &entity.PilotStudy{ID: unknownID, Name: "x"})
		assert.NoError(t, err)
		assert.Nil(t, updated)
	})
}

func TestRemovePilotStudy(t *testing.T) {
	f := newFixture()
	ps := f.addPilotStudy(t, "p")

	require.NoError(t, f.pilots.Remove(context.Background(), ps.ID))
	require.NoError(t, f.pilots.Remove(context.Background(), ps.ID))

	got, err := f.pilots.GetByID(context.Background(), ps.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, []string{event.PilotStudyDeleteEvent}, f.publisher.Names())
}

func TestHealthProfessionalCounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h1 := f.addHealthProfessional(t, "h1@mail.com")
	p1 := f.addPatient(t, "p1@mail.com")
	p2 := f.addPatient(t, "p2@mail.com")
	first := f.addPilotStudy(t, "first", h1.ID)
	second := f.addPilotStudy(t, "second", h1.ID)
	f.addPilotStudy(t, "third")

	for _, assoc := range []struct{ pilot, patient string }{
		{first.ID, p1.ID}, {first.ID, p2.ID}, {second.ID, p1.ID},
	} {
		_, err := f.pilots.AssociatePatient(ctx, assoc.pilot, assoc.patient)
		require.NoError(t, err)
	}

	studies, err := f.pilots.CountPilotStudiesFromHealthProfessional(ctx, h1.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), studies)

	patients, err := f.pilots.CountPatientsFromHealthProfessional(ctx, h1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), patients)

	byPatient, err := f.pilots.CountPilotStudiesFromPatient(ctx, p1.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byPatient)

	list, err := f.pilots.GetAllByHealthProfessional(ctx, h1.ID, query.New())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
