package repository

import (
	"context"
	"testing"
	"time"

	"account-service/internal/domain/entity"
	"account-service/pkg/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	memberID = "5a62be07d6f33400146c9b61"
	otherID  = "5a62be07de34500146d9c544"
)

// statementLog keeps the rendered SQL of every statement gorm traces.
type statementLog struct {
	statements []string
}

func (l *statementLog) LogMode(logger.LogLevel) logger.Interface { return l }
func (l *statementLog) Info(context.Context, string, ...interface{}) {}
func (l *statementLog) Warn(context.Context, string, ...interface{}) {}
func (l *statementLog) Error(context.Context, string, ...interface{}) {}

func (l *statementLog) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	l.statements = append(l.statements, sql)
}

func (l *statementLog) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, l.statements)
	return l.statements[len(l.statements)-1]
}

// renderOnly opens a postgres dialect that builds statements without sending
// them anywhere.
func renderOnly(t *testing.T) (*gorm.DB, *statementLog) {
	t.Helper()
	log := &statementLog{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=account dbname=account sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 log,
	})
	require.NoError(t, err)
	return db, log
}

func TestPilotStudyMembershipStatements(t *testing.T) {
	ctx := context.Background()
	db, log := renderOnly(t)
	repo := NewPilotStudyRepository(db)

	t.Run("find by member", func(t *testing.T) {
		_, err := repo.FindByHealthProfessional(ctx, memberID, nil)
		require.NoError(t, err)
		assert.Contains(t, log.last(t), `health_professionals @> '["`+memberID+`"]'::jsonb`)
	})

	t.Run("count by member with filters", func(t *testing.T) {
		_, err := repo.CountByPatient(ctx, memberID, query.New().Where("is_active", true))
		require.NoError(t, err)
		sql := log.last(t)
		assert.Contains(t, sql, `patients @> '["`+memberID+`"]'::jsonb`)
		assert.Contains(t, sql, `"is_active" = true`)
	})

	t.Run("distinct patients of a professional", func(t *testing.T) {
		_, _ = repo.CountPatientsByHealthProfessional(ctx, memberID)
		sql := log.last(t)
		assert.Contains(t, sql, "jsonb_array_elements_text(patients)")
		assert.Contains(t, sql, `health_professionals @> '["`+memberID+`"]'::jsonb`)
	})

	t.Run("remove member", func(t *testing.T) {
		require.NoError(t, repo.RemoveMember(ctx, memberID))
		sql := log.last(t)
		assert.Contains(t, sql, `"health_professionals"=health_professionals - '`+memberID+`'::text`)
		assert.Contains(t, sql, `"patients"=patients - '`+memberID+`'::text`)
		assert.Contains(t, sql, `patients @> '["`+memberID+`"]'::jsonb`)
	})
}

func TestPilotStudyUpdateWritesMembership(t *testing.T) {
	db, log := renderOnly(t)
	repo := NewPilotStudyRepository(db)

	ps := &entity.PilotStudy{ID: otherID, Name: "pilot"}
	ps.AddHealthProfessional(entity.HealthProfessional{User: entity.User{ID: memberID}})

	require.NoError(t, repo.Update(context.Background(), ps))

	sql := log.last(t)
	assert.Contains(t, sql, `UPDATE "pilot_studies"`)
	assert.Contains(t, sql, `"health_professionals"='["`+memberID+`"]'`)
	assert.Contains(t, sql, `"patients"='[]'`)
	assert.NotContains(t, sql, `"created_at"=`)
	assert.Contains(t, sql, `"id" = '`+otherID+`'`)
}

func TestUserTableStatements(t *testing.T) {
	ctx := context.Background()

	t.Run("update keeps the password", func(t *testing.T) {
		db, log := renderOnly(t)
		hp := entity.NewHealthProfessional()
		hp.ID = memberID
		hp.Email = "hp@mail.com"
		hp.HealthArea = entity.HealthAreaNursing

		require.NoError(t, NewHealthProfessionalRepository(db).Update(ctx, hp))

		sql := log.last(t)
		assert.Contains(t, sql, `UPDATE "users"`)
		assert.Contains(t, sql, `"health_area"='nursing'`)
		assert.Contains(t, sql, `type = 'health_professional'`)
		assert.NotContains(t, sql, `"password"`)
	})

	t.Run("count by ids with filters", func(t *testing.T) {
		db, log := renderOnly(t)

		_, err := NewPatientRepository(db).CountByIDs(ctx, []string{memberID, otherID}, query.New().Where("gender", "female"))
		require.NoError(t, err)

		sql := log.last(t)
		assert.Contains(t, sql, `type = 'patient'`)
		assert.Contains(t, sql, `id IN ('`+memberID+`','`+otherID+`')`)
		assert.Contains(t, sql, `"gender" = 'female'`)
	})

	t.Run("count by no ids", func(t *testing.T) {
		db, log := renderOnly(t)

		total, err := NewPatientRepository(db).CountByIDs(ctx, nil, nil)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, log.statements)
	})
}
