// Package testutil provides in-memory implementations of the repository,
// token, hashing and event ports for usecase and handler tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"account-service/internal/domain/entity"
	"account-service/internal/domain/event"
	"account-service/internal/domain/exception"
	domainRepo "account-service/internal/domain/repository"
	"account-service/pkg/jwt"
	"account-service/pkg/query"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Store keeps every record in memory. Pilot studies are stored the way the
// database stores them: membership as id arrays only.
type Store struct {
	mu sync.Mutex

	healthProfessionals []entity.HealthProfessional
	patients            []entity.Patient
	admins              []entity.Admin
	pilotStudies        []entity.PilotStudy
	auditLogs           []entity.AuditLog

	// Err, when set, is returned by every repository call.
	Err error
}

func NewStore() *Store {
	return &Store{}
}

func QuietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func paginate[T any](rows []T, q *query.Query) []T {
	if q == nil || q.Limit <= 0 {
		return rows
	}
	start := min(q.Offset(), len(rows))
	end := min(start+q.Limit, len(rows))
	return rows[start:end]
}

// filterText renders a filter value the way the column is compared.
func filterText(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.UTC().Format(time.RFC3339Nano)
	case *bool:
		if t == nil {
			return ""
		}
		return fmt.Sprint(*t)
	default:
		return fmt.Sprint(t)
	}
}

// matchColumns reports whether every filter of q equals its column. Filters on
// unknown columns never match.
func matchColumns(columns map[string]string, q *query.Query) bool {
	if q == nil {
		return true
	}
	for column, value := range q.Filters {
		actual, ok := columns[column]
		if !ok || actual != filterText(value) {
			return false
		}
	}
	return true
}

func userColumns(u *entity.User) map[string]string {
	return map[string]string{
		"id":                   u.ID,
		"type":                 string(u.Type),
		"email":                u.Email,
		"birth_date":           u.BirthDate,
		"phone_number":         u.PhoneNumber,
		"selected_pilot_study": u.SelectedPilotStudy,
		"language":             u.Language,
		"created_at":           filterText(u.CreatedAt),
	}
}

func matchUser(u *entity.User, q *query.Query) bool {
	return matchColumns(userColumns(u), q)
}

func (s *Store) emailTaken(email, exceptID string) bool {
	taken := func(u entity.User) bool { return u.Email == email && u.ID != exceptID }
	return lo.ContainsBy(s.healthProfessionals, func(h entity.HealthProfessional) bool { return taken(h.User) }) ||
		lo.ContainsBy(s.patients, func(p entity.Patient) bool { return taken(p.User) }) ||
		lo.ContainsBy(s.admins, func(a entity.Admin) bool { return taken(a.User) })
}

func (s *Store) prepareUser(u *entity.User, t entity.UserType) error {
	if s.emailTaken(u.Email, u.ID) {
		return exception.NewConflictException(exception.MsgUserAlreadyExists, "The email provided is already registered.")
	}
	if u.ID == "" {
		u.ID = entity.NewID()
	}
	u.Type = t
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// mergeUser copies the writable columns of src onto dst.
func mergeUser(dst *entity.User, src entity.User) {
	dst.Email = src.Email
	dst.BirthDate = src.BirthDate
	dst.PhoneNumber = src.PhoneNumber
	dst.SelectedPilotStudy = src.SelectedPilotStudy
	dst.Language = src.Language
	dst.UpdatedAt = time.Now().UTC()
}

// HealthProfessionalRepository

type healthProfessionalRepo struct{ s *Store }

func (s *Store) HealthProfessionalRepository() domainRepo.HealthProfessionalRepository {
	return &healthProfessionalRepo{s: s}
}

func (r *healthProfessionalRepo) Create(ctx context.Context, hp *entity.HealthProfessional) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if err := r.s.prepareUser(&hp.User, entity.UserTypeHealthProfessional); err != nil {
		return err
	}
	r.s.healthProfessionals = append(r.s.healthProfessionals, *hp)
	return nil
}

func (r *healthProfessionalRepo) filter(q *query.Query) []entity.HealthProfessional {
	return lo.Filter(r.s.healthProfessionals, func(h entity.HealthProfessional, _ int) bool {
		columns := userColumns(&h.User)
		columns["health_area"] = string(h.HealthArea)
		return matchColumns(columns, q)
	})
}

func (r *healthProfessionalRepo) Find(ctx context.Context, q *query.Query) ([]entity.HealthProfessional, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return paginate(r.filter(q), q), nil
}

func (r *healthProfessionalRepo) FindOne(ctx context.Context, q *query.Query) (*entity.HealthProfessional, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	found := r.filter(q)
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *healthProfessionalRepo) FindByIDs(ctx context.Context, ids []string, q *query.Query) ([]entity.HealthProfessional, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	rows := lo.Filter(r.filter(q), func(h entity.HealthProfessional, _ int) bool { return lo.Contains(ids, h.ID) })
	return paginate(rows, q), nil
}

func (r *healthProfessionalRepo) Update(ctx context.Context, hp *entity.HealthProfessional) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.s.emailTaken(hp.Email, hp.ID) {
		return exception.NewConflictException(exception.MsgUserAlreadyExists)
	}
	for i := range r.s.healthProfessionals {
		if r.s.healthProfessionals[i].ID == hp.ID {
			mergeUser(&r.s.healthProfessionals[i].User, hp.User)
			r.s.healthProfessionals[i].HealthArea = hp.HealthArea
		}
	}
	return nil
}

func (r *healthProfessionalRepo) CountByIDs(ctx context.Context, ids []string, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(lo.CountBy(r.filter(q), func(row entity.HealthProfessional) bool { return lo.Contains(ids, row.ID) })), nil
}

func (r *healthProfessionalRepo) Count(ctx context.Context, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.filter(q))), nil
}

func (r *healthProfessionalRepo) CheckExists(ctx context.Context, id string) (bool, error) {
	total, err := r.Count(ctx, query.ByID(id))
	return total > 0, err
}

func (r *healthProfessionalRepo) CheckExistsMany(ctx context.Context, ids []string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	found := lo.Map(r.s.healthProfessionals, func(h entity.HealthProfessional, _ int) string { return h.ID })
	return domainRepo.ExistenceResult(ids, found)
}

// PatientRepository

type patientRepo struct{ s *Store }

func (s *Store) PatientRepository() domainRepo.PatientRepository {
	return &patientRepo{s: s}
}

func (r *patientRepo) Create(ctx context.Context, patient *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if err := r.s.prepareUser(&patient.User, entity.UserTypePatient); err != nil {
		return err
	}
	row := *patient
	row.PilotStudies = nil
	r.s.patients = append(r.s.patients, row)
	return nil
}

func (r *patientRepo) filter(q *query.Query) []entity.Patient {
	return lo.Filter(r.s.patients, func(p entity.Patient, _ int) bool {
		columns := userColumns(&p.User)
		columns["name"] = p.Name
		columns["gender"] = string(p.Gender)
		return matchColumns(columns, q)
	})
}

func (r *patientRepo) Find(ctx context.Context, q *query.Query) ([]entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return paginate(r.filter(q), q), nil
}

func (r *patientRepo) FindOne(ctx context.Context, q *query.Query) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	found := r.filter(q)
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *patientRepo) FindByIDs(ctx context.Context, ids []string, q *query.Query) ([]entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	rows := lo.Filter(r.filter(q), func(p entity.Patient, _ int) bool { return lo.Contains(ids, p.ID) })
	return paginate(rows, q), nil
}

func (r *patientRepo) Update(ctx context.Context, patient *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.s.emailTaken(patient.Email, patient.ID) {
		return exception.NewConflictException(exception.MsgUserAlreadyExists)
	}
	for i := range r.s.patients {
		if r.s.patients[i].ID == patient.ID {
			mergeUser(&r.s.patients[i].User, patient.User)
			r.s.patients[i].Name = patient.Name
			r.s.patients[i].Gender = patient.Gender
		}
	}
	return nil
}

func (r *patientRepo) CountByIDs(ctx context.Context, ids []string, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(lo.CountBy(r.filter(q), func(row entity.Patient) bool { return lo.Contains(ids, row.ID) })), nil
}

func (r *patientRepo) Count(ctx context.Context, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.filter(q))), nil
}

func (r *patientRepo) CheckExists(ctx context.Context, id string) (bool, error) {
	total, err := r.Count(ctx, query.ByID(id))
	return total > 0, err
}

func (r *patientRepo) CheckExistsMany(ctx context.Context, ids []string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	found := lo.Map(r.s.patients, func(p entity.Patient, _ int) string { return p.ID })
	return domainRepo.ExistenceResult(ids, found)
}

// AdminRepository

type adminRepo struct{ s *Store }

func (s *Store) AdminRepository() domainRepo.AdminRepository {
	return &adminRepo{s: s}
}

func (r *adminRepo) Create(ctx context.Context, admin *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if err := r.s.prepareUser(&admin.User, entity.UserTypeAdmin); err != nil {
		return err
	}
	r.s.admins = append(r.s.admins, *admin)
	return nil
}

func (r *adminRepo) filter(q *query.Query) []entity.Admin {
	return lo.Filter(r.s.admins, func(a entity.Admin, _ int) bool { return matchUser(&a.User, q) })
}

func (r *adminRepo) Find(ctx context.Context, q *query.Query) ([]entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return paginate(r.filter(q), q), nil
}

func (r *adminRepo) FindOne(ctx context.Context, q *query.Query) (*entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	found := r.filter(q)
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *adminRepo) Update(ctx context.Context, admin *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.s.emailTaken(admin.Email, admin.ID) {
		return exception.NewConflictException(exception.MsgUserAlreadyExists)
	}
	for i := range r.s.admins {
		if r.s.admins[i].ID == admin.ID {
			mergeUser(&r.s.admins[i].User, admin.User)
		}
	}
	return nil
}

func (r *adminRepo) Count(ctx context.Context, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.filter(q))), nil
}

// UserRepository

type userRepo struct{ s *Store }

func (s *Store) UserRepository() domainRepo.UserRepository {
	return &userRepo{s: s}
}

// users returns pointers into the typed tables, in admin, health professional,
// patient order.
func (s *Store) users() []*entity.User {
	var all []*entity.User
	for i := range s.admins {
		all = append(all, &s.admins[i].User)
	}
	for i := range s.healthProfessionals {
		all = append(all, &s.healthProfessionals[i].User)
	}
	for i := range s.patients {
		all = append(all, &s.patients[i].User)
	}
	return all
}

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	return exception.ErrUnsupportedOperation
}

func (r *userRepo) FindOne(ctx context.Context, q *query.Query) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users() {
		if matchUser(u, q) {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.FindOne(ctx, query.New().Where("email", email))
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users() {
		if u.ID == userID {
			u.Password = hashedPassword
		}
	}
	return nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users() {
		if u.ID == userID {
			u.LastLogin = &at
		}
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	before := len(r.s.admins) + len(r.s.healthProfessionals) + len(r.s.patients)
	r.s.admins = lo.Reject(r.s.admins, func(a entity.Admin, _ int) bool { return a.ID == userID })
	r.s.healthProfessionals = lo.Reject(r.s.healthProfessionals, func(h entity.HealthProfessional, _ int) bool { return h.ID == userID })
	r.s.patients = lo.Reject(r.s.patients, func(p entity.Patient, _ int) bool { return p.ID == userID })
	after := len(r.s.admins) + len(r.s.healthProfessionals) + len(r.s.patients)
	return after < before, nil
}

func (r *userRepo) Count(ctx context.Context, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(lo.Filter(r.s.users(), func(u *entity.User, _ int) bool { return matchUser(u, q) }))), nil
}

func (r *userRepo) CheckExists(ctx context.Context, userID string) (bool, error) {
	total, err := r.Count(ctx, query.ByID(userID))
	return total > 0, err
}

func (r *userRepo) CheckExistsMany(ctx context.Context, userIDs []string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	found := lo.Map(r.s.users(), func(u *entity.User, _ int) string { return u.ID })
	return domainRepo.ExistenceResult(userIDs, found)
}

// PilotStudyRepository

type pilotStudyRepo struct{ s *Store }

func (s *Store) PilotStudyRepository() domainRepo.PilotStudyRepository {
	return &pilotStudyRepo{s: s}
}

// stored keeps only the id arrays, as the jsonb columns do.
func stored(ps *entity.PilotStudy) entity.PilotStudy {
	_ = ps.BeforeSave(nil)
	row := *ps
	row.HealthProfessionals = nil
	row.Patients = nil
	return row
}

// loaded populates the membership placeholders, as a read does.
func loaded(row entity.PilotStudy) entity.PilotStudy {
	_ = row.AfterFind(nil)
	return row
}

func (r *pilotStudyRepo) nameTaken(name, exceptID string) bool {
	return lo.ContainsBy(r.s.pilotStudies, func(p entity.PilotStudy) bool {
		return p.Name == name && p.ID != exceptID
	})
}

func (r *pilotStudyRepo) Create(ctx context.Context, ps *entity.PilotStudy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.nameTaken(ps.Name, "") {
		return exception.NewConflictException(exception.MsgPilotStudyAlreadyExists, "The name provided is already in use.")
	}
	if ps.ID == "" {
		ps.ID = entity.NewID()
	}
	now := time.Now().UTC()
	ps.CreatedAt = now
	ps.UpdatedAt = now
	r.s.pilotStudies = append(r.s.pilotStudies, stored(ps))
	return nil
}

func pilotStudyColumns(ps *entity.PilotStudy) map[string]string {
	return map[string]string{
		"id":         ps.ID,
		"name":       ps.Name,
		"is_active":  filterText(ps.IsActive),
		"location":   ps.Location,
		"start_date": filterText(ps.Start),
		"end_date":   filterText(ps.End),
		"created_at": filterText(ps.CreatedAt),
	}
}

func (r *pilotStudyRepo) filter(q *query.Query, keep func(entity.PilotStudy) bool) []entity.PilotStudy {
	var rows []entity.PilotStudy
	for _, row := range r.s.pilotStudies {
		if !matchColumns(pilotStudyColumns(&row), q) {
			continue
		}
		if keep != nil && !keep(row) {
			continue
		}
		rows = append(rows, loaded(row))
	}
	return rows
}

func (r *pilotStudyRepo) Find(ctx context.Context, q *query.Query) ([]entity.PilotStudy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return paginate(r.filter(q, nil), q), nil
}

func (r *pilotStudyRepo) FindOne(ctx context.Context, q *query.Query) (*entity.PilotStudy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	rows := r.filter(q, nil)
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *pilotStudyRepo) Update(ctx context.Context, ps *entity.PilotStudy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.nameTaken(ps.Name, ps.ID) {
		return exception.NewConflictException(exception.MsgPilotStudyAlreadyExists)
	}
	for i := range r.s.pilotStudies {
		if r.s.pilotStudies[i].ID == ps.ID {
			createdAt := r.s.pilotStudies[i].CreatedAt
			ps.UpdatedAt = time.Now().UTC()
			r.s.pilotStudies[i] = stored(ps)
			r.s.pilotStudies[i].CreatedAt = createdAt
		}
	}
	return nil
}

func (r *pilotStudyRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	before := len(r.s.pilotStudies)
	r.s.pilotStudies = lo.Reject(r.s.pilotStudies, func(p entity.PilotStudy, _ int) bool { return p.ID == id })
	return len(r.s.pilotStudies) < before, nil
}

func (r *pilotStudyRepo) Count(ctx context.Context, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.filter(q, nil))), nil
}

func (r *pilotStudyRepo) CheckExists(ctx context.Context, id string) (bool, error) {
	total, err := r.Count(ctx, query.ByID(id))
	return total > 0, err
}

func (r *pilotStudyRepo) CheckExistsMany(ctx context.Context, ids []string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	found := lo.Map(r.s.pilotStudies, func(p entity.PilotStudy, _ int) string { return p.ID })
	return domainRepo.ExistenceResult(ids, found)
}

func hasProfessional(id string) func(entity.PilotStudy) bool {
	return func(p entity.PilotStudy) bool { return lo.Contains([]string(p.HealthProfessionalIDs), id) }
}

func hasPatient(id string) func(entity.PilotStudy) bool {
	return func(p entity.PilotStudy) bool { return lo.Contains([]string(p.PatientIDs), id) }
}

func (r *pilotStudyRepo) FindByHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) ([]entity.PilotStudy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return paginate(r.filter(q, hasProfessional(healthProfessionalID)), q), nil
}

func (r *pilotStudyRepo) CountByHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.filter(q, hasProfessional(healthProfessionalID)))), nil
}

func (r *pilotStudyRepo) FindByPatient(ctx context.Context, patientID string, q *query.Query) ([]entity.PilotStudy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return paginate(r.filter(q, hasPatient(patientID)), q), nil
}

func (r *pilotStudyRepo) CountByPatient(ctx context.Context, patientID string, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.filter(q, hasPatient(patientID)))), nil
}

func (r *pilotStudyRepo) CountPatientsByHealthProfessional(ctx context.Context, healthProfessionalID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	var ids []string
	for _, p := range r.filter(nil, hasProfessional(healthProfessionalID)) {
		ids = append(ids, p.PatientIDs...)
	}
	return int64(len(lo.Uniq(ids))), nil
}

func (r *pilotStudyRepo) RemoveMember(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for i := range r.s.pilotStudies {
		row := &r.s.pilotStudies[i]
		row.HealthProfessionalIDs = lo.Without([]string(row.HealthProfessionalIDs), userID)
		row.PatientIDs = lo.Without([]string(row.PatientIDs), userID)
	}
	return nil
}

// AuditLogRepository

type auditLogRepo struct{ s *Store }

func (s *Store) AuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepo{s: s}
}

func (r *auditLogRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	log.ID = int64(len(r.s.auditLogs) + 1)
	log.CreatedAt = time.Now().UTC()
	r.s.auditLogs = append(r.s.auditLogs, *log)
	return nil
}

func (r *auditLogRepo) filter(q *query.Query) []entity.AuditLog {
	return lo.Filter(r.s.auditLogs, func(l entity.AuditLog, _ int) bool {
		columns := map[string]string{
			"action":     l.Action,
			"created_at": filterText(l.CreatedAt),
		}
		if l.UserID != nil {
			columns["user_id"] = *l.UserID
		}
		return matchColumns(columns, q)
	})
}

func (r *auditLogRepo) Find(ctx context.Context, q *query.Query) ([]entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return paginate(r.filter(q), q), nil
}

func (r *auditLogRepo) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, l := range r.s.auditLogs {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

func (r *auditLogRepo) Count(ctx context.Context, q *query.Query) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.filter(q))), nil
}

// AuditActions lists the recorded audit actions in write order.
func (s *Store) AuditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Map(s.auditLogs, func(l entity.AuditLog, _ int) string { return l.Action })
}

// TokenStore

type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: map[string]struct{}{}}
}

func tokenKey(tokenType jwt.TokenType, userID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID, tokenID)
}

func (t *TokenStore) Save(ctx context.Context, tokenType jwt.TokenType, userID, tokenID string, ttl time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens[tokenKey(tokenType, userID, tokenID)] = struct{}{}
	return nil
}

func (t *TokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID, tokenID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tokens[tokenKey(tokenType, userID, tokenID)]
	return ok, nil
}

func (t *TokenStore) Delete(ctx context.Context, tokenType jwt.TokenType, userID, tokenID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tokens, tokenKey(tokenType, userID, tokenID))
	return nil
}

func (t *TokenStore) RevokeAll(ctx context.Context, userID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key := range t.tokens {
		if strings.Contains(key, "_token:"+userID+":") {
			delete(t.tokens, key)
		}
	}
	return nil
}

func (t *TokenStore) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tokens)
}

var errPasswordMismatch = errors.New("password mismatch")

// PasswordHasher prefixes passwords instead of hashing them.
type PasswordHasher struct{}

func (PasswordHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (PasswordHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errPasswordMismatch
	}
	return nil
}

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	Events []event.Event
}

func (p *Publisher) Publish(ctx context.Context, key string, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, e)
	return nil
}

func (p *Publisher) Close() error { return nil }

func (p *Publisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo.Map(p.Events, func(e event.Event, _ int) string { return e.Name })
}
