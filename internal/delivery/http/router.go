package http

import (
	"net/http"

	"account-service/internal/delivery/http/handler"
	"account-service/internal/delivery/http/middleware"
	"account-service/internal/domain/entity"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth               *handler.AuthHandler
	User               *handler.UserHandler
	Admin              *handler.AdminHandler
	HealthProfessional *handler.HealthProfessionalHandler
	Patient            *handler.PatientHandler
	PilotStudy         *handler.PilotStudyHandler
	AuditLog           *handler.AuditLogHandler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	metricsMiddleware *middleware.MetricsMiddleware
	gatherer          prometheus.Gatherer
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		metricsMiddleware: metricsMiddleware,
		gatherer:          gatherer,
	}
}

// guard wraps h with a scope check.
func guard(h http.HandlerFunc, scopes ...string) http.Handler {
	return middleware.RequireScope(scopes...)(h)
}

func (r *Router) Setup() *mux.Router {
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/v1").Subrouter()

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("", r.handlers.Auth.Authenticate).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.handlers.Auth.RefreshToken).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/auth/logout", r.handlers.Auth.Logout).Methods(http.MethodPost)

	// Users of any type
	protected.HandleFunc("/users/{user_id}/password", r.handlers.User.ChangePassword).Methods(http.MethodPatch)
	protected.Handle("/users/{user_id}", guard(r.handlers.User.Remove, entity.ScopeAdminsDelete)).Methods(http.MethodDelete)

	// Admins
	admin := r.handlers.Admin
	protected.Handle("/admins", guard(admin.Create, entity.ScopeAdminsCreate)).Methods(http.MethodPost)
	protected.Handle("/admins", guard(admin.GetAll, entity.ScopeAdminsRead)).Methods(http.MethodGet)
	protected.Handle("/admins/{admin_id}", guard(admin.GetByID, entity.ScopeAdminsRead)).Methods(http.MethodGet)
	protected.Handle("/admins/{admin_id}", guard(admin.Update, entity.ScopeAdminsUpdate)).Methods(http.MethodPatch)

	// Health professionals
	hp := r.handlers.HealthProfessional
	protected.Handle("/healthprofessionals", guard(hp.Create, entity.ScopeHealthProfessionalsCreate)).Methods(http.MethodPost)
	protected.Handle("/healthprofessionals", guard(hp.GetAll, entity.ScopeHealthProfessionalsRead)).Methods(http.MethodGet)
	protected.Handle("/healthprofessionals/{healthprofessional_id}", guard(hp.GetByID, entity.ScopeHealthProfessionalsRead)).Methods(http.MethodGet)
	protected.Handle("/healthprofessionals/{healthprofessional_id}", guard(hp.Update, entity.ScopeHealthProfessionalsUpdate)).Methods(http.MethodPatch)
	protected.Handle("/healthprofessionals/{healthprofessional_id}/pilotstudies", guard(hp.GetPilotStudies, entity.ScopePilotsRead)).Methods(http.MethodGet)

	// Patients
	patient := r.handlers.Patient
	protected.Handle("/patients", guard(patient.Create, entity.ScopePatientsCreate)).Methods(http.MethodPost)
	protected.Handle("/patients", guard(patient.GetAll, entity.ScopePatientsRead)).Methods(http.MethodGet)
	protected.Handle("/patients/{patient_id}", guard(patient.GetByID, entity.ScopePatientsRead)).Methods(http.MethodGet)
	protected.Handle("/patients/{patient_id}", guard(patient.Update, entity.ScopePatientsUpdate)).Methods(http.MethodPatch)
	protected.Handle("/patients/{patient_id}/pilotstudies", guard(patient.GetPilotStudies, entity.ScopePilotsRead)).Methods(http.MethodGet)

	// Pilot studies and their membership
	ps := r.handlers.PilotStudy
	protected.Handle("/pilotstudies", guard(ps.Create, entity.ScopePilotsCreate)).Methods(http.MethodPost)
	protected.Handle("/pilotstudies", guard(ps.GetAll, entity.ScopePilotsRead)).Methods(http.MethodGet)
	protected.Handle("/pilotstudies/{pilotstudy_id}", guard(ps.GetByID, entity.ScopePilotsRead)).Methods(http.MethodGet)
	protected.Handle("/pilotstudies/{pilotstudy_id}", guard(ps.Update, entity.ScopePilotsUpdate)).Methods(http.MethodPatch)
	protected.Handle("/pilotstudies/{pilotstudy_id}", guard(ps.Delete, entity.ScopePilotsDelete)).Methods(http.MethodDelete)
	protected.Handle("/pilotstudies/{pilotstudy_id}/healthprofessionals", guard(ps.GetHealthProfessionals, entity.ScopePilotsRead)).Methods(http.MethodGet)
	protected.Handle("/pilotstudies/{pilotstudy_id}/healthprofessionals/{healthprofessional_id}", guard(ps.AssociateHealthProfessional, entity.ScopePilotsUpdate)).Methods(http.MethodPost)
	protected.Handle("/pilotstudies/{pilotstudy_id}/healthprofessionals/{healthprofessional_id}", guard(ps.DisassociateHealthProfessional, entity.ScopePilotsUpdate)).Methods(http.MethodDelete)
	protected.Handle("/pilotstudies/{pilotstudy_id}/patients", guard(ps.GetPatients, entity.ScopePilotsRead)).Methods(http.MethodGet)
	protected.Handle("/pilotstudies/{pilotstudy_id}/patients/{patient_id}", guard(ps.AssociatePatient, entity.ScopePilotsUpdate)).Methods(http.MethodPost)
	protected.Handle("/pilotstudies/{pilotstudy_id}/patients/{patient_id}", guard(ps.DisassociatePatient, entity.ScopePilotsUpdate)).Methods(http.MethodDelete)

	// Audit logs
	protected.Handle("/auditlogs", guard(r.handlers.AuditLog.GetAllAuditLogs, entity.ScopeAuditLogsRead)).Methods(http.MethodGet)
	protected.Handle("/auditlogs/{auditlog_id}", guard(r.handlers.AuditLog.GetAuditLog, entity.ScopeAuditLogsRead)).Methods(http.MethodGet)

	// Preflight for any path, answered by the CORS middleware
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.router.Use(r.metricsMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
