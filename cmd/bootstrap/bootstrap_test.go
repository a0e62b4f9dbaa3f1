package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"account-service/config"
	"account-service/internal/delivery/dto"
	"account-service/internal/testutil"
	"account-service/pkg/jwt"
	"account-service/pkg/response"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unknownID = "5a62be07d6f33400146c9b61"

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

type server struct {
	handler http.Handler
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := testutil.NewStore()
	deps := Dependencies{
		Log: testutil.QuietLogger(),
		JWTService: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			Issuer:        "account-service",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
		}),
		TokenStore:             testutil.NewTokenStore(),
		Hasher:                 testutil.PasswordHasher{},
		Publisher:              &testutil.Publisher{},
		Registry:               prometheus.NewRegistry(),
		UserRepo:               store.UserRepository(),
		AdminRepo:              store.AdminRepository(),
		HealthProfessionalRepo: store.HealthProfessionalRepository(),
		PatientRepo:            store.PatientRepository(),
		PilotStudyRepo:         store.PilotStudyRepository(),
		AuditLogRepo:           store.AuditLogRepository(),
	}
	usecases := NewUsecases(deps)
	require.NoError(t, usecases.Admin.EnsureDefaultAdmin(context.Background(), "admin@mail.com", "admin123"))

	return &server{handler: NewHTTPHandler(deps, usecases)}
}

func (s *server) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func (s *server) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/auth", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &token))
	return token.AccessToken
}

// create posts body and returns the id of the created resource.
func (s *server) create(t *testing.T, path, token, body string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "account_service_http_requests_total")
}

func TestPreflight(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/pilotstudies/"+unknownID, nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedRoutes(t *testing.T) {
	s := newServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/pilotstudies", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/pilotstudies", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing scope", func(t *testing.T) {
		admin := s.login(t, "admin@mail.com", "admin123")
		s.create(t, "/v1/patients", admin, `{"name":"Elvis","email":"elvis@mail.com","password":"secret","gender":"male","birth_date":"1990-01-01"}`)
		patient := s.login(t, "elvis@mail.com", "secret")

		rec := s.do(t, http.MethodPost, "/v1/pilotstudies", patient, `{"name":"p","is_active":true,"start":"2018-05-18","end":"2018-12-18"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = s.do(t, http.MethodGet, "/v1/pilotstudies", patient, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("logged out token is rejected", func(t *testing.T) {
		token := s.login(t, "admin@mail.com", "admin123")
		rec := s.do(t, http.MethodPost, "/v1/auth/logout", token, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.do(t, http.MethodGet, "/v1/pilotstudies", token, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthenticateFailures(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/v1/auth", "", `{"email":"admin@mail.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/auth", "", `{"email":"admin@mail.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Authentication validation: password is required!", env.Error.Description)
}

func TestPilotStudyMembershipOverHTTP(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "admin@mail.com", "admin123")

	h1 := s.create(t, "/v1/healthprofessionals", admin, `{"email":"h1@mail.com","password":"secret","health_area":"nutrition","birth_date":"1980-01-01"}`)
	h2 := s.create(t, "/v1/healthprofessionals", admin, `{"email":"h2@mail.com","password":"secret","health_area":"dentistry","birth_date":"1981-01-01"}`)
	pilotID := s.create(t, "/v1/pilotstudies", admin, `{"name":"pilotstudy","is_active":true,"start":"2018-05-18T10:00:00.000Z","end":"2018-12-18T10:00:00.000Z","health_professionals_id":["`+h1+`"]}`)

	getPilot := func(t *testing.T) dto.PilotStudyResponse {
		t.Helper()
		rec := s.do(t, http.MethodGet, "/v1/pilotstudies/"+pilotID, admin, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var ps dto.PilotStudyResponse
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &ps))
		return ps
	}

	assert.Equal(t, []string{h1}, getPilot(t).HealthProfessionalsID)

	t.Run("associate", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/v1/pilotstudies/"+pilotID+"/healthprofessionals/"+h2, admin, "")
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		// twice is fine
		rec = s.do(t, http.MethodPost, "/v1/pilotstudies/"+pilotID+"/healthprofessionals/"+h2, admin, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		ps := getPilot(t)
		assert.Equal(t, []string{h1, h2}, ps.HealthProfessionalsID)
		assert.Equal(t, 2, ps.TotalHealthProfessionals)
	})

	t.Run("associate unregistered health professional", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/v1/pilotstudies/"+pilotID+"/healthprofessionals/"+unknownID, admin, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, http.StatusBadRequest, env.Error.Code)
		assert.Equal(t, "It is necessary for health professional to be registered before proceeding.", env.Error.Message)
		assert.Equal(t, "The following IDs were verified without registration: "+unknownID, env.Error.Description)
	})

	t.Run("associate on missing pilot study", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/v1/pilotstudies/"+unknownID+"/healthprofessionals/"+h1, admin, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("disassociate", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/v1/pilotstudies/"+pilotID+"/healthprofessionals/"+h1, admin, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		// not a member any more
		rec = s.do(t, http.MethodDelete, "/v1/pilotstudies/"+pilotID+"/healthprofessionals/"+h1, admin, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		assert.Equal(t, []string{h2}, getPilot(t).HealthProfessionalsID)
	})

	t.Run("list members", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/pilotstudies/"+pilotID+"/healthprofessionals", admin, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

		var hps []dto.HealthProfessionalResponse
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &hps))
		require.Len(t, hps, 1)
		assert.Equal(t, int64(1), hps[0].TotalPilotStudies)

		rec = s.do(t, http.MethodGet, "/v1/pilotstudies/"+pilotID+"/healthprofessionals?health_area=nutrition", admin, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))

		rec = s.do(t, http.MethodGet, "/v1/pilotstudies/"+pilotID+"/healthprofessionals?health_area=dentistry", admin, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

		rec = s.do(t, http.MethodGet, "/v1/pilotstudies/"+pilotID+"/patients", admin, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))
	})

	t.Run("membership cannot be patched", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/v1/pilotstudies/"+pilotID, admin, `{"health_professionals_id":["`+h1+`"]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.True(t, strings.Contains(env.Error.Description, "/healthprofessionals/"), env.Error.Description)
	})

	t.Run("missing pilot study", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/pilotstudies/"+unknownID, admin, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/v1/pilotstudies/"+pilotID, admin, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.do(t, http.MethodDelete, "/v1/pilotstudies/"+pilotID, admin, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.do(t, http.MethodGet, "/v1/pilotstudies/"+pilotID, admin, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAuditLogsOverHTTP(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "admin@mail.com", "admin123")

	rec := s.do(t, http.MethodGet, "/v1/auditlogs", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Meta)
	assert.Positive(t, env.Meta.Total)

	rec = s.do(t, http.MethodGet, "/v1/auditlogs/abc", admin, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/auditlogs/99999", admin, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileOwnershipOverHTTP(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "admin@mail.com", "admin123")

	patientBody := func(email string) string {
		return `{"name":"Elvis Aaron","gender":"male","birth_date":"1992-02-29","email":"` + email + `","password":"secret"}`
	}
	s.create(t, "/v1/patients", admin, patientBody("p1@mail.com"))
	p2 := s.create(t, "/v1/patients", admin, patientBody("p2@mail.com"))
	h1 := s.create(t, "/v1/healthprofessionals", admin, `{"email":"h1@mail.com","password":"secret","health_area":"nutrition","birth_date":"1980-01-01"}`)
	s.create(t, "/v1/healthprofessionals", admin, `{"email":"h2@mail.com","password":"secret","health_area":"nutrition","birth_date":"1980-01-01"}`)

	p1Token := s.login(t, "p1@mail.com", "secret")
	h2Token := s.login(t, "h2@mail.com", "secret")

	t.Run("patient edits another patient", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/v1/patients/"+p2, p1Token, `{"email":"stolen@mail.com"}`)
		require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "You don't have permission to access this resource", env.Error.Message)

		s.login(t, "p2@mail.com", "secret")
	})

	t.Run("health professional edits another health professional", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/v1/healthprofessionals/"+h1, h2Token, `{"language":"pt-BR"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	})

	t.Run("admin edits a patient", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/v1/patients/"+p2, admin, `{"language":"pt-BR"}`)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func TestListingFilters(t *testing.T) {
	s := newServer(t)
	admin := s.login(t, "admin@mail.com", "admin123")
	s.create(t, "/v1/pilotstudies", admin, `{"name":"active","is_active":true,"start":"2018-05-18T10:00:00.000Z","end":"2018-12-18T10:00:00.000Z"}`)
	s.create(t, "/v1/pilotstudies", admin, `{"name":"inactive","is_active":false,"start":"2018-05-18T10:00:00.000Z","end":"2018-12-18T10:00:00.000Z"}`)

	t.Run("boolean filter", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/pilotstudies?is_active=false", admin, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	})

	t.Run("datetime filter", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/pilotstudies?start=2018-05-18T10:00:00Z", admin, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))
	})

	t.Run("malformed values", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/pilotstudies?is_active=maybe", admin, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		env := decode(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Value not mapped for is_active: maybe", env.Error.Message)

		rec = s.do(t, http.MethodGet, "/v1/pilotstudies?start=yesterday", admin, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})
}
