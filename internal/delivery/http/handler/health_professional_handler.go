package handler

import (
	"net/http"

	"account-service/internal/converter"
	"account-service/internal/domain/entity"
	"account-service/internal/domain/exception"
	"account-service/internal/usecase"
	"account-service/pkg/response"

	"github.com/gorilla/mux"
)

type HealthProfessionalHandler struct {
	healthProfessionalUsecase usecase.HealthProfessionalUsecase
	pilotStudyUsecase         usecase.PilotStudyUsecase
}

func NewHealthProfessionalHandler(
	healthProfessionalUsecase usecase.HealthProfessionalUsecase,
	pilotStudyUsecase usecase.PilotStudyUsecase,
) *HealthProfessionalHandler {
	return &HealthProfessionalHandler{
		healthProfessionalUsecase: healthProfessionalUsecase,
		pilotStudyUsecase:         pilotStudyUsecase,
	}
}

func (h *HealthProfessionalHandler) Create(w http.ResponseWriter, r *http.Request) {
	hp := entity.NewHealthProfessional()
	if !decodeEntity(w, r, hp) {
		return
	}
	hp.ID = ""

	created, err := h.healthProfessionalUsecase.Add(r.Context(), hp)
	if err != nil {
		writeError(w, err, "Failed to create health professional")
		return
	}

	response.Success(w, http.StatusCreated, "Health professional created successfully", converter.HealthProfessionalToResponse(created))
}

func (h *HealthProfessionalHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, healthProfessionalFilters)
	if err != nil {
		writeError(w, err, "Invalid query parameters")
		return
	}

	hps, err := h.healthProfessionalUsecase.GetAll(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to get health professionals")
		return
	}
	total, err := h.healthProfessionalUsecase.Count(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to count health professionals")
		return
	}

	response.List(w, "Health professionals retrieved successfully", converter.HealthProfessionalsToResponses(hps), pageMeta(q, total))
}

func (h *HealthProfessionalHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["healthprofessional_id"]

	hp, err := h.healthProfessionalUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get health professional")
		return
	}
	if hp == nil {
		response.Detail(w, http.StatusNotFound, exception.MsgHealthProfessionalNotFound, exception.DescHealthProfessionalNotFound)
		return
	}

	response.Success(w, http.StatusOK, "Health professional retrieved successfully", converter.HealthProfessionalToResponse(hp))
}

func (h *HealthProfessionalHandler) Update(w http.ResponseWriter, r *http.Request) {
	hp := entity.NewHealthProfessional()
	if !decodeEntity(w, r, hp) {
		return
	}
	hp.ID = mux.Vars(r)["healthprofessional_id"]

	updated, err := h.healthProfessionalUsecase.Update(r.Context(), hp)
	if err != nil {
		writeError(w, err, "Failed to update health professional")
		return
	}
	if updated == nil {
		response.Detail(w, http.StatusNotFound, exception.MsgHealthProfessionalNotFound, exception.DescHealthProfessionalNotFound)
		return
	}

	response.Success(w, http.StatusOK, "Health professional updated successfully", converter.HealthProfessionalToResponse(updated))
}

// GetPilotStudies lists the pilot studies the professional belongs to.
func (h *HealthProfessionalHandler) GetPilotStudies(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["healthprofessional_id"]
	q, err := parseQuery(r, pilotStudyFilters)
	if err != nil {
		writeError(w, err, "Invalid query parameters")
		return
	}

	studies, err := h.pilotStudyUsecase.GetAllByHealthProfessional(r.Context(), id, q)
	if err != nil {
		writeError(w, err, "Failed to get pilot studies")
		return
	}
	total, err := h.pilotStudyUsecase.CountPilotStudiesFromHealthProfessional(r.Context(), id, q)
	if err != nil {
		writeError(w, err, "Failed to count pilot studies")
		return
	}

	response.List(w, "Pilot studies retrieved successfully", converter.PilotStudiesToResponses(studies), pageMeta(q, total))
}
