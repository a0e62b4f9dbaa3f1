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

type PilotStudyHandler struct {
	pilotStudyUsecase usecase.PilotStudyUsecase
}

func NewPilotStudyHandler(pilotStudyUsecase usecase.PilotStudyUsecase) *PilotStudyHandler {
	return &PilotStudyHandler{
		pilotStudyUsecase: pilotStudyUsecase,
	}
}

func pilotStudyNotFound(w http.ResponseWriter) {
	response.Detail(w, http.StatusNotFound, exception.MsgPilotStudyNotFound, exception.DescPilotStudyNotFound)
}

// Create
// @Summary Create a pilot study
// @Description Initial health professionals must already be registered. Patients are ignored.
// @Tags PilotStudies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /pilotstudies [post]
func (h *PilotStudyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ps := &entity.PilotStudy{}
	if !decodeEntity(w, r, ps) {
		return
	}
	ps.ID = ""

	created, err := h.pilotStudyUsecase.Create(r.Context(), ps)
	if err != nil {
		writeError(w, err, "Failed to create pilot study")
		return
	}

	response.Success(w, http.StatusCreated, "Pilot study created successfully", converter.PilotStudyToResponse(created))
}

func (h *PilotStudyHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, pilotStudyFilters)
	if err != nil {
		writeError(w, err, "Invalid query parameters")
		return
	}

	studies, err := h.pilotStudyUsecase.GetAll(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to get pilot studies")
		return
	}
	total, err := h.pilotStudyUsecase.Count(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to count pilot studies")
		return
	}

	response.List(w, "Pilot studies retrieved successfully", converter.PilotStudiesToResponses(studies), pageMeta(q, total))
}

func (h *PilotStudyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["pilotstudy_id"]

	ps, err := h.pilotStudyUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get pilot study")
		return
	}
	if ps == nil {
		pilotStudyNotFound(w)
		return
	}

	response.Success(w, http.StatusOK, "Pilot study retrieved successfully", converter.PilotStudyToResponse(ps))
}

// Update
// @Summary Update a pilot study
// @Description Membership lists are rejected, they have their own routes.
// @Tags PilotStudies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param pilotstudy_id path string true "Pilot Study ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pilotstudies/{pilotstudy_id} [patch]
func (h *PilotStudyHandler) Update(w http.ResponseWriter, r *http.Request) {
	ps := &entity.PilotStudy{}
	if !decodeEntity(w, r, ps) {
		return
	}
	ps.ID = mux.Vars(r)["pilotstudy_id"]

	updated, err := h.pilotStudyUsecase.Update(r.Context(), ps)
	if err != nil {
		writeError(w, err, "Failed to update pilot study")
		return
	}
	if updated == nil {
		pilotStudyNotFound(w)
		return
	}

	response.Success(w, http.StatusOK, "Pilot study updated successfully", converter.PilotStudyToResponse(updated))
}

func (h *PilotStudyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["pilotstudy_id"]

	if err := h.pilotStudyUsecase.Remove(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete pilot study")
		return
	}

	response.NoContent(w)
}

func (h *PilotStudyHandler) GetHealthProfessionals(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["pilotstudy_id"]
	q, err := parseQuery(r, healthProfessionalFilters)
	if err != nil {
		writeError(w, err, "Invalid query parameters")
		return
	}

	hps, err := h.pilotStudyUsecase.GetAllHealthProfessionals(r.Context(), id, q)
	if err != nil {
		writeError(w, err, "Failed to get health professionals")
		return
	}
	total, err := h.pilotStudyUsecase.CountHealthProfessionalsFromPilotStudy(r.Context(), id, q)
	if err != nil {
		writeError(w, err, "Failed to count health professionals")
		return
	}

	response.List(w, "Health professionals retrieved successfully", converter.HealthProfessionalsToResponses(hps), pageMeta(q, total))
}

// AssociateHealthProfessional
// @Summary Add a health professional to a pilot study
// @Tags PilotStudies
// @Security BearerAuth
// @Param pilotstudy_id path string true "Pilot Study ID"
// @Param healthprofessional_id path string true "Health Professional ID"
// @Success 204
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pilotstudies/{pilotstudy_id}/healthprofessionals/{healthprofessional_id} [post]
func (h *PilotStudyHandler) AssociateHealthProfessional(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ps, err := h.pilotStudyUsecase.AssociateHealthProfessional(r.Context(), vars["pilotstudy_id"], vars["healthprofessional_id"])
	if err != nil {
		writeError(w, err, "Failed to associate health professional")
		return
	}
	if ps == nil {
		pilotStudyNotFound(w)
		return
	}

	response.NoContent(w)
}

func (h *PilotStudyHandler) DisassociateHealthProfessional(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.pilotStudyUsecase.DisassociateHealthProfessional(r.Context(), vars["pilotstudy_id"], vars["healthprofessional_id"]); err != nil {
		writeError(w, err, "Failed to disassociate health professional")
		return
	}

	response.NoContent(w)
}

func (h *PilotStudyHandler) GetPatients(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["pilotstudy_id"]
	q, err := parseQuery(r, patientFilters)
	if err != nil {
		writeError(w, err, "Invalid query parameters")
		return
	}

	patients, err := h.pilotStudyUsecase.GetAllPatients(r.Context(), id, q)
	if err != nil {
		writeError(w, err, "Failed to get patients")
		return
	}
	total, err := h.pilotStudyUsecase.CountPatientsFromPilotStudy(r.Context(), id, q)
	if err != nil {
		writeError(w, err, "Failed to count patients")
		return
	}

	response.List(w, "Patients retrieved successfully", converter.PatientsToResponses(patients), pageMeta(q, total))
}

func (h *PilotStudyHandler) AssociatePatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ps, err := h.pilotStudyUsecase.AssociatePatient(r.Context(), vars["pilotstudy_id"], vars["patient_id"])
	if err != nil {
		writeError(w, err, "Failed to associate patient")
		return
	}
	if ps == nil {
		pilotStudyNotFound(w)
		return
	}

	response.NoContent(w)
}

func (h *PilotStudyHandler) DisassociatePatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.pilotStudyUsecase.DisassociatePatient(r.Context(), vars["pilotstudy_id"], vars["patient_id"]); err != nil {
		writeError(w, err, "Failed to disassociate patient")
		return
	}

	response.NoContent(w)
}
