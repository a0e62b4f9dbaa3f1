package handler

import (
	"net/http"
	"strconv"

	"account-service/internal/converter"
	"account-service/internal/domain/entity"
	"account-service/internal/domain/exception"
	"account-service/internal/usecase"
	"account-service/pkg/response"

	"github.com/gorilla/mux"
)

type PatientHandler struct {
	patientUsecase    usecase.PatientUsecase
	pilotStudyUsecase usecase.PilotStudyUsecase
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, pilotStudyUsecase usecase.PilotStudyUsecase) *PatientHandler {
	return &PatientHandler{
		patientUsecase:    patientUsecase,
		pilotStudyUsecase: pilotStudyUsecase,
	}
}

func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	patient := entity.NewPatient()
	if !decodeEntity(w, r, patient) {
		return
	}
	patient.ID = ""

	created, err := h.patientUsecase.Add(r.Context(), patient)
	if err != nil {
		writeError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", converter.PatientToResponse(created))
}

func (h *PatientHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, patientFilters)
	if err != nil {
		writeError(w, err, "Invalid query parameters")
		return
	}

	patients, err := h.patientUsecase.GetAll(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to get patients")
		return
	}
	total, err := h.patientUsecase.Count(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to count patients")
		return
	}

	response.List(w, "Patients retrieved successfully", converter.PatientsToResponses(patients), pageMeta(q, total))
}

// GetByID embeds the patient's pilot studies when ?pilotstudies=true.
func (h *PatientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["patient_id"]
	withPilotStudies, _ := strconv.ParseBool(r.URL.Query().Get("pilotstudies"))

	patient, err := h.patientUsecase.GetByID(r.Context(), id, withPilotStudies)
	if err != nil {
		writeError(w, err, "Failed to get patient")
		return
	}
	if patient == nil {
		response.Detail(w, http.StatusNotFound, exception.MsgPatientNotFound, exception.DescPatientNotFound)
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", converter.PatientToResponse(patient))
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	patient := entity.NewPatient()
	if !decodeEntity(w, r, patient) {
		return
	}
	patient.ID = mux.Vars(r)["patient_id"]

	updated, err := h.patientUsecase.Update(r.Context(), patient)
	if err != nil {
		writeError(w, err, "Failed to update patient")
		return
	}
	if updated == nil {
		response.Detail(w, http.StatusNotFound, exception.MsgPatientNotFound, exception.DescPatientNotFound)
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", converter.PatientToResponse(updated))
}

func (h *PatientHandler) GetPilotStudies(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["patient_id"]
	q, err := parseQuery(r, pilotStudyFilters)
	if err != nil {
		writeError(w, err, "Invalid query parameters")
		return
	}

	studies, err := h.pilotStudyUsecase.GetAllByPatient(r.Context(), id, q)
	if err != nil {
		writeError(w, err, "Failed to get pilot studies")
		return
	}
	total, err := h.pilotStudyUsecase.CountPilotStudiesFromPatient(r.Context(), id, q)
	if err != nil {
		writeError(w, err, "Failed to count pilot studies")
		return
	}

	response.List(w, "Pilot studies retrieved successfully", converter.PilotStudiesToResponses(studies), pageMeta(q, total))
}
