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

type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
	}
}

func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin := entity.NewAdmin()
	if !decodeEntity(w, r, admin) {
		return
	}
	admin.ID = ""

	created, err := h.adminUsecase.Add(r.Context(), admin)
	if err != nil {
		writeError(w, err, "Failed to create admin")
		return
	}

	response.Success(w, http.StatusCreated, "Admin created successfully", converter.AdminToResponse(created))
}

func (h *AdminHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, userFilters)
	if err != nil {
		writeError(w, err, "Invalid query parameters")
		return
	}

	admins, err := h.adminUsecase.GetAll(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to get admins")
		return
	}
	total, err := h.adminUsecase.Count(r.Context(), q)
	if err != nil {
		writeError(w, err, "Failed to count admins")
		return
	}

	response.List(w, "Admins retrieved successfully", converter.AdminsToResponses(admins), pageMeta(q, total))
}

func (h *AdminHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["admin_id"]

	admin, err := h.adminUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get admin")
		return
	}
	if admin == nil {
		response.Detail(w, http.StatusNotFound, exception.MsgAdminNotFound, exception.DescAdminNotFound)
		return
	}

	response.Success(w, http.StatusOK, "Admin retrieved successfully", converter.AdminToResponse(admin))
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	admin := entity.NewAdmin()
	if !decodeEntity(w, r, admin) {
		return
	}
	admin.ID = mux.Vars(r)["admin_id"]

	updated, err := h.adminUsecase.Update(r.Context(), admin)
	if err != nil {
		writeError(w, err, "Failed to update admin")
		return
	}
	if updated == nil {
		response.Detail(w, http.StatusNotFound, exception.MsgAdminNotFound, exception.DescAdminNotFound)
		return
	}

	response.Success(w, http.StatusOK, "Admin updated successfully", converter.AdminToResponse(updated))
}
