package handler

import (
	"encoding/json"
	"net/http"

	"account-service/internal/delivery/dto"
	"account-service/internal/usecase"
	"account-service/pkg/response"

	"github.com/gorilla/mux"
)

// UserHandler serves the operations shared by every user type.
type UserHandler struct {
	userUsecase usecase.UserUsecase
}

func NewUserHandler(userUsecase usecase.UserUsecase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

// ChangePassword
// @Summary Change user password
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Param user_id path string true "User ID"
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 204
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{user_id}/password [patch]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.userUsecase.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err, "Failed to change password")
		return
	}

	response.NoContent(w)
}

// Remove
// @Summary Remove a user of any type
// @Tags Users
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Success 204
// @Failure 400 {object} response.Response
// @Router /users/{user_id} [delete]
func (h *UserHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	if err := h.userUsecase.Remove(r.Context(), userID); err != nil {
		writeError(w, err, "Failed to remove user")
		return
	}

	response.NoContent(w)
}
