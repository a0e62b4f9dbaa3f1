package response

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ErrorDetail is the body of every failed request.
type ErrorDetail struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List writes a page of items and sets X-Total-Count.
func List(w http.ResponseWriter, message string, data interface{}, meta *Meta) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(meta.Total, 10))
	JSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Detail writes an ErrorDetail under the error key. An empty message falls
// back to the status text.
func Detail(w http.ResponseWriter, statusCode int, message, description string) {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error: ErrorDetail{
			Code:        statusCode,
			Message:     message,
			Description: description,
		},
	})
}

// ValidationError reports per-field failures of a request DTO.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Error:   fields,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	Detail(w, http.StatusBadRequest, message, "")
}

func Unauthorized(w http.ResponseWriter, message string) {
	Detail(w, http.StatusUnauthorized, message, "")
}

func Forbidden(w http.ResponseWriter, message string) {
	Detail(w, http.StatusForbidden, message, "")
}

func NotFound(w http.ResponseWriter, message string) {
	Detail(w, http.StatusNotFound, message, "")
}

func InternalServerError(w http.ResponseWriter, message string) {
	Detail(w, http.StatusInternalServerError, message, "")
}
