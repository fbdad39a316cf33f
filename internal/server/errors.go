package server

import (
	"encoding/json"
	"net/http"
)

// apiError is a client-visible error with a fixed, already-sanitized
// message. Store and upstream detail never travels through it.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return e.Message }

func errForbidden() *apiError {
	return &apiError{Status: http.StatusForbidden, Message: "forbidden"}
}

func errInternal() *apiError {
	return &apiError{Status: http.StatusInternalServerError, Message: "internal server error"}
}

func errFailedList(resource string) *apiError {
	return &apiError{Status: http.StatusInternalServerError, Message: "failed to list " + resource}
}

func errBadRequest(message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: message}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeAPIError(w http.ResponseWriter, e *apiError) {
	writeJSON(w, e.Status, errorBody{Error: e.Message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
