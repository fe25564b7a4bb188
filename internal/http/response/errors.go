package response

import "net/http"

func InvalidJSON(w http.ResponseWriter) {
	Error(w, http.StatusBadRequest, "Invalid JSON body")
}

func ValidationError(w http.ResponseWriter, errors map[string][]string) {
	Error(w, http.StatusUnprocessableEntity, errors)
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Authentication required"
	}
	Error(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "You are not allowed to perform this action"
	}
	Error(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, message)
}

func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// ServerError never leaks internal details; log them before calling it.
func ServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "An unexpected server error occurred"
	}
	Error(w, http.StatusInternalServerError, message)
}

func ServiceUnavailable(w http.ResponseWriter, message string) {
	Error(w, http.StatusServiceUnavailable, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Too many requests. Please try again later."
	}
	Error(w, http.StatusTooManyRequests, message)
}
