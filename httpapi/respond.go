package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/auth"
	"github.com/harborlane/storefront/payment"
)

// response is the JSON envelope for all API responses.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, response{Status: "success", Message: message, Data: data})
}

// writeError maps domain errors onto HTTP status codes. Unrecognized
// errors become opaque 500s so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, code, response{Status: "error", Message: msg})
}

func statusFor(err error) int {
	var ve validator.ValidationErrors
	var fieldErr storefront.ValidationError

	switch {
	case storefront.IsNotFound(err):
		return http.StatusNotFound
	case storefront.IsConflict(err):
		return http.StatusConflict
	case storefront.IsPrecondition(err),
		errors.Is(err, storefront.ErrInvalidInput),
		errors.Is(err, payment.ErrInvalidSignature),
		errors.As(err, &ve),
		errors.As(err, &fieldErr):
		return http.StatusBadRequest
	case errors.Is(err, storefront.ErrInvalidCredentials),
		errors.Is(err, storefront.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, storefront.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storefront.ErrPaymentSetup):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
