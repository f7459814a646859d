package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/repositories"
	"github.com/blogem/asset-registry/services"
)

// Controllers holds all controller instances
type Controllers struct {
	Auth             *AuthController
	Assets           *AssetsController
	DeletionRequests *DeletionRequestsController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, repos *repositories.Repositories) *Controllers {
	return &Controllers{
		Auth:             NewAuthController(repos.User),
		Assets:           NewAssetsController(services, repos.Asset),
		DeletionRequests: NewDeletionRequestsController(services),
	}
}

// errorBody is the error half of the response envelope
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// envelope is the uniform JSON response shape:
// {success:true,data:...} | {success:false,error:{code,message,field?}}
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

// decodeJSON decodes a request body, rejecting unknown fields
func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

// respondData writes a success envelope
func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// respondError writes an error envelope with the HTTP status derived
// from the application error code
func respondError(w http.ResponseWriter, err error) {
	body := &errorBody{
		Code:    string(apperrors.CodeUnknown),
		Message: "an unexpected error occurred",
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		body.Code = string(appErr.Code)
		body.Message = appErr.Message
		body.Field = appErr.Field
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(apperrors.Code(body.Code)))
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: body})
}

// respondBadRequest writes a VALIDATION_ERROR envelope for malformed input
func respondBadRequest(w http.ResponseWriter, message string) {
	respondError(w, apperrors.Validation(message))
}

// httpStatus maps application error codes to HTTP status codes
func httpStatus(code apperrors.Code) int {
	switch code {
	case apperrors.CodeUnauthorized:
		return http.StatusForbidden
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeValidation:
		return http.StatusBadRequest
	case apperrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
