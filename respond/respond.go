// Package respond writes the API's uniform JSON envelope. Every success
// response is {"success": true, "message": ..., "data": ...} and every error
// is {"success": false, "message": <string or list>}; handlers never encode
// bodies themselves.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/user/portfolio-api/apperror"
)

// Envelope is the success response body.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorEnvelope is the failure response body. Message is a string for single
// failures and a list of strings for multi-field validation failures.
type ErrorEnvelope struct {
	Success bool        `json:"success"`
	Message interface{} `json:"message"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Success: true, Message: message, Data: data}); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

// Error translates err into the error envelope. Errors that are not an
// *apperror.AppError are logged in full and surfaced as a generic internal
// error so stack detail never reaches the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	entry := logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": appErr.StatusCode(),
	})
	if appErr.StatusCode() >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.WithError(err).Debug("request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if encErr := json.NewEncoder(w).Encode(ErrorEnvelope{Success: false, Message: appErr.ClientMessage()}); encErr != nil {
		logrus.WithError(encErr).Error("failed to encode error response")
	}
}
