// Package apierror defines the error values returned by services and routes.
// Every value carries the HTTP status it maps to and marshals as the uniform
// failure envelope, so controllers never format error JSON themselves.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse interface {
	error
	Code() int
}

type Simple struct {
	status  int
	Success bool   `json:"success"`
	Message string `json:"error"`
}

func NewSimple(status int, message string) *Simple {
	return &Simple{status: status, Message: message}
}

func (e *Simple) Error() string {
	return e.Message
}

func (e *Simple) Code() int {
	return e.status
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Internal server error")
	NotFoundError         = NewSimple(http.StatusNotFound, "Resource not found")
	ForbiddenError        = NewSimple(http.StatusForbidden, "Not authorized to access this resource")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Not authorized to access this route")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "Malformed request body")
	MissingFileError      = NewSimple(http.StatusBadRequest, "Please attach a file")
	FileTooLargeError     = NewSimple(http.StatusBadRequest, "File exceeds the maximum allowed size")
	NotAnImageError       = NewSimple(http.StatusBadRequest, "Only image files are allowed")

	CredentialsMismatchError  = NewSimple(http.StatusUnauthorized, "Invalid credentials")
	UserAlreadyExistsError    = NewSimple(http.StatusConflict, "A user with this email already exists")
	UserNotFoundError         = NewSimple(http.StatusNotFound, "User not found")
	UserAlreadyConfirmedError = NewSimple(http.StatusConflict, "Email already confirmed")
	ConfirmCodeMismatchError  = NewSimple(http.StatusBadRequest, "Invalid confirmation code")
	ConfirmCodeExpiredError   = NewSimple(http.StatusBadRequest, "Confirmation code expired")
	EmailNotConfirmedError    = NewSimple(http.StatusForbidden, "Email address must be confirmed")

	UnknownServiceError    = NewSimple(http.StatusBadRequest, "Unknown service")
	SlotNotAvailableError  = NewSimple(http.StatusConflict, "Time slot is not available")
	AppointmentInPastError = NewSimple(http.StatusBadRequest, "Appointment must be in the future")
)

func NewMissingParamError(name string) *Simple {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter: %s", name))
}

func NewInvalidParamTypeError(name, expected string) *Simple {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter %s must be a %s", name, expected))
}

// FromValidationError converts validator failures into a single 400 response
// naming the offending fields and rules.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
	}
	return NewSimple(http.StatusBadRequest, "Validation failed: "+strings.Join(fields, ", "))
}
