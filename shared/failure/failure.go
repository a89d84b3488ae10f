// Package failure carries the HTTP status a service error should surface as.
package failure

import (
	"errors"
	"net/http"

	"pxltravel/shared/constant"
)

// Failure is an error whose Message is safe to show to clients under status Code.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

func New(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// BadRequest turns a validation error into a 400. A nil error stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error { return New(http.StatusBadRequest, msg) }

func Unauthorized(msg string) error { return New(http.StatusUnauthorized, msg) }

func Forbidden(msg string) error { return New(http.StatusForbidden, msg) }

func NotFound(msg string) error { return New(http.StatusNotFound, msg) }

func Conflict(msg string) error { return New(http.StatusConflict, msg) }

// UpstreamUnavailable reports a store, cache or blob outage as a retryable 503 without
// exposing the cause. A Failure somewhere in err's chain wins over the outage.
func UpstreamUnavailable(err error) error {
	if err == nil {
		return nil
	}

	var fail *Failure
	if errors.As(err, &fail) {
		return fail
	}

	return New(http.StatusServiceUnavailable, constant.ResponseErrorUpstreamUnavailable)
}

// Is reports whether err carries a Failure with the given code.
func Is(err error, code int) bool {
	return GetCode(err) == code && errors.As(err, new(*Failure))
}

// GetCode is the status err should surface as; anything that is not a Failure is a 500.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
