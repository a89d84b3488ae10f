// Package handlers holds the request plumbing every domain handler shares.
package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"pxltravel/infras/otel"
	"pxltravel/shared/failure"
	"pxltravel/shared/validator"
	"pxltravel/transport/http/response"
)

// Fail records err on the span, logs it at warn for client errors and error otherwise,
// then answers with the error envelope.
func Fail(w http.ResponseWriter, scope otel.Scope, msg string, err error) {
	scope.TraceError(err)

	event := log.Error()
	if failure.GetCode(err) < http.StatusInternalServerError {
		event = log.Warn()
	}

	event.Err(err).Msg(msg)

	response.WithError(w, err)
}

// Bind decodes and validates a JSON body. When it returns false the response is already written.
func Bind[T any](w http.ResponseWriter, r *http.Request, scope otel.Scope) (T, bool) {
	var req T

	if err := validator.Validate(r.Body, &req); err != nil {
		Fail(w, scope, "invalid request body", err)

		return req, false
	}

	return req, true
}
