// Package response writes the JSON envelopes every handler answers with.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"pxltravel/shared/constant"
	"pxltravel/shared/failure"
	"pxltravel/shared/logger"
)

const internalErrorMessage = "internal server error"

// Data wraps a successful payload as {"data": ...}.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the failure envelope. Stage names the step of a multi-step flow that failed.
type Error struct {
	Error *string `json:"error,omitempty"`
	Stage *string `json:"stage,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError answers with the Failure carried by err. Anything else is logged and reported
// as a bare internal error so driver and network details never reach the client.
func WithError(writer http.ResponseWriter, err error) {
	WithStageError(writer, constant.Empty, err)
}

func WithStageError(writer http.ResponseWriter, stage string, err error) {
	code, msg := http.StatusInternalServerError, internalErrorMessage

	var fail *failure.Failure
	if errors.As(err, &fail) {
		code, msg = fail.Code, fail.Message
	} else {
		log.Error().Err(err).Str("stage", stage).Msg("unclassified error reached the response")
	}

	body := Error{Error: &msg}
	if stage != constant.Empty {
		body.Stage = &stage
	}

	write(writer, code, body)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		code = http.StatusInternalServerError
		body = []byte(`{"error":"` + internalErrorMessage + `"}`)
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
