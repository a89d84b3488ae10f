// Package mocks provides tracers for tests: one that discards every span and one that records traced errors.
package mocks

import (
	"context"
	"slices"
	"sync"

	"pxltravel/infras/otel"
)

type noopOtel struct{}

type noopScope struct{}

func NewOtel() otel.Otel {
	return noopOtel{}
}

func NewScope() otel.Scope {
	return noopScope{}
}

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, noopScope{}
}

func (noopScope) End()                           {}
func (noopScope) TraceError(_ error)             {}
func (noopScope) TraceIfError(_ error)           {}
func (noopScope) AddEvent(_ string)              {}
func (noopScope) SetAttribute(_ string, _ any)   {}
func (noopScope) SetAttributes(_ map[string]any) {}

// Recorder is a tracer that keeps every error its scopes are asked to trace.
type Recorder struct {
	mu     sync.Mutex
	errors []error
}

func (r *Recorder) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, recordingScope{recorder: r}
}

// Traced returns the errors recorded so far, in order.
func (r *Recorder) Traced() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.errors)
}

type recordingScope struct {
	noopScope

	recorder *Recorder
}

func (s recordingScope) TraceError(err error) {
	if err == nil {
		return
	}

	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()

	s.recorder.errors = append(s.recorder.errors, err)
}

func (s recordingScope) TraceIfError(err error) {
	s.TraceError(err)
}
