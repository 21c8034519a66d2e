package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"contas/internal/core"
	"contas/internal/log"
)

const readyTimeout = 5 * time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports 503 while the store cannot be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.services.Pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := s.services.Pinger.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed",
				log.FieldComponent, log.ComponentStorage,
				log.FieldError, err)
			ErrorResponse(http.StatusServiceUnavailable, "Storage unavailable").Write(w)
			return
		}
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(core.Categories).Write(w)
}

// writeError maps a service error to a status and a generic client message.
// fallback is used for failures that are neither validation nor not-found.
// The full error is logged; clients only see it in debug mode.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, d core.Domain, op string, err error, fallback string) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	fields := log.NewFields().WithOperation(op).WithError(err)
	if d != "" {
		fields[log.FieldDomain] = d.String()
	}

	var (
		status  int
		message string
	)
	switch {
	case errors.Is(err, core.ErrNotFound):
		status, message = http.StatusNotFound, d.Title()+" not found"
		fields[log.FieldErrorType] = log.ErrorTypeNotFound
		logger.InfoContext(ctx, "Entry not found", fields.ToSlice()...)
	case errors.Is(err, core.ErrValidation):
		status, message = http.StatusBadRequest, "Invalid data provided"
		fields[log.FieldErrorType] = log.ErrorTypeValidation
		logger.WarnContext(ctx, "Invalid request", fields.ToSlice()...)
	default:
		status, message = http.StatusBadRequest, fallback
		fields[log.FieldErrorType] = log.ErrorTypeDatabase
		logger.ErrorContext(ctx, "Request failed", fields.ToSlice()...)
	}

	if s.debug {
		ErrorResponseWithDetail(status, message, err).Write(w)
		return
	}
	ErrorResponse(status, message).Write(w)
}
