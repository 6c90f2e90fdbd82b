// Package server exposes the mutation pipeline over HTTP for the admin
// surface. Every response carries the {success, message, data} envelope the
// admin frontend expects.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/pipeline"
	"github.com/alderbrook/civicd/internal/reconcile"
	"github.com/alderbrook/civicd/internal/store"
)

// Server handles the admin HTTP API.
type Server struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// New returns a server over the given pipeline.
func New(p *pipeline.Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipeline: p, logger: logger}
}

// response is the envelope wrapping every API response body.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeData writes a successful envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

// redactCredentials clears a stored credential hash before a record goes out
// in a response. Hashes live only in the on-disk documents; the admin API
// never echoes them.
func redactCredentials(rec model.Record) model.Record {
	if cb, ok := rec.(model.CredentialBearer); ok {
		cb.SetPasswordHash("")
	}
	return rec
}

func redactList(list []model.Record) []model.Record {
	for _, rec := range list {
		redactCredentials(rec)
	}
	return list
}

// writeError writes a failed envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}

// writeFailure maps a pipeline error onto its HTTP status. Validation maps
// to 400, unknown resources to 404, email conflicts to 409; everything else
// is an internal failure whose detail stays out of the response.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var ve *model.ValidationError
	var nf *store.NotFoundError
	var ce *store.ConflictError
	var re *reconcile.ReconciliationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, store.ErrUnknownCollection):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ce):
		writeError(w, http.StatusConflict, ce.Error())
	case errors.As(err, &re):
		s.logger.Error("reconciliation failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "reconciliation failed")
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
