package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/alderbrook/civicd/internal/auth"
	"github.com/alderbrook/civicd/internal/model"
)

// maxBodyBytes bounds inbound payloads. The collections are small documents;
// anything near this size is not a legitimate admin form submission.
const maxBodyBytes = 1 << 20

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/admin/{collection}", s.handleCreate)
	mux.HandleFunc("GET /v1/admin/{collection}", s.handleList)
	mux.HandleFunc("GET /v1/admin/slides/config", s.handleSlideConfig)
	mux.HandleFunc("GET /v1/admin/{collection}/{id}", s.handleGet)
	mux.HandleFunc("PUT /v1/admin/{collection}/{id}", s.handleUpdate)
	mux.HandleFunc("PATCH /v1/admin/{collection}/{id}", s.handlePartialUpdate)
	mux.HandleFunc("DELETE /v1/admin/{collection}/{id}", s.handleDelete)
	mux.HandleFunc("GET /v1/identities", s.handleIdentities)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	var h http.Handler = mux
	h = RoleMiddleware(h)
	h = AuthMiddleware(authToken, h)
	h = s.loggingMiddleware(s.recoveryMiddleware(h))
	return h
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireMutate rejects callers whose role claim does not allow mutations.
func requireMutate(w http.ResponseWriter, r *http.Request) bool {
	role, ok := auth.RoleFrom(r.Context())
	if !ok || !auth.CanMutate(role) {
		writeError(w, http.StatusForbidden, "role not permitted to modify content")
		return false
	}
	return true
}

// requireMemberRead rejects callers who may not see membership data.
func requireMemberRead(w http.ResponseWriter, r *http.Request) bool {
	role, ok := auth.RoleFrom(r.Context())
	if !ok || !auth.CanReadMembers(role) {
		writeError(w, http.StatusForbidden, "role not permitted to read membership data")
		return false
	}
	return true
}

// readBody returns the request body, bounded by maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	return body, true
}

// handleCreate handles POST /v1/admin/{collection}.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !requireMutate(w, r) {
		return
	}
	typ := model.CollectionType(r.PathValue("collection"))
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	rec, err := s.pipeline.Create(r.Context(), typ, body)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, redactCredentials(rec))
}

// handleList handles GET /v1/admin/{collection}. For the keyed-section
// collection it returns the full section map.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	typ := model.CollectionType(r.PathValue("collection"))
	if typ == model.CollectionMembers && !requireMemberRead(w, r) {
		return
	}
	if c, ok := model.Lookup(typ); ok && c.Envelope == model.EnvelopeSections {
		sections, err := s.pipeline.Sections(r.Context(), typ)
		if err != nil {
			s.writeFailure(w, r, err)
			return
		}
		writeData(w, http.StatusOK, sections)
		return
	}
	list, err := s.pipeline.List(r.Context(), typ)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if list == nil {
		list = []model.Record{}
	}
	writeData(w, http.StatusOK, redactList(list))
}

// handleGet handles GET /v1/admin/{collection}/{id}. For the keyed-section
// collection the id segment names a section.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	typ := model.CollectionType(r.PathValue("collection"))
	id := r.PathValue("id")
	if typ == model.CollectionMembers && !requireMemberRead(w, r) {
		return
	}
	if c, ok := model.Lookup(typ); ok && c.Envelope == model.EnvelopeSections {
		section, err := s.pipeline.Section(r.Context(), typ, id)
		if err != nil {
			s.writeFailure(w, r, err)
			return
		}
		writeData(w, http.StatusOK, section)
		return
	}
	rec, err := s.pipeline.Get(r.Context(), typ, id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, http.StatusOK, redactCredentials(rec))
}

// handleUpdate handles PUT /v1/admin/{collection}/{id}. For the
// keyed-section collection it replaces the named section.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !requireMutate(w, r) {
		return
	}
	typ := model.CollectionType(r.PathValue("collection"))
	id := r.PathValue("id")
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if c, ok := model.Lookup(typ); ok && c.Envelope == model.EnvelopeSections {
		var data map[string]any
		if err := json.Unmarshal(body, &data); err != nil {
			writeError(w, http.StatusBadRequest, "request body must be a JSON object")
			return
		}
		if err := s.pipeline.SaveSection(r.Context(), typ, id, data); err != nil {
			s.writeFailure(w, r, err)
			return
		}
		writeData(w, http.StatusOK, data)
		return
	}
	rec, err := s.pipeline.Update(r.Context(), typ, id, body)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, http.StatusOK, redactCredentials(rec))
}

// handlePartialUpdate handles PATCH /v1/admin/{collection}/{id}.
func (s *Server) handlePartialUpdate(w http.ResponseWriter, r *http.Request) {
	if !requireMutate(w, r) {
		return
	}
	typ := model.CollectionType(r.PathValue("collection"))
	id := r.PathValue("id")
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var patch map[string]any
	if err := json.Unmarshal(body, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}
	rec, err := s.pipeline.PartialUpdate(r.Context(), typ, id, patch)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, http.StatusOK, redactCredentials(rec))
}

// handleDelete handles DELETE /v1/admin/{collection}/{id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !requireMutate(w, r) {
		return
	}
	typ := model.CollectionType(r.PathValue("collection"))
	id := r.PathValue("id")
	if err := s.pipeline.Delete(r.Context(), typ, id); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"id": id})
}

// handleSlideConfig handles GET /v1/admin/slides/config.
func (s *Server) handleSlideConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.pipeline.Config(r.Context(), model.CollectionSlides)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, http.StatusOK, json.RawMessage(cfg))
}

// handleIdentities handles GET /v1/identities.
func (s *Server) handleIdentities(w http.ResponseWriter, r *http.Request) {
	if !requireMemberRead(w, r) {
		return
	}
	views, err := s.pipeline.Identities(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, http.StatusOK, views)
}
