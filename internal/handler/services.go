package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/passkeep/passkeep-go/internal/middleware"
	"github.com/passkeep/passkeep-go/internal/model"
	"github.com/passkeep/passkeep-go/internal/repository"
	"github.com/passkeep/passkeep-go/internal/service"
)

// ServicesHandler handles HTTP requests for the stored service list.
type ServicesHandler struct {
	service *service.VaultService
	tiers   *repository.Tiers
}

// NewServicesHandler creates a new ServicesHandler.
func NewServicesHandler(svc *service.VaultService, tiers *repository.Tiers) *ServicesHandler {
	return &ServicesHandler{service: svc, tiers: tiers}
}

func (h *ServicesHandler) store(w http.ResponseWriter, r *http.Request) (*repository.Store, bool) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse("missing session"))
		return nil, false
	}
	return h.tiers.For(w, r, sessionID), true
}

// HandleList handles GET /api/v1/services requests.
func (h *ServicesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, h.service.List(r.Context(), store, r.URL.Query().Get("q")))
}

// HandleCreate handles POST /api/v1/services requests.
func (h *ServicesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	services, err := h.service.Add(r.Context(), store, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, services)
}

// HandleUpdate handles PUT /api/v1/services/{name} requests.
func (h *ServicesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid service name"))
		return
	}

	var req model.UpdateServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	services, err := h.service.Update(r.Context(), store, name, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, services)
}

// HandleDelete handles DELETE /api/v1/services/{name} requests.
func (h *ServicesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid service name"))
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	services, err := h.service.Delete(r.Context(), store, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, services)
}

// nameParam returns the decoded {name} path segment. chi matches on the raw
// path when the request carries escaped slashes, leaving the segment encoded.
func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			return unescaped
		}
	}
	return name
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, service.ErrPasswordRequired):
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:  "validation failed",
			Fields: model.FieldErrors{model.FieldServicePassword: err.Error()},
		})
	case errors.Is(err, service.ErrServiceNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrServiceUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, model.ErrorResponse{
			Error:  err.Error(),
			Fields: model.FieldErrors{model.FieldGeneral: err.Error()},
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
