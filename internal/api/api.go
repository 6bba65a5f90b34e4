// Package api maps the activity registry onto HTTP. The wire contract is
// fixed: GET /activities returns the raw registry object, mutations return
// {"message": ...} on success and {"detail": ...} on failure.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mergington/activities/internal/events"
	"github.com/mergington/activities/internal/registry"
)

type registryService interface {
	Snapshot() map[string]registry.Activity
	Signup(activity, email string) error
	Unregister(activity, email string) error
}

type Handler struct {
	registry registryService
	events   *events.Hub
}

func Register(mux *http.ServeMux, reg registryService, eventsHub *events.Hub) {
	h := &Handler{registry: reg, events: eventsHub}
	mux.HandleFunc("GET /activities", h.listActivities)
	mux.HandleFunc("POST /activities/{activity}/signup", h.signup)
	mux.HandleFunc("DELETE /activities/{activity}/unregister", h.unregister)
}

func (h *Handler) emit(eventType string, payload map[string]any) {
	if h == nil || h.events == nil {
		return
	}
	h.events.Publish(events.NewEvent(eventType, payload))
}

func (h *Handler) listActivities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.Snapshot())
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	activity := r.PathValue("activity")
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeDetail(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.registry.Signup(activity, email); err != nil {
		writeRegistryError(w, err)
		return
	}
	h.emit(events.TypeSignup, map[string]any{
		"activity": activity,
		"email":    email,
	})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s signed up for %s", email, activity),
	})
}

func (h *Handler) unregister(w http.ResponseWriter, r *http.Request) {
	activity := r.PathValue("activity")
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeDetail(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.registry.Unregister(activity, email); err != nil {
		writeRegistryError(w, err)
		return
	}
	h.emit(events.TypeUnregister, map[string]any{
		"activity": activity,
		"email":    email,
	})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s unregistered from %s", email, activity),
	})
}

func writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case registry.IsKind(err, registry.ErrKindActivityNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case registry.IsKind(err, registry.ErrKindAlreadySignedUp),
		registry.IsKind(err, registry.ErrKindNotRegistered):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(payload); err != nil {
		slog.Error("json encode error", "err", err)
	}
}
