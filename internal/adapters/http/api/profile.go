// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shiftmatch/shiftmatch/internal/domain/availability"
	"github.com/shiftmatch/shiftmatch/internal/domain/geo"
	"github.com/shiftmatch/shiftmatch/internal/domain/scoring"
)

// ProfileDependencies defines the interface for seeker profile management.
type ProfileDependencies interface {
	Profile(ctx context.Context) scoring.Profile
	SetProfile(ctx context.Context, p scoring.Profile)
}

// profileRequest mirrors the OpenAPI schema for PUT /profile. Replacing the
// profile invalidates every previously computed score, so the deck is reset
// as a side effect.
type profileRequest struct {
	Location         *geo.Location       `json:"location,omitempty"`
	Availability     availability.Record `json:"availability,omitempty"`
	MaxDistanceMiles float64             `json:"max_distance_miles,omitempty"`
}

func (p profileRequest) validate() error {
	if p.MaxDistanceMiles < 0 {
		return errors.New("max_distance_miles must not be negative")
	}
	return nil
}

// ProfileHandler handles seeker profile requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleProfile handles GET and PUT /profile requests.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handlePut(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	p := h.deps.Profile(r.Context())
	writeJSON(w, http.StatusOK, profileRequest{
		Location:         p.Location,
		Availability:     p.Availability,
		MaxDistanceMiles: p.MaxDistanceMiles,
	})
}

func (h *ProfileHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_profile"
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	h.deps.SetProfile(r.Context(), scoring.Profile{
		Location:         req.Location,
		Availability:     req.Availability,
		MaxDistanceMiles: req.MaxDistanceMiles,
	})
	writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
}
