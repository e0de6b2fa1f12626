// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shiftmatch/shiftmatch/internal/domain/availability"
	"github.com/shiftmatch/shiftmatch/internal/domain/geo"
	"github.com/shiftmatch/shiftmatch/internal/domain/model"
)

// CandidateDependencies defines the interface for candidate submission.
type CandidateDependencies interface {
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	Enqueue(ctx context.Context, c model.Candidate) bool
}

// candidateRequest mirrors the OpenAPI schema for POST /candidates.
// Location and availability are optional; their sub-scores degrade to zero
// when absent.
type candidateRequest struct {
	CandidateID   string              `json:"candidate_id"`
	Location      *geo.Location       `json:"location,omitempty"`
	Availability  availability.Record `json:"availability,omitempty"`
	JobSkillScore float64             `json:"job_skill_score"`
}

func (c candidateRequest) validate() error {
	if strings.TrimSpace(c.CandidateID) == "" {
		return errors.New("missing candidate_id")
	}
	return nil
}

// CandidatesHandler handles candidate submissions.
type CandidatesHandler struct {
	deps CandidateDependencies
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps CandidateDependencies) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

// HandlePostCandidate handles POST /candidates requests.
func (h *CandidatesHandler) HandlePostCandidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_candidate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.CandidateID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	candidate := model.Candidate{
		CandidateID:   req.CandidateID,
		Location:      req.Location,
		Availability:  req.Availability,
		JobSkillScore: req.JobSkillScore,
	}

	// Try to enqueue for async scoring
	if ok := h.deps.Enqueue(r.Context(), candidate); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.CandidateID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
