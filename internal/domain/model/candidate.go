// Package model contains domain models passed between layers.
package model

import (
	"github.com/shiftmatch/shiftmatch/internal/domain/availability"
	"github.com/shiftmatch/shiftmatch/internal/domain/geo"
)

// Candidate is an externally supplied record to be scored against the
// seeker profile. Location and Availability are optional; JobSkillScore is
// computed by an external skill-similarity service on a 0..40 scale and is
// passed through unvalidated.
type Candidate struct {
	CandidateID   string
	Location      *geo.Location
	Availability  availability.Record
	JobSkillScore float64
}

// Breakdown lists the three independently capped sub-scores of a match.
type Breakdown struct {
	Job          float64 `json:"jobScore"`
	Location     float64 `json:"locationScore"`
	Availability float64 `json:"availabilityScore"`
}

// MatchResult is the immutable, caller-owned outcome of scoring one
// candidate. TotalScore is the unweighted sum of the breakdown, 0..100.
type MatchResult struct {
	CandidateID string    `json:"candidateId"`
	TotalScore  float64   `json:"totalScore"`
	Breakdown   Breakdown `json:"breakdown"`
}
