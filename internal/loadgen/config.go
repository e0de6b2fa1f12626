// Package loadgen generates synthetic candidates and drives the deck API
// end to end: submit, wait, read back, and verify against local scoring.
package loadgen

import (
	"time"

	"github.com/shiftmatch/shiftmatch/internal/domain/availability"
	"github.com/shiftmatch/shiftmatch/internal/domain/geo"
	"github.com/shiftmatch/shiftmatch/internal/domain/model"
)

// Config holds configuration for the load test.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumCandidates int           // Number of candidates to generate
	TopN          int           // Number of top entries to fetch
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for candidates
	LogFile       string        // Log file for test output
	Verbose       bool          // Enable verbose logging
}

// CandidateRequest mirrors the POST /candidates schema.
type CandidateRequest struct {
	CandidateID   string              `json:"candidate_id"`
	Location      *geo.Location       `json:"location,omitempty"`
	Availability  availability.Record `json:"availability,omitempty"`
	JobSkillScore float64             `json:"job_skill_score"`
}

// asModel converts the wire shape to the domain candidate used for local
// expected-score computation.
func (c CandidateRequest) asModel() model.Candidate {
	return model.Candidate{
		CandidateID:   c.CandidateID,
		Location:      c.Location,
		Availability:  c.Availability,
		JobSkillScore: c.JobSkillScore,
	}
}

// ProfileRequest mirrors the PUT /profile schema.
type ProfileRequest struct {
	Location         *geo.Location       `json:"location,omitempty"`
	Availability     availability.Record `json:"availability,omitempty"`
	MaxDistanceMiles float64             `json:"max_distance_miles,omitempty"`
}

// Entry represents a deck entry returned by the API.
type Entry struct {
	Position    int     `json:"position"`
	CandidateID string  `json:"candidateId"`
	TotalScore  float64 `json:"totalScore"`
}

// AckResponse represents the response from candidate submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds load test statistics.
type Stats struct {
	CandidatesGenerated  int
	CandidatesSubmitted  int
	CandidatesSuccessful int
	CandidatesDuplicate  int
	CandidatesFailed     int
	RankingsRetrieved    int
	DeckEntries          int
	ScoreMismatches      int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
