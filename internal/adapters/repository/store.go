// Package repository defines the ranked deck store interface and errors.
package repository

import (
	"context"

	"github.com/shiftmatch/shiftmatch/internal/domain/model"
)

// Entry is one row of the ranked deck.
type Entry struct {
	Position    int             `json:"position"`
	CandidateID string          `json:"candidateId"`
	TotalScore  float64         `json:"totalScore"`
	Breakdown   model.Breakdown `json:"breakdown"`
}

// Store provides read/write access to the ranked deck.
type Store interface {
	// Upsert writes a candidate's match result, replacing any previous
	// score. Replacement, not best-wins: a re-scored candidate reflects the
	// current profile, and the old score is stale by definition.
	Upsert(ctx context.Context, result model.MatchResult) error

	// Rank returns the deck position and score for a candidate.
	// Returns ErrNotFound for unknown candidates.
	Rank(ctx context.Context, candidateID string) (Entry, error)

	// TopN returns the first n deck entries ordered by score descending,
	// candidate id ascending on ties.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of candidates currently in the deck.
	Count(ctx context.Context) int

	// Reset empties the deck; used when the seeker profile changes.
	Reset(ctx context.Context)
}
