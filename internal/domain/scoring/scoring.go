// Package scoring combines job-skill, distance and schedule-overlap
// sub-scores into the aggregate ranking score used to order the deck.
package scoring

import (
	"context"

	"github.com/shiftmatch/shiftmatch/internal/domain/availability"
	"github.com/shiftmatch/shiftmatch/internal/domain/geo"
	"github.com/shiftmatch/shiftmatch/internal/domain/model"
)

// Sub-score caps and defaults. The three caps sum to the 100-point scale.
const (
	jobScoreCap          = 40.0
	locationScoreCap     = 30.0
	availabilityScoreCap = 30.0

	// DefaultMaxDistanceMiles is used when a profile carries no distance
	// preference. Far beyond any commute, so an unconfigured preference
	// leaves the location sub-score near its cap.
	DefaultMaxDistanceMiles = 50000.0
)

// Profile is the seeker side of every scoring call.
type Profile struct {
	Location         *geo.Location
	Availability     availability.Record
	MaxDistanceMiles float64
}

// maxMiles returns the effective distance preference.
func (p Profile) maxMiles(fallback float64) float64 {
	if p.MaxDistanceMiles > 0 {
		return p.MaxDistanceMiles
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultMaxDistanceMiles
}

// Scorer computes a match result for a candidate against a profile.
type Scorer interface {
	Score(ctx context.Context, profile Profile, candidate model.Candidate) model.MatchResult
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxDistanceMiles sets the fallback distance preference applied to
// profiles that carry none.
func WithMaxDistanceMiles(miles float64) Option {
	return func(e *Engine) {
		if miles > 0 {
			e.defaultMaxMiles = miles
		}
	}
}

// Engine is the pure, synchronous scorer. It holds no per-call state and
// is safe for concurrent use; batch scoring fans out one call per
// candidate with no coordination needed.
type Engine struct {
	defaultMaxMiles float64
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		defaultMaxMiles: DefaultMaxDistanceMiles,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score produces the aggregate match score: the externally supplied job
// sub-score passed through, a distance sub-score decaying linearly to the
// profile's preference, and a schedule-overlap sub-score. Missing optional
// fields degrade their sub-score to 0; Score never fails and never mutates
// its inputs.
func (e *Engine) Score(_ context.Context, profile Profile, candidate model.Candidate) model.MatchResult {
	breakdown := model.Breakdown{
		Job:          candidate.JobSkillScore,
		Location:     e.locationScore(profile, candidate),
		Availability: availabilityScore(profile, candidate),
	}
	return model.MatchResult{
		CandidateID: candidate.CandidateID,
		TotalScore:  breakdown.Job + breakdown.Location + breakdown.Availability,
		Breakdown:   breakdown,
	}
}

// locationScore decays linearly from the cap at distance 0 to zero at the
// preferred maximum, clamped at 0 beyond it.
func (e *Engine) locationScore(profile Profile, candidate model.Candidate) float64 {
	if profile.Location == nil || candidate.Location == nil {
		return 0
	}
	distance := geo.DistanceMiles(*profile.Location, *candidate.Location)
	score := (1 - distance/profile.maxMiles(e.defaultMaxMiles)) * locationScoreCap
	if score < 0 {
		return 0
	}
	return score
}

// availabilityScore scales the schedule-overlap fraction onto its cap. The
// all-pairs overlap count can exceed its denominator, so the contribution
// is clamped to keep the cap honest.
func availabilityScore(profile Profile, candidate model.Candidate) float64 {
	if len(profile.Availability) == 0 || len(candidate.Availability) == 0 {
		return 0
	}
	mine := availability.Normalize(profile.Availability).Weekly
	theirs := availability.Normalize(candidate.Availability).Weekly
	score := availability.OverlapScore(mine, theirs) * availabilityScoreCap
	if score > availabilityScoreCap {
		return availabilityScoreCap
	}
	return score
}
