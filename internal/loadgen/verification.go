package loadgen

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/shiftmatch/shiftmatch/internal/domain/scoring"
)

// scoreTolerance absorbs float formatting and fixed-point storage rounding.
const scoreTolerance = 0.001

// verifyResults checks the service's scores and ordering against a local
// scoring engine fed the same profile and candidates.
func verifyResults(ctx context.Context, config *Config, profile ProfileRequest, candidates []CandidateRequest, rankings, deck []Entry, stats *Stats) error {
	log.Println("verifying results...")

	if len(rankings) == 0 {
		return fmt.Errorf("no rankings to verify")
	}

	expected := computeExpectedScores(ctx, profile, candidates)

	mismatches := 0
	for _, entry := range rankings {
		want, ok := expected[entry.CandidateID]
		if !ok {
			continue
		}
		if math.Abs(entry.TotalScore-want) > scoreTolerance {
			mismatches++
			if config.Verbose {
				log.Printf("score mismatch for %s: service=%.4f local=%.4f",
					entry.CandidateID, entry.TotalScore, want)
			}
		}
	}
	stats.ScoreMismatches = mismatches
	if mismatches > 0 {
		log.Printf("score verification found %d mismatches out of %d rankings", mismatches, len(rankings))
	} else {
		log.Println("all retrieved scores match local scoring")
	}

	sortedRankings := make([]Entry, len(rankings))
	copy(sortedRankings, rankings)
	sort.Slice(sortedRankings, func(i, j int) bool {
		return sortedRankings[i].TotalScore > sortedRankings[j].TotalScore
	})

	if len(deck) > 0 {
		if err := verifyDeckConsistency(sortedRankings, deck); err != nil {
			log.Printf("deck consistency warning: %v", err)
		} else {
			log.Println("deck consistency verified")
		}
	}

	displayTopCandidates(sortedRankings, deck, config.Verbose)

	log.Println("result verification completed")
	return nil
}

// computeExpectedScores runs the real scoring engine locally over the
// submitted candidates.
func computeExpectedScores(ctx context.Context, profile ProfileRequest, candidates []CandidateRequest) map[string]float64 {
	engine := scoring.NewEngine()
	p := scoring.Profile{
		Location:         profile.Location,
		Availability:     profile.Availability,
		MaxDistanceMiles: profile.MaxDistanceMiles,
	}

	expected := make(map[string]float64, len(candidates))
	for _, candidate := range candidates {
		result := engine.Score(ctx, p, candidate.asModel())
		expected[candidate.CandidateID] = result.TotalScore
	}
	return expected
}

// verifyDeckConsistency checks if the deck matches the top rankings.
func verifyDeckConsistency(sortedRankings, deck []Entry) error {
	if len(deck) == 0 {
		return fmt.Errorf("empty deck")
	}

	topRanking := sortedRankings[0]
	topDeck := deck[0]

	if math.Abs(topRanking.TotalScore-topDeck.TotalScore) > scoreTolerance {
		return fmt.Errorf("top deck score (%.3f) does not match top ranked score (%.3f)",
			topDeck.TotalScore, topRanking.TotalScore)
	}

	for i := 1; i < len(deck); i++ {
		if deck[i].TotalScore > deck[i-1].TotalScore {
			return fmt.Errorf("deck not properly sorted: entry %d has higher score than entry %d", i, i-1)
		}
		if deck[i].Position != deck[i-1].Position+1 {
			return fmt.Errorf("deck positions not dense: entry %d has position %d after %d",
				i, deck[i].Position, deck[i-1].Position)
		}
	}

	return nil
}

// displayTopCandidates shows the best matches from rankings and deck.
func displayTopCandidates(sortedRankings, deck []Entry, verbose bool) {
	topN := 10
	if len(sortedRankings) < topN {
		topN = len(sortedRankings)
	}

	log.Printf("top %d candidates from rankings:", topN)
	for i := 0; i < topN; i++ {
		entry := sortedRankings[i]
		log.Printf("   %d. %s - score: %.3f", i+1, entry.CandidateID, entry.TotalScore)
	}

	if len(deck) > 0 {
		deckTopN := topN
		if len(deck) < deckTopN {
			deckTopN = len(deck)
		}

		log.Printf("top %d candidates from deck:", deckTopN)
		for i := 0; i < deckTopN; i++ {
			entry := deck[i]
			log.Printf("   %d. %s - score: %.3f", entry.Position, entry.CandidateID, entry.TotalScore)
		}
	}

	if verbose && len(sortedRankings) > 0 {
		avgScore := calculateAverageScore(sortedRankings)
		log.Printf("score statistics: avg=%.3f max=%.3f min=%.3f",
			avgScore, sortedRankings[0].TotalScore, sortedRankings[len(sortedRankings)-1].TotalScore)
	}
}

// calculateAverageScore calculates the average score from rankings.
func calculateAverageScore(rankings []Entry) float64 {
	if len(rankings) == 0 {
		return 0
	}

	sum := 0.0
	for _, entry := range rankings {
		sum += entry.TotalScore
	}

	return sum / float64(len(rankings))
}
