package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveRankings retrieves deck positions for all candidates concurrently.
func retrieveRankings(ctx context.Context, config *Config, candidates []CandidateRequest, stats *Stats) ([]Entry, error) {
	log.Printf("retrieving rankings for %d candidates with %d workers...", len(candidates), config.Workers)

	client := newHTTPClient(config.Timeout)

	candidateIDs := make([]string, len(candidates))
	for i, candidate := range candidates {
		candidateIDs[i] = candidate.CandidateID
	}

	rankings := make([]Entry, len(candidateIDs))
	var (
		retrieved int64
		failed    int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					candidateID := candidateIDs[index]
					entry, err := retrieveSingleRanking(ctx, client, config.BaseURL, candidateID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to get rank for %s: %v", candidateID, err)
						}
					} else {
						rankings[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						log.Printf("ranking progress: %d/%d retrieved (success: %d, failed: %d)",
							total, len(candidateIDs), atomic.LoadInt64(&retrieved), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range candidateIDs {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validRankings := make([]Entry, 0, len(rankings))
	for _, entry := range rankings {
		if entry.CandidateID != "" {
			validRankings = append(validRankings, entry)
		}
	}

	stats.RankingsRetrieved = len(validRankings)

	log.Printf("ranking retrieval completed: retrieved=%d failed=%d",
		len(validRankings), int(atomic.LoadInt64(&failed)))

	return validRankings, nil
}

// retrieveSingleRanking retrieves the deck entry for a single candidate.
func retrieveSingleRanking(ctx context.Context, client *HTTPClient, baseURL, candidateID string) (Entry, error) {
	url := fmt.Sprintf("%s/rank/%s", baseURL, candidateID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return entry, nil
}

// getDeck retrieves the top N deck entries.
func getDeck(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("getting top %d deck entries...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/deck?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var deck []Entry
	if err := json.Unmarshal(body, &deck); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.DeckEntries = len(deck)
	log.Printf("retrieved %d deck entries", len(deck))

	return deck, nil
}
