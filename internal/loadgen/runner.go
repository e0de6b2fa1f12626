package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shiftmatch/shiftmatch/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting deck load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("candidates", config.NumCandidates),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Install the test profile. This resets the deck, so every
	// score read back afterwards belongs to this run.
	profile := TestProfile()
	if err := installProfile(ctx, config, profile); err != nil {
		return fmt.Errorf("profile installation failed: %w", err)
	}

	// Step 3: Generate candidates
	candidates, err := generateCandidates(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("candidate generation failed: %w", err)
	}

	// Step 4: Submit candidates concurrently
	if err := submitCandidates(ctx, config, candidates, stats); err != nil {
		return fmt.Errorf("candidate submission failed: %w", err)
	}

	// Step 5: Wait for the queue to drain
	logger.Get().Info(ctx, "waiting for candidates to be scored")
	time.Sleep(ProcessingDrainDelay)

	// Step 6: Retrieve rankings concurrently
	rankings, err := retrieveRankings(ctx, config, candidates, stats)
	if err != nil {
		return fmt.Errorf("ranking retrieval failed: %w", err)
	}

	// Step 7: Get the top of the deck
	deck, err := getDeck(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("deck retrieval failed: %w", err)
	}

	// Step 8: Verify results against local scoring
	if err := verifyResults(ctx, config, profile, candidates, rankings, deck, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 9: Save candidates to file
	if err := saveCandidatesToFile(ctx, config, candidates); err != nil {
		logger.Get().Warn(ctx, "failed to save candidates to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "load test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// installProfile replaces the seeker profile before the run.
func installProfile(ctx context.Context, config *Config, profile ProfileRequest) error {
	logger.Get().Info(ctx, "installing test profile")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Put(ctx, config.BaseURL+"/profile", profile)
	if err != nil {
		return fmt.Errorf("failed to put profile: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	logger.Get().Info(ctx, "test profile installed")
	return nil
}

// saveCandidatesToFile saves the generated candidates to a JSON file.
func saveCandidatesToFile(ctx context.Context, config *Config, candidates []CandidateRequest) error {
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_candidates_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(candidates); err != nil {
		return fmt.Errorf("failed to encode candidates: %w", err)
	}

	logger.Get().Info(ctx, "candidates saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final load test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, candidatesPerSecond float64

	if stats.CandidatesSubmitted > 0 {
		successRate = float64(stats.CandidatesSuccessful) / float64(stats.CandidatesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		candidatesPerSecond = float64(stats.CandidatesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("candidatesGenerated", stats.CandidatesGenerated),
		logger.Int("candidatesSubmitted", stats.CandidatesSubmitted),
		logger.Int("candidatesSuccessful", stats.CandidatesSuccessful),
		logger.Int("candidatesDuplicate", stats.CandidatesDuplicate),
		logger.Int("candidatesFailed", stats.CandidatesFailed),
		logger.Int("rankingsRetrieved", stats.RankingsRetrieved),
		logger.Int("deckEntries", stats.DeckEntries),
		logger.Int("scoreMismatches", stats.ScoreMismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("candidatesPerSecond", candidatesPerSecond))
}
