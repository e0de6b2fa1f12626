// Command deck-loadtest generates synthetic candidates, submits them to a
// running ShiftMatch service, and verifies the resulting deck against local
// scoring.
package main

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/shiftmatch/shiftmatch/internal/loadgen"
)

// Default configuration constants.
const (
	defaultNumCandidates    = 10000
	defaultTopN             = 50
	defaultWorkerMultiplier = 2
	defaultTimeout          = 30 * time.Second
	defaultTestTimeout      = 10 * time.Minute
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	baseURL       string
	numCandidates int
	topN          int
	workers       int
	timeout       time.Duration
	outputFile    string
	logFile       string
	verbose       bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "deck-loadtest",
	Short: "Load test the ShiftMatch deck service",
	Long: `deck-loadtest installs a seeker profile, submits generated candidates
concurrently, and verifies deck scores and ordering against a local run of
the same scoring engine.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadgen.SetupLogging(logFile); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), defaultTestTimeout)
		defer cancel()

		config := &loadgen.Config{
			BaseURL:       baseURL,
			NumCandidates: numCandidates,
			TopN:          topN,
			Workers:       workers,
			Timeout:       timeout,
			OutputFile:    outputFile,
			LogFile:       logFile,
			Verbose:       verbose,
		}

		return loadgen.Run(ctx, config)
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.Flags().StringVar(&baseURL, "url", "http://localhost:9080", "Base URL of the service")
	rootCmd.Flags().IntVar(&numCandidates, "candidates", defaultNumCandidates, "Number of candidates to generate and submit")
	rootCmd.Flags().IntVar(&topN, "top", defaultTopN, "Number of top entries to fetch from the deck")
	rootCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU()*defaultWorkerMultiplier, "Number of concurrent workers")
	rootCmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "HTTP request timeout")
	rootCmd.Flags().StringVar(&outputFile, "output", "", "Output file for generated candidates (default: generated_candidates_TIMESTAMP.json)")
	rootCmd.Flags().StringVar(&logFile, "log", "", "Log file for test output (default: loadtest_TIMESTAMP.log)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
