package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodPost, url, body)
}

// Put performs a PUT request with JSON body.
func (c *HTTPClient) Put(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	return c.sendJSON(ctx, http.MethodPut, url, body)
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitCandidates submits candidates concurrently using worker pools.
func submitCandidates(ctx context.Context, config *Config, candidates []CandidateRequest, stats *Stats) error {
	log.Printf("submitting %d candidates with %d workers...", len(candidates), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/candidates"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	candidateChan := make(chan CandidateRequest, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for candidate := range candidateChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleCandidate(ctx, client, url, candidate)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						log.Printf("progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
							total, len(candidates), succ, dup, fail)
					}
				}
			}
		}()
	}

	go func() {
		defer close(candidateChan)
		for _, candidate := range candidates {
			select {
			case <-ctx.Done():
				return
			case candidateChan <- candidate:
			}
		}
	}()

	wg.Wait()

	stats.CandidatesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.CandidatesSuccessful = int(atomic.LoadInt64(&successful))
	stats.CandidatesDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.CandidatesFailed = int(atomic.LoadInt64(&failed))

	log.Printf("candidate submission completed: successful=%d duplicate=%d failed=%d",
		stats.CandidatesSuccessful, stats.CandidatesDuplicate, stats.CandidatesFailed)

	return nil
}

// submitSingleCandidate submits one candidate and classifies the outcome.
func submitSingleCandidate(ctx context.Context, client *HTTPClient, url string, candidate CandidateRequest) string {
	resp, err := client.Post(ctx, url, candidate)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		return "success"
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
