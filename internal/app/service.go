// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	candidatequeue "github.com/shiftmatch/shiftmatch/internal/adapters/mq/queue"
	workerpool "github.com/shiftmatch/shiftmatch/internal/adapters/mq/worker"
	repository "github.com/shiftmatch/shiftmatch/internal/adapters/repository"
	"github.com/shiftmatch/shiftmatch/internal/domain/dedupe"
	"github.com/shiftmatch/shiftmatch/internal/domain/model"
	"github.com/shiftmatch/shiftmatch/internal/domain/scoring"
	"github.com/shiftmatch/shiftmatch/pkg/logger"
	"github.com/shiftmatch/shiftmatch/pkg/metrics"
)

// profileScorer adapts the scoring engine to the worker pool, snapshotting
// the current seeker profile for each candidate.
type profileScorer struct {
	engine  scoring.Scorer
	service *Service
}

func (a *profileScorer) Score(ctx context.Context, c model.Candidate) (model.MatchResult, error) {
	profile := a.service.Profile(ctx)
	return a.engine.Score(ctx, profile, c), nil
}

// Service implements the API dependencies for the match deck system.
type Service struct {
	mu sync.RWMutex

	// Core components
	deck       repository.Store
	deduper    dedupe.Deduper
	queue      candidatequeue.Queue
	engine     scoring.Scorer
	workerPool *workerpool.Pool

	// Seeker profile guarded separately from lifecycle state; the worker
	// pool reads it on every score.
	profileMu sync.RWMutex
	profile   scoring.Profile

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	maxDistanceMiles float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the candidate queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxDistanceMiles sets the distance preference used when the seeker
// profile does not carry one.
func WithMaxDistanceMiles(miles float64) Option {
	return func(s *Service) {
		if miles > 0 {
			s.maxDistanceMiles = miles
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        100000,
		dedupeSize:       50000,
		maxDistanceMiles: scoring.DefaultMaxDistanceMiles,
		stopCh:           make(chan struct{}),
		logger:           nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting match deck service...")

	s.deck = repository.NewDeckStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = candidatequeue.NewInMemoryQueue(
		candidatequeue.WithCapacity(s.queueSize),
	)
	s.engine = scoring.NewEngine(
		scoring.WithMaxDistanceMiles(s.maxDistanceMiles),
	)

	scorer := &profileScorer{engine: s.engine, service: s}
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, scorer, s.deck)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "match deck service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping match deck service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if q, ok := s.queue.(*candidatequeue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "match deck service stopped")
}

// SeenAndRecord atomically checks if a candidate id was seen and records it
// if not. Returns true if the candidate was already seen, false if it was
// newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordCandidateDuplicate()
	}
	return seen
}

// Unrecord removes a candidate ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a candidate for asynchronous scoring. Idempotency is
// owned by the caller via SeenAndRecord/Unrecord so a failed enqueue can
// be rolled back and retried.
func (s *Service) Enqueue(ctx context.Context, c model.Candidate) bool {
	s.logger.Debug(ctx, "received candidate",
		logger.String("candidateID", c.CandidateID),
		logger.Float64("jobSkillScore", c.JobSkillScore),
	)

	if c.CandidateID == "" {
		s.logger.Warn(ctx, "rejecting candidate without id")
		return false
	}

	success := s.queue.Enqueue(ctx, c)
	if success {
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return success
}

// SetProfile replaces the seeker profile and invalidates all previous
// scores: the deck is emptied and the dedupe cache cleared so every
// candidate can be resubmitted and re-scored.
func (s *Service) SetProfile(ctx context.Context, p scoring.Profile) {
	s.profileMu.Lock()
	s.profile = p
	s.profileMu.Unlock()

	s.deck.Reset(ctx)
	s.deduper.Reset(ctx)

	s.logger.Info(ctx, "seeker profile updated, deck reset",
		logger.Bool("hasLocation", p.Location != nil),
		logger.Int("availabilityDays", len(p.Availability)),
	)
}

// Profile returns the current seeker profile.
func (s *Service) Profile(_ context.Context) scoring.Profile {
	s.profileMu.RLock()
	defer s.profileMu.RUnlock()
	return s.profile
}

// TopN returns the top N deck entries.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.deck.TopN(ctx, n)
}

// Rank returns the deck position and score for a given candidate id.
func (s *Service) Rank(ctx context.Context, candidateID string) (repository.Entry, error) {
	return s.deck.Rank(ctx, candidateID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalCandidates := s.deck.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalCandidates"] = totalCandidates

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateDeckSize(totalCandidates)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
