// Package worker runs the asynchronous scoring pipeline: candidates come
// off the queue, get scored against the current profile, and land in the
// ranked deck.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/shiftmatch/shiftmatch/internal/adapters/mq/queue"
	"github.com/shiftmatch/shiftmatch/internal/domain/model"
	"github.com/shiftmatch/shiftmatch/pkg/logger"
	"github.com/shiftmatch/shiftmatch/pkg/metrics"
)

// Shutdown and sizing defaults.
const (
	defaultWorkerMultiplier = 4
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Scorer computes a match result for a candidate against whatever profile
// is current at call time.
type Scorer interface {
	Score(ctx context.Context, c model.Candidate) (model.MatchResult, error)
}

// Deck receives scored results.
type Deck interface {
	Upsert(ctx context.Context, result model.MatchResult) error
}

// Queue defines how workers receive candidates.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Candidate
}

// Worker scores candidates until stopped.
type Worker struct {
	queue  Queue
	scorer Scorer
	deck   Deck
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, scorer Scorer, deck Deck, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		scorer:   scorer,
		deck:     deck,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes candidates until ctx is cancelled, the worker is shut
// down, or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	in := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case c, ok := <-in:
			if !ok {
				return
			}
			if err := w.process(ctx, c); err != nil {
				w.logger.Error(ctx, "candidate processing failed", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight candidate.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "worker shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process scores one candidate and writes the result to the deck.
func (w *Worker) process(ctx context.Context, c queue.Candidate) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	scoreStart := time.Now()
	result, err := w.scorer.Score(ctx, c)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Milliseconds()))
	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "scoring_error")
		w.logger.Error(ctx, "scoring failed",
			logger.String("candidateID", c.CandidateID),
			logger.Error(err),
		)
		return fmt.Errorf("score candidate %s: %w", c.CandidateID, err)
	}

	if err := w.deck.Upsert(ctx, result); err != nil {
		metrics.RecordDeckError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "deck_error")
		w.logger.Error(ctx, "deck update failed",
			logger.String("candidateID", c.CandidateID),
			logger.Error(err),
		)
		return fmt.Errorf("deck upsert for %s: %w", c.CandidateID, err)
	}

	metrics.RecordCandidateScored()
	w.logger.Debug(ctx, "candidate scored",
		logger.String("candidateID", result.CandidateID),
		logger.Float64("totalScore", result.TotalScore),
	)
	return nil
}

// Pool manages a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers; non-positive counts fall
// back to a CPU-based default.
func NewPool(workerCount int, q Queue, scorer Scorer, deck Deck) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, scorer, deck, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts all workers down, bounding the wait per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue first, then drains workers within a pool-wide
// deadline.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.workers[0].queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		close(w.shutdown)
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
