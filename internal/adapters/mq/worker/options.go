package worker

import "github.com/shiftmatch/shiftmatch/pkg/logger"

// Option configures a Worker.
type Option func(*Worker)

// WithName sets the worker name used for its logger.
func WithName(name string) Option {
	return func(w *Worker) {
		w.name = name
	}
}

// WithLogger overrides the worker's logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		w.logger = l
	}
}
