package pipeline

import "log/slog"

type Option func(*Pipeline) *Pipeline

// WithWorkers sets how many partitions the input is split into. Values
// below 1 fall back to a single worker.
func WithWorkers(n int) Option {
	return func(p *Pipeline) *Pipeline {
		p.workers = max(n, 1)
		return p
	}
}

// WithHeader controls whether the first line of the input is dropped.
func WithHeader(skip bool) Option {
	return func(p *Pipeline) *Pipeline {
		p.skipHeader = skip
		return p
	}
}

func WithTopN(n int) Option {
	return func(p *Pipeline) *Pipeline {
		p.topN = n
		return p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) *Pipeline {
		p.logger = logger
		return p
	}
}
