package pipeline

import (
	"bytes"
	"cheapcity/agg"
	"cheapcity/partition"
	"cheapcity/report"
	"cheapcity/stats"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrWorkerCount = errors.New("collected aggregate count does not match partition count")

type Pipeline struct {
	workers    int
	skipHeader bool
	topN       int
	logger     *slog.Logger
}

type Result struct {
	Report    report.Report
	Aggregate *agg.Aggregate
	Workers   []stats.Worker
	Elapsed   time.Duration
}

func New(options ...Option) *Pipeline {
	p := &Pipeline{
		workers:    max(runtime.NumCPU(), 1),
		skipHeader: true,
		topN:       report.DefaultTopN,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		p = opt(p)
	}
	return p
}

// Run computes the report for buf. buf is only read, never modified.
func (p *Pipeline) Run(ctx context.Context, buf []byte) (*Result, error) {
	start := time.Now()

	body, base := buf, 0
	if p.skipHeader {
		body, base = SkipHeader(buf)
		p.logger.Debug("skipped header", slog.Int("bytes", base))
	}

	ranges := partition.Split(body, p.workers)
	p.logger.Debug("partitioned input",
		slog.Int("bytes", len(body)),
		slog.Int("partitions", len(ranges)),
	)

	parts, workers, err := Execute(ctx, body, ranges, base, p.logger)
	if err != nil {
		return nil, err
	}

	mergeStart := time.Now()
	global := agg.Merge(parts)
	p.logger.Debug("merged partial aggregates",
		slog.Int("cities", global.Cities.Len()),
		slog.Int("products", global.Products.Len()),
		slog.Int("records", global.Records),
		slog.Duration("elapsed", time.Since(mergeStart)),
	)

	rep, err := report.Select(global, p.topN)
	if err != nil {
		return nil, err
	}

	return &Result{
		Report:    rep,
		Aggregate: global,
		Workers:   workers,
		Elapsed:   time.Since(start),
	}, nil
}

// SkipHeader drops the first line of buf. It returns the remaining bytes
// and how many bytes were dropped. A buffer without a newline is all header.
func SkipHeader(buf []byte) ([]byte, int) {
	newline := bytes.IndexByte(buf, '\n')
	if newline < 0 {
		return buf[len(buf):], len(buf)
	}
	return buf[newline+1:], newline + 1
}

// Execute scans every range concurrently and waits for all of them. The
// first failure cancels the remaining scans and is returned.
func Execute(
	ctx context.Context,
	buf []byte,
	ranges []partition.Range,
	base int,
	logger *slog.Logger,
) ([]*agg.Aggregate, []stats.Worker, error) {
	g, gctx := errgroup.WithContext(ctx)

	parts := make([]*agg.Aggregate, len(ranges))
	workers := make([]stats.Worker, len(ranges))

	for i, rng := range ranges {
		g.Go(func() error {
			start := time.Now()
			a, err := agg.Scan(gctx, buf, rng, base)
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}

			parts[i] = a
			workers[i] = stats.Worker{
				ID:       i,
				Range:    partition.Range{Start: base + rng.Start, End: base + rng.End},
				Records:  a.Records,
				Cities:   a.Cities.Len(),
				Products: a.Products.Len(),
				Elapsed:  time.Since(start),
			}
			logger.Debug("worker finished",
				slog.Int("worker", i),
				slog.Int("records", a.Records),
				slog.Duration("elapsed", workers[i].Elapsed),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var collected int
	for _, part := range parts {
		if part != nil {
			collected++
		}
	}
	if collected != len(ranges) {
		return nil, nil, fmt.Errorf("%w: %d of %d", ErrWorkerCount, collected, len(ranges))
	}
	return parts, workers, nil
}
