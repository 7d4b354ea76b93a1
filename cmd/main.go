package main

import (
	"bytes"
	"cheapcity/input"
	"cheapcity/pipeline"
	"cheapcity/stats"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/rboyer/safeio"
)

var (
	inputPath  string
	outputPath string
	numWorkers int
	skipHeader bool
	topN       int
	showStats  bool
	verbose    bool
	profile    bool
)

func init() {
	flag.StringVar(&inputPath, "input", "input.txt", "input file")
	flag.StringVar(&outputPath, "output", "output.txt", "report file")
	flag.IntVar(&numWorkers, "workers", runtime.NumCPU(), "number of workers")
	flag.BoolVar(&skipHeader, "header", true, "skip the first line of the input")
	flag.IntVar(&topN, "top", 5, "products to report for the cheapest city")
	flag.BoolVar(&showStats, "stats", false, "print worker and city tables to stderr")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.BoolVar(&profile, "profile", false, "profile cpu")
}

func main() {
	flag.Parse()

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, opts))

	if err := run(logger); err != nil {
		logger.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	if profile {
		f, err := os.Create("cpu_profile.pprof")
		if err != nil {
			return fmt.Errorf("unable to create CPU profile: %w", err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("unable to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	buf, err := input.Open(inputPath)
	if err != nil {
		return err
	}
	defer buf.Close()

	p := pipeline.New(
		pipeline.WithWorkers(numWorkers),
		pipeline.WithHeader(skipHeader),
		pipeline.WithTopN(topN),
		pipeline.WithLogger(logger),
	)
	res, err := p.Run(context.Background(), buf.Bytes())
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if _, err := res.Report.WriteTo(&out); err != nil {
		return fmt.Errorf("unable to render report: %w", err)
	}
	if _, err := safeio.WriteToFile(&out, outputPath, 0644); err != nil {
		return fmt.Errorf("unable to write report: %w", err)
	}

	logger.Info("report written",
		slog.String("output", outputPath),
		slog.String("city", res.Report.City),
		slog.Int("records", res.Aggregate.Records),
		slog.Duration("elapsed", res.Elapsed),
	)

	if showStats {
		stats.PrintWorkers(os.Stderr, res.Workers)
		stats.PrintCities(os.Stderr, res.Aggregate, 10)
	}
	return nil
}
