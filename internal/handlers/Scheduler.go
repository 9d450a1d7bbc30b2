package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"CryptoReportBot/internal/operations/price"
	"CryptoReportBot/internal/services/analysis"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// ReportSink receives every scheduled report.
type ReportSink interface {
	Publish(ctx context.Context, runID string, r *analysis.Report, text string) error
}

// Status is the operational state shown by the HTTP and Telegram front ends.
type Status struct {
	Running       bool          `json:"running"`
	PrimarySymbol string        `json:"primary_symbol"`
	Interval      time.Duration `json:"interval"`
	Symbols       []string      `json:"supported_symbols"`
	LastAnalysis  time.Time     `json:"last_analysis"`
	LastSymbol    string        `json:"last_symbol"`
	NextAnalysis  time.Time     `json:"next_analysis"`
}

// Scheduler produces a report for one symbol every interval and hands it
// to the sinks. Provider failures are retried with exponential backoff.
type Scheduler struct {
	analyzer   *AnalysisHandler
	sinks      []ReportSink
	symbol     string
	interval   time.Duration
	maxElapsed time.Duration
	logger     *zap.Logger
	newBackOff func() backoff.BackOff

	mu      sync.RWMutex
	running bool
	nextRun time.Time
}

func NewScheduler(
	analyzer *AnalysisHandler,
	symbol string,
	interval, maxElapsed time.Duration,
	logger *zap.Logger,
	sinks ...ReportSink,
) *Scheduler {
	s := &Scheduler{
		analyzer:   analyzer,
		sinks:      sinks,
		symbol:     symbol,
		interval:   interval,
		maxElapsed: maxElapsed,
		logger:     logger,
	}
	s.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = s.maxElapsed
		return b
	}
	return s
}

// AddSink registers another sink. It must be called before Start.
func (s *Scheduler) AddSink(sink ReportSink) {
	s.sinks = append(s.sinks, sink)
}

// Start runs immediately and then every interval until ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.setRunning(true)
	defer s.setRunning(false)

	s.logger.Info("Starting scheduled analysis",
		zap.String("symbol", s.symbol),
		zap.Duration("interval", s.interval))

	for {
		s.setNextRun(time.Now().Add(s.interval))
		if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("Scheduled analysis failed", zap.String("symbol", s.symbol), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Stopping scheduled analysis")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce generates one report and publishes it to every sink. Only
// provider failures are retried.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	runID := ulid.Make().String()
	logger := s.logger.With(zap.String("runId", runID), zap.String("symbol", s.symbol))

	var (
		r    *analysis.Report
		text string
	)
	operation := func() error {
		var err error
		r, text, err = s.analyzer.Analyze(ctx, s.symbol)
		var providerErr *price.ProviderError
		if err != nil && !errors.As(err, &providerErr) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Analysis attempt failed, retrying", zap.Error(err), zap.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(s.newBackOff(), ctx), notify); err != nil {
		return err
	}

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, runID, r, text); err != nil {
			logger.Error("Failed to deliver report", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) Status() Status {
	last, lastSymbol := s.analyzer.LastAnalysis()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Running:       s.running,
		PrimarySymbol: s.symbol,
		Interval:      s.interval,
		Symbols:       s.analyzer.Symbols(),
		LastAnalysis:  last,
		LastSymbol:    lastSymbol,
		NextAnalysis:  s.nextRun,
	}
}

func (s *Scheduler) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

func (s *Scheduler) setNextRun(t time.Time) {
	s.mu.Lock()
	s.nextRun = t
	s.mu.Unlock()
}
