package autoexport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/config"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/format"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/metrics"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/schedule"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/sink"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/wallet"
)

// Status receives the auto-export state for display, e.g. a status bar
// widget. Label is a short human-readable string; active reports
// whether periodic export is currently switched on.
type Status interface {
	Update(label string, active bool)
}

type nopStatus struct{}

func (nopStatus) Update(string, bool) {}

// ErrNoWallet is returned by ExportOnce when no wallet is loaded.
var ErrNoWallet = errors.New("no wallet loaded")

// Session coordinates periodic exports for one loaded wallet. It owns
// the config snapshot, the wallet reference, and at most one live
// repeating timer; every state change goes through the event handlers.
type Session struct {
	store   config.Store
	status  Status
	metrics *metrics.Metrics

	mu     sync.Mutex
	cfg    config.Config
	wallet wallet.Reader
	stop   schedule.StopFunc
}

type Option func(*Session)

func WithStatus(status Status) Option {
	return func(s *Session) {
		s.status = status
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// NewSession snapshots the store's current settings. No timer starts
// until a wallet is loaded.
func NewSession(store config.Store, opts ...Option) *Session {
	s := &Session{
		store:  store,
		status: nopStatus{},
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(s)
	}

	s.cfg = config.FromStore(store)

	return s
}

// Bind registers the session's lifecycle handlers on the bus.
func (s *Session) Bind(bus *Bus) {
	bus.OnWalletLoaded(s.WalletLoaded)
	bus.OnWalletClosed(s.WalletClosed)
	bus.OnSettingsChanged(s.SettingsChanged)
}

// WalletLoaded installs the wallet and, if an interval is configured,
// starts the repeating timer.
func (s *Session) WalletLoaded(ctx context.Context, w wallet.Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wallet = w
	s.restartTimerLocked(ctx)
}

// WalletClosed cancels any running timer and clears the wallet.
func (s *Session) WalletClosed(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimerLocked()
	s.wallet = nil

	zerolog.Ctx(ctx).Debug().Msg("wallet closed, auto-export stopped")
}

// SettingsChanged re-snapshots the configuration, unconditionally
// cancels the current timer, restarts it when a wallet is loaded and an
// interval is set, and refreshes the status indicator.
func (s *Session) SettingsChanged(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = config.FromStore(s.store)
	s.restartTimerLocked(ctx)
	s.updateStatusLocked()
}

// Close cancels the timer. The session may be reused by loading another
// wallet afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimerLocked()
}

// Config returns the session's current settings snapshot.
func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg
}

func (s *Session) cancelTimerLocked() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

func (s *Session) restartTimerLocked(ctx context.Context) {
	s.cancelTimerLocked()

	if s.wallet == nil || s.cfg.Interval() <= 0 {
		return
	}

	s.stop = schedule.Repeat(ctx, s.cfg.Interval(), func(ctx context.Context) {
		// Failures are logged inside ExportOnce; a bad cycle must not
		// stop the loop.
		_ = s.ExportOnce(ctx)
	})

	zerolog.Ctx(ctx).Info().
		Int("interval_seconds", s.cfg.IntervalSeconds).
		Msg("auto-export timer started")
}

func (s *Session) updateStatusLocked() {
	if s.cfg.Enabled() {
		s.status.Update(fmt.Sprintf("AutoExport: %dsec.", s.cfg.IntervalSeconds), true)
		return
	}

	s.status.Update("AutoExport", false)
}

// ExportOnce runs a single export cycle against the current snapshot:
// build the table once, then hand it to every enabled sink. Sinks are
// independent; each is attempted regardless of earlier failures. The
// returned error aggregates per-sink failures for callers that care
// (the repeating timer does not).
func (s *Session) ExportOnce(ctx context.Context) error {
	s.mu.Lock()
	cfg := s.cfg
	w := s.wallet
	s.mu.Unlock()

	if w == nil {
		return ErrNoWallet
	}

	logger := zerolog.Ctx(ctx).With().
		Str("export.run_id", uuid.NewString()).
		Logger()
	ctx = logger.WithContext(ctx)

	table, err := format.BuildTable(ctx, w)
	if err != nil {
		logger.Error().Err(err).Msg("export cycle failed")
		s.recordCycle(err)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordHistoryRows(table.Len())
	}

	var errs []error
	for _, target := range sink.FromConfig(cfg) {
		exportErr := target.Export(ctx, table)
		if s.metrics != nil {
			s.metrics.RecordSinkExport(target.Name(), exportErr)
		}

		if exportErr != nil {
			logger.Error().
				Err(exportErr).
				Str("sink", target.Name()).
				Msg("sink export failed")
			errs = append(errs, fmt.Errorf("%s: %w", target.Name(), exportErr))
		}
	}

	err = errors.Join(errs...)
	s.recordCycle(err)

	if err == nil {
		logger.Debug().Int("rows", table.Len()).Msg("export cycle complete")
	}

	return err
}

func (s *Session) recordCycle(err error) {
	if s.metrics != nil {
		s.metrics.RecordCycle(err)
	}
}
