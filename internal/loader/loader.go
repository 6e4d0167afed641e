package loader

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-shot-charts/internal/dataset"
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
	"github.com/preston-bernstein/nba-shot-charts/internal/metrics"
)

// ErrNoSources is returned by Load when no season sources were configured.
var ErrNoSources = errors.New("no dataset sources configured")

// Replacer receives freshly loaded season tables. Implementations apply the
// whole batch or none of it.
type Replacer interface {
	ReplaceSeasons(ctx context.Context, tables []shots.Table) error
}

// Loader reads every season source into the store at startup and, when an
// interval is set, reloads them in the background.
type Loader struct {
	sources  []dataset.Source
	target   Replacer
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of dataset loading.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether data has loaded and reloads are not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Loader. An interval of zero or less disables reloading.
func New(sources []dataset.Source, target Replacer, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Loader {
	return &Loader{
		sources:  sources,
		target:   target,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Load reads every source and replaces the store's seasons in one write.
// Nothing is replaced until all sources have loaded, so a failure leaves the
// previous data untouched.
func (l *Loader) Load(ctx context.Context) error {
	start := l.now()
	l.recordAttempt(start)
	err := l.loadAll(ctx)
	if err != nil {
		l.recordFailure(err, start)
		return err
	}
	l.recordSuccess(start)
	return nil
}

// Start begins the reload loop until the context is cancelled or Stop is called.
// It does nothing when reloading is disabled.
func (l *Loader) Start(ctx context.Context) {
	if l.interval <= 0 {
		return
	}
	l.startMu.Lock()
	if l.started {
		l.startMu.Unlock()
		return
	}
	l.started = true
	l.startMu.Unlock()

	l.ticker = time.NewTicker(l.interval)

	go func() {
		l.logInfo("reload loop started", slog.Int64(logging.FieldDurationMS, l.interval.Milliseconds()))
		for {
			select {
			case <-ctx.Done():
				l.stopTicker()
				l.logInfo("reload loop stopped")
				return
			case <-l.done:
				l.stopTicker()
				l.logInfo("reload loop stopped")
				return
			case <-l.ticker.C:
				l.reloadOnce(ctx)
			}
		}
	}()
}

// Stop halts the reload loop.
func (l *Loader) Stop(ctx context.Context) error {
	_ = ctx
	l.stopOnce.Do(func() {
		close(l.done)
		l.stopTicker()
	})
	return nil
}

// Status returns a snapshot of the loader's recent health.
func (l *Loader) Status() Status {
	l.statusMu.RLock()
	defer l.statusMu.RUnlock()
	return l.status
}

// Sources exposes the configured season sources.
func (l *Loader) Sources() []dataset.Source {
	return l.sources
}

func (l *Loader) reloadOnce(ctx context.Context) {
	start := time.Now()
	err := l.Load(ctx)
	if l.metrics != nil {
		l.metrics.RecordReloadCycle(time.Since(start), err)
	}
	if err != nil {
		l.logError("dataset reload failed, keeping previous data", err,
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
	}
}

func (l *Loader) loadAll(ctx context.Context) error {
	if len(l.sources) == 0 {
		return ErrNoSources
	}
	tables := make([]shots.Table, 0, len(l.sources))
	for _, src := range l.sources {
		season := src.Season()
		logging.Debug(l.logger, "loading dataset",
			logging.FieldSeason, season.ID,
			"path", season.Path,
		)
		start := time.Now()
		table, err := src.Load(ctx)
		if l.metrics != nil {
			l.metrics.RecordDatasetLoad(season.ID, len(table.Shots), time.Since(start), err)
		}
		if err != nil {
			if _, ok := dataset.AsLoadError(err); !ok {
				err = &dataset.LoadError{Season: season.ID, Err: err}
			}
			return err
		}
		l.logLoaded(table, time.Since(start))
		tables = append(tables, table)
	}
	if err := l.target.ReplaceSeasons(ctx, tables); err != nil {
		return &dataset.LoadError{Season: seasonIDs(tables), Err: err}
	}
	return nil
}

func seasonIDs(tables []shots.Table) string {
	ids := make([]string, len(tables))
	for i, t := range tables {
		ids[i] = t.Season.ID
	}
	return strings.Join(ids, ",")
}

func (l *Loader) logLoaded(table shots.Table, took time.Duration) {
	outside := 0
	for _, s := range table.Shots {
		if !shots.InBounds(s) {
			outside++
		}
	}
	l.logInfo("dataset loaded",
		logging.FieldSeason, table.Season.ID,
		logging.FieldCount, len(table.Shots),
		logging.FieldDurationMS, took.Milliseconds(),
	)
	if outside > 0 {
		l.logWarn("rows outside court view",
			logging.FieldSeason, table.Season.ID,
			logging.FieldCount, outside,
		)
	}
}

func (l *Loader) stopTicker() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
}

func (l *Loader) logInfo(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}

func (l *Loader) logWarn(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}

func (l *Loader) logError(msg string, err error, attrs ...any) {
	if l.logger != nil {
		l.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (l *Loader) recordAttempt(at time.Time) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.status.LastAttempt = at
}

func (l *Loader) recordSuccess(at time.Time) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.status.ConsecutiveFailures = 0
	l.status.LastError = ""
	l.status.LastSuccess = at
}

func (l *Loader) recordFailure(err error, at time.Time) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.status.ConsecutiveFailures++
	if err != nil {
		l.status.LastError = err.Error()
	}
	l.status.LastAttempt = at
}
