package metrics

import (
	"sync"
	"time"
)

type seasonStats struct {
	renders           int
	renderErrors      int
	lastRenderLatency time.Duration
	loads             int
	loadErrors        int
	rows              int
	lastLoadLatency   time.Duration
}

// Recorder captures lightweight, in-memory metrics about chart renders and
// dataset loads, forwarding to OpenTelemetry instruments when configured.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*seasonStats
	rateLimited int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*seasonStats),
		otel:  otel,
	}
}

// RecordChartRender counts a chart render for a season and stores its latency.
func (r *Recorder) RecordChartRender(season, format string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.update(season, func(s *seasonStats) {
		s.renders++
		s.lastRenderLatency = duration
		if err != nil {
			s.renderErrors++
		}
	})
	if r.otel != nil {
		r.otel.recordChartRender(season, format, duration, err)
	}
}

// RecordDatasetLoad counts a season load and stores the row count of the last success.
func (r *Recorder) RecordDatasetLoad(season string, rows int, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.update(season, func(s *seasonStats) {
		s.loads++
		s.lastLoadLatency = duration
		if err != nil {
			s.loadErrors++
			return
		}
		s.rows = rows
	})
	if r.otel != nil {
		r.otel.recordDatasetLoad(season, rows, duration, err)
	}
}

// RecordRateLimited counts a request rejected by the render limiter.
func (r *Recorder) RecordRateLimited(path string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.rateLimited++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordRateLimited(path)
	}
}

// RateLimited returns the number of requests rejected by the render limiter.
func (r *Recorder) RateLimited() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rateLimited
}

// Snapshot returns a copy of the current stats for a season.
type Snapshot struct {
	Renders           int
	RenderErrors      int
	LastRenderLatency time.Duration
	Loads             int
	LoadErrors        int
	Rows              int
	LastLoadLatency   time.Duration
}

func (r *Recorder) Snapshot(season string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(season)
	return Snapshot{
		Renders:           stats.renders,
		RenderErrors:      stats.renderErrors,
		LastRenderLatency: stats.lastRenderLatency,
		Loads:             stats.loads,
		LoadErrors:        stats.loadErrors,
		Rows:              stats.rows,
		LastLoadLatency:   stats.lastLoadLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordReloadCycle tracks background reload cycles and errors.
func (r *Recorder) RecordReloadCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordReload(duration, err)
}

func (r *Recorder) update(season string, fn func(*seasonStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[season]
	if !ok {
		stats = &seasonStats{}
		r.stats[season] = stats
	}
	fn(stats)
}

func (r *Recorder) snapshot(season string) seasonStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[season]; ok && stats != nil {
		return *stats
	}
	return seasonStats{}
}
