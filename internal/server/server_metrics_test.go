package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/preston-bernstein/nba-shot-charts/internal/config"
	"github.com/preston-bernstein/nba-shot-charts/internal/dataset"
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
	"github.com/preston-bernstein/nba-shot-charts/internal/metrics"
	"github.com/preston-bernstein/nba-shot-charts/internal/testutil"
	"github.com/preston-bernstein/nba-shot-charts/internal/teststubs"
)

func stubSources() []dataset.Source {
	return []dataset.Source{&teststubs.StubSource{
		SeasonVal: shots.NewSeason("2010-11", ""),
		Rows:      testutil.SampleShots("Boston Celtics", 1, 1),
	}}
}

func TestNewServerWithMetricsHandlesSetupFailure(t *testing.T) {
	origSetup := metricsSetup
	defer func() { metricsSetup = origSetup }()

	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("fail")
	}

	cfg := config.Config{Metrics: config.MetricsConfig{Enabled: true}}

	srv := newServerWithMetrics(cfg, nil, stubSources(), nil)
	if srv.metrics == nil {
		t.Fatalf("expected fallback metrics recorder even on setup failure")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics listener after setup failure")
	}
}

func TestNewServerWithMetricsDisabledSkipsListener(t *testing.T) {
	cfg := config.Config{Metrics: config.MetricsConfig{Enabled: false}}

	srv := newServerWithMetrics(cfg, nil, stubSources(), nil)
	if srv.metrics == nil {
		t.Fatalf("expected recorder to be set even when metrics disabled")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics listener when disabled")
	}
}

func TestNewServerWithMetricsUsesInjectedRecorder(t *testing.T) {
	rec, shutdown := testutil.NewRecorderWithShutdown()
	cfg := config.Config{Metrics: config.MetricsConfig{Enabled: true}}

	srv := newServerWithMetrics(cfg, nil, stubSources(), rec)
	if srv.metrics != rec {
		t.Fatalf("expected injected recorder to be used")
	}
	if srv.metricsStop != nil {
		t.Fatalf("expected no shutdown hook for injected recorder")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected injected shutdown to succeed, got %v", err)
	}
}

func TestLoadedRowsAreRecorded(t *testing.T) {
	rec := metrics.NewRecorder()
	srv := newServerWithMetrics(config.Config{}, nil, stubSources(), rec)
	if err := srv.loader.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	snap := rec.Snapshot("2010-11")
	if snap.Loads != 1 || snap.Rows != 2 {
		t.Fatalf("unexpected load snapshot %+v", snap)
	}
}

func TestMetricsServerLaunchedWhenEnabled(t *testing.T) {
	origSetup := metricsSetup
	defer func() { metricsSetup = origSetup }()

	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error { return nil }, nil
	}

	cfg := config.Config{Metrics: config.MetricsConfig{Enabled: true, Port: "0"}}
	srv := newServerWithMetrics(cfg, nil, stubSources(), nil)
	if srv.metricsServer == nil {
		t.Fatalf("expected metrics listener")
	}
	if srv.metricsServer.Addr() != ":0" {
		t.Fatalf("unexpected metrics addr %q", srv.metricsServer.Addr())
	}
	if srv.metricsStop == nil {
		t.Fatalf("expected metrics shutdown hook")
	}
}
