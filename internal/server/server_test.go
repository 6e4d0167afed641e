package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-shot-charts/internal/config"
	"github.com/preston-bernstein/nba-shot-charts/internal/dataset"
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
	"github.com/preston-bernstein/nba-shot-charts/internal/loader"
	"github.com/preston-bernstein/nba-shot-charts/internal/store"
	"github.com/preston-bernstein/nba-shot-charts/internal/testutil"
	"github.com/preston-bernstein/nba-shot-charts/internal/teststubs"
)

type stubLoader struct {
	mu         sync.Mutex
	loadCalls  int
	startCalls int
	stopCalls  int
	loadErr    error
	stopErr    error
	status     loader.Status
}

func (l *stubLoader) Load(ctx context.Context) error {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadCalls++
	return l.loadErr
}

func (l *stubLoader) Start(ctx context.Context) {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	l.startCalls++
}

func (l *stubLoader) Stop(ctx context.Context) error {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopCalls++
	return l.stopErr
}

func (l *stubLoader) Status() loader.Status {
	return l.status
}

func (l *stubLoader) counts() (load, start, stop int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadCalls, l.startCalls, l.stopCalls
}

func fixtureConfig() config.Config {
	return config.Config{
		Port:    "0",
		Charts:  config.ChartsConfig{Format: "svg", OuterLines: true},
		Metrics: config.MetricsConfig{Enabled: false},
		Datasets: config.DatasetsConfig{
			Source: "fixture",
			Seasons: []config.SeasonConfig{
				{Label: "2010-11"},
				{Label: "2022-23"},
			},
		},
	}
}

func TestServerServesChartsAfterLoad(t *testing.T) {
	cfg := fixtureConfig()
	early := &teststubs.StubSource{
		SeasonVal: shots.NewSeason("2010-11", ""),
		Rows:      testutil.SampleShots("Boston Celtics", 2, 1),
	}
	late := &teststubs.StubSource{
		SeasonVal: shots.NewSeason("2022-23", ""),
		Rows:      testutil.SampleShots("Brooklyn Nets", 1, 1),
	}
	srv := newServerWithSources(cfg, nil, []dataset.Source{early, late})
	if err := srv.loader.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	router := srv.Handler()

	rr := testutil.Serve(router, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(router, http.MethodGet, "/api/teams", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var teams struct {
		Teams []string `json:"teams"`
	}
	testutil.DecodeJSON(t, rr, &teams)
	if strings.Join(teams.Teams, ",") != "Boston Celtics,Brooklyn Nets" {
		t.Fatalf("unexpected teams %v", teams.Teams)
	}

	rr = testutil.Serve(router, http.MethodGet, "/seasons/2010-11/chart?team=Boston+Celtics", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected logging middleware to set a request id")
	}
	if !strings.Contains(rr.Body.String(), "<svg") {
		t.Fatalf("expected svg chart")
	}
}

func TestServerRateLimitsChartsWhenEnabled(t *testing.T) {
	cfg := fixtureConfig()
	cfg.RateLimit = config.RateLimitConfig{RPS: 0.001, Burst: 1}
	src := &teststubs.StubSource{
		SeasonVal: shots.NewSeason("2010-11", ""),
		Rows:      testutil.SampleShots("Boston Celtics", 2, 1),
	}
	srv := newServerWithSources(cfg, nil, []dataset.Source{src})
	if err := srv.loader.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	router := srv.Handler()

	const chart = "/seasons/2010-11/chart?team=Boston+Celtics"
	testutil.AssertStatus(t, testutil.Serve(router, http.MethodGet, chart, nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(router, http.MethodGet, chart, nil), http.StatusTooManyRequests)

	// Pages outside the chart route are never throttled.
	testutil.AssertStatus(t, testutil.Serve(router, http.MethodGet, "/api/teams", nil), http.StatusOK)
}

func TestServerSkipsRateLimitWhenDisabled(t *testing.T) {
	cfg := fixtureConfig()
	src := &teststubs.StubSource{
		SeasonVal: shots.NewSeason("2010-11", ""),
		Rows:      testutil.SampleShots("Boston Celtics", 2, 1),
	}
	srv := newServerWithSources(cfg, nil, []dataset.Source{src})
	if err := srv.loader.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	router := srv.Handler()

	for i := 0; i < 5; i++ {
		rr := testutil.Serve(router, http.MethodGet, "/seasons/2010-11/chart?team=Boston+Celtics", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)
	}
}

func TestServerNotReadyBeforeLoad(t *testing.T) {
	srv := New(fixtureConfig(), nil)
	rr := testutil.Serve(srv.Handler(), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestNewConstructsServerWithFixtureSources(t *testing.T) {
	srv := New(fixtureConfig(), nil)
	if srv == nil || srv.Handler() == nil {
		t.Fatalf("expected server with handler")
	}
	if err := srv.loader.Load(context.Background()); err != nil {
		t.Fatalf("expected fixture load to succeed, got %v", err)
	}
	teams, err := srv.Service().Teams(context.Background())
	if err != nil || len(teams) == 0 {
		t.Fatalf("expected fixture teams, got %v err=%v", teams, err)
	}
}

func TestBuildSources(t *testing.T) {
	cfg := fixtureConfig()
	cfg.Datasets.Seasons[0].Path = "data/2010-11.csv"

	cfg.Datasets.Source = "csv"
	srcs := buildSources(cfg, nil)
	if len(srcs) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(srcs))
	}
	if _, ok := srcs[0].(*dataset.FixtureSource); ok {
		t.Fatalf("expected csv source, got %T", srcs[0])
	}
	if srcs[0].Season().Path != "data/2010-11.csv" {
		t.Fatalf("expected season path carried, got %q", srcs[0].Season().Path)
	}

	cfg.Datasets.Source = "fixture"
	if _, ok := buildSources(cfg, nil)[1].(*dataset.FixtureSource); !ok {
		t.Fatalf("expected fixture source")
	}

	logger, buf := testutil.NewBufferLogger()
	cfg.Datasets.Source = "parquet"
	if _, ok := buildSources(cfg, logger)[0].(*dataset.FixtureSource); ok {
		t.Fatalf("expected csv fallback")
	}
	if !strings.Contains(buf.String(), "unknown dataset source") {
		t.Fatalf("expected fallback warning")
	}
}

func TestBuildStore(t *testing.T) {
	if _, ok := buildStore(context.Background(), config.Config{StoreBackend: "memory"}, nil).(*store.MemoryStore); !ok {
		t.Fatalf("expected memory store")
	}

	st := buildStore(context.Background(), config.Config{StoreBackend: "sqlite", SQLiteDSN: ":memory:"}, nil)
	if _, ok := st.(*store.SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", st)
	}
	_ = st.Close()

	logger, buf := testutil.NewBufferLogger()
	if _, ok := buildStore(context.Background(), config.Config{StoreBackend: "redis"}, logger).(*store.MemoryStore); !ok {
		t.Fatalf("expected memory fallback for unknown backend")
	}
	if !strings.Contains(buf.String(), "unknown store backend") {
		t.Fatalf("expected fallback warning")
	}
}

func TestBuildStoreFallsBackWhenSQLiteFails(t *testing.T) {
	orig := openSQLite
	t.Cleanup(func() { openSQLite = orig })
	openSQLite = func(ctx context.Context, dsn string) (shotStore, error) {
		return nil, errors.New("cannot open")
	}

	logger, buf := testutil.NewBufferLogger()
	if _, ok := buildStore(context.Background(), config.Config{StoreBackend: "sqlite"}, logger).(*store.MemoryStore); !ok {
		t.Fatalf("expected memory fallback")
	}
	if !strings.Contains(buf.String(), "sqlite store unavailable") {
		t.Fatalf("expected fallback warning, got %s", buf.String())
	}
}

func TestBuildRendererFallsBackToSVG(t *testing.T) {
	cfg := fixtureConfig()
	cfg.Charts.Format = "gif"
	cfg.Charts.Width = 400
	r, format := buildRenderer(cfg, nil)
	if format != "svg" {
		t.Fatalf("expected svg fallback, got %s", format)
	}
	if r.Options().Width != 400 || !r.Options().OuterLines {
		t.Fatalf("unexpected renderer options %+v", r.Options())
	}
}

func TestRunFailsWhenDatasetMissing(t *testing.T) {
	cfg := fixtureConfig()
	cfg.Datasets.Source = "csv"
	cfg.Datasets.Seasons = []config.SeasonConfig{{Label: "2010-11", Path: filepath.Join(t.TempDir(), "missing.csv")}}
	srv := New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := srv.Run(ctx, cancel)
	if err == nil {
		t.Fatalf("expected load error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRunLoadsFromCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2010-11.csv")
	csv := "TEAM_NAME,EVENT_TYPE,LOC_X,LOC_Y\nBoston Celtics,Made Shot,0,10\nBoston Celtics,Missed Shot,-220,5\n"
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	cfg := fixtureConfig()
	cfg.Datasets.Source = "csv"
	cfg.Datasets.Seasons = []config.SeasonConfig{{Label: "2010-11", Path: path}}

	srv := New(cfg, nil)
	if err := srv.loader.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	n, err := srv.Service().RowCount(context.Background(), "2010-11")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 rows, got %d err=%v", n, err)
	}
}

func TestGracefulShutdownCallsStopAndShutdown(t *testing.T) {
	ld := &stubLoader{}
	httpSrv := &testutil.StubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, testutil.NewTwoSeasonService(), httpSrv, ld)
	srv.gracefulShutdown()

	if _, _, stops := ld.counts(); stops != 1 {
		t.Fatalf("expected loader Stop to be called once, got %d", stops)
	}
	if httpSrv.Shutdowns() != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.Shutdowns())
	}
}

type closeCountingStore struct {
	*store.MemoryStore
	closes int
}

func (c *closeCountingStore) Close() error {
	c.closes++
	return nil
}

func TestGracefulShutdownClosesStore(t *testing.T) {
	st := &closeCountingStore{MemoryStore: store.NewMemoryStore()}
	srv := newServerWithDeps(config.Config{}, nil, testutil.NewTwoSeasonService(), &testutil.StubHTTPServer{}, &stubLoader{})
	srv.store = st
	srv.gracefulShutdown()
	if st.closes != 1 {
		t.Fatalf("expected store closed once, got %d", st.closes)
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	ld := &stubLoader{}
	blocking := testutil.NewBlockingServer()

	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{}, nil, testutil.NewTwoSeasonService(), blocking, ld)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.Shutdowns() != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.Shutdowns())
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownContinuesWhenLoaderStopErrors(t *testing.T) {
	ld := &stubLoader{stopErr: errors.New("stop failure")}
	httpSrv := &testutil.StubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, testutil.NewTwoSeasonService(), httpSrv, ld)
	srv.gracefulShutdown()

	if httpSrv.Shutdowns() != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.Shutdowns())
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	srv := newServerWithDeps(config.Config{}, nil, testutil.NewTwoSeasonService(), testutil.NewFailingServer(), &stubLoader{})

	stopCalled := make(chan struct{})
	srv.startServer(func() { close(stopCalled) })

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ld := &stubLoader{}
	httpSrv := testutil.NewClosedServer()
	srv := newServerWithDeps(config.Config{}, nil, testutil.NewTwoSeasonService(), httpSrv, ld)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, cancel) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	loads, starts, stops := ld.counts()
	if loads != 1 || starts != 1 || stops != 1 {
		t.Fatalf("expected load/start/stop once each, got %d/%d/%d", loads, starts, stops)
	}
	if httpSrv.Shutdowns() != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.Shutdowns())
	}
}

func TestRunReturnsLoadErrorWithoutStarting(t *testing.T) {
	ld := &stubLoader{loadErr: &dataset.LoadError{Season: "2010-11", Err: dataset.ErrMissingColumn}}
	httpSrv := &testutil.StubHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, testutil.NewTwoSeasonService(), httpSrv, ld)

	err := srv.Run(context.Background(), nil)
	if !errors.Is(err, dataset.ErrMissingColumn) {
		t.Fatalf("expected missing column error, got %v", err)
	}
	_, starts, _ := ld.counts()
	if starts != 0 || httpSrv.Listens() != 0 {
		t.Fatalf("expected nothing started, got starts=%d listens=%d", starts, httpSrv.Listens())
	}
}

func TestHandlerServesThroughMiddleware(t *testing.T) {
	srv := New(fixtureConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "trace-1")
	rr := testutil.ServeRequest(srv.Handler(), req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Header().Get("X-Request-ID") != "trace-1" {
		t.Fatalf("expected request id echoed")
	}
}
