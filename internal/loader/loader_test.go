package loader

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-shot-charts/internal/dataset"
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
	"github.com/preston-bernstein/nba-shot-charts/internal/metrics"
	"github.com/preston-bernstein/nba-shot-charts/internal/testutil"
	"github.com/preston-bernstein/nba-shot-charts/internal/teststubs"
)

func stubSource(label string, rows ...shots.Shot) *teststubs.StubSource {
	return &teststubs.StubSource{SeasonVal: shots.NewSeason(label, ""), Rows: rows}
}

func TestLoadReplacesEverySeason(t *testing.T) {
	early := stubSource("2010-11", shots.Shot{TeamName: "A", Outcome: shots.Made})
	late := stubSource("2022-23", shots.Shot{TeamName: "B", Outcome: shots.Missed}, shots.Shot{TeamName: "B"})
	target := &teststubs.StubReplacer{}
	rec := metrics.NewRecorder()

	l := New([]dataset.Source{early, late}, target, nil, rec, 0)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if table, ok := target.Table("2022-23"); !ok || len(table.Shots) != 2 {
		t.Fatalf("expected 2022-23 replaced with 2 rows, got %+v", table)
	}
	if _, ok := target.Table("2010-11"); !ok {
		t.Fatalf("expected 2010-11 replaced")
	}
	if target.BatchCount() != 1 {
		t.Fatalf("expected both seasons replaced in one batch, got %d", target.BatchCount())
	}
	if !l.Status().IsReady() {
		t.Fatalf("expected ready after successful load")
	}
	if got := rec.Snapshot("2022-23").Rows; got != 2 {
		t.Fatalf("expected 2 rows recorded, got %d", got)
	}
}

func TestLoadFailureLeavesStoreUntouched(t *testing.T) {
	early := stubSource("2010-11", shots.Shot{TeamName: "A"})
	late := stubSource("2022-23")
	late.Err = errors.New("no such file")
	target := &teststubs.StubReplacer{}

	l := New([]dataset.Source{early, late}, target, nil, nil, 0)
	err := l.Load(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	le, ok := dataset.AsLoadError(err)
	if !ok || le.Season != "2022-23" {
		t.Fatalf("expected load error for 2022-23, got %v", err)
	}
	if _, ok := target.Table("2010-11"); ok {
		t.Fatalf("expected no season replaced after a failed load")
	}
	status := l.Status()
	if status.IsReady() || status.ConsecutiveFailures != 1 || !strings.Contains(status.LastError, "no such file") {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestLoadWithoutSources(t *testing.T) {
	l := New(nil, &teststubs.StubReplacer{}, nil, nil, 0)
	if err := l.Load(context.Background()); !errors.Is(err, ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestLoadReplaceErrorIsWrapped(t *testing.T) {
	boom := errors.New("disk full")
	sources := []dataset.Source{stubSource("2010-11"), stubSource("2022-23")}
	l := New(sources, &teststubs.StubReplacer{Err: boom}, nil, nil, 0)
	err := l.Load(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected replace error, got %v", err)
	}
	le, ok := dataset.AsLoadError(err)
	if !ok || le.Season != "2010-11,2022-23" {
		t.Fatalf("expected load error naming both seasons, got %v", err)
	}
}

func TestLoadLogsRowsOutsideView(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	src := stubSource("2010-11", shots.Shot{TeamName: "A", X: 900, Y: 0})
	l := New([]dataset.Source{src}, &teststubs.StubReplacer{}, logger, nil, 0)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "rows outside court view") {
		t.Fatalf("expected out-of-view warning, got %s", buf.String())
	}
}

func TestStartDisabledWithoutInterval(t *testing.T) {
	src := stubSource("2010-11")
	l := New([]dataset.Source{src}, &teststubs.StubReplacer{}, nil, nil, 0)
	l.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	if src.Calls.Load() != 0 {
		t.Fatalf("expected no reloads when interval is zero")
	}
	_ = l.Stop(context.Background())
}

func TestStartReloadsOnInterval(t *testing.T) {
	src := stubSource("2010-11", shots.Shot{TeamName: "A"})
	src.Notify = make(chan struct{})
	rec := metrics.NewRecorder()
	l := New([]dataset.Source{src}, &teststubs.StubReplacer{}, nil, rec, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)
	l.Start(ctx)

	select {
	case <-src.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for reload")
	}
	_ = l.Stop(context.Background())
	_ = l.Stop(context.Background())

	if src.Calls.Load() < 1 {
		t.Fatalf("expected at least one reload")
	}
}

func TestReloadFailureKeepsPreviousData(t *testing.T) {
	src := stubSource("2010-11", shots.Shot{TeamName: "A"})
	target := &teststubs.StubReplacer{}
	l := New([]dataset.Source{src}, target, nil, nil, time.Hour)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.SetErr(errors.New("file vanished"))
	l.reloadOnce(context.Background())
	l.reloadOnce(context.Background())

	table, ok := target.Table("2010-11")
	if !ok || len(table.Shots) != 1 {
		t.Fatalf("expected previous data to survive, got %+v", table)
	}
	status := l.Status()
	if status.ConsecutiveFailures != 2 || !status.IsReady() {
		t.Fatalf("expected still ready after 2 failures, got %+v", status)
	}
	l.reloadOnce(context.Background())
	if l.Status().IsReady() {
		t.Fatalf("expected not ready after 3 consecutive failures")
	}
}

func TestStatusIsReady(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		status Status
		want   bool
	}{
		{name: "never loaded", status: Status{}, want: false},
		{name: "loaded", status: Status{LastSuccess: now}, want: true},
		{name: "failing", status: Status{LastSuccess: now, ConsecutiveFailures: 3}, want: false},
	}
	for _, tc := range cases {
		if got := tc.status.IsReady(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSourcesExposesConfiguredSources(t *testing.T) {
	src := stubSource("2010-11")
	l := New([]dataset.Source{src}, &teststubs.StubReplacer{}, nil, nil, 0)
	if got := l.Sources(); len(got) != 1 || got[0].Season().ID != "2010-11" {
		t.Fatalf("unexpected sources %+v", got)
	}
}
