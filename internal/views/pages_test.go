package views

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

var errWrite = errors.New("write failed")

func TestHomePageShowsTitleAndButton(t *testing.T) {
	var buf bytes.Buffer
	err := HomePage(HomePageData{Seasons: []string{"2010-11", "2022-23"}}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := buf.String()
	for _, want := range []string{
		"<h1>NBA Team Shot Chart: 2010-11 vs. 2022-23</h1>",
		"Introduction:",
		"Instructions:",
		"2010-11 and 2022-23 seasons",
		`action="/start"`,
		"Get Started",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
}

func TestTitleWithoutSeasons(t *testing.T) {
	if got := Title(nil); got != "NBA Team Shot Chart" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestChartPageMarksSelectedTeamAndEscapes(t *testing.T) {
	var buf bytes.Buffer
	data := ChartPageData{
		Teams:    []string{"Boston Celtics", "<script>"},
		Selected: "Boston Celtics",
		Charts: []ChartImage{
			{Title: "Shot Chart for Boston Celtics (2010-11)", Src: "/seasons/2010-11/chart?team=Boston+Celtics&format=svg"},
		},
	}
	if err := ChartPage(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, `<option value="Boston Celtics" selected>`) {
		t.Fatalf("expected selected option, got %s", body)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("expected team names to be escaped")
	}
	if !strings.Contains(body, "Select a Team:") {
		t.Fatalf("expected sidebar label")
	}
	if !strings.Contains(body, "<h1>Boston Celtics's Shooting Chart</h1>") {
		t.Fatalf("expected heading, got %s", body)
	}
	if !strings.Contains(body, "team=Boston+Celtics&amp;format=svg") {
		t.Fatalf("expected escaped image src")
	}
	if strings.Count(body, "<img ") != 1 {
		t.Fatalf("expected one image")
	}
}

func TestChartPageWithoutCharts(t *testing.T) {
	var buf bytes.Buffer
	if err := ChartPage(ChartPageData{Teams: []string{"A"}, Selected: "A"}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<img ") {
		t.Fatalf("expected no images")
	}
}

func TestNotFoundPage(t *testing.T) {
	var buf bytes.Buffer
	if err := NotFoundPage(NotFoundPageData{Message: "unknown team \"X\""}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "unknown team &#34;X&#34;") {
		t.Fatalf("unexpected body %s", buf.String())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestPageReturnsWriteError(t *testing.T) {
	if err := HomePage(HomePageData{}).Render(context.Background(), failWriter{}); !errors.Is(err, errWrite) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestPagesShareLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := NotFoundPage(NotFoundPageData{Message: "gone"}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	body := buf.String()
	head := strings.Index(body, "<title>Not found</title>")
	main := strings.Index(body, "<main>")
	end := strings.Index(body, "</body></html>")
	if head < 0 || main < head || end < main {
		t.Fatalf("expected page body inside the layout, got %s", body)
	}
}

func TestChartPageTitleEscapesSelectedTeam(t *testing.T) {
	var buf bytes.Buffer
	if err := ChartPage(ChartPageData{Selected: "<b>"}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "<title>&lt;b&gt;&#39;s Shooting Chart</title>") {
		t.Fatalf("expected escaped document title, got %s", buf.String())
	}
}

func TestRenderHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := HomePage(HomePageData{}).Render(ctx, &buf); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
