package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "nba-shot-charts"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx              context.Context
	meter            metric.Meter
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	chartRenders     metric.Int64Counter
	chartErrors      metric.Int64Counter
	chartLatencyMs   metric.Float64Histogram
	datasetLoads     metric.Int64Counter
	datasetErrors    metric.Int64Counter
	datasetRows      metric.Int64Counter
	rateLimited      metric.Int64Counter
	reloadCycles     metric.Int64Counter
	reloadErrors     metric.Int64Counter
	reloadLatencyMs  metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

// instrumentBuilder creates instruments on one meter and keeps the first error.
type instrumentBuilder struct {
	meter metric.Meter
	err   error
}

func (b *instrumentBuilder) counter(name, desc string) metric.Int64Counter {
	if b.err != nil {
		return nil
	}
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
	return c
}

func (b *instrumentBuilder) histogramMs(name, desc string) metric.Float64Histogram {
	if b.err != nil {
		return nil
	}
	h, err := b.meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("ms"))
	if err != nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
	return h
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	b := &instrumentBuilder{meter: provider.Meter("nba-shot-charts")}

	inst := &otelInstruments{
		ctx:              context.Background(),
		meter:            b.meter,
		requests:         b.counter("http_requests_total", "HTTP requests served"),
		requestLatencyMs: b.histogramMs("http_request_duration_ms", "HTTP request latency"),
		chartRenders:     b.counter("chart_renders_total", "Chart images rendered"),
		chartErrors:      b.counter("chart_render_errors_total", "Chart renders that failed"),
		chartLatencyMs:   b.histogramMs("chart_render_duration_ms", "Chart render latency"),
		datasetLoads:     b.counter("dataset_loads_total", "Season table loads attempted"),
		datasetErrors:    b.counter("dataset_load_errors_total", "Season table loads that failed"),
		datasetRows:      b.counter("dataset_rows_loaded_total", "Shot rows read from season tables"),
		rateLimited:      b.counter("http_rate_limited_total", "Requests rejected by the render limiter"),
		reloadCycles:     b.counter("reload_cycles_total", "Background reload cycles"),
		reloadErrors:     b.counter("reload_errors_total", "Background reload cycles that failed"),
		reloadLatencyMs:  b.histogramMs("reload_cycle_duration_ms", "Background reload latency"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return inst, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordChartRender(season, format string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrSeason, season),
		attribute.String(AttrFormat, format),
	}
	o.recordCounter(o.chartRenders, 1, attrs...)
	o.recordHistogram(o.chartLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.chartErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordDatasetLoad(season string, rows int, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrSeason, season)}
	o.recordCounter(o.datasetLoads, 1, attrs...)
	if err != nil {
		o.recordCounter(o.datasetErrors, 1, attrs...)
		return
	}
	o.recordCounter(o.datasetRows, int64(rows), attrs...)
}

func (o *otelInstruments) recordRateLimited(path string) {
	if o == nil {
		return
	}
	o.recordCounter(o.rateLimited, 1, attribute.String(AttrPath, path))
}

func (o *otelInstruments) recordReload(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.reloadCycles, 1)
	o.recordHistogram(o.reloadLatencyMs, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.reloadErrors, 1)
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
