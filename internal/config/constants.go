package config

import "time"

const (
	envPort           = "PORT"
	envStoreBackend   = "STORE_BACKEND"
	envSQLiteDSN      = "SQLITE_DSN"
	envReloadInterval = "RELOAD_INTERVAL"
	envDatasetSource  = "DATASET_SOURCE"
	envDatasetAPath   = "DATASET_A_PATH"
	envDatasetALabel  = "DATASET_A_LABEL"
	envDatasetBPath   = "DATASET_B_PATH"
	envDatasetBLabel  = "DATASET_B_LABEL"
	envLoadAttempts   = "DATASET_LOAD_ATTEMPTS"
	envLoadBackoff    = "DATASET_LOAD_BACKOFF"
	envChartWidth     = "CHART_WIDTH"
	envChartHeight    = "CHART_HEIGHT"
	envChartFormat    = "CHART_FORMAT"
	envOuterLines     = "CHART_OUTER_LINES"
	envRateLimitRPS   = "RATE_LIMIT_RPS"
	envRateLimitBurst = "RATE_LIMIT_BURST"
	envMetricsPort    = "METRICS_PORT"
	envMetricsOn      = "METRICS_ENABLED"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort          = "8501"
	defaultStoreBackend  = "memory"
	defaultSQLiteDSN     = ":memory:"
	defaultDatasetSource = "csv"
	defaultDatasetAPath  = "data/2010-11.csv"
	defaultDatasetALabel = "2010-11"
	defaultDatasetBPath  = "data/2022-23.csv"
	defaultDatasetBLabel = "2022-23"
	defaultLoadAttempts  = 3
	defaultLoadBackoff   = 200 * time.Millisecond
	defaultChartWidth    = 600
	defaultChartHeight   = 600
	defaultChartFormat   = "svg"
	defaultOuterLines    = true
	defaultRateLimitRPS  = 0
	defaultRateBurst     = 4
	defaultMetricsPort   = "9090"
	// Zero keeps the tables load-once for the life of the process.
	defaultReloadInterval = Duration(0)
	minReloadInterval     = 5 * time.Second
)
