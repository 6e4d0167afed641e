package config

// Config holds runtime configuration for the server.
type Config struct {
	Port           string
	StoreBackend   string
	SQLiteDSN      string
	ReloadInterval Duration
	Datasets       DatasetsConfig
	Charts         ChartsConfig
	RateLimit      RateLimitConfig
	Metrics        MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:           envOrDefault(envPort, defaultPort),
		StoreBackend:   envOrDefault(envStoreBackend, defaultStoreBackend),
		SQLiteDSN:      envOrDefault(envSQLiteDSN, defaultSQLiteDSN),
		ReloadInterval: reloadIntervalFromEnv(),
		Datasets:       loadDatasets(),
		Charts:         loadCharts(),
		RateLimit:      loadRateLimit(),
		Metrics:        loadMetrics(),
	}
}

// reloadIntervalFromEnv accepts 0 (disabled) but clamps tiny positive values.
func reloadIntervalFromEnv() Duration {
	d := durationEnvOrDefault(envReloadInterval, defaultReloadInterval)
	if d > 0 && d < minReloadInterval {
		return minReloadInterval
	}
	return d
}
