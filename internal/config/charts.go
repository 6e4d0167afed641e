package config

import "strings"

// ChartsConfig controls chart image output.
type ChartsConfig struct {
	Width      int
	Height     int
	Format     string
	OuterLines bool
}

// RateLimitConfig throttles chart rendering. RPS <= 0 disables the limiter.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Enabled reports whether the limiter should be installed.
func (c RateLimitConfig) Enabled() bool {
	return c.RPS > 0
}

func loadCharts() ChartsConfig {
	return ChartsConfig{
		Width:      intEnvOrDefault(envChartWidth, defaultChartWidth),
		Height:     intEnvOrDefault(envChartHeight, defaultChartHeight),
		Format:     strings.ToLower(envOrDefault(envChartFormat, defaultChartFormat)),
		OuterLines: boolEnvOrDefault(envOuterLines, defaultOuterLines),
	}
}

func loadRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RPS:   floatEnvOrDefault(envRateLimitRPS, defaultRateLimitRPS),
		Burst: intEnvOrDefault(envRateLimitBurst, defaultRateBurst),
	}
}
