package logging

import "log/slog"

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldSeason     = "season"
	FieldTeam       = "team"
	FieldFormat     = "format"
	FieldBackend    = "backend"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}

// ChartAttrs returns the season/team pair that identifies one chart.
func ChartAttrs(season, team string) []any {
	out := make([]any, 0, 2)
	if season != "" {
		out = append(out, slog.String(FieldSeason, season))
	}
	if team != "" {
		out = append(out, slog.String(FieldTeam, team))
	}
	return out
}
