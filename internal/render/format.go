package render

import (
	"errors"
	"fmt"
	"strings"
)

// Format is an image encoding for chart output.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ErrUnsupportedFormat is returned for formats other than svg and png.
var ErrUnsupportedFormat = errors.New("unsupported chart format")

// ParseFormat normalizes a format name. Empty input yields fallback.
func ParseFormat(raw string, fallback Format) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return fallback, nil
	case string(FormatSVG):
		return FormatSVG, nil
	case string(FormatPNG):
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// ContentType returns the HTTP media type for the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}
