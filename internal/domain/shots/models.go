package shots

import (
	"regexp"
	"strings"
)

// Outcome is the result of a shot attempt as recorded in EVENT_TYPE.
type Outcome string

const (
	Made    Outcome = "Made Shot"
	Missed  Outcome = "Missed Shot"
	Unknown Outcome = ""
)

// ParseEventType maps a table's EVENT_TYPE cell to an Outcome. Only the exact
// "Made Shot" and "Missed Shot" values are plotted.
func ParseEventType(raw string) Outcome {
	switch Outcome(raw) {
	case Made, Missed:
		return Outcome(raw)
	default:
		return Unknown
	}
}

// ParseOutcome maps a query value such as "made", "miss" or "Missed Shot" to an Outcome.
func ParseOutcome(raw string) Outcome {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "made shot", "made":
		return Made
	case "missed shot", "missed", "miss":
		return Missed
	default:
		return Unknown
	}
}

// Shot is a single shot event. X and Y are in tenths of a foot with the hoop at the origin.
type Shot struct {
	TeamName string  `json:"team"`
	Outcome  Outcome `json:"outcome"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Season identifies one season table.
type Season struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"-"`
}

// Table is a loaded season with its rows.
type Table struct {
	Season Season
	Shots  []Shot
}

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// NewSeason builds a Season whose ID is the label made safe for URL paths.
func NewSeason(label, path string) Season {
	id := strings.Trim(unsafeIDChars.ReplaceAllString(strings.TrimSpace(label), "-"), "-")
	return Season{ID: id, Label: label, Path: path}
}
