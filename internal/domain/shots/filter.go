package shots

// View bounds of the drawn court, in court units.
const (
	MinX = -300.0
	MaxX = 300.0
	MinY = -100.0
	MaxY = 500.0
)

// FilterByTeam returns the rows whose team name equals team exactly.
func FilterByTeam(rows []Shot, team string) []Shot {
	out := make([]Shot, 0)
	for _, s := range rows {
		if s.TeamName == team {
			out = append(out, s)
		}
	}
	return out
}

// FilterByOutcome returns the rows with the given outcome.
func FilterByOutcome(rows []Shot, outcome Outcome) []Shot {
	out := make([]Shot, 0)
	for _, s := range rows {
		if s.Outcome == outcome {
			out = append(out, s)
		}
	}
	return out
}

// Split partitions rows into made and missed shots, preserving order.
// Rows with an unknown outcome land in neither slice.
func Split(rows []Shot) (made, missed []Shot) {
	made = make([]Shot, 0)
	missed = make([]Shot, 0)
	for _, s := range rows {
		switch s.Outcome {
		case Made:
			made = append(made, s)
		case Missed:
			missed = append(missed, s)
		}
	}
	return made, missed
}

// InBounds reports whether the shot lies inside the drawn view.
func InBounds(s Shot) bool {
	return s.X >= MinX && s.X <= MaxX && s.Y >= MinY && s.Y <= MaxY
}

// FilterInBounds returns the rows that land inside the drawn view.
func FilterInBounds(rows []Shot) []Shot {
	out := make([]Shot, 0, len(rows))
	for _, s := range rows {
		if InBounds(s) {
			out = append(out, s)
		}
	}
	return out
}

// Coordinates returns parallel X and Y slices for plotting.
func Coordinates(rows []Shot) (xs, ys []float64) {
	xs = make([]float64, len(rows))
	ys = make([]float64, len(rows))
	for i, s := range rows {
		xs[i] = s.X
		ys[i] = s.Y
	}
	return xs, ys
}
