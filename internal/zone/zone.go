// Package zone bins pitch coordinates into the 4x3 zone grid.
package zone

import (
	"math"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// Pitch dimensions in event-log units.
const (
	PitchLength = 105.0
	PitchWidth  = 68.0
)

var (
	xEdges  = []float64{0, 26.25, 52.5, 78.75, PitchLength}
	xLabels = []string{"D", "DM", "AM", "A"}
	yEdges  = []float64{0, 22.67, 45.33, PitchWidth}
	yLabels = []string{"L", "C", "R"}
)

// XBands lists the x band labels from own goal to opponent goal.
func XBands() []string { return append([]string(nil), xLabels...) }

// YBands lists the y band labels from left to right.
func YBands() []string { return append([]string(nil), yLabels...) }

// All returns the twelve zone labels, x-major.
func All() []string {
	out := make([]string, 0, len(xLabels)*len(yLabels))
	for _, x := range xLabels {
		for _, y := range yLabels {
			out = append(out, model.Zone{X: x, Y: y}.String())
		}
	}
	return out
}

// band returns the index of the [lo, hi) interval holding v. The last
// interval is closed so the far touchline still has a band.
func band(v float64, edges []float64) (int, bool) {
	if math.IsNaN(v) || v < edges[0] || v > edges[len(edges)-1] {
		return 0, false
	}
	for i := 1; i < len(edges)-1; i++ {
		if v < edges[i] {
			return i - 1, true
		}
	}
	return len(edges) - 2, true
}

// Bin maps a coordinate pair to its zone. ok is false outside the pitch or
// when either coordinate is missing.
func Bin(x, y float64) (model.Zone, bool) {
	xi, ok := band(x, xEdges)
	if !ok {
		return model.Zone{}, false
	}
	yi, ok := band(y, yEdges)
	if !ok {
		return model.Zone{}, false
	}
	return model.Zone{X: xLabels[xi], Y: yLabels[yi]}, true
}

// Assign zones events by their start coordinates, dropping rows that fall
// outside the pitch.
func Assign(events []model.Event) []model.ZonedEvent {
	out := make([]model.ZonedEvent, 0, len(events))
	for _, e := range events {
		z, ok := Bin(e.StartX, e.StartY)
		if !ok {
			continue
		}
		out = append(out, model.ZonedEvent{Event: e, Zone: z})
	}
	return out
}
