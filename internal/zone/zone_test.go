package zone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

func TestBinBoundaries(t *testing.T) {
	cases := []struct {
		x, y float64
		want string
	}{
		{0, 0, "D-L"},
		{26.2499, 22.66, "D-L"},
		{26.25, 10, "DM-L"},
		{52.5, 22.67, "AM-C"},
		{78.75, 45.33, "A-R"},
		{60, 40, "AM-C"},
		{105, 68, "A-R"},
		{104.9, 67.9, "A-R"},
	}
	for _, c := range cases {
		z, ok := Bin(c.x, c.y)
		require.True(t, ok, "(%v,%v) should be on the pitch", c.x, c.y)
		assert.Equal(t, c.want, z.String(), "(%v,%v)", c.x, c.y)
	}
}

func TestBinOffPitch(t *testing.T) {
	for _, p := range [][2]float64{
		{-0.1, 10}, {105.1, 10}, {10, -1}, {10, 68.5}, {math.NaN(), 10}, {10, math.NaN()},
	} {
		_, ok := Bin(p[0], p[1])
		assert.False(t, ok, "(%v,%v)", p[0], p[1])
	}
}

// Every point of a fine grid over the closed pitch gets exactly one zone, and
// zones change only at band edges.
func TestBinTotalOnPitch(t *testing.T) {
	seen := map[string]bool{}
	for x := 0.0; x <= PitchLength; x += 0.25 {
		for y := 0.0; y <= PitchWidth; y += 0.5 {
			z, ok := Bin(x, y)
			require.True(t, ok, "(%v,%v)", x, y)
			seen[z.String()] = true
		}
	}
	assert.Len(t, seen, 12)
	assert.ElementsMatch(t, All(), keys(seen))
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestAssignDropsOffPitch(t *testing.T) {
	events := []model.Event{
		{ActionID: 1, StartX: 10, StartY: 10},
		{ActionID: 2, StartX: math.NaN(), StartY: 10},
		{ActionID: 3, StartX: 90, StartY: 50},
		{ActionID: 4, StartX: 120, StartY: 50},
	}
	got := Assign(events)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ActionID)
	assert.Equal(t, "D-L", got[0].Zone.String())
	assert.Equal(t, int64(3), got[1].ActionID)
	assert.Equal(t, "A-R", got[1].Zone.String())
}
