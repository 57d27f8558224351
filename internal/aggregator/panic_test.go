package aggregator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

func panicFor(t *testing.T, evs []model.Event, id int64) model.PanicCount {
	t.Helper()
	for _, p := range ClearancePanic(evs) {
		if p.PlayerID == id {
			return p
		}
	}
	t.Fatalf("player %d has no panic row", id)
	return model.PanicCount{}
}

func TestClearancePanicOpposingShotInWindow(t *testing.T) {
	evs := prep(
		event(playerA, 1, 10, model.TypeClearance, ""),
		event(playerC, 2, 18, model.TypeShot, model.ResultOffTarget),
	)
	p := panicFor(t, evs, playerA)
	assert.Equal(t, 1, p.Clearance)
	assert.Equal(t, 1, p.ConcedeShot10)
}

func TestClearancePanicMissingShotTime(t *testing.T) {
	evs := prep(
		event(playerA, 1, 10, model.TypeClearance, ""),
		event(playerC, 2, 25, model.TypeShot, ""),
		event(playerC, 3, math.NaN(), model.TypeShot, ""),
		event(playerC, 4, 12, model.TypeShot, ""),
	)
	p := panicFor(t, evs, playerA)
	assert.Equal(t, 1, p.Clearance)
	assert.Equal(t, 1, p.ConcedeShot10, "shot at t=12 is the next one")
}

func TestClearancePanicSameTeamShot(t *testing.T) {
	evs := prep(
		event(playerA, 1, 10, model.TypeClearance, ""),
		event(playerB, 2, 15, model.TypeShot, model.ResultOffTarget),
	)
	p := panicFor(t, evs, playerA)
	assert.Equal(t, 1, p.Clearance)
	assert.Equal(t, 0, p.ConcedeShot10)
}

func TestClearancePanicShotTooLate(t *testing.T) {
	evs := prep(
		event(playerA, 1, 10, model.TypeClearance, ""),
		event(playerC, 2, 21, model.TypeShot, model.ResultGoal),
	)
	assert.Equal(t, 0, panicFor(t, evs, playerA).ConcedeShot10)
}

func TestClearancePanicWindowEdges(t *testing.T) {
	evs := prep(
		event(playerA, 1, 10, model.TypeClearance, ""),
		event(playerC, 2, 20, model.TypeShot, ""),
		event(playerA, 3, 30, model.TypeAerialClearance, ""),
		event(playerC, 4, 30, model.TypeShot, ""),
	)
	p := panicFor(t, evs, playerA)
	assert.Equal(t, 2, p.Clearance)
	assert.Equal(t, 2, p.ConcedeShot10, "both dt=10 and dt=0 count")
}

// Only the nearest subsequent shot is considered; a same-team shot in between
// shields the clearance from a later opposing shot.
func TestClearancePanicNearestShotOnly(t *testing.T) {
	evs := prep(
		event(playerA, 1, 10, model.TypeClearance, ""),
		event(playerB, 2, 12, model.TypeShot, ""),
		event(playerC, 3, 14, model.TypeShot, ""),
	)
	assert.Equal(t, 0, panicFor(t, evs, playerA).ConcedeShot10)
}

// Equal timestamps resolve to the shot with the lowest action id.
func TestClearancePanicTieOnTime(t *testing.T) {
	evs := prep(
		event(playerA, 1, 10, model.TypeClearance, ""),
		event(playerC, 5, 12, model.TypeShot, ""),
		event(playerB, 4, 12, model.TypeShot, ""),
	)
	assert.Equal(t, 0, panicFor(t, evs, playerA).ConcedeShot10)
}

func TestClearancePanicPeriodsAreIndependent(t *testing.T) {
	evs := prep(
		inGame(event(playerA, 1, 10, model.TypeClearance, ""), 1, 1),
		inGame(event(playerC, 2, 12, model.TypeShot, ""), 1, 2),
		inGame(event(playerA, 3, 10, model.TypeClearance, ""), 2, 1),
	)
	// No period holds both a clearance and a shot.
	assert.Empty(t, ClearancePanic(evs))
}

func TestClearancePanicClearanceAfterLastShot(t *testing.T) {
	evs := prep(
		event(playerC, 1, 5, model.TypeShot, ""),
		event(playerA, 2, 10, model.TypeClearance, ""),
	)
	p := panicFor(t, evs, playerA)
	assert.Equal(t, 1, p.Clearance)
	assert.Equal(t, 0, p.ConcedeShot10)
}

func TestClearancePanicEmpty(t *testing.T) {
	require.Empty(t, ClearancePanic(nil))
	require.Empty(t, ClearancePanic(prep(event(playerC, 1, 5, model.TypeShot, ""))))
}
