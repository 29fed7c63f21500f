package services

import (
	"testing"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldRemoveDebris(t *testing.T) {
	w := NewWorld(100)
	addDebris(w,
		algorithms.Point{X: 150, Y: 150},
		algorithms.Point{X: 160, Y: 170},
		algorithms.Point{X: 650, Y: 250},
	)
	require.Equal(t, 2, w.CountAt(algorithms.Cell{Col: 1, Row: 1}))

	removed := w.RemoveDebris([]string{"d0", "d2", "missing"})
	require.Len(t, removed, 2)
	assert.Equal(t, "d0", removed[0].ID)
	assert.Equal(t, "d2", removed[1].ID)

	assert.Equal(t, 1, w.DebrisCount())
	assert.Equal(t, 1, w.CountAt(algorithms.Cell{Col: 1, Row: 1}))
	assert.Zero(t, w.CountAt(algorithms.Cell{Col: 6, Row: 2}))
	assert.Equal(t, "d1", w.Debris()[0].ID)
}

func TestWorldRemoveDebrisIdempotent(t *testing.T) {
	w := NewWorld(100)
	addDebris(w, algorithms.Point{X: 150, Y: 150}, algorithms.Point{X: 250, Y: 250})

	ids := []string{"d0", "d0"}
	assert.Len(t, w.RemoveDebris(ids), 1, "duplicate IDs remove once")
	assert.Empty(t, w.RemoveDebris(ids), "second pass over the same snapshot removes nothing")
	assert.Nil(t, w.RemoveDebris(nil))
	assert.Equal(t, 1, w.DebrisCount())
}

func TestWorldSnapshotsAreCopies(t *testing.T) {
	w := NewWorld(100)
	addDebris(w, algorithms.Point{X: 150, Y: 150})
	w.AddZone(models.Zone{X1: 300, Y1: 300, X2: 400, Y2: 500})

	snap := w.Debris()
	w.RemoveDebris([]string{"d0"})
	assert.Len(t, snap, 1, "snapshot survives removal")

	zones := w.Zones()
	zones[0].X1 = 0
	assert.Equal(t, 300.0, w.Zones()[0].X1)
}

func TestWorldAdvanceThreats(t *testing.T) {
	w := NewWorld(100)
	cat := models.NewThreat("t1", "Cat0", 890, 500)
	cat.VX, cat.VY = 20, -5
	w.AddThreat(cat)

	w.AdvanceThreats(1, 100, 900, 100, 900)
	assert.Equal(t, 900.0, cat.X, "clamped to bound")
	assert.Equal(t, -20.0, cat.VX, "bounced")
	assert.Equal(t, 495.0, cat.Y)
}

func TestLocations(t *testing.T) {
	chargers := []*models.Charger{{ID: "c1", X: 10, Y: 20}, {ID: "c2", X: 30, Y: 40}}
	assert.Equal(t, []algorithms.Point{{X: 10, Y: 20}, {X: 30, Y: 40}}, locations(chargers))
}
