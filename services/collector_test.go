package services

import (
	"testing"

	"cleanbot-backend/algorithms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCollectsWithinRadius(t *testing.T) {
	cfg := testConfig()
	counter := NewCounter(nil)
	c := NewCollector(cfg.Robot.PickupRadius, counter)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w,
		algorithms.Point{X: 510, Y: 500},
		algorithms.Point{X: 500, Y: 529},
		algorithms.Point{X: 530, Y: 500},
		algorithms.Point{X: 700, Y: 700},
	)

	r := newTestRobot(cfg, 500, 500, 0)
	goal := algorithms.Cell{Col: 5, Row: 5}
	r.Goal = &goal
	r.Path = []algorithms.Cell{goal}

	removed := c.Collect(r, w)
	require.Len(t, removed, 2, "radius is exclusive")
	assert.Equal(t, 2, r.Collected)
	assert.Equal(t, 2, counter.Total())
	assert.Equal(t, 2, w.DebrisCount())
	assert.Nil(t, r.Goal)
	assert.Empty(t, r.Path)
}

func TestCollectorCountsOnce(t *testing.T) {
	cfg := testConfig()
	counter := NewCounter(nil)
	c := NewCollector(cfg.Robot.PickupRadius, counter)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, algorithms.Point{X: 500, Y: 500})

	r := newTestRobot(cfg, 500, 500, 0)
	other := newTestRobot(cfg, 505, 500, 0)

	// 두 로봇이 같은 스냅샷을 보고 같은 먼지를 고른 경우
	snapshot := w.Debris()
	ids := c.candidates(r, snapshot)
	otherIDs := c.candidates(other, snapshot)
	require.Equal(t, ids, otherIDs)

	assert.Len(t, c.apply(r, w, ids), 1)
	assert.Empty(t, c.apply(other, w, otherIDs))
	assert.Equal(t, 1, counter.Total())
	assert.Equal(t, 1, r.Collected)
	assert.Zero(t, other.Collected)
}

func TestCollectorKeepsPlanWhenNothingCollected(t *testing.T) {
	cfg := testConfig()
	c := NewCollector(cfg.Robot.PickupRadius, NewCounter(nil))
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, algorithms.Point{X: 800, Y: 800})

	r := newTestRobot(cfg, 500, 500, 0)
	goal := algorithms.Cell{Col: 8, Row: 8}
	r.Goal = &goal

	assert.Empty(t, c.Collect(r, w))
	assert.NotNil(t, r.Goal)
}

func TestCounterMilestones(t *testing.T) {
	c := NewCounter([]int{2, 4})

	hit, _ := c.CheckMilestone(1)
	assert.False(t, hit)

	c.ItemCollected()
	c.ItemCollected()
	hit, snap := c.CheckMilestone(2)
	assert.True(t, hit)
	assert.Equal(t, map[int]int{2: 2}, snap)

	c.ItemCollected()
	c.CheckMilestone(3)
	hit, snap = c.CheckMilestone(4)
	assert.True(t, hit)
	assert.Equal(t, map[int]int{2: 2, 4: 3}, snap)

	snap[2] = 100
	assert.Equal(t, 2, c.Milestones()[2], "snapshots are copies")
	assert.Equal(t, 3, c.Total())
}
