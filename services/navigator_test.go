package services

import (
	"math"
	"math/rand"
	"testing"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
	"cleanbot-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNavigator(cfg config.Config) *Navigator {
	grid := algorithms.NewGrid(cfg.Arena.Cols(), cfg.Arena.Rows())
	return NewNavigator(cfg, grid, NewStrategy(cfg.Arena, cfg.Debris), NewBattery(cfg.Robot, cfg.Charger),
		rand.New(rand.NewSource(cfg.Sim.Seed)))
}

func TestNavigatorSeekCharger(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, cellPoint(6, 2))

	for _, tc := range []struct {
		name        string
		left, right float64
		vl, vr      float64
		state       models.RobotState
	}{
		{"left stronger turns left", 50, 10, -2, 2, models.StateSeekingCharger},
		{"right stronger turns right", 10, 50, 2, -2, models.StateSeekingCharger},
		{"balanced drives straight", 50, 52, 5, 5, models.StateSeekingCharger},
		{"arrived", 150, 100, 0, 0, models.StateDocked},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRobot(cfg, 230, 250, 0)
			r.Battery = 790
			r.Path = []algorithms.Cell{{Col: 2, Row: 2}, {Col: 3, Row: 2}}
			r.SetWheels(7, 7)

			dec := n.Decide(r, models.Readings{ChargerL: tc.left, ChargerR: tc.right}, w)
			assert.Equal(t, tc.state, dec.State)
			assert.Equal(t, tc.vl, r.VL)
			assert.Equal(t, tc.vr, r.VR)
			assert.Len(t, r.Path, 2, "path is left untouched")
			assert.False(t, dec.GoalSelected)
		})
	}
}

func TestNavigatorRecoveringLeavesWheels(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	r := newTestRobot(cfg, 500, 500, 0)
	r.Boundary.Turning = true
	r.SetWheels(15, -15)

	dec := n.Decide(r, models.Readings{}, NewWorld(cfg.Arena.CellSize))
	assert.Equal(t, models.StateRecovering, dec.State)
	assert.Equal(t, 15.0, r.VL)
	assert.Equal(t, -15.0, r.VR)
}

func TestNavigatorIdleWhenFloorClean(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	r := newTestRobot(cfg, 500, 500, 0)
	r.SetWheels(5, 5)

	dec := n.Decide(r, models.Readings{}, NewWorld(cfg.Arena.CellSize))
	assert.Equal(t, models.StateIdle, dec.State)
	assert.Nil(t, r.Goal)
	assert.Zero(t, r.VL)
	assert.Zero(t, r.VR)
}

func TestNavigatorPlansToGoal(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, cellPoint(6, 2))
	r := newTestRobot(cfg, 230, 250, 0)

	dec := n.Decide(r, models.Readings{}, w)
	assert.Equal(t, models.StateCleaning, dec.State)
	assert.True(t, dec.GoalSelected)
	assert.True(t, dec.Replanned)
	require.NotNil(t, dec.Goal)
	assert.Equal(t, algorithms.Cell{Col: 6, Row: 2}, *dec.Goal)

	require.Len(t, r.Path, 5)
	assert.Equal(t, algorithms.Cell{Col: 2, Row: 2}, r.Path[0])
	assert.Equal(t, algorithms.Cell{Col: 6, Row: 2}, r.Path[4])
	assert.Equal(t, 5.0, r.VL, "target straight ahead")
	assert.Equal(t, 5.0, r.VR)

	// 같은 셀에 머무는 동안은 재계획하지 않는다
	dec = n.Decide(r, models.Readings{}, w)
	assert.False(t, dec.Replanned)
	assert.False(t, dec.GoalSelected)
}

func TestNavigatorTracksProgressWithoutReplan(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, cellPoint(4, 2))

	r := newTestRobot(cfg, 320, 250, 0)
	goal := algorithms.Cell{Col: 4, Row: 2}
	r.Goal = &goal
	r.Path = []algorithms.Cell{{Col: 2, Row: 2}, {Col: 3, Row: 2}, {Col: 4, Row: 2}}

	dec := n.Decide(r, models.Readings{}, w)
	assert.False(t, dec.Replanned)
	assert.Equal(t, []algorithms.Cell{{Col: 3, Row: 2}, {Col: 4, Row: 2}}, r.Path)
}

func TestNavigatorReplansWhenOffPath(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, cellPoint(6, 2))

	r := newTestRobot(cfg, 230, 250, 0)
	goal := algorithms.Cell{Col: 6, Row: 2}
	r.Goal = &goal
	r.Path = []algorithms.Cell{{Col: 5, Row: 5}, {Col: 6, Row: 5}}

	dec := n.Decide(r, models.Readings{}, w)
	assert.True(t, dec.Replanned)
	assert.False(t, dec.GoalSelected)
	require.NotEmpty(t, r.Path)
	assert.Equal(t, algorithms.Cell{Col: 2, Row: 2}, r.Path[0])
}

func TestNavigatorReplansWhenDriftingBesideHead(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, cellPoint(2, 5))

	// (3,2) 는 머리 셀 (2,2) 의 이웃이지만 경로 위가 아니다
	r := newTestRobot(cfg, 330, 250, math.Pi/2)
	goal := algorithms.Cell{Col: 2, Row: 5}
	r.Goal = &goal
	r.Path = []algorithms.Cell{{Col: 2, Row: 2}, {Col: 2, Row: 3}, {Col: 2, Row: 4}, {Col: 2, Row: 5}}

	dec := n.Decide(r, models.Readings{}, w)
	assert.True(t, dec.Replanned)
	require.NotEmpty(t, r.Path)
	assert.Equal(t, algorithms.Cell{Col: 3, Row: 2}, r.Path[0])
	assert.Equal(t, goal, r.Path[len(r.Path)-1])
}

func TestNavigatorKeepsPathAfterPassingWaypoint(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, cellPoint(3, 2))

	r := newTestRobot(cfg, 252, 250, 0)
	goal := algorithms.Cell{Col: 3, Row: 2}
	r.Goal = &goal
	r.Path = []algorithms.Cell{{Col: 2, Row: 2}, goal}

	dec := n.Decide(r, models.Readings{}, w)
	assert.False(t, dec.Replanned)
	assert.Equal(t, []algorithms.Cell{goal}, r.Path, "head popped at its center")
	require.NotNil(t, r.Passed)
	assert.Equal(t, algorithms.Cell{Col: 2, Row: 2}, *r.Passed)

	// 지나온 셀 안에서는 다음 웨이포인트를 계속 따라간다
	r.Pose.X = 270
	dec = n.Decide(r, models.Readings{}, w)
	assert.False(t, dec.Replanned)

	// 옆 셀로 밀려나면 재계획
	r.Pose.X, r.Pose.Y = 230, 350
	dec = n.Decide(r, models.Readings{}, w)
	assert.True(t, dec.Replanned)
	assert.Equal(t, algorithms.Cell{Col: 2, Row: 3}, r.Path[0])
	assert.Nil(t, r.Passed)
}

func TestNavigatorDropsCleanedGoal(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, cellPoint(7, 7))

	r := newTestRobot(cfg, 230, 250, 0)
	stale := algorithms.Cell{Col: 6, Row: 2}
	r.Goal = &stale
	r.Path = []algorithms.Cell{{Col: 2, Row: 2}, {Col: 3, Row: 2}}

	dec := n.Decide(r, models.Readings{}, w)
	assert.True(t, dec.GoalSelected)
	require.NotNil(t, r.Goal)
	assert.Equal(t, algorithms.Cell{Col: 7, Row: 7}, *r.Goal)
}

func TestNavigatorPlanFailureMarksUnreachable(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	// 테두리 셀은 장애물
	addDebris(w, algorithms.Point{X: 950, Y: 250})
	r := newTestRobot(cfg, 230, 250, 0)

	dec := n.Decide(r, models.Readings{}, w)
	assert.True(t, dec.PlanFailed)
	assert.Equal(t, models.StateCruising, dec.State)
	assert.Nil(t, r.Goal)
	assert.True(t, r.Unreachable[algorithms.Cell{Col: 9, Row: 2}])
	assert.Equal(t, cfg.Robot.CruiseSpeed, r.VL)
	assert.Equal(t, cfg.Robot.CruiseSpeed, r.VR)

	dec = n.Decide(r, models.Readings{}, w)
	assert.Equal(t, models.StateIdle, dec.State, "unreachable goals are not retried")
}

func TestNavigatorSteeringSign(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)

	for _, tc := range []struct {
		name   string
		tx, ty float64
		vl, vr float64
	}{
		{"straight", 600, 500, 5, 5},
		{"target at positive heading error", 500, 600, 5, 2},
		{"target at negative heading error", 500, 400, 2, 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRobot(cfg, 500, 500, 0)
			n.steer(r, tc.tx, tc.ty)
			assert.Equal(t, tc.vl, r.VL)
			assert.Equal(t, tc.vr, r.VR)

			// 한 틱 적분 후 헤딩 오차가 줄어야 한다
			if tc.vl != tc.vr {
				before := algorithms.NormalizeAngle(math.Atan2(tc.ty-500, tc.tx-500) - r.Pose.Theta)
				next := algorithms.Integrate(r.Pose, r.VL, r.VR, r.Axle, cfg.Sim.Dt)
				after := algorithms.NormalizeAngle(math.Atan2(tc.ty-next.Y, tc.tx-next.X) - next.Theta)
				assert.Less(t, math.Abs(after), math.Abs(before))
			}
		})
	}
}

func TestNavigatorFinishesGoalAtDebris(t *testing.T) {
	cfg := testConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, algorithms.Point{X: 620, Y: 230})

	r := newTestRobot(cfg, 618, 231, 0)
	goal := algorithms.Cell{Col: 6, Row: 2}
	r.Goal = &goal
	r.Path = []algorithms.Cell{goal}

	n.Decide(r, models.Readings{}, w)
	assert.Empty(t, r.Path)
	assert.Nil(t, r.Goal, "goal cleared once the path is consumed")
}

func TestNavigatorTargetPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Planner.TargetPolicy = config.PolicyFarthest
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, cellPoint(3, 2), cellPoint(7, 7))
	r := newTestRobot(cfg, 230, 250, 0)

	dec := n.Decide(r, models.Readings{}, w)
	require.True(t, dec.GoalSelected)
	assert.Equal(t, algorithms.Cell{Col: 7, Row: 7}, *dec.Goal)
}

func walkConfig() config.Config {
	cfg := testConfig()
	cfg.Planner.Brain = config.BrainRandomWalk
	cfg.Planner.Walk = config.RandomWalkConfig{RunMin: 3, RunMax: 4, TurnMin: 2, TurnMax: 3, TurnSpeed: 2}
	return cfg
}

func TestRandomWalkCycle(t *testing.T) {
	cfg := walkConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	addDebris(w, cellPoint(6, 6))
	r := newTestRobot(cfg, 500, 500, 0)

	// 직진 3틱, 회전 2틱, 다시 직진
	want := []struct{ vl, vr float64 }{{5, 5}, {5, 5}, {5, 5}, {-2, 2}, {-2, 2}, {5, 5}}
	for i, tc := range want {
		dec := n.Decide(r, models.Readings{}, w)
		assert.Equal(t, models.StateWandering, dec.State, "tick %d", i+1)
		assert.False(t, dec.GoalSelected, "random walk never plans")
		assert.Equal(t, tc.vl, r.VL, "tick %d", i+1)
		assert.Equal(t, tc.vr, r.VR, "tick %d", i+1)
	}
	assert.Nil(t, r.Goal)
	assert.Empty(t, r.Path)
	assert.Equal(t, models.WalkState{RunLeft: 2}, r.Walk)
}

func TestRandomWalkRangesStayInBounds(t *testing.T) {
	cfg := testConfig()
	cfg.Planner.Brain = config.BrainRandomWalk
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)
	r := newTestRobot(cfg, 500, 500, 0)
	walk := cfg.Planner.Walk

	turns := 0
	for i := 0; i < 2000; i++ {
		n.Decide(r, models.Readings{}, w)
		if r.Walk.Turning {
			turns++
			assert.GreaterOrEqual(t, r.Walk.TurnLeft, 1)
			assert.Less(t, r.Walk.TurnLeft, walk.TurnMax)
		} else {
			assert.GreaterOrEqual(t, r.Walk.RunLeft, 1)
			assert.Less(t, r.Walk.RunLeft, walk.RunMax)
		}
	}
	assert.Positive(t, turns)
}

func TestRandomWalkChargerOverride(t *testing.T) {
	cfg := walkConfig()
	n := newTestNavigator(cfg)
	w := NewWorld(cfg.Arena.CellSize)

	for _, tc := range []struct {
		name        string
		battery     int
		left, right float64
		vl, vr      float64
		state       models.RobotState
	}{
		{"low battery turns toward charger", 700, 50, 10, -2, 2, models.StateSeekingCharger},
		{"low battery balanced cruises", 700, 50, 52, 5, 5, models.StateSeekingCharger},
		{"passing a charger stops until full", 2000, 150, 100, 0, 0, models.StateDocked},
		{"full battery ignores charger", 3000, 150, 100, 5, 5, models.StateWandering},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRobot(cfg, 500, 500, 0)
			r.Battery = tc.battery

			dec := n.Decide(r, models.Readings{ChargerL: tc.left, ChargerR: tc.right}, w)
			assert.Equal(t, tc.state, dec.State)
			assert.Equal(t, tc.vl, r.VL)
			assert.Equal(t, tc.vr, r.VR)
			assert.Equal(t, 2, r.Walk.RunLeft, "walk counters keep running under the override")
		})
	}
}

func TestRandomWalkYieldsToBoundaryTurn(t *testing.T) {
	cfg := walkConfig()
	n := newTestNavigator(cfg)
	r := newTestRobot(cfg, 500, 500, 0)
	r.Boundary.Turning = true
	r.SetWheels(15, -15)

	dec := n.Decide(r, models.Readings{}, NewWorld(cfg.Arena.CellSize))
	assert.Equal(t, models.StateRecovering, dec.State)
	assert.Equal(t, 15.0, r.VL)
	assert.Equal(t, models.WalkState{}, r.Walk)
}
