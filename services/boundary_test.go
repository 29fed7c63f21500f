package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundaryImminent(t *testing.T) {
	cfg := testConfig()
	g := NewBoundaryGuard(cfg, toModelZones(cfg.Arena.Zones))

	for _, tc := range []struct {
		name  string
		x, y  float64
		theta float64
		want  bool
	}{
		{"open floor", 500, 500, 0, false},
		{"heading into east wall", 920, 200, 0, true},
		{"east wall still inside buffer", 880, 200, 0, false},
		{"heading away from east wall", 920, 200, math.Pi, false},
		{"heading into north wall", 500, 80, -math.Pi / 2, true},
		{"heading into zone", 250, 400, 0, true},
		{"passing beside zone", 250, 250, 0, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRobot(cfg, tc.x, tc.y, tc.theta)
			r.SetWheels(5, 5)
			assert.Equal(t, tc.want, g.Imminent(r))
		})
	}
}

func TestBoundaryBeginDirection(t *testing.T) {
	cfg := testConfig()
	g := NewBoundaryGuard(cfg, nil)

	for _, tc := range []struct {
		name   string
		theta  float64
		vl, vr float64
	}{
		{"east", 0, 15, -15},
		{"south east", math.Pi / 4, 15, -15},
		{"north east", 7 * math.Pi / 4, 15, -15},
		{"west", math.Pi, -15, 15},
		{"straight south", math.Pi / 2, -15, 15},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRobot(cfg, 920, 500, tc.theta)
			g.Begin(r)

			assert.Equal(t, tc.vl, r.VL)
			assert.Equal(t, tc.vr, r.VR)
			assert.True(t, r.Boundary.Turning)
			// ceil(π/0.5) + 3
			assert.Equal(t, 10, r.Boundary.TicksLeft)
			assert.Equal(t, 850.0, r.Pose.X, "pulled inside the entry inset")
		})
	}
}

func TestBoundaryTurnExitsToCruise(t *testing.T) {
	cfg := testConfig()
	g := NewBoundaryGuard(cfg, nil)
	r := newTestRobot(cfg, 500, 500, 0)

	g.Begin(r)
	for i := 0; i < 9; i++ {
		handled, started := g.Update(r)
		require.True(t, handled)
		require.False(t, started)
	}
	assert.True(t, r.Boundary.Turning)
	assert.Less(t, math.Abs(r.VL), 15.0, "wheel speeds decay while turning")

	g.Update(r)
	assert.False(t, r.Boundary.Turning)
	assert.Zero(t, r.Boundary.TicksLeft)
	assert.Equal(t, cfg.Robot.CruiseSpeed, r.VL)
	assert.Equal(t, cfg.Robot.CruiseSpeed, r.VR)

	handled, _ := g.Update(r)
	assert.False(t, handled, "cruising at the center is left alone")
}

func TestBoundaryTurnStaysInsideArena(t *testing.T) {
	cfg := testConfig()
	g := NewBoundaryGuard(cfg, toModelZones(cfg.Arena.Zones))
	a := cfg.Arena
	inset := cfg.Robot.Boundary.TurnInset

	for x := 0.0; x <= 1000; x += 37 {
		for y := 0.0; y <= 1000; y += 53 {
			for theta := 0.0; theta < 2*math.Pi; theta += 0.7 {
				r := newTestRobot(cfg, x, y, theta)
				g.Begin(r)
				entryX, entryY := r.Pose.X, r.Pose.Y

				for steps := 0; r.Boundary.Turning; steps++ {
					require.Less(t, steps, 100, "turn terminates")
					g.Step(r)

					require.GreaterOrEqual(t, r.Pose.X, a.XMin+inset)
					require.LessOrEqual(t, r.Pose.X, a.XMax-inset)
					require.GreaterOrEqual(t, r.Pose.Y, a.YMin+inset)
					require.LessOrEqual(t, r.Pose.Y, a.YMax-inset)
					require.Equal(t, entryX, r.Pose.X, "no translation while turning")
					require.Equal(t, entryY, r.Pose.Y, "no translation while turning")
					require.GreaterOrEqual(t, r.Pose.Theta, 0.0)
					require.Less(t, r.Pose.Theta, 2*math.Pi)
				}
			}
		}
	}
}

func TestBoundaryUpdateStartsTurn(t *testing.T) {
	cfg := testConfig()
	g := NewBoundaryGuard(cfg, nil)
	r := newTestRobot(cfg, 920, 200, 0)
	r.SetWheels(5, 5)

	handled, started := g.Update(r)
	assert.True(t, handled)
	assert.True(t, started)
	assert.True(t, r.Boundary.Turning)
}
