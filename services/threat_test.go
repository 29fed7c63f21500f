package services

import (
	"testing"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestThreatSteer(t *testing.T) {
	cfg := testConfig()
	a := NewThreatAvoider(cfg.Threat)
	pose := algorithms.Pose{X: 500, Y: 500, Theta: 0}

	for _, tc := range []struct {
		name   string
		tx, ty float64
		vl, vr float64
	}{
		// 방위 0, 탈출 방향 π/2, ratio 0.75
		{"ahead", 600, 500, 2, 14},
		// 방위 π, 탈출 방향 -π/2, ratio -0.75
		{"behind", 400, 500, 14, 2},
		// 방위 -π/2, 탈출 방향 0
		{"to the side", 500, 400, 8, 8},
	} {
		t.Run(tc.name, func(t *testing.T) {
			vl, vr := a.Steer(pose, tc.tx, tc.ty)
			assert.InDelta(t, tc.vl, vl, floatTolerance)
			assert.InDelta(t, tc.vr, vr, floatTolerance)
		})
	}
}

func TestThreatAvoid(t *testing.T) {
	cfg := testConfig()
	a := NewThreatAvoider(cfg.Threat)

	t.Run("out of range", func(t *testing.T) {
		r := newTestRobot(cfg, 500, 500, 0)
		r.SetWheels(5, 5)
		n := a.Avoid(r, []*models.Threat{models.NewThreat("t1", "Cat0", 700, 500)})
		assert.Zero(t, n)
		assert.Equal(t, 5.0, r.VL)
		assert.Equal(t, 5.0, r.VR)
	})

	t.Run("last threat wins", func(t *testing.T) {
		r := newTestRobot(cfg, 500, 500, 0)
		n := a.Avoid(r, []*models.Threat{
			models.NewThreat("t1", "Cat0", 600, 500),
			models.NewThreat("t2", "Cat1", 400, 500),
		})
		assert.Equal(t, 2, n)
		assert.InDelta(t, 14, r.VL, floatTolerance)
		assert.InDelta(t, 2, r.VR, floatTolerance)
	})
}
