package services

import (
	"math/rand"
	"testing"

	"cleanbot-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestBatteryUpdate(t *testing.T) {
	cfg := testConfig()
	near := &models.Charger{ID: "c1", X: 550, Y: 500}
	far := &models.Charger{ID: "c2", X: 100, Y: 100}

	for _, tc := range []struct {
		name     string
		level    int
		chargers []*models.Charger
		want     int
		charged  bool
	}{
		{"drain", 100, nil, 99, false},
		{"out of range", 100, []*models.Charger{far}, 99, false},
		{"charge", 100, []*models.Charger{near}, 109, true},
		{"two chargers in range", 100, []*models.Charger{near, {ID: "c3", X: 450, Y: 500}}, 119, true},
		{"clamped at capacity", 3000, []*models.Charger{near}, 3000, true},
		{"empty stays empty", 0, nil, 0, false},
		{"charges while empty", 0, []*models.Charger{near}, 10, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBattery(cfg.Robot, cfg.Charger)
			r := newTestRobot(cfg, 500, 500, 0)
			r.Battery = tc.level

			charged := b.Update(r, tc.chargers)
			assert.Equal(t, tc.want, r.Battery)
			assert.Equal(t, tc.charged, charged)
		})
	}
}

func TestBatteryDepletionStopsWheels(t *testing.T) {
	cfg := testConfig()
	b := NewBattery(cfg.Robot, cfg.Charger)
	r := newTestRobot(cfg, 500, 500, 0)
	r.Battery = 1
	r.SetWheels(5, 5)

	b.Update(r, nil)
	assert.Zero(t, r.Battery)
	assert.True(t, b.Depleted(r))
	assert.Zero(t, r.VL)
	assert.Zero(t, r.VR)
}

func TestBatteryNeverLeavesRange(t *testing.T) {
	cfg := testConfig()
	cfg.Robot.BatteryCapacity = 50
	b := NewBattery(cfg.Robot, cfg.Charger)
	r := newTestRobot(cfg, 500, 500, 0)
	r.Battery = 25

	chargers := []*models.Charger{{ID: "c1", X: 500, Y: 500}, {ID: "c2", X: 510, Y: 500}}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		var in []*models.Charger
		switch rng.Intn(3) {
		case 1:
			in = chargers[:1]
		case 2:
			in = chargers
		}
		b.Update(r, in)
		assert.GreaterOrEqual(t, r.Battery, 0)
		assert.LessOrEqual(t, r.Battery, 50)
	}

	for _, v := range []int{-100, -1, 0, 25, 50, 51, 9999} {
		once := b.Clamp(v)
		assert.Equal(t, once, b.Clamp(once), "clamp is idempotent for %d", v)
	}
}

func TestBatteryIsLow(t *testing.T) {
	cfg := testConfig()
	b := NewBattery(cfg.Robot, cfg.Charger)
	r := newTestRobot(cfg, 500, 500, 0)

	r.Battery = 799
	assert.True(t, b.IsLow(r))
	r.Battery = 800
	assert.False(t, b.IsLow(r))
	assert.Equal(t, 3000, b.Capacity())
}
