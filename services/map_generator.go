package services

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
	"cleanbot-backend/models"

	"github.com/google/uuid"
)

// 배치 재시도 한도
const maxPlacementAttempts = 1000

// 로봇 스폰 시 금지 구역 여유
const robotZoneMargin = 20

// MapGenerator handles random arena population
type MapGenerator struct {
	generationMu sync.Mutex
	rng          *rand.Rand
	seed         int64
	cfg          config.Config
	zones        []models.Zone
}

// NewMapGenerator creates a generator. seed 0 picks a time-based seed.
func NewMapGenerator(cfg config.Config, seed int64) *MapGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MapGenerator{
		rng:   rand.New(rand.NewSource(seed)),
		seed:  seed,
		cfg:   cfg,
		zones: toModelZones(cfg.Arena.Zones),
	}
}

// Seed returns the seed actually in use
func (mg *MapGenerator) Seed() int64 {
	return mg.seed
}

// GenerateWorld places debris, chargers, threats and lamps
func (mg *MapGenerator) GenerateWorld() *World {
	mg.generationMu.Lock()
	defer mg.generationMu.Unlock()

	w := NewWorld(mg.cfg.Arena.CellSize)
	w.AddZone(mg.zones...)

	for i := 0; i < mg.cfg.Debris.Count; i++ {
		x, y := mg.randomPosition(mg.cfg.Debris.ZoneMargin)
		w.AddDebris(&models.Debris{ID: uuid.New().String(), X: x, Y: y})
	}

	for i := 0; i < mg.cfg.Charger.Count; i++ {
		x, y := mg.randomPosition(mg.cfg.Debris.ZoneMargin)
		w.AddCharger(&models.Charger{ID: uuid.New().String(), X: x, Y: y})
	}

	for i := 0; i < mg.cfg.Threat.Count; i++ {
		x, y := mg.randomPosition(0)
		t := models.NewThreat(uuid.New().String(), fmt.Sprintf("Cat%d", i), x, y)
		if speed := mg.cfg.Threat.DriftSpeed; speed > 0 {
			heading := mg.rng.Float64() * 2 * math.Pi
			t.VX, t.VY = speed*math.Cos(heading), speed*math.Sin(heading)
		}
		w.AddThreat(t)
	}

	for _, p := range mg.cfg.Sensor.Lamps {
		w.AddLamp(&models.Lamp{ID: uuid.New().String(), X: p.X, Y: p.Y})
	}

	return w
}

// GenerateRobots spawns robots outside the exclusion zones with a random heading
func (mg *MapGenerator) GenerateRobots() []*models.Robot {
	mg.generationMu.Lock()
	defer mg.generationMu.Unlock()

	rc := mg.cfg.Robot
	robots := make([]*models.Robot, 0, rc.Count)
	for i := 0; i < rc.Count; i++ {
		x, y := mg.randomPosition(robotZoneMargin)
		pose := algorithms.Pose{X: x, Y: y, Theta: mg.rng.Float64() * 2 * math.Pi}
		robots = append(robots, models.NewRobot(
			uuid.New().String(),
			fmt.Sprintf("Bot%d", i),
			pose,
			rc.AxleLength,
			rc.BatteryCapacity,
			rc.Boundary.Buffer,
			mg.cfg.Arena.Cols(),
			mg.cfg.Arena.Rows(),
		))
	}
	return robots
}

// IsPositionValid checks bounds and zone clearance
func (mg *MapGenerator) IsPositionValid(x, y, margin float64) bool {
	a := mg.cfg.Arena
	if x < a.XMin || x > a.XMax || y < a.YMin || y > a.YMax {
		return false
	}
	for _, z := range mg.zones {
		if z.Contains(x, y, margin) {
			return false
		}
	}
	return true
}

// randomPosition draws integer coordinates inside the bounds until one clears the zones
func (mg *MapGenerator) randomPosition(margin float64) (float64, float64) {
	a := mg.cfg.Arena
	spanX := int(a.XMax-a.XMin) + 1
	spanY := int(a.YMax-a.YMin) + 1

	for i := 0; i < maxPlacementAttempts; i++ {
		x := a.XMin + float64(mg.rng.Intn(spanX))
		y := a.YMin + float64(mg.rng.Intn(spanY))
		if mg.IsPositionValid(x, y, margin) {
			return x, y
		}
	}
	// 구역이 아레나를 거의 덮는 설정이면 중앙으로
	return (a.XMin + a.XMax) / 2, (a.YMin + a.YMax) / 2
}
