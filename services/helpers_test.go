package services

import (
	"fmt"
	"sync"
	"time"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
	"cleanbot-backend/models"
)

const floatTolerance = 1e-9

// testConfig - 빈 아레나, 짧은 틱 한도
func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.Debris.Count = 0
	cfg.Charger.Count = 0
	cfg.Sensor.Lamps = nil
	cfg.Sim.Seed = 42
	cfg.Sim.MaxTicks = 20
	cfg.Sim.TickInterval = time.Millisecond
	cfg.Sim.LogEvery = 0
	return cfg
}

func newTestRobot(cfg config.Config, x, y, theta float64) *models.Robot {
	return models.NewRobot("bot-1", "Bot0", algorithms.Pose{X: x, Y: y, Theta: theta},
		cfg.Robot.AxleLength, cfg.Robot.BatteryCapacity, cfg.Robot.Boundary.Buffer,
		cfg.Arena.Cols(), cfg.Arena.Rows())
}

// addDebris - 좌표 목록으로 먼지 추가, ID 는 d0, d1, ...
func addDebris(w *World, points ...algorithms.Point) []*models.Debris {
	items := make([]*models.Debris, len(points))
	for i, p := range points {
		items[i] = &models.Debris{ID: fmt.Sprintf("d%d", w.DebrisCount()+i), X: p.X, Y: p.Y}
	}
	w.AddDebris(items...)
	return items
}

// repeatPoint - 같은 좌표 n 개
func repeatPoint(p algorithms.Point, n int) []algorithms.Point {
	out := make([]algorithms.Point, n)
	for i := range out {
		out[i] = p
	}
	return out
}

func newTestSimulator(cfg config.Config, world *World, robots ...*models.Robot) *Simulator {
	s := &Simulator{cfg: cfg}
	s.install(cfg.Sim.Seed, world, robots)
	return s
}

// messageRecorder - 브로드캐스트 캡처
type messageRecorder struct {
	mu       sync.Mutex
	messages []models.WebSocketMessage
}

func (m *messageRecorder) record(msg models.WebSocketMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *messageRecorder) ofType(msgType string) []models.WebSocketMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WebSocketMessage
	for _, msg := range m.messages {
		if msg.Type == msgType {
			out = append(out, msg)
		}
	}
	return out
}
