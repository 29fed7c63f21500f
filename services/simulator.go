package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
	"cleanbot-backend/models"

	"github.com/google/uuid"
)

var (
	// ErrTickCapReached - 틱 한도 도달. 실행을 끝내는 유일한 정상 종료 조건.
	ErrTickCapReached = errors.New("tick cap reached")
	// ErrRobotNotFound - 없는 로봇 ID
	ErrRobotNotFound = errors.New("robot not found")
	// ErrAlreadyRunning - 이미 실행 중
	ErrAlreadyRunning = errors.New("simulation already running")
)

// 종료 사유
const (
	ReasonTickCap   = "tick_cap"
	ReasonStopped   = "stopped"
	ReasonCancelled = "cancelled"
)

// Simulator - 청소 로봇 시뮬레이터.
// 틱 루프 고루틴만 로봇 상태를 바꾸고, API 는 RWMutex 아래에서 스냅샷만 읽는다.
type Simulator struct {
	running       bool
	finished      bool
	broadcastFunc func(models.WebSocketMessage)
	commentary    *CommentaryService

	cfg   config.Config
	runID string
	seed  int64

	// 월드와 로봇
	world  *World
	robots []*models.Robot
	grid   *algorithms.Grid

	// 협력자
	counter   *Counter
	battery   *Battery
	guard     *BoundaryGuard
	avoider   *ThreatAvoider
	sensor    *Sensor
	strategy  *Strategy
	navigator *Navigator
	collector *Collector

	tick       int
	lastReport models.TickReport

	// 제어
	stopChan chan struct{}
	loopDone chan struct{}
	mu       sync.RWMutex
}

// NewSimulator - 설정의 시드로 아레나를 생성한 시뮬레이터
func NewSimulator(cfg config.Config, broadcastFunc func(models.WebSocketMessage)) *Simulator {
	s := &Simulator{
		cfg:           cfg,
		broadcastFunc: broadcastFunc,
	}
	mg := NewMapGenerator(cfg, cfg.Sim.Seed)
	s.install(mg.Seed(), mg.GenerateWorld(), mg.GenerateRobots())
	return s
}

// install - 월드/로봇 교체 후 협력자 재구성
func (s *Simulator) install(seed int64, world *World, robots []*models.Robot) {
	cfg := s.cfg

	grid := algorithms.NewGrid(cfg.Arena.Cols(), cfg.Arena.Rows())
	if cfg.Planner.BakeZones {
		for _, z := range cfg.Arena.Zones {
			grid.AddRect(z.X1, z.Y1, z.X2, z.Y2, cfg.Arena.CellSize)
		}
	}

	s.seed = seed
	s.runID = uuid.New().String()
	s.world = world
	s.robots = robots
	s.grid = grid

	s.counter = NewCounter(cfg.Sim.Milestones)
	s.battery = NewBattery(cfg.Robot, cfg.Charger)
	s.guard = NewBoundaryGuard(cfg, world.Zones())
	s.avoider = NewThreatAvoider(cfg.Threat)
	s.sensor = NewSensor(cfg.Sensor)
	s.strategy = NewStrategy(cfg.Arena, cfg.Debris)
	s.navigator = NewNavigator(cfg, grid, s.strategy, s.battery, rand.New(rand.NewSource(seed)))
	s.collector = NewCollector(cfg.Robot.PickupRadius, s.counter)

	s.tick = 0
	s.finished = false
	s.lastReport = s.buildIdleReport()

	// 시작 위치도 방문으로 기록
	for _, r := range robots {
		r.Map.Mark(r.Cell(cfg.Arena.CellSize))
	}
}

// SetCommentaryService - 자동 중계 서비스 설정
func (s *Simulator) SetCommentaryService(cs *CommentaryService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commentary = cs
	log.Println("🎙️ 시뮬레이터에 자동 중계 서비스 연결됨")
}

func (s *Simulator) commentaryService() *CommentaryService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commentary
}

// Reset - 실행 중이면 멈추고 새 시드로 아레나를 다시 만든다. seed 0 은 시간 기반.
func (s *Simulator) Reset(seed int64) {
	s.Stop()

	mg := NewMapGenerator(s.cfg, seed)
	world, robots := mg.GenerateWorld(), mg.GenerateRobots()

	s.mu.Lock()
	s.install(mg.Seed(), world, robots)
	s.mu.Unlock()

	log.Printf("🔄 시뮬레이션 리셋 (seed: %d)", mg.Seed())
	s.broadcast(models.MessageTypeStatus, s.GetStatus())
}

// Start - 틱 루프 시작
func (s *Simulator) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	if s.finished {
		s.mu.Unlock()
		return ErrTickCapReached
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.loopDone = make(chan struct{})
	stop, done := s.stopChan, s.loopDone
	s.mu.Unlock()

	log.Println("🚀 청소 로봇 시뮬레이터 시작")
	go s.runSimulation(stop, done)
	return nil
}

// Stop - 틱 루프 중지. 루프가 완전히 끝난 뒤 반환한다.
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stopChan, s.loopDone
	s.mu.Unlock()

	close(stop)
	<-done
	log.Println("🛑 청소 로봇 시뮬레이터 중지")
}

// IsRunning - 틱 루프 동작 여부
func (s *Simulator) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// runSimulation - 시뮬레이션 메인 루프
func (s *Simulator) runSimulation(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.Sim.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			report, err := s.Step()
			s.broadcast(models.MessageTypeTick, report)
			if errors.Is(err, ErrTickCapReached) {
				s.mu.Lock()
				s.running = false
				s.mu.Unlock()

				summary := s.Summary()
				log.Printf("🏁 틱 한도 도달: %d틱 동안 %d개 수거", summary.Ticks, summary.TotalCollected)
				s.broadcast(models.MessageTypeRunComplete, summary)
				if cs := s.commentaryService(); cs != nil {
					cs.QueueEvent(models.EventRunComplete, models.RobotSnapshot{},
						fmt.Sprintf("%d틱 동안 %d개 수거", summary.Ticks, summary.TotalCollected))
				}
				return
			}
		}
	}
}

// Step - 모든 로봇을 등록 순서대로 한 틱 진행한다.
// 이번 틱에 한도에 도달하면 보고서와 함께 ErrTickCapReached 를 반환하고,
// 이미 끝난 실행에서는 진행 없이 마지막 보고서를 돌려준다.
func (s *Simulator) Step() (models.TickReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return s.lastReport, ErrTickCapReached
	}

	report := s.step()
	if s.finished {
		return report, ErrTickCapReached
	}
	return report, nil
}

// step - 락을 잡은 상태에서 한 틱
func (s *Simulator) step() models.TickReport {
	a := s.cfg.Arena
	s.tick++

	report := models.TickReport{
		Tick:   s.tick,
		Robots: make([]models.RobotSnapshot, 0, len(s.robots)),
	}
	for _, r := range s.robots {
		snap := s.stepRobot(r)
		report.CollectedTick += snap.CollectedTick
		report.Robots = append(report.Robots, snap)
	}

	s.world.AdvanceThreats(s.cfg.Sim.Dt, a.XMin, a.XMax, a.YMin, a.YMax)

	if hit, milestones := s.counter.CheckMilestone(s.tick); hit {
		log.Printf("📊 Move %d: Collected %d dirt", s.tick, milestones[s.tick])
	}

	report.CollectedTotal = s.counter.Total()
	report.RemainingDebris = s.world.DebrisCount()
	report.Threats = s.threatValues()

	if s.tick >= s.cfg.Sim.MaxTicks {
		s.finished = true
	}
	s.lastReport = report
	return report
}

// stepRobot - sense → decide → move → map → collect
func (s *Simulator) stepRobot(r *models.Robot) models.RobotSnapshot {
	cellSize := s.cfg.Arena.CellSize
	prevState := r.State

	readings := s.sensor.Sense(r, s.world)

	dec := s.navigator.Decide(r, readings, s.world)
	r.State = dec.State
	if dec.GoalSelected {
		s.emit(models.EventGoalSelected, r, fmt.Sprintf("goal=(%d,%d)", dec.Goal.Col, dec.Goal.Row))
	}
	if dec.PlanFailed {
		s.emit(models.EventPlanFailed, r, "no route, cruising")
	} else if dec.Replanned {
		s.emit(models.EventReplan, r, fmt.Sprintf("path=%d", len(r.Path)))
		s.broadcastPath(r)
	}

	charging := s.move(r)

	visited := r.Map.Count()
	r.Map.Mark(r.Cell(cellSize))
	if r.Map.Count() > visited {
		s.broadcast(models.MessageTypeMapUpdate, s.mapData(r))
	}

	removed := s.collector.Collect(r, s.world)
	if len(removed) > 0 {
		s.emit(models.EventDebrisCollect, r, fmt.Sprintf("count=%d", len(removed)))
	}

	if r.State != prevState {
		s.emitStateChange(r)
	}
	if every := s.cfg.Sim.LogEvery; every > 0 && s.tick%every == 0 {
		LogRobotEvent(s.runID, s.tick, models.EventTick, r, "")
	}

	snap := r.Snapshot()
	snap.CollectedTick = len(removed)
	snap.Charging = charging
	snap.Readings = readings
	return snap
}

// move - 배터리 → 경계 회피 → 위협 회피 → 적분. 충전 여부 반환.
func (s *Simulator) move(r *models.Robot) bool {
	charging := s.battery.Update(r, s.world.Chargers())
	if s.battery.Depleted(r) {
		r.State = models.StateDepleted
		return charging
	}

	if handled, started := s.guard.Update(r); handled {
		r.State = models.StateRecovering
		if started {
			s.emit(models.EventBoundaryTurn, r, fmt.Sprintf("ticks=%d", r.Boundary.TicksLeft))
		}
		return charging
	}

	if s.avoider.Avoid(r, s.world.Threats()) > 0 {
		r.State = models.StateAvoiding
	}

	r.Pose = algorithms.Integrate(r.Pose, r.VL, r.VR, r.Axle, s.cfg.Sim.Dt)
	return charging
}

// emitStateChange - 의미 있는 상태 전이만 기록
func (s *Simulator) emitStateChange(r *models.Robot) {
	switch r.State {
	case models.StateSeekingCharger:
		s.emit(models.EventLowBattery, r, fmt.Sprintf("battery=%d", r.Battery))
	case models.StateDocked:
		s.emit(models.EventCharging, r, fmt.Sprintf("battery=%d", r.Battery))
	case models.StateDepleted:
		s.emit(models.EventDepleted, r, "")
	case models.StateAvoiding:
		s.emit(models.EventThreatAvoid, r, "")
	case models.StateIdle:
		s.emit(models.EventIdle, r, "no debris left")
	}
}

// emit - 로그 버퍼와 자동 중계로 이벤트 전달
func (s *Simulator) emit(eventType string, r *models.Robot, detail string) {
	LogRobotEvent(s.runID, s.tick, eventType, r, detail)
	if s.commentary != nil {
		s.commentary.QueueEvent(eventType, r.Snapshot(), detail)
	}
}

// RunHeadless - 대기 없이 한도까지 실행
func (s *Simulator) RunHeadless(ctx context.Context) (models.RunSummary, error) {
	for {
		if err := ctx.Err(); err != nil {
			summary := s.Summary()
			summary.Reason = ReasonCancelled
			return summary, err
		}
		if _, err := s.Step(); errors.Is(err, ErrTickCapReached) {
			return s.Summary(), nil
		}
	}
}

// Teleport - 로봇을 지정 위치로 옮긴다. 위치는 경계 안으로 제한되고 계획은 폐기된다.
func (s *Simulator) Teleport(robotID string, x, y float64) (models.RobotSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findRobot(robotID)
	if r == nil {
		return models.RobotSnapshot{}, fmt.Errorf("%w: %s", ErrRobotNotFound, robotID)
	}

	a := s.cfg.Arena
	r.Pose.X = min(max(x, a.XMin), a.XMax)
	r.Pose.Y = min(max(y, a.YMin), a.YMax)
	r.ResetNavigation()
	r.Map.Mark(r.Cell(a.CellSize))

	s.emit(models.EventTeleport, r, fmt.Sprintf("to=(%.1f,%.1f)", r.Pose.X, r.Pose.Y))
	log.Printf("📍 %s 텔레포트: (%.1f, %.1f)", r.Name, r.Pose.X, r.Pose.Y)
	return r.Snapshot(), nil
}

// Summary - 현재까지의 실행 요약
func (s *Simulator) Summary() models.RunSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reason := ReasonStopped
	if s.finished {
		reason = ReasonTickCap
	}
	return models.RunSummary{
		RunID:          s.runID,
		Seed:           s.seed,
		Brain:          s.cfg.Planner.Brain,
		TargetPolicy:   s.cfg.Planner.TargetPolicy,
		Ticks:          s.tick,
		TotalCollected: s.counter.Total(),
		Remaining:      s.world.DebrisCount(),
		Milestones:     s.counter.Milestones(),
		Reason:         reason,
	}
}

// Report - 마지막 틱 보고서
func (s *Simulator) Report() models.TickReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

// MapData - 로봇의 점유 격자와 정적 배치. robotID 가 비어 있으면 첫 로봇.
func (s *Simulator) MapData(robotID string) (models.MapData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r *models.Robot
	if robotID == "" && len(s.robots) > 0 {
		r = s.robots[0]
	} else {
		r = s.findRobot(robotID)
	}
	if r == nil {
		return models.MapData{}, fmt.Errorf("%w: %s", ErrRobotNotFound, robotID)
	}
	return s.mapData(r), nil
}

// Robots - 모든 로봇 스냅샷
func (s *Simulator) Robots() []models.RobotSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RobotSnapshot, len(s.robots))
	for i, r := range s.robots {
		out[i] = r.Snapshot()
	}
	return out
}

// Robot - ID 로 로봇 스냅샷 조회
func (s *Simulator) Robot(robotID string) (models.RobotSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.findRobot(robotID)
	if r == nil {
		return models.RobotSnapshot{}, fmt.Errorf("%w: %s", ErrRobotNotFound, robotID)
	}
	return r.Snapshot(), nil
}

// GetStatus - 현재 상태 반환
func (s *Simulator) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	robots := make([]models.RobotSnapshot, len(s.robots))
	for i, r := range s.robots {
		robots[i] = r.Snapshot()
	}

	return map[string]interface{}{
		"running":          s.running,
		"finished":         s.finished,
		"run_id":           s.runID,
		"seed":             s.seed,
		"tick":             s.tick,
		"max_ticks":        s.cfg.Sim.MaxTicks,
		"robots":           robots,
		"collected":        s.counter.Total(),
		"remaining_debris": s.world.DebrisCount(),
		"milestones":       s.counter.Milestones(),
		"heuristic":        s.cfg.Planner.Heuristic,
	}
}

// Config - 시뮬레이터 설정
func (s *Simulator) Config() config.Config {
	return s.cfg
}

// findRobot - ID 로 로봇 검색
func (s *Simulator) findRobot(id string) *models.Robot {
	for _, r := range s.robots {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// mapData - 점유 격자 복사본 구성
func (s *Simulator) mapData(r *models.Robot) models.MapData {
	chargers := s.world.Chargers()
	values := make([]models.Charger, len(chargers))
	for i, c := range chargers {
		values[i] = *c
	}
	return models.MapData{
		RobotID:   r.ID,
		CellSize:  s.cfg.Arena.CellSize,
		Occupancy: r.Map.Clone(),
		Obstacles: s.grid.Obstacles(),
		Zones:     s.world.Zones(),
		Chargers:  values,
	}
}

// threatValues - 위협 위치 복사본
func (s *Simulator) threatValues() []models.Threat {
	threats := s.world.Threats()
	if len(threats) == 0 {
		return nil
	}
	out := make([]models.Threat, len(threats))
	for i, t := range threats {
		out[i] = *t
	}
	return out
}

// buildIdleReport - 첫 틱 전 보고서
func (s *Simulator) buildIdleReport() models.TickReport {
	report := models.TickReport{
		Robots:          make([]models.RobotSnapshot, len(s.robots)),
		RemainingDebris: s.world.DebrisCount(),
		Threats:         s.threatValues(),
	}
	for i, r := range s.robots {
		report.Robots[i] = r.Snapshot()
	}
	return report
}

// broadcastPath - 재계획된 경로 전송
func (s *Simulator) broadcastPath(r *models.Robot) {
	if s.broadcastFunc == nil {
		return
	}
	points := algorithms.Simplify(algorithms.Waypoints(r.Path, s.cfg.Arena.CellSize), 1.0)
	algorithm := "astar_" + s.cfg.Planner.Heuristic
	s.broadcast(models.MessageTypePathUpdate, models.PathData{
		RobotID:   r.ID,
		Cells:     append([]algorithms.Cell(nil), r.Path...),
		Points:    points,
		Length:    max(len(r.Path)-1, 0),
		Algorithm: algorithm,
		CreatedAt: time.Now(),
	})
}

// broadcast - 관찰자 콜백 호출
func (s *Simulator) broadcast(msgType string, data interface{}) {
	if s.broadcastFunc == nil {
		return
	}
	s.broadcastFunc(models.NewMessage(msgType, data))
}
