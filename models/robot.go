package models

import (
	"math"

	"cleanbot-backend/algorithms"
)

// ========================================
// 로봇 상태 상수 (텔레메트리용)
// ========================================
const (
	StateIdle           RobotState = "idle"            // 남은 먼지 없음
	StateCleaning       RobotState = "cleaning"        // 경로 추종 중
	StateCruising       RobotState = "cruising"        // 경로 없이 직진
	StateSeekingCharger RobotState = "seeking_charger" // 충전소 탐색
	StateDocked         RobotState = "docked"          // 충전소 도착, 정지 충전
	StateRecovering     RobotState = "recovering"      // 경계 회피 회전
	StateAvoiding       RobotState = "avoiding"        // 위협 회피
	StateDepleted       RobotState = "depleted"        // 배터리 0
	StateWandering      RobotState = "wandering"       // 랜덤 워크
)

// RobotState - 로봇 상태 타입
type RobotState string

// BoundaryState - 경계 회피 상태 머신 (Cruising / Turning)
type BoundaryState struct {
	Turning   bool    `json:"turning"`
	TicksLeft int     `json:"ticks_left"`
	Buffer    float64 `json:"buffer"`
}

// WalkState - 랜덤 워크 두뇌의 직진/회전 카운터
type WalkState struct {
	Turning  bool `json:"turning"`
	RunLeft  int  `json:"run_left"`
	TurnLeft int  `json:"turn_left"`
}

// ========================================
// 청소 로봇
// ========================================
type Robot struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Pose algorithms.Pose `json:"pose"`
	VL   float64         `json:"vl"`   // 좌측 바퀴 속도
	VR   float64         `json:"vr"`   // 우측 바퀴 속도
	Axle float64         `json:"axle"` // 축 길이

	Battery int        `json:"battery"`
	State   RobotState `json:"state"`

	Map      *algorithms.OccupancyGrid `json:"-"`
	Boundary BoundaryState             `json:"boundary"`
	Walk     WalkState                 `json:"walk"`

	// 경로 정보. Path[0] 이 다음 웨이포인트.
	Path        []algorithms.Cell        `json:"path"`
	Goal        *algorithms.Cell         `json:"goal"`
	Passed      *algorithms.Cell         `json:"-"` // 마지막으로 pop 한 웨이포인트
	Unreachable map[algorithms.Cell]bool `json:"-"`

	Collected int `json:"collected"`
}

// NewRobot - 로봇 생성
func NewRobot(id, name string, pose algorithms.Pose, axle float64, battery int, buffer float64, cols, rows int) *Robot {
	pose.Theta = algorithms.WrapAngle(pose.Theta)
	return &Robot{
		ID:          id,
		Name:        name,
		Pose:        pose,
		Axle:        axle,
		Battery:     battery,
		State:       StateCruising,
		Map:         algorithms.NewOccupancyGrid(cols, rows),
		Boundary:    BoundaryState{Buffer: buffer},
		Unreachable: make(map[algorithms.Cell]bool),
	}
}

// Cell - 현재 위치의 격자 셀
func (r *Robot) Cell(cellSize float64) algorithms.Cell {
	return algorithms.CellOf(r.Pose.X, r.Pose.Y, cellSize)
}

// AvgSpeed - 평균 바퀴 속도
func (r *Robot) AvgSpeed() float64 {
	return (r.VL + r.VR) / 2
}

// SetWheels - 바퀴 속도 설정
func (r *Robot) SetWheels(vl, vr float64) {
	r.VL, r.VR = vl, vr
}

// Stop - 정지
func (r *Robot) Stop() {
	r.VL, r.VR = 0, 0
}

// ClearPlan - 목표와 캐시된 경로 폐기
func (r *Robot) ClearPlan() {
	r.Goal = nil
	r.Path = r.Path[:0]
	r.Passed = nil
}

// ResetNavigation - 위치가 바뀌었을 때 경로, 경계 회전, 도달 불가 기록, 랜덤 워크 카운터를 모두 초기화
func (r *Robot) ResetNavigation() {
	r.ClearPlan()
	r.Boundary.Turning = false
	r.Boundary.TicksLeft = 0
	clear(r.Unreachable)
	r.Walk = WalkState{}
}

// DistanceTo - 엔티티까지의 거리
func (r *Robot) DistanceTo(l Locator) float64 {
	x, y := l.Location()
	return math.Hypot(r.Pose.X-x, r.Pose.Y-y)
}

// Snapshot - 브로드캐스트/API 용 복사본
func (r *Robot) Snapshot() RobotSnapshot {
	s := RobotSnapshot{
		ID:        r.ID,
		Name:      r.Name,
		Pose:      r.Pose,
		VL:        r.VL,
		VR:        r.VR,
		Battery:   r.Battery,
		State:     r.State,
		Turning:   r.Boundary.Turning,
		Path:      append([]algorithms.Cell(nil), r.Path...),
		Collected: r.Collected,
	}
	if r.Goal != nil {
		goal := *r.Goal
		s.Goal = &goal
	}
	if r.Map != nil {
		s.Visited = r.Map.Count()
	}
	return s
}

// RobotSnapshot - 한 틱 시점의 로봇 상태
type RobotSnapshot struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Pose    algorithms.Pose   `json:"pose"`
	VL      float64           `json:"vl"`
	VR      float64           `json:"vr"`
	Battery int               `json:"battery"`
	State   RobotState        `json:"state"`
	Turning bool              `json:"turning"`
	Goal    *algorithms.Cell  `json:"goal"`
	Path    []algorithms.Cell `json:"path"`
	Visited int               `json:"visited"`

	Collected     int      `json:"collected"`
	CollectedTick int      `json:"collected_tick"`
	Charging      bool     `json:"charging"`
	Readings      Readings `json:"readings"`
}

// Readings - 좌/우 센서 세기
type Readings struct {
	ChargerL float64 `json:"charger_l"`
	ChargerR float64 `json:"charger_r"`
	ThreatL  float64 `json:"threat_l"`
	ThreatR  float64 `json:"threat_r"`
	LampL    float64 `json:"lamp_l"`
	LampR    float64 `json:"lamp_r"`
}
