package models

import (
	"time"

	"cleanbot-backend/algorithms"
)

// ========================================
// 메시지 타입 상수
// ========================================
const (
	// Server → Web
	MessageTypeTick        = "tick"         // 매 틱 로봇 상태
	MessageTypeStatus      = "status"       // 시뮬레이션 상태 요약
	MessageTypePathUpdate  = "path_update"  // 재계획된 경로
	MessageTypeMapUpdate   = "map_update"   // 점유 격자 갱신
	MessageTypeRunComplete = "run_complete" // 틱 한도 도달
	MessageTypeCommentary  = "commentary"   // 자동 중계 문장
	MessageTypeSystemInfo  = "system_info"  // 시스템 정보

	// Web → Server
	MessageTypeCommand = "command" // 시작/정지/리셋/텔레포트
)

// 명령 종류
const (
	CommandStart    = "start"
	CommandStop     = "stop"
	CommandReset    = "reset"
	CommandTeleport = "teleport"
)

// ========================================
// 공통 WebSocket 메시지 형식
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// NewMessage - 현재 시각으로 메시지 생성
func NewMessage(msgType string, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ========================================
// 틱 데이터
// ========================================
type TickReport struct {
	Tick            int             `json:"tick"`
	Robots          []RobotSnapshot `json:"robots"`
	CollectedTick   int             `json:"collected_tick"`
	CollectedTotal  int             `json:"collected_total"`
	RemainingDebris int             `json:"remaining_debris"`
	Threats         []Threat        `json:"threats,omitempty"`
}

// ========================================
// 경로 데이터
// ========================================
type PathData struct {
	RobotID   string             `json:"robot_id"`
	Cells     []algorithms.Cell  `json:"cells"`
	Points    []algorithms.Point `json:"points"` // 간소화된 웨이포인트
	Length    int                `json:"length"` // 홉 수
	Algorithm string             `json:"algorithm"`
	CreatedAt time.Time          `json:"created_at"`
}

// MapData - 점유 격자와 정적 배치
type MapData struct {
	RobotID   string                    `json:"robot_id"`
	CellSize  float64                   `json:"cell_size"`
	Occupancy *algorithms.OccupancyGrid `json:"occupancy"`
	Obstacles []algorithms.Cell         `json:"obstacles"`
	Zones     []Zone                    `json:"zones"`
	Chargers  []Charger                 `json:"chargers"`
}

// ========================================
// 명령 메시지
// ========================================
type CommandData struct {
	Action  string  `json:"action"` // start | stop | reset | teleport
	RobotID string  `json:"robot_id,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Seed    int64   `json:"seed,omitempty"` // reset 전용, 0 이면 시간 기반
}

// ========================================
// 실행 결과 요약
// ========================================
type RunSummary struct {
	RunID          string      `json:"run_id"`
	Seed           int64       `json:"seed"`
	Brain          string      `json:"brain"`
	TargetPolicy   string      `json:"target_policy"`
	Ticks          int         `json:"ticks"`
	TotalCollected int         `json:"total_collected"`
	Remaining      int         `json:"remaining"`
	Milestones     map[int]int `json:"milestones"`
	Reason         string      `json:"reason"`
}

// ========================================
// 자동 중계
// ========================================
type CommentaryData struct {
	EventType string `json:"event_type"`
	RobotID   string `json:"robot_id,omitempty"`
	Text      string `json:"text"`
	Priority  int    `json:"priority"`
}

// ========================================
// 시스템 정보
// ========================================
type SystemInfo struct {
	ConnectedClients int       `json:"connected_clients"`
	Running          bool      `json:"running"`
	ServerTime       time.Time `json:"server_time"`
}
