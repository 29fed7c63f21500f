package models

import (
	"time"
)

// 로그 이벤트 타입
const (
	EventTick          = "tick"
	EventGoalSelected  = "goal_selected"
	EventReplan        = "replan"
	EventPlanFailed    = "plan_failed"
	EventBoundaryTurn  = "boundary_turn"
	EventThreatAvoid   = "threat_avoid"
	EventLowBattery    = "low_battery"
	EventDepleted      = "battery_depleted"
	EventCharging      = "charging"
	EventDebrisCollect = "debris_collected"
	EventIdle          = "idle"
	EventTeleport      = "teleport"
	EventRunComplete   = "run_complete"
)

// RobotLog - 로봇 행동 로그
type RobotLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RunID     string    `gorm:"index;size:36" json:"run_id"`
	Tick      int       `json:"tick"`
	EventType string    `gorm:"index;size:32" json:"event_type"`

	// 로봇 상태
	RobotID   string  `gorm:"index;size:36" json:"robot_id"`
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	Theta     float64 `json:"theta"`
	VL        float64 `json:"vl"`
	VR        float64 `json:"vr"`
	Battery   int     `json:"battery"`
	State     string  `json:"state"`

	// 경로 정보 (목표 없으면 -1)
	GoalCol    int `json:"goal_col"`
	GoalRow    int `json:"goal_row"`
	PathLength int `json:"path_length"`

	Collected int    `json:"collected"`
	Detail    string `json:"detail"`
}

// RunResult - 한 번의 시뮬레이션 실행 결과 (배치 실행)
type RunResult struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	RunID          string    `gorm:"uniqueIndex;size:36" json:"run_id"`
	BatchID        string    `gorm:"index;size:36" json:"batch_id"`
	Seed           int64     `json:"seed"`
	Robots         int       `json:"robots"`
	Brain          string    `gorm:"size:16" json:"brain"`
	TargetPolicy   string    `gorm:"size:16" json:"target_policy"`
	Heuristic      string    `json:"heuristic"`
	Ticks          int       `json:"ticks"`
	TotalCollected int       `json:"total_collected"`
	Remaining      int       `json:"remaining"`
	MilestonesJSON string    `json:"milestones_json"`
}
