package services

import (
	"math"
	"math/rand"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
	"cleanbot-backend/models"
)

// Decision - 한 틱의 판단 결과 (로그/브로드캐스트용)
type Decision struct {
	State        models.RobotState
	Goal         *algorithms.Cell // 새로 선택된 목표
	GoalSelected bool
	Replanned    bool
	PlanFailed   bool
}

// Navigator - 배터리, 목표 선택, 경로 계획, 조향을 묶는 두뇌.
// 틱 사이 상태는 모두 Robot 에 있고 Navigator 자신은 상태가 없다.
type Navigator struct {
	grid     *algorithms.Grid
	strategy *Strategy
	battery  *Battery

	cellSize   float64
	cruise     float64
	slow       float64
	tolerance  float64
	hybrid     bool
	lineWeight float64
	charger    config.ChargerConfig

	brain  string
	policy string
	walk   config.RandomWalkConfig
	rng    *rand.Rand
}

// NewNavigator - 두뇌 생성. rng 는 랜덤 워크 두뇌만 쓴다.
func NewNavigator(cfg config.Config, grid *algorithms.Grid, strategy *Strategy, battery *Battery, rng *rand.Rand) *Navigator {
	return &Navigator{
		grid:       grid,
		strategy:   strategy,
		battery:    battery,
		cellSize:   cfg.Arena.CellSize,
		cruise:     cfg.Robot.CruiseSpeed,
		slow:       cfg.Robot.SlowWheelSpeed,
		tolerance:  cfg.Robot.HeadingTolerance,
		hybrid:     cfg.Planner.Heuristic == "hybrid",
		lineWeight: cfg.Planner.LineWeight,
		charger:    cfg.Charger,
		brain:      cfg.Planner.Brain,
		policy:     cfg.Planner.TargetPolicy,
		walk:       cfg.Planner.Walk,
		rng:        rng,
	}
}

// Decide - 이번 틱의 바퀴 속도와 목표/경로를 정한다.
// 배터리 부족은 경로 추종보다 항상 우선한다.
func (n *Navigator) Decide(r *models.Robot, readings models.Readings, field *World) Decision {
	if n.brain == config.BrainRandomWalk {
		return n.randomWalk(r, readings)
	}
	if n.battery.IsLow(r) {
		return Decision{State: n.seekCharger(r, readings)}
	}
	if r.Boundary.Turning {
		return Decision{State: models.StateRecovering}
	}

	var dec Decision
	cur := r.Cell(n.cellSize)

	// 목표 셀의 먼지가 다 사라졌으면 폐기
	if r.Goal != nil && field.CountAt(*r.Goal) == 0 {
		r.ClearPlan()
	}

	if r.Goal == nil {
		goal := n.strategy.Pick(n.policy, field, cur, r.Unreachable)
		if goal == nil {
			r.Stop()
			r.ClearPlan()
			return Decision{State: models.StateIdle}
		}
		r.Goal = goal
		r.Path = r.Path[:0]
		selected := *goal
		dec.Goal = &selected
		dec.GoalSelected = true
	}

	// 다음 셀로 넘어갔으면 지난 셀은 버린다
	if len(r.Path) > 1 && r.Path[1] == cur {
		r.Path = r.Path[1:]
	}

	if n.needsReplan(r, cur) {
		r.Path = n.grid.FindPath(cur, *r.Goal, n.heuristic(cur, *r.Goal))
		r.Passed = nil
		dec.Replanned = true
		if len(r.Path) == 0 {
			// 경로 없음: 목표를 도달 불가로 기록하고 직진
			r.Unreachable[*r.Goal] = true
			r.Goal = nil
			r.SetWheels(n.cruise, n.cruise)
			dec.PlanFailed = true
			dec.State = models.StateCruising
			return dec
		}
	}

	n.follow(r, cur, field)
	dec.State = models.StateCleaning
	return dec
}

// needsReplan - 경로가 비었거나 로봇이 머리 셀에도, 방금 지나온 웨이포인트에도 없는지
func (n *Navigator) needsReplan(r *models.Robot, cur algorithms.Cell) bool {
	if len(r.Path) == 0 {
		return true
	}
	if r.Path[0] == cur {
		return false
	}
	return r.Passed == nil || *r.Passed != cur
}

// heuristic - 설정된 A* 휴리스틱
func (n *Navigator) heuristic(start, goal algorithms.Cell) algorithms.Heuristic {
	if n.hybrid {
		return algorithms.Hybrid(start, goal, n.lineWeight)
	}
	return algorithms.Euclidean(goal)
}

// follow - 경로 머리 셀 중심으로 뱅뱅 조향, 충분히 가까우면 pop
func (n *Navigator) follow(r *models.Robot, cur algorithms.Cell, field *World) {
	head := r.Path[0]
	tx, ty := head.Center(n.cellSize)

	// 목표 셀 안에서는 셀 중심 대신 가장 가까운 먼지로 접근
	if len(r.Path) == 1 && cur == head {
		if d := n.strategy.NearestDebrisIn(field, head, r.Pose.X, r.Pose.Y); d != nil {
			tx, ty = d.X, d.Y
		}
	}

	n.steer(r, tx, ty)

	threshold := max(5, r.AvgSpeed()*1.2)
	if algorithms.Distance(r.Pose.X, r.Pose.Y, tx, ty) < threshold {
		r.Passed = &head
		r.Path = r.Path[1:]
		if len(r.Path) == 0 {
			r.Goal = nil
		}
	}
}

// steer - 헤딩 오차 부호에 따른 3단 조향.
// ω = (vl-vr)/L 이므로 오차가 양수면 왼쪽 바퀴를 빠르게 한다.
func (n *Navigator) steer(r *models.Robot, tx, ty float64) {
	desired := math.Atan2(ty-r.Pose.Y, tx-r.Pose.X)
	diff := algorithms.NormalizeAngle(desired - r.Pose.Theta)

	switch {
	case math.Abs(diff) < n.tolerance:
		r.SetWheels(n.cruise, n.cruise)
	case diff > 0:
		r.SetWheels(n.cruise, n.slow)
	default:
		r.SetWheels(n.slow, n.cruise)
	}
}

// randomWalk - 무작위 길이의 직진과 제자리 회전을 번갈아 하는 비교용 두뇌.
// 카운터는 배터리가 부족해도 계속 흐르고, 충전소 추적이 바퀴 속도를 덮어쓴다.
func (n *Navigator) randomWalk(r *models.Robot, readings models.Readings) Decision {
	if r.Boundary.Turning {
		return Decision{State: models.StateRecovering}
	}

	w := &r.Walk
	if !w.Turning && w.RunLeft == 0 {
		w.RunLeft = n.between(n.walk.RunMin, n.walk.RunMax)
	}

	if w.Turning {
		r.SetWheels(-n.walk.TurnSpeed, n.walk.TurnSpeed)
		w.TurnLeft--
		if w.TurnLeft <= 0 {
			w.Turning = false
			w.RunLeft = n.between(n.walk.RunMin, n.walk.RunMax)
		}
	} else {
		r.SetWheels(n.cruise, n.cruise)
		w.RunLeft--
		if w.RunLeft <= 0 {
			w.Turning = true
			w.TurnLeft = n.between(n.walk.TurnMin, n.walk.TurnMax)
		}
	}

	if n.battery.IsLow(r) {
		return Decision{State: n.seekCharger(r, readings)}
	}
	// 지나가다 충전소에 닿으면 가득 찰 때까지 멈춘다
	if readings.ChargerL+readings.ChargerR > n.charger.ArrivalIntensity && r.Battery < n.battery.Capacity() {
		r.Stop()
		return Decision{State: models.StateDocked}
	}
	return Decision{State: models.StateWandering}
}

// between - [lo, hi) 정수
func (n *Navigator) between(lo, hi int) int {
	return lo + n.rng.Intn(hi-lo)
}

// seekCharger - 더 강한 충전소 센서 쪽으로 회전, 충분히 가까우면 정지
func (n *Navigator) seekCharger(r *models.Robot, readings models.Readings) models.RobotState {
	left, right := readings.ChargerL, readings.ChargerR
	speed := n.charger.SteerSpeed

	switch {
	case left+right > n.charger.ArrivalIntensity:
		r.Stop()
		return models.StateDocked
	case math.Abs(right-left) <= n.charger.BalanceRatio*min(left, right):
		r.SetWheels(n.cruise, n.cruise)
	case right > left:
		r.SetWheels(speed, -speed)
	default:
		r.SetWheels(-speed, speed)
	}
	return models.StateSeekingCharger
}
