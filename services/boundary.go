package services

import (
	"math"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
	"cleanbot-backend/models"
)

// BoundaryGuard - 경계 회피 상태 머신 (Cruising → Turning → Cruising)
type BoundaryGuard struct {
	cfg    config.BoundaryConfig
	arena  config.ArenaConfig
	zones  []models.Zone
	axle   float64
	cruise float64
	dt     float64
}

// NewBoundaryGuard - 경계 감시기 생성
func NewBoundaryGuard(cfg config.Config, zones []models.Zone) *BoundaryGuard {
	return &BoundaryGuard{
		cfg:    cfg.Robot.Boundary,
		arena:  cfg.Arena,
		zones:  zones,
		axle:   cfg.Robot.AxleLength,
		cruise: cfg.Robot.CruiseSpeed,
		dt:     cfg.Sim.Dt,
	}
}

// Update - 이번 틱을 경계 회피가 처리했으면 true.
// started 는 이번 틱에 회전이 새로 시작됐는지 여부.
func (g *BoundaryGuard) Update(r *models.Robot) (handled, started bool) {
	if !r.Boundary.Turning {
		if !g.Imminent(r) {
			return false, false
		}
		g.Begin(r)
		return true, true
	}
	g.Step(r)
	return true, false
}

// Imminent - lookahead 만큼 진행한 예상 위치가 경계 밖이거나 금지 구역에 들어가는지
func (g *BoundaryGuard) Imminent(r *models.Robot) bool {
	avg := r.AvgSpeed()
	x := r.Pose.X + avg*math.Cos(r.Pose.Theta)*g.dt*g.cfg.Lookahead
	y := r.Pose.Y + avg*math.Sin(r.Pose.Theta)*g.dt*g.cfg.Lookahead
	buffer := r.Boundary.Buffer + math.Abs(avg)*2

	if x < g.arena.XMin-buffer || x > g.arena.XMax+buffer ||
		y < g.arena.YMin-buffer || y > g.arena.YMax+buffer {
		return true
	}
	for _, z := range g.zones {
		if z.Contains(x, y, buffer) {
			return true
		}
	}
	return false
}

// Begin - 회전 시작. 헤딩 사분면으로 방향을 정하고 위치를 안쪽으로 끌어온다.
func (g *BoundaryGuard) Begin(r *models.Robot) {
	speed := g.cfg.TurnSpeed
	heading := algorithms.WrapAngle(r.Pose.Theta)
	if heading < math.Pi/2 || heading > 3*math.Pi/2 {
		r.SetWheels(speed, -speed)
	} else {
		r.SetWheels(-speed, speed)
	}

	omega := math.Abs(algorithms.AngularRate(r.VL, r.VR, g.axle))
	r.Boundary.Turning = true
	r.Boundary.TicksLeft = int(math.Ceil(math.Pi/omega)) + g.cfg.TurnMargin

	g.clamp(r, g.cfg.EntryInset)
}

// Step - 회전 한 틱. 제자리에서 헤딩만 바뀐다.
func (g *BoundaryGuard) Step(r *models.Robot) {
	r.Boundary.TicksLeft--

	decay := g.cfg.FastDecay
	if r.Boundary.TicksLeft > g.cfg.DecayTicks {
		decay = g.cfg.SlowDecay
	}
	r.SetWheels(r.VL*decay, r.VR*decay)

	g.clamp(r, g.cfg.TurnInset)

	omega := algorithms.AngularRate(r.VL, r.VR, g.axle)
	r.Pose.Theta = algorithms.WrapAngle(r.Pose.Theta + omega*g.dt)

	if r.Boundary.TicksLeft <= 0 || math.Abs(omega) < g.cfg.ExitOmega {
		r.Boundary.Turning = false
		r.Boundary.TicksLeft = 0
		r.SetWheels(g.cruise, g.cruise)
	}
}

// clamp - 경계에서 inset 만큼 안쪽으로 위치 제한
func (g *BoundaryGuard) clamp(r *models.Robot, inset float64) {
	r.Pose.X = min(max(r.Pose.X, g.arena.XMin+inset), g.arena.XMax-inset)
	r.Pose.Y = min(max(r.Pose.Y, g.arena.YMin+inset), g.arena.YMax-inset)
}

// toModelZones - 설정의 금지 구역을 모델 타입으로 변환
func toModelZones(zones []config.Zone) []models.Zone {
	out := make([]models.Zone, len(zones))
	for i, z := range zones {
		out[i] = models.Zone{X1: z.X1, Y1: z.Y1, X2: z.X2, Y2: z.Y2}
	}
	return out
}
