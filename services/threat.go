package services

import (
	"math"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
	"cleanbot-backend/models"
)

// ThreatAvoider - 위협 회피 조향
type ThreatAvoider struct {
	radius    float64
	baseSpeed float64
	maxRatio  float64
}

// NewThreatAvoider - 회피 조향기 생성
func NewThreatAvoider(cfg config.ThreatConfig) *ThreatAvoider {
	return &ThreatAvoider{
		radius:    cfg.AvoidDistance,
		baseSpeed: cfg.BaseSpeed,
		maxRatio:  cfg.MaxTurnRatio,
	}
}

// Avoid - 회피 반경 안의 위협마다 바퀴 속도를 덮어쓴다.
// 여러 위협이 겹치면 순회 순서상 마지막 위협이 이긴다. 반응한 위협 수를 반환.
func (a *ThreatAvoider) Avoid(r *models.Robot, threats []*models.Threat) int {
	reacted := 0
	for _, t := range threats {
		if r.DistanceTo(t) >= a.radius {
			continue
		}
		r.SetWheels(a.Steer(r.Pose, t.X, t.Y))
		reacted++
	}
	return reacted
}

// Steer - 위협 방위에서 수직 방향으로 벗어나는 바퀴 속도
func (a *ThreatAvoider) Steer(p algorithms.Pose, tx, ty float64) (vl, vr float64) {
	bearing := math.Atan2(ty-p.Y, tx-p.X)
	escape := bearing + math.Pi/2
	diff := algorithms.NormalizeAngle(escape - p.Theta)

	ratio := min(max(diff/math.Pi, -1), 1) * a.maxRatio
	return a.baseSpeed * (1 - ratio), a.baseSpeed * (1 + ratio)
}
