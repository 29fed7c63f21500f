package services

import (
	"cleanbot-backend/config"
	"cleanbot-backend/models"
)

// Battery - 배터리 소모/충전 모델
type Battery struct {
	capacity  int
	low       int
	distance  float64
	increment int
}

// NewBattery - 배터리 모델 생성
func NewBattery(robot config.RobotConfig, charger config.ChargerConfig) *Battery {
	return &Battery{
		capacity:  robot.BatteryCapacity,
		low:       robot.LowBattery,
		distance:  charger.Distance,
		increment: charger.Increment,
	}
}

// Update - 한 틱의 소모와 충전을 적용한다.
// 충전 범위 안의 충전소마다 한 번씩 충전되며, 정지 상태에서도 충전된다.
// 결과가 0 이면 바퀴를 멈춘다. 반환값은 이번 틱에 충전이 있었는지 여부.
func (b *Battery) Update(r *models.Robot, chargers []*models.Charger) bool {
	if r.Battery > 0 {
		r.Battery--
	}

	charged := false
	for _, c := range chargers {
		if r.Battery < b.capacity && r.DistanceTo(c) < b.distance {
			r.Battery += b.increment
			charged = true
		}
	}

	r.Battery = b.Clamp(r.Battery)
	if r.Battery == 0 {
		r.Stop()
	}
	return charged
}

// Clamp - [0, capacity] 범위로 제한
func (b *Battery) Clamp(level int) int {
	return min(max(level, 0), b.capacity)
}

// IsLow - 충전소 탐색이 필요한 수준인지
func (b *Battery) IsLow(r *models.Robot) bool {
	return r.Battery < b.low
}

// Depleted - 완전 방전
func (b *Battery) Depleted(r *models.Robot) bool {
	return r.Battery <= 0
}

// Capacity - 최대 용량
func (b *Battery) Capacity() int {
	return b.capacity
}
