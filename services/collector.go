package services

import (
	"cleanbot-backend/models"
)

// Collector - 픽업 반경 안의 먼지 수거
type Collector struct {
	radius  float64
	counter *Counter
}

// NewCollector - 수거기 생성
func NewCollector(radius float64, counter *Counter) *Collector {
	return &Collector{radius: radius, counter: counter}
}

// Collect - 읽기 전용 패스로 대상 ID 를 모은 뒤 월드에서 한 번에 제거한다.
// 실제로 제거된 항목만 집계되며, 하나라도 수거하면 로봇의 목표와 경로를 비운다.
func (c *Collector) Collect(r *models.Robot, field *World) []*models.Debris {
	return c.apply(r, field, c.candidates(r, field.Debris()))
}

// candidates - 스냅샷에서 반경 안의 먼지 ID
func (c *Collector) candidates(r *models.Robot, snapshot []*models.Debris) []string {
	var ids []string
	for _, d := range snapshot {
		if r.DistanceTo(d) < c.radius {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// apply - 제거 후 집계
func (c *Collector) apply(r *models.Robot, field *World, ids []string) []*models.Debris {
	removed := field.RemoveDebris(ids)
	for range removed {
		c.counter.ItemCollected()
	}
	if len(removed) > 0 {
		r.Collected += len(removed)
		r.ClearPlan()
	}
	return removed
}
