package services

import (
	"slices"
	"sync"
)

// Counter - 수거 집계와 마일스톤 스냅샷
type Counter struct {
	mu         sync.Mutex
	total      int
	milestones []int
	recorded   map[int]int
}

// NewCounter - 카운터 생성
func NewCounter(milestones []int) *Counter {
	return &Counter{
		milestones: slices.Clone(milestones),
		recorded:   make(map[int]int),
	}
}

// ItemCollected - 수거 1건 통지
func (c *Counter) ItemCollected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
}

// Total - 누적 수거 수
func (c *Counter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// CheckMilestone - tick 이 마일스톤이면 현재 누적값을 기록한다.
// 기록 여부와 함께 지금까지의 스냅샷 복사본을 반환.
func (c *Counter) CheckMilestone(tick int) (bool, map[int]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hit := false
	if slices.Contains(c.milestones, tick) {
		c.recorded[tick] = c.total
		hit = true
	}
	return hit, c.snapshot()
}

// Milestones - 기록된 마일스톤 복사본
func (c *Counter) Milestones() map[int]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Counter) snapshot() map[int]int {
	out := make(map[int]int, len(c.recorded))
	for k, v := range c.recorded {
		out[k] = v
	}
	return out
}
