package services

import (
	"sync"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/models"
)

// World - 아레나의 수동 엔티티 저장소.
// 종류별로 분리해서 보관하며, 먼지 제거는 락 안에서 한 번에 적용한다.
type World struct {
	mu       sync.RWMutex
	cellSize float64

	debris     []*models.Debris
	cellCounts map[algorithms.Cell]int

	chargers []*models.Charger
	threats  []*models.Threat
	lamps    []*models.Lamp
	zones    []models.Zone
}

// NewWorld - 빈 월드 생성
func NewWorld(cellSize float64) *World {
	return &World{
		cellSize:   cellSize,
		cellCounts: make(map[algorithms.Cell]int),
	}
}

// AddDebris - 먼지 등록
func (w *World) AddDebris(items ...*models.Debris) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range items {
		w.debris = append(w.debris, d)
		w.cellCounts[algorithms.CellOf(d.X, d.Y, w.cellSize)]++
	}
}

// AddCharger - 충전소 등록
func (w *World) AddCharger(items ...*models.Charger) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chargers = append(w.chargers, items...)
}

// AddThreat - 위협 등록
func (w *World) AddThreat(items ...*models.Threat) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.threats = append(w.threats, items...)
}

// AddLamp - 광원 등록
func (w *World) AddLamp(items ...*models.Lamp) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lamps = append(w.lamps, items...)
}

// AddZone - 금지 구역 등록
func (w *World) AddZone(zones ...models.Zone) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.zones = append(w.zones, zones...)
}

// Debris - 남은 먼지 스냅샷 (등록 순서)
func (w *World) Debris() []*models.Debris {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*models.Debris(nil), w.debris...)
}

// DebrisCount - 남은 먼지 수
func (w *World) DebrisCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.debris)
}

// CountAt - 셀 안의 먼지 수
func (w *World) CountAt(c algorithms.Cell) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cellCounts[c]
}

// Chargers - 충전소 목록
func (w *World) Chargers() []*models.Charger {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*models.Charger(nil), w.chargers...)
}

// Threats - 위협 목록
func (w *World) Threats() []*models.Threat {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*models.Threat(nil), w.threats...)
}

// Lamps - 광원 목록
func (w *World) Lamps() []*models.Lamp {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*models.Lamp(nil), w.lamps...)
}

// Zones - 금지 구역 목록
func (w *World) Zones() []models.Zone {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.Zone(nil), w.zones...)
}

// RemoveDebris - 주어진 ID 의 먼지를 한 번의 패스로 제거하고 실제로 제거된 것만 반환한다.
// 이미 없는 ID 는 무시되므로 같은 스냅샷으로 두 번 호출해도 중복 집계되지 않는다.
func (w *World) RemoveDebris(ids []string) []*models.Debris {
	if len(ids) == 0 {
		return nil
	}
	targets := make(map[string]bool, len(ids))
	for _, id := range ids {
		targets[id] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var removed []*models.Debris
	kept := w.debris[:0]
	for _, d := range w.debris {
		if targets[d.ID] {
			removed = append(removed, d)
			delete(targets, d.ID)
			cell := algorithms.CellOf(d.X, d.Y, w.cellSize)
			if w.cellCounts[cell]--; w.cellCounts[cell] <= 0 {
				delete(w.cellCounts, cell)
			}
			continue
		}
		kept = append(kept, d)
	}
	// 잘린 꼬리 포인터 해제
	for i := len(kept); i < len(w.debris); i++ {
		w.debris[i] = nil
	}
	w.debris = kept
	return removed
}

// AdvanceThreats - 이동 위협 갱신
func (w *World) AdvanceThreats(dt, xMin, xMax, yMin, yMax float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.threats {
		t.Advance(dt, xMin, xMax, yMin, yMax)
	}
}

// locations - 엔티티 위치 목록
func locations[T models.Locator](items []T) []algorithms.Point {
	points := make([]algorithms.Point, len(items))
	for i, item := range items {
		x, y := item.Location()
		points[i] = algorithms.Point{X: x, Y: y}
	}
	return points
}
