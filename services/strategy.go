package services

import (
	"math"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
	"cleanbot-backend/models"
)

// Strategy - 먼지 목표 셀 선택
type Strategy struct {
	cellSize  float64
	threshold int
}

// NewStrategy - 목표 선택기 생성
func NewStrategy(arena config.ArenaConfig, debris config.DebrisConfig) *Strategy {
	return &Strategy{
		cellSize:  arena.CellSize,
		threshold: debris.DensityThreshold,
	}
}

// DirtPerCell - 셀별 먼지 수와 처음 등장한 순서
func (s *Strategy) DirtPerCell(field *World) (map[algorithms.Cell]int, []algorithms.Cell) {
	counts := make(map[algorithms.Cell]int)
	var order []algorithms.Cell
	for _, d := range field.Debris() {
		c := algorithms.CellOf(d.X, d.Y, s.cellSize)
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	return counts, order
}

// Pick - 설정된 정책으로 목표 셀 선택 (threshold, nearest, farthest)
func (s *Strategy) Pick(policy string, field *World, cur algorithms.Cell, skip map[algorithms.Cell]bool) *algorithms.Cell {
	switch policy {
	case config.PolicyNearest:
		return s.NearestDirt(field, cur, skip)
	case config.PolicyFarthest:
		return s.FarthestDirt(field, cur, skip)
	default:
		return s.SelectTarget(field, cur, skip)
	}
}

// NearestDirt - 맨해튼 거리 최소 먼지 셀 (먼저 찾은 것 우선)
func (s *Strategy) NearestDirt(field *World, cur algorithms.Cell, skip map[algorithms.Cell]bool) *algorithms.Cell {
	return s.pickByDistance(field, cur, skip, func(d, best int) bool { return d < best })
}

// FarthestDirt - 맨해튼 거리 최대 먼지 셀
func (s *Strategy) FarthestDirt(field *World, cur algorithms.Cell, skip map[algorithms.Cell]bool) *algorithms.Cell {
	return s.pickByDistance(field, cur, skip, func(d, best int) bool { return d > best })
}

func (s *Strategy) pickByDistance(field *World, cur algorithms.Cell, skip map[algorithms.Cell]bool, better func(d, best int) bool) *algorithms.Cell {
	var found *algorithms.Cell
	best := 0
	for _, d := range field.Debris() {
		c := algorithms.CellOf(d.X, d.Y, s.cellSize)
		if skip[c] {
			continue
		}
		dist := c.Manhattan(cur)
		if found == nil || better(dist, best) {
			cell := c
			found, best = &cell, dist
		}
	}
	return found
}

// MostDirtyCell - 먼지가 가장 많은 셀. 동률이면 현재 셀에 가까운 쪽, 그래도 같으면 먼저 등장한 셀.
func (s *Strategy) MostDirtyCell(field *World, cur algorithms.Cell, skip map[algorithms.Cell]bool) *algorithms.Cell {
	counts, order := s.DirtPerCell(field)

	maxCount := 0
	for _, c := range order {
		if !skip[c] && counts[c] > maxCount {
			maxCount = counts[c]
		}
	}
	if maxCount == 0 {
		return nil
	}

	var found *algorithms.Cell
	minDist := math.MaxInt
	for _, c := range order {
		if skip[c] || counts[c] != maxCount {
			continue
		}
		if d := c.Manhattan(cur); d < minDist {
			cell := c
			found, minDist = &cell, d
		}
	}
	return found
}

// SelectTarget - 현재 셀 밀도가 임계값 이하면 가장 더러운 셀, 아니면 가장 가까운 셀
func (s *Strategy) SelectTarget(field *World, cur algorithms.Cell, skip map[algorithms.Cell]bool) *algorithms.Cell {
	if field.CountAt(cur) <= s.threshold {
		return s.MostDirtyCell(field, cur, skip)
	}
	return s.NearestDirt(field, cur, skip)
}

// NearestDebrisIn - 셀 안에서 (x, y) 에 가장 가까운 먼지
func (s *Strategy) NearestDebrisIn(field *World, cell algorithms.Cell, x, y float64) *models.Debris {
	var found *models.Debris
	best := math.Inf(1)
	for _, d := range field.Debris() {
		if algorithms.CellOf(d.X, d.Y, s.cellSize) != cell {
			continue
		}
		if dist := algorithms.Distance(x, y, d.X, d.Y); dist < best {
			found, best = d, dist
		}
	}
	return found
}
