package algorithms

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Waypoints - 셀 경로를 셀 중심 좌표 목록으로 변환
func Waypoints(path []Cell, cellSize float64) []Point {
	points := make([]Point, len(path))
	for i, c := range path {
		x, y := c.Center(cellSize)
		points[i] = Point{X: x, Y: y}
	}
	return points
}

// Simplify - epsilon 보다 덜 꺾이는 점을 버리고 모서리만 남긴다 (Douglas-Peucker).
// 시작점과 끝점은 항상 남는다.
func Simplify(path []Point, epsilon float64) []Point {
	if len(path) < 3 {
		return path
	}

	line := make(orb.LineString, len(path))
	for i, p := range path {
		line[i] = orb.Point{p.X, p.Y}
	}

	reduced, ok := simplify.DouglasPeucker(epsilon).Simplify(line).(orb.LineString)
	if !ok || len(reduced) < 2 {
		return path
	}

	out := make([]Point, len(reduced))
	for i, p := range reduced {
		out[i] = Point{X: p.X(), Y: p.Y()}
	}
	return out
}
