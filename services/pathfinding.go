package services

import (
	"errors"
	"fmt"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/config"
)

// ErrNoRoute - 목표가 장애물이거나 도달 불가
var ErrNoRoute = errors.New("no route")

// RouteRequest - 임의 경로 질의 (월드 좌표)
type RouteRequest struct {
	StartX, StartY float64
	GoalX, GoalY   float64
	Obstacles      []algorithms.Cell // 테두리 외 추가 장애물
	Heuristic      string            // 비어 있으면 설정값
	BakeZones      bool
}

// RouteResult - 질의 결과
type RouteResult struct {
	Start     algorithms.Cell
	Goal      algorithms.Cell
	Cells     []algorithms.Cell
	Waypoints []algorithms.Point // 간소화된 셀 중심
	Hops      int
	Heuristic string
}

// PathPlanner - 시뮬레이터와 같은 격자 규칙으로 경로 질의 처리
type PathPlanner struct {
	arena   config.ArenaConfig
	planner config.PlannerConfig
	epsilon float64
}

// NewPathPlanner - PathPlanner 생성
func NewPathPlanner(cfg config.Config) *PathPlanner {
	return &PathPlanner{
		arena:   cfg.Arena,
		planner: cfg.Planner,
		epsilon: 1.0,
	}
}

// Plan - A* 로 경로 찾기
func (pp *PathPlanner) Plan(req RouteRequest) (RouteResult, error) {
	heuristic := req.Heuristic
	if heuristic == "" {
		heuristic = pp.planner.Heuristic
	}
	if heuristic != "euclidean" && heuristic != "hybrid" {
		return RouteResult{}, fmt.Errorf("unknown heuristic %q", heuristic)
	}

	grid := algorithms.NewGrid(pp.arena.Cols(), pp.arena.Rows())
	for _, c := range req.Obstacles {
		grid.AddObstacle(c)
	}
	if req.BakeZones || pp.planner.BakeZones {
		for _, z := range pp.arena.Zones {
			grid.AddRect(z.X1, z.Y1, z.X2, z.Y2, pp.arena.CellSize)
		}
	}

	start := algorithms.CellOf(req.StartX, req.StartY, pp.arena.CellSize)
	goal := algorithms.CellOf(req.GoalX, req.GoalY, pp.arena.CellSize)
	if !grid.InBounds(start) || !grid.InBounds(goal) {
		return RouteResult{}, fmt.Errorf("start %v or goal %v outside the %dx%d grid", start, goal, grid.Cols, grid.Rows)
	}

	h := algorithms.Euclidean(goal)
	if heuristic == "hybrid" {
		h = algorithms.Hybrid(start, goal, pp.planner.LineWeight)
	}

	cells := grid.FindPath(start, goal, h)
	if len(cells) == 0 {
		return RouteResult{Start: start, Goal: goal, Heuristic: heuristic}, ErrNoRoute
	}

	return RouteResult{
		Start:     start,
		Goal:      goal,
		Cells:     cells,
		Waypoints: algorithms.Simplify(algorithms.Waypoints(cells, pp.arena.CellSize), pp.epsilon),
		Hops:      len(cells) - 1,
		Heuristic: heuristic,
	}, nil
}
