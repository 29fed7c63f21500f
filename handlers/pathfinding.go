package handlers

import (
	"errors"
	"log"

	"cleanbot-backend/algorithms"
	"cleanbot-backend/services"

	"github.com/gofiber/fiber/v2"
)

// Planner - 경로 질의 처리기 (main.go에서 초기화)
var Planner *services.PathPlanner

type PathfindingRequest struct {
	Start struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"start"`
	Goal struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"goal"`
	Obstacles []algorithms.Cell `json:"obstacles"`
	Heuristic string            `json:"heuristic"`
	BakeZones bool              `json:"bake_zones"`
}

type PathfindingResponse struct {
	Success   bool               `json:"success"`
	Cells     []algorithms.Cell  `json:"cells,omitempty"`
	Path      []algorithms.Point `json:"path,omitempty"`
	Hops      int                `json:"hops,omitempty"`
	Heuristic string             `json:"heuristic,omitempty"`
	Message   string             `json:"message,omitempty"`
}

func HandlePathfinding(c *fiber.Ctx) error {
	if Planner == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(PathfindingResponse{
			Success: false,
			Message: "경로 탐색기가 초기화되지 않았습니다",
		})
	}

	var req PathfindingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(PathfindingResponse{
			Success: false,
			Message: "잘못된 요청 형식입니다",
		})
	}

	log.Printf("📍 경로 탐색 요청: (%.1f, %.1f) → (%.1f, %.1f), 장애물 %d개",
		req.Start.X, req.Start.Y, req.Goal.X, req.Goal.Y, len(req.Obstacles))

	res, err := Planner.Plan(services.RouteRequest{
		StartX:    req.Start.X,
		StartY:    req.Start.Y,
		GoalX:     req.Goal.X,
		GoalY:     req.Goal.Y,
		Obstacles: req.Obstacles,
		Heuristic: req.Heuristic,
		BakeZones: req.BakeZones,
	})
	if errors.Is(err, services.ErrNoRoute) {
		log.Printf("❌ 경로를 찾을 수 없습니다")
		return c.Status(fiber.StatusOK).JSON(PathfindingResponse{
			Success:   false,
			Heuristic: res.Heuristic,
			Message:   "경로를 찾을 수 없습니다",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(PathfindingResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	log.Printf("✅ 경로 탐색 성공: %d홉, 웨이포인트 %d개", res.Hops, len(res.Waypoints))
	return c.Status(fiber.StatusOK).JSON(PathfindingResponse{
		Success:   true,
		Cells:     res.Cells,
		Path:      res.Waypoints,
		Hops:      res.Hops,
		Heuristic: res.Heuristic,
		Message:   "경로 탐색 성공",
	})
}
