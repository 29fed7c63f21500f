package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupRoutes - REST + WebSocket 라우트 등록
func SetupRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Cleanbot 시뮬레이션 서버가 실행 중입니다.")
	})

	api := app.Group("/api")
	api.Get("/health", HandleHealth)

	// 시뮬레이션 제어
	simAPI := api.Group("/simulation")
	simAPI.Get("/status", HandleGetStatus)
	simAPI.Post("/start", HandleStart)
	simAPI.Post("/stop", HandleStop)
	simAPI.Post("/reset", HandleReset)
	simAPI.Get("/map", HandleGetMap)

	// 로봇
	api.Get("/robots", HandleGetRobots)
	api.Get("/robots/:id", HandleGetRobot)
	api.Post("/robots/:id/teleport", HandleTeleport)

	// 경로 탐색
	api.Post("/pathfinding", HandlePathfinding)

	// 자동 중계
	api.Post("/commentary", HandleSetCommentary)

	// 로그 조회 API
	logsAPI := api.Group("/logs")
	logsAPI.Get("/recent", HandleGetRecentLogs)     // 최근 로그
	logsAPI.Get("/range", HandleGetLogsByTimeRange) // 시간 범위
	logsAPI.Get("/type", HandleGetLogsByEventType)  // 이벤트 타입별
	logsAPI.Get("/stats", HandleGetLogStats)        // 통계

	// 배치 실행 결과
	api.Get("/runs", HandleGetRuns)

	// WebSocket
	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/websocket/web", websocket.New(HandleWebClientWebSocket))
}
