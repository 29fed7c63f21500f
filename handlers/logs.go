package handlers

import (
	"errors"
	"strconv"
	"time"

	"cleanbot-backend/services"

	"github.com/gofiber/fiber/v2"
)

// robotIDQuery - ?robot_id=, 없으면 시뮬레이터의 첫 로봇
func robotIDQuery(c *fiber.Ctx) string {
	if id := c.Query("robot_id"); id != "" {
		return id
	}
	if Sim != nil {
		if robots := Sim.Robots(); len(robots) > 0 {
			return robots[0].ID
		}
	}
	return ""
}

// limitQuery - ?limit=, 잘못된 값이면 100
func limitQuery(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		return 100
	}
	return limit
}

// HandleGetRecentLogs - 최근 로그 조회
func HandleGetRecentLogs(c *fiber.Ctx) error {
	robotID := robotIDQuery(c)

	logs, err := services.GetRecentLogs(robotID, limitQuery(c))
	if err != nil {
		return errorJSON(c, statusFor(err), errors.New("Failed to fetch logs"))
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"robot_id": robotID,
		"count":    len(logs),
		"logs":     logs,
	})
}

// HandleGetLogsByTimeRange - 시간 범위로 로그 조회
func HandleGetLogsByTimeRange(c *fiber.Ctx) error {
	robotID := robotIDQuery(c)
	startStr := c.Query("start") // RFC3339 format
	endStr := c.Query("end")     // RFC3339 format

	// 시작 시간 파싱
	var start time.Time
	if startStr != "" {
		parsed, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, errors.New("Invalid start time format (use RFC3339)"))
		}
		start = parsed
	} else {
		// 기본: 24시간 전
		start = time.Now().Add(-24 * time.Hour)
	}

	// 종료 시간 파싱
	var end time.Time
	if endStr != "" {
		parsed, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, errors.New("Invalid end time format (use RFC3339)"))
		}
		end = parsed
	} else {
		end = time.Now()
	}

	logs, err := services.GetLogsByTimeRange(robotID, start, end, limitQuery(c))
	if err != nil {
		return errorJSON(c, statusFor(err), errors.New("Failed to fetch logs"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"time_range": fiber.Map{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
		"logs": logs,
	})
}

// HandleGetLogsByEventType - 이벤트 타입별 로그 조회
func HandleGetLogsByEventType(c *fiber.Ctx) error {
	robotID := robotIDQuery(c)
	eventType := c.Query("event_type")

	if eventType == "" {
		return errorJSON(c, fiber.StatusBadRequest, errors.New("event_type parameter is required"))
	}

	logs, err := services.GetLogsByEventType(robotID, eventType, limitQuery(c))
	if err != nil {
		return errorJSON(c, statusFor(err), errors.New("Failed to fetch logs"))
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(logs),
		"event_type": eventType,
		"logs":       logs,
	})
}

// HandleGetLogStats - 로그 통계 조회
func HandleGetLogStats(c *fiber.Ctx) error {
	hours, err := strconv.Atoi(c.Query("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	stats, err := services.GetLogStats(robotIDQuery(c), hours)
	if err != nil {
		return errorJSON(c, statusFor(err), errors.New("Failed to fetch stats"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// HandleGetRuns - 저장된 배치 실행 결과. ?batch_id= 로 필터.
func HandleGetRuns(c *fiber.Ctx) error {
	batchID := c.Query("batch_id")

	runs, err := services.GetRecentRuns(batchID, limitQuery(c))
	if err != nil {
		return errorJSON(c, statusFor(err), errors.New("Failed to fetch runs"))
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"batch_id": batchID,
		"count":    len(runs),
		"runs":     runs,
	})
}
