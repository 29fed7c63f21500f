package handlers

import (
	"cleanbot-backend/models"

	"github.com/gofiber/fiber/v2"
)

// RobotStatistics - 로봇 상태 집계
//
// 상태별 로봇 수, 평균 배터리, 누적 수거량을 계산한다.
func RobotStatistics(robots []models.RobotSnapshot) map[string]interface{} {
	totalCount := len(robots)
	byState := make(map[models.RobotState]int)
	turning := 0
	totalBattery := 0
	collected := 0

	for _, r := range robots {
		byState[r.State]++
		if r.Turning {
			turning++
		}
		totalBattery += r.Battery
		collected += r.Collected
	}

	avgBattery := 0.0
	if totalCount > 0 {
		avgBattery = float64(totalBattery) / float64(totalCount)
	}

	return map[string]interface{}{
		"total_robots":    totalCount,
		"by_state":        byState,
		"turning":         turning,
		"avg_battery":     avgBattery,
		"total_collected": collected,
	}
}

// HandleGetRobots - 모든 로봇 스냅샷과 집계
func HandleGetRobots(c *fiber.Ctx) error {
	if Sim == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, ErrNoSimulator)
	}

	robots := Sim.Robots()
	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(robots),
		"robots":     robots,
		"statistics": RobotStatistics(robots),
	})
}

// HandleGetRobot - 로봇 한 대 조회
func HandleGetRobot(c *fiber.Ctx) error {
	if Sim == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, ErrNoSimulator)
	}

	robot, err := Sim.Robot(c.Params("id"))
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"robot":   robot,
	})
}
