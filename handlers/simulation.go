package handlers

import (
	"errors"
	"fmt"
	"time"

	"cleanbot-backend/models"
	"cleanbot-backend/services"

	"github.com/gofiber/fiber/v2"
)

// Sim - 시뮬레이터 (main.go에서 초기화)
var Sim *services.Simulator

// ErrNoSimulator - 시뮬레이터 미초기화
var ErrNoSimulator = errors.New("simulator not initialized")

// ExecuteCommand - 웹소켓/REST 공통 명령 처리
func ExecuteCommand(cmd models.CommandData) error {
	if Sim == nil {
		return ErrNoSimulator
	}

	switch cmd.Action {
	case models.CommandStart:
		if err := Sim.Start(); err != nil {
			return err
		}
	case models.CommandStop:
		Sim.Stop()
	case models.CommandReset:
		Sim.Reset(cmd.Seed)
		return nil
	case models.CommandTeleport:
		_, err := Sim.Teleport(cmd.RobotID, cmd.X, cmd.Y)
		return err
	default:
		return fmt.Errorf("unknown command %q", cmd.Action)
	}

	Manager.BroadcastMessage(models.NewMessage(models.MessageTypeStatus, Sim.GetStatus()))
	return nil
}

// HandleHealth - 서버 상태
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "OK",
		"clients": Manager.GetClientCount(),
		"running": Sim != nil && Sim.IsRunning(),
		"time":    time.Now().Format(time.RFC3339),
	})
}

// HandleGetStatus - 시뮬레이션 상태 조회
func HandleGetStatus(c *fiber.Ctx) error {
	if Sim == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, ErrNoSimulator)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"status":  Sim.GetStatus(),
	})
}

// HandleStart - 틱 루프 시작
func HandleStart(c *fiber.Ctx) error {
	return runCommand(c, models.CommandData{Action: models.CommandStart})
}

// HandleStop - 틱 루프 중지
func HandleStop(c *fiber.Ctx) error {
	return runCommand(c, models.CommandData{Action: models.CommandStop})
}

// HandleReset - 새 시드로 아레나 재생성. body: {"seed": n} (선택)
func HandleReset(c *fiber.Ctx) error {
	var body struct {
		Seed int64 `json:"seed"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, errors.New("잘못된 요청 형식"))
		}
	}
	return runCommand(c, models.CommandData{Action: models.CommandReset, Seed: body.Seed})
}

// HandleGetMap - 로봇의 점유 격자. ?robot_id= 가 없으면 첫 로봇.
func HandleGetMap(c *fiber.Ctx) error {
	if Sim == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, ErrNoSimulator)
	}
	data, err := Sim.MapData(c.Query("robot_id"))
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"map":     data,
	})
}

// HandleTeleport - 로봇 위치 이동. body: {"x": .., "y": ..}
func HandleTeleport(c *fiber.Ctx) error {
	if Sim == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, ErrNoSimulator)
	}

	var body struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errors.New("잘못된 요청 형식"))
	}

	snap, err := Sim.Teleport(c.Params("id"), body.X, body.Y)
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"robot":   snap,
	})
}

// runCommand - 명령 실행 후 현재 상태 응답
func runCommand(c *fiber.Ctx, cmd models.CommandData) error {
	if err := ExecuteCommand(cmd); err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"status":  Sim.GetStatus(),
	})
}

// statusFor - 서비스 에러를 HTTP 상태 코드로
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoSimulator), errors.Is(err, services.ErrNoDatabase):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, services.ErrRobotNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyRunning), errors.Is(err, services.ErrTickCapReached):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
