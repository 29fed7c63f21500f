package handlers

import (
	"errors"
	"time"

	"cleanbot-backend/services"

	"github.com/gofiber/fiber/v2"
)

// CommentarySvc - 자동 중계 서비스 (main.go에서 초기화)
var CommentarySvc *services.CommentaryService

// SetCommentaryEnabled - 자동 중계 활성화/비활성화
func SetCommentaryEnabled(enabled bool) {
	if CommentarySvc != nil {
		CommentarySvc.SetEnabled(enabled)
	}
}

// HandleSetCommentary - body: {"enabled": bool, "cooldown_ms": int}, 둘 다 선택
func HandleSetCommentary(c *fiber.Ctx) error {
	if CommentarySvc == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, errors.New("자동 중계 서비스가 초기화되지 않았습니다"))
	}

	var body struct {
		Enabled    *bool `json:"enabled"`
		CooldownMS *int  `json:"cooldown_ms"`
	}
	if err := c.BodyParser(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, errors.New("잘못된 요청 형식"))
	}
	if body.CooldownMS != nil && *body.CooldownMS < 0 {
		return errorJSON(c, fiber.StatusBadRequest, errors.New("cooldown_ms 는 0 이상이어야 합니다"))
	}

	if body.Enabled != nil {
		SetCommentaryEnabled(*body.Enabled)
	}
	if body.CooldownMS != nil {
		CommentarySvc.SetCooldown(time.Duration(*body.CooldownMS) * time.Millisecond)
	}

	enabled, cooldown := CommentarySvc.Settings()
	return c.JSON(fiber.Map{
		"success":     true,
		"enabled":     enabled,
		"cooldown_ms": cooldown.Milliseconds(),
	})
}
