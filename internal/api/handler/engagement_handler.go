package handler

import (
	"Quad/internal/api/dto"
	"Quad/internal/pkg/response"
	"Quad/internal/service"

	"github.com/gin-gonic/gin"
)

type EngagementHandler struct {
	engagementSvc service.EngagementService
}

func NewEngagementHandler(engagementSvc service.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagementSvc: engagementSvc,
	}
}

// TrackAction 动作上报，返回本次发放的奖励列表
func (s *EngagementHandler) TrackAction(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.TrackActionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.engagementSvc.TrackAction(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *EngagementHandler) GetSummary(c *gin.Context) {
	userID := c.GetUint64("user_id")

	summary, err := s.engagementSvc.GetSummary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

func (s *EngagementHandler) GetStreaks(c *gin.Context) {
	userID := c.GetUint64("user_id")

	streaks, err := s.engagementSvc.GetStreaks(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, streaks)
}

func (s *EngagementHandler) GetAchievements(c *gin.Context) {
	userID := c.GetUint64("user_id")

	achievements, err := s.engagementSvc.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, achievements)
}

// ListLevels 等级档位表，公开接口
func (s *EngagementHandler) ListLevels(c *gin.Context) {
	response.Success(c, s.engagementSvc.ListLevels())
}

func (s *EngagementHandler) GetUserLevel(c *gin.Context) {
	userID := c.GetUint64("user_id")

	level, err := s.engagementSvc.GetUserLevel(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, level)
}
