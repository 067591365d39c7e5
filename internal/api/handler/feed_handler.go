package handler

import (
	"Quad/internal/api/dto"
	"Quad/internal/pkg/response"
	"Quad/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedSvc: feedSvc,
	}
}

// GetFeed 个性化信息流，匿名访客自动降级时间序
func (s *FeedHandler) GetFeed(c *gin.Context) {
	userID := c.GetUint64("user_id")

	feed, err := s.feedSvc.GetFeed(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

func (s *FeedHandler) TrackInteraction(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.TrackInteractionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	err := s.feedSvc.TrackInteraction(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
