package handler

import (
	"Quad/internal/api/dto"
	"Quad/internal/pkg/response"
	"Quad/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type HideHandler struct {
	hideSvc service.HideService
}

func NewHideHandler(hideSvc service.HideService) *HideHandler {
	return &HideHandler{
		hideSvc: hideSvc,
	}
}

func (s *HideHandler) HidePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.HideActionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.hideSvc.HidePost(c.Request.Context(), userID, postID, req.Action); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *HideHandler) HideAuthor(c *gin.Context) {
	userID := c.GetUint64("user_id")

	authorID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.HideActionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.hideSvc.HideAuthor(c.Request.Context(), userID, authorID, req.Action); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
