package handler

import (
	"Quad/internal/api/dto"
	"Quad/internal/pkg/response"
	"Quad/internal/pkg/util"
	"Quad/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationSvc: notificationSvc,
	}
}

func (s *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var listDTO dto.NotificationListDTO
	if err := c.ShouldBindQuery(&listDTO); err != nil {
		response.Error(c, err)
		return
	}
	if listDTO.Page == 0 {
		listDTO.Page = 1
	}
	if listDTO.PageSize == 0 {
		listDTO.PageSize = 20
	}
	if err := util.ValidateDTO(&listDTO); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.notificationSvc.GetNotifications(c.Request.Context(), userID, listDTO.Page, listDTO.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")

	count, err := s.notificationSvc.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.NotificationReadDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	err := s.notificationSvc.MarkRead(c.Request.Context(), userID, req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
