package handler

import (
	"Palisade/internal/api/dto"
	"Palisade/internal/pkg/response"
	"Palisade/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifySvc service.NotificationService
}

func NewNotificationHandler(notifySvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notifySvc: notifySvc,
	}
}

// GetNotificationList 获取系统通知列表
func (s *NotificationHandler) GetNotificationList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}

	list, err := s.notifySvc.GetNotificationList(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// MarkAsRead 标记单条通知为已读
func (s *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.MarkReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.notifySvc.MarkAsRead(c.Request.Context(), userID, req.MsgID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllAsRead 标记全部通知为已读
func (s *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := s.notifySvc.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
