package handler

import (
	"strconv"

	"github.com/art-design-pro/admin-backend/internal/middleware"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// NotificationHandler 通知处理器
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationSvc}
}

// ListNotifications 获取我的通知列表
// GET /api/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	filter := &repository.NotificationFilter{
		Type: c.Query("type"),
	}
	if raw := c.Query("is_read"); raw != "" {
		isRead, err := strconv.ParseBool(raw)
		if err == nil {
			filter.IsRead = &isRead
		}
	}
	page := parsePagination(c)

	notifications, total, err := h.notificationService.ListMy(c.Request.Context(), userID, filter, page)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      notifications,
		"total":     total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

// UnreadCount 未读通知数
// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"count": count})
}

// NotificationIDsRequest 批量通知 ID 请求
type NotificationIDsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// MarkRead 标记通知已读
// PUT /api/notifications/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	var req NotificationIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, req.IDs); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "标记成功", nil)
}

// MarkAllRead 全部标记已读
// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "标记成功", nil)
}

// DeleteNotifications 删除我的通知
// DELETE /api/notifications
func (h *NotificationHandler) DeleteNotifications(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	var req NotificationIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), userID, req.IDs); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "删除成功", nil)
}

// SendNotificationRequest 发送通知请求
type SendNotificationRequest struct {
	UserIDs []uint `json:"userIds" binding:"required,min=1"`
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// SendNotification 管理端发送通知
// POST /api/notifications/send
func (h *NotificationHandler) SendNotification(c *gin.Context) {
	senderID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	sent, err := h.notificationService.Send(c.Request.Context(), senderID, &service.NotificationSendInput{
		UserIDs: req.UserIDs,
		Title:   req.Title,
		Content: req.Content,
		Type:    req.Type,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "发送成功", gin.H{"sent": sent})
}
