package handler

import (
	"strconv"
	"time"

	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// OperationLogHandler 操作日志处理器
type OperationLogHandler struct {
	logService service.OperationLogService
}

// NewOperationLogHandler 创建操作日志处理器
func NewOperationLogHandler(logSvc service.OperationLogService) *OperationLogHandler {
	return &OperationLogHandler{logService: logSvc}
}

// ListLogs 查询操作日志
// GET /api/operation-logs
func (h *OperationLogHandler) ListLogs(c *gin.Context) {
	filter := &repository.OperationLogFilter{
		Username: c.Query("username"),
		Module:   c.Query("module"),
		Action:   c.Query("action"),
		Result:   c.Query("result"),
	}

	if raw := c.Query("user_id"); raw != "" {
		if userID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.UserID = uint(userID)
		}
	}
	if raw := c.Query("start_time"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.StartTime = &t
		}
	}
	if raw := c.Query("end_time"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.EndTime = &t
		}
	}
	page := parsePagination(c)

	logs, total, err := h.logService.List(c.Request.Context(), filter, page)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      logs,
		"total":     total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

// PurgeLogs 清理历史日志
// DELETE /api/operation-logs?retain_days=30
func (h *OperationLogHandler) PurgeLogs(c *gin.Context) {
	retainDays, _ := strconv.Atoi(c.DefaultQuery("retain_days", "30"))

	deleted, err := h.logService.Purge(c.Request.Context(), retainDays)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "清理完成", gin.H{"deleted": deleted})
}
