package handler

import (
	"time"

	"github.com/art-design-pro/admin-backend/internal/middleware"
	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskSvc}
}

// ListTasks 获取任务列表
// GET /api/tasks?scope=all|created|assigned
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	filter := &repository.TaskFilter{
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	page := parsePagination(c)
	scope := service.TaskScope(c.DefaultQuery("scope", string(service.TaskScopeAll)))

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), userID, scope, filter, page)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      tasks,
		"total":     total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

// GetTask 获取任务详情
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, task)
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssigneeID  *uint      `json:"assigneeId"`
	DueDate     *time.Time `json:"dueDate"`
	Remark      string     `json:"remark" binding:"max=500"`
}

// CreateTask 创建任务
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Remark:      req.Remark,
	}

	if err := h.taskService.CreateTask(c.Request.Context(), userID, task); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "创建成功", task)
}

// UpdateTaskRequest 更新任务请求，未提交的字段不修改
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	AssigneeID  *uint      `json:"assigneeId"`
	DueDate     *time.Time `json:"dueDate"`
	Remark      *string    `json:"remark"`
}

// UpdateTask 更新任务
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	input := &service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Remark:      req.Remark,
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, id, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "更新成功", task)
}

// AssignTaskRequest 分配任务请求
type AssignTaskRequest struct {
	AssigneeID uint `json:"assigneeId" binding:"required"`
}

// AssignTask 分配任务
// PUT /api/tasks/:id/assign
func (h *TaskHandler) AssignTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	task, err := h.taskService.AssignTask(c.Request.Context(), userID, id, req.AssigneeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "任务分配成功", task)
}

// DeleteTask 删除任务
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "删除成功", nil)
}

// TaskStats 任务状态统计
// GET /api/tasks/stats
func (h *TaskHandler) TaskStats(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	stats, err := h.taskService.TaskStats(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, stats)
}
