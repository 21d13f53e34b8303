package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrTaskAccessDenied    = errors.New("无权操作该任务")
	ErrTaskTitleRequired   = errors.New("任务标题不能为空")
	ErrTaskStatusInvalid   = errors.New("任务状态不合法")
	ErrTaskPriorityInvalid = errors.New("任务优先级不合法")
	ErrAssigneeNotFound    = errors.New("执行者不存在")
)

// TaskScope 任务列表范围
type TaskScope string

const (
	TaskScopeAll      TaskScope = "all"      // 全部（仅管理角色）
	TaskScopeCreated  TaskScope = "created"  // 我创建的
	TaskScopeAssigned TaskScope = "assigned" // 分配给我的
)

// TaskUpdateInput 任务更新入参，nil 字段表示不修改
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	AssigneeID  *uint // 指向 0 表示取消分配
	DueDate     *time.Time
	Remark      *string
}

// TaskService 任务服务接口
// 操作权限分三级：管理角色全量，创建者可改自己的任务，
// 执行者只能改被分配任务的状态和备注，其余字段改动一律拒绝
type TaskService interface {
	CreateTask(ctx context.Context, creatorID uint, task *model.Task) error
	GetTask(ctx context.Context, callerID, id uint) (*model.Task, error)
	UpdateTask(ctx context.Context, callerID, id uint, input *TaskUpdateInput) (*model.Task, error)
	DeleteTask(ctx context.Context, callerID, id uint) error
	ListTasks(ctx context.Context, callerID uint, scope TaskScope, filter *repository.TaskFilter, page *repository.Pagination) ([]*model.Task, int64, error)
	// AssignTask 指派执行者并给对方发送任务通知
	AssignTask(ctx context.Context, callerID, id uint, assigneeID uint) (*model.Task, error)
	TaskStats(ctx context.Context, callerID uint) (map[string]int64, error)
}

type taskService struct {
	taskRepo         repository.TaskRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	permSvc          PermissionService
	logger           *zap.Logger
}

// NewTaskService 创建任务服务
func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	permSvc PermissionService,
	logger *zap.Logger,
) TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskService{
		taskRepo:         taskRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		permSvc:          permSvc,
		logger:           logger,
	}
}

// taskTier 操作者相对某个任务的权限级别
type taskTier int

const (
	tierNone taskTier = iota
	tierAssignee
	tierCreator
	tierAdmin
)

func (s *taskService) tierOf(ctx context.Context, callerID uint, task *model.Task) taskTier {
	if s.permSvc.IsAdmin(ctx, callerID) {
		return tierAdmin
	}
	if task.CreatorID == callerID {
		return tierCreator
	}
	if task.AssigneeID != nil && *task.AssigneeID == callerID {
		return tierAssignee
	}
	return tierNone
}

func (s *taskService) CreateTask(ctx context.Context, creatorID uint, task *model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return ErrTaskTitleRequired
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityMedium
	}
	if !model.ValidTaskPriority(task.Priority) {
		return ErrTaskPriorityInvalid
	}
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	if !model.ValidTaskStatus(task.Status) {
		return ErrTaskStatusInvalid
	}

	if task.AssigneeID != nil {
		if _, err := s.userRepo.GetByID(ctx, *task.AssigneeID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return ErrAssigneeNotFound
			}
			return err
		}
	}

	task.CreatorID = creatorID
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return err
	}

	if task.AssigneeID != nil && *task.AssigneeID != creatorID {
		s.notifyAssignee(ctx, task, creatorID)
	}
	return nil
}

func (s *taskService) GetTask(ctx context.Context, callerID, id uint) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.tierOf(ctx, callerID, task) == tierNone {
		return nil, ErrTaskAccessDenied
	}
	return task, nil
}

// applyStatus 更新状态并维护完成时间
func applyStatus(task *model.Task, status string) error {
	if !model.ValidTaskStatus(status) {
		return ErrTaskStatusInvalid
	}
	task.Status = status
	if status == model.TaskStatusCompleted {
		if task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}
	} else {
		task.CompletedAt = nil
	}
	return nil
}

func (s *taskService) UpdateTask(ctx context.Context, callerID, id uint, input *TaskUpdateInput) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tier := s.tierOf(ctx, callerID, task)
	if tier == tierNone {
		return nil, ErrTaskAccessDenied
	}

	// 执行者级别只放行状态和备注，其余字段逐项拒绝而不是静默丢弃
	if tier == tierAssignee {
		if input.Title != nil || input.Description != nil || input.Priority != nil ||
			input.AssigneeID != nil || input.DueDate != nil {
			return nil, ErrTaskAccessDenied
		}
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !model.ValidTaskPriority(*input.Priority) {
			return nil, ErrTaskPriorityInvalid
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if err := applyStatus(task, *input.Status); err != nil {
			return nil, err
		}
	}
	if input.Remark != nil {
		task.Remark = *input.Remark
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	oldAssignee := task.AssigneeID
	if input.AssigneeID != nil {
		if *input.AssigneeID == 0 {
			task.AssigneeID = nil
		} else {
			if _, err := s.userRepo.GetByID(ctx, *input.AssigneeID); err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return nil, ErrAssigneeNotFound
				}
				return nil, err
			}
			task.AssigneeID = input.AssigneeID
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if task.AssigneeID != nil && *task.AssigneeID != callerID &&
		(oldAssignee == nil || *oldAssignee != *task.AssigneeID) {
		s.notifyAssignee(ctx, task, callerID)
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, callerID, id uint) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// 删除只开放给管理角色和创建者
	if s.tierOf(ctx, callerID, task) < tierCreator {
		return ErrTaskAccessDenied
	}
	return s.taskRepo.Delete(ctx, id)
}

func (s *taskService) ListTasks(ctx context.Context, callerID uint, scope TaskScope, filter *repository.TaskFilter, page *repository.Pagination) ([]*model.Task, int64, error) {
	if filter == nil {
		filter = &repository.TaskFilter{}
	}

	switch scope {
	case TaskScopeCreated:
		filter.CreatorID = callerID
	case TaskScopeAssigned:
		filter.AssigneeID = callerID
	default:
		// 非管理角色的"全部"收敛为自己创建或被分配的任务
		if !s.permSvc.IsAdmin(ctx, callerID) {
			filter.OwnerID = callerID
		}
	}
	return s.taskRepo.List(ctx, filter, page)
}

func (s *taskService) AssignTask(ctx context.Context, callerID, id uint, assigneeID uint) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.tierOf(ctx, callerID, task) < tierCreator {
		return nil, ErrTaskAccessDenied
	}

	if _, err := s.userRepo.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, err
	}

	task.AssigneeID = &assigneeID
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if assigneeID != callerID {
		s.notifyAssignee(ctx, task, callerID)
	}
	return task, nil
}

func (s *taskService) TaskStats(ctx context.Context, callerID uint) (map[string]int64, error) {
	ownerID := callerID
	if s.permSvc.IsAdmin(ctx, callerID) {
		ownerID = 0
	}
	return s.taskRepo.CountByStatus(ctx, ownerID)
}

// notifyAssignee 给执行者发任务通知，失败只记日志不影响主流程
func (s *taskService) notifyAssignee(ctx context.Context, task *model.Task, senderID uint) {
	if task.AssigneeID == nil {
		return
	}
	notification := &model.Notification{
		UserID:      *task.AssigneeID,
		Title:       "你有新的任务",
		Content:     fmt.Sprintf("任务「%s」已分配给你", task.Title),
		Type:        model.NotificationTypeTask,
		SenderID:    &senderID,
		RelatedID:   &task.ID,
		RelatedType: "task",
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("任务通知发送失败",
			zap.Uint("task_id", task.ID),
			zap.Uint("assignee_id", *task.AssigneeID),
			zap.Error(err))
	}
}
