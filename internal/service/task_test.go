package service

import (
	"context"
	"testing"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestTaskService(perm *stubPermissionService) (TaskService, *MockTaskRepository, *MockUserRepository, *MockNotificationRepository) {
	taskRepo := new(MockTaskRepository)
	userRepo := new(MockUserRepository)
	notificationRepo := new(MockNotificationRepository)
	svc := NewTaskService(taskRepo, userRepo, notificationRepo, perm, nil)
	return svc, taskRepo, userRepo, notificationRepo
}

func uintp(v uint) *uint {
	return &v
}

func sampleTask(id, creatorID uint, assigneeID *uint) *model.Task {
	return &model.Task{
		BaseModel:  model.BaseModel{ID: id},
		Title:      "周报整理",
		Status:     model.TaskStatusPending,
		Priority:   model.TaskPriorityMedium,
		CreatorID:  creatorID,
		AssigneeID: assigneeID,
	}
}

func TestTaskService_UpdateTask_Creator(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{})

	task := sampleTask(1, 2, nil)
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()
	taskRepo.On("Update", ctx, task).Return(nil).Once()

	title := "月报整理"
	priority := model.TaskPriorityHigh
	updated, err := svc.UpdateTask(ctx, 2, 1, &TaskUpdateInput{Title: &title, Priority: &priority})
	assert.NoError(t, err)
	assert.Equal(t, "月报整理", updated.Title)
	assert.Equal(t, model.TaskPriorityHigh, updated.Priority)
}

func TestTaskService_UpdateTask_AssigneeStatusAndRemark(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{})

	// 执行者可以更新状态和备注
	task := sampleTask(1, 2, uintp(5))
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()
	taskRepo.On("Update", ctx, task).Return(nil).Once()

	status := model.TaskStatusCompleted
	remark := "已完成并归档"
	updated, err := svc.UpdateTask(ctx, 5, 1, &TaskUpdateInput{Status: &status, Remark: &remark})
	assert.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, "已完成并归档", updated.Remark)
}

func TestTaskService_UpdateTask_AssigneeForbiddenFields(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{})

	// 执行者改标题、优先级等字段一律拒绝，而不是静默丢弃
	title := "篡改标题"
	priority := model.TaskPriorityUrgent
	assignee := uint(9)

	tests := []struct {
		name  string
		input *TaskUpdateInput
	}{
		{"改标题", &TaskUpdateInput{Title: &title}},
		{"改优先级", &TaskUpdateInput{Priority: &priority}},
		{"改执行者", &TaskUpdateInput{AssigneeID: &assignee}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := sampleTask(1, 2, uintp(5))
			taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()

			_, err := svc.UpdateTask(ctx, 5, 1, tt.input)
			assert.Equal(t, ErrTaskAccessDenied, err)
		})
	}
}

func TestTaskService_UpdateTask_Unrelated(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{})

	task := sampleTask(1, 2, uintp(5))
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()

	status := model.TaskStatusCompleted
	_, err := svc.UpdateTask(ctx, 7, 1, &TaskUpdateInput{Status: &status})
	assert.Equal(t, ErrTaskAccessDenied, err)
}

func TestTaskService_UpdateTask_AdminFull(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, userRepo, notificationRepo := newTestTaskService(&stubPermissionService{admin: true})

	// 管理角色可以改任意字段并重新指派，指派触发通知
	task := sampleTask(1, 2, nil)
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()
	userRepo.On("GetByID", ctx, uint(5)).Return(activeUser(5), nil).Once()
	taskRepo.On("Update", ctx, task).Return(nil).Once()
	notificationRepo.On("Create", ctx, mock.AnythingOfType("*model.Notification")).Return(nil).Once()

	assignee := uint(5)
	updated, err := svc.UpdateTask(ctx, 99, 1, &TaskUpdateInput{AssigneeID: &assignee})
	assert.NoError(t, err)
	assert.Equal(t, uint(5), *updated.AssigneeID)
	notificationRepo.AssertExpectations(t)
}

func TestTaskService_UpdateTask_StatusRevertClearsCompletedAt(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{})

	task := sampleTask(1, 2, nil)
	completed := model.TaskStatusCompleted
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil)
	taskRepo.On("Update", ctx, task).Return(nil)

	updated, err := svc.UpdateTask(ctx, 2, 1, &TaskUpdateInput{Status: &completed})
	assert.NoError(t, err)
	assert.NotNil(t, updated.CompletedAt)

	// 回退到进行中时完成时间被清空
	inProgress := model.TaskStatusInProgress
	updated, err = svc.UpdateTask(ctx, 2, 1, &TaskUpdateInput{Status: &inProgress})
	assert.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestTaskService_DeleteTask_AssigneeDenied(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{})

	task := sampleTask(1, 2, uintp(5))
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()

	err := svc.DeleteTask(ctx, 5, 1)
	assert.Equal(t, ErrTaskAccessDenied, err)
}

func TestTaskService_DeleteTask_Creator(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{})

	task := sampleTask(1, 2, nil)
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()
	taskRepo.On("Delete", ctx, uint(1)).Return(nil).Once()

	err := svc.DeleteTask(ctx, 2, 1)
	assert.NoError(t, err)
	taskRepo.AssertExpectations(t)
}

func TestTaskService_AssignTask(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, userRepo, notificationRepo := newTestTaskService(&stubPermissionService{})

	task := sampleTask(1, 2, nil)
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()
	userRepo.On("GetByID", ctx, uint(5)).Return(activeUser(5), nil).Once()
	taskRepo.On("Update", ctx, task).Return(nil).Once()
	notificationRepo.On("Create", ctx, mock.AnythingOfType("*model.Notification")).Return(nil).Once()

	updated, err := svc.AssignTask(ctx, 2, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), *updated.AssigneeID)
	notificationRepo.AssertExpectations(t)
}

func TestTaskService_AssignTask_NotificationFailureTolerated(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, userRepo, notificationRepo := newTestTaskService(&stubPermissionService{})

	// 通知发送失败不影响指派结果
	task := sampleTask(1, 2, nil)
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()
	userRepo.On("GetByID", ctx, uint(5)).Return(activeUser(5), nil).Once()
	taskRepo.On("Update", ctx, task).Return(nil).Once()
	notificationRepo.On("Create", ctx, mock.AnythingOfType("*model.Notification")).Return(assert.AnError).Once()

	_, err := svc.AssignTask(ctx, 2, 1, 5)
	assert.NoError(t, err)
}

func TestTaskService_AssignTask_AssigneeNotFound(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, userRepo, _ := newTestTaskService(&stubPermissionService{})

	task := sampleTask(1, 2, nil)
	taskRepo.On("GetByID", ctx, uint(1)).Return(task, nil).Once()
	userRepo.On("GetByID", ctx, uint(99)).Return(nil, repository.ErrUserNotFound).Once()

	_, err := svc.AssignTask(ctx, 2, 1, 99)
	assert.Equal(t, ErrAssigneeNotFound, err)
}

func TestTaskService_ListTasks_ScopeForced(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{})

	// 非管理角色请求全部范围时收敛为自己相关的任务
	taskRepo.On("List", ctx, mock.MatchedBy(func(f *repository.TaskFilter) bool {
		return f.OwnerID == uint(7)
	}), (*repository.Pagination)(nil)).Return([]*model.Task{}, int64(0), nil).Once()

	_, _, err := svc.ListTasks(ctx, 7, TaskScopeAll, nil, nil)
	assert.NoError(t, err)
	taskRepo.AssertExpectations(t)
}

func TestTaskService_ListTasks_AdminAll(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{admin: true})

	taskRepo.On("List", ctx, mock.MatchedBy(func(f *repository.TaskFilter) bool {
		return f.OwnerID == 0 && f.CreatorID == 0 && f.AssigneeID == 0
	}), (*repository.Pagination)(nil)).Return([]*model.Task{}, int64(0), nil).Once()

	_, _, err := svc.ListTasks(ctx, 7, TaskScopeAll, nil, nil)
	assert.NoError(t, err)
}

func TestTaskService_CreateTask_Defaults(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, _, _ := newTestTaskService(&stubPermissionService{})

	taskRepo.On("Create", ctx, mock.AnythingOfType("*model.Task")).Return(nil).Once()

	task := &model.Task{Title: "新任务"}
	err := svc.CreateTask(ctx, 3, task)
	assert.NoError(t, err)
	assert.Equal(t, uint(3), task.CreatorID)
	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.Equal(t, model.TaskPriorityMedium, task.Priority)
}

func TestTaskService_CreateTask_TitleRequired(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestTaskService(&stubPermissionService{})

	err := svc.CreateTask(ctx, 3, &model.Task{Title: "   "})
	assert.Equal(t, ErrTaskTitleRequired, err)
}
