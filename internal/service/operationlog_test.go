package service

import (
	"context"
	"testing"
	"time"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOperationLogService_Record_SwallowsError(t *testing.T) {
	ctx := context.Background()
	logRepo := new(MockOperationLogRepository)
	svc := NewOperationLogService(logRepo, nil)

	// 落库失败不向调用方传播
	logRepo.On("Create", ctx, mock.AnythingOfType("*model.OperationLog")).Return(assert.AnError).Once()

	svc.Record(ctx, &model.OperationLog{Module: "user", Action: "create"})
	logRepo.AssertExpectations(t)
}

func TestOperationLogService_Purge(t *testing.T) {
	ctx := context.Background()
	logRepo := new(MockOperationLogRepository)
	svc := NewOperationLogService(logRepo, nil)

	logRepo.On("DeleteBefore", ctx, mock.MatchedBy(func(before time.Time) bool {
		// 保留 7 天意味着界限在 7 天前附近
		expected := time.Now().AddDate(0, 0, -7)
		return before.Sub(expected).Abs() < time.Minute
	})).Return(int64(12), nil).Once()

	deleted, err := svc.Purge(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
}

func TestOperationLogService_Purge_DefaultRetain(t *testing.T) {
	ctx := context.Background()
	logRepo := new(MockOperationLogRepository)
	svc := NewOperationLogService(logRepo, nil)

	// 非法的保留天数回退到 30 天
	logRepo.On("DeleteBefore", ctx, mock.MatchedBy(func(before time.Time) bool {
		expected := time.Now().AddDate(0, 0, -30)
		return before.Sub(expected).Abs() < time.Minute
	})).Return(int64(0), nil).Once()

	_, err := svc.Purge(ctx, 0)
	assert.NoError(t, err)
}
