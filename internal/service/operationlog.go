package service

import (
	"context"
	"time"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"go.uber.org/zap"
)

// OperationLogService 操作日志服务接口
type OperationLogService interface {
	// Record 写入一条操作日志，失败只记应用日志，不向调用方传播
	Record(ctx context.Context, entry *model.OperationLog)
	List(ctx context.Context, filter *repository.OperationLogFilter, page *repository.Pagination) ([]*model.OperationLog, int64, error)
	// Purge 清理指定天数之前的日志，返回删除条数
	Purge(ctx context.Context, retainDays int) (int64, error)
}

type operationLogService struct {
	logRepo repository.OperationLogRepository
	logger  *zap.Logger
}

// NewOperationLogService 创建操作日志服务
func NewOperationLogService(logRepo repository.OperationLogRepository, logger *zap.Logger) OperationLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &operationLogService{logRepo: logRepo, logger: logger}
}

func (s *operationLogService) Record(ctx context.Context, entry *model.OperationLog) {
	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("操作日志写入失败",
			zap.String("module", entry.Module),
			zap.String("action", entry.Action),
			zap.Error(err))
	}
}

func (s *operationLogService) List(ctx context.Context, filter *repository.OperationLogFilter, page *repository.Pagination) ([]*model.OperationLog, int64, error) {
	return s.logRepo.List(ctx, filter, page)
}

func (s *operationLogService) Purge(ctx context.Context, retainDays int) (int64, error) {
	if retainDays < 1 {
		retainDays = 30
	}
	before := time.Now().AddDate(0, 0, -retainDays)
	return s.logRepo.DeleteBefore(ctx, before)
}
