package repository

import (
	"context"
	"time"

	"github.com/art-design-pro/admin-backend/internal/model"
	"gorm.io/gorm"
)

// OperationLogFilter 操作日志过滤条件
type OperationLogFilter struct {
	UserID    uint
	Username  string
	Module    string
	Action    string
	Result    string
	StartTime *time.Time
	EndTime   *time.Time
}

// OperationLogRepository 操作日志仓库接口
// 日志只增不改，仅支持按时间批量清理
type OperationLogRepository interface {
	Create(ctx context.Context, log *model.OperationLog) error
	List(ctx context.Context, filter *OperationLogFilter, page *Pagination) ([]*model.OperationLog, int64, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

type operationLogRepository struct {
	db *gorm.DB
}

// NewOperationLogRepository 创建操作日志仓库
func NewOperationLogRepository(db *gorm.DB) OperationLogRepository {
	return &operationLogRepository{db: db}
}

func (r *operationLogRepository) Create(ctx context.Context, log *model.OperationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *operationLogRepository) List(ctx context.Context, filter *OperationLogFilter, page *Pagination) ([]*model.OperationLog, int64, error) {
	var logs []*model.OperationLog
	var total int64

	query := r.db.WithContext(ctx).Model(&model.OperationLog{})
	if filter != nil {
		if filter.UserID != 0 {
			query = query.Where("user_id = ?", filter.UserID)
		}
		if filter.Username != "" {
			query = query.Where("username = ?", filter.Username)
		}
		if filter.Module != "" {
			query = query.Where("module = ?", filter.Module)
		}
		if filter.Action != "" {
			query = query.Where("action = ?", filter.Action)
		}
		if filter.Result != "" {
			query = query.Where("result = ?", filter.Result)
		}
		if filter.StartTime != nil {
			query = query.Where("created_at >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			query = query.Where("created_at <= ?", *filter.EndTime)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page != nil {
		page.Normalize()
		query = query.Offset(page.Offset()).Limit(page.PageSize)
	}

	if err := query.Order("id DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// DeleteBefore 物理删除指定时间之前的日志，返回删除条数
func (r *operationLogRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&model.OperationLog{})
	return result.RowsAffected, result.Error
}
