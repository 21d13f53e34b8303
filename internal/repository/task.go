package repository

import (
	"context"
	"errors"

	"github.com/art-design-pro/admin-backend/internal/model"
	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("任务不存在")

// TaskFilter 任务列表过滤条件
// CreatorID/AssigneeID 为 0 表示不过滤；OwnerID 非 0 时匹配创建者或执行者任一
type TaskFilter struct {
	Keyword    string
	Status     string
	Priority   string
	CreatorID  uint
	AssigneeID uint
	OwnerID    uint
}

// TaskRepository 任务仓库接口
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter *TaskFilter, page *Pagination) ([]*model.Task, int64, error)
	CountByStatus(ctx context.Context, ownerID uint) (map[string]int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓库
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Preload("Creator").Preload("Assignee").First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error
}

func (r *taskRepository) List(ctx context.Context, filter *TaskFilter, page *Pagination) ([]*model.Task, int64, error) {
	var tasks []*model.Task
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Task{})
	if filter != nil {
		if filter.Keyword != "" {
			like := "%" + filter.Keyword + "%"
			query = query.Where("title LIKE ? OR description LIKE ?", like, like)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Priority != "" {
			query = query.Where("priority = ?", filter.Priority)
		}
		if filter.CreatorID != 0 {
			query = query.Where("creator_id = ?", filter.CreatorID)
		}
		if filter.AssigneeID != 0 {
			query = query.Where("assignee_id = ?", filter.AssigneeID)
		}
		if filter.OwnerID != 0 {
			query = query.Where("creator_id = ? OR assignee_id = ?", filter.OwnerID, filter.OwnerID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page != nil {
		page.Normalize()
		query = query.Offset(page.Offset()).Limit(page.PageSize)
	}

	if err := query.Preload("Creator").Preload("Assignee").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// CountByStatus 按状态统计任务数，ownerID 为 0 时统计全部
func (r *taskRepository) CountByStatus(ctx context.Context, ownerID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row

	query := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if ownerID != 0 {
		query = query.Where("creator_id = ? OR assignee_id = ?", ownerID, ownerID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Status] = r.Count
	}
	return stats, nil
}
