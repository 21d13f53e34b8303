package repository

import (
	"context"
	"errors"

	"github.com/art-design-pro/admin-backend/internal/model"
	"gorm.io/gorm"
)

var ErrMenuNotFound = errors.New("菜单不存在")

// MenuFilter 菜单列表过滤条件
type MenuFilter struct {
	Status *int8
	Hidden *bool
}

// MenuRepository 菜单仓库接口
// 列表查询统一按 (sort, id) 升序返回，树构建依赖这个顺序
type MenuRepository interface {
	Create(ctx context.Context, menu *model.Menu) error
	GetByID(ctx context.Context, id uint) (*model.Menu, error)
	GetByPermissionCode(ctx context.Context, code string) (*model.Menu, error)
	Update(ctx context.Context, menu *model.Menu) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter *MenuFilter) ([]*model.Menu, error)
	ListEnabledByIDs(ctx context.Context, ids []uint) ([]*model.Menu, error)
	CountChildren(ctx context.Context, parentID uint) (int64, error)
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository 创建菜单仓库
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, menu *model.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *menuRepository) GetByID(ctx context.Context, id uint) (*model.Menu, error) {
	var menu model.Menu
	if err := r.db.WithContext(ctx).First(&menu, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) GetByPermissionCode(ctx context.Context, code string) (*model.Menu, error) {
	var menu model.Menu
	if err := r.db.WithContext(ctx).First(&menu, "permission_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) Update(ctx context.Context, menu *model.Menu) error {
	return r.db.WithContext(ctx).Save(menu).Error
}

func (r *menuRepository) Delete(ctx context.Context, id uint) error {
	// 删除菜单时同步清理角色菜单绑定
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Menu{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("menu_id = ?", id).Delete(&model.RoleMenu{}).Error
	})
}

func (r *menuRepository) List(ctx context.Context, filter *MenuFilter) ([]*model.Menu, error) {
	var menus []*model.Menu
	query := r.db.WithContext(ctx).Model(&model.Menu{})
	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.Hidden != nil {
			query = query.Where("hidden = ?", *filter.Hidden)
		}
	}
	err := query.Order("sort ASC, id ASC").Find(&menus).Error
	return menus, err
}

// ListEnabledByIDs 获取指定 ID 集合中启用状态的菜单
func (r *menuRepository) ListEnabledByIDs(ctx context.Context, ids []uint) ([]*model.Menu, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var menus []*model.Menu
	err := r.db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, model.StatusEnabled).
		Order("sort ASC, id ASC").
		Find(&menus).Error
	return menus, err
}

func (r *menuRepository) CountChildren(ctx context.Context, parentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("parent_id = ?", parentID).
		Count(&count).Error
	return count, err
}
