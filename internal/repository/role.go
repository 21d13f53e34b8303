package repository

import (
	"context"
	"errors"

	"github.com/art-design-pro/admin-backend/internal/model"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound  = errors.New("角色不存在")
	ErrMenuIDInvalid = errors.New("部分菜单ID无效")
)

// RoleFilter 角色列表过滤条件
type RoleFilter struct {
	Keyword string // 模糊匹配名称/编码/描述
	Status  *int8
}

// RoleRepository 角色仓库接口
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	GetByID(ctx context.Context, id uint) (*model.Role, error)
	GetByCode(ctx context.Context, code string) (*model.Role, error)
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter *RoleFilter, page *Pagination) ([]*model.Role, int64, error)
	ListEnabled(ctx context.Context) ([]*model.Role, error)
	ListEnabledByIDs(ctx context.Context, ids []uint) ([]*model.Role, error)

	// 角色菜单绑定
	GetMenuIDs(ctx context.Context, roleID uint) ([]uint, error)
	GetMenuIDsByRoleIDs(ctx context.Context, roleIDs []uint) ([]uint, error)
	ReplaceMenus(ctx context.Context, roleID uint, menuIDs []uint) error
}

// UserRoleRepository 用户角色仓库接口
type UserRoleRepository interface {
	GetRoleIDs(ctx context.Context, userID uint) ([]uint, error)
	GetUserRoles(ctx context.Context, userID uint) ([]*model.Role, error)
	ReplaceRoles(ctx context.Context, userID uint, roleIDs []uint) error
	Assign(ctx context.Context, userID, roleID uint) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository 创建角色仓库
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) GetByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	// 删除角色时同步清理角色菜单绑定
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Role{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("role_id = ?", id).Delete(&model.RoleMenu{}).Error
	})
}

func (r *roleRepository) List(ctx context.Context, filter *RoleFilter, page *Pagination) ([]*model.Role, int64, error) {
	var roles []*model.Role
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Role{})
	if filter != nil {
		if filter.Keyword != "" {
			like := "%" + filter.Keyword + "%"
			query = query.Where("name LIKE ? OR code LIKE ? OR description LIKE ?", like, like, like)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page != nil {
		page.Normalize()
		query = query.Offset(page.Offset()).Limit(page.PageSize)
	}

	if err := query.Order("sort ASC, id ASC").Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

func (r *roleRepository) ListEnabled(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusEnabled).
		Order("sort ASC, id ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepository) ListEnabledByIDs(ctx context.Context, ids []uint) ([]*model.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []*model.Role
	err := r.db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, model.StatusEnabled).
		Find(&roles).Error
	return roles, err
}

func (r *roleRepository) GetMenuIDs(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.RoleMenu{}).
		Where("role_id = ?", roleID).
		Pluck("menu_id", &ids).Error
	return ids, err
}

func (r *roleRepository) GetMenuIDsByRoleIDs(ctx context.Context, roleIDs []uint) ([]uint, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.RoleMenu{}).
		Where("role_id IN ?", roleIDs).
		Distinct("menu_id").
		Pluck("menu_id", &ids).Error
	return ids, err
}

// ReplaceMenus 以替换语义重建角色菜单绑定
// 在单个事务内先删后插，保证并发的权限解析不会读到半新半旧的绑定
func (r *roleRepository) ReplaceMenus(ctx context.Context, roleID uint, menuIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 校验菜单 ID 全部存在
		if len(menuIDs) > 0 {
			var count int64
			if err := tx.Model(&model.Menu{}).Where("id IN ?", menuIDs).Count(&count).Error; err != nil {
				return err
			}
			if count != int64(len(menuIDs)) {
				return ErrMenuIDInvalid
			}
		}

		if err := tx.Where("role_id = ?", roleID).Delete(&model.RoleMenu{}).Error; err != nil {
			return err
		}

		if len(menuIDs) == 0 {
			return nil
		}

		bindings := make([]model.RoleMenu, 0, len(menuIDs))
		for _, menuID := range menuIDs {
			bindings = append(bindings, model.RoleMenu{RoleID: roleID, MenuID: menuID})
		}
		return tx.Create(&bindings).Error
	})
}

type userRoleRepository struct {
	db *gorm.DB
}

// NewUserRoleRepository 创建用户角色仓库
func NewUserRoleRepository(db *gorm.DB) UserRoleRepository {
	return &userRoleRepository{db: db}
}

func (r *userRoleRepository) GetRoleIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role_id", &ids).Error
	return ids, err
}

func (r *userRoleRepository) GetUserRoles(ctx context.Context, userID uint) ([]*model.Role, error) {
	var userRoles []model.UserRole
	if err := r.db.WithContext(ctx).Preload("Role").Where("user_id = ?", userID).Find(&userRoles).Error; err != nil {
		return nil, err
	}

	roles := make([]*model.Role, 0, len(userRoles))
	for _, ur := range userRoles {
		if ur.Role != nil {
			roles = append(roles, ur.Role)
		}
	}
	return roles, nil
}

// ReplaceRoles 以替换语义重建用户角色绑定
func (r *userRoleRepository) ReplaceRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}

		if len(roleIDs) == 0 {
			return nil
		}

		bindings := make([]model.UserRole, 0, len(roleIDs))
		for _, roleID := range roleIDs {
			bindings = append(bindings, model.UserRole{UserID: userID, RoleID: roleID})
		}
		return tx.Create(&bindings).Error
	})
}

func (r *userRoleRepository) Assign(ctx context.Context, userID, roleID uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&model.UserRole{UserID: userID, RoleID: roleID}).Error
}
