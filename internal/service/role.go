package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
)

var (
	ErrRoleCodeExists   = errors.New("角色编码已存在")
	ErrRoleCodeFormat   = errors.New("角色编码格式不正确，只能包含小写字母和下划线")
	ErrRoleNameRequired = errors.New("角色名称不能为空")
	ErrSystemRole       = errors.New("系统内置角色不允许此操作")
)

var roleCodeRe = regexp.MustCompile(`^[a-z_]+$`)

// RoleDetail 角色详情，附带已绑定的菜单 ID
type RoleDetail struct {
	Role    *model.Role `json:"role"`
	MenuIDs []uint      `json:"menuIds"`
}

// RoleService 角色管理服务接口
// super_admin、admin、user 三个内置角色受保护，不能删除、禁用或改码
type RoleService interface {
	CreateRole(ctx context.Context, role *model.Role) error
	GetRole(ctx context.Context, id uint) (*RoleDetail, error)
	UpdateRole(ctx context.Context, role *model.Role) error
	DeleteRole(ctx context.Context, id uint) error
	ListRoles(ctx context.Context, filter *repository.RoleFilter, page *repository.Pagination) ([]*model.Role, int64, error)
	ListEnabledRoles(ctx context.Context) ([]*model.Role, error)
	// AssignMenus 整体替换角色的菜单绑定
	AssignMenus(ctx context.Context, roleID uint, menuIDs []uint) error
}

type roleService struct {
	roleRepo repository.RoleRepository
}

// NewRoleService 创建角色服务
func NewRoleService(roleRepo repository.RoleRepository) RoleService {
	return &roleService{roleRepo: roleRepo}
}

func validateRole(role *model.Role) error {
	if role.Name == "" {
		return ErrRoleNameRequired
	}
	if !roleCodeRe.MatchString(role.Code) {
		return ErrRoleCodeFormat
	}
	return nil
}

func (s *roleService) CreateRole(ctx context.Context, role *model.Role) error {
	if err := validateRole(role); err != nil {
		return err
	}
	if model.IsSystemRoleCode(role.Code) {
		return ErrRoleCodeExists
	}

	if _, err := s.roleRepo.GetByCode(ctx, role.Code); err == nil {
		return ErrRoleCodeExists
	} else if !errors.Is(err, repository.ErrRoleNotFound) {
		return err
	}

	role.IsSystem = false
	return s.roleRepo.Create(ctx, role)
}

func (s *roleService) GetRole(ctx context.Context, id uint) (*RoleDetail, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	menuIDs, err := s.roleRepo.GetMenuIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	if menuIDs == nil {
		menuIDs = []uint{}
	}
	return &RoleDetail{Role: role, MenuIDs: menuIDs}, nil
}

func (s *roleService) UpdateRole(ctx context.Context, role *model.Role) error {
	existing, err := s.roleRepo.GetByID(ctx, role.ID)
	if err != nil {
		return err
	}

	// 内置角色的编码和状态固定不变
	if existing.IsSystem || model.IsSystemRoleCode(existing.Code) {
		if role.Code != existing.Code || role.Status != existing.Status {
			return ErrSystemRole
		}
	}

	if err := validateRole(role); err != nil {
		return err
	}

	if role.Code != existing.Code {
		if _, err := s.roleRepo.GetByCode(ctx, role.Code); err == nil {
			return ErrRoleCodeExists
		} else if !errors.Is(err, repository.ErrRoleNotFound) {
			return err
		}
	}

	role.IsSystem = existing.IsSystem
	return s.roleRepo.Update(ctx, role)
}

func (s *roleService) DeleteRole(ctx context.Context, id uint) error {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem || model.IsSystemRoleCode(role.Code) {
		return ErrSystemRole
	}
	return s.roleRepo.Delete(ctx, id)
}

func (s *roleService) ListRoles(ctx context.Context, filter *repository.RoleFilter, page *repository.Pagination) ([]*model.Role, int64, error) {
	return s.roleRepo.List(ctx, filter, page)
}

func (s *roleService) ListEnabledRoles(ctx context.Context) ([]*model.Role, error) {
	return s.roleRepo.ListEnabled(ctx)
}

func (s *roleService) AssignMenus(ctx context.Context, roleID uint, menuIDs []uint) error {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return err
	}
	return s.roleRepo.ReplaceMenus(ctx, roleID, menuIDs)
}
