// Package service 业务逻辑层
package service

import (
	"context"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"go.uber.org/zap"
)

// MatchMode 权限/角色匹配模式
type MatchMode string

const (
	MatchAll MatchMode = "ALL" // 必须全部满足
	MatchAny MatchMode = "ANY" // 满足任一即可
)

// PermissionService 权限解析与校验服务接口
// 每次调用都重新读取当前绑定关系，角色或菜单变更在下一次请求即生效。
// 所有方法都失败关闭：查询出错时解析为空集、校验一律拒绝，错误记入日志。
type PermissionService interface {
	// GetUserPermissions 解析用户的有效权限编码集合
	GetUserPermissions(ctx context.Context, userID uint) []string
	// GetUserRoleCodes 解析用户的有效角色编码集合
	GetUserRoleCodes(ctx context.Context, userID uint) []string
	// GetVisibleMenuIDs 解析用户通过启用角色可见的菜单 ID 集合
	GetVisibleMenuIDs(ctx context.Context, userID uint) map[uint]struct{}
	// HasPermission 检查用户是否拥有指定权限编码
	HasPermission(ctx context.Context, userID uint, codes []string, mode MatchMode) bool
	// HasRole 检查用户是否拥有指定角色编码
	HasRole(ctx context.Context, userID uint, codes []string, mode MatchMode) bool
	// IsAdmin 检查用户是否拥有管理角色（super_admin 或 admin）
	IsAdmin(ctx context.Context, userID uint) bool
	// IsSuperAdmin 检查用户是否为超级管理员
	IsSuperAdmin(ctx context.Context, userID uint) bool
}

type permissionService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	userRoleRepo repository.UserRoleRepository
	menuRepo     repository.MenuRepository
	logger       *zap.Logger
}

// NewPermissionService 创建权限服务
func NewPermissionService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	userRoleRepo repository.UserRoleRepository,
	menuRepo repository.MenuRepository,
	logger *zap.Logger,
) PermissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &permissionService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		userRoleRepo: userRoleRepo,
		menuRepo:     menuRepo,
		logger:       logger,
	}
}

// activeRoleIDs 解析用户当前启用的角色 ID
// 用户不存在或已禁用时返回空，已签发令牌的禁用用户从此处开始处处被拒
func (s *permissionService) activeRoleIDs(ctx context.Context, userID uint) []uint {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("权限解析：获取用户失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	if !user.IsActive() {
		return nil
	}

	roleIDs, err := s.userRoleRepo.GetRoleIDs(ctx, userID)
	if err != nil {
		s.logger.Warn("权限解析：获取用户角色失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	if len(roleIDs) == 0 {
		return nil
	}

	// 禁用的角色不贡献任何权限
	roles, err := s.roleRepo.ListEnabledByIDs(ctx, roleIDs)
	if err != nil {
		s.logger.Warn("权限解析：过滤启用角色失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}

	ids := make([]uint, 0, len(roles))
	for _, role := range roles {
		ids = append(ids, role.ID)
	}
	return ids
}

func (s *permissionService) GetUserPermissions(ctx context.Context, userID uint) []string {
	roleIDs := s.activeRoleIDs(ctx, userID)
	if len(roleIDs) == 0 {
		return []string{}
	}

	menuIDs, err := s.roleRepo.GetMenuIDsByRoleIDs(ctx, roleIDs)
	if err != nil {
		s.logger.Warn("权限解析：获取角色菜单失败", zap.Uint("user_id", userID), zap.Error(err))
		return []string{}
	}
	if len(menuIDs) == 0 {
		return []string{}
	}

	menus, err := s.menuRepo.ListEnabledByIDs(ctx, menuIDs)
	if err != nil {
		s.logger.Warn("权限解析：获取菜单失败", zap.Uint("user_id", userID), zap.Error(err))
		return []string{}
	}

	// 去重后返回非空白的权限编码
	seen := make(map[string]struct{}, len(menus))
	codes := make([]string, 0, len(menus))
	for _, menu := range menus {
		code := menu.Code()
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

func (s *permissionService) GetUserRoleCodes(ctx context.Context, userID uint) []string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("角色解析：获取用户失败", zap.Uint("user_id", userID), zap.Error(err))
		return []string{}
	}
	if !user.IsActive() {
		return []string{}
	}

	roleIDs, err := s.userRoleRepo.GetRoleIDs(ctx, userID)
	if err != nil {
		s.logger.Warn("角色解析：获取用户角色失败", zap.Uint("user_id", userID), zap.Error(err))
		return []string{}
	}
	if len(roleIDs) == 0 {
		return []string{}
	}

	roles, err := s.roleRepo.ListEnabledByIDs(ctx, roleIDs)
	if err != nil {
		s.logger.Warn("角色解析：过滤启用角色失败", zap.Uint("user_id", userID), zap.Error(err))
		return []string{}
	}

	codes := make([]string, 0, len(roles))
	for _, role := range roles {
		codes = append(codes, role.Code)
	}
	return codes
}

func (s *permissionService) GetVisibleMenuIDs(ctx context.Context, userID uint) map[uint]struct{} {
	roleIDs := s.activeRoleIDs(ctx, userID)
	if len(roleIDs) == 0 {
		return map[uint]struct{}{}
	}

	menuIDs, err := s.roleRepo.GetMenuIDsByRoleIDs(ctx, roleIDs)
	if err != nil {
		s.logger.Warn("权限解析：获取角色菜单失败", zap.Uint("user_id", userID), zap.Error(err))
		return map[uint]struct{}{}
	}

	visible := make(map[uint]struct{}, len(menuIDs))
	for _, id := range menuIDs {
		visible[id] = struct{}{}
	}
	return visible
}

// matchCodes 按模式比对要求的编码与持有的编码
// 要求为空视为配置错误，一律拒绝，避免意外放行
func matchCodes(required, held []string, mode MatchMode) bool {
	if len(required) == 0 {
		return false
	}

	heldSet := make(map[string]struct{}, len(held))
	for _, code := range held {
		heldSet[code] = struct{}{}
	}

	switch mode {
	case MatchAll:
		for _, code := range required {
			if _, ok := heldSet[code]; !ok {
				return false
			}
		}
		return true
	case MatchAny:
		for _, code := range required {
			if _, ok := heldSet[code]; ok {
				return true
			}
		}
		return false
	default:
		// 未知模式同样拒绝
		return false
	}
}

func (s *permissionService) HasPermission(ctx context.Context, userID uint, codes []string, mode MatchMode) bool {
	// 要求为空直接拒绝，不必再查权限
	if len(codes) == 0 {
		return false
	}
	return matchCodes(codes, s.GetUserPermissions(ctx, userID), mode)
}

func (s *permissionService) HasRole(ctx context.Context, userID uint, codes []string, mode MatchMode) bool {
	if len(codes) == 0 {
		return false
	}
	return matchCodes(codes, s.GetUserRoleCodes(ctx, userID), mode)
}

func (s *permissionService) IsAdmin(ctx context.Context, userID uint) bool {
	return s.HasRole(ctx, userID, model.AdminRoleCodes, MatchAny)
}

func (s *permissionService) IsSuperAdmin(ctx context.Context, userID uint) bool {
	return s.HasRole(ctx, userID, []string{model.RoleSuperAdmin}, MatchAny)
}
