package service

import (
	"context"
	"time"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

// stubPermissionService 固定返回的权限服务桩，用于聚焦业务逻辑的测试
type stubPermissionService struct {
	permissions []string
	roles       []string
	admin       bool
	superAdmin  bool
}

func (s *stubPermissionService) GetUserPermissions(ctx context.Context, userID uint) []string {
	return s.permissions
}

func (s *stubPermissionService) GetUserRoleCodes(ctx context.Context, userID uint) []string {
	return s.roles
}

func (s *stubPermissionService) GetVisibleMenuIDs(ctx context.Context, userID uint) map[uint]struct{} {
	return map[uint]struct{}{}
}

func (s *stubPermissionService) HasPermission(ctx context.Context, userID uint, codes []string, mode MatchMode) bool {
	return matchCodes(codes, s.permissions, mode)
}

func (s *stubPermissionService) HasRole(ctx context.Context, userID uint, codes []string, mode MatchMode) bool {
	return matchCodes(codes, s.roles, mode)
}

func (s *stubPermissionService) IsAdmin(ctx context.Context, userID uint) bool {
	return s.admin || s.superAdmin
}

func (s *stubPermissionService) IsSuperAdmin(ctx context.Context, userID uint) bool {
	return s.superAdmin
}

// MockUserRepository 用户仓库 Mock
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Updates(ctx context.Context, id uint, values map[string]any) error {
	args := m.Called(ctx, id, values)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter *repository.UserFilter, page *repository.Pagination) ([]*model.User, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockRoleRepository 角色仓库 Mock
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) GetByID(ctx context.Context, id uint) (*model.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRoleRepository) GetByCode(ctx context.Context, code string) (*model.Role, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRoleRepository) Update(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoleRepository) List(ctx context.Context, filter *repository.RoleFilter, page *repository.Pagination) ([]*model.Role, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*model.Role), args.Get(1).(int64), args.Error(2)
}

func (m *MockRoleRepository) ListEnabled(ctx context.Context) ([]*model.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockRoleRepository) ListEnabledByIDs(ctx context.Context, ids []uint) ([]*model.Role, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockRoleRepository) GetMenuIDs(ctx context.Context, roleID uint) ([]uint, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockRoleRepository) GetMenuIDsByRoleIDs(ctx context.Context, roleIDs []uint) ([]uint, error) {
	args := m.Called(ctx, roleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockRoleRepository) ReplaceMenus(ctx context.Context, roleID uint, menuIDs []uint) error {
	args := m.Called(ctx, roleID, menuIDs)
	return args.Error(0)
}

// MockUserRoleRepository 用户角色仓库 Mock
type MockUserRoleRepository struct {
	mock.Mock
}

func (m *MockUserRoleRepository) GetRoleIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockUserRoleRepository) GetUserRoles(ctx context.Context, userID uint) ([]*model.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockUserRoleRepository) ReplaceRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	args := m.Called(ctx, userID, roleIDs)
	return args.Error(0)
}

func (m *MockUserRoleRepository) Assign(ctx context.Context, userID, roleID uint) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

// MockMenuRepository 菜单仓库 Mock
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) Create(ctx context.Context, menu *model.Menu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

func (m *MockMenuRepository) GetByID(ctx context.Context, id uint) (*model.Menu, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Menu), args.Error(1)
}

func (m *MockMenuRepository) GetByPermissionCode(ctx context.Context, code string) (*model.Menu, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Menu), args.Error(1)
}

func (m *MockMenuRepository) Update(ctx context.Context, menu *model.Menu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

func (m *MockMenuRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMenuRepository) List(ctx context.Context, filter *repository.MenuFilter) ([]*model.Menu, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Menu), args.Error(1)
}

func (m *MockMenuRepository) ListEnabledByIDs(ctx context.Context, ids []uint) ([]*model.Menu, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Menu), args.Error(1)
}

func (m *MockMenuRepository) CountChildren(ctx context.Context, parentID uint) (int64, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).(int64), args.Error(1)
}

// MockArticleRepository 文章仓库 Mock
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *model.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id uint) (*model.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *model.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) List(ctx context.Context, filter *repository.ArticleFilter, page *repository.Pagination) ([]*model.Article, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*model.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleRepository) IncrViewCount(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) CountByStatus(ctx context.Context, authorID uint) (map[string]int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(map[string]int64), args.Error(1)
}

// MockTaskRepository 任务仓库 Mock
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, filter *repository.TaskFilter, page *repository.Pagination) ([]*model.Task, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*model.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, ownerID uint) (map[string]int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(map[string]int64), args.Error(1)
}

// MockNotificationRepository 通知仓库 Mock
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) BatchCreate(ctx context.Context, notifications []model.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uint) (*model.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uint, filter *repository.NotificationFilter, page *repository.Pagination) ([]*model.Notification, int64, error) {
	args := m.Called(ctx, userID, filter, page)
	return args.Get(0).([]*model.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID uint, ids []uint) error {
	args := m.Called(ctx, userID, ids)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, userID uint, ids []uint) error {
	args := m.Called(ctx, userID, ids)
	return args.Error(0)
}

// MockOperationLogRepository 操作日志仓库 Mock
type MockOperationLogRepository struct {
	mock.Mock
}

func (m *MockOperationLogRepository) Create(ctx context.Context, log *model.OperationLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockOperationLogRepository) List(ctx context.Context, filter *repository.OperationLogFilter, page *repository.Pagination) ([]*model.OperationLog, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*model.OperationLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockOperationLogRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
