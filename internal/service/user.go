package service

import (
	"context"
	"errors"
	"strings"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
)

var (
	ErrDeleteSelf       = errors.New("不能删除自己的账号")
	ErrDeleteSuperAdmin = errors.New("不能删除超级管理员账号")
	ErrDisableSelf      = errors.New("不能禁用自己的账号")
	ErrRoleIDInvalid    = errors.New("部分角色ID无效")
)

// UserWithRoles 列表和详情中返回的用户及其角色
type UserWithRoles struct {
	*UserProfile
	Roles []*model.Role `json:"roles"`
}

// UserCreateInput 管理端创建用户入参
type UserCreateInput struct {
	Username string
	Password string
	Nickname string
	Email    string
	Phone    string
	Status   int8
	RoleIDs  []uint
}

// UserUpdateInput 管理端更新用户入参，nil 字段表示不修改
type UserUpdateInput struct {
	Nickname *string
	Avatar   *string
	Email    *string
	Phone    *string
	Status   *int8
}

// UserService 用户管理服务接口
type UserService interface {
	CreateUser(ctx context.Context, input *UserCreateInput) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*UserWithRoles, error)
	// UpdateUser operatorID 用于阻止操作者禁用自己
	UpdateUser(ctx context.Context, operatorID, id uint, input *UserUpdateInput) (*model.User, error)
	// DeleteUser operatorID 用于阻止操作者删除自己
	DeleteUser(ctx context.Context, operatorID, id uint) error
	ListUsers(ctx context.Context, filter *repository.UserFilter, page *repository.Pagination) ([]*UserWithRoles, int64, error)
	// AssignRoles 整体替换用户的角色绑定
	AssignRoles(ctx context.Context, userID uint, roleIDs []uint) error
	// ResetPassword 管理员重置用户密码
	ResetPassword(ctx context.Context, userID uint, newPassword string) error
}

type userService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	userRoleRepo repository.UserRoleRepository
}

// NewUserService 创建用户服务
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	userRoleRepo repository.UserRoleRepository,
) UserService {
	return &userService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		userRoleRepo: userRoleRepo,
	}
}

// checkRoleIDs 校验角色 ID 全部存在且启用
func (s *userService) checkRoleIDs(ctx context.Context, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}
	roles, err := s.roleRepo.ListEnabledByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}
	if len(roles) != len(roleIDs) {
		return ErrRoleIDInvalid
	}
	return nil
}

func (s *userService) CreateUser(ctx context.Context, input *UserCreateInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	if !validUsername(username) {
		return nil, ErrUsernameInvalid
	}
	if len(input.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	if err := s.checkRoleIDs(ctx, input.RoleIDs); err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Nickname: input.Nickname,
		Email:    input.Email,
		Phone:    input.Phone,
		Status:   input.Status,
	}
	if user.Nickname == "" {
		user.Nickname = username
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if len(input.RoleIDs) > 0 {
		if err := s.userRoleRepo.ReplaceRoles(ctx, user.ID, input.RoleIDs); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*UserWithRoles, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.userRoleRepo.GetUserRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserWithRoles{UserProfile: NewUserProfile(user), Roles: roles}, nil
}

func (s *userService) UpdateUser(ctx context.Context, operatorID, id uint, input *UserUpdateInput) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Nickname != nil {
		user.Nickname = *input.Nickname
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Status != nil {
		if id == operatorID && *input.Status == model.StatusDisabled {
			return nil, ErrDisableSelf
		}
		user.Status = *input.Status
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, operatorID, id uint) error {
	if id == operatorID {
		return ErrDeleteSelf
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	// 持有超级管理员角色的账号不允许删除，避免管理入口被清空
	roles, err := s.userRoleRepo.GetUserRoles(ctx, id)
	if err != nil {
		return err
	}
	for _, role := range roles {
		if role.Code == model.RoleSuperAdmin {
			return ErrDeleteSuperAdmin
		}
	}

	return s.userRepo.Delete(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, filter *repository.UserFilter, page *repository.Pagination) ([]*UserWithRoles, int64, error) {
	users, total, err := s.userRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*UserWithRoles, 0, len(users))
	for _, user := range users {
		roles, err := s.userRoleRepo.GetUserRoles(ctx, user.ID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, &UserWithRoles{UserProfile: NewUserProfile(user), Roles: roles})
	}
	return result, total, nil
}

func (s *userService) AssignRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.checkRoleIDs(ctx, roleIDs); err != nil {
		return err
	}
	return s.userRoleRepo.ReplaceRoles(ctx, userID, roleIDs)
}

func (s *userService) ResetPassword(ctx context.Context, userID uint, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}
