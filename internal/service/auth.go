package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 同一用户名连续登录失败达到上限后，在窗口期内拒绝登录
const (
	loginFailKeyPrefix = "login:fail:"
	maxLoginFailures   = 5
	loginLockWindow    = 15 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrAccountLocked      = errors.New("登录失败次数过多，请稍后再试")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrUsernameTaken      = errors.New("用户名已被占用")
	ErrOldPasswordWrong   = errors.New("原密码错误")
	ErrPasswordTooShort   = errors.New("密码长度不能少于 6 位")
	ErrUsernameInvalid    = errors.New("用户名格式不正确，长度 3-50 且只能包含字母、数字和下划线")
	ErrSamePassword       = errors.New("新密码不能与原密码相同")
)

// LoginResult 登录结果
type LoginResult struct {
	Token       string       `json:"token"`
	User        *UserProfile `json:"user"`
	Roles       []string     `json:"roles"`
	Permissions []string     `json:"permissions"`
}

// UserProfile 对外暴露的用户信息，不含密码散列
type UserProfile struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Nickname    string     `json:"nickname"`
	Avatar      string     `json:"avatar"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Status      int8       `json:"status"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewUserProfile 从用户模型构建对外信息
func NewUserProfile(user *model.User) *UserProfile {
	return &UserProfile{
		ID:          user.ID,
		Username:    user.Username,
		Nickname:    user.Nickname,
		Avatar:      user.Avatar,
		Email:       user.Email,
		Phone:       user.Phone,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// UserInfo 当前登录用户的完整信息
type UserInfo struct {
	User        *UserProfile `json:"user"`
	Roles       []string     `json:"roles"`
	Permissions []string     `json:"permissions"`
}

// AuthService 认证服务接口
type AuthService interface {
	// Register 注册新用户并绑定默认角色
	Register(ctx context.Context, username, password, nickname string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, tokenString string) error
	// GetUserInfo 返回用户信息及其当前角色和权限快照
	GetUserInfo(ctx context.Context, userID uint) (*UserInfo, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
}

type authService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	userRoleRepo repository.UserRoleRepository
	permSvc      PermissionService
	tokenSvc     TokenService
	redis        *redis.Client
	logger       *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	userRoleRepo repository.UserRoleRepository,
	permSvc PermissionService,
	tokenSvc TokenService,
	redisClient *redis.Client,
	logger *zap.Logger,
) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		userRoleRepo: userRoleRepo,
		permSvc:      permSvc,
		tokenSvc:     tokenSvc,
		redis:        redisClient,
		logger:       logger,
	}
}

func validUsername(username string) bool {
	if len(username) < 3 || len(username) > 50 {
		return false
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

func (s *authService) Register(ctx context.Context, username, password, nickname string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if !validUsername(username) {
		return nil, ErrUsernameInvalid
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	user := &model.User{
		Username: username,
		Nickname: nickname,
		Status:   model.StatusEnabled,
	}
	if nickname == "" {
		user.Nickname = username
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// 绑定默认角色，角色缺失时仅记录日志，不阻断注册
	if role, err := s.roleRepo.GetByCode(ctx, model.RoleUser); err == nil {
		if err := s.userRoleRepo.Assign(ctx, user.ID, role.ID); err != nil {
			s.logger.Warn("注册：绑定默认角色失败", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	} else {
		s.logger.Warn("注册：默认角色不存在", zap.String("code", model.RoleUser), zap.Error(err))
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if s.loginLocked(ctx, username) {
		return nil, ErrAccountLocked
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// 不区分用户不存在和密码错误，避免用户名探测
			s.recordLoginFailure(ctx, username)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(password) {
		s.recordLoginFailure(ctx, username)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, ErrUserDisabled
	}

	s.clearLoginFailures(ctx, username)

	token, err := s.tokenSvc.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.Updates(ctx, user.ID, map[string]any{"last_login_at": now}); err != nil {
		s.logger.Warn("登录：更新最后登录时间失败", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now

	return &LoginResult{
		Token:       token,
		User:        NewUserProfile(user),
		Roles:       s.permSvc.GetUserRoleCodes(ctx, user.ID),
		Permissions: s.permSvc.GetUserPermissions(ctx, user.ID),
	}, nil
}

// loginLocked 检查用户名是否因连续失败被临时锁定
// 计数器不可用时放行登录，锁定只是尽力而为，不能把所有人挡在门外
func (s *authService) loginLocked(ctx context.Context, username string) bool {
	if s.redis == nil {
		return false
	}
	count, err := s.redis.Get(ctx, loginFailKeyPrefix+username).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("登录：读取失败计数失败", zap.String("username", username), zap.Error(err))
		}
		return false
	}
	return count >= maxLoginFailures
}

func (s *authService) recordLoginFailure(ctx context.Context, username string) {
	if s.redis == nil {
		return
	}
	key := loginFailKeyPrefix + username
	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warn("登录：记录失败计数失败", zap.String("username", username), zap.Error(err))
		return
	}
	if count == 1 {
		s.redis.Expire(ctx, key, loginLockWindow)
	}
}

func (s *authService) clearLoginFailures(ctx context.Context, username string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, loginFailKeyPrefix+username).Err(); err != nil {
		s.logger.Warn("登录：清除失败计数失败", zap.String("username", username), zap.Error(err))
	}
}

func (s *authService) Logout(ctx context.Context, tokenString string) error {
	return s.tokenSvc.RevokeToken(ctx, tokenString)
}

func (s *authService) GetUserInfo(ctx context.Context, userID uint) (*UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserInfo{
		User:        NewUserProfile(user),
		Roles:       s.permSvc.GetUserRoleCodes(ctx, userID),
		Permissions: s.permSvc.GetUserPermissions(ctx, userID),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.VerifyPassword(oldPassword) {
		return ErrOldPasswordWrong
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}
