package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
)

var (
	ErrMenuTypeInvalid        = errors.New("菜单类型不合法")
	ErrMenuTitleRequired      = errors.New("菜单标题不能为空")
	ErrMenuNameRequired       = errors.New("菜单名称不能为空")
	ErrMenuNameFormat         = errors.New("菜单名称只能包含字母和数字")
	ErrMenuPathFormat         = errors.New("路由路径必须以 / 开头")
	ErrDirectoryPathRequired  = errors.New("目录类型必须填写路由路径")
	ErrMenuPathRequired       = errors.New("菜单类型必须填写路由路径")
	ErrMenuComponentRequired  = errors.New("菜单类型必须填写组件路径")
	ErrButtonCodeRequired     = errors.New("按钮类型必须填写权限编码")
	ErrLinkURLRequired        = errors.New("外链类型必须填写外链地址")
	ErrEmbedFieldsRequired    = errors.New("内嵌类型必须填写路由路径和内嵌地址")
	ErrPermissionCodeFormat   = errors.New("权限编码格式不正确，应为 模块:操作 形式，如 user:view")
	ErrPermissionCodeExists   = errors.New("权限编码已存在")
	ErrButtonNeedsParent      = errors.New("按钮类型必须挂在某个菜单下")
	ErrButtonAsParent         = errors.New("按钮类型不能作为父级菜单")
	ErrMenuParentNotFound     = errors.New("父级菜单不存在")
	ErrMenuParentIsSelf       = errors.New("父级菜单不能是自己")
	ErrMenuCycle              = errors.New("不能将菜单移动到自己的子菜单下")
	ErrMenuHasChildren        = errors.New("该菜单下存在子菜单，不能删除")
	ErrMenuTypeChangeHasChild = errors.New("该菜单下存在子菜单，不能修改为非目录类型")
)

var (
	permissionCodeRe = regexp.MustCompile(`^[a-z_]+:[a-z_]+$`)
	menuNameRe       = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// MenuUpdateInput 菜单更新入参，nil 字段表示不修改
type MenuUpdateInput struct {
	ParentID       *uint
	Type           *string
	Name           *string
	Title          *string
	Path           *string
	Component      *string
	Redirect       *string
	ActivePath     *string
	Icon           *string
	ActiveIcon     *string
	BadgeType      *string
	BadgeContent   *string
	BadgeStyle     *string
	PermissionCode *string
	Status         *int8
	Hidden         *bool
	HideChildren   *bool
	HideBreadcrumb *bool
	HideTab        *bool
	KeepAlive      *bool
	FixedTab       *bool
	AlwaysShow     *bool
	IsExternal     *bool
	ExternalURL    *string
	Sort           *int
	Description    *string
	Meta           model.JSONMap
}

// MenuService 菜单管理与菜单树服务接口
type MenuService interface {
	CreateMenu(ctx context.Context, menu *model.Menu) error
	GetMenu(ctx context.Context, id uint) (*model.Menu, error)
	UpdateMenu(ctx context.Context, id uint, input *MenuUpdateInput) (*model.Menu, error)
	DeleteMenu(ctx context.Context, id uint) error
	ListMenus(ctx context.Context, filter *repository.MenuFilter) ([]*model.Menu, error)
	// GetAdminMenuTree 管理视图：完整菜单树，不做权限过滤和空目录剪枝
	GetAdminMenuTree(ctx context.Context, filter *repository.MenuFilter) ([]*MenuNode, error)
	// GetUserMenuTree 用户视图：按角色授权过滤后构建并剪除空目录
	GetUserMenuTree(ctx context.Context, userID uint) ([]*MenuNode, error)
}

type menuService struct {
	menuRepo repository.MenuRepository
	permSvc  PermissionService
}

// NewMenuService 创建菜单服务
func NewMenuService(menuRepo repository.MenuRepository, permSvc PermissionService) MenuService {
	return &menuService{menuRepo: menuRepo, permSvc: permSvc}
}

// validateMenuFields 校验菜单字段约束，创建和更新共用
func validateMenuFields(menu *model.Menu) error {
	if !model.ValidMenuType(menu.Type) {
		return ErrMenuTypeInvalid
	}
	if strings.TrimSpace(menu.Title) == "" {
		return ErrMenuTitleRequired
	}

	if menu.Type != model.MenuTypeButton {
		if strings.TrimSpace(menu.Name) == "" {
			return ErrMenuNameRequired
		}
		if !menuNameRe.MatchString(menu.Name) {
			return ErrMenuNameFormat
		}
	}

	if menu.Path != "" && !strings.HasPrefix(menu.Path, "/") {
		return ErrMenuPathFormat
	}

	switch menu.Type {
	case model.MenuTypeDirectory:
		if menu.Path == "" {
			return ErrDirectoryPathRequired
		}
	case model.MenuTypeMenu:
		if menu.Path == "" {
			return ErrMenuPathRequired
		}
		if menu.Component == "" {
			return ErrMenuComponentRequired
		}
	case model.MenuTypeButton:
		if menu.Code() == "" {
			return ErrButtonCodeRequired
		}
	case model.MenuTypeLink:
		if menu.ExternalURL == "" {
			return ErrLinkURLRequired
		}
	case model.MenuTypeEmbed:
		if menu.Path == "" || menu.ExternalURL == "" {
			return ErrEmbedFieldsRequired
		}
	}

	if code := menu.Code(); code != "" && !permissionCodeRe.MatchString(code) {
		return ErrPermissionCodeFormat
	}
	return nil
}

// checkPermissionCodeUnique 校验权限编码全局唯一，selfID 用于更新时放过自身
func (s *menuService) checkPermissionCodeUnique(ctx context.Context, code string, selfID uint) error {
	if code == "" {
		return nil
	}
	existing, err := s.menuRepo.GetByPermissionCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrMenuNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrPermissionCodeExists
	}
	return nil
}

// checkParent 校验父级菜单约束
func (s *menuService) checkParent(ctx context.Context, menuType string, parentID uint) error {
	if parentID == model.MenuRootID {
		// 按钮必须有父级，其余类型可以挂在顶级
		if menuType == model.MenuTypeButton {
			return ErrButtonNeedsParent
		}
		return nil
	}
	parent, err := s.menuRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrMenuNotFound) {
			return ErrMenuParentNotFound
		}
		return err
	}
	if parent.Type == model.MenuTypeButton {
		return ErrButtonAsParent
	}
	return nil
}

// checkCycle 沿祖先链上溯，确保 parentID 不落在 id 的子树里
// visited 防御脏数据中已有的环
func (s *menuService) checkCycle(ctx context.Context, id, parentID uint) error {
	visited := map[uint]struct{}{id: {}}
	current := parentID
	for current != model.MenuRootID {
		if current == id {
			return ErrMenuCycle
		}
		if _, ok := visited[current]; ok {
			return ErrMenuCycle
		}
		visited[current] = struct{}{}
		node, err := s.menuRepo.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, repository.ErrMenuNotFound) {
				return nil
			}
			return err
		}
		current = node.ParentID
	}
	return nil
}

func (s *menuService) CreateMenu(ctx context.Context, menu *model.Menu) error {
	if err := validateMenuFields(menu); err != nil {
		return err
	}
	if err := s.checkParent(ctx, menu.Type, menu.ParentID); err != nil {
		return err
	}
	if err := s.checkPermissionCodeUnique(ctx, menu.Code(), 0); err != nil {
		return err
	}
	return s.menuRepo.Create(ctx, menu)
}

func (s *menuService) GetMenu(ctx context.Context, id uint) (*model.Menu, error) {
	return s.menuRepo.GetByID(ctx, id)
}

// applyMenuUpdate 把非 nil 字段合并到现有菜单上
func applyMenuUpdate(menu *model.Menu, input *MenuUpdateInput) {
	if input.ParentID != nil {
		menu.ParentID = *input.ParentID
	}
	if input.Type != nil {
		menu.Type = *input.Type
	}
	if input.Name != nil {
		menu.Name = *input.Name
	}
	if input.Title != nil {
		menu.Title = *input.Title
	}
	if input.Path != nil {
		menu.Path = *input.Path
	}
	if input.Component != nil {
		menu.Component = *input.Component
	}
	if input.Redirect != nil {
		menu.Redirect = *input.Redirect
	}
	if input.ActivePath != nil {
		menu.ActivePath = *input.ActivePath
	}
	if input.Icon != nil {
		menu.Icon = *input.Icon
	}
	if input.ActiveIcon != nil {
		menu.ActiveIcon = *input.ActiveIcon
	}
	if input.BadgeType != nil {
		menu.BadgeType = *input.BadgeType
	}
	if input.BadgeContent != nil {
		menu.BadgeContent = *input.BadgeContent
	}
	if input.BadgeStyle != nil {
		menu.BadgeStyle = *input.BadgeStyle
	}
	if input.PermissionCode != nil {
		if strings.TrimSpace(*input.PermissionCode) == "" {
			menu.PermissionCode = nil
		} else {
			code := strings.TrimSpace(*input.PermissionCode)
			menu.PermissionCode = &code
		}
	}
	if input.Status != nil {
		menu.Status = *input.Status
	}
	if input.Hidden != nil {
		menu.Hidden = *input.Hidden
	}
	if input.HideChildren != nil {
		menu.HideChildren = *input.HideChildren
	}
	if input.HideBreadcrumb != nil {
		menu.HideBreadcrumb = *input.HideBreadcrumb
	}
	if input.HideTab != nil {
		menu.HideTab = *input.HideTab
	}
	if input.KeepAlive != nil {
		menu.KeepAlive = *input.KeepAlive
	}
	if input.FixedTab != nil {
		menu.FixedTab = *input.FixedTab
	}
	if input.AlwaysShow != nil {
		menu.AlwaysShow = *input.AlwaysShow
	}
	if input.IsExternal != nil {
		menu.IsExternal = *input.IsExternal
	}
	if input.ExternalURL != nil {
		menu.ExternalURL = *input.ExternalURL
	}
	if input.Sort != nil {
		menu.Sort = *input.Sort
	}
	if input.Description != nil {
		menu.Description = *input.Description
	}
	if input.Meta != nil {
		menu.Meta = input.Meta
	}
}

func (s *menuService) UpdateMenu(ctx context.Context, id uint, input *MenuUpdateInput) (*model.Menu, error) {
	menu, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldType := menu.Type
	oldParent := menu.ParentID
	applyMenuUpdate(menu, input)

	if err := validateMenuFields(menu); err != nil {
		return nil, err
	}

	// 目录改成其他类型时其下不能还挂着子菜单
	if oldType == model.MenuTypeDirectory && menu.Type != model.MenuTypeDirectory {
		count, err := s.menuRepo.CountChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrMenuTypeChangeHasChild
		}
	}

	if menu.ParentID != oldParent {
		if menu.ParentID == id {
			return nil, ErrMenuParentIsSelf
		}
		if err := s.checkParent(ctx, menu.Type, menu.ParentID); err != nil {
			return nil, err
		}
		if err := s.checkCycle(ctx, id, menu.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.checkPermissionCodeUnique(ctx, menu.Code(), id); err != nil {
		return nil, err
	}

	if err := s.menuRepo.Update(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *menuService) DeleteMenu(ctx context.Context, id uint) error {
	if _, err := s.menuRepo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.menuRepo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrMenuHasChildren
	}
	return s.menuRepo.Delete(ctx, id)
}

func (s *menuService) ListMenus(ctx context.Context, filter *repository.MenuFilter) ([]*model.Menu, error) {
	return s.menuRepo.List(ctx, filter)
}

func (s *menuService) GetAdminMenuTree(ctx context.Context, filter *repository.MenuFilter) ([]*MenuNode, error) {
	menus, err := s.menuRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return BuildMenuTree(menus, model.MenuRootID), nil
}

func (s *menuService) GetUserMenuTree(ctx context.Context, userID uint) ([]*MenuNode, error) {
	menus, err := s.menuRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	visible := s.permSvc.GetVisibleMenuIDs(ctx, userID)

	// 启用且未隐藏，目录免授权参与构建，空目录最后统一剪掉
	filtered := make([]*model.Menu, 0, len(menus))
	for _, menu := range menus {
		if !menu.IsActive() || menu.Hidden {
			continue
		}
		if menu.Type != model.MenuTypeDirectory {
			if _, ok := visible[menu.ID]; !ok {
				continue
			}
		}
		filtered = append(filtered, menu)
	}

	tree := BuildMenuTree(filtered, model.MenuRootID)
	return RemoveEmptyDirectories(tree), nil
}
