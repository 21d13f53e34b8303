package handler

import (
	"github.com/art-design-pro/admin-backend/internal/middleware"
	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// MenuHandler 菜单管理处理器
type MenuHandler struct {
	menuService service.MenuService
}

// NewMenuHandler 创建菜单管理处理器
func NewMenuHandler(menuSvc service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuSvc}
}

// GetUserMenuTree 获取当前用户的菜单树
// GET /api/menus
func (h *MenuHandler) GetUserMenuTree(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	tree, err := h.menuService.GetUserMenuTree(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if tree == nil {
		tree = []*service.MenuNode{}
	}

	response.Success(c, tree)
}

// ListMenus 获取菜单列表（扁平）
// GET /api/menus/list
func (h *MenuHandler) ListMenus(c *gin.Context) {
	filter := &repository.MenuFilter{
		Status: parseStatusQuery(c),
	}

	menus, err := h.menuService.ListMenus(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, menus)
}

// GetMenuTree 获取完整菜单树（管理视图）
// GET /api/menus/tree
func (h *MenuHandler) GetMenuTree(c *gin.Context) {
	filter := &repository.MenuFilter{
		Status: parseStatusQuery(c),
	}

	tree, err := h.menuService.GetAdminMenuTree(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if tree == nil {
		tree = []*service.MenuNode{}
	}

	response.Success(c, tree)
}

// GetMenu 获取菜单详情
// GET /api/menus/:id
func (h *MenuHandler) GetMenu(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	menu, err := h.menuService.GetMenu(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, menu)
}

// CreateMenuRequest 创建菜单请求
type CreateMenuRequest struct {
	ParentID       uint          `json:"parentId"`
	Type           string        `json:"type" binding:"required"`
	Name           string        `json:"name" binding:"max=50"`
	Title          string        `json:"title" binding:"required,max=50"`
	Path           string        `json:"path" binding:"max=200"`
	Component      string        `json:"component" binding:"max=200"`
	Redirect       string        `json:"redirect" binding:"max=200"`
	ActivePath     string        `json:"activePath" binding:"max=200"`
	Icon           string        `json:"icon" binding:"max=100"`
	ActiveIcon     string        `json:"activeIcon" binding:"max=100"`
	BadgeType      string        `json:"badgeType" binding:"max=20"`
	BadgeContent   string        `json:"badgeContent" binding:"max=50"`
	BadgeStyle     string        `json:"badgeStyle" binding:"max=20"`
	PermissionCode string        `json:"permissionCode" binding:"max=100"`
	Status         *int8         `json:"status"`
	Hidden         bool          `json:"hidden"`
	HideChildren   bool          `json:"hideChildren"`
	HideBreadcrumb bool          `json:"hideBreadcrumb"`
	HideTab        bool          `json:"hideTab"`
	KeepAlive      bool          `json:"keepAlive"`
	FixedTab       bool          `json:"fixedTab"`
	AlwaysShow     bool          `json:"alwaysShow"`
	IsExternal     bool          `json:"isExternal"`
	ExternalURL    string        `json:"externalUrl" binding:"max=500"`
	Sort           int           `json:"sort"`
	Description    string        `json:"description" binding:"max=500"`
	Meta           model.JSONMap `json:"meta"`
}

// CreateMenu 创建菜单
// POST /api/menus
func (h *MenuHandler) CreateMenu(c *gin.Context) {
	var req CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	menu := &model.Menu{
		ParentID:       req.ParentID,
		Type:           req.Type,
		Name:           req.Name,
		Title:          req.Title,
		Path:           req.Path,
		Component:      req.Component,
		Redirect:       req.Redirect,
		ActivePath:     req.ActivePath,
		Icon:           req.Icon,
		ActiveIcon:     req.ActiveIcon,
		BadgeType:      req.BadgeType,
		BadgeContent:   req.BadgeContent,
		BadgeStyle:     req.BadgeStyle,
		Status:         1,
		Hidden:         req.Hidden,
		HideChildren:   req.HideChildren,
		HideBreadcrumb: req.HideBreadcrumb,
		HideTab:        req.HideTab,
		KeepAlive:      req.KeepAlive,
		FixedTab:       req.FixedTab,
		AlwaysShow:     req.AlwaysShow,
		IsExternal:     req.IsExternal,
		ExternalURL:    req.ExternalURL,
		Sort:           req.Sort,
		Description:    req.Description,
		Meta:           req.Meta,
	}
	if req.Status != nil {
		menu.Status = *req.Status
	}
	if req.PermissionCode != "" {
		menu.PermissionCode = &req.PermissionCode
	}

	if err := h.menuService.CreateMenu(c.Request.Context(), menu); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "创建成功", menu)
}

// UpdateMenuRequest 更新菜单请求，未提交的字段不修改
type UpdateMenuRequest struct {
	ParentID       *uint         `json:"parentId"`
	Type           *string       `json:"type"`
	Name           *string       `json:"name"`
	Title          *string       `json:"title"`
	Path           *string       `json:"path"`
	Component      *string       `json:"component"`
	Redirect       *string       `json:"redirect"`
	ActivePath     *string       `json:"activePath"`
	Icon           *string       `json:"icon"`
	ActiveIcon     *string       `json:"activeIcon"`
	BadgeType      *string       `json:"badgeType"`
	BadgeContent   *string       `json:"badgeContent"`
	BadgeStyle     *string       `json:"badgeStyle"`
	PermissionCode *string       `json:"permissionCode"`
	Status         *int8         `json:"status"`
	Hidden         *bool         `json:"hidden"`
	HideChildren   *bool         `json:"hideChildren"`
	HideBreadcrumb *bool         `json:"hideBreadcrumb"`
	HideTab        *bool         `json:"hideTab"`
	KeepAlive      *bool         `json:"keepAlive"`
	FixedTab       *bool         `json:"fixedTab"`
	AlwaysShow     *bool         `json:"alwaysShow"`
	IsExternal     *bool         `json:"isExternal"`
	ExternalURL    *string       `json:"externalUrl"`
	Sort           *int          `json:"sort"`
	Description    *string       `json:"description"`
	Meta           model.JSONMap `json:"meta"`
}

// UpdateMenu 更新菜单
// PUT /api/menus/:id
func (h *MenuHandler) UpdateMenu(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	input := &service.MenuUpdateInput{
		ParentID:       req.ParentID,
		Type:           req.Type,
		Name:           req.Name,
		Title:          req.Title,
		Path:           req.Path,
		Component:      req.Component,
		Redirect:       req.Redirect,
		ActivePath:     req.ActivePath,
		Icon:           req.Icon,
		ActiveIcon:     req.ActiveIcon,
		BadgeType:      req.BadgeType,
		BadgeContent:   req.BadgeContent,
		BadgeStyle:     req.BadgeStyle,
		PermissionCode: req.PermissionCode,
		Status:         req.Status,
		Hidden:         req.Hidden,
		HideChildren:   req.HideChildren,
		HideBreadcrumb: req.HideBreadcrumb,
		HideTab:        req.HideTab,
		KeepAlive:      req.KeepAlive,
		FixedTab:       req.FixedTab,
		AlwaysShow:     req.AlwaysShow,
		IsExternal:     req.IsExternal,
		ExternalURL:    req.ExternalURL,
		Sort:           req.Sort,
		Description:    req.Description,
		Meta:           req.Meta,
	}

	menu, err := h.menuService.UpdateMenu(c.Request.Context(), id, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "更新成功", menu)
}

// DeleteMenu 删除菜单
// DELETE /api/menus/:id
func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteMenu(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "删除成功", nil)
}
