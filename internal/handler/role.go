package handler

import (
	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// RoleHandler 角色管理处理器
type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler 创建角色管理处理器
func NewRoleHandler(roleSvc service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleSvc}
}

// ListRoles 获取角色列表
// GET /api/roles
func (h *RoleHandler) ListRoles(c *gin.Context) {
	filter := &repository.RoleFilter{
		Keyword: c.Query("keyword"),
		Status:  parseStatusQuery(c),
	}
	page := parsePagination(c)

	roles, total, err := h.roleService.ListRoles(c.Request.Context(), filter, page)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      roles,
		"total":     total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

// ListEnabledRoles 获取全部启用角色（下拉选项用）
// GET /api/roles/options
func (h *RoleHandler) ListEnabledRoles(c *gin.Context) {
	roles, err := h.roleService.ListEnabledRoles(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, roles)
}

// GetRole 获取角色详情（含已绑定的菜单 ID）
// GET /api/roles/:id
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, detail)
}

// RoleRequest 创建/更新角色请求
type RoleRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Code        string `json:"code" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
	Status      *int8  `json:"status"`
	Sort        int    `json:"sort"`
}

// CreateRole 创建角色
// POST /api/roles
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	role := &model.Role{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      1,
		Sort:        req.Sort,
	}
	if req.Status != nil {
		role.Status = *req.Status
	}

	if err := h.roleService.CreateRole(c.Request.Context(), role); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "创建成功", role)
}

// UpdateRole 更新角色
// PUT /api/roles/:id
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	detail, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	role := detail.Role
	role.Name = req.Name
	role.Code = req.Code
	role.Description = req.Description
	role.Sort = req.Sort
	if req.Status != nil {
		role.Status = *req.Status
	}

	if err := h.roleService.UpdateRole(c.Request.Context(), role); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "更新成功", role)
}

// DeleteRole 删除角色
// DELETE /api/roles/:id
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "删除成功", nil)
}

// AssignMenusRequest 分配菜单请求
type AssignMenusRequest struct {
	MenuIDs []uint `json:"menuIds"`
}

// AssignMenus 给角色分配菜单
// PUT /api/roles/:id/menus
func (h *RoleHandler) AssignMenus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignMenusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	if err := h.roleService.AssignMenus(c.Request.Context(), id, req.MenuIDs); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "菜单分配成功", nil)
}
