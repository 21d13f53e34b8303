// Package middleware 中间件
package middleware

import (
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// RequirePermissions 权限检查中间件
// mode 为 MatchAll 时要求全部权限，MatchAny 时任一即可；要求为空一律拒绝
func RequirePermissions(permService service.PermissionService, mode service.MatchMode, codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			response.Error(c, response.CodeInvalidToken)
			c.Abort()
			return
		}

		if !permService.HasPermission(c.Request.Context(), userID, codes, mode) {
			response.ErrorWithMsg(c, response.CodeForbidden, "没有权限执行此操作")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRoles 角色检查中间件
func RequireRoles(permService service.PermissionService, mode service.MatchMode, codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			response.Error(c, response.CodeInvalidToken)
			c.Abort()
			return
		}

		if !permService.HasRole(c.Request.Context(), userID, codes, mode) {
			response.ErrorWithMsg(c, response.CodeForbidden, "没有权限执行此操作")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin 管理角色检查中间件（super_admin 或 admin）
func RequireAdmin(permService service.PermissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			response.Error(c, response.CodeInvalidToken)
			c.Abort()
			return
		}

		if !permService.IsAdmin(c.Request.Context(), userID) {
			response.ErrorWithMsg(c, response.CodeForbidden, "需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSuperAdmin 超级管理员检查中间件
func RequireSuperAdmin(permService service.PermissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			response.Error(c, response.CodeInvalidToken)
			c.Abort()
			return
		}

		if !permService.IsSuperAdmin(c.Request.Context(), userID) {
			response.ErrorWithMsg(c, response.CodeForbidden, "需要超级管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}
