// Package handler HTTP 处理器
package handler

import (
	"errors"
	"strconv"

	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// parsePagination 解析分页查询参数
func parsePagination(c *gin.Context) *repository.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return &repository.Pagination{Page: page, PageSize: pageSize}
}

// parseStatusQuery 解析可选的 status 查询参数
func parseStatusQuery(c *gin.Context) *int8 {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 8)
	if err != nil {
		return nil
	}
	status := int8(value)
	return &status
}

// handleServiceError 按错误类型返回对应的业务码
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		response.Error(c, response.CodeUserNotFound)
	case errors.Is(err, repository.ErrRoleNotFound):
		response.Error(c, response.CodeRoleNotFound)
	case errors.Is(err, repository.ErrMenuNotFound):
		response.Error(c, response.CodeMenuNotFound)
	case errors.Is(err, repository.ErrArticleNotFound):
		response.Error(c, response.CodeArticleNotFound)
	case errors.Is(err, repository.ErrTaskNotFound):
		response.Error(c, response.CodeTaskNotFound)
	case errors.Is(err, repository.ErrNotificationNotFound):
		response.Error(c, response.CodeNotificationNotFound)
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, repository.ErrUserUsernameExists):
		response.Error(c, response.CodeUserExists)
	case errors.Is(err, service.ErrRoleCodeExists):
		response.Error(c, response.CodeRoleCodeExists)
	case errors.Is(err, service.ErrPermissionCodeExists):
		response.Error(c, response.CodePermissionCodeExists)
	case errors.Is(err, service.ErrMenuHasChildren), errors.Is(err, service.ErrMenuTypeChangeHasChild):
		response.ErrorWithMsg(c, response.CodeHasChildren, err.Error())
	case errors.Is(err, service.ErrSystemRole):
		response.ErrorWithMsg(c, response.CodeSystemProtected, err.Error())
	case errors.Is(err, service.ErrArticleAccessDenied),
		errors.Is(err, service.ErrTaskAccessDenied),
		errors.Is(err, service.ErrDeleteSelf),
		errors.Is(err, service.ErrDeleteSuperAdmin),
		errors.Is(err, service.ErrDisableSelf):
		response.ErrorWithMsg(c, response.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, response.CodeInvalidCredentials)
	case errors.Is(err, service.ErrUserDisabled):
		response.Error(c, response.CodeAccountDisabled)
	case errors.Is(err, service.ErrAccountLocked):
		response.Error(c, response.CodeAccountLocked)
	case isValidationError(err):
		response.ErrorWithMsg(c, response.CodeInvalidRequest, err.Error())
	default:
		response.Error(c, response.CodeServerError)
	}
}

// isValidationError 判断是否为入参校验类错误
func isValidationError(err error) bool {
	validationErrors := []error{
		service.ErrMenuTypeInvalid,
		service.ErrMenuTitleRequired,
		service.ErrMenuNameRequired,
		service.ErrMenuNameFormat,
		service.ErrMenuPathFormat,
		service.ErrDirectoryPathRequired,
		service.ErrMenuPathRequired,
		service.ErrMenuComponentRequired,
		service.ErrButtonCodeRequired,
		service.ErrLinkURLRequired,
		service.ErrEmbedFieldsRequired,
		service.ErrPermissionCodeFormat,
		service.ErrButtonNeedsParent,
		service.ErrButtonAsParent,
		service.ErrMenuParentNotFound,
		service.ErrMenuParentIsSelf,
		service.ErrMenuCycle,
		service.ErrRoleCodeFormat,
		service.ErrRoleNameRequired,
		service.ErrRoleIDInvalid,
		service.ErrUsernameInvalid,
		service.ErrPasswordTooShort,
		service.ErrSamePassword,
		service.ErrOldPasswordWrong,
		service.ErrArticleTitleRequired,
		service.ErrArticleStatusInvalid,
		service.ErrTaskTitleRequired,
		service.ErrTaskStatusInvalid,
		service.ErrTaskPriorityInvalid,
		service.ErrAssigneeNotFound,
		service.ErrNotificationTitleRequired,
		service.ErrNotificationNoRecipient,
		service.ErrNotificationTypeInvalid,
		repository.ErrMenuIDInvalid,
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
