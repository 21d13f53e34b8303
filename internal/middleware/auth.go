package middleware

import (
	"errors"
	"strings"

	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// UserIDKey 上下文中当前用户 ID 的键
const UserIDKey = "user_id"

// JWTAuth JWT 认证中间件
func JWTAuth(tokenService service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			response.ErrorWithMsg(c, response.CodeInvalidToken, "未提供认证令牌")
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenRevoked):
				response.ErrorWithMsg(c, response.CodeInvalidToken, "令牌已失效，请重新登录")
			case errors.Is(err, service.ErrTokenInvalid):
				response.Error(c, response.CodeInvalidToken)
			default:
				response.ErrorWithMsg(c, response.CodeInvalidToken, "认证失败")
			}
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(UserIDKey, claims.UserID)
		c.Set("username", claims.Username)
		c.Set("token", tokenString)
		c.Set("claims", claims)

		c.Next()
	}
}

// OptionalJWTAuth 可选的 JWT 认证中间件（不强制要求登录）
func OptionalJWTAuth(tokenService service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			c.Next()
			return
		}

		if claims, err := tokenService.ValidateToken(c.Request.Context(), tokenString); err == nil {
			c.Set(UserIDKey, claims.UserID)
			c.Set("username", claims.Username)
			c.Set("token", tokenString)
			c.Set("claims", claims)
		}

		c.Next()
	}
}

// extractBearerToken 从 Authorization 头取出 Bearer 令牌
func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// CurrentUserID 从上下文取出当前用户 ID，未认证时返回 false
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
