package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// maxAuditBodySize 超过该大小的请求体不记入参数
const maxAuditBodySize = 64 << 10

// moduleByPrefix 路由前缀到业务模块的映射
var moduleByPrefix = []struct {
	prefix string
	module string
}{
	{"/api/auth", "auth"},
	{"/api/users", "user"},
	{"/api/roles", "role"},
	{"/api/menus", "menu"},
	{"/api/tasks", "task"},
	{"/api/articles", "article"},
	{"/api/notifications", "notification"},
}

var actionByMethod = map[string]string{
	http.MethodPost:   "create",
	http.MethodPut:    "update",
	http.MethodPatch:  "update",
	http.MethodDelete: "delete",
}

// sensitiveParamKeys 写入日志前需要打码的请求字段
var sensitiveParamKeys = []string{"password", "oldPassword", "newPassword", "confirmPassword", "token"}

func resolveModule(path string) string {
	for _, entry := range moduleByPrefix {
		if strings.HasPrefix(path, entry.prefix) {
			return entry.module
		}
	}
	return "other"
}

// sanitizeParams 解析请求体并打码敏感字段，非 JSON 对象返回空串
func sanitizeParams(body []byte) string {
	if len(body) == 0 || len(body) > maxAuditBodySize {
		return ""
	}
	var params map[string]any
	if err := json.Unmarshal(body, &params); err != nil {
		return ""
	}
	for _, key := range sensitiveParamKeys {
		if _, ok := params[key]; ok {
			params[key] = "******"
		}
	}
	sanitized, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	return string(sanitized)
}

// Audit 审计中间件，自动记录写操作到操作日志
// 只拦截 POST/PUT/PATCH/DELETE，跳过日志接口本身
func Audit(logService service.OperationLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if _, ok := actionByMethod[method]; !ok {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/operation-logs") || path == "/api/health" {
			c.Next()
			return
		}

		// 读出请求体后回填，handler 还要再读一次
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBodySize+1))
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		entry := &model.OperationLog{
			Module:     resolveModule(path),
			Action:     actionByMethod[method],
			Method:     method,
			URL:        path,
			IP:         c.ClientIP(),
			Params:     sanitizeParams(body),
			Result:     model.LogResultSuccess,
			DurationMs: duration.Milliseconds(),
		}

		if userID, ok := CurrentUserID(c); ok {
			entry.UserID = &userID
		}
		if username := c.GetString("username"); username != "" {
			entry.Username = username
		}

		if c.Writer.Status() >= http.StatusBadRequest || len(c.Errors) > 0 {
			entry.Result = model.LogResultFail
			if len(c.Errors) > 0 {
				entry.Detail = c.Errors.Last().Error()
			}
		}

		logService.Record(c.Request.Context(), entry)
	}
}
