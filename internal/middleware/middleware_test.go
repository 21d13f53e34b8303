package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/art-design-pro/admin-backend/internal/config"
	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakePermService 固定结果的权限服务，用于隔离测试网关行为
type fakePermService struct {
	permissions map[string]bool
	roles       map[string]bool
	admin       bool
	superAdmin  bool
}

func (f *fakePermService) GetUserPermissions(ctx context.Context, userID uint) []string {
	return nil
}

func (f *fakePermService) GetUserRoleCodes(ctx context.Context, userID uint) []string {
	return nil
}

func (f *fakePermService) GetVisibleMenuIDs(ctx context.Context, userID uint) map[uint]struct{} {
	return nil
}

func (f *fakePermService) HasPermission(ctx context.Context, userID uint, codes []string, mode service.MatchMode) bool {
	return matchFake(f.permissions, codes, mode)
}

func (f *fakePermService) HasRole(ctx context.Context, userID uint, codes []string, mode service.MatchMode) bool {
	return matchFake(f.roles, codes, mode)
}

func (f *fakePermService) IsAdmin(ctx context.Context, userID uint) bool {
	return f.admin || f.superAdmin
}

func (f *fakePermService) IsSuperAdmin(ctx context.Context, userID uint) bool {
	return f.superAdmin
}

func matchFake(held map[string]bool, codes []string, mode service.MatchMode) bool {
	if len(codes) == 0 {
		return false
	}
	for _, code := range codes {
		if held[code] {
			if mode == service.MatchAny {
				return true
			}
		} else if mode == service.MatchAll {
			return false
		}
	}
	return mode == service.MatchAll
}

// recordingLogService 捕获审计条目的日志服务
type recordingLogService struct {
	entries []*model.OperationLog
}

func (r *recordingLogService) Record(ctx context.Context, entry *model.OperationLog) {
	r.entries = append(r.entries, entry)
}

func (r *recordingLogService) List(ctx context.Context, filter *repository.OperationLogFilter, page *repository.Pagination) ([]*model.OperationLog, int64, error) {
	return nil, 0, nil
}

func (r *recordingLogService) Purge(ctx context.Context, retainDays int) (int64, error) {
	return 0, nil
}

func withUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Set("username", "tester")
		c.Next()
	}
}

func TestLogger(t *testing.T) {
	router := gin.New()
	router.Use(Logger())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("期望状态码 200, 实际 %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("期望 X-Request-ID 头存在")
	}
}

func TestLoggerWithRequestID(t *testing.T) {
	router := gin.New()
	router.Use(Logger())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "custom-request-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "custom-request-id" {
		t.Errorf("期望 X-Request-ID 为 custom-request-id, 实际 %s", got)
	}
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Logger())
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) {
		panic("测试 panic")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("期望状态码 500, 实际 %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "http://example.com" {
		t.Error("期望 Access-Control-Allow-Origin 头存在")
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("期望 Access-Control-Allow-Methods 头存在")
	}
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.POST("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("期望预检请求返回 204, 实际 %d", w.Code)
	}
}

func newTestTokenService(t *testing.T) service.TokenService {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return service.NewTokenService(config.JWTConfig{
		Secret:       "test-secret",
		Issuer:       "admin-console",
		AccessExpiry: time.Hour,
	}, client)
}

func TestJWTAuth(t *testing.T) {
	tokenSvc := newTestTokenService(t)
	ctx := context.Background()

	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Username: "zhangsan"}
	token, err := tokenSvc.GenerateAccessToken(ctx, user)
	if err != nil {
		t.Fatal(err)
	}

	router := gin.New()
	router.Use(JWTAuth(tokenSvc))
	router.GET("/me", func(c *gin.Context) {
		userID, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	// 带有效令牌
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("期望状态码 200, 实际 %d", w.Code)
	}

	// 无令牌
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望状态码 401, 实际 %d", w.Code)
	}

	// 令牌格式错误
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望状态码 401, 实际 %d", w.Code)
	}
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	tokenSvc := newTestTokenService(t)
	ctx := context.Background()

	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Username: "zhangsan"}
	token, err := tokenSvc.GenerateAccessToken(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if err := tokenSvc.RevokeToken(ctx, token); err != nil {
		t.Fatal(err)
	}

	router := gin.New()
	router.Use(JWTAuth(tokenSvc))
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望注销后的令牌返回 401, 实际 %d", w.Code)
	}
}

func TestRequirePermissions(t *testing.T) {
	perm := &fakePermService{permissions: map[string]bool{"user:view": true}}

	router := gin.New()
	router.GET("/allowed", withUser(1), RequirePermissions(perm, service.MatchAll, "user:view"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/denied", withUser(1), RequirePermissions(perm, service.MatchAll, "user:delete"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/anonymous", RequirePermissions(perm, service.MatchAll, "user:view"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	tests := []struct {
		path string
		want int
	}{
		{"/allowed", http.StatusOK},
		{"/denied", http.StatusForbidden},
		{"/anonymous", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s: 期望状态码 %d, 实际 %d", tt.path, tt.want, w.Code)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := &fakePermService{admin: true}
	normal := &fakePermService{}

	router := gin.New()
	router.GET("/admin-ok", withUser(1), RequireAdmin(admin), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/admin-denied", withUser(1), RequireAdmin(normal), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/admin-ok", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("期望状态码 200, 实际 %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin-denied", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("期望状态码 403, 实际 %d", w.Code)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	// 普通管理员过不了超级管理员门槛
	admin := &fakePermService{admin: true}

	router := gin.New()
	router.GET("/super", withUser(1), RequireSuperAdmin(admin), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/super", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("期望状态码 403, 实际 %d", w.Code)
	}
}

func TestAudit(t *testing.T) {
	logSvc := &recordingLogService{}

	router := gin.New()
	router.Use(withUser(3), Audit(logSvc))
	router.POST("/api/users", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		if !strings.Contains(string(body), "secret") {
			t.Error("期望 handler 还能读到原始请求体")
		}
		c.String(http.StatusOK, "ok")
	})

	payload := `{"username":"lisi","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if len(logSvc.entries) != 1 {
		t.Fatalf("期望记录 1 条审计日志, 实际 %d", len(logSvc.entries))
	}
	entry := logSvc.entries[0]
	if entry.Module != "user" {
		t.Errorf("期望模块 user, 实际 %s", entry.Module)
	}
	if entry.Action != "create" {
		t.Errorf("期望动作 create, 实际 %s", entry.Action)
	}
	if entry.Result != model.LogResultSuccess {
		t.Errorf("期望结果 success, 实际 %s", entry.Result)
	}
	// 敏感字段被打码
	if strings.Contains(entry.Params, "secret") {
		t.Error("期望密码字段被打码")
	}
	if !strings.Contains(entry.Params, "******") {
		t.Error("期望参数中含打码占位符")
	}
	if entry.UserID == nil || *entry.UserID != 3 {
		t.Error("期望记录操作用户 ID")
	}
}

func TestAudit_SkipsReadsAndLogRoutes(t *testing.T) {
	logSvc := &recordingLogService{}

	router := gin.New()
	router.Use(Audit(logSvc))
	router.GET("/api/users", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.DELETE("/api/operation-logs", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	req = httptest.NewRequest(http.MethodDelete, "/api/operation-logs", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if len(logSvc.entries) != 0 {
		t.Errorf("期望读操作和日志接口不记审计, 实际记录 %d 条", len(logSvc.entries))
	}
}

func TestAudit_FailureResult(t *testing.T) {
	logSvc := &recordingLogService{}

	router := gin.New()
	router.Use(Audit(logSvc))
	router.POST("/api/tasks", func(c *gin.Context) {
		c.String(http.StatusBadRequest, "bad")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if len(logSvc.entries) != 1 {
		t.Fatalf("期望记录 1 条审计日志, 实际 %d", len(logSvc.entries))
	}
	if logSvc.entries[0].Result != model.LogResultFail {
		t.Errorf("期望结果 fail, 实际 %s", logSvc.entries[0].Result)
	}
}
