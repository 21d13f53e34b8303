package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/art-design-pro/admin-backend/internal/config"
	"github.com/art-design-pro/admin-backend/internal/database"
	"github.com/art-design-pro/admin-backend/internal/handler"
	"github.com/art-design-pro/admin-backend/internal/middleware"
	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/redis"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化数据库连接
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer database.Close()
	log.Println("数据库连接成功")

	// 初始化 Redis 连接
	if err := redis.Init(&cfg.Redis); err != nil {
		log.Fatalf("初始化 Redis 失败: %v", err)
	}
	defer redis.Close()
	log.Println("Redis 连接成功")

	// 自动迁移数据库表
	if err := database.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.UserRole{},
		&model.Menu{},
		&model.RoleMenu{},
		&model.Article{},
		&model.Task{},
		&model.Notification{},
		&model.OperationLog{},
	); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	log.Println("数据库迁移完成")

	appLogger := middleware.GetLogger()

	// 初始化 Repository
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRoleRepo := repository.NewUserRoleRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	logRepo := repository.NewOperationLogRepository(db)

	// 初始化 Service
	permService := service.NewPermissionService(userRepo, roleRepo, userRoleRepo, menuRepo, appLogger)
	tokenService := service.NewTokenService(cfg.JWT, redis.GetClient())
	authService := service.NewAuthService(userRepo, roleRepo, userRoleRepo, permService, tokenService, redis.GetClient(), appLogger)
	userService := service.NewUserService(userRepo, roleRepo, userRoleRepo)
	roleService := service.NewRoleService(roleRepo)
	menuService := service.NewMenuService(menuRepo, permService)
	articleService := service.NewArticleService(articleRepo, permService)
	taskService := service.NewTaskService(taskRepo, userRepo, notificationRepo, permService, appLogger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	logService := service.NewOperationLogService(logRepo, appLogger)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	menuHandler := handler.NewMenuHandler(menuService)
	articleHandler := handler.NewArticleHandler(articleService)
	taskHandler := handler.NewTaskHandler(taskService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	logHandler := handler.NewOperationLogHandler(logService)

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()

	// 全局中间件
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())

	// 健康检查
	router.GET("/api/health", func(c *gin.Context) {
		dbStatus := "ok"
		if err := database.Ping(); err != nil {
			dbStatus = "error"
		}

		redisStatus := "ok"
		redisClient := redis.GetClient()
		if redisClient == nil {
			redisStatus = "error"
		} else if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error"
		}

		response.Success(c, gin.H{
			"status":   "ok",
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"redis":    redisStatus,
		})
	})

	api := router.Group("/api")
	api.Use(middleware.Audit(logService))
	{
		// 认证路由（公开）
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// 需要登录的认证路由
		authed := api.Group("/auth")
		authed.Use(middleware.JWTAuth(tokenService))
		{
			authed.POST("/logout", authHandler.Logout)
			authed.GET("/userinfo", authHandler.GetUserInfo)
			authed.PUT("/password", authHandler.ChangePassword)
		}

		// 用户管理（按权限编码放行）
		users := api.Group("/users")
		users.Use(middleware.JWTAuth(tokenService))
		{
			users.GET("", middleware.RequirePermissions(permService, service.MatchAll, "user:view"), userHandler.ListUsers)
			users.GET("/:id", middleware.RequirePermissions(permService, service.MatchAll, "user:view"), userHandler.GetUser)
			users.POST("", middleware.RequirePermissions(permService, service.MatchAll, "user:create"), userHandler.CreateUser)
			users.PUT("/:id", middleware.RequirePermissions(permService, service.MatchAll, "user:edit"), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequirePermissions(permService, service.MatchAll, "user:delete"), userHandler.DeleteUser)
			users.PUT("/:id/roles", middleware.RequirePermissions(permService, service.MatchAll, "user:assign_role"), userHandler.AssignRoles)
			users.PUT("/:id/password", middleware.RequirePermissions(permService, service.MatchAll, "user:edit"), userHandler.ResetPassword)
		}

		// 角色管理（管理角色）
		roles := api.Group("/roles")
		roles.Use(middleware.JWTAuth(tokenService))
		{
			roles.GET("/options", roleHandler.ListEnabledRoles)
			roles.GET("", middleware.RequireAdmin(permService), roleHandler.ListRoles)
			roles.GET("/:id", middleware.RequireAdmin(permService), roleHandler.GetRole)
			roles.POST("", middleware.RequireAdmin(permService), roleHandler.CreateRole)
			roles.PUT("/:id", middleware.RequireAdmin(permService), roleHandler.UpdateRole)
			roles.DELETE("/:id", middleware.RequireAdmin(permService), roleHandler.DeleteRole)
			roles.PUT("/:id/menus", middleware.RequireAdmin(permService), roleHandler.AssignMenus)
		}

		// 菜单：用户树对所有登录用户开放，管理操作需要管理角色
		menus := api.Group("/menus")
		menus.Use(middleware.JWTAuth(tokenService))
		{
			menus.GET("", menuHandler.GetUserMenuTree)
			menus.GET("/tree", middleware.RequireAdmin(permService), menuHandler.GetMenuTree)
			menus.GET("/list", middleware.RequireAdmin(permService), menuHandler.ListMenus)
			menus.GET("/:id", middleware.RequireAdmin(permService), menuHandler.GetMenu)
			menus.POST("", middleware.RequireAdmin(permService), menuHandler.CreateMenu)
			menus.PUT("/:id", middleware.RequireAdmin(permService), menuHandler.UpdateMenu)
			menus.DELETE("/:id", middleware.RequireAdmin(permService), menuHandler.DeleteMenu)
		}

		// 文章
		articles := api.Group("/articles")
		articles.Use(middleware.JWTAuth(tokenService))
		{
			articles.GET("", middleware.RequirePermissions(permService, service.MatchAll, "article:view"), articleHandler.ListArticles)
			articles.GET("/stats", middleware.RequirePermissions(permService, service.MatchAll, "article:view"), articleHandler.ArticleStats)
			articles.GET("/:id", middleware.RequirePermissions(permService, service.MatchAll, "article:view"), articleHandler.GetArticle)
			articles.POST("", middleware.RequirePermissions(permService, service.MatchAll, "article:create"), articleHandler.CreateArticle)
			articles.PUT("/:id", middleware.RequirePermissions(permService, service.MatchAll, "article:edit"), articleHandler.UpdateArticle)
			articles.DELETE("/:id", middleware.RequirePermissions(permService, service.MatchAll, "article:delete"), articleHandler.DeleteArticle)
		}

		// 任务
		tasks := api.Group("/tasks")
		tasks.Use(middleware.JWTAuth(tokenService))
		{
			tasks.GET("", middleware.RequirePermissions(permService, service.MatchAll, "task:view"), taskHandler.ListTasks)
			tasks.GET("/stats", middleware.RequirePermissions(permService, service.MatchAll, "task:view"), taskHandler.TaskStats)
			tasks.GET("/:id", middleware.RequirePermissions(permService, service.MatchAll, "task:view"), taskHandler.GetTask)
			tasks.POST("", middleware.RequirePermissions(permService, service.MatchAll, "task:create"), taskHandler.CreateTask)
			tasks.PUT("/:id", middleware.RequirePermissions(permService, service.MatchAll, "task:edit"), taskHandler.UpdateTask)
			tasks.PUT("/:id/assign", middleware.RequirePermissions(permService, service.MatchAll, "task:assign"), taskHandler.AssignTask)
			tasks.DELETE("/:id", middleware.RequirePermissions(permService, service.MatchAll, "task:delete"), taskHandler.DeleteTask)
		}

		// 通知
		notifications := api.Group("/notifications")
		notifications.Use(middleware.JWTAuth(tokenService))
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.DELETE("", notificationHandler.DeleteNotifications)
			notifications.POST("/send", middleware.RequireAdmin(permService), notificationHandler.SendNotification)
		}

		// 操作日志（查询需管理角色，清理仅超级管理员）
		logs := api.Group("/operation-logs")
		logs.Use(middleware.JWTAuth(tokenService))
		{
			logs.GET("", middleware.RequireAdmin(permService), logHandler.ListLogs)
			logs.DELETE("", middleware.RequireSuperAdmin(permService), logHandler.PurgeLogs)
		}
	}

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		log.Printf("服务启动，监听地址: %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，等待 5 秒
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务关闭失败: %v", err)
	}

	log.Println("服务已关闭")
}
