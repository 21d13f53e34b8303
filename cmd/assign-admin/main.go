package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/art-design-pro/admin-backend/internal/config"
	"github.com/art-design-pro/admin-backend/internal/database"
	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
)

// 给指定用户绑定超级管理员角色的运维工具。
// 用法：
//   go run ./cmd/assign-admin <username>
func main() {
	if len(os.Args) < 2 {
		fmt.Println("用法: go run ./cmd/assign-admin <username>")
		os.Exit(1)
	}
	username := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer database.Close()

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRoleRepo := repository.NewUserRoleRepository(db)

	ctx := context.Background()

	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		log.Fatalf("查找用户 %s 失败: %v", username, err)
	}

	role, err := roleRepo.GetByCode(ctx, model.RoleSuperAdmin)
	if errors.Is(err, repository.ErrRoleNotFound) {
		// 角色表为空时补建默认角色
		fmt.Println("未找到内置角色，正在创建...")
		roles := model.DefaultSystemRoles()
		if err := db.WithContext(ctx).Create(&roles).Error; err != nil {
			log.Fatalf("创建默认角色失败: %v", err)
		}
		role, err = roleRepo.GetByCode(ctx, model.RoleSuperAdmin)
		if err != nil {
			log.Fatalf("查找超级管理员角色失败: %v", err)
		}
	} else if err != nil {
		log.Fatalf("查找超级管理员角色失败: %v", err)
	}

	if err := userRoleRepo.Assign(ctx, user.ID, role.ID); err != nil {
		log.Fatalf("分配角色失败: %v", err)
	}

	fmt.Printf("已为用户 %s (ID=%d) 绑定超级管理员角色\n", user.Username, user.ID)
}
