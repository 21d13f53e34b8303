package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/art-design-pro/admin-backend/internal/config"
	"github.com/art-design-pro/admin-backend/internal/database"
	"github.com/art-design-pro/admin-backend/internal/model"
	"gorm.io/gorm"
)

// 一个只清理本项目业务表的重置工具：
// - 默认按依赖顺序 Drop 表，然后重建并写入种子数据。
// - 仅影响本项目的业务表，不会删除数据库、用户或其它表。
// 用法：
//   go run ./cmd/resetdb -force
// 可选参数：
//   -recreate  重建表（默认 true）
//   -seed      重建后写入默认角色、菜单和测试用户（默认 true）
//   -force     必须为 true 才会执行（安全开关）
func main() {
	recreate := flag.Bool("recreate", true, "是否在清空后重建表")
	seed := flag.Bool("seed", true, "重建后是否写入种子数据")
	force := flag.Bool("force", false, "确认执行清空操作")
	flag.Parse()

	if !*force {
		log.Fatal("为避免误操作，请加上 -force 参数：go run ./cmd/resetdb -force")
	}

	// 加载配置并连接数据库
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer database.Close()

	db := database.GetDB()
	m := db.Migrator()

	// 注意依赖顺序：先删关联表再删主表
	dropOrder := []any{
		&model.RoleMenu{},
		&model.UserRole{},
		&model.Notification{},
		&model.OperationLog{},
		&model.Task{},
		&model.Article{},
		&model.Menu{},
		&model.Role{},
		&model.User{},
	}

	fmt.Println("开始清空业务表...")
	for _, t := range dropOrder {
		if m.HasTable(t) {
			if err := m.DropTable(t); err != nil {
				log.Fatalf("删除表失败: %v", err)
			}
			fmt.Printf("已删除表: %T\n", t)
		}
	}

	if *recreate {
		createOrder := []any{
			&model.User{},
			&model.Role{},
			&model.UserRole{},
			&model.Menu{},
			&model.RoleMenu{},
			&model.Article{},
			&model.Task{},
			&model.Notification{},
			&model.OperationLog{},
		}
		for _, t := range createOrder {
			if err := m.AutoMigrate(t); err != nil {
				log.Fatalf("创建表失败: %v", err)
			}
			fmt.Printf("已创建/更新表: %T\n", t)
		}
	}

	if *recreate && *seed {
		if err := seedData(db); err != nil {
			log.Fatalf("写入种子数据失败: %v", err)
		}
		fmt.Println("种子数据写入完成")
		fmt.Println("默认账号: superadmin / admin / user，密码均为 123456")
	}

	fmt.Println("完成。")
}

func strPtr(s string) *string {
	return &s
}

// seedData 写入默认角色、菜单、角色菜单绑定和测试用户
func seedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// 1. 内置角色
		roles := model.DefaultSystemRoles()
		if err := tx.Create(&roles).Error; err != nil {
			return err
		}
		roleByCode := make(map[string]model.Role, len(roles))
		for _, role := range roles {
			roleByCode[role.Code] = role
		}

		// 2. 顶级菜单
		dashboard := model.Menu{
			Type: model.MenuTypeMenu, Name: "Dashboard", Title: "仪表盘",
			Path: "/dashboard", Component: "dashboard/index", Icon: "Odometer",
			PermissionCode: strPtr("dashboard:view"), Status: model.StatusEnabled,
			KeepAlive: true, Sort: 1,
		}
		business := model.Menu{
			Type: model.MenuTypeDirectory, Name: "Business", Title: "业务管理",
			Path: "/business", Component: "Layout", Redirect: "/business/article",
			Icon: "Briefcase", Status: model.StatusEnabled, AlwaysShow: true, Sort: 2,
		}
		system := model.Menu{
			Type: model.MenuTypeDirectory, Name: "System", Title: "系统管理",
			Path: "/system", Component: "Layout", Redirect: "/system/user",
			Icon: "Setting", Status: model.StatusEnabled, AlwaysShow: true, Sort: 3,
		}
		for _, menu := range []*model.Menu{&dashboard, &business, &system} {
			if err := tx.Create(menu).Error; err != nil {
				return err
			}
		}

		// 3. 子菜单
		article := model.Menu{
			ParentID: business.ID, Type: model.MenuTypeMenu, Name: "Article", Title: "文章管理",
			Path: "/business/article", Component: "business/article-manage/index", Icon: "Document",
			PermissionCode: strPtr("article:view"), Status: model.StatusEnabled, KeepAlive: true, Sort: 1,
		}
		task := model.Menu{
			ParentID: business.ID, Type: model.MenuTypeMenu, Name: "Task", Title: "任务管理",
			Path: "/business/task", Component: "business/task-manage/index", Icon: "List",
			PermissionCode: strPtr("task:view"), Status: model.StatusEnabled, KeepAlive: true, Sort: 2,
		}
		user := model.Menu{
			ParentID: system.ID, Type: model.MenuTypeMenu, Name: "User", Title: "用户管理",
			Path: "/system/user", Component: "system/user-manage/index", Icon: "User",
			PermissionCode: strPtr("user:view"), Status: model.StatusEnabled, KeepAlive: true, Sort: 1,
		}
		role := model.Menu{
			ParentID: system.ID, Type: model.MenuTypeMenu, Name: "Role", Title: "角色管理",
			Path: "/system/role", Component: "system/role-manage/index", Icon: "UserFilled",
			PermissionCode: strPtr("role:view"), Status: model.StatusEnabled, KeepAlive: true, Sort: 2,
		}
		menuManage := model.Menu{
			ParentID: system.ID, Type: model.MenuTypeMenu, Name: "Menu", Title: "菜单管理",
			Path: "/system/menu", Component: "system/menu-manage/index", Icon: "Menu",
			PermissionCode: strPtr("menu:view"), Status: model.StatusEnabled, KeepAlive: true, Sort: 3,
		}
		for _, menu := range []*model.Menu{&article, &task, &user, &role, &menuManage} {
			if err := tx.Create(menu).Error; err != nil {
				return err
			}
		}

		// 4. 操作按钮（按钮即权限载体）
		type buttonSeed struct {
			parent *model.Menu
			title  string
			code   string
		}
		buttonSeeds := []buttonSeed{
			{&article, "新增文章", "article:create"},
			{&article, "编辑文章", "article:edit"},
			{&article, "删除文章", "article:delete"},
			{&task, "新增任务", "task:create"},
			{&task, "编辑任务", "task:edit"},
			{&task, "删除任务", "task:delete"},
			{&task, "分配任务", "task:assign"},
			{&user, "新增用户", "user:create"},
			{&user, "编辑用户", "user:edit"},
			{&user, "删除用户", "user:delete"},
			{&user, "分配角色", "user:assign_role"},
		}
		buttons := make(map[string]model.Menu, len(buttonSeeds))
		for i, b := range buttonSeeds {
			button := model.Menu{
				ParentID: b.parent.ID, Type: model.MenuTypeButton, Title: b.title,
				PermissionCode: strPtr(b.code), Status: model.StatusEnabled,
				Hidden: true, Sort: i + 1,
			}
			if err := tx.Create(&button).Error; err != nil {
				return err
			}
			buttons[b.code] = button
		}

		// 5. 角色菜单绑定
		allMenus := []model.Menu{dashboard, business, system, article, task, user, role, menuManage}
		superAdminMenuIDs := make([]uint, 0, len(allMenus)+len(buttons))
		for _, menu := range allMenus {
			superAdminMenuIDs = append(superAdminMenuIDs, menu.ID)
		}
		for _, button := range buttons {
			superAdminMenuIDs = append(superAdminMenuIDs, button.ID)
		}

		// 管理员：除菜单管理外的全部
		adminMenuIDs := make([]uint, 0, len(superAdminMenuIDs))
		for _, id := range superAdminMenuIDs {
			if id != menuManage.ID {
				adminMenuIDs = append(adminMenuIDs, id)
			}
		}

		// 普通用户：仪表盘和业务模块，可查看、创建和编辑自己的数据
		userMenuIDs := []uint{
			dashboard.ID, business.ID, article.ID, task.ID,
			buttons["article:create"].ID, buttons["article:edit"].ID, buttons["article:delete"].ID,
			buttons["task:create"].ID, buttons["task:edit"].ID,
		}

		bindRole := func(roleCode string, menuIDs []uint) error {
			bindings := make([]model.RoleMenu, 0, len(menuIDs))
			for _, menuID := range menuIDs {
				bindings = append(bindings, model.RoleMenu{RoleID: roleByCode[roleCode].ID, MenuID: menuID})
			}
			return tx.Create(&bindings).Error
		}
		if err := bindRole(model.RoleSuperAdmin, superAdminMenuIDs); err != nil {
			return err
		}
		if err := bindRole(model.RoleAdmin, adminMenuIDs); err != nil {
			return err
		}
		if err := bindRole(model.RoleUser, userMenuIDs); err != nil {
			return err
		}

		// 6. 测试用户
		type userSeed struct {
			username string
			nickname string
			roleCode string
		}
		userSeeds := []userSeed{
			{"superadmin", "超级管理员", model.RoleSuperAdmin},
			{"admin", "管理员", model.RoleAdmin},
			{"user", "普通用户", model.RoleUser},
		}
		for _, u := range userSeeds {
			account := model.User{
				Username: u.username,
				Nickname: u.nickname,
				Status:   model.StatusEnabled,
			}
			if err := account.SetPassword("123456"); err != nil {
				return err
			}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
			binding := model.UserRole{UserID: account.ID, RoleID: roleByCode[u.roleCode].ID}
			if err := tx.Create(&binding).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
