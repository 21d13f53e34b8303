package model

// Role 角色模型
type Role struct {
	BaseModel
	Name        string `gorm:"type:varchar(50);not null" json:"name"`        // 角色名称
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // 角色编码，如 super_admin, admin, user
	Description string `gorm:"type:varchar(200)" json:"description"`         // 角色描述
	Status      int8   `gorm:"default:1;index" json:"status"`                // 状态：1=启用、0=禁用
	Sort        int    `gorm:"default:0" json:"sort"`                        // 排序（数字越小越靠前）
	IsSystem    bool   `gorm:"default:false" json:"is_system"`               // 是否系统内置角色
}

// TableName 指定表名
func (Role) TableName() string {
	return "roles"
}

// IsActive 检查角色是否启用
func (r *Role) IsActive() bool {
	return r.Status == StatusEnabled
}

// UserRole 用户角色关联模型
type UserRole struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint `gorm:"index;not null;uniqueIndex:uk_user_role" json:"user_id"`
	RoleID uint `gorm:"index;not null;uniqueIndex:uk_user_role" json:"role_id"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// TableName 指定表名
func (UserRole) TableName() string {
	return "user_roles"
}

// RoleMenu 角色菜单关联模型（角色直接关联菜单，菜单即权限载体）
type RoleMenu struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleID uint `gorm:"index;not null;uniqueIndex:uk_role_menu" json:"role_id"`
	MenuID uint `gorm:"index;not null;uniqueIndex:uk_role_menu" json:"menu_id"`
}

// TableName 指定表名
func (RoleMenu) TableName() string {
	return "role_menus"
}

// 系统内置角色编码
const (
	RoleSuperAdmin = "super_admin" // 超级管理员
	RoleAdmin      = "admin"       // 管理员
	RoleUser       = "user"        // 普通用户
)

// AdminRoleCodes 具有管理权限的角色编码
var AdminRoleCodes = []string{RoleSuperAdmin, RoleAdmin}

// SystemRoleCodes 系统内置角色编码（不可删除）
var SystemRoleCodes = []string{RoleSuperAdmin, RoleAdmin, RoleUser}

// IsSystemRoleCode 检查是否为系统内置角色编码
func IsSystemRoleCode(code string) bool {
	for _, c := range SystemRoleCodes {
		if c == code {
			return true
		}
	}
	return false
}

// DefaultSystemRoles 系统默认角色列表
func DefaultSystemRoles() []Role {
	return []Role{
		{Name: "超级管理员", Code: RoleSuperAdmin, Description: "拥有系统所有权限", Status: StatusEnabled, Sort: 1, IsSystem: true},
		{Name: "管理员", Code: RoleAdmin, Description: "管理系统日常事务", Status: StatusEnabled, Sort: 2, IsSystem: true},
		{Name: "普通用户", Code: RoleUser, Description: "基本访问权限", Status: StatusEnabled, Sort: 3, IsSystem: true},
	}
}
