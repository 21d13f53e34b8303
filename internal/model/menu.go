package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// 菜单类型
const (
	MenuTypeDirectory = "directory" // 目录
	MenuTypeMenu      = "menu"      // 菜单
	MenuTypeButton    = "button"    // 按钮
	MenuTypeEmbed     = "embed"     // 内嵌
	MenuTypeLink      = "link"      // 外链
)

// MenuRootID 顶级菜单的父级 ID 哨兵值
const MenuRootID uint = 0

// ValidMenuType 检查菜单类型是否合法
func ValidMenuType(t string) bool {
	switch t {
	case MenuTypeDirectory, MenuTypeMenu, MenuTypeButton, MenuTypeEmbed, MenuTypeLink:
		return true
	}
	return false
}

// JSONMap 可存储为 JSON 列的扩展元数据
type JSONMap map[string]any

// Value 实现 driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan 实现 sql.Scanner
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("不支持的 JSON 列类型")
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

// Menu 菜单模型
// 菜单同时是导航节点和权限载体，支持目录、菜单、按钮、内嵌、外链五种类型
type Menu struct {
	BaseModel
	ParentID uint   `gorm:"default:0;not null;index" json:"parent_id"` // 父级菜单 ID（0 表示顶级）
	Type     string `gorm:"type:varchar(20);not null;default:menu;index" json:"type"`
	Name     string `gorm:"type:varchar(50)" json:"name"`              // 菜单名称（路由标识）
	Title    string `gorm:"type:varchar(50);not null" json:"title"`    // 菜单标题（显示文本）

	// 路由相关
	Path       string `gorm:"type:varchar(200)" json:"path,omitempty"`
	Component  string `gorm:"type:varchar(200)" json:"component,omitempty"`
	Redirect   string `gorm:"type:varchar(200)" json:"redirect,omitempty"`
	ActivePath string `gorm:"type:varchar(200)" json:"active_path,omitempty"` // 激活路径（高亮菜单用）

	// 图标相关
	Icon       string `gorm:"type:varchar(100)" json:"icon,omitempty"`
	ActiveIcon string `gorm:"type:varchar(100)" json:"active_icon,omitempty"`

	// 徽标系统（badge_type 为空表示无徽标）
	BadgeType    string `gorm:"type:varchar(20)" json:"badge_type,omitempty"`    // dot/text/number
	BadgeContent string `gorm:"type:varchar(50)" json:"badge_content,omitempty"`
	BadgeStyle   string `gorm:"type:varchar(20)" json:"badge_style,omitempty"`   // primary/success/warning/danger/info

	// 权限编码（全局唯一，目录类型可为空）
	PermissionCode *string `gorm:"type:varchar(100);uniqueIndex" json:"permission_code,omitempty"`

	// 状态和显示控制
	Status         int8 `gorm:"default:1;not null;index" json:"status"` // 1=启用、0=禁用
	Hidden         bool `gorm:"default:false" json:"hidden"`
	HideChildren   bool `gorm:"default:false" json:"hide_children"`
	HideBreadcrumb bool `gorm:"default:false" json:"hide_breadcrumb"`
	HideTab        bool `gorm:"default:false" json:"hide_tab"`

	// 缓存和标签页控制
	KeepAlive  bool `gorm:"default:false" json:"keep_alive"`
	FixedTab   bool `gorm:"default:false" json:"fixed_tab"`
	AlwaysShow bool `gorm:"default:false" json:"always_show"`

	// 外链相关
	IsExternal  bool   `gorm:"default:false" json:"is_external"`
	ExternalURL string `gorm:"type:varchar(500)" json:"external_url,omitempty"`

	// 其他
	Sort        int     `gorm:"default:0;index" json:"sort"` // 排序（数字越小越靠前）
	Description string  `gorm:"type:varchar(500)" json:"description,omitempty"`
	Meta        JSONMap `gorm:"type:json" json:"meta,omitempty"` // 扩展元数据
}

// TableName 指定表名
func (Menu) TableName() string {
	return "menus"
}

// IsActive 检查菜单是否启用
func (m *Menu) IsActive() bool {
	return m.Status == StatusEnabled
}

// Code 返回权限编码，未设置或空白时返回空字符串
func (m *Menu) Code() string {
	if m.PermissionCode == nil {
		return ""
	}
	return strings.TrimSpace(*m.PermissionCode)
}
