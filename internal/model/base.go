// Package model 定义数据模型
package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 基础模型，包含通用字段
// 菜单树约定父级引用为整数（0 表示顶级），因此主键使用自增整数
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 状态常量
const (
	StatusEnabled  int8 = 1 // 启用
	StatusDisabled int8 = 0 // 禁用
)
