package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
// 角色通过 user_roles 表关联，权限通过角色关联的菜单获得
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Nickname     string     `gorm:"type:varchar(50);not null" json:"nickname"`
	Avatar       string     `gorm:"type:varchar(255)" json:"avatar,omitempty"`
	Email        string     `gorm:"type:varchar(100)" json:"email,omitempty"`
	Phone        string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Status       int8       `gorm:"default:1" json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// SetPassword 设置密码（哈希存储）
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword 验证密码
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsActive 检查用户是否启用
func (u *User) IsActive() bool {
	return u.Status == StatusEnabled
}
