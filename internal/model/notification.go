package model

import "time"

// 通知类型
const (
	NotificationTypeSystem  = "system"  // 系统通知
	NotificationTypeTask    = "task"    // 任务通知
	NotificationTypeArticle = "article" // 文章通知
	NotificationTypeOther   = "other"   // 其他
)

// Notification 通知模型（站内信），归属于接收用户
type Notification struct {
	BaseModel
	UserID      uint       `gorm:"not null;index" json:"user_id"` // 接收用户 ID
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content,omitempty"`
	Type        string     `gorm:"type:varchar(20);default:system" json:"type"`
	IsRead      bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	SenderID    *uint      `json:"sender_id,omitempty"`                        // 发送者 ID（系统通知为空）
	RelatedID   *uint      `json:"related_id,omitempty"`                       // 关联业务 ID
	RelatedType string     `gorm:"type:varchar(50)" json:"related_type,omitempty"` // 关联业务类型，如 task、article
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
