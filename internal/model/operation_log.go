package model

import "time"

// 操作结果
const (
	LogResultSuccess = "success"
	LogResultFail    = "fail"
)

// OperationLog 操作日志模型，只增不改
// 除超级管理员按时间批量清理外不删除
type OperationLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	Username   string    `gorm:"type:varchar(50)" json:"username,omitempty"`
	Module     string    `gorm:"type:varchar(50);not null;index" json:"module"` // auth/user/role/menu/task/article
	Action     string    `gorm:"type:varchar(20);not null" json:"action"`       // create/update/delete/login/logout
	Method     string    `gorm:"type:varchar(10);not null" json:"method"`
	URL        string    `gorm:"type:varchar(500);not null" json:"url"`
	IP         string    `gorm:"type:varchar(50)" json:"ip,omitempty"`
	Params     string    `gorm:"type:text" json:"params,omitempty"` // 脱敏后的请求参数（JSON）
	Result     string    `gorm:"type:varchar(10);default:success" json:"result"`
	Detail     string    `gorm:"type:varchar(200)" json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (OperationLog) TableName() string {
	return "operation_logs"
}
