package model

import "time"

// 任务优先级
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// 任务状态
const (
	TaskStatusPending    = "pending"     // 待处理
	TaskStatusInProgress = "in_progress" // 进行中
	TaskStatusCompleted  = "completed"   // 已完成
	TaskStatusCancelled  = "cancelled"   // 已取消
)

// Task 任务模型
// 演示三级操作权限：管理员 > 创建者 > 执行者（执行者仅可改状态和备注）
type Task struct {
	BaseModel
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Priority    string     `gorm:"type:varchar(20);default:medium" json:"priority"`
	Status      string     `gorm:"type:varchar(20);default:pending;index" json:"status"`
	CreatorID   uint       `gorm:"not null;index" json:"creator_id"`
	AssigneeID  *uint      `gorm:"index" json:"assignee_id,omitempty"` // 执行者（被分配人）
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Remark      string     `gorm:"type:varchar(500)" json:"remark,omitempty"`

	// 关联
	Creator  *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignee *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string {
	return "tasks"
}

// ValidTaskStatus 检查任务状态是否合法
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// ValidTaskPriority 检查任务优先级是否合法
func ValidTaskPriority(p string) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}
