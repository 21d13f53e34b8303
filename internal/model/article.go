package model

// 文章状态
const (
	ArticleStatusDraft     = "draft"     // 草稿
	ArticleStatusPublished = "published" // 已发布
	ArticleStatusArchived  = "archived"  // 已归档
)

// Article 文章模型
// 演示数据权限：普通用户只能操作自己的文章，管理员可以操作所有
type Article struct {
	BaseModel
	Title     string `gorm:"type:varchar(200);not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Summary   string `gorm:"type:varchar(500)" json:"summary,omitempty"`
	Cover     string `gorm:"type:varchar(500)" json:"cover,omitempty"`
	Category  string `gorm:"type:varchar(50);default:default" json:"category"`
	Tags      string `gorm:"type:varchar(200)" json:"tags,omitempty"` // 逗号分隔
	Status    string `gorm:"type:varchar(20);default:draft;index" json:"status"`
	ViewCount int    `gorm:"default:0" json:"view_count"`
	AuthorID  uint   `gorm:"not null;index" json:"author_id"`

	// 关联
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// ValidArticleStatus 检查文章状态是否合法
func ValidArticleStatus(s string) bool {
	switch s {
	case ArticleStatusDraft, ArticleStatusPublished, ArticleStatusArchived:
		return true
	}
	return false
}
