package repository

import (
	"context"
	"errors"

	"github.com/art-design-pro/admin-backend/internal/model"
	"gorm.io/gorm"
)

var ErrArticleNotFound = errors.New("文章不存在")

// ArticleFilter 文章列表过滤条件
// AuthorID 为 0 表示不按作者过滤
type ArticleFilter struct {
	Keyword  string
	Status   string
	Category string
	AuthorID uint
}

// ArticleRepository 文章仓库接口
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	GetByID(ctx context.Context, id uint) (*model.Article, error)
	Update(ctx context.Context, article *model.Article) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter *ArticleFilter, page *Pagination) ([]*model.Article, int64, error)
	IncrViewCount(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context, authorID uint) (map[string]int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建文章仓库
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*model.Article, error) {
	var article model.Article
	err := r.db.WithContext(ctx).Preload("Author").First(&article, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Update(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Article{}, "id = ?", id).Error
}

func (r *articleRepository) List(ctx context.Context, filter *ArticleFilter, page *Pagination) ([]*model.Article, int64, error) {
	var articles []*model.Article
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Article{})
	if filter != nil {
		if filter.Keyword != "" {
			like := "%" + filter.Keyword + "%"
			query = query.Where("title LIKE ? OR summary LIKE ?", like, like)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Category != "" {
			query = query.Where("category = ?", filter.Category)
		}
		if filter.AuthorID != 0 {
			query = query.Where("author_id = ?", filter.AuthorID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page != nil {
		page.Normalize()
		query = query.Offset(page.Offset()).Limit(page.PageSize)
	}

	if err := query.Preload("Author").Order("id DESC").Find(&articles).Error; err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (r *articleRepository) IncrViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// CountByStatus 按状态统计文章数，authorID 为 0 时统计全部
func (r *articleRepository) CountByStatus(ctx context.Context, authorID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row

	query := r.db.WithContext(ctx).Model(&model.Article{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if authorID != 0 {
		query = query.Where("author_id = ?", authorID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Status] = r.Count
	}
	return stats, nil
}
