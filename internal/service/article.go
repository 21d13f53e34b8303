package service

import (
	"context"
	"errors"
	"strings"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
)

var (
	ErrArticleAccessDenied  = errors.New("无权操作该文章")
	ErrArticleTitleRequired = errors.New("文章标题不能为空")
	ErrArticleStatusInvalid = errors.New("文章状态不合法")
)

// ArticleUpdateInput 文章更新入参，nil 字段表示不修改
type ArticleUpdateInput struct {
	Title    *string
	Content  *string
	Summary  *string
	Cover    *string
	Category *string
	Tags     *string
	Status   *string
}

// ArticleService 文章服务接口
// 数据范围：管理角色可见全部，普通用户只能看到和改动自己的文章
type ArticleService interface {
	CreateArticle(ctx context.Context, authorID uint, article *model.Article) error
	GetArticle(ctx context.Context, callerID, id uint) (*model.Article, error)
	UpdateArticle(ctx context.Context, callerID, id uint, input *ArticleUpdateInput) (*model.Article, error)
	DeleteArticle(ctx context.Context, callerID, id uint) error
	ListArticles(ctx context.Context, callerID uint, filter *repository.ArticleFilter, page *repository.Pagination) ([]*model.Article, int64, error)
	// ArticleStats 按状态统计，范围规则与列表一致
	ArticleStats(ctx context.Context, callerID uint) (map[string]int64, error)
}

type articleService struct {
	articleRepo repository.ArticleRepository
	permSvc     PermissionService
}

// NewArticleService 创建文章服务
func NewArticleService(articleRepo repository.ArticleRepository, permSvc PermissionService) ArticleService {
	return &articleService{articleRepo: articleRepo, permSvc: permSvc}
}

// canAccess 行级访问检查，列表范围过滤之外的逐行兜底
func (s *articleService) canAccess(ctx context.Context, callerID uint, article *model.Article) bool {
	if article.AuthorID == callerID {
		return true
	}
	return s.permSvc.IsAdmin(ctx, callerID)
}

func (s *articleService) CreateArticle(ctx context.Context, authorID uint, article *model.Article) error {
	if strings.TrimSpace(article.Title) == "" {
		return ErrArticleTitleRequired
	}
	if article.Status == "" {
		article.Status = model.ArticleStatusDraft
	}
	if !model.ValidArticleStatus(article.Status) {
		return ErrArticleStatusInvalid
	}
	article.AuthorID = authorID
	return s.articleRepo.Create(ctx, article)
}

func (s *articleService) GetArticle(ctx context.Context, callerID, id uint) (*model.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(ctx, callerID, article) {
		return nil, ErrArticleAccessDenied
	}

	if err := s.articleRepo.IncrViewCount(ctx, id); err == nil {
		article.ViewCount++
	}
	return article, nil
}

func (s *articleService) UpdateArticle(ctx context.Context, callerID, id uint, input *ArticleUpdateInput) (*model.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(ctx, callerID, article) {
		return nil, ErrArticleAccessDenied
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrArticleTitleRequired
		}
		article.Title = *input.Title
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	if input.Summary != nil {
		article.Summary = *input.Summary
	}
	if input.Cover != nil {
		article.Cover = *input.Cover
	}
	if input.Category != nil {
		article.Category = *input.Category
	}
	if input.Tags != nil {
		article.Tags = *input.Tags
	}
	if input.Status != nil {
		if !model.ValidArticleStatus(*input.Status) {
			return nil, ErrArticleStatusInvalid
		}
		article.Status = *input.Status
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) DeleteArticle(ctx context.Context, callerID, id uint) error {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.canAccess(ctx, callerID, article) {
		return ErrArticleAccessDenied
	}
	return s.articleRepo.Delete(ctx, id)
}

func (s *articleService) ListArticles(ctx context.Context, callerID uint, filter *repository.ArticleFilter, page *repository.Pagination) ([]*model.Article, int64, error) {
	if filter == nil {
		filter = &repository.ArticleFilter{}
	}
	// 非管理角色强制只看自己的文章，忽略外部传入的作者过滤
	if !s.permSvc.IsAdmin(ctx, callerID) {
		filter.AuthorID = callerID
	}
	return s.articleRepo.List(ctx, filter, page)
}

func (s *articleService) ArticleStats(ctx context.Context, callerID uint) (map[string]int64, error) {
	authorID := callerID
	if s.permSvc.IsAdmin(ctx, callerID) {
		authorID = 0
	}
	return s.articleRepo.CountByStatus(ctx, authorID)
}
