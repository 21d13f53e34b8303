package service

import (
	"context"
	"testing"

	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestArticleService(perm *stubPermissionService) (ArticleService, *MockArticleRepository) {
	articleRepo := new(MockArticleRepository)
	svc := NewArticleService(articleRepo, perm)
	return svc, articleRepo
}

func sampleArticle(id, authorID uint) *model.Article {
	return &model.Article{
		BaseModel: model.BaseModel{ID: id},
		Title:     "发布流程说明",
		Status:    model.ArticleStatusPublished,
		AuthorID:  authorID,
	}
}

func TestArticleService_GetArticle_Owner(t *testing.T) {
	ctx := context.Background()
	svc, articleRepo := newTestArticleService(&stubPermissionService{})

	article := sampleArticle(1, 3)
	articleRepo.On("GetByID", ctx, uint(1)).Return(article, nil).Once()
	articleRepo.On("IncrViewCount", ctx, uint(1)).Return(nil).Once()

	got, err := svc.GetArticle(ctx, 3, 1)
	assert.NoError(t, err)
	// 浏览计数随读取自增
	assert.Equal(t, 1, got.ViewCount)
}

func TestArticleService_GetArticle_OtherUserDenied(t *testing.T) {
	ctx := context.Background()
	svc, articleRepo := newTestArticleService(&stubPermissionService{})

	article := sampleArticle(1, 3)
	articleRepo.On("GetByID", ctx, uint(1)).Return(article, nil).Once()

	_, err := svc.GetArticle(ctx, 7, 1)
	assert.Equal(t, ErrArticleAccessDenied, err)
}

func TestArticleService_GetArticle_Admin(t *testing.T) {
	ctx := context.Background()
	svc, articleRepo := newTestArticleService(&stubPermissionService{admin: true})

	article := sampleArticle(1, 3)
	articleRepo.On("GetByID", ctx, uint(1)).Return(article, nil).Once()
	articleRepo.On("IncrViewCount", ctx, uint(1)).Return(nil).Once()

	_, err := svc.GetArticle(ctx, 7, 1)
	assert.NoError(t, err)
}

func TestArticleService_ListArticles_ScopeForced(t *testing.T) {
	ctx := context.Background()
	svc, articleRepo := newTestArticleService(&stubPermissionService{})

	// 普通用户即使显式传了别人的作者过滤，也被收敛为自己
	articleRepo.On("List", ctx, mock.MatchedBy(func(f *repository.ArticleFilter) bool {
		return f.AuthorID == uint(3)
	}), (*repository.Pagination)(nil)).Return([]*model.Article{}, int64(0), nil).Once()

	_, _, err := svc.ListArticles(ctx, 3, &repository.ArticleFilter{AuthorID: 99}, nil)
	assert.NoError(t, err)
	articleRepo.AssertExpectations(t)
}

func TestArticleService_ListArticles_AdminkeepsFilter(t *testing.T) {
	ctx := context.Background()
	svc, articleRepo := newTestArticleService(&stubPermissionService{admin: true})

	articleRepo.On("List", ctx, mock.MatchedBy(func(f *repository.ArticleFilter) bool {
		return f.AuthorID == uint(99)
	}), (*repository.Pagination)(nil)).Return([]*model.Article{}, int64(0), nil).Once()

	_, _, err := svc.ListArticles(ctx, 3, &repository.ArticleFilter{AuthorID: 99}, nil)
	assert.NoError(t, err)
}

func TestArticleService_UpdateArticle_OtherUserDenied(t *testing.T) {
	ctx := context.Background()
	svc, articleRepo := newTestArticleService(&stubPermissionService{})

	article := sampleArticle(1, 3)
	articleRepo.On("GetByID", ctx, uint(1)).Return(article, nil).Once()

	title := "改别人的文章"
	_, err := svc.UpdateArticle(ctx, 7, 1, &ArticleUpdateInput{Title: &title})
	assert.Equal(t, ErrArticleAccessDenied, err)
}

func TestArticleService_CreateArticle_Defaults(t *testing.T) {
	ctx := context.Background()
	svc, articleRepo := newTestArticleService(&stubPermissionService{})

	articleRepo.On("Create", ctx, mock.AnythingOfType("*model.Article")).Return(nil).Once()

	article := &model.Article{Title: "草稿"}
	err := svc.CreateArticle(ctx, 3, article)
	assert.NoError(t, err)
	assert.Equal(t, uint(3), article.AuthorID)
	assert.Equal(t, model.ArticleStatusDraft, article.Status)
}

func TestArticleService_CreateArticle_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	svc, articleRepo := newTestArticleService(&stubPermissionService{})

	err := svc.CreateArticle(ctx, 3, &model.Article{Title: "测试", Status: "bogus"})
	assert.Equal(t, ErrArticleStatusInvalid, err)

	// archived 是合法状态，不能被误判
	articleRepo.On("Create", ctx, mock.AnythingOfType("*model.Article")).Return(nil).Once()
	err = svc.CreateArticle(ctx, 3, &model.Article{Title: "归档", Status: model.ArticleStatusArchived})
	assert.NoError(t, err)
}

func TestArticleService_ArticleStats(t *testing.T) {
	ctx := context.Background()
	svc, articleRepo := newTestArticleService(&stubPermissionService{})

	articleRepo.On("CountByStatus", ctx, uint(3)).Return(map[string]int64{"draft": 2}, nil).Once()

	stats, err := svc.ArticleStats(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats["draft"])
}
