package handler

import (
	"strconv"

	"github.com/art-design-pro/admin-backend/internal/middleware"
	"github.com/art-design-pro/admin-backend/internal/model"
	"github.com/art-design-pro/admin-backend/internal/repository"
	"github.com/art-design-pro/admin-backend/internal/service"
	"github.com/art-design-pro/admin-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// ArticleHandler 文章处理器
type ArticleHandler struct {
	articleService service.ArticleService
}

// NewArticleHandler 创建文章处理器
func NewArticleHandler(articleSvc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleSvc}
}

// ListArticles 获取文章列表（数据范围按角色收敛）
// GET /api/articles
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	authorID, _ := strconv.ParseUint(c.Query("author_id"), 10, 64)
	filter := &repository.ArticleFilter{
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		AuthorID: uint(authorID),
	}
	page := parsePagination(c)

	articles, total, err := h.articleService.ListArticles(c.Request.Context(), userID, filter, page)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      articles,
		"total":     total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

// GetArticle 获取文章详情
// GET /api/articles/:id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetArticle(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, article)
}

// CreateArticleRequest 创建文章请求
type CreateArticleRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content" binding:"required"`
	Summary  string `json:"summary" binding:"max=500"`
	Cover    string `json:"cover" binding:"max=500"`
	Category string `json:"category" binding:"max=50"`
	Tags     string `json:"tags" binding:"max=200"`
	Status   string `json:"status"`
}

// CreateArticle 创建文章
// POST /api/articles
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	article := &model.Article{
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		Cover:    req.Cover,
		Category: req.Category,
		Tags:     req.Tags,
		Status:   req.Status,
	}
	if article.Category == "" {
		article.Category = "default"
	}

	if err := h.articleService.CreateArticle(c.Request.Context(), userID, article); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "创建成功", article)
}

// UpdateArticleRequest 更新文章请求，未提交的字段不修改
type UpdateArticleRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Summary  *string `json:"summary"`
	Cover    *string `json:"cover"`
	Category *string `json:"category"`
	Tags     *string `json:"tags"`
	Status   *string `json:"status"`
}

// UpdateArticle 更新文章
// PUT /api/articles/:id
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	input := &service.ArticleUpdateInput{
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		Cover:    req.Cover,
		Category: req.Category,
		Tags:     req.Tags,
		Status:   req.Status,
	}

	article, err := h.articleService.UpdateArticle(c.Request.Context(), userID, id, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "更新成功", article)
}

// DeleteArticle 删除文章
// DELETE /api/articles/:id
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMsg(c, "删除成功", nil)
}

// ArticleStats 文章状态统计
// GET /api/articles/stats
func (h *ArticleHandler) ArticleStats(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, response.CodeInvalidToken)
		return
	}

	stats, err := h.articleService.ArticleStats(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, stats)
}
