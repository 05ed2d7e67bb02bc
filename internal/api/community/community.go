package community

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"artcase-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommunityService 帖子、点赞、收藏和评论
type CommunityService interface {
	CreatePost(post *model.Post, hashtags []string) (*model.Post, error)
	GetPostDetail(id, viewerID int) (*model.Post, []*model.Post, error)
	RecentPosts(viewerID int) ([]*model.Post, error)
	UserPosts(authorID, viewerID int) ([]*model.Post, error)
	UserMostLikedPosts(authorID, viewerID int) ([]*model.Post, error)
	UserMostCommentedPosts(authorID, viewerID int) ([]*model.Post, error)
	LikedPosts(userID int) ([]*model.Post, error)
	FavoritedPosts(userID int) ([]*model.Post, error)
	AllPosts() ([]*model.Post, error)
	MostLikedDesigns(viewerID int) ([]*model.Post, error)
	DeletePost(id, userID int, isAdmin bool) error
	ToggleLike(userID, postID int) (*model.ToggleResult, error)
	ToggleFavorite(userID, postID int) (*model.ToggleResult, error)
	RemoveLikesByDesign(userID, designID int) (int, error)
	RemoveFavoritesByDesign(userID, designID int) (int, error)
	AddComment(userID, postID int, content string) (*model.Comment, error)
	ListComments(postID int) ([]*model.Comment, error)
	DeleteComment(id, userID int, isAdmin bool) error
}

type CommunityHandler struct {
	communityService CommunityService
}

func NewCommunityHandler(communityService CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		errors.HandleError(c, errors.New(errors.ErrValidation, "Invalid "+name))
		return 0, false
	}
	return id, true
}

// presentPosts 填充设计的库存显示文本
func presentPosts(posts ...*model.Post) {
	for _, p := range posts {
		if p != nil && p.Design != nil {
			p.Design.StockStatus = p.Design.StockLabel()
		}
	}
}

func (h *CommunityHandler) respondPosts(c *gin.Context, posts []*model.Post, err error) {
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	presentPosts(posts...)
	errors.HandleSuccess(c, posts, "")
}

func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req struct {
		DesignID    int      `json:"design_id" binding:"required"`
		Caption     string   `json:"caption" binding:"required"`
		Description string   `json:"description"`
		Hashtags    []string `json:"hashtags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Logger.Warn("创建帖子失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	post := &model.Post{
		UserID:      middleware.UserID(c),
		DesignID:    req.DesignID,
		Caption:     req.Caption,
		Description: req.Description,
	}
	created, err := h.communityService.CreatePost(post, req.Hashtags)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Int("user_id", post.UserID), zap.Error(err))
		errors.HandleError(c, err)
		return
	}
	presentPosts(created)
	errors.HandleCreated(c, created, "Post created")
}

func (h *CommunityHandler) GetPost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	post, others, err := h.communityService.GetPostDetail(id, middleware.UserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	presentPosts(post)
	presentPosts(others...)
	errors.HandleSuccess(c, gin.H{
		"post":        post,
		"other_posts": others,
	}, "")
}

func (h *CommunityHandler) RecentPosts(c *gin.Context) {
	posts, err := h.communityService.RecentPosts(middleware.UserID(c))
	h.respondPosts(c, posts, err)
}

// viewerFor as_user=true 时以作者本人视角计算 is_liked/is_favorited
func viewerFor(c *gin.Context, authorID int) int {
	if c.Query("as_user") == "true" {
		return authorID
	}
	return middleware.UserID(c)
}

func (h *CommunityHandler) UserPosts(c *gin.Context) {
	authorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	posts, err := h.communityService.UserPosts(authorID, viewerFor(c, authorID))
	h.respondPosts(c, posts, err)
}

func (h *CommunityHandler) MyPosts(c *gin.Context) {
	userID := middleware.UserID(c)
	posts, err := h.communityService.UserPosts(userID, userID)
	h.respondPosts(c, posts, err)
}

func (h *CommunityHandler) UserMostLikedPosts(c *gin.Context) {
	authorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	posts, err := h.communityService.UserMostLikedPosts(authorID, viewerFor(c, authorID))
	h.respondPosts(c, posts, err)
}

func (h *CommunityHandler) UserMostCommentedPosts(c *gin.Context) {
	authorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	posts, err := h.communityService.UserMostCommentedPosts(authorID, viewerFor(c, authorID))
	h.respondPosts(c, posts, err)
}

func (h *CommunityHandler) LikedPosts(c *gin.Context) {
	posts, err := h.communityService.LikedPosts(middleware.UserID(c))
	h.respondPosts(c, posts, err)
}

func (h *CommunityHandler) FavoritedPosts(c *gin.Context) {
	posts, err := h.communityService.FavoritedPosts(middleware.UserID(c))
	h.respondPosts(c, posts, err)
}

// AllPosts 仅管理员
func (h *CommunityHandler) AllPosts(c *gin.Context) {
	posts, err := h.communityService.AllPosts()
	h.respondPosts(c, posts, err)
}

func (h *CommunityHandler) MostLikedDesigns(c *gin.Context) {
	posts, err := h.communityService.MostLikedDesigns(middleware.UserID(c))
	h.respondPosts(c, posts, err)
}

// DeletePost 挂在管理员路由下时允许删除任意帖子
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	if err := h.communityService.DeletePost(id, userID, middleware.IsAdmin(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("帖子已删除", zap.Int("post_id", id), zap.Int("user_id", userID))
	errors.HandleSuccess(c, nil, "Post deleted")
}

func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.communityService.ToggleLike(middleware.UserID(c), postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	msg := "Post unliked"
	if result.Active {
		msg = "Post liked"
	}
	errors.HandleSuccess(c, gin.H{"liked": result.Active, "like_count": result.Count}, msg)
}

func (h *CommunityHandler) ToggleFavorite(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.communityService.ToggleFavorite(middleware.UserID(c), postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	msg := "Post removed from favorites"
	if result.Active {
		msg = "Post added to favorites"
	}
	errors.HandleSuccess(c, gin.H{"favorited": result.Active, "favorite_count": result.Count}, msg)
}

func (h *CommunityHandler) RemoveLikesByDesign(c *gin.Context) {
	designID, ok := paramID(c, "id")
	if !ok {
		return
	}
	removed, err := h.communityService.RemoveLikesByDesign(middleware.UserID(c), designID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"removed": removed}, "Likes removed")
}

func (h *CommunityHandler) RemoveFavoritesByDesign(c *gin.Context) {
	designID, ok := paramID(c, "id")
	if !ok {
		return
	}
	removed, err := h.communityService.RemoveFavoritesByDesign(middleware.UserID(c), designID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"removed": removed}, "Favorites removed")
}

func (h *CommunityHandler) AddComment(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Comment content is required", err))
		return
	}

	comment, err := h.communityService.AddComment(middleware.UserID(c), postID, req.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, comment, "Comment added")
}

func (h *CommunityHandler) ListComments(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	comments, err := h.communityService.ListComments(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, comments, "")
}

func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.communityService.DeleteComment(id, middleware.UserID(c), middleware.IsAdmin(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Comment deleted")
}
