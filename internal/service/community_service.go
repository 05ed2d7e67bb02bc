package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/util"
	stderrors "errors"
	"strings"

	"go.uber.org/zap"
)

const (
	recentPostsLimit     = 10
	otherPostsLimit      = 5
	mostLikedDesignLimit = 16
)

type CommunityService struct {
	repo          interfaces.CommunityRepository
	designRepo    interfaces.DesignRepository
	userRepo      interfaces.UserRepository
	notifications *NotificationService
}

func NewCommunityService(repo interfaces.CommunityRepository, designRepo interfaces.DesignRepository,
	userRepo interfaces.UserRepository, notifications *NotificationService) *CommunityService {
	return &CommunityService{
		repo:          repo,
		designRepo:    designRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// NormalizeHashtags 去掉 # 前缀和空白，去重后最多保留 5 个
func NormalizeHashtags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	result := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(tag), "#")))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
		if len(result) == model.MaxHashtagsPerPost {
			break
		}
	}
	return result
}

func (s *CommunityService) getPost(id, viewerID int) (*model.Post, error) {
	post, err := s.repo.GetPostByID(id, viewerID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "Post not found")
	}
	return post, nil
}

func (s *CommunityService) actor(userID int) (*model.UserSummary, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}
	return &model.UserSummary{
		ID:         user.ID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		ProfilePic: user.ProfilePic,
	}, nil
}

func (s *CommunityService) requireUser(userID int) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to load user", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "User not found")
	}
	return nil
}

// CreatePost 设计必须属于发帖人或者尚未被认领
func (s *CommunityService) CreatePost(post *model.Post, hashtags []string) (*model.Post, error) {
	design, err := s.designRepo.GetByID(post.DesignID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load design", err)
	}
	if design == nil {
		return nil, errors.New(errors.ErrDesignNotFound, "Design not found")
	}
	if !design.IsAnonymous() && !design.OwnedBy(post.UserID) {
		return nil, errors.New(errors.ErrForbidden, "You can only post your own designs")
	}

	post.Caption = strings.TrimSpace(post.Caption)
	if post.Caption == "" {
		return nil, errors.New(errors.ErrValidation, "Caption is required")
	}

	if err := s.repo.CreatePost(post, NormalizeHashtags(hashtags)); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to create post", err)
	}
	return s.getPost(post.ID, post.UserID)
}

// GetPostDetail 帖子详情，附带评论和作者的其他帖子
func (s *CommunityService) GetPostDetail(id, viewerID int) (*model.Post, []*model.Post, error) {
	post, err := s.getPost(id, viewerID)
	if err != nil {
		return nil, nil, err
	}
	if post.Comments, err = s.repo.ListComments(id); err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "Failed to load comments", err)
	}
	others, err := s.repo.ListPosts(model.PostFilter{
		AuthorID:  post.UserID,
		ViewerID:  viewerID,
		ExcludeID: post.ID,
		Limit:     otherPostsLimit,
	})
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "Failed to load posts", err)
	}
	return post, others, nil
}

func (s *CommunityService) listPosts(f model.PostFilter) ([]*model.Post, error) {
	posts, err := s.repo.ListPosts(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load posts", err)
	}
	return posts, nil
}

func (s *CommunityService) RecentPosts(viewerID int) ([]*model.Post, error) {
	return s.listPosts(model.PostFilter{ViewerID: viewerID, Limit: recentPostsLimit})
}

// UserPosts 某个用户的帖子，viewerID 决定 is_liked/is_favorited 的视角
func (s *CommunityService) UserPosts(authorID, viewerID int) ([]*model.Post, error) {
	if err := s.requireUser(authorID); err != nil {
		return nil, err
	}
	return s.listPosts(model.PostFilter{AuthorID: authorID, ViewerID: viewerID})
}

func (s *CommunityService) UserMostLikedPosts(authorID, viewerID int) ([]*model.Post, error) {
	if err := s.requireUser(authorID); err != nil {
		return nil, err
	}
	return s.listPosts(model.PostFilter{AuthorID: authorID, ViewerID: viewerID, OrderBy: "likes"})
}

func (s *CommunityService) UserMostCommentedPosts(authorID, viewerID int) ([]*model.Post, error) {
	if err := s.requireUser(authorID); err != nil {
		return nil, err
	}
	return s.listPosts(model.PostFilter{AuthorID: authorID, ViewerID: viewerID, OrderBy: "comments"})
}

func (s *CommunityService) LikedPosts(userID int) ([]*model.Post, error) {
	return s.listPosts(model.PostFilter{LikedBy: userID, ViewerID: userID})
}

func (s *CommunityService) FavoritedPosts(userID int) ([]*model.Post, error) {
	return s.listPosts(model.PostFilter{FavedBy: userID, ViewerID: userID})
}

// AllPosts 管理员查看全部帖子
func (s *CommunityService) AllPosts() ([]*model.Post, error) {
	return s.listPosts(model.PostFilter{})
}

// MostLikedDesigns 获赞最多的 16 个设计对应的帖子
func (s *CommunityService) MostLikedDesigns(viewerID int) ([]*model.Post, error) {
	posts, err := s.repo.MostLikedDesignPosts(mostLikedDesignLimit, viewerID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load posts", err)
	}
	return posts, nil
}

// DeletePost 作者或管理员可以删除
func (s *CommunityService) DeletePost(id, userID int, isAdmin bool) error {
	post, err := s.getPost(id, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID && !isAdmin {
		return errors.New(errors.ErrForbidden, "You do not have permission to delete this post")
	}
	if err := s.repo.DeletePost(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to delete post", err)
	}
	return nil
}

type toggleFunc func(userID, postID int) (bool, error)
type countFunc func(postID int) (int, error)

// toggle 先改变互动状态，再处理通知；通知失败不影响结果
func (s *CommunityService) toggle(userID, postID int, t model.NotificationType, flip toggleFunc, count countFunc) (*model.ToggleResult, error) {
	post, err := s.getPost(postID, userID)
	if err != nil {
		return nil, err
	}

	active, err := flip(userID, postID)
	if err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.New(errors.ErrResourceConflict, "Request conflicted with a concurrent update, please retry")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to update "+string(t), err)
	}

	if active {
		actor, err := s.actor(userID)
		if err != nil {
			util.Logger.Warn("加载互动用户失败，跳过通知", zap.Int("user_id", userID), zap.Error(err))
		} else {
			s.notifications.Notify(post.Design, model.NotificationRef{PostID: postID}, actor, t, "")
		}
	} else {
		s.notifications.Withdraw(post.Design, model.NotificationRef{PostID: postID}, userID, t)
	}

	n, err := count(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to count "+string(t), err)
	}
	util.Logger.Info("互动状态已切换",
		zap.Int("user_id", userID),
		zap.Int("post_id", postID),
		zap.String("type", string(t)),
		zap.Bool("active", active))
	return &model.ToggleResult{Active: active, Count: n}, nil
}

func (s *CommunityService) ToggleLike(userID, postID int) (*model.ToggleResult, error) {
	return s.toggle(userID, postID, model.NotificationLike, s.repo.ToggleLike, s.repo.GetLikeCount)
}

func (s *CommunityService) ToggleFavorite(userID, postID int) (*model.ToggleResult, error) {
	return s.toggle(userID, postID, model.NotificationFavorite, s.repo.ToggleFavorite, s.repo.GetFavoriteCount)
}

type removeFunc func(userID, designID int) (int, error)

// removeByDesign 删除用户在该设计所有帖子上的互动及配对通知
func (s *CommunityService) removeByDesign(userID, designID int, t model.NotificationType, remove removeFunc) (int, error) {
	design, err := s.designRepo.GetByID(designID)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "Failed to load design", err)
	}
	if design == nil {
		return 0, errors.New(errors.ErrDesignNotFound, "Design not found")
	}

	removed, err := remove(userID, designID)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "Failed to remove "+string(t), err)
	}
	for i := 0; i < removed; i++ {
		s.notifications.Withdraw(design, model.NotificationRef{}, userID, t)
	}
	return removed, nil
}

func (s *CommunityService) RemoveLikesByDesign(userID, designID int) (int, error) {
	return s.removeByDesign(userID, designID, model.NotificationLike, s.repo.DeleteLikesByDesign)
}

func (s *CommunityService) RemoveFavoritesByDesign(userID, designID int) (int, error) {
	return s.removeByDesign(userID, designID, model.NotificationFavorite, s.repo.DeleteFavoritesByDesign)
}

// AddComment 添加评论并通知设计所有者
func (s *CommunityService) AddComment(userID, postID int, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New(errors.ErrValidation, "Comment content is required")
	}
	post, err := s.getPost(postID, userID)
	if err != nil {
		return nil, err
	}
	actor, err := s.actor(userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{UserID: userID, PostID: postID, Content: content, User: actor}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to create comment", err)
	}
	ref := model.NotificationRef{PostID: postID, CommentID: comment.ID}
	s.notifications.Notify(post.Design, ref, actor, model.NotificationComment, content)
	return comment, nil
}

func (s *CommunityService) ListComments(postID int) ([]*model.Comment, error) {
	if _, err := s.getPost(postID, 0); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load comments", err)
	}
	return comments, nil
}

// DeleteComment 作者或管理员可以删除，同时清理对应的评论通知
func (s *CommunityService) DeleteComment(id, userID int, isAdmin bool) error {
	comment, err := s.repo.GetCommentByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to load comment", err)
	}
	if comment == nil {
		return errors.New(errors.ErrResourceNotFound, "Comment not found")
	}
	if comment.UserID != userID && !isAdmin {
		return errors.New(errors.ErrForbidden, "You do not have permission to delete this comment")
	}

	post, err := s.getPost(comment.PostID, 0)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteComment(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to delete comment", err)
	}

	ref := model.NotificationRef{PostID: comment.PostID, CommentID: comment.ID}
	s.notifications.Withdraw(post.Design, ref, comment.UserID, model.NotificationComment)
	return nil
}
