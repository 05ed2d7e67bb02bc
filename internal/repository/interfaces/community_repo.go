package interfaces

import "artcase-backend/internal/model"

// CommunityRepository 定义了社区相关的数据库操作接口
type CommunityRepository interface {
	CreatePost(post *model.Post, hashtags []string) error
	GetPostByID(id, viewerID int) (*model.Post, error)
	ListPosts(filter model.PostFilter) ([]*model.Post, error)
	DeletePost(id int) error
	CountPosts() (int, error)
	MostLikedDesignPosts(designLimit, viewerID int) ([]*model.Post, error)

	// ToggleLike 不存在则创建，存在则删除，返回操作后是否处于点赞状态
	ToggleLike(userID, postID int) (bool, error)
	ToggleFavorite(userID, postID int) (bool, error)
	GetLikeCount(postID int) (int, error)
	GetFavoriteCount(postID int) (int, error)
	DeleteLikesByDesign(userID, designID int) (int, error)
	DeleteFavoritesByDesign(userID, designID int) (int, error)

	CreateComment(comment *model.Comment) error
	GetCommentByID(id int) (*model.Comment, error)
	ListComments(postID int) ([]*model.Comment, error)
	DeleteComment(id int) error
}
