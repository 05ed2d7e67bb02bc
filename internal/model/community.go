package model

import (
	"time"
)

// MaxHashtagsPerPost 每个帖子最多保留的话题数
const MaxHashtagsPerPost = 5

type Post struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	DesignID    int       `json:"design_id"`
	Caption     string    `json:"caption"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Design        *Design      `json:"design,omitempty"`
	User          *UserSummary `json:"user_details,omitempty"`
	Hashtags      []string     `json:"hashtag_names"`
	LikeCount     int          `json:"like_count"`
	CommentCount  int          `json:"comment_count"`
	FavoriteCount int          `json:"favorite_count"`
	IsLiked       bool         `json:"is_liked"`
	IsFavorited   bool         `json:"is_favorited"`
	Comments      []*Comment   `json:"comments,omitempty"`
}

type Hashtag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Comment struct {
	ID        int          `json:"id"`
	UserID    int          `json:"user_id"`
	PostID    int          `json:"post_id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	User      *UserSummary `json:"user,omitempty"`
}

type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Favorite struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostFilter 帖子列表查询条件
type PostFilter struct {
	AuthorID  int    // 0 表示不限作者
	ViewerID  int    // 用于计算 is_liked / is_favorited，0 表示匿名访问
	LikedBy   int    // 只返回该用户点赞过的帖子
	FavedBy   int    // 只返回该用户收藏过的帖子
	ExcludeID int    // 排除某个帖子
	OrderBy   string // recent | likes | comments
	Limit     int
}

// ToggleResult 点赞/收藏切换后的状态
type ToggleResult struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

// DesignRanking 设计排行
type DesignRanking struct {
	Design *Design `json:"design"`
	Count  int     `json:"count"`
}
