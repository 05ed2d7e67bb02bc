package mysql

import (
	"artcase-backend/internal/model"
	"artcase-backend/internal/util"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type communityRepository struct {
	db *sql.DB
}

func NewCommunityRepository(db *sql.DB) *communityRepository {
	return &communityRepository{db: db}
}

// postSelect 需要两个参数：查看者ID（is_liked、is_favorited）
const postSelect = `
	SELECT p.id, p.user_id, p.design_id, p.caption, COALESCE(p.description, ''), p.created_at,
		` + userSummaryColumns + `,
		` + designColumns + `,
		(SELECT COUNT(*) FROM likes WHERE post_id = p.id) AS like_count,
		(SELECT COUNT(*) FROM comments WHERE post_id = p.id) AS comment_count,
		(SELECT COUNT(*) FROM favorites WHERE post_id = p.id) AS favorite_count,
		EXISTS(SELECT 1 FROM likes WHERE post_id = p.id AND user_id = ?) AS is_liked,
		EXISTS(SELECT 1 FROM favorites WHERE post_id = p.id AND user_id = ?) AS is_favorited
	FROM posts p
	JOIN users u ON u.id = p.user_id
	JOIN designs d ON d.id = p.design_id`

func scanPost(s rowScanner) (*model.Post, error) {
	var post model.Post
	var author model.UserSummary
	var design model.Design
	var designUser sql.NullInt64

	dest := []interface{}{&post.ID, &post.UserID, &post.DesignID, &post.Caption, &post.Description, &post.CreatedAt}
	dest = append(dest, scanUserSummary(&author)...)
	dest = append(dest, designDest(&design, &designUser)...)
	dest = append(dest, &post.LikeCount, &post.CommentCount, &post.FavoriteCount, &post.IsLiked, &post.IsFavorited)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	design.UserID = intPtr(designUser)
	post.User = &author
	post.Design = &design
	post.Hashtags = []string{}
	return &post, nil
}

func (r *communityRepository) queryPosts(query string, args ...interface{}) ([]*model.Post, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询帖子失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, r.attachHashtags(posts)
}

// attachHashtags 批量加载话题
func (r *communityRepository) attachHashtags(posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	byID := make(map[int]*model.Post, len(posts))
	args := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		if _, seen := byID[p.ID]; !seen {
			args = append(args, p.ID)
		}
		byID[p.ID] = p
	}

	rows, err := r.db.Query(`
		SELECT ph.post_id, h.name FROM post_hashtags ph
		JOIN hashtags h ON h.id = ph.hashtag_id
		WHERE ph.post_id IN (`+placeholders(len(args))+`)
		ORDER BY h.name`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int
		var name string
		if err := rows.Scan(&postID, &name); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Hashtags = append(p.Hashtags, name)
		}
	}
	return rows.Err()
}

// CreatePost 在事务中写入帖子及其话题，话题不存在时自动创建
func (r *communityRepository) CreatePost(post *model.Post, hashtags []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO posts (user_id, design_id, caption, description) VALUES (?, ?, ?, ?)`,
		post.UserID, post.DesignID, post.Caption, post.Description)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}
	postID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(postID)

	for _, name := range hashtags {
		res, err := tx.Exec(`INSERT INTO hashtags (name) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`, name)
		if err != nil {
			util.Logger.Error("创建话题失败", zap.String("hashtag", name), zap.Error(err))
			return err
		}
		hashtagID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT IGNORE INTO post_hashtags (post_id, hashtag_id) VALUES (?, ?)`, postID, hashtagID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	post.Hashtags = hashtags
	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID), zap.Int("design_id", post.DesignID))
	return nil
}

func (r *communityRepository) GetPostByID(id, viewerID int) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRow(postSelect+` WHERE p.id = ?`, viewerID, viewerID, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, r.attachHashtags([]*model.Post{post})
}

func (r *communityRepository) ListPosts(f model.PostFilter) ([]*model.Post, error) {
	var conds []string
	args := []interface{}{f.ViewerID, f.ViewerID}
	if f.AuthorID > 0 {
		conds = append(conds, "p.user_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.LikedBy > 0 {
		conds = append(conds, "EXISTS(SELECT 1 FROM likes WHERE post_id = p.id AND user_id = ?)")
		args = append(args, f.LikedBy)
	}
	if f.FavedBy > 0 {
		conds = append(conds, "EXISTS(SELECT 1 FROM favorites WHERE post_id = p.id AND user_id = ?)")
		args = append(args, f.FavedBy)
	}
	if f.ExcludeID > 0 {
		conds = append(conds, "p.id <> ?")
		args = append(args, f.ExcludeID)
	}

	query := postSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	switch f.OrderBy {
	case "likes":
		query += " ORDER BY like_count DESC, p.created_at DESC"
	case "comments":
		query += " ORDER BY comment_count DESC, p.created_at DESC"
	default:
		query += " ORDER BY p.created_at DESC"
	}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return r.queryPosts(query, args...)
}

// MostLikedDesignPosts 获赞最多的若干设计对应的全部帖子
func (r *communityRepository) MostLikedDesignPosts(designLimit, viewerID int) ([]*model.Post, error) {
	query := postSelect + `
	JOIN (
		SELECT lp.design_id, COUNT(l.id) AS design_likes
		FROM likes l JOIN posts lp ON l.post_id = lp.id
		GROUP BY lp.design_id
		ORDER BY design_likes DESC
		LIMIT ?
	) top ON top.design_id = p.design_id
	ORDER BY top.design_likes DESC, p.created_at DESC`
	return r.queryPosts(query, viewerID, viewerID, designLimit)
}

func (r *communityRepository) CountPosts() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

// DeletePost 删除帖子，点赞、评论、收藏由外键级联删除，相关通知在同一事务中清理
func (r *communityRepository) DeletePost(id int) error {
	util.Logger.Info("开始删除帖子", zap.Int("post_id", id))

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 只清理本帖子产生的通知，同一设计的其他帖子不受影响
	if _, err := tx.Exec(`DELETE FROM notifications WHERE post_id = ?`, id); err != nil {
		util.Logger.Error("清理帖子通知失败", zap.Int("post_id", id), zap.Error(err))
		return err
	}

	if _, err := tx.Exec(`DELETE FROM posts WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除帖子失败", zap.Int("post_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	util.Logger.Info("帖子删除成功", zap.Int("post_id", id))
	return nil
}

// toggle 先尝试删除，没有删除任何记录时再插入
// 并发插入由唯一索引兜底，失败的一方返回 ErrDuplicate
func (r *communityRepository) toggle(table string, userID, postID int) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND post_id = ?`, table), userID, postID)
	if err != nil {
		return false, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if removed == 0 {
		if _, err := tx.Exec(fmt.Sprintf(`INSERT INTO %s (user_id, post_id) VALUES (?, ?)`, table), userID, postID); err != nil {
			return false, duplicateAware(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return removed == 0, nil
}

func (r *communityRepository) ToggleLike(userID, postID int) (bool, error) {
	return r.toggle("likes", userID, postID)
}

func (r *communityRepository) ToggleFavorite(userID, postID int) (bool, error) {
	return r.toggle("favorites", userID, postID)
}

func (r *communityRepository) GetLikeCount(postID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID).Scan(&count)
	return count, err
}

func (r *communityRepository) GetFavoriteCount(postID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM favorites WHERE post_id = ?`, postID).Scan(&count)
	return count, err
}

func (r *communityRepository) deleteByDesign(table string, userID, designID int) (int, error) {
	res, err := r.db.Exec(fmt.Sprintf(`
		DELETE t FROM %s t
		JOIN posts p ON p.id = t.post_id
		WHERE t.user_id = ? AND p.design_id = ?`, table), userID, designID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *communityRepository) DeleteLikesByDesign(userID, designID int) (int, error) {
	return r.deleteByDesign("likes", userID, designID)
}

func (r *communityRepository) DeleteFavoritesByDesign(userID, designID int) (int, error) {
	return r.deleteByDesign("favorites", userID, designID)
}

func (r *communityRepository) CreateComment(comment *model.Comment) error {
	result, err := r.db.Exec(`INSERT INTO comments (user_id, post_id, content) VALUES (?, ?, ?)`,
		comment.UserID, comment.PostID, comment.Content)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	util.Logger.Info("评论创建成功", zap.Int("comment_id", comment.ID), zap.Int("post_id", comment.PostID))
	return nil
}

const commentSelect = `
	SELECT c.id, c.user_id, c.post_id, c.content, c.created_at, ` + userSummaryColumns + `
	FROM comments c JOIN users u ON u.id = c.user_id`

func scanComment(s rowScanner) (*model.Comment, error) {
	var c model.Comment
	var author model.UserSummary
	dest := append([]interface{}{&c.ID, &c.UserID, &c.PostID, &c.Content, &c.CreatedAt}, scanUserSummary(&author)...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	c.User = &author
	return &c, nil
}

func (r *communityRepository) GetCommentByID(id int) (*model.Comment, error) {
	c, err := scanComment(r.db.QueryRow(commentSelect+` WHERE c.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *communityRepository) ListComments(postID int) ([]*model.Comment, error) {
	rows, err := r.db.Query(commentSelect+` WHERE c.post_id = ? ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *communityRepository) DeleteComment(id int) error {
	if _, err := r.db.Exec(`DELETE FROM comments WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除评论失败", zap.Int("comment_id", id), zap.Error(err))
		return err
	}
	util.Logger.Info("评论删除成功", zap.Int("comment_id", id))
	return nil
}
