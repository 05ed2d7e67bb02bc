package mysql

import (
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/util"
	"database/sql"
	"strings"

	"go.uber.org/zap"
)

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *reportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(report *model.Report) error {
	if report.Status == "" {
		report.Status = model.ReportPending
	}
	result, err := r.db.Exec(`
		INSERT INTO reports (reporter_id, content_type, content_id, reason, status)
		VALUES (?, ?, ?, ?, ?)`,
		report.ReporterID, report.ContentType, report.ContentID, report.Reason, report.Status)
	if err != nil {
		return duplicateAware(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	report.ID = int(id)
	util.Logger.Info("举报已创建", zap.Int("report_id", report.ID),
		zap.String("content_type", report.ContentType), zap.Int("content_id", report.ContentID))
	return nil
}

// reportSelect 通过左连接带出被举报内容的摘要，内容已删除时为空
const reportSelect = `
	SELECT r.id, r.reporter_id, r.content_type, r.content_id, r.reason, r.status, r.created_at, r.updated_at,
		` + userSummaryColumns + `,
		p.id, p.caption, pu.username, pd.image_url,
		c.id, c.content, cu.username, c.post_id
	FROM reports r
	JOIN users u ON u.id = r.reporter_id
	LEFT JOIN posts p ON r.content_type = 'post' AND p.id = r.content_id
	LEFT JOIN users pu ON pu.id = p.user_id
	LEFT JOIN designs pd ON pd.id = p.design_id
	LEFT JOIN comments c ON r.content_type = 'comment' AND c.id = r.content_id
	LEFT JOIN users cu ON cu.id = c.user_id`

func scanReport(s rowScanner) (*model.Report, error) {
	var rep model.Report
	var reporter model.UserSummary
	var postID, commentID, commentPostID sql.NullInt64
	var caption, postAuthor, imageURL, content, commentAuthor sql.NullString

	dest := []interface{}{&rep.ID, &rep.ReporterID, &rep.ContentType, &rep.ContentID, &rep.Reason,
		&rep.Status, &rep.CreatedAt, &rep.UpdatedAt}
	dest = append(dest, scanUserSummary(&reporter)...)
	dest = append(dest, &postID, &caption, &postAuthor, &imageURL, &commentID, &content, &commentAuthor, &commentPostID)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	rep.Reporter = &reporter

	switch {
	case postID.Valid:
		rep.ContentDetails = map[string]interface{}{
			"id": postID.Int64, "caption": caption.String, "author": postAuthor.String, "image_url": imageURL.String,
		}
	case commentID.Valid:
		rep.ContentDetails = map[string]interface{}{
			"id": commentID.Int64, "content": content.String, "author": commentAuthor.String, "post_id": commentPostID.Int64,
		}
	}
	return &rep, nil
}

func (r *reportRepository) GetByID(id int) (*model.Report, error) {
	rep, err := scanReport(r.db.QueryRow(reportSelect+` WHERE r.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rep, err
}

func (r *reportRepository) List(f model.ReportFilter) ([]*model.Report, error) {
	var conds []string
	var args []interface{}
	if f.Status != "" && f.Status != "all" {
		conds = append(conds, "r.status = ?")
		args = append(args, f.Status)
	}
	if f.ContentType != "" && f.ContentType != "all" {
		conds = append(conds, "r.content_type = ?")
		args = append(args, f.ContentType)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		conds = append(conds, "(r.reason LIKE ? OR u.username LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like)
	}

	query := reportSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY r.id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]*model.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *reportRepository) UpdateStatus(id int, status model.ReportStatus) error {
	_, err := r.db.Exec(`UPDATE reports SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	util.Logger.Info("举报状态已更新", zap.Int("report_id", id), zap.String("status", string(status)))
	return nil
}

type announcementRepository struct {
	db *sql.DB
}

func NewAnnouncementRepository(db *sql.DB) *announcementRepository {
	return &announcementRepository{db: db}
}

const announcementColumns = `id, title, COALESCE(content, ''), type, image_url, position, priority, status,
	publish_date, created_by, created_at`

func scanAnnouncement(s rowScanner) (*model.Announcement, error) {
	var a model.Announcement
	var position sql.NullInt64
	var publish sql.NullTime
	err := s.Scan(&a.ID, &a.Title, &a.Content, &a.Type, &a.ImageURL, &position, &a.Priority, &a.Status,
		&publish, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Position = intPtr(position)
	a.PublishDate = timePtr(publish)
	return &a, nil
}

func (r *announcementRepository) List() ([]*model.Announcement, error) {
	rows, err := r.db.Query(`SELECT ` + announcementColumns + ` FROM announcements
		ORDER BY publish_date IS NULL, publish_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *announcementRepository) GetByID(id int) (*model.Announcement, error) {
	a, err := scanAnnouncement(r.db.QueryRow(`SELECT `+announcementColumns+` FROM announcements WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// Create 图片公告在事务中加锁计数，保证位置连续且不超过上限
func (r *announcementRepository) Create(a *model.Announcement, maxImages int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if a.Type == model.AnnouncementImage {
		rows, err := tx.Query(`SELECT id FROM announcements WHERE type = 'image' FOR UPDATE`)
		if err != nil {
			return err
		}
		count := 0
		for rows.Next() {
			count++
		}
		rows.Close()
		if count >= maxImages {
			return interfaces.ErrLimitExceeded
		}
		pos := count + 1
		a.Position = &pos
	} else {
		a.Position = nil
	}

	result, err := tx.Exec(`
		INSERT INTO announcements (title, content, type, image_url, position, priority, status, publish_date, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Content, a.Type, a.ImageURL, nullInt(a.Position), a.Priority, a.Status, nullTime(a.PublishDate), a.CreatedBy)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	a.ID = int(id)
	util.Logger.Info("公告已创建", zap.Int("announcement_id", a.ID), zap.String("type", a.Type))
	return nil
}

func (r *announcementRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM announcements WHERE id = ?`, id); err != nil {
		return err
	}
	ids, err := imageIDs(tx)
	if err != nil {
		return err
	}
	if err := reindex(tx, ids); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	util.Logger.Info("公告已删除", zap.Int("announcement_id", id))
	return nil
}

type querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func imageIDs(q querier) ([]int, error) {
	rows, err := q.Query(`SELECT id FROM announcements WHERE type = 'image' ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func reindex(q querier, ids []int) error {
	for i, id := range ids {
		if _, err := q.Exec(`UPDATE announcements SET position = ? WHERE id = ?`, i+1, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *announcementRepository) ImageIDsByPosition() ([]int, error) {
	return imageIDs(r.db)
}

func (r *announcementRepository) Reindex(ids []int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := reindex(tx, ids); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	util.Logger.Info("图片公告位置已重排", zap.Ints("order", ids))
	return nil
}
