package mysql

import (
	"artcase-backend/internal/model"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// analyticsRepository 面板统计查询，全部为只读聚合
type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *analyticsRepository {
	return &analyticsRepository{db: db}
}

const (
	classExpr    = "COALESCE(NULLIF(d.class, ''), 'unknown')"
	lineRevenue  = "oi.price * oi.quantity"
	notCanceled  = "o.status <> 'canceled'"
	dateBucket   = "DATE_FORMAT(%s, '%%Y-%%m-%%d')"
	topListLimit = 5
)

func bucket(column string) string {
	return fmt.Sprintf(dateBucket, column)
}

func concatArgs(parts ...[]interface{}) []interface{} {
	var out []interface{}
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func (r *analyticsRepository) count(query string, args ...interface{}) (int, error) {
	var n int
	err := r.db.QueryRow(query, args...).Scan(&n)
	return n, err
}

func (r *analyticsRepository) keyCounts(query string, args ...interface{}) ([]model.KeyCount, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.KeyCount, 0)
	for rows.Next() {
		var kc model.KeyCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, err
		}
		result = append(result, kc)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) dateCounts(query string, args ...interface{}) ([]model.DateCount, error) {
	kcs, err := r.keyCounts(query, args...)
	if err != nil {
		return nil, err
	}
	result := make([]model.DateCount, 0, len(kcs))
	for _, kc := range kcs {
		result = append(result, model.DateCount{Date: kc.Key, Count: kc.Count})
	}
	return result, nil
}

func (r *analyticsRepository) DesignStats(dr model.DateRange) (*model.DesignAnalytics, error) {
	where, args := rangeClause("d.created_at", dr)
	stats := &model.DesignAnalytics{}

	var err error
	if stats.Total, err = r.count(`SELECT COUNT(*) FROM designs d WHERE `+where, args...); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT cls, COUNT(*), COALESCE(SUM(likes), 0), COALESCE(SUM(posts), 0) FROM (
			SELECT `+classExpr+` AS cls,
				(SELECT COUNT(*) FROM likes l JOIN posts p ON l.post_id = p.id WHERE p.design_id = d.id) AS likes,
				(SELECT COUNT(*) FROM posts p WHERE p.design_id = d.id) AS posts
			FROM designs d WHERE `+where+`
		) x GROUP BY cls ORDER BY COUNT(*) DESC`, args...)
	if err != nil {
		return nil, err
	}
	stats.ByClass = make([]model.ClassStat, 0)
	for rows.Next() {
		var cs model.ClassStat
		if err := rows.Scan(&cs.Class, &cs.Count, &cs.TotalLikes, &cs.TotalPosts); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByClass = append(stats.ByClass, cs)
	}
	rows.Close()

	if stats.ByModel, err = r.designSales("model", dr); err != nil {
		return nil, err
	}
	if stats.ByType, err = r.designSales("type", dr); err != nil {
		return nil, err
	}

	if stats.StockStatus, err = r.keyCounts(`
		SELECT IF(d.stock, 'In Stock', 'Out of Stock') AS s, COUNT(*) FROM designs d
		WHERE `+where+` GROUP BY s`, args...); err != nil {
		return nil, err
	}

	postedArgs := append(append([]interface{}{}, args...), topListLimit)
	if stats.MostPostedClass, err = r.keyCounts(`
		SELECT `+classExpr+` AS cls, COUNT(p.id) AS n FROM posts p JOIN designs d ON d.id = p.design_id
		WHERE `+where+` GROUP BY cls ORDER BY n DESC LIMIT ?`, postedArgs...); err != nil {
		return nil, err
	}
	if stats.MostPostedModel, err = r.keyCounts(`
		SELECT d.model, COUNT(p.id) AS n FROM posts p JOIN designs d ON d.id = p.design_id
		WHERE `+where+` GROUP BY d.model ORDER BY n DESC LIMIT ?`, postedArgs...); err != nil {
		return nil, err
	}
	return stats, nil
}

// designSales 按设计的型号或类型分组，并关联同型号/类型的订单收入
func (r *analyticsRepository) designSales(column string, dr model.DateRange) ([]model.SalesStat, error) {
	where, args := rangeClause("d.created_at", dr)
	orderWhere, orderArgs := rangeClause("o.created_at", dr)

	query := fmt.Sprintf(`
		SELECT d.%[1]s, COUNT(*), AVG(d.price),
			COALESCE((SELECT SUM(`+lineRevenue+`) FROM order_items oi JOIN orders o ON o.id = oi.order_id
				WHERE oi.%[1]s = d.%[1]s AND `+notCanceled+` AND `+orderWhere+`), 0),
			(SELECT COUNT(DISTINCT oi.order_id) FROM order_items oi JOIN orders o ON o.id = oi.order_id
				WHERE oi.%[1]s = d.%[1]s AND `+orderWhere+`)
		FROM designs d WHERE `+where+`
		GROUP BY d.%[1]s ORDER BY COUNT(*) DESC`, column)

	rows, err := r.db.Query(query, concatArgs(orderArgs, orderArgs, args)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.SalesStat, 0)
	for rows.Next() {
		var s model.SalesStat
		if err := rows.Scan(&s.Key, &s.Count, &s.AvgPrice, &s.TotalRevenue, &s.OrderCount); err != nil {
			return nil, err
		}
		s.AvgPrice = s.AvgPrice.Round(2)
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) PostStats(dr model.DateRange, topN int) (*model.PostAnalytics, error) {
	where, args := rangeClause("p.created_at", dr)
	stats := &model.PostAnalytics{}

	var err error
	if stats.Total, err = r.count(`SELECT COUNT(*) FROM posts p WHERE `+where, args...); err != nil {
		return nil, err
	}
	if stats.TopLiked, err = r.topPosts("likes", where, args, topN); err != nil {
		return nil, err
	}
	if stats.TopCommented, err = r.topPosts("comments", where, args, topN); err != nil {
		return nil, err
	}
	if stats.TopFavorited, err = r.topPosts("favorites", where, args, topN); err != nil {
		return nil, err
	}
	if stats.TimeSeries, err = r.dateCounts(`
		SELECT `+bucket("p.created_at")+` AS day, COUNT(*) FROM posts p
		WHERE `+where+` GROUP BY day ORDER BY day`, args...); err != nil {
		return nil, err
	}
	return stats, nil
}

// topPosts 内连接保证只返回计数大于 0 的帖子
func (r *analyticsRepository) topPosts(table, where string, args []interface{}, limit int) ([]model.PostStat, error) {
	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT p.id, p.caption, u.username, d.image_url, `+classExpr+`, d.model, COUNT(x.id) AS n
		FROM posts p
		JOIN users u ON u.id = p.user_id
		JOIN designs d ON d.id = p.design_id
		JOIN %s x ON x.post_id = p.id
		WHERE `+where+`
		GROUP BY p.id, p.caption, u.username, d.image_url, d.class, d.model
		ORDER BY n DESC, p.id
		LIMIT ?`, table), append(append([]interface{}{}, args...), limit)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.PostStat, 0)
	for rows.Next() {
		var s model.PostStat
		if err := rows.Scan(&s.PostID, &s.Caption, &s.Username, &s.ImageURL, &s.Class, &s.Model, &s.Count); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) OrderStats(dr model.DateRange) (*model.OrderAnalytics, error) {
	where, args := rangeClause("o.created_at", dr)
	stats := &model.OrderAnalytics{TotalRevenue: decimal.Zero}

	var err error
	if stats.TotalOrders, err = r.count(`SELECT COUNT(*) FROM orders o WHERE `+where, args...); err != nil {
		return nil, err
	}
	if err = r.db.QueryRow(`
		SELECT COALESCE(SUM(`+lineRevenue+`), 0) FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE `+notCanceled+` AND `+where, args...).Scan(&stats.TotalRevenue); err != nil {
		return nil, err
	}
	if stats.ByModel, err = r.itemSales("model", where, args); err != nil {
		return nil, err
	}
	if stats.ByType, err = r.itemSales("type", where, args); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT o.status, COUNT(DISTINCT o.id),
			COALESCE(SUM(CASE WHEN `+notCanceled+` THEN `+lineRevenue+` END), 0)
		FROM orders o LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE `+where+` GROUP BY o.status`, args...)
	if err != nil {
		return nil, err
	}
	stats.StatusDistribution = make([]model.StatusStat, 0)
	for rows.Next() {
		var s model.StatusStat
		if err := rows.Scan(&s.Status, &s.Count, &s.Revenue); err != nil {
			rows.Close()
			return nil, err
		}
		stats.StatusDistribution = append(stats.StatusDistribution, s)
	}
	rows.Close()

	rows, err = r.db.Query(`
		SELECT o.country, o.city, COUNT(DISTINCT o.id) AS n,
			COALESCE(SUM(CASE WHEN `+notCanceled+` THEN `+lineRevenue+` END), 0)
		FROM orders o LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE `+where+` GROUP BY o.country, o.city ORDER BY n DESC LIMIT 10`, args...)
	if err != nil {
		return nil, err
	}
	stats.ByLocation = make([]model.LocationStat, 0)
	for rows.Next() {
		var s model.LocationStat
		if err := rows.Scan(&s.Country, &s.City, &s.Count, &s.Revenue); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByLocation = append(stats.ByLocation, s)
	}
	rows.Close()

	limited := append(append([]interface{}{}, args...), topListLimit)
	if stats.MostOrderedModels, err = r.keyCounts(`
		SELECT oi.model, COUNT(DISTINCT oi.order_id) AS n FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE `+where+` GROUP BY oi.model ORDER BY n DESC LIMIT ?`, limited...); err != nil {
		return nil, err
	}
	if stats.MostOrderedTypes, err = r.keyCounts(`
		SELECT oi.type, COUNT(DISTINCT oi.order_id) AS n FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE `+where+` GROUP BY oi.type ORDER BY n DESC LIMIT ?`, limited...); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *analyticsRepository) itemSales(column, where string, args []interface{}) ([]model.QuantityRevenue, error) {
	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT oi.%[1]s, SUM(oi.quantity), SUM(`+lineRevenue+`) AS revenue
		FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE `+notCanceled+` AND `+where+`
		GROUP BY oi.%[1]s ORDER BY revenue DESC`, column), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.QuantityRevenue, 0)
	for rows.Next() {
		var q model.QuantityRevenue
		if err := rows.Scan(&q.Key, &q.Quantity, &q.Revenue); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) UserStats(dr model.DateRange, likeThreshold int) (*model.UserAnalytics, error) {
	stats := &model.UserAnalytics{}

	var err error
	if stats.Total, err = r.count(`SELECT COUNT(*) FROM users`); err != nil {
		return nil, err
	}

	pWhere, pArgs := rangeClause("p.created_at", dr)
	lWhere, lArgs := rangeClause("l.created_at", dr)
	cWhere, cArgs := rangeClause("c.created_at", dr)
	rows, err := r.db.Query(`
		SELECT id, username, tp, tl, tc FROM (
			SELECT u.id, u.username,
				(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id AND `+pWhere+`) AS tp,
				(SELECT COUNT(*) FROM likes l WHERE l.user_id = u.id AND `+lWhere+`) AS tl,
				(SELECT COUNT(*) FROM comments c WHERE c.user_id = u.id AND `+cWhere+`) AS tc
			FROM users u
		) x
		WHERE 3 * tp + tl + 2 * tc > 0
		ORDER BY 3 * tp + tl + 2 * tc DESC, id
		LIMIT ?`, concatArgs(pArgs, lArgs, cArgs, []interface{}{topListLimit})...)
	if err != nil {
		return nil, err
	}
	stats.MostActive = make([]model.ActiveUser, 0)
	for rows.Next() {
		var a model.ActiveUser
		if err := rows.Scan(&a.UserID, &a.Username, &a.TotalPosts, &a.TotalLikes, &a.TotalComments); err != nil {
			rows.Close()
			return nil, err
		}
		a.ActivityScore = model.ActivityScore(a.TotalPosts, a.TotalLikes, a.TotalComments)
		stats.MostActive = append(stats.MostActive, a)
	}
	rows.Close()

	// 折扣资格按实时获赞数计算，不受时间范围影响
	rows, err = r.db.Query(`
		SELECT id, username, tp, tl FROM (
			SELECT u.id, u.username,
				(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS tp,
				(SELECT COUNT(*) FROM likes l JOIN posts p ON l.post_id = p.id WHERE p.user_id = u.id) AS tl
			FROM users u
		) x
		WHERE tl >= ?
		ORDER BY tl DESC, id`, likeThreshold)
	if err != nil {
		return nil, err
	}
	stats.DiscountEligible = make([]model.ActiveUser, 0)
	for rows.Next() {
		var a model.ActiveUser
		if err := rows.Scan(&a.UserID, &a.Username, &a.TotalPosts, &a.TotalLikes); err != nil {
			rows.Close()
			return nil, err
		}
		stats.DiscountEligible = append(stats.DiscountEligible, a)
	}
	rows.Close()

	xWhere, xArgs := rangeClause("x.created_at", dr)
	rows, err = r.db.Query(`
		SELECT HOUR(x.created_at) AS h, DAYOFWEEK(x.created_at) AS dow, COUNT(*) FROM (
			SELECT created_at FROM posts
			UNION ALL SELECT created_at FROM likes
			UNION ALL SELECT created_at FROM comments
			UNION ALL SELECT created_at FROM favorites
		) x
		WHERE `+xWhere+`
		GROUP BY h, dow ORDER BY dow, h`, xArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats.EngagementMap = make([]model.HeatmapCell, 0)
	for rows.Next() {
		var cell model.HeatmapCell
		if err := rows.Scan(&cell.Hour, &cell.DayOfWeek, &cell.Count); err != nil {
			return nil, err
		}
		stats.EngagementMap = append(stats.EngagementMap, cell)
	}
	return stats, rows.Err()
}

func (r *analyticsRepository) TimeSeries(dr model.DateRange) (*model.TimeSeriesAnalytics, error) {
	ts := &model.TimeSeriesAnalytics{}

	dWhere, dArgs := rangeClause("d.created_at", dr)
	var err error
	if ts.DesignsOverTime, err = r.dateCounts(`
		SELECT `+bucket("d.created_at")+` AS day, COUNT(*) FROM designs d
		WHERE `+dWhere+` GROUP BY day ORDER BY day`, dArgs...); err != nil {
		return nil, err
	}

	xWhere, xArgs := rangeClause("x.created_at", dr)
	rows, err := r.db.Query(`
		SELECT `+bucket("x.created_at")+` AS day,
			SUM(x.kind = 'like'), SUM(x.kind = 'comment'), SUM(x.kind = 'favorite')
		FROM (
			SELECT created_at, 'like' AS kind FROM likes
			UNION ALL SELECT created_at, 'comment' FROM comments
			UNION ALL SELECT created_at, 'favorite' FROM favorites
		) x
		WHERE `+xWhere+`
		GROUP BY day ORDER BY day`, xArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ts.EngagementOverTime = make([]model.EngagementPoint, 0)
	for rows.Next() {
		var p model.EngagementPoint
		if err := rows.Scan(&p.Date, &p.Likes, &p.Comments, &p.Favorites); err != nil {
			return nil, err
		}
		ts.EngagementOverTime = append(ts.EngagementOverTime, p)
	}
	return ts, rows.Err()
}
