package mysql

import (
	"artcase-backend/internal/model"
	"artcase-backend/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *cartRepository {
	return &cartRepository{db: db}
}

// Add 依赖 (user_id, design_id) 唯一索引拒绝重复加入
func (r *cartRepository) Add(item *model.CartItem) error {
	result, err := r.db.Exec(`INSERT INTO cart_items (user_id, design_id, price) VALUES (?, ?, ?)`,
		item.UserID, item.DesignID, item.Price)
	if err != nil {
		return duplicateAware(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = int(id)
	item.CreatedAt = time.Now()
	util.Logger.Info("加入购物车", zap.Int("user_id", item.UserID), zap.Int("design_id", item.DesignID))
	return nil
}

func (r *cartRepository) ListByUser(userID int) ([]*model.CartItem, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.user_id, c.design_id, c.price, c.created_at, `+designColumns+`
		FROM cart_items c
		JOIN designs d ON d.id = c.design_id
		WHERE c.user_id = ?
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*model.CartItem, 0)
	for rows.Next() {
		var item model.CartItem
		var design model.Design
		var designUser sql.NullInt64
		dest := append([]interface{}{&item.ID, &item.UserID, &item.DesignID, &item.Price, &item.CreatedAt},
			designDest(&design, &designUser)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		design.UserID = intPtr(designUser)
		item.Design = &design
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *cartRepository) Delete(id, userID int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MostAdded 被加入购物车次数最多的设计
func (r *cartRepository) MostAdded(limit int) ([]*model.DesignRanking, error) {
	rows, err := r.db.Query(`
		SELECT `+designColumns+`, COUNT(c.id) AS cart_count
		FROM cart_items c
		JOIN designs d ON d.id = c.design_id
		GROUP BY d.id
		ORDER BY cart_count DESC, d.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.DesignRanking
	for rows.Next() {
		var design model.Design
		var designUser sql.NullInt64
		var count int
		if err := rows.Scan(append(designDest(&design, &designUser), &count)...); err != nil {
			return nil, err
		}
		design.UserID = intPtr(designUser)
		result = append(result, &model.DesignRanking{Design: &design, Count: count})
	}
	return result, rows.Err()
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *orderRepository {
	return &orderRepository{db: db}
}

// Create 订单和订单项要么全部写入，要么全部回滚
func (r *orderRepository) Create(order *model.Order) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO orders (order_number, user_id, email, first_name, last_name, phone_number, address, city, country, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.OrderNumber, nullInt(order.UserID), order.Email, order.FirstName, order.LastName,
		order.PhoneNumber, order.Address, order.City, order.Country, order.Status)
	if err != nil {
		return duplicateAware(err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO order_items (order_id, product_id, name, image_url, price, type, model, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		res, err := stmt.Exec(orderID, item.ProductID, item.Name, item.ImageURL, item.Price, item.Type, item.Model, item.Quantity)
		if err != nil {
			util.Logger.Error("写入订单项失败", zap.Int64("order_id", orderID), zap.Error(err))
			return err
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		item.ID = int(itemID)
		item.OrderID = int(orderID)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	order.ID = int(orderID)
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	util.Logger.Info("订单创建成功", zap.Int("order_id", order.ID), zap.String("order_number", order.OrderNumber))
	return nil
}

const orderColumns = `id, order_number, user_id, email, first_name, last_name, phone_number,
	address, city, country, status, created_at, updated_at`

func scanOrder(s rowScanner) (*model.Order, error) {
	var o model.Order
	var userID sql.NullInt64
	err := s.Scan(&o.ID, &o.OrderNumber, &userID, &o.Email, &o.FirstName, &o.LastName, &o.PhoneNumber,
		&o.Address, &o.City, &o.Country, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.UserID = intPtr(userID)
	o.Items = []model.OrderItem{}
	return &o, nil
}

func (r *orderRepository) GetByID(id int) (*model.Order, error) {
	order, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, r.attachItems([]*model.Order{order})
}

func (r *orderRepository) listOrders(query string, args ...interface{}) ([]*model.Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, r.attachItems(orders)
}

func (r *orderRepository) attachItems(orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int]*model.Order, len(orders))
	args := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		args = append(args, o.ID)
	}

	rows, err := r.db.Query(`
		SELECT id, order_id, product_id, name, image_url, price, type, model, quantity
		FROM order_items WHERE order_id IN (`+placeholders(len(args))+`) ORDER BY id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.ImageURL,
			&item.Price, &item.Type, &item.Model, &item.Quantity); err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *orderRepository) ListByUser(userID int) ([]*model.Order, error) {
	return r.listOrders(`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (r *orderRepository) ListAll(page, pageSize int, status string) ([]*model.Order, int, error) {
	where := "1 = 1"
	var args []interface{}
	if status != "" && status != "all" {
		where = "status = ?"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	orders, err := r.listOrders(`SELECT `+orderColumns+` FROM orders WHERE `+where+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	return orders, total, err
}

// UpdateStatus 比较并更新，避免并发请求覆盖彼此的状态
func (r *orderRepository) UpdateStatus(id int, from, to model.OrderStatus) (bool, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		util.Logger.Error("更新订单状态失败", zap.Int("order_id", id), zap.Error(err))
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		util.Logger.Info("订单状态已更新", zap.Int("order_id", id),
			zap.String("from", string(from)), zap.String("to", string(to)))
	}
	return n > 0, nil
}

func (r *orderRepository) Claim(orderID, userID int) (bool, error) {
	res, err := r.db.Exec(`UPDATE orders SET user_id = ? WHERE id = ? AND user_id IS NULL`, userID, orderID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
