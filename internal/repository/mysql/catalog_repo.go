package mysql

import (
	"artcase-backend/internal/model"
	"artcase-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

type phoneProductRepository struct {
	db *sql.DB
}

func NewPhoneProductRepository(db *sql.DB) *phoneProductRepository {
	return &phoneProductRepository{db: db}
}

const phoneProductColumns = `id, type, model, price, stock, url, created_at, updated_at`

func scanPhoneProduct(s rowScanner) (*model.PhoneProduct, error) {
	var p model.PhoneProduct
	if err := s.Scan(&p.ID, &p.Type, &p.Model, &p.Price, &p.Stock, &p.URL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *phoneProductRepository) List() ([]*model.PhoneProduct, error) {
	rows, err := r.db.Query(`SELECT ` + phoneProductColumns + ` FROM phone_products ORDER BY type, model`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.PhoneProduct, 0)
	for rows.Next() {
		p, err := scanPhoneProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *phoneProductRepository) GetByID(id int) (*model.PhoneProduct, error) {
	p, err := scanPhoneProduct(r.db.QueryRow(`SELECT `+phoneProductColumns+` FROM phone_products WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *phoneProductRepository) Create(p *model.PhoneProduct) error {
	result, err := r.db.Exec(`INSERT INTO phone_products (type, model, price, stock, url) VALUES (?, ?, ?, ?, ?)`,
		p.Type, p.Model, p.Price, p.Stock, p.URL)
	if err != nil {
		return duplicateAware(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	util.Logger.Info("目录条目已创建", zap.Int("phone_product_id", p.ID), zap.String("model", p.Model))
	return nil
}

// Update 更新目录条目，并把库存与价格同步到同型号同类型的设计
func (r *phoneProductRepository) Update(p *model.PhoneProduct) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE phone_products SET type = ?, model = ?, price = ?, stock = ?, url = ? WHERE id = ?`,
		p.Type, p.Model, p.Price, p.Stock, p.URL, p.ID); err != nil {
		return 0, duplicateAware(err)
	}

	res, err := tx.Exec(`UPDATE designs SET stock = ?, price = ? WHERE model = ? AND type = ?`,
		p.Stock, p.Price, p.Model, p.Type)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	util.Logger.Info("目录条目已更新", zap.Int("phone_product_id", p.ID), zap.Int64("designs_synced", affected))
	return affected, nil
}

func (r *phoneProductRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM phone_products WHERE id = ?`, id)
	return err
}

// Upsert 依赖 (type, model) 唯一索引；MySQL 对新插入的行返回影响行数 1，更新返回 2，未变化返回 0
func (r *phoneProductRepository) Upsert(p *model.PhoneProduct) (bool, error) {
	res, err := r.db.Exec(`
		INSERT INTO phone_products (type, model, price, stock, url) VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE price = VALUES(price), stock = VALUES(stock), url = VALUES(url)`,
		p.Type, p.Model, p.Price, p.Stock, p.URL)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *phoneProductRepository) UpdateURL(id int, url string) error {
	_, err := r.db.Exec(`UPDATE phone_products SET url = ? WHERE id = ?`, url, id)
	return err
}
