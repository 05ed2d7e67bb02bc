package mysql

import (
	"artcase-backend/internal/model"
	"artcase-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

type designRepository struct {
	db *sql.DB
}

func NewDesignRepository(db *sql.DB) *designRepository {
	return &designRepository{db: db}
}

const designColumns = `d.id, d.user_id, d.image_url, d.model, d.type, d.sku, d.stock, d.price,
	d.class, d.color1, d.color2, d.color3, d.created_at`

func designDest(d *model.Design, userID *sql.NullInt64) []interface{} {
	return []interface{}{
		&d.ID, userID, &d.ImageURL, &d.Model, &d.Type, &d.SKU, &d.Stock, &d.Price,
		&d.Class, &d.Color1, &d.Color2, &d.Color3, &d.CreatedAt,
	}
}

func scanDesign(s rowScanner) (*model.Design, error) {
	var d model.Design
	var userID sql.NullInt64
	if err := s.Scan(designDest(&d, &userID)...); err != nil {
		return nil, err
	}
	d.UserID = intPtr(userID)
	return &d, nil
}

func (r *designRepository) Create(design *model.Design) error {
	result, err := r.db.Exec(`
		INSERT INTO designs (user_id, image_url, model, type, sku, stock, price, class, color1, color2, color3)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullInt(design.UserID), design.ImageURL, design.Model, design.Type, design.SKU, design.Stock,
		design.Price, design.Class, design.Color1, design.Color2, design.Color3)
	if err != nil {
		util.Logger.Error("创建设计失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	design.ID = int(id)
	util.Logger.Info("设计创建成功", zap.Int("design_id", design.ID), zap.Bool("anonymous", design.IsAnonymous()))
	return nil
}

func (r *designRepository) GetByID(id int) (*model.Design, error) {
	d, err := scanDesign(r.db.QueryRow(`SELECT `+designColumns+` FROM designs d WHERE d.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (r *designRepository) ListByUser(userID int) ([]*model.Design, error) {
	rows, err := r.db.Query(`SELECT `+designColumns+` FROM designs d WHERE d.user_id = ? ORDER BY d.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var designs []*model.Design
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

func (r *designRepository) UpdateClassification(id int, c model.Classification) error {
	_, err := r.db.Exec(`UPDATE designs SET class = ?, color1 = ?, color2 = ?, color3 = ? WHERE id = ?`,
		c.Category, c.Color1, c.Color2, c.Color3, id)
	return err
}

// Claim 条件更新保证匿名设计只能被认领一次
func (r *designRepository) Claim(designID, userID int) (bool, error) {
	result, err := r.db.Exec(`UPDATE designs SET user_id = ? WHERE id = ? AND user_id IS NULL`, userID, designID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		util.Logger.Info("匿名设计已认领", zap.Int("design_id", designID), zap.Int("user_id", userID))
	}
	return n == 1, nil
}

func (r *designRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM designs WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除设计失败", zap.Int("design_id", id), zap.Error(err))
		return err
	}
	util.Logger.Info("设计已删除", zap.Int("design_id", id))
	return nil
}
