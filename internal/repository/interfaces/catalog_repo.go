package interfaces

import "artcase-backend/internal/model"

type PhoneProductRepository interface {
	List() ([]*model.PhoneProduct, error)
	GetByID(id int) (*model.PhoneProduct, error)
	Create(p *model.PhoneProduct) error
	// Update 同时把库存和价格同步到同型号同类型的设计，返回受影响的设计数量
	Update(p *model.PhoneProduct) (int64, error)
	Delete(id int) error
	// Upsert 按 (type, model) 插入或更新，返回是否新建
	Upsert(p *model.PhoneProduct) (bool, error)
	UpdateURL(id int, url string) error
}
