package interfaces

import "artcase-backend/internal/model"

type DesignRepository interface {
	Create(design *model.Design) error
	GetByID(id int) (*model.Design, error)
	ListByUser(userID int) ([]*model.Design, error)
	UpdateClassification(id int, c model.Classification) error
	// Claim 把匿名设计归属给用户，只有 user_id 为空时才会生效
	Claim(designID, userID int) (bool, error)
	Delete(id int) error
}
