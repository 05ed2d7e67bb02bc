package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	stderrors "errors"
)

const mostAddedLimit = 10

type CartService struct {
	repo       interfaces.CartRepository
	designRepo interfaces.DesignRepository
	discounts  *DiscountService
}

func NewCartService(repo interfaces.CartRepository, designRepo interfaces.DesignRepository, discounts *DiscountService) *CartService {
	return &CartService{repo: repo, designRepo: designRepo, discounts: discounts}
}

// AddToCart 价格在加入时按折扣确定，之后不再变化
func (s *CartService) AddToCart(userID, designID int) (*model.CartItem, error) {
	design, err := s.designRepo.GetByID(designID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load design", err)
	}
	if design == nil {
		return nil, errors.New(errors.ErrDesignNotFound, "Design not found")
	}

	price, err := s.discounts.ApplyDiscount(design.Price, userID)
	if err != nil {
		return nil, err
	}

	item := &model.CartItem{UserID: userID, DesignID: designID, Price: price, Design: design}
	if err := s.repo.Add(item); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.New(errors.ErrResourceExists, "This item is already in your cart.")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to add item to cart", err)
	}
	return item, nil
}

func (s *CartService) ViewCart(userID int) ([]*model.CartItem, error) {
	items, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load cart", err)
	}
	return items, nil
}

// RemoveFromCart 只能删除自己的购物车条目
func (s *CartService) RemoveFromCart(itemID, userID int) error {
	deleted, err := s.repo.Delete(itemID, userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "Failed to remove item from cart", err)
	}
	if !deleted {
		return errors.New(errors.ErrResourceNotFound, "Cart item not found")
	}
	return nil
}

// MostAddedDesigns 被加入购物车最多的 10 个设计
func (s *CartService) MostAddedDesigns() ([]*model.DesignRanking, error) {
	ranking, err := s.repo.MostAdded(mostAddedLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load ranking", err)
	}
	return ranking, nil
}
