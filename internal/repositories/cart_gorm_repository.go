package repositories

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/models"

	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) GetOrCreate(ctx context.Context, customerID uint) (*models.Cart, error) {
	db := r.db.WithContext(ctx)
	var cart models.Cart
	err := db.Where("customer_id = ?", customerID).
		FirstOrCreate(&cart, models.Cart{CustomerID: customerID}).Error
	if errors.Is(translateError(err), ErrConflict) {
		// Lost the race against a concurrent first request.
		err = db.Where("customer_id = ?", customerID).First(&cart).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart of customer %d: %w", customerID, err)
	}
	if err := db.Where("cart_id = ?", cart.ID).Order("id").Find(&cart.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	return &cart, nil
}

func (r *GORMCartRepository) AddItem(ctx context.Context, cartID, productID uint, quantity int) (*models.CartItem, error) {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.CartItem{}).
				Where("cart_id = ? AND product_id = ?", cartID, productID).
				Update("quantity", gorm.Expr("quantity + ?", quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				return nil
			}
			return tx.Create(&models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}).Error
		})
		if !errors.Is(translateError(err), ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add product %d to cart %d: %w", productID, cartID, translateError(err))
	}

	var item models.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to reload cart item: %w", err)
	}
	return &item, nil
}

func (r *GORMCartRepository) SetItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("cart item", itemID)
	}
	return nil
}

func (r *GORMCartRepository) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	res := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}, itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("cart item", itemID)
	}
	return nil
}

func (r *GORMCartRepository) RemoveProducts(ctx context.Context, cartID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id IN ?", cartID, productIDs).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove products from cart: %w", err)
	}
	return nil
}

func (r *GORMCartRepository) Clear(ctx context.Context, cartID uint) error {
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
