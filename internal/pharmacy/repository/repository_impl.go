package repository

import (
	"context"
	"errors"
	"time"

	"github.com/carelinkhq/carelink/internal/pharmacy/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertMedicine(ctx context.Context, db *gorm.DB, med *domain.Medicine) error {
	return db.WithContext(ctx).Create(med).Error
}

func (r *repo) ListMedicines(ctx context.Context, db *gorm.DB) ([]domain.Medicine, error) {
	var meds []domain.Medicine
	err := db.WithContext(ctx).
		Model(&domain.Medicine{}).
		Order("name asc").
		Find(&meds).Error
	if err != nil {
		return nil, err
	}
	return meds, nil
}

func (r *repo) FindMedicineByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Medicine, error) {
	var med domain.Medicine
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&med).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &med, nil
}

func (r *repo) FindMedicineByName(ctx context.Context, db *gorm.DB, name string) (*domain.Medicine, error) {
	var med domain.Medicine
	err := db.WithContext(ctx).
		Where("name = ?", name).
		First(&med).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &med, nil
}

func (r *repo) UpsertCartItem(ctx context.Context, db *gorm.DB, item *domain.CartItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindCartItem(ctx context.Context, db *gorm.DB, userID string, medicineID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := db.WithContext(ctx).
		Where("user_id = ? AND medicine_id = ?", userID, medicineID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) ListCartItems(ctx context.Context, db *gorm.DB, userID string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateCartQuantity(ctx context.Context, db *gorm.DB, userID string, medicineID int64, quantity int, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("user_id = ? AND medicine_id = ?", userID, medicineID).
		Updates(map[string]any{
			"quantity":   quantity,
			"updated_at": updatedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *repo) DeleteCartItem(ctx context.Context, db *gorm.DB, userID string, medicineID int64) (int64, error) {
	result := db.WithContext(ctx).
		Where("user_id = ? AND medicine_id = ?", userID, medicineID).
		Delete(&domain.CartItem{})
	return result.RowsAffected, result.Error
}

func (r *repo) ClearCart(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.CartItem{}).Error
}

func (r *repo) InsertOrder(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindOrderByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) ListOrdersByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) UpdateOrderStatus(ctx context.Context, db *gorm.DB, id int64, status domain.OrderStatus, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		})
	return result.RowsAffected, result.Error
}
