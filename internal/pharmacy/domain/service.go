package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CreateMedicineRequest struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

type CartMutationRequest struct {
	UserID     string
	MedicineID string
	Quantity   int
}

type OrderTransitionRequest struct {
	ID     string
	Status OrderStatus
	Actor  string
}

type Service interface {
	CreateMedicine(ctx context.Context, req CreateMedicineRequest) (Medicine, error)
	ListMedicines(ctx context.Context) ([]Medicine, error)
	GetMedicine(ctx context.Context, id string) (Medicine, error)

	// AddToCart inserts the item or bumps the quantity of an existing one.
	AddToCart(ctx context.Context, req CartMutationRequest) (CartItem, error)
	// SetCartQuantity replaces the quantity; zero removes the item.
	SetCartQuantity(ctx context.Context, req CartMutationRequest) error
	GetCart(ctx context.Context, userID string) ([]CartItem, error)
	ClearCart(ctx context.Context, userID string) error

	// Checkout turns the user's cart into an order. Line totals come from
	// the catalog at checkout time, never from the client.
	Checkout(ctx context.Context, userID string) (Order, error)
	ListOrders(ctx context.Context, userID string) ([]Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (Order, error)
	TransitionOrder(ctx context.Context, req OrderTransitionRequest) (Order, error)
}

type Repository interface {
	InsertMedicine(ctx context.Context, db *gorm.DB, med *Medicine) error
	ListMedicines(ctx context.Context, db *gorm.DB) ([]Medicine, error)
	FindMedicineByID(ctx context.Context, db *gorm.DB, id int64) (*Medicine, error)
	FindMedicineByName(ctx context.Context, db *gorm.DB, name string) (*Medicine, error)

	UpsertCartItem(ctx context.Context, db *gorm.DB, item *CartItem) error
	FindCartItem(ctx context.Context, db *gorm.DB, userID string, medicineID int64) (*CartItem, error)
	ListCartItems(ctx context.Context, db *gorm.DB, userID string) ([]CartItem, error)
	UpdateCartQuantity(ctx context.Context, db *gorm.DB, userID string, medicineID int64, quantity int, updatedAt time.Time) (int64, error)
	DeleteCartItem(ctx context.Context, db *gorm.DB, userID string, medicineID int64) (int64, error)
	ClearCart(ctx context.Context, db *gorm.DB, userID string) error

	InsertOrder(ctx context.Context, db *gorm.DB, order *Order) error
	FindOrderByID(ctx context.Context, db *gorm.DB, id int64) (*Order, error)
	ListOrdersByUser(ctx context.Context, db *gorm.DB, userID string) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, db *gorm.DB, id int64, status OrderStatus, updatedAt time.Time) (int64, error)
}

var (
	ErrInvalidUser       = errors.New("invalid_user")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidPrice      = errors.New("invalid_price")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidID         = errors.New("invalid_id")
	ErrMedicineTaken     = errors.New("medicine_taken")
	ErrEmptyCart         = errors.New("empty_cart")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrNotFound          = errors.New("not_found")
)
