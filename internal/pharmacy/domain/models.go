package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// CanTransition reports whether an order may move between statuses.
// Delivered and cancelled are terminal.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case OrderPlaced:
		return to == OrderShipped || to == OrderCancelled
	case OrderShipped:
		return to == OrderDelivered
	default:
		return false
	}
}

type Medicine struct {
	ID          snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	Name        string       `json:"name" gorm:"column:name;uniqueIndex"`
	Description string       `json:"description" gorm:"column:description"`
	PriceCents  int64        `json:"priceCents" gorm:"column:price_cents"`
	Stock       int          `json:"stock" gorm:"column:stock"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (Medicine) TableName() string {
	return "medicines"
}

type CartItem struct {
	ID         snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	UserID     string       `json:"userId" gorm:"column:user_id;uniqueIndex:idx_cart_user_medicine"`
	MedicineID snowflake.ID `json:"medicineId" gorm:"column:medicine_id;uniqueIndex:idx_cart_user_medicine"`
	Quantity   int          `json:"quantity" gorm:"column:quantity"`
	CreatedAt  time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt  time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID         snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	UserID     string       `json:"userId" gorm:"column:user_id;index"`
	TotalCents int64        `json:"totalCents" gorm:"column:total_cents"`
	Status     OrderStatus  `json:"status" gorm:"column:status"`
	Items      []OrderItem  `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt  time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID             snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	OrderID        snowflake.ID `json:"orderId" gorm:"column:order_id;index"`
	MedicineID     snowflake.ID `json:"medicineId" gorm:"column:medicine_id"`
	Name           string       `json:"name" gorm:"column:name"`
	UnitPriceCents int64        `json:"unitPriceCents" gorm:"column:unit_price_cents"`
	Quantity       int          `json:"quantity" gorm:"column:quantity"`
	CreatedAt      time.Time    `json:"createdAt" gorm:"column:created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
