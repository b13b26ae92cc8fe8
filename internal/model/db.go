package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type FulfillmentStatus string

const (
	FulfillmentPending    FulfillmentStatus = "pending"
	FulfillmentProcessing FulfillmentStatus = "processing"
	FulfillmentShipped    FulfillmentStatus = "shipped"
	FulfillmentDelivered  FulfillmentStatus = "delivered"
	FulfillmentCancelled  FulfillmentStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Slug        string `gorm:"size:100;uniqueIndex;not null"`
	Description string `gorm:"size:500"`
	CreatedAt   time.Time
}

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	CategoryID  uint   `gorm:"index;not null"`
	Slug        string `gorm:"size:200;uniqueIndex;not null"`
	Name        string `gorm:"size:200;not null"`
	Description string
	// unit price in major currency units, frozen onto order items at checkout
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock          int             `gorm:"not null;default:0"`
	AvailableSizes string          `gorm:"size:100"` // comma separated, e.g. "S,M,L,XL"
	Active         bool            `gorm:"index;not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Category Category `gorm:"constraint:OnDelete:RESTRICT"`
}

// SizeList splits AvailableSizes into individual size codes.
func (p *Product) SizeList() []string {
	if p.AvailableSizes == "" {
		return nil
	}
	parts := strings.Split(p.AvailableSizes, ",")
	sizes := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

// HasSize reports whether size is one of the product's configured sizes.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.SizeList() {
		if s == size {
			return true
		}
	}
	return false
}

type Customer struct {
	ID         uint   `gorm:"primaryKey"`
	Email      string `gorm:"size:255;uniqueIndex;not null"`
	Name       string `gorm:"size:200"`
	Phone      string `gorm:"size:32"`
	Address    string `gorm:"size:500"`
	City       string `gorm:"size:100"`
	PostalCode string `gorm:"size:16"`
	CreatedAt  time.Time
}

// Cart is session scoped: one row per session token, items cascade with it.
type Cart struct {
	ID           uint   `gorm:"primaryKey"`
	SessionToken string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []CartItem `gorm:"constraint:OnDelete:CASCADE"`
}

// TotalItems sums line quantities. Items must be preloaded.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums quantity times the live product price across lines.
// Cart lines do not freeze price; order items do.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// CartItem is keyed by (cart, product, size); re-adding the same pair merges
// quantities instead of creating a second row.
type CartItem struct {
	ID        uint   `gorm:"primaryKey"`
	CartID    uint   `gorm:"uniqueIndex:idx_cart_product_size;not null"`
	ProductID uint   `gorm:"uniqueIndex:idx_cart_product_size;not null"`
	Size      string `gorm:"size:16;uniqueIndex:idx_cart_product_size;not null"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product Product
}

type Order struct {
	ID                uint              `gorm:"primaryKey"`
	CustomerID        uint              `gorm:"index;not null"`
	FulfillmentStatus FulfillmentStatus `gorm:"size:32;index;not null"`
	PaymentStatus     PaymentStatus     `gorm:"size:32;index;not null"`
	// frozen at creation, never recomputed from items afterwards
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ShippingAddress string          `gorm:"size:500"`
	PaymentIntentID string          `gorm:"size:64;uniqueIndex"`
	ChargeID        string          `gorm:"size:64"`
	TrackingNumber  string          `gorm:"size:100"`
	TrackingURL     string          `gorm:"size:500"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Customer Customer
	Items    []OrderItem `gorm:"constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   uint   `gorm:"index;not null"`
	ProductID uint   `gorm:"index;not null"`
	Size      string `gorm:"size:16"`
	Quantity  int    `gorm:"not null"`
	// unit price snapshot at order creation
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time

	Product Product
}
