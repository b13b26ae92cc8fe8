package dto

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

type AddItemRequest struct {
	ProductID uint   `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the uniform envelope the cart mutation endpoints return.
type CartResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message,omitempty"`
	CartTotal int     `json:"cart_total"`
	CartPrice float64 `json:"cart_price,omitempty"`
}

type CartItemView struct {
	ID          uint    `json:"id"`
	ProductName string  `json:"product_name"`
	ProductSlug string  `json:"product_slug"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

type CartView struct {
	Items      []CartItemView `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice float64        `json:"total_price"`
}

type CheckoutResponse struct {
	PaymentIntentID string  `json:"payment_intent_id"`
	ClientSecret    string  `json:"client_secret"`
	PublishableKey  string  `json:"publishable_key"`
	Amount          float64 `json:"amount"`
}

type ConfirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ShippingAddress string `json:"shipping_address"`
}

type ConfirmResponse struct {
	Success bool   `json:"success"`
	OrderID uint   `json:"order_id"`
	Message string `json:"message"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	TrackingURL    string `json:"tracking_url,omitempty"`
}

type ProductRequest struct {
	CategoryID     uint    `json:"category_id"`
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
	AvailableSizes string  `json:"available_sizes"`
	Active         bool    `json:"active"`
}

type ProductView struct {
	ID          uint     `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Sizes       []string `json:"sizes"`
	Active      bool     `json:"active"`
	Category    string   `json:"category,omitempty"`
}

func NewProductView(p *model.Product) ProductView {
	price, _ := p.Price.Float64()
	return ProductView{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Stock:       p.Stock,
		Sizes:       p.SizeList(),
		Active:      p.Active,
		Category:    p.Category.Name,
	}
}

func NewCartView(cart *model.Cart) CartView {
	view := CartView{
		Items:      make([]CartItemView, 0, len(cart.Items)),
		TotalItems: cart.TotalItems(),
	}
	view.TotalPrice, _ = cart.TotalPrice().Float64()

	for _, item := range cart.Items {
		price, _ := item.Product.Price.Float64()
		total, _ := item.Product.Price.Mul(decimalFromInt(item.Quantity)).Float64()
		view.Items = append(view.Items, CartItemView{
			ID:          item.ID,
			ProductName: item.Product.Name,
			ProductSlug: item.Product.Slug,
			Size:        item.Size,
			Quantity:    item.Quantity,
			Price:       price,
			Total:       total,
		})
	}

	return view
}

type OrderItemView struct {
	ProductName string  `json:"product_name"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderView struct {
	ID                uint            `json:"id"`
	FulfillmentStatus string          `json:"status"`
	PaymentStatus     string          `json:"payment_status"`
	TotalAmount       float64         `json:"total_amount"`
	ShippingAddress   string          `json:"shipping_address"`
	TrackingNumber    string          `json:"tracking_number,omitempty"`
	TrackingURL       string          `json:"tracking_url,omitempty"`
	CreatedAt         string          `json:"created_at"`
	CustomerEmail     string          `json:"customer_email,omitempty"`
	Items             []OrderItemView `json:"items,omitempty"`
}

func NewOrderView(o *model.Order) OrderView {
	total, _ := o.TotalAmount.Float64()
	view := OrderView{
		ID:                o.ID,
		FulfillmentStatus: string(o.FulfillmentStatus),
		PaymentStatus:     string(o.PaymentStatus),
		TotalAmount:       total,
		ShippingAddress:   o.ShippingAddress,
		TrackingNumber:    o.TrackingNumber,
		TrackingURL:       o.TrackingURL,
		CreatedAt:         o.CreatedAt.Format("2006-01-02 15:04:05"),
		CustomerEmail:     o.Customer.Email,
	}
	for _, item := range o.Items {
		price, _ := item.Price.Float64()
		view.Items = append(view.Items, OrderItemView{
			ProductName: item.Product.Name,
			Size:        item.Size,
			Quantity:    item.Quantity,
			Price:       price,
		})
	}
	return view
}
