package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/notify"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, client.Migrate(db))
	return db
}

type stubPaymentClient struct {
	createFn   func(ctx context.Context, amount int64, currency string, metadata map[string]string) (*client.PaymentIntent, error)
	retrieveFn func(ctx context.Context, intentID string) (*client.PaymentIntent, error)
	refundFn   func(ctx context.Context, intentID, reason string) (*client.Refund, error)
	verifyFn   func(payload []byte, signature string) (*client.WebhookEvent, error)
}

func (s *stubPaymentClient) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*client.PaymentIntent, error) {
	if s.createFn != nil {
		return s.createFn(ctx, amount, currency, metadata)
	}
	return nil, errors.New("not implemented")
}

func (s *stubPaymentClient) RetrieveIntent(ctx context.Context, intentID string) (*client.PaymentIntent, error) {
	if s.retrieveFn != nil {
		return s.retrieveFn(ctx, intentID)
	}
	return nil, errors.New("not implemented")
}

func (s *stubPaymentClient) CreateRefund(ctx context.Context, intentID, reason string) (*client.Refund, error) {
	if s.refundFn != nil {
		return s.refundFn(ctx, intentID, reason)
	}
	return nil, errors.New("not implemented")
}

func (s *stubPaymentClient) VerifyWebhook(payload []byte, signature string) (*client.WebhookEvent, error) {
	if s.verifyFn != nil {
		return s.verifyFn(payload, signature)
	}
	return nil, errors.New("not implemented")
}

type sentNotification struct {
	kind    notify.Kind
	orderID uint
}

type stubNotifier struct {
	sent []sentNotification
	err  error
}

func (s *stubNotifier) Send(kind notify.Kind, order *model.Order) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentNotification{kind: kind, orderID: order.ID})
	return nil
}

type stubCartRepo struct {
	cart    *model.Cart
	items   []*model.CartItem
	cleared bool
}

func (s *stubCartRepo) FindBySessionToken(ctx context.Context, sessionToken string) (*model.Cart, error) {
	if s.cart == nil || s.cart.SessionToken != sessionToken {
		return nil, gorm.ErrRecordNotFound
	}
	cart := *s.cart
	cart.Items = nil
	for _, item := range s.items {
		cart.Items = append(cart.Items, *item)
	}
	return &cart, nil
}

func (s *stubCartRepo) Create(ctx context.Context, cart *model.Cart) error {
	cart.ID = 1
	s.cart = cart
	return nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, cartID, itemID uint) (*model.CartItem, error) {
	for _, item := range s.items {
		if item.ID == itemID && item.CartID == cartID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindItemByKey(ctx context.Context, cartID, productID uint, size string) (*model.CartItem, error) {
	for _, item := range s.items {
		if item.CartID == cartID && item.ProductID == productID && item.Size == size {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *model.CartItem) error {
	item.ID = uint(len(s.items) + 1)
	s.items = append(s.items, item)
	return nil
}

func (s *stubCartRepo) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	for _, item := range s.items {
		if item.ID == itemID {
			item.Quantity = quantity
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, itemID uint) error {
	for i, item := range s.items {
		if item.ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubCartRepo) ItemsForUpdate(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error) {
	return s.items, nil
}

func (s *stubCartRepo) ClearItems(ctx context.Context, tx *gorm.DB, cartID uint) error {
	s.cleared = true
	s.items = nil
	return nil
}

type stubOrderRepo struct {
	nextID     uint
	orders     map[uint]*model.Order
	orderItems map[uint][]*model.OrderItem
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		nextID:     1,
		orders:     map[uint]*model.Order{},
		orderItems: map[uint][]*model.OrderItem{},
	}
}

func (s *stubOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	for _, existing := range s.orders {
		if existing.PaymentIntentID == order.PaymentIntentID {
			return gorm.ErrDuplicatedKey
		}
	}
	order.ID = s.nextID
	s.nextID++
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	for _, item := range items {
		s.orderItems[item.OrderID] = append(s.orderItems[item.OrderID], item)
	}
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	for _, item := range s.orderItems[orderID] {
		copied.Items = append(copied.Items, *item)
	}
	return &copied, nil
}

func (s *stubOrderRepo) FindByIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	for _, order := range s.orders {
		if order.PaymentIntentID == intentID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	return s.FindByID(ctx, orderID)
}

func (s *stubOrderRepo) FindByIntentIDForUpdate(ctx context.Context, tx *gorm.DB, intentID string) (*model.Order, error) {
	return s.FindByIntentID(ctx, intentID)
}

func (s *stubOrderRepo) UpdateStatuses(ctx context.Context, tx *gorm.DB, orderID uint, fulfillment model.FulfillmentStatus, payment model.PaymentStatus) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.FulfillmentStatus = fulfillment
	order.PaymentStatus = payment
	return nil
}

func (s *stubOrderRepo) UpdateFulfillment(ctx context.Context, tx *gorm.DB, orderID uint, fulfillment model.FulfillmentStatus, trackingNumber, trackingURL string) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.FulfillmentStatus = fulfillment
	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}
	if trackingURL != "" {
		order.TrackingURL = trackingURL
	}
	return nil
}

func (s *stubOrderRepo) UpdatePayment(ctx context.Context, tx *gorm.DB, orderID uint, payment model.PaymentStatus) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.PaymentStatus = payment
	return nil
}

func (s *stubOrderRepo) ListByCustomer(ctx context.Context, customerID uint) ([]*model.Order, error) {
	var orders []*model.Order
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			copied := *order
			orders = append(orders, &copied)
		}
	}
	return orders, nil
}

func (s *stubOrderRepo) ListAll(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	for _, order := range s.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

type stubCustomerRepo struct {
	customers map[string]*model.Customer
	nextID    uint
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: map[string]*model.Customer{}, nextID: 1}
}

func (s *stubCustomerRepo) FindByID(ctx context.Context, customerID uint) (*model.Customer, error) {
	for _, customer := range s.customers {
		if customer.ID == customerID {
			return customer, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomerRepo) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	customer, ok := s.customers[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (s *stubCustomerRepo) GetOrCreate(ctx context.Context, email, name string) (*model.Customer, error) {
	if customer, ok := s.customers[email]; ok {
		return customer, nil
	}
	customer := &model.Customer{ID: s.nextID, Email: email, Name: name}
	s.nextID++
	s.customers[email] = customer
	return customer, nil
}

func (s *stubCustomerRepo) List(ctx context.Context) ([]*model.Customer, error) {
	var customers []*model.Customer
	for _, customer := range s.customers {
		customers = append(customers, customer)
	}
	return customers, nil
}
