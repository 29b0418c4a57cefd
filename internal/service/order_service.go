package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore is the order repository surface the services depend on.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error)
	OrderStats(ctx context.Context) (total int64, revenue float64, pending int64, err error)
	RecentOrders(ctx context.Context, n int) ([]models.Order, error)
}

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// Admin order listing limits.
const (
	DefaultOrderPageLimit = 50
	MaxOrderPageLimit     = 200
	recentOrdersCount     = 10
)

// OrderService handles order assembly, admin order management and dashboard
// stats.
type OrderService struct {
	products  ProductStore
	orders    OrderStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(products ProductStore, orders OrderStore, publisher EventPublisher) *OrderService {
	return &OrderService{
		products:  products,
		orders:    orders,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateOrderRequest represents a request to create an order. The total is
// taken from the client as-is and is not recomputed against snapshot prices.
type CreateOrderRequest struct {
	CustomerName  string            `json:"customer_name" binding:"required"`
	CustomerEmail string            `json:"customer_email" binding:"required,email"`
	CustomerPhone string            `json:"customer_phone" binding:"required"`
	UserID        string            `json:"user_id"`
	Items         []CartItemRequest `json:"items" binding:"required,min=1,dive"`
	Total         float64           `json:"total"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
}

// CartItemRequest is a transient cart entry; it is never persisted as-is.
type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrder resolves every cart item against the current catalog and
// freezes name, primary image and unit price into line-item snapshots. If
// any product id cannot be resolved the whole order is aborted; nothing is
// persisted. Later product edits or deletes never touch the snapshots.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			var nf *store.NotFoundError
			if errors.As(err, &nf) {
				util.OrdersFailedTotal.WithLabelValues("unknown_product").Inc()
				return nil, validationErr(fmt.Sprintf("Product not found: %s", item.ProductID))
			}
			util.OrdersFailedTotal.WithLabelValues("store_error").Inc()
			return nil, err
		}

		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			Quantity:     item.Quantity,
			ProductName:  product.Name,
			ProductImage: product.ImageURL,
			ProductPrice: product.Price,
		})
	}

	order := &models.Order{
		ID:            uuid.New().String(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		UserID:        req.UserID,
		Items:         items,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total))

	s.publishCreated(ctx, order)
	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

// OrderPage is a page of the admin order listing.
type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ListOrders returns a page of orders for the admin surface. The limit is
// clamped to MaxOrderPageLimit; a non-empty status filter must be a valid
// status.
func (s *OrderService) ListOrders(ctx context.Context, status string, limit, offset int) (*OrderPage, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, invalidStatusErr(status)
	}
	if limit <= 0 {
		limit = DefaultOrderPageLimit
	}
	if limit > MaxOrderPageLimit {
		limit = MaxOrderPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	orders, total, err := s.orders.ListOrders(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Orders: orders, Total: total, Limit: limit, Offset: offset}, nil
}

// UpdateStatus sets an order's status after validating it against the fixed
// set. Any valid status may be set from any current status; the transition
// graph is not enforced.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, invalidStatusErr(status)
	}

	current, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("old_status", current.Status),
		zap.String("new_status", status))

	s.publishStatusChanged(ctx, updated, current.Status)
	return updated, nil
}

// Stats recomputes the dashboard aggregates from the live repositories on
// every call; nothing is cached.
func (s *OrderService) Stats(ctx context.Context) (*models.Stats, error) {
	totalOrders, revenue, pending, err := s.orders.OrderStats(ctx)
	if err != nil {
		return nil, err
	}

	totalProducts, err := s.products.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.orders.RecentOrders(ctx, recentOrdersCount)
	if err != nil {
		return nil, err
	}

	return &models.Stats{
		TotalRevenue:  revenue,
		TotalOrders:   totalOrders,
		TotalProducts: totalProducts,
		PendingOrders: pending,
		RecentOrders:  recent,
	}, nil
}

func invalidStatusErr(status string) error {
	return validationErr(fmt.Sprintf("Invalid status %q; must be one of: %s",
		status, strings.Join(models.OrderStatuses, ", ")))
}

func (s *OrderService) publishCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	eventItems := make([]models.OrderItemData, 0, len(order.Items))
	for _, item := range order.Items {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
		})
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now().UTC(),
		},
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
		Items:         eventItems,
	}

	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, order *models.Order, oldStatus string) {
	if s.publisher == nil {
		return
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now().UTC(),
		},
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		OldStatus:     oldStatus,
		NewStatus:     order.Status,
	}

	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}
