package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/mocks"
	"storefront-service/internal/models"
	"storefront-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, ms *mocks.MemStore, id, name, image string, price float64) {
	t.Helper()
	err := ms.CreateProduct(context.Background(), &models.Product{
		ID:        id,
		Name:      name,
		Price:     price,
		Images:    []string{image},
		ImageURL:  image,
		InStock:   true,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func validOrderRequest(items ...CartItemRequest) *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName:  "Priya Sharma",
		CustomerEmail: "priya@example.com",
		CustomerPhone: "+91 98765 43210",
		Items:         items,
		Total:         4798,
		PaymentMethod: "cod",
	}
}

func TestCreateOrderSnapshotsProducts(t *testing.T) {
	ms := mocks.NewMemStore()
	pub := &mocks.RecordingPublisher{}
	svc := NewOrderService(ms, ms, pub)

	seedProduct(t, ms, "p1", "Midnight Blue Saree", "img-a", 2499)
	seedProduct(t, ms, "p2", "Pink Dream Saree", "img-b", 2299)

	order, err := svc.CreateOrder(context.Background(), validOrderRequest(
		CartItemRequest{ProductID: "p2", Quantity: 1},
		CartItemRequest{ProductID: "p1", Quantity: 2},
	))
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 4798.0, order.Total)

	// Line items preserve cart order and freeze current product state.
	require.Len(t, order.Items, 2)
	assert.Equal(t, "p2", order.Items[0].ProductID)
	assert.Equal(t, "Pink Dream Saree", order.Items[0].ProductName)
	assert.Equal(t, "img-b", order.Items[0].ProductImage)
	assert.Equal(t, 2299.0, order.Items[0].ProductPrice)
	assert.Equal(t, "p1", order.Items[1].ProductID)
	assert.Equal(t, 2, order.Items[1].Quantity)

	require.Len(t, pub.Created, 1)
	assert.Equal(t, order.ID, pub.Created[0].OrderID)
	assert.Equal(t, models.EventTypeOrderCreated, pub.Created[0].EventType)
}

func TestOrderSnapshotImmutableAfterProductEdit(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := NewOrderService(ms, ms, &mocks.RecordingPublisher{})

	seedProduct(t, ms, "p1", "Original Name", "img-old", 2499)

	order, err := svc.CreateOrder(context.Background(), validOrderRequest(
		CartItemRequest{ProductID: "p1", Quantity: 1},
	))
	require.NoError(t, err)

	// Edit the product after the order was created.
	newName := "Renamed Saree"
	newPrice := 999.0
	newImages := []string{"img-new"}
	newImageURL := "img-new"
	_, err = ms.UpdateProduct(context.Background(), "p1", models.ProductPatch{
		Name:     &newName,
		Price:    &newPrice,
		Images:   &newImages,
		ImageURL: &newImageURL,
	})
	require.NoError(t, err)

	stored, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Original Name", stored.Items[0].ProductName)
	assert.Equal(t, "img-old", stored.Items[0].ProductImage)
	assert.Equal(t, 2499.0, stored.Items[0].ProductPrice)
}

func TestCreateOrderUnknownProductAborts(t *testing.T) {
	ms := mocks.NewMemStore()
	pub := &mocks.RecordingPublisher{}
	svc := NewOrderService(ms, ms, pub)

	seedProduct(t, ms, "p1", "Saree", "img", 2499)

	_, err := svc.CreateOrder(context.Background(), validOrderRequest(
		CartItemRequest{ProductID: "p1", Quantity: 1},
		CartItemRequest{ProductID: "missing", Quantity: 1},
	))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "missing")

	// Nothing persisted, nothing published.
	page, err := svc.ListOrders(context.Background(), "", 0, 0)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, pub.Created)
}

func TestUpdateStatus(t *testing.T) {
	ms := mocks.NewMemStore()
	pub := &mocks.RecordingPublisher{}
	svc := NewOrderService(ms, ms, pub)

	seedProduct(t, ms, "p1", "Saree", "img", 2499)
	order, err := svc.CreateOrder(context.Background(), validOrderRequest(
		CartItemRequest{ProductID: "p1", Quantity: 1},
	))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	require.Len(t, pub.StatusChanges, 1)
	assert.Equal(t, models.OrderStatusPending, pub.StatusChanges[0].OldStatus)
	assert.Equal(t, models.OrderStatusShipped, pub.StatusChanges[0].NewStatus)

	// No transition graph: a delivered order may go back to pending.
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	reopened, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, reopened.Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := NewOrderService(ms, ms, &mocks.RecordingPublisher{})

	_, err := svc.UpdateStatus(context.Background(), "any", "bogus")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	for _, status := range models.OrderStatuses {
		assert.Contains(t, ve.Message, status)
	}
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := NewOrderService(ms, ms, &mocks.RecordingPublisher{})

	_, err := svc.UpdateStatus(context.Background(), "nope", models.OrderStatusShipped)

	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Order", nf.Entity)
}

func TestStatsRevenueAndRecent(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := NewOrderService(ms, ms, &mocks.RecordingPublisher{})

	seedProduct(t, ms, "p1", "Saree", "img", 100)

	base := time.Now().UTC()
	for i := 0; i < 12; i++ {
		err := ms.CreateOrder(context.Background(), &models.Order{
			ID:        string(rune('a' + i)),
			Total:     float64(100 * (i + 1)),
			Status:    models.OrderStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			Items:     []models.OrderItem{},
		})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(12), stats.PendingOrders)
	assert.Equal(t, 7800.0, stats.TotalRevenue) // 100+200+...+1200

	// Ten most recent, newest first.
	require.Len(t, stats.RecentOrders, 10)
	assert.Equal(t, 1200.0, stats.RecentOrders[0].Total)
	assert.Equal(t, 300.0, stats.RecentOrders[9].Total)

	// Status updates must not change the revenue sum.
	_, err = svc.UpdateStatus(context.Background(), "a", models.OrderStatusCancelled)
	require.NoError(t, err)

	stats, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7800.0, stats.TotalRevenue)
	assert.Equal(t, int64(11), stats.PendingOrders)
}

func TestListOrdersClampsLimit(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := NewOrderService(ms, ms, &mocks.RecordingPublisher{})

	page, err := svc.ListOrders(context.Background(), "", 1000, -5)
	require.NoError(t, err)
	assert.Equal(t, MaxOrderPageLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)

	page, err = svc.ListOrders(context.Background(), "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultOrderPageLimit, page.Limit)

	_, err = svc.ListOrders(context.Background(), "bogus", 10, 0)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCreateOrderPublishFailureDoesNotFailOrder(t *testing.T) {
	ms := mocks.NewMemStore()
	pub := &mocks.RecordingPublisher{FailNextPublish: errors.New("kafka down")}
	svc := NewOrderService(ms, ms, pub)

	seedProduct(t, ms, "p1", "Saree", "img", 2499)

	order, err := svc.CreateOrder(context.Background(), validOrderRequest(
		CartItemRequest{ProductID: "p1", Quantity: 1},
	))
	require.NoError(t, err)

	stored, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
}
