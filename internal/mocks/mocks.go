// Package mocks provides in-memory implementations of the store, cache and
// publisher surfaces for tests.
package mocks

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
)

// MemStore is an in-memory stand-in for the database store. It implements
// the ProductStore, OrderStore and AdminStore surfaces with the same
// observable semantics.
type MemStore struct {
	mu       sync.Mutex
	products map[string]models.Product
	orders   map[string]models.Order
	admins   map[string]models.Admin

	FailWrites bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
		admins:   make(map[string]models.Admin),
	}
}

type writeError struct{}

func (writeError) Error() string { return "simulated write failure" }

func matches(p models.Product, f models.ProductFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Material != "" && p.Material != f.Material {
		return false
	}
	if f.Color != "" && p.Color != f.Color {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

func (m *MemStore) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Product{}
	for _, p := range m.products {
		if !matches(p, f) {
			continue
		}
		if !f.IncludeDescription {
			p.Description = ""
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, &store.NotFoundError{Entity: "Product", ID: id}
	}
	return &p, nil
}

func (m *MemStore) CreateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return writeError{}
	}
	m.products[p.ID] = *p
	return nil
}

func (m *MemStore) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, &store.NotFoundError{Entity: "Product", ID: id}
	}
	patch.Apply(&p)
	m.products[id] = p
	return &p, nil
}

func (m *MemStore) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return &store.NotFoundError{Entity: "Product", ID: id}
	}
	delete(m.products, id)
	return nil
}

func (m *MemStore) CountProducts(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem{}, o.Items...)
	return o
}

func (m *MemStore) CreateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return writeError{}
	}
	m.orders[o.ID] = copyOrder(*o)
	return nil
}

func (m *MemStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, &store.NotFoundError{Entity: "Order", ID: id}
	}
	o = copyOrder(o)
	return &o, nil
}

func (m *MemStore) sortedOrders(status string) []models.Order {
	out := []models.Order{}
	for _, o := range m.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, copyOrder(o))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MemStore) ListOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.sortedOrders(status)
	total := int64(len(all))
	if offset >= len(all) {
		return []models.Order{}, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *MemStore) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, &store.NotFoundError{Entity: "Order", ID: id}
	}
	o.Status = status
	m.orders[id] = o
	o = copyOrder(o)
	return &o, nil
}

func (m *MemStore) OrderStats(ctx context.Context) (total int64, revenue float64, pending int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		total++
		revenue += o.Total
		if o.Status == models.OrderStatusPending {
			pending++
		}
	}
	return total, revenue, pending, nil
}

func (m *MemStore) RecentOrders(ctx context.Context, n int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.sortedOrders("")
	if n < len(all) {
		all = all[:n]
	}
	return all, nil
}

func (m *MemStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.admins[email]
	if !ok {
		return nil, &store.NotFoundError{Entity: "Admin", ID: email}
	}
	return &a, nil
}

// AddAdmin seeds an admin record directly.
func (m *MemStore) AddAdmin(a models.Admin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[a.Email] = a
}

// SetAdminActive flips the active flag of a seeded admin.
func (m *MemStore) SetAdminActive(email string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.admins[email]
	a.IsActive = active
	m.admins[email] = a
}

// RecordingPublisher captures published events for assertions.
type RecordingPublisher struct {
	mu              sync.Mutex
	Created         []*models.OrderCreatedEvent
	StatusChanges   []*models.OrderStatusChangedEvent
	FailNextPublish error
}

func (p *RecordingPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailNextPublish != nil {
		err := p.FailNextPublish
		p.FailNextPublish = nil
		return err
	}
	p.Created = append(p.Created, event)
	return nil
}

func (p *RecordingPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailNextPublish != nil {
		err := p.FailNextPublish
		p.FailNextPublish = nil
		return err
	}
	p.StatusChanges = append(p.StatusChanges, event)
	return nil
}

// MemCache is an in-memory JSON cache with the same surface as the redis
// client.
type MemCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	Hits    int
	Misses  int
}

func NewMemCache() *MemCache {
	return &MemCache{entries: make(map[string][]byte)}
}

func (c *MemCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[key]
	if !ok {
		c.Misses++
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(data, dest)
}

func (c *MemCache) SetJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *MemCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// Has reports whether a key is cached.
func (c *MemCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
