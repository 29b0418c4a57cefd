package models

import (
	"time"

	"github.com/lib/pq"
)

// Product represents a catalog product. The legacy image_url field always
// mirrors images[0] (or "" when images is empty); the write path keeps the
// two in sync.
type Product struct {
	ID          string         `db:"id" json:"id"`
	DesignNo    string         `db:"design_no" json:"design_no"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description,omitempty"`
	Price       float64        `db:"price" json:"price"`
	Material    string         `db:"material" json:"material"`
	Color       string         `db:"color" json:"color"`
	Images      pq.StringArray `db:"images" json:"images"`
	ImageURL    string         `db:"image_url" json:"image_url"`
	Category    string         `db:"category" json:"category"`
	InStock     bool           `db:"in_stock" json:"in_stock"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// PrimaryImage returns the first image, or "" when there are none.
func PrimaryImage(images []string) string {
	if len(images) > 0 {
		return images[0]
	}
	return ""
}

// ProductFilter holds optional predicates for catalog listing.
type ProductFilter struct {
	Category           string
	Material           string
	Color              string
	Search             string
	MinPrice           *float64
	MaxPrice           *float64
	IncludeDescription bool
}

// IsZero reports whether no predicate is set, ignoring the projection toggle.
func (f ProductFilter) IsZero() bool {
	return f.Category == "" && f.Material == "" && f.Color == "" &&
		f.Search == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// ProductPatch is a typed partial update: nil fields are left untouched.
// ImageURL is derived from Images by the catalog service, never taken from
// the request body.
type ProductPatch struct {
	DesignNo    *string   `json:"design_no"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Material    *string   `json:"material"`
	Color       *string   `json:"color"`
	Images      *[]string `json:"images"`
	Category    *string   `json:"category"`
	InStock     *bool     `json:"in_stock"`
	ImageURL    *string   `json:"-"`
}

// IsEmpty reports whether the patch carries no recognized field.
func (p ProductPatch) IsEmpty() bool {
	return p.DesignNo == nil && p.Name == nil && p.Description == nil &&
		p.Price == nil && p.Material == nil && p.Color == nil &&
		p.Images == nil && p.Category == nil && p.InStock == nil
}

// Apply copies the non-nil patch fields onto a product.
func (p ProductPatch) Apply(prod *Product) {
	if p.DesignNo != nil {
		prod.DesignNo = *p.DesignNo
	}
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Material != nil {
		prod.Material = *p.Material
	}
	if p.Color != nil {
		prod.Color = *p.Color
	}
	if p.Images != nil {
		prod.Images = append(pq.StringArray{}, *p.Images...)
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.InStock != nil {
		prod.InStock = *p.InStock
	}
	if p.ImageURL != nil {
		prod.ImageURL = *p.ImageURL
	}
}

// OrderItem is a line item carrying a snapshot of the product at order
// creation time. Snapshot fields never change after the order is persisted.
type OrderItem struct {
	ProductID    string  `db:"product_id" json:"product_id"`
	Quantity     int     `db:"quantity" json:"quantity"`
	ProductName  string  `db:"product_name" json:"product_name"`
	ProductImage string  `db:"product_image" json:"product_image"`
	ProductPrice float64 `db:"product_price" json:"product_price"`
}

// Order represents a customer order.
type Order struct {
	ID            string      `db:"id" json:"id"`
	CustomerName  string      `db:"customer_name" json:"customer_name"`
	CustomerEmail string      `db:"customer_email" json:"customer_email"`
	CustomerPhone string      `db:"customer_phone" json:"customer_phone"`
	UserID        string      `db:"user_id" json:"user_id,omitempty"`
	Items         []OrderItem `db:"-" json:"items"`
	Total         float64     `db:"total" json:"total"`
	PaymentMethod string      `db:"payment_method" json:"payment_method"`
	Status        string      `db:"status" json:"status"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
}

// Order statuses. Membership is validated on update; the transition graph is
// deliberately not enforced.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists the valid statuses in display order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is one of the fixed statuses.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Admin is a stored admin credential record.
type Admin struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	FullName       string    `db:"full_name" json:"full_name"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// AdminProfile is the public shape of an admin identity.
type AdminProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Profile returns the admin's public profile.
func (a *Admin) Profile() AdminProfile {
	return AdminProfile{ID: a.ID, Email: a.Email, FullName: a.FullName}
}

// Stats holds the admin dashboard aggregates.
type Stats struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalOrders   int64   `json:"total_orders"`
	TotalProducts int64   `json:"total_products"`
	PendingOrders int64   `json:"pending_orders"`
	RecentOrders  []Order `json:"recent_orders"`
}

// Category is a storefront collection. The list is static configuration, not
// store-backed.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories returns the fixed storefront collections.
func Categories() []Category {
	return []Category{
		{ID: "new-arrivals", Name: "New Arrivals"},
		{ID: "festive", Name: "Festive Anecdotes"},
		{ID: "silk", Name: "Exquisite Silk"},
	}
}
