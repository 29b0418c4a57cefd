package main

import (
	"context"
	"log"
	"time"

	"storefront-service/config"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/store"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Default admin credentials, meant to be changed after first login.
const (
	defaultAdminEmail    = "admin@alveera.com"
	defaultAdminPassword = "Admin123!"
	defaultAdminName     = "Alveera Admin"
)

func seedProducts() []models.Product {
	now := time.Now().UTC()
	return []models.Product{
		{
			ID:          uuid.New().String(),
			DesignNo:    "D.NO.1490",
			Name:        "Alveera Midnight Blue Embroidered Saree",
			Description: "Exquisitely designed saree with intricate floral and abstract patterns in a navy blue base. Paired with turquoise blouse.",
			Price:       2499.00,
			Material:    "Georgette",
			Color:       "Navy Blue",
			Images: pq.StringArray{
				"https://images.unsplash.com/photo-1610030469983-98e550d6193c?w=600",
				"https://images.unsplash.com/photo-1583391733956-3750e0ff4e8b?w=600",
			},
			ImageURL:  "https://images.unsplash.com/photo-1610030469983-98e550d6193c?w=600",
			Category:  "festive",
			InStock:   true,
			CreatedAt: now,
		},
		{
			ID:          uuid.New().String(),
			DesignNo:    "D.NO.1491",
			Name:        "Alveera Fanta Orange Abstract Stripe Saree",
			Description: "Vibrant saree with multi-colored diagonal stripes on orange base. Perfect for festive occasions.",
			Price:       2299.00,
			Material:    "Chiffon",
			Color:       "Orange",
			Images: pq.StringArray{
				"https://images.unsplash.com/photo-1617627143750-d86bc21e42bb?w=600",
				"https://images.unsplash.com/photo-1654764745869-545a2316a169?w=600",
			},
			ImageURL:  "https://images.unsplash.com/photo-1617627143750-d86bc21e42bb?w=600",
			Category:  "new-arrivals",
			InStock:   true,
			CreatedAt: now,
		},
		{
			ID:          uuid.New().String(),
			DesignNo:    "D.NO.1492",
			Name:        "Alveera Pink Dream Abstract Saree",
			Description: "Stunning pink saree featuring abstract patterns in yellow and pink. Lightweight fabric with graceful draping.",
			Price:       2199.00,
			Material:    "Georgette",
			Color:       "Pink",
			Images: pq.StringArray{
				"https://images.unsplash.com/photo-1583391733956-3750e0ff4e8b?w=600",
				"https://images.unsplash.com/photo-1638964327749-53436bcccdca?w=600",
			},
			ImageURL:  "https://images.unsplash.com/photo-1583391733956-3750e0ff4e8b?w=600",
			Category:  "new-arrivals",
			InStock:   true,
			CreatedAt: now,
		},
		{
			ID:          uuid.New().String(),
			DesignNo:    "D.NO.1493",
			Name:        "Alveera Crimson Swirl Georgette Saree",
			Description: "Bold red saree with dynamic flowing stripes in various colors. Perfect for special occasions.",
			Price:       2599.00,
			Material:    "Georgette",
			Color:       "Red",
			Images: pq.StringArray{
				"https://images.unsplash.com/photo-1654764745869-545a2316a169?w=600",
			},
			ImageURL:  "https://images.unsplash.com/photo-1654764745869-545a2316a169?w=600",
			Category:  "silk",
			InStock:   true,
			CreatedAt: now,
		},
	}
}

func main() {
	cfg := config.Load()

	db, err := store.NewStore(cfg.DB.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	if err := seedAdmin(ctx, db); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	if err := seedCatalog(ctx, db); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Println("Seed complete")
}

// seedAdmin creates the default admin account once; re-runs are no-ops.
func seedAdmin(ctx context.Context, db *store.Store) error {
	if _, err := db.GetAdminByEmail(ctx, defaultAdminEmail); err == nil {
		log.Printf("Admin already exists: %s", defaultAdminEmail)
		return nil
	}

	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		ID:             uuid.New().String(),
		Email:          defaultAdminEmail,
		HashedPassword: hash,
		FullName:       defaultAdminName,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.CreateAdmin(ctx, admin); err != nil {
		return err
	}

	log.Printf("Admin created: %s (change the default password in production)", defaultAdminEmail)
	return nil
}

// seedCatalog inserts the fixture products into an empty catalog.
func seedCatalog(ctx context.Context, db *store.Store) error {
	count, err := db.CountProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Catalog already has %d products, skipping", count)
		return nil
	}

	products := seedProducts()
	for i := range products {
		if err := db.CreateProduct(ctx, &products[i]); err != nil {
			return err
		}
	}

	log.Printf("Catalog seeded with %d products", len(products))
	return nil
}
