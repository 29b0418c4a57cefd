package service

import (
	"context"
	"testing"

	"storefront-service/internal/cache"
	"storefront-service/internal/mocks"
	"storefront-service/internal/models"
	"storefront-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func createRequest(name string, price float64, images ...string) *CreateProductRequest {
	return &CreateProductRequest{
		Name:   name,
		Price:  floatPtr(price),
		Images: images,
	}
}

func TestCreateSyncsImageURL(t *testing.T) {
	svc := NewCatalogService(mocks.NewMemStore(), nil)

	product, err := svc.Create(context.Background(), createRequest("Saree", 2499, "a", "b"))
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "a", product.ImageURL)
	assert.True(t, product.InStock)
}

func TestCreateFallsBackToLegacyImageURL(t *testing.T) {
	svc := NewCatalogService(mocks.NewMemStore(), nil)

	req := createRequest("Saree", 2499)
	req.ImageURL = "legacy"
	product, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy"}, []string(product.Images))
	assert.Equal(t, "legacy", product.ImageURL)
}

func TestUpdateResyncsImageURL(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := NewCatalogService(ms, nil)

	product, err := svc.Create(context.Background(), createRequest("Saree", 2499, "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "a", product.ImageURL)

	images := []string{"c"}
	updated, err := svc.Update(context.Background(), product.ID, models.ProductPatch{Images: &images})
	require.NoError(t, err)
	assert.Equal(t, "c", updated.ImageURL)

	// Clearing images clears the legacy field rather than leaving it stale.
	images = []string{}
	updated, err = svc.Update(context.Background(), product.ID, models.ProductPatch{Images: &images})
	require.NoError(t, err)
	assert.Equal(t, "", updated.ImageURL)
	assert.Empty(t, updated.Images)
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := NewCatalogService(ms, nil)

	product, err := svc.Create(context.Background(), createRequest("Saree", 2499, "a"))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), product.ID, models.ProductPatch{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Nothing to update", ve.Message)

	// Product unchanged.
	got, err := svc.Get(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Name, got.Name)
	assert.Equal(t, product.Price, got.Price)
}

func TestUpdateOnlyTouchesSuppliedFields(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := NewCatalogService(ms, nil)

	req := createRequest("Saree", 2499, "a")
	req.Material = "Georgette"
	req.Color = "Navy Blue"
	product, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	price := 1999.0
	updated, err := svc.Update(context.Background(), product.ID, models.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 1999.0, updated.Price)
	assert.Equal(t, "Saree", updated.Name)
	assert.Equal(t, "Georgette", updated.Material)
	assert.Equal(t, "a", updated.ImageURL)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := NewCatalogService(mocks.NewMemStore(), nil)

	name := "x"
	_, err := svc.Update(context.Background(), "missing", models.ProductPatch{Name: &name})
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Product", nf.Entity)
}

func TestListServesAndInvalidatesCache(t *testing.T) {
	ms := mocks.NewMemStore()
	mc := mocks.NewMemCache()
	svc := NewCatalogService(ms, mc)

	_, err := svc.Create(context.Background(), createRequest("Saree", 2499, "a"))
	require.NoError(t, err)

	// First unfiltered list misses and fills the cache, second one hits.
	_, err = svc.List(context.Background(), models.ProductFilter{})
	require.NoError(t, err)
	assert.True(t, mc.Has(cache.ProductListKey))

	_, err = svc.List(context.Background(), models.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, mc.Hits)

	// Filtered listings bypass the cache entirely.
	_, err = svc.List(context.Background(), models.ProductFilter{Category: "festive"})
	require.NoError(t, err)
	assert.Equal(t, 1, mc.Hits)

	// A write invalidates the cached list.
	product, err := svc.Create(context.Background(), createRequest("Other", 999, "b"))
	require.NoError(t, err)
	assert.False(t, mc.Has(cache.ProductListKey))

	// Detail reads go through the cache too and are invalidated on delete.
	_, err = svc.Get(context.Background(), product.ID)
	require.NoError(t, err)
	assert.True(t, mc.Has(cache.ProductKey(product.ID)))

	require.NoError(t, svc.Delete(context.Background(), product.ID))
	assert.False(t, mc.Has(cache.ProductKey(product.ID)))
}

func TestListLightweightOmitsDescription(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := NewCatalogService(ms, nil)

	req := createRequest("Saree", 2499, "a")
	req.Description = "A very long description"
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	light, err := svc.List(context.Background(), models.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, light, 1)
	assert.Empty(t, light[0].Description)

	full, err := svc.List(context.Background(), models.ProductFilter{IncludeDescription: true})
	require.NoError(t, err)
	require.Len(t, full, 1)
	assert.Equal(t, "A very long description", full[0].Description)
}

func TestDeleteMissingProduct(t *testing.T) {
	svc := NewCatalogService(mocks.NewMemStore(), nil)

	err := svc.Delete(context.Background(), "missing")
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
}
