package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProductsPaginatesAndReportsFilters(t *testing.T) {
	svc := NewService(newMemRepo(fixture()...))
	page, err := svc.ListProducts(context.Background(), Query{
		Filter:   Filter{Manufacturers: []string{"Libbey"}},
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)

	require.Len(t, page.Products, 1)
	assert.Equal(t, int64(6), page.Products[0].ID)
	assert.Equal(t, Pagination{Total: 3, Page: 2, PageSize: 2, TotalPages: 2, HasMore: false}, page.Pagination)
	assert.Equal(t, []string{"Libbey"}, page.Filters.AppliedManufacturers)
	assert.Equal(t, []string{}, page.Filters.AppliedCategories)
	assert.Equal(t, []string{"Bowls", "Glassware", "Plates"}, page.Filters.Categories)
}

func TestListProductsClampsPaging(t *testing.T) {
	svc := NewService(newMemRepo(fixture()...))
	page, err := svc.ListProducts(context.Background(), Query{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, maxPageSize, page.Pagination.PageSize)
	assert.Len(t, page.Products, 6)
}

func TestUpsertProductsCreatesThenUpdates(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	recs := []ProductRecord{{
		TrxProductID: 10,
		SKU:          " PL-10 ",
		Title:        "Plate",
		Category:     str("Plates"),
		Pattern:      str("  "),
		Images:       []string{"a.jpg", "b.jpg"},
	}}

	first := svc.UpsertProducts(context.Background(), recs)
	require.Equal(t, 1, first.Processed)
	require.Empty(t, first.Errors)

	recs[0].Title = "Dinner Plate"
	second := svc.UpsertProducts(context.Background(), recs)
	require.Equal(t, 1, second.Processed)

	require.Len(t, repo.products, 1)
	got := repo.products[10]
	assert.Equal(t, "PL-10", got.SKU)
	assert.Equal(t, "Dinner Plate", got.Title)
	assert.Nil(t, got.Pattern, "blank facet values are stored as null")
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
	assert.Equal(t, []string{}, got.Tags)
}

func TestUpsertProductsIsolatesBadRecords(t *testing.T) {
	svc := NewService(newMemRepo())
	neg := -1
	res := svc.UpsertProducts(context.Background(), []ProductRecord{
		{TrxProductID: 1, SKU: "A", Title: "A"},
		{TrxProductID: 0, SKU: "B", Title: "B"},
		{TrxProductID: 3, SKU: "", Title: "C"},
		{TrxProductID: 4, SKU: "D", Title: "D", QtyAvailable: &neg},
		{TrxProductID: 5, SKU: "E", Title: "E"},
	})

	assert.Equal(t, 2, res.Processed)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, "0", res.Errors[0].Key)
	assert.Equal(t, "trx_product_id is required", res.Errors[0].Message)
	assert.Equal(t, "sku is required", res.Errors[1].Message)
	assert.Equal(t, "4", res.Errors[2].Key)
}

func TestUpsertProductsReportsStoreFailures(t *testing.T) {
	repo := newMemRepo()
	repo.failGet = errors.New("connection reset")
	res := NewService(repo).UpsertProducts(context.Background(), []ProductRecord{{TrxProductID: 1, SKU: "A", Title: "A"}})
	assert.Zero(t, res.Processed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "connection reset", res.Errors[0].Message)
}

func TestUpdateAndDeleteMissingProduct(t *testing.T) {
	svc := NewService(newMemRepo())
	_, err := svc.UpdateProduct(context.Background(), 99, ProductRecord{SKU: "X", Title: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	require.Error(t, svc.DeleteProduct(context.Background(), 99))
}
