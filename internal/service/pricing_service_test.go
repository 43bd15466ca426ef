package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/model"
)

func TestPricing_OverrideThenFallback(t *testing.T) {
	f := newFixture(t)

	price, err := f.pricing.EffectivePrice(f.c1.ID, f.p1.ID)
	require.NoError(t, err)
	assertDec(t, "100.00", price)

	pl, err := f.pricing.SetCustomPrice(SetCustomPriceRequest{CustomerID: f.c1.ID, ProductID: f.p1.ID, CustomPrice: dec("89.99")})
	require.NoError(t, err)
	price, _ = f.pricing.EffectivePrice(f.c1.ID, f.p1.ID)
	assertDec(t, "89.99", price)

	other, _ := f.pricing.EffectivePrice(f.c2.ID, f.p1.ID)
	assertDec(t, "100.00", other)

	// Catalog changes do not leak through an override.
	p := f.p1
	p.Price = dec("120")
	_, err = f.store.Products().Update(p)
	require.NoError(t, err)
	price, _ = f.pricing.EffectivePrice(f.c1.ID, f.p1.ID)
	assertDec(t, "89.99", price)

	require.NoError(t, f.pricing.RemoveCustomPrice(pl.ID))
	price, _ = f.pricing.EffectivePrice(f.c1.ID, f.p1.ID)
	assertDec(t, "120", price)

	assert.ErrorIs(t, f.pricing.RemoveCustomPrice(pl.ID), apperror.ErrNotFound)
}

func TestPricing_MissingProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.pricing.EffectivePrice(f.c1.ID, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.pricing.SetCustomPrice(SetCustomPriceRequest{CustomerID: f.c1.ID, ProductID: 404, CustomPrice: dec("1")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.pricing.SetCustomPrice(SetCustomPriceRequest{CustomerID: f.c1.ID, ProductID: f.p1.ID, CustomPrice: dec("-1")})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	// The product appearing later is picked up.
	p := f.store.Products().Create(model.Product{Name: "late", Code: "L", Price: dec("3")})
	price, err := f.pricing.EffectivePrice(f.c1.ID, p.ID)
	require.NoError(t, err)
	assertDec(t, "3", price)
}

func TestPricing_CustomerPriceList(t *testing.T) {
	f := newFixture(t)
	p2 := f.store.Products().Create(model.Product{Name: "P2", Code: "P-002", Price: dec("50")})

	list, err := f.pricing.CustomerPriceList(f.c1.ID)
	require.NoError(t, err)
	require.Len(t, list, 2, "no overrides lists the whole catalog")
	for _, pp := range list {
		assert.False(t, pp.HasCustomPrice)
	}

	_, err = f.pricing.SetCustomPrice(SetCustomPriceRequest{CustomerID: f.c1.ID, ProductID: p2.ID, CustomPrice: dec("45")})
	require.NoError(t, err)

	list, err = f.pricing.CustomerPriceList(f.c1.ID)
	require.NoError(t, err)
	require.Len(t, list, 1, "overrides narrow the list")
	assert.Equal(t, p2.ID, list[0].ID)
	assert.True(t, list[0].HasCustomPrice)
	assertDec(t, "45", list[0].Price)
	assertDec(t, "50", list[0].CatalogPrice)

	_, err = f.pricing.CustomerPriceList(404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPricing_DeletedProductOverrideNotInherited(t *testing.T) {
	f := newFixture(t)
	p, err := f.products.CreateProduct(&model.Product{Name: "Prodotto Basic", Code: "BASIC-001", Price: dec("99.99")})
	require.NoError(t, err)
	_, err = f.pricing.SetCustomPrice(SetCustomPriceRequest{CustomerID: f.c1.ID, ProductID: p.ID, CustomPrice: dec("89.99")})
	require.NoError(t, err)

	require.NoError(t, f.products.DeleteProduct(p.ID))
	next, err := f.products.CreateProduct(&model.Product{Name: "Laptop", Code: "TECH-001", Price: dec("999.99")})
	require.NoError(t, err)
	require.Equal(t, p.ID, next.ID)

	price, err := f.pricing.EffectivePrice(f.c1.ID, next.ID)
	require.NoError(t, err)
	assert.Equal(t, "999.99", price.StringFixed(2))

	list, err := f.pricing.CustomerPriceList(f.c1.ID)
	require.NoError(t, err)
	for _, pp := range list {
		assert.False(t, pp.HasCustomPrice, "product %d", pp.ID)
	}
}
