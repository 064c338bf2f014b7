package repo

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProducts(t *testing.T, r *InMemoryProductRepository) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []models.Product{
		{ID: "AbC1234", Name: "Professional Camera", Price: decimal.NewFromInt(1500), Unit: models.UnitPiece},
		{ID: "xYz9876", Name: "Cable Organizer Set", Price: decimal.NewFromInt(15), Unit: models.UnitSet},
		{ID: "abD5555", Name: "Camera Strap", Price: decimal.NewFromInt(20), Unit: models.UnitPiece},
	} {
		_, err := r.Create(ctx, p)
		require.NoError(t, err)
	}
}

func TestInMemoryProductRepository_CreateDuplicateID(t *testing.T) {
	r := NewInMemoryProductRepository()
	seedProducts(t, r)

	_, err := r.Create(context.Background(), models.Product{ID: "AbC1234", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)
}

func TestInMemoryProductRepository_UpdateKeepsCreatedAt(t *testing.T) {
	r := NewInMemoryProductRepository()
	seedProducts(t, r)
	ctx := context.Background()

	before, err := r.GetByID(ctx, "xYz9876")
	require.NoError(t, err)

	before.Name = "Cable Organizer"
	updated, err := r.Update(ctx, before)
	require.NoError(t, err)

	assert.Equal(t, "Cable Organizer", updated.Name)
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)

	_, err = r.Update(ctx, models.Product{ID: "missing"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInMemoryProductRepository_Filter(t *testing.T) {
	r := NewInMemoryProductRepository()
	seedProducts(t, r)
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    ProductFilter
		wantIDs   []string
		wantTotal int
	}{
		{name: "by name", filter: ProductFilter{Name: "camera"}, wantIDs: []string{"AbC1234", "abD5555"}, wantTotal: 2},
		{name: "by article prefix", filter: ProductFilter{Article: "ab"}, wantIDs: []string{"AbC1234", "abD5555"}, wantTotal: 2},
		{name: "name and article", filter: ProductFilter{Name: "strap", Article: "AB"}, wantIDs: []string{"abD5555"}, wantTotal: 1},
		{name: "limit", filter: ProductFilter{Limit: ptr(1)}, wantIDs: []string{"AbC1234"}, wantTotal: 3},
		{name: "percent is literal", filter: ProductFilter{Name: "%"}, wantIDs: []string{}, wantTotal: 0},
		{name: "underscore is literal", filter: ProductFilter{Article: "a_"}, wantIDs: []string{}, wantTotal: 0},
		{name: "offset past end", filter: ProductFilter{Offset: ptr(10)}, wantIDs: []string{}, wantTotal: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := r.Filter(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			ids := []string{}
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestInMemoryUserRepository_EmailUnique(t *testing.T) {
	r := NewInMemoryUserRepository()
	ctx := context.Background()

	u, err := r.CreateUser(ctx, models.User{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = r.CreateUser(ctx, models.User{Name: "Ann 2", Email: "ANN@example.com"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	found, err := r.GetByEmail(ctx, "Ann@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = r.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func ptr(i int) *int { return &i }
