package handlers_integrated_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/invoice-pricelist/internal/http/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLifecycle(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	w := sendJSON(r, http.MethodPost, "/api/products", token, map[string]any{
		"product": "Integration widget",
		"price":   "19.90",
		"unit":    "piece",
		"inStock": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created handler.ProductResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Len(t, created.ID, 7)

	w = sendJSON(r, http.MethodPut, "/api/products/"+created.ID, token, map[string]any{
		"product":     "Integration widget",
		"price":       "24.50",
		"unit":        "piece",
		"inStock":     "4",
		"inPrice":     "10",
		"description": "updated",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated handler.UpdateProductResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, "24.5", updated.Product.Price.String())
	assert.Equal(t, "updated", updated.Product.Description)

	w = sendJSON(r, http.MethodGet, "/api/products/search?product=integration", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var found handler.ProductsSearchResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&found))
	assert.Equal(t, 1, found.Meta.TotalCount)
}

func TestCreateProduct_InvalidPriceStoresNothing(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	w := sendJSON(r, http.MethodPost, "/api/products", token, map[string]any{
		"product": "Widget", "price": "-5", "unit": "piece",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM products").Scan(&count))
	assert.Zero(t, count)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	r := newRouter()

	w := sendJSON(r, http.MethodPut, "/api/products/zzzzzzz", token, map[string]any{
		"product": "Widget", "price": "5", "unit": "piece",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
