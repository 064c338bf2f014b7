package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"slices"
	"testing"

	handler "github.com/rogerio-castellano/invoice-pricelist/internal/http/handlers"
	"github.com/shopspring/decimal"
)

func TestCreateProductHandler_Valid(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	w := createProduct(r, validProduct("Laptop"))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	resp, err := decodeProduct(w)
	if err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if len(resp.ID) != 7 {
		t.Errorf("expected 7 character article number, got %q", resp.ID)
	}
	if resp.ArticleNo != resp.ID {
		t.Errorf("expected articleNo to mirror id, got %q and %q", resp.ArticleNo, resp.ID)
	}
	if resp.Name != "Laptop" || resp.Product != "Laptop" {
		t.Errorf("expected name 'Laptop', got %q / %q", resp.Name, resp.Product)
	}
	if !resp.Price.Equal(decimal.RequireFromString("1500.50")) {
		t.Errorf("expected price 1500.50, got %v", resp.Price)
	}
	if resp.InStock != 25 {
		t.Errorf("expected inStock 25, got %v", resp.InStock)
	}
}

func TestCreateProductHandler_Defaults(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	w := createProduct(r, map[string]any{"product": "Consulting", "price": 120, "unit": "set"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	resp, err := decodeProduct(w)
	if err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if !resp.InPrice.IsZero() {
		t.Errorf("expected inPrice default 0, got %v", resp.InPrice)
	}
	if resp.InStock != 0 {
		t.Errorf("expected inStock default 0, got %v", resp.InStock)
	}
	if resp.Description != "" {
		t.Errorf("expected empty description, got %q", resp.Description)
	}
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	tests := []struct {
		name           string
		payload        map[string]any
		expectedErrors []string
	}{
		{
			name:           "Negative sale price",
			payload:        map[string]any{"product": "Widget", "price": "-5", "unit": "piece"},
			expectedErrors: []string{"Valid sale price is required"},
		},
		{
			name:           "Zero sale price",
			payload:        map[string]any{"product": "Widget", "price": 0, "unit": "piece"},
			expectedErrors: []string{"Valid sale price is required"},
		},
		{
			name:    "Everything missing",
			payload: map[string]any{},
			expectedErrors: []string{
				"Product/Service name is required",
				"Valid sale price is required",
				"Valid unit is required",
			},
		},
		{
			name:           "Unknown unit",
			payload:        map[string]any{"product": "Widget", "price": 10, "unit": "gallon"},
			expectedErrors: []string{"Valid unit is required"},
		},
		{
			name:           "Bad in price and stock",
			payload:        map[string]any{"product": "Widget", "price": 10, "unit": "piece", "inPrice": "abc", "inStock": "1.5"},
			expectedErrors: []string{"In price must be a valid number", "In stock must be a valid number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createProduct(r, tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}

			var resp handler.ValidationErrorsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if !slices.Equal(resp.Errors, tt.expectedErrors) {
				t.Errorf("expected errors %v, got %v", tt.expectedErrors, resp.Errors)
			}
		})
	}

	list := getWithToken(r, "/api/products", token)
	var products []handler.ProductResponse
	if err := json.NewDecoder(list.Body).Decode(&products); err != nil {
		t.Fatalf("error decoding list: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected no product to be stored, got %d", len(products))
	}
}

func TestCreateProductHandler_Unauthorized(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	w := postJSON(r, "/api/products", "", validProduct("Laptop"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCreateThenListProducts(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	created, err := decodeProduct(createProduct(r, validProduct("Monitor")))
	if err != nil {
		t.Fatalf("error decoding create response: %v", err)
	}

	w := getWithToken(r, "/api/products", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var products []handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("error decoding list: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].ID != created.ID || products[0].Name != "Monitor" {
		t.Errorf("unexpected product in list: %+v", products[0])
	}
}

func TestUpdateProductHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	created, _ := decodeProduct(createProduct(r, validProduct("Desk")))

	payload := validProduct("Standing desk")
	payload["price"] = "2000"
	w := updateProduct(r, created.ID, payload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.UpdateProductResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Message != "Product updated successfully" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Product.ID != created.ID || resp.Product.Name != "Standing desk" {
		t.Errorf("unexpected product %+v", resp.Product)
	}
	if !resp.Product.Price.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("expected price 2000, got %v", resp.Product.Price)
	}
}

func TestUpdateProductHandler_NotFound(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	w := updateProduct(r, "missing", validProduct("Ghost"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var resp handler.ErrorResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error != "Product not found" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestUpdateProductHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	created, _ := decodeProduct(createProduct(r, validProduct("Chair")))

	payload := validProduct("Chair")
	payload["inStock"] = "-3"
	w := updateProduct(r, created.ID, payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp handler.ValidationErrorsResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if !slices.Equal(resp.Errors, []string{"In stock must be a valid positive number"}) {
		t.Errorf("unexpected errors %v", resp.Errors)
	}
}

func TestSearchProductsHandler(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	for _, name := range []string{"Red chair", "Blue chair", "Table"} {
		createProduct(r, validProduct(name))
	}

	tests := []struct {
		query         string
		expectedCode  int
		expectedCount int
		expectedTotal int
	}{
		{query: "?product=chair", expectedCode: http.StatusOK, expectedCount: 2, expectedTotal: 2},
		{query: "?product=CHAIR&limit=1", expectedCode: http.StatusOK, expectedCount: 1, expectedTotal: 2},
		{query: "?product=table", expectedCode: http.StatusOK, expectedCount: 1, expectedTotal: 1},
		{query: "", expectedCode: http.StatusOK, expectedCount: 3, expectedTotal: 3},
		{query: "?limit=0", expectedCode: http.StatusBadRequest},
		{query: "?offset=-1", expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := getWithToken(r, "/api/products/search"+tt.query, token)
			if w.Code != tt.expectedCode {
				t.Fatalf("expected %d, got %d", tt.expectedCode, w.Code)
			}
			if tt.expectedCode != http.StatusOK {
				return
			}

			var resp handler.ProductsSearchResult
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if len(resp.Data) != tt.expectedCount {
				t.Errorf("expected %d results, got %d", tt.expectedCount, len(resp.Data))
			}
			if resp.Meta.TotalCount != tt.expectedTotal {
				t.Errorf("expected total %d, got %d", tt.expectedTotal, resp.Meta.TotalCount)
			}
		})
	}
}

func TestSearchProductsHandler_ByArticle(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := newRouter()

	created, _ := decodeProduct(createProduct(r, validProduct("Lamp")))
	createProduct(r, validProduct("Rug"))

	w := getWithToken(r, "/api/products/search?article="+created.ID[:5], token)
	var resp handler.ProductsSearchResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].ID != created.ID {
		t.Errorf("expected article %s in results, got %+v", created.ID, resp.Data)
	}
}
