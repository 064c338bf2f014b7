package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/rogerio-castellano/invoice-pricelist/internal/obs"
	repo "github.com/rogerio-castellano/invoice-pricelist/internal/repo"
)

const (
	articleNoLength = 7
	createAttempts  = 3
)

var newArticleNo = func() (string, error) {
	return gonanoid.New(articleNoLength)
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the price list. The article number is assigned by the server.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	product, validationErrors := validateProduct(req, false)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, ValidationErrorsResponse{Errors: validationErrors})
		return
	}

	var created models.Product
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		product.ID, err = newArticleNo()
		if err != nil {
			break
		}
		created, err = productRepo.Create(r.Context(), product)
		if !errors.Is(err, repo.ErrDuplicatedValueUnique) {
			break
		}
	}
	if err != nil {
		obs.Logger.Error("create product failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add product")
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProductResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll(r.Context())
	if err != nil {
		obs.Logger.Error("list products failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, response)
}

// UpdateProductHandler godoc
// @Summary Replace a product
// @Description Updates every editable field; the body must carry the complete record.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article number"
// @Param product body ProductRequest true "Complete product record"
// @Success 200 {object} UpdateProductResult
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	product, validationErrors := validateProduct(req, true)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, ValidationErrorsResponse{Errors: validationErrors})
		return
	}

	product.ID = id
	updated, err := productRepo.Update(r.Context(), product)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		obs.Logger.Error("update product failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	writeJSON(w, http.StatusOK, UpdateProductResult{
		Message: "Product updated successfully",
		Product: toProductResponse(updated),
	})
}

func parseIntPtr(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// SearchProductsHandler godoc
// @Summary Search and paginate products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param product query string false "Product name contains"
// @Param article query string false "Article number prefix"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/search [get]
func SearchProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.ProductFilter{
		Name:    q.Get("product"),
		Article: q.Get("article"),
		Offset:  parseIntPtr(q.Get("offset")),
		Limit:   parseIntPtr(q.Get("limit")),
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be greater than zero")
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must be zero or positive")
		return
	}

	products, total, err := productRepo.Filter(r.Context(), filter)
	if err != nil {
		obs.Logger.Error("search products failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	resp := ProductsSearchResult{
		Data: make([]ProductResponse, len(products)),
		Meta: Meta{TotalCount: total},
	}
	for i, p := range products {
		resp.Data[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}
