package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/shopspring/decimal"
)

// FormValue accepts a JSON string, number or null. Browser and CLI clients
// send form input verbatim, so numeric fields may arrive as strings.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*v = FormValue(data)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = FormValue(data)
	default:
		return fmt.Errorf("unsupported value %s", data)
	}
	return nil
}

func (v FormValue) Trimmed() string {
	return strings.TrimSpace(string(v))
}

type ProductRequest struct {
	Product     FormValue `json:"product"`
	Name        FormValue `json:"name,omitempty"`
	InPrice     FormValue `json:"inPrice"`
	Price       FormValue `json:"price"`
	Unit        FormValue `json:"unit"`
	InStock     FormValue `json:"inStock"`
	Description FormValue `json:"description"`
}

// productName prefers the "product" field and falls back to "name".
func (r ProductRequest) productName() string {
	if n := r.Product.Trimmed(); n != "" {
		return n
	}
	return r.Name.Trimmed()
}

type ProductResponse struct {
	ID          string          `json:"id"`
	ArticleNo   string          `json:"articleNo"`
	Name        string          `json:"name"`
	Product     string          `json:"product"`
	InPrice     decimal.Decimal `json:"inPrice"`
	Price       decimal.Decimal `json:"price"`
	Unit        models.Unit     `json:"unit"`
	InStock     int             `json:"inStock"`
	Description string          `json:"description"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		ArticleNo:   p.ID,
		Name:        p.Name,
		Product:     p.Name,
		InPrice:     p.InPrice,
		Price:       p.Price,
		Unit:        p.Unit,
		InStock:     p.InStock,
		Description: p.Description,
	}
}

type UpdateProductResult struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta"`
}

type ValidationErrorsResponse struct {
	Errors []string `json:"errors"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
