package handlers

import (
	"strconv"

	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/shopspring/decimal"
)

const (
	msgNameRequired    = "Product/Service name is required"
	msgSalePrice       = "Valid sale price is required"
	msgUnit            = "Valid unit is required"
	msgInPriceCreate   = "In price must be a valid number"
	msgInPriceUpdate   = "In price must be a valid positive number"
	msgInStockCreate   = "In stock must be a valid number"
	msgInStockUpdate   = "In stock must be a valid positive number"
	maxProductNameSize = 255
)

// validateProduct checks every field and collects all failures. On success the
// returned product carries the parsed values with defaults applied; its ID is unset.
func validateProduct(req ProductRequest, update bool) (models.Product, []string) {
	errs := []string{}
	p := models.Product{
		Name:        req.productName(),
		Unit:        models.Unit(req.Unit.Trimmed()),
		Description: req.Description.Trimmed(),
		InPrice:     decimal.Zero,
	}

	if p.Name == "" || len(p.Name) > maxProductNameSize {
		errs = append(errs, msgNameRequired)
	}

	price, err := decimal.NewFromString(req.Price.Trimmed())
	if err != nil || !price.IsPositive() {
		errs = append(errs, msgSalePrice)
	} else {
		p.Price = price
	}

	if !p.Unit.Valid() {
		errs = append(errs, msgUnit)
	}

	if s := req.InPrice.Trimmed(); s != "" {
		inPrice, err := decimal.NewFromString(s)
		if err != nil || inPrice.IsNegative() {
			errs = append(errs, pick(update, msgInPriceUpdate, msgInPriceCreate))
		} else {
			p.InPrice = inPrice
		}
	}

	if s := req.InStock.Trimmed(); s != "" {
		inStock, err := strconv.Atoi(s)
		if err != nil || inStock < 0 {
			errs = append(errs, pick(update, msgInStockUpdate, msgInStockCreate))
		} else {
			p.InStock = inStock
		}
	}

	return p, errs
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
