package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Unit is the sales unit of a price-list product.
type Unit string

const (
	UnitPiece    Unit = "piece"
	UnitSet      Unit = "set"
	UnitKilogram Unit = "kilogram"
	UnitMeter    Unit = "meter"
	UnitLiter    Unit = "liter"
)

// Units lists every accepted unit in display order.
var Units = []Unit{UnitPiece, UnitSet, UnitKilogram, UnitMeter, UnitLiter}

func (u Unit) Valid() bool {
	for _, v := range Units {
		if u == v {
			return true
		}
	}
	return false
}

// Product represents a row of the price list.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	InPrice     decimal.Decimal `json:"inPrice"`
	Price       decimal.Decimal `json:"price"`
	Unit        Unit            `json:"unit"`
	InStock     int             `json:"inStock"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// UnitNames returns Units as plain strings.
func UnitNames() []string {
	names := make([]string, len(Units))
	for i, u := range Units {
		names[i] = string(u)
	}
	return names
}

// Record renders the product with text fields for display and editing.
func (p Product) Record() ProductRecord {
	return ProductRecord{
		ID:          p.ID,
		Product:     p.Name,
		InPrice:     p.InPrice.String(),
		Price:       p.Price.String(),
		Unit:        string(p.Unit),
		InStock:     strconv.Itoa(p.InStock),
		Description: p.Description,
	}
}
