package models

// Editable field names as they appear on the wire and in the price list.
const (
	FieldProduct     = "product"
	FieldInPrice     = "inPrice"
	FieldPrice       = "price"
	FieldUnit        = "unit"
	FieldInStock     = "inStock"
	FieldDescription = "description"
)

// EditableFields lists the fields of a ProductRecord in display order.
var EditableFields = []string{FieldProduct, FieldInPrice, FieldPrice, FieldUnit, FieldInStock, FieldDescription}

// ProductRecord is a product as the client shows and sends it. Every field is
// text so a value typed by the user is kept verbatim until the server accepts it.
type ProductRecord struct {
	ID          string `json:"-"`
	Product     string `json:"product"`
	InPrice     string `json:"inPrice"`
	Price       string `json:"price"`
	Unit        string `json:"unit"`
	InStock     string `json:"inStock"`
	Description string `json:"description"`
}

// Get returns the value of an editable field, or "" for unknown names.
func (r ProductRecord) Get(field string) string {
	switch field {
	case FieldProduct:
		return r.Product
	case FieldInPrice:
		return r.InPrice
	case FieldPrice:
		return r.Price
	case FieldUnit:
		return r.Unit
	case FieldInStock:
		return r.InStock
	case FieldDescription:
		return r.Description
	}
	return ""
}

// Set updates an editable field. It reports false for unknown names.
func (r *ProductRecord) Set(field, value string) bool {
	switch field {
	case FieldProduct:
		r.Product = value
	case FieldInPrice:
		r.InPrice = value
	case FieldPrice:
		r.Price = value
	case FieldUnit:
		r.Unit = value
	case FieldInStock:
		r.InStock = value
	case FieldDescription:
		r.Description = value
	default:
		return false
	}
	return true
}

// IsEditableField reports whether field names a ProductRecord field.
func IsEditableField(field string) bool {
	var r ProductRecord
	return r.Set(field, "")
}
