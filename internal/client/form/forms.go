package form

import (
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/i18n"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/validate"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
)

// Field names used by the prebuilt forms.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
)

func emailField() Field {
	return Field{Name: FieldEmail, Rules: []validate.Rule{
		validate.Required(i18n.EmailRequired),
		validate.EmailFormat(i18n.EmailInvalid),
	}}
}

func NewLoginForm() *Form {
	return New(
		emailField(),
		Field{Name: FieldPassword, Rules: []validate.Rule{
			validate.Required(i18n.PasswordRequired),
			validate.MinLength(minPasswordLength, i18n.PasswordMinLength),
		}},
	)
}

func NewRegisterForm() *Form {
	return New(
		Field{Name: FieldName, Rules: []validate.Rule{
			validate.Required(i18n.NameRequired),
			validate.Trimmed(validate.MinLength(minNameLength, i18n.NameMinLength)),
		}},
		emailField(),
		Field{Name: FieldPassword, Rules: []validate.Rule{
			validate.Required(i18n.PasswordRequired),
			validate.MinLength(minPasswordLength, i18n.PasswordMinLength),
		}},
		Field{Name: FieldConfirmPassword, Rules: []validate.Rule{
			validate.Required(i18n.ConfirmPasswordRequired),
			validate.MatchesField(FieldPassword, i18n.PasswordMismatch),
		}},
	)
}

// NewProductForm builds the add-product form. Its field names match
// models.ProductRecord so the draft can be sent as is.
func NewProductForm() *Form {
	return New(
		Field{Name: models.FieldProduct, Rules: []validate.Rule{validate.Required(i18n.ProductRequired)}},
		Field{Name: models.FieldInPrice, Rules: []validate.Rule{validate.NumericNonNegative(i18n.InPriceInvalid)}},
		Field{Name: models.FieldPrice, Rules: []validate.Rule{validate.NumericPositive(i18n.SalePriceInvalid)}},
		Field{Name: models.FieldUnit, Rules: []validate.Rule{validate.OneOf(i18n.UnitInvalid, models.UnitNames()...)}},
		Field{Name: models.FieldInStock, Rules: []validate.Rule{validate.IntegerNonNegative(i18n.InStockInvalid)}},
		Field{Name: models.FieldDescription},
	)
}

// ProductRecord copies a product draft into a record.
func ProductRecord(values validate.Values) models.ProductRecord {
	var r models.ProductRecord
	for _, f := range models.EditableFields {
		r.Set(f, values[f])
	}
	return r
}
