// Package i18n holds the message catalog shown to price-list users.
package i18n

import "strings"

const DefaultLanguage = "en"

// Message keys shared by the validator, forms and gateway.
const (
	NameRequired            = "nameRequired"
	NameMinLength           = "nameMinLength"
	EmailRequired           = "emailRequired"
	EmailInvalid            = "emailInvalid"
	PasswordRequired        = "passwordRequired"
	PasswordMinLength       = "passwordMinLength"
	ConfirmPasswordRequired = "confirmPasswordRequired"
	PasswordMismatch        = "passwordMismatch"
	LoginFailed             = "loginFailed"
	ServerError             = "serverError"
	EmailAlreadyExists      = "emailAlreadyExists"
	ProductRequired         = "productRequired"
	SalePriceInvalid        = "salePriceInvalid"
	InPriceInvalid          = "inPriceInvalid"
	InStockInvalid          = "inStockInvalid"
	UnitInvalid             = "unitInvalid"
	Unsaved                 = "unsaved"
	SessionExpired          = "sessionExpired"
	FieldsRequired          = "fieldsRequired"
	TooManyAttempts         = "tooManyAttempts"
	ProductNotFound         = "productNotFound"
)

var catalog = map[string]map[string]string{
	"en": {
		NameRequired:            "Name is required",
		NameMinLength:           "Name must be at least 2 characters",
		EmailRequired:           "Email is required",
		EmailInvalid:            "Please enter a valid email address",
		PasswordRequired:        "Password is required",
		PasswordMinLength:       "Password must be at least 6 characters",
		ConfirmPasswordRequired: "Please confirm your password",
		PasswordMismatch:        "Passwords do not match",
		LoginFailed:             "Invalid email or password",
		ServerError:             "Something went wrong, please try again",
		EmailAlreadyExists:      "An account with this email already exists",
		ProductRequired:         "Product/Service name is required",
		SalePriceInvalid:        "Valid sale price is required",
		InPriceInvalid:          "In price must be a valid number",
		InStockInvalid:          "In stock must be a valid whole number",
		UnitInvalid:             "Valid unit is required",
		Unsaved:                 "Not saved",
		SessionExpired:          "Your session has expired, please log in again",
		FieldsRequired:          "Please fill in all required fields",
		TooManyAttempts:         "Too many attempts, please try again later",
		ProductNotFound:         "Product not found",
	},
	"sv": {
		NameRequired:            "Namn är obligatoriskt",
		NameMinLength:           "Namnet måste vara minst 2 tecken",
		EmailRequired:           "E-post är obligatoriskt",
		EmailInvalid:            "Ange en giltig e-postadress",
		PasswordRequired:        "Lösenord är obligatoriskt",
		PasswordMinLength:       "Lösenordet måste vara minst 6 tecken",
		ConfirmPasswordRequired: "Bekräfta ditt lösenord",
		PasswordMismatch:        "Lösenorden matchar inte",
		LoginFailed:             "Felaktig e-post eller lösenord",
		ServerError:             "Något gick fel, försök igen",
		EmailAlreadyExists:      "Det finns redan ett konto med denna e-post",
		ProductRequired:         "Produkt/tjänst måste anges",
		SalePriceInvalid:        "Ange ett giltigt försäljningspris",
		InPriceInvalid:          "Inpris måste vara ett giltigt tal",
		InStockInvalid:          "I lager måste vara ett giltigt heltal",
		UnitInvalid:             "Ange en giltig enhet",
		Unsaved:                 "Ej sparad",
		SessionExpired:          "Din session har gått ut, logga in igen",
		FieldsRequired:          "Fyll i alla obligatoriska fält",
		TooManyAttempts:         "För många försök, försök igen senare",
		ProductNotFound:         "Produkten hittades inte",
	},
}

// Translator resolves message keys for one language.
type Translator struct {
	lang string
}

// New returns a translator for lang, falling back to English for unknown codes.
func New(lang string) Translator {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := catalog[lang]; !ok {
		lang = DefaultLanguage
	}
	return Translator{lang: lang}
}

func (t Translator) Language() string {
	return t.lang
}

// T returns the text for key. Keys missing from the language fall back to
// English, and unknown keys are returned as is.
func (t Translator) T(key string) string {
	if msg, ok := catalog[t.lang][key]; ok {
		return msg
	}
	if msg, ok := catalog[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// Languages lists the codes with a catalog.
func Languages() []string {
	return []string{"en", "sv"}
}
