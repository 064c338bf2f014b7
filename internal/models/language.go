package models

// Language is a display language offered by the front-end.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
