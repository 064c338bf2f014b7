package repo

// ProductFilter narrows a product listing. Name matches case-insensitively
// anywhere in the product name, Article matches a prefix of the article number.
type ProductFilter struct {
	Name    string
	Article string
	Offset  *int
	Limit   *int
}
