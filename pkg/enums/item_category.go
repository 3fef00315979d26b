package enums

import "fmt"

// ItemCategory represents a catalog browsing category.
type ItemCategory string

const (
	ItemCategoryElectronics ItemCategory = "Electronics"
	ItemCategoryClothing    ItemCategory = "Clothing"
	ItemCategoryBooks       ItemCategory = "Books"
	ItemCategoryHome        ItemCategory = "Home"
	ItemCategorySports      ItemCategory = "Sports"
	ItemCategoryBeauty      ItemCategory = "Beauty"
	ItemCategoryToys        ItemCategory = "Toys"
)

var validItemCategories = []ItemCategory{
	ItemCategoryElectronics,
	ItemCategoryClothing,
	ItemCategoryBooks,
	ItemCategoryHome,
	ItemCategorySports,
	ItemCategoryBeauty,
	ItemCategoryToys,
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
