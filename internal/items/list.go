package items

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoplite/shoplite-backend/pkg/enums"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
// IDs is the batch-lookup path: when present every other filter is ignored
// and unknown ids are simply absent from the result.
type ListFilters struct {
	Category  *enums.ItemCategory `json:"category,omitempty"`
	MinPrice  *decimal.Decimal    `json:"minPrice,omitempty"`
	MaxPrice  *decimal.Decimal    `json:"maxPrice,omitempty"`
	Search    string              `json:"search,omitempty"`
	SortBy    string              `json:"sortBy,omitempty"`
	SortOrder string              `json:"sortOrder,omitempty"`
	IDs       []uuid.UUID         `json:"ids,omitempty"`
}

// sortColumns whitelists the sortable fields and maps them to columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price_cents",
	"name":      "name",
	"stock":     "stock",
}

const (
	defaultSortColumn = "created_at"
	defaultSortOrder  = "DESC"
)

func (f ListFilters) orderClause() string {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = defaultSortColumn
	}
	order := defaultSortOrder
	switch f.SortOrder {
	case "asc":
		order = "ASC"
	case "desc":
		order = "DESC"
	}
	return column + " " + order
}
