package domain

import "time"

type ItemCategory string

const (
	ItemCategoryChair  ItemCategory = "chair"
	ItemCategoryTable  ItemCategory = "table"
	ItemCategoryCanopy ItemCategory = "canopy"
	ItemCategoryMat    ItemCategory = "mat"
)

// ItemCategories lists every category in display order.
var ItemCategories = []ItemCategory{
	ItemCategoryChair,
	ItemCategoryTable,
	ItemCategoryCanopy,
	ItemCategoryMat,
}

func (c ItemCategory) Valid() bool {
	switch c {
	case ItemCategoryChair, ItemCategoryTable, ItemCategoryCanopy, ItemCategoryMat:
		return true
	}
	return false
}

// RentalItem is one type of equipment that can be rented per day.
// Prices are held in minor currency units.
type RentalItem struct {
	ID                string       `json:"id"`
	Name              string       `json:"name" validate:"required,max=200"`
	Category          ItemCategory `json:"category" validate:"required,oneof=chair table canopy mat"`
	Description       string       `json:"description" validate:"max=2000"`
	DailyPriceCents   int64        `json:"daily_price_cents" validate:"gte=0"`
	ImageURL          string       `json:"image_url"`
	AvailableQuantity int          `json:"available_quantity" validate:"gte=0"`
	IsActive          bool         `json:"is_active"`
	CreatedOn         time.Time    `json:"created_on"`
	UpdatedOn         time.Time    `json:"updated_on"`
}
