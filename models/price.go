package models

import "github.com/shopspring/decimal"

// Prices travel as JSON numbers both on the API and towards Magento.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// PriceRecord is the price state of one product in one store scope.
// A nil SpecialPrice means no special price; a zero one is a cleared price
// that may still carry from/to dates.
type PriceRecord struct {
	StoreID          int              `json:"store_id"`
	BasePrice        decimal.Decimal  `json:"base_price"`
	SpecialPrice     *decimal.Decimal `json:"special_price"`
	SpecialPriceFrom *string          `json:"special_price_from"`
	SpecialPriceTo   *string          `json:"special_price_to"`
}

// Product is the normalized view of a Magento catalog item.
type Product struct {
	ID       int           `json:"id"`
	SKU      string        `json:"sku"`
	Name     string        `json:"name"`
	ImageURL *string       `json:"image_url"`
	Prices   []PriceRecord `json:"prices"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items      []Product `json:"items"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}

// ProductQuery holds the listing parameters of POST /products.
type ProductQuery struct {
	StoreID  int    `form:"store_id" binding:"gte=0"`
	Page     int    `form:"page" binding:"gte=0"`
	PageSize int    `form:"page_size" binding:"gte=0,lte=500"`
	Search   string `form:"search"`
}

// PriceUpdate is a partial price change. Nil fields are left untouched on Magento.
type PriceUpdate struct {
	SKU              string           `json:"sku" binding:"required"`
	StoreID          int              `json:"store_id" binding:"gte=0"`
	BasePrice        *decimal.Decimal `json:"base_price,omitempty" binding:"omitempty,gte=0"`
	SpecialPrice     *decimal.Decimal `json:"special_price,omitempty" binding:"omitempty,gte=0"`
	SpecialPriceFrom *string          `json:"special_price_from,omitempty"`
	SpecialPriceTo   *string          `json:"special_price_to,omitempty"`
}

// VatRate is the VAT percentage applied to one store view.
type VatRate struct {
	StoreID        int             `json:"store_id" binding:"gte=0"`
	StoreName      string          `json:"store_name"`
	VatRatePercent decimal.Decimal `json:"vat_rate" binding:"gte=0"`
}
