package providers

import (
	"net/http"
	"net/url"
	"price-manager-service/models"

	"github.com/shopspring/decimal"
)

type specialPrice struct {
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	StoreID   int             `json:"store_id"`
	PriceFrom string          `json:"price_from"`
	PriceTo   string          `json:"price_to"`
}

type specialPriceBatch struct {
	Prices []specialPrice `json:"prices"`
}

// ProductUpdateRequest is the scoped PUT /products/{sku} call for update.
func ProductUpdateRequest(storeCode string, update models.PriceUpdate) Request {
	return Request{
		Method:    http.MethodPut,
		Endpoint:  "/products/" + url.PathEscape(update.SKU),
		Body:      ToUpdatePayload(update),
		StoreCode: storeCode,
	}
}

// SpecialPriceRequest writes one record through the bulk special price API.
func SpecialPriceRequest(update models.PriceUpdate) Request {
	rec := specialPrice{SKU: update.SKU, StoreID: update.StoreID}
	if update.SpecialPrice != nil {
		rec.Price = *update.SpecialPrice
	}
	if update.SpecialPriceFrom != nil {
		rec.PriceFrom = *update.SpecialPriceFrom
	}
	if update.SpecialPriceTo != nil {
		rec.PriceTo = *update.SpecialPriceTo
	}
	return Request{
		Method:   http.MethodPost,
		Endpoint: "/products/special-price",
		Body:     specialPriceBatch{Prices: []specialPrice{rec}},
	}
}

// SpecialPriceDeleteRequest clears the special price of sku in storeID.
func SpecialPriceDeleteRequest(sku string, storeID int) Request {
	return Request{
		Method:   http.MethodPost,
		Endpoint: "/products/special-price-delete",
		Body: specialPriceBatch{Prices: []specialPrice{{
			SKU:     sku,
			Price:   decimal.Zero,
			StoreID: storeID,
		}}},
	}
}
