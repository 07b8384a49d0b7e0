package providers

import (
	"encoding/json"
	"price-manager-service/models"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Attribute codes understood by the normalizer. Every other custom attribute is ignored.
const (
	attrSpecialPrice = "special_price"
	attrSpecialFrom  = "special_from_date"
	attrSpecialTo    = "special_to_date"
	attrImage        = "image"

	mediaPathPrefix = "/media/catalog/product"
)

// CustomAttribute is one entry of a Magento custom_attributes list.
// Value is usually a string but Magento also returns numbers and arrays.
type CustomAttribute struct {
	AttributeCode string      `json:"attribute_code"`
	Value         interface{} `json:"value"`
}

// ProductItem is a catalog item as returned by GET /products.
type ProductItem struct {
	ID               int               `json:"id"`
	SKU              string            `json:"sku"`
	Name             string            `json:"name"`
	Price            *decimal.Decimal  `json:"price"`
	CustomAttributes []CustomAttribute `json:"custom_attributes"`
}

// ProductSearchResult is the GET /products response envelope.
type ProductSearchResult struct {
	Items      []ProductItem `json:"items"`
	TotalCount int           `json:"total_count"`
}

// ProductUpdatePayload is the PUT /products/{sku} body.
type ProductUpdatePayload struct {
	Product ProductUpdate `json:"product"`
}

// ProductUpdate carries only the fields being changed.
type ProductUpdate struct {
	SKU              string            `json:"sku"`
	Price            *decimal.Decimal  `json:"price,omitempty"`
	CustomAttributes []CustomAttribute `json:"custom_attributes,omitempty"`
}

// FromRemoteItem projects a Magento item onto a Product carrying one PriceRecord for storeID.
func FromRemoteItem(item ProductItem, storeID int, baseURL string) models.Product {
	record := models.PriceRecord{StoreID: storeID}
	if item.Price != nil {
		record.BasePrice = *item.Price
	}

	var imageURL *string
	for _, attr := range item.CustomAttributes {
		value, ok := attributeString(attr.Value)
		if !ok {
			continue
		}
		switch attr.AttributeCode {
		case attrSpecialPrice:
			if value == "" {
				continue
			}
			if d, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
				record.SpecialPrice = &d
			}
		case attrSpecialFrom:
			v := value
			record.SpecialPriceFrom = &v
		case attrSpecialTo:
			v := value
			record.SpecialPriceTo = &v
		case attrImage:
			if value != "" {
				u := strings.TrimRight(baseURL, "/") + mediaPathPrefix + value
				imageURL = &u
			}
		}
	}

	return models.Product{
		ID:       item.ID,
		SKU:      item.SKU,
		Name:     item.Name,
		ImageURL: imageURL,
		Prices:   []models.PriceRecord{record},
	}
}

// ToUpdatePayload builds the product update body for update. A zero special
// price is sent as an empty value, which clears it on Magento.
func ToUpdatePayload(update models.PriceUpdate) ProductUpdatePayload {
	p := ProductUpdate{SKU: update.SKU}

	if update.BasePrice != nil {
		price := *update.BasePrice
		p.Price = &price
	}
	if update.SpecialPrice != nil {
		value := ""
		if !update.SpecialPrice.IsZero() {
			value = update.SpecialPrice.String()
		}
		p.CustomAttributes = append(p.CustomAttributes, CustomAttribute{AttributeCode: attrSpecialPrice, Value: value})
	}
	if update.SpecialPriceFrom != nil && *update.SpecialPriceFrom != "" {
		p.CustomAttributes = append(p.CustomAttributes, CustomAttribute{AttributeCode: attrSpecialFrom, Value: *update.SpecialPriceFrom})
	}
	if update.SpecialPriceTo != nil && *update.SpecialPriceTo != "" {
		p.CustomAttributes = append(p.CustomAttributes, CustomAttribute{AttributeCode: attrSpecialTo, Value: *update.SpecialPriceTo})
	}

	return ProductUpdatePayload{Product: p}
}

func attributeString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}
