package providers_test

import (
	"encoding/json"
	"price-manager-service/models"
	"price-manager-service/providers"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeItem(t *testing.T, raw string) providers.ProductItem {
	t.Helper()
	var item providers.ProductItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	return item
}

func TestFromRemoteItem_SpecialPriceAndDates(t *testing.T) {
	item := decodeItem(t, `{
		"id": 7, "sku": "MB01", "name": "Bag", "price": 34,
		"custom_attributes": [
			{"attribute_code": "special_price", "value": "15.50"},
			{"attribute_code": "special_from_date", "value": "2025-01-01"},
			{"attribute_code": "category_ids", "value": ["3", "4"]},
			{"attribute_code": "color", "value": "49"}
		]
	}`)

	p := providers.FromRemoteItem(item, 2, "https://shop.example")

	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "MB01", p.SKU)
	require.Len(t, p.Prices, 1)
	rec := p.Prices[0]
	assert.Equal(t, 2, rec.StoreID)
	assert.True(t, rec.BasePrice.Equal(decimal.NewFromInt(34)))
	require.NotNil(t, rec.SpecialPrice)
	assert.True(t, rec.SpecialPrice.Equal(decimal.RequireFromString("15.50")))
	require.NotNil(t, rec.SpecialPriceFrom)
	assert.Equal(t, "2025-01-01", *rec.SpecialPriceFrom)
	assert.Nil(t, rec.SpecialPriceTo)
	assert.Nil(t, p.ImageURL)
}

func TestFromRemoteItem_DefaultsAndBadSpecialPrice(t *testing.T) {
	item := decodeItem(t, `{
		"id": 1, "sku": "X",
		"custom_attributes": [
			{"attribute_code": "special_price", "value": "n/a"},
			{"attribute_code": "special_to_date", "value": "2025-02-01 00:00:00"}
		]
	}`)

	rec := providers.FromRemoteItem(item, 0, "https://shop.example").Prices[0]

	assert.True(t, rec.BasePrice.IsZero())
	assert.Nil(t, rec.SpecialPrice)
	require.NotNil(t, rec.SpecialPriceTo)
	assert.Equal(t, "2025-02-01 00:00:00", *rec.SpecialPriceTo)
}

func TestFromRemoteItem_ImageURL(t *testing.T) {
	item := decodeItem(t, `{"id": 1, "sku": "X", "custom_attributes": [{"attribute_code": "image", "value": "/m/b/mb01.jpg"}]}`)

	p := providers.FromRemoteItem(item, 0, "https://shop.example/")

	require.NotNil(t, p.ImageURL)
	assert.Equal(t, "https://shop.example/media/catalog/product/m/b/mb01.jpg", *p.ImageURL)
}

func TestFromRemoteItem_NumericSpecialPrice(t *testing.T) {
	item := decodeItem(t, `{"id": 1, "sku": "X", "custom_attributes": [{"attribute_code": "special_price", "value": 9.9}]}`)

	rec := providers.FromRemoteItem(item, 0, "").Prices[0]

	require.NotNil(t, rec.SpecialPrice)
	assert.True(t, rec.SpecialPrice.Equal(decimal.RequireFromString("9.9")))
}

func attributeValues(p providers.ProductUpdatePayload) map[string]interface{} {
	out := map[string]interface{}{}
	for _, a := range p.Product.CustomAttributes {
		out[a.AttributeCode] = a.Value
	}
	return out
}

func TestToUpdatePayload_ZeroSpecialPriceClears(t *testing.T) {
	zero := decimal.Zero
	payload := providers.ToUpdatePayload(models.PriceUpdate{SKU: "A", SpecialPrice: &zero})

	attrs := attributeValues(payload)
	v, ok := attrs["special_price"]
	require.True(t, ok)
	assert.Equal(t, "", v)
	assert.Nil(t, payload.Product.Price)
}

func TestToUpdatePayload_UnsetFieldsAreOmitted(t *testing.T) {
	payload := providers.ToUpdatePayload(models.PriceUpdate{SKU: "A"})

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"product":{"sku":"A"}}`, string(b))
}

func TestToUpdatePayload_AllFields(t *testing.T) {
	base := decimal.RequireFromString("19.90")
	special := decimal.RequireFromString("14.5")
	from, to, empty := "2025-01-01", "2025-01-31", ""

	payload := providers.ToUpdatePayload(models.PriceUpdate{
		SKU:              "A",
		BasePrice:        &base,
		SpecialPrice:     &special,
		SpecialPriceFrom: &from,
		SpecialPriceTo:   &to,
	})

	require.NotNil(t, payload.Product.Price)
	assert.True(t, payload.Product.Price.Equal(base))
	attrs := attributeValues(payload)
	assert.Equal(t, "14.5", attrs["special_price"])
	assert.Equal(t, from, attrs["special_from_date"])
	assert.Equal(t, to, attrs["special_to_date"])

	noDates := providers.ToUpdatePayload(models.PriceUpdate{SKU: "A", SpecialPriceFrom: &empty})
	assert.Empty(t, noDates.Product.CustomAttributes)
}

func TestSpecialPriceDeleteRequest(t *testing.T) {
	req := providers.SpecialPriceDeleteRequest("A", 3)

	b, err := json.Marshal(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "/products/special-price-delete", req.Endpoint)
	assert.JSONEq(t, `{"prices":[{"sku":"A","price":0,"store_id":3,"price_from":"","price_to":""}]}`, string(b))
}
