package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestVatRatesFromDocuments(t *testing.T) {
	rates, err := vatRatesFromDocuments([]vatRateDocument{
		{StoreID: 1, StoreName: "Default", VatRatePercent: "22"},
		{StoreID: 2, StoreName: "Germany", VatRatePercent: "19.5"},
	})
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, 1, rates[0].StoreID)
	assert.Equal(t, "Default", rates[0].StoreName)
	assert.True(t, rates[0].VatRatePercent.Equal(decimal.NewFromInt(22)))
	assert.True(t, rates[1].VatRatePercent.Equal(decimal.RequireFromString("19.5")))
}

func TestVatRatesFromDocuments_Empty(t *testing.T) {
	rates, err := vatRatesFromDocuments(nil)
	require.NoError(t, err)
	assert.NotNil(t, rates)
	assert.Empty(t, rates)
}

func TestVatRatesFromDocuments_InvalidRate(t *testing.T) {
	rates, err := vatRatesFromDocuments([]vatRateDocument{
		{StoreID: 1, VatRatePercent: "22"},
		{StoreID: 7, StoreName: "Broken", VatRatePercent: "abc"},
	})
	require.Error(t, err)
	assert.Nil(t, rates)
	assert.Contains(t, err.Error(), "store 7")
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestVatRatesDocument_BSONLayout(t *testing.T) {
	doc := vatRatesDocument{
		ID:    vatRatesDocumentID,
		Rates: []vatRateDocument{{StoreID: 3, StoreName: "Italy", VatRatePercent: "22.00"}},
	}
	data, err := bson.Marshal(doc)
	require.NoError(t, err)
	raw := bson.Raw(data)

	assert.Equal(t, vatRatesDocumentID, raw.Lookup("_id").StringValue())
	assert.EqualValues(t, 3, raw.Lookup("rates", "0", "store_id").AsInt64())
	assert.Equal(t, "Italy", raw.Lookup("rates", "0", "store_name").StringValue())
	// stored as a string to keep trailing precision
	assert.Equal(t, "22.00", raw.Lookup("rates", "0", "vat_rate_percent").StringValue())
}
