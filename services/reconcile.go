package services

import (
	"context"
	"fmt"
	"price-manager-service/models"
	"price-manager-service/providers"
	"strings"
)

// RowWriteHook is told about every row written successfully by ImportRows.
type RowWriteHook func(ctx context.Context, row models.BulkRow, storeCode string, update models.PriceUpdate)

// ImportRows applies rows one by one. Every failure becomes a RowError in the
// result and the loop carries on; the result is returned even if all rows fail.
// Gross prices are converted to net with the store's VAT before writing
// straight to the row's store scope.
func ImportRows(
	ctx context.Context,
	rows []models.BulkRow,
	stores providers.StoreDirectory,
	vat VatLookup,
	gw providers.CatalogGateway,
	onWrite RowWriteHook,
) models.BulkResult {
	result := models.BulkResult{Errors: []string{}}
	fail := func(line int, msg string) {
		result.AddError((&RowError{Row: line, Message: msg}).Error())
	}

	for i, row := range rows {
		line := row.Line
		if line == 0 {
			// first data row sits under the header
			line = i + 2
		}

		sku := strings.TrimSpace(row.SKU)
		code := strings.TrimSpace(row.StoreCode)
		if sku == "" || code == "" {
			fail(line, "missing SKU or Store")
			continue
		}

		view, ok := stores.Lookup(code)
		if !ok {
			fail(line, fmt.Sprintf("store code '%s' not found", code))
			continue
		}
		// writes go to Magento's spelling of the code, not the sheet's
		code = view.Code

		pct := vat.PercentFor(view.ID)
		update := models.PriceUpdate{
			SKU:              sku,
			StoreID:          view.ID,
			BasePrice:        NetPrice(row.BasePriceGross, pct),
			SpecialPrice:     NetPrice(row.SpecialPriceGross, pct),
			SpecialPriceFrom: row.SpecialFrom,
			SpecialPriceTo:   row.SpecialTo,
		}
		if update.BasePrice == nil && update.SpecialPrice == nil {
			fail(line, "no price to update")
			continue
		}

		if err := gw.Call(ctx, providers.ProductUpdateRequest(code, update), nil); err != nil {
			fail(line, "remote error - "+remoteErrorDetail(err))
			continue
		}

		result.SuccessCount++
		if onWrite != nil {
			onWrite(ctx, row, code, update)
		}
	}
	return result
}
