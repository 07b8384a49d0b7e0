package services

import (
	"errors"
	"price-manager-service/models"
	"price-manager-service/spreadsheet"
	"strings"
)

// Sheet layout shared by export, template and import.
const (
	SheetName = "Prices"

	ColSKU          = "SKU"
	ColName         = "Name"
	ColStore        = "Store"
	ColStoreName    = "Store Name"
	ColVat          = "VAT %"
	ColPrice        = "Price (incl. VAT)"
	ColSpecialPrice = "Special Price (incl. VAT)"
	ColSpecialFrom  = "Special From"
	ColSpecialTo    = "Special To"
)

// Header aliases accepted on import besides the canonical names.
var (
	priceAliases        = []string{ColPrice, "Price"}
	specialPriceAliases = []string{ColSpecialPrice, "Special Price"}
	storeAliases        = []string{ColStore, "Store Code"}
	specialFromAliases  = []string{ColSpecialFrom, "Special Price From"}
	specialToAliases    = []string{ColSpecialTo, "Special Price To"}
)

// SheetHeaders is the column order of exports and of the template.
var SheetHeaders = []string{
	ColSKU, ColName, ColStore, ColStoreName, ColVat,
	ColPrice, ColSpecialPrice, ColSpecialFrom, ColSpecialTo,
}

// ErrMissingColumns means the sheet cannot be imported at all.
var ErrMissingColumns = errors.New("spreadsheet must contain SKU and Store columns")

// bulkRowsFromTable maps decoded cells onto BulkRows. Cells that fail to
// parse as a price are treated as absent.
func bulkRowsFromTable(t *spreadsheet.Table) ([]models.BulkRow, error) {
	if !t.HasColumn(ColSKU) || !t.HasColumn(storeAliases...) {
		return nil, ErrMissingColumns
	}

	rows := make([]models.BulkRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, models.BulkRow{
			Line:              r.Line,
			SKU:               strings.TrimSpace(r.Get(ColSKU)),
			StoreCode:         strings.TrimSpace(r.Get(storeAliases...)),
			BasePriceGross:    spreadsheet.ParseDecimal(r.Get(priceAliases...)),
			SpecialPriceGross: spreadsheet.ParseDecimal(r.Get(specialPriceAliases...)),
			SpecialFrom:       dateCell(r.Get(specialFromAliases...)),
			SpecialTo:         dateCell(r.Get(specialToAliases...)),
		})
	}
	return rows, nil
}

func dateCell(raw string) *string {
	d, ok := spreadsheet.NormalizeDate(raw)
	if !ok {
		return nil
	}
	return &d
}

// exportRow is one product in one store scope, prices still net.
type exportRow struct {
	product models.Product
	view    models.StoreView
	order   int
	vat     VatLookup
}

func (r exportRow) cells() []interface{} {
	pct := r.vat.PercentFor(r.view.ID)
	var price models.PriceRecord
	if len(r.product.Prices) > 0 {
		price = r.product.Prices[0]
	}

	gross := Round2(ToGross(price.BasePrice, pct))
	var special interface{}
	if g := GrossPrice(price.SpecialPrice, pct); g != nil {
		special = g.InexactFloat64()
	}

	return []interface{}{
		r.product.SKU,
		r.product.Name,
		r.view.Code,
		r.view.Name,
		pct.InexactFloat64(),
		gross.InexactFloat64(),
		special,
		datePresentation(price.SpecialPriceFrom),
		datePresentation(price.SpecialPriceTo),
	}
}

func datePresentation(raw *string) string {
	if raw == nil {
		return ""
	}
	d, _ := spreadsheet.NormalizeDate(*raw)
	return d
}

// templateRows is the single example row shipped with the template.
func templateRows() [][]interface{} {
	return [][]interface{}{{
		"SKU-EXAMPLE", "Example product", "default", "Default Store View",
		22, 12.20, 9.76, "2025-01-01", "2025-01-31",
	}}
}
