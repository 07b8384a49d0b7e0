package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceChange sources.
const (
	PriceChangeManual        = "manual"
	PriceChangeSpecialPrice  = "special_price"
	PriceChangeSpecialDelete = "special_price_delete"
	PriceChangeImport        = "import"
)

// PriceChange is a journal entry persisted in Postgres for every successful write.
type PriceChange struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Source       string              `gorm:"type:varchar(32);not null;index" json:"source"`
	SKU          string              `gorm:"type:varchar(128);not null;index" json:"sku"`
	StoreID      int                 `gorm:"not null" json:"store_id"`
	StoreCode    string              `gorm:"type:varchar(64);index" json:"store_code"`
	BasePrice    decimal.NullDecimal `gorm:"type:decimal(12,4)" json:"base_price"`
	SpecialPrice decimal.NullDecimal `gorm:"type:decimal(12,4)" json:"special_price"`
	SpecialFrom  *string             `gorm:"type:varchar(32)" json:"special_from"`
	SpecialTo    *string             `gorm:"type:varchar(32)" json:"special_to"`
	JobID        string              `gorm:"type:varchar(64);index" json:"job_id,omitempty"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

// PriceChangeFilter narrows a journal listing.
type PriceChangeFilter struct {
	SKU       string `form:"sku"`
	StoreCode string `form:"store_code"`
	Page      int    `form:"page" binding:"gte=0"`
	PageSize  int    `form:"page_size" binding:"gte=0,lte=200"`
}

// PriceChangePage is one page of journal entries.
type PriceChangePage struct {
	Items      []PriceChange `json:"items"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

// PriceEvent is the payload published after price writes.
type PriceEvent struct {
	EventType    string           `json:"event_type"`
	SKU          string           `json:"sku,omitempty"`
	StoreID      int              `json:"store_id,omitempty"`
	BasePrice    *decimal.Decimal `json:"base_price,omitempty"`
	SpecialPrice *decimal.Decimal `json:"special_price,omitempty"`
	JobID        string           `json:"job_id,omitempty"`
	UpdatedCount int              `json:"updated_count,omitempty"`
	ErrorCount   int              `json:"error_count,omitempty"`
	Timestamp    time.Time        `json:"timestamp"`
}

// Price event types.
const (
	EventPriceUpdated        = "price.updated"
	EventSpecialPriceUpdated = "special_price.updated"
	EventSpecialPriceDeleted = "special_price.deleted"
	EventPricesImported      = "prices.imported"
)
