package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxReportedErrors caps the row errors returned by a bulk import.
const MaxReportedErrors = 20

// BulkRow is one data row of an import spreadsheet.
// Line is the spreadsheet line number (the header is line 1).
type BulkRow struct {
	Line              int
	SKU               string
	StoreCode         string
	BasePriceGross    *decimal.Decimal
	SpecialPriceGross *decimal.Decimal
	SpecialFrom       *string
	SpecialTo         *string
}

// BulkResult accumulates the outcome of an import.
type BulkResult struct {
	SuccessCount int      `json:"updated_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
}

// AddError counts a failed row and keeps its message while under the cap.
func (r *BulkResult) AddError(msg string) {
	r.ErrorCount++
	if len(r.Errors) < MaxReportedErrors {
		r.Errors = append(r.Errors, msg)
	}
}

// Import job statuses.
const (
	ImportJobPending    = "pending"
	ImportJobProcessing = "processing"
	ImportJobDone       = "done"
	ImportJobFailed     = "failed"
)

// ImportJob tracks an asynchronous import.
type ImportJob struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	FileKey   string       `json:"file_key,omitempty"`
	Auth      *MagentoAuth `json:"auth,omitempty"`
	Result    *BulkResult  `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
