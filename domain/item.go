package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item categories. Anything outside this set collapses to CategorySupplies.
const (
	CategoryMedication = "medication"
	CategoryEquipment  = "equipment"
	CategorySupplies   = "supplies"
	CategoryDiagnostic = "diagnostic"
	CategorySurgical   = "surgical"
	CategoryProtective = "protective"
	CategoryDisposable = "disposable"
)

// Categories lists every valid item category.
var Categories = []string{
	CategoryMedication,
	CategoryEquipment,
	CategorySupplies,
	CategoryDiagnostic,
	CategorySurgical,
	CategoryProtective,
	CategoryDisposable,
}

// NormalizeCategory lowercases and validates a category, falling back to
// "supplies" when the value is empty or not in the known set.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, valid := range Categories {
		if c == valid {
			return c
		}
	}
	return CategorySupplies
}

type InventoryItem struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description"`
	Category     string          `db:"category" json:"category"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	Unit         string          `db:"unit" json:"unit"`
	CostPerUnit  decimal.Decimal `db:"cost_per_unit" json:"cost_per_unit"`
	MinThreshold int64           `db:"min_threshold" json:"min_threshold"`
	ExpiryDate   *time.Time      `db:"expiry_date" json:"expiry_date,omitempty"`
	Supplier     string          `db:"supplier" json:"supplier"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// DeriveThreshold returns the default minimum threshold for a new item:
// 20% of the initial quantity, rounded. Fixed at creation, never recomputed.
func DeriveThreshold(quantity int64) int64 {
	return int64(math.Round(float64(quantity) * 0.2))
}
