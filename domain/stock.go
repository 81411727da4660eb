package domain

// StockStatus is the three-level stock classification shown on every
// dashboard.
type StockStatus string

const (
	StockLow    StockStatus = "Low"
	StockMedium StockStatus = "Medium"
	StockGood   StockStatus = "Good"
)

// Classify maps a quantity against an item's minimum threshold.
// Low below the threshold, Medium from the threshold up to (exclusive)
// 1.5x the threshold, Good from 1.5x on.
func Classify(quantity, threshold int64) StockStatus {
	if quantity < threshold {
		return StockLow
	}
	if float64(quantity) < float64(threshold)*1.5 {
		return StockMedium
	}
	return StockGood
}
