package domain

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int64
		threshold int64
		want      StockStatus
	}{
		{"below threshold is low", 40, 50, StockLow},
		{"just below threshold is low", 49, 50, StockLow},
		{"exactly threshold is medium", 50, 50, StockMedium},
		{"between threshold and 1.5x is medium", 120, 100, StockMedium},
		{"just below 1.5x is medium", 149, 100, StockMedium},
		{"exactly 1.5x is good", 150, 100, StockGood},
		{"well above threshold is good", 160, 100, StockGood},
		{"zero quantity with positive threshold is low", 0, 10, StockLow},
		{"odd threshold boundary", 15, 10, StockGood},
		{"odd threshold just under boundary", 14, 10, StockMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.quantity, tt.threshold)
			if got != tt.want {
				t.Errorf("Classify(%d, %d) = %s, want %s", tt.quantity, tt.threshold, got, tt.want)
			}
		})
	}
}
