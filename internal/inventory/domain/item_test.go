package domain

import "testing"

func TestAvailableStock(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		reserved int
		want     int
	}{
		{"no reservations", 50, 0, 50},
		{"partial reservation", 50, 20, 30},
		{"fully reserved", 50, 50, 0},
		{"over-reserved clamps to zero", 10, 15, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &InventoryItem{CurrentStock: tt.current, ReservedStock: tt.reserved}
			if got := item.AvailableStock(); got != tt.want {
				t.Errorf("AvailableStock() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotalValue(t *testing.T) {
	item := &InventoryItem{CurrentStock: 12, UnitCost: 2.5}
	if got := item.TotalValue(); got != 30.0 {
		t.Errorf("TotalValue() = %f, want 30.0", got)
	}

	empty := &InventoryItem{CurrentStock: 0, UnitCost: 9.99}
	if got := empty.TotalValue(); got != 0 {
		t.Errorf("TotalValue() on empty item = %f, want 0", got)
	}
}

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name    string
		current int
		minimum int
		want    string
	}{
		{"zero stock", 0, 10, StockStatusOutOfStock},
		{"at half of minimum", 5, 10, StockStatusCritical},
		{"below half of minimum", 3, 10, StockStatusCritical},
		{"at minimum", 10, 10, StockStatusLow},
		{"between half and minimum", 7, 10, StockStatusLow},
		{"above minimum", 11, 10, StockStatusNormal},
		{"no minimum configured", 1, 0, StockStatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &InventoryItem{CurrentStock: tt.current, MinimumStock: tt.minimum}
			if got := item.StockStatus(); got != tt.want {
				t.Errorf("StockStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}
