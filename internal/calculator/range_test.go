package calculator

import (
	"testing"

	"StockLens/internal/model"
)

func TestTrailingRange(t *testing.T) {
	bars := barsFromCloses(rampCloses(100, 300))
	high, low, err := TrailingRange(bars, Lookback52Week)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// last 252 closes are 148..399, high = close+1, low = close-1
	if high != 400 || low != 147 {
		t.Errorf("got high=%.0f low=%.0f, want 400/147", high, low)
	}

	if _, _, err := TrailingRange(nil, Lookback30Day); err == nil {
		t.Error("expected error for empty bars")
	}
}

func TestRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low float64
		want               float64
		wantErr            bool
	}{
		{150, 200, 100, 0.5, false},
		{250, 200, 100, 1, false},
		{50, 200, 100, 0, false},
		{100, 100, 100, 0.5, false},
		{100, 50, 100, 0, true},
	}
	for _, tt := range tests {
		got, err := RangePosition(tt.current, tt.high, tt.low)
		if (err != nil) != tt.wantErr {
			t.Errorf("RangePosition(%v,%v,%v) err = %v", tt.current, tt.high, tt.low, err)
			continue
		}
		if got != tt.want {
			t.Errorf("RangePosition(%v,%v,%v) = %v, want %v", tt.current, tt.high, tt.low, got, tt.want)
		}
	}
}

func TestRanges(t *testing.T) {
	rs, err := Ranges(barsFromCloses([]float64{10, 20, 30}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.RangeStats{High52w: 31, Low52w: 9, High30d: 31, Low30d: 9, Position52w: 21.0 / 22.0}
	if rs != want {
		t.Errorf("got %+v, want %+v", rs, want)
	}
}
