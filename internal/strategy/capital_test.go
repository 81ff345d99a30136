package strategy

import "testing"

func TestCapitalizationFilter_FailOpen(t *testing.T) {
	thresholds := []float64{0, 1, 50_000_000, 1e12}
	for _, th := range thresholds {
		f := NewCapitalizationFilter(th)
		if admit, known := f.Admit(0, true); !admit || known {
			t.Errorf("threshold %v: zero cap should be admitted as unknown, got admit=%v known=%v", th, admit, known)
		}
		if admit, known := f.Admit(0, false); !admit || known {
			t.Errorf("threshold %v: absent cap should be admitted as unknown, got admit=%v known=%v", th, admit, known)
		}
	}
}

func TestCapitalizationFilter_Threshold(t *testing.T) {
	f := NewCapitalizationFilter(50_000_000)
	tests := []struct {
		cap   float64
		admit bool
	}{
		{1, false},
		{49_999_999.99, false},
		{50_000_000, true},
		{3e12, true},
	}
	for _, tt := range tests {
		admit, known := f.Admit(tt.cap, true)
		if admit != tt.admit {
			t.Errorf("cap %v: admit = %v, want %v", tt.cap, admit, tt.admit)
		}
		if !known {
			t.Errorf("cap %v: expected known", tt.cap)
		}
	}
}

func TestCapitalizationFilter_Disabled(t *testing.T) {
	f := NewCapitalizationFilter(0)
	if admit, _ := f.Admit(1, true); !admit {
		t.Error("threshold 0 should admit every ticker")
	}
}
