package domain

import (
	"math"
	"testing"
)

func TestEstimateCost(t *testing.T) {
	const rate = 0.01

	for _, d := range []float64{1, 30, 60.5, 3600} {
		cost, err := EstimateCost(d, rate)
		if err != nil {
			t.Fatalf("EstimateCost(%v) error: %v", d, err)
		}
		if cost != d*rate {
			t.Fatalf("EstimateCost(%v) = %v, want %v", d, cost, d*rate)
		}
	}
}

func TestEstimateCost_RejectsNonPositive(t *testing.T) {
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := EstimateCost(d, 0.01); err != ErrInvalidDuration {
			t.Fatalf("EstimateCost(%v): expected ErrInvalidDuration, got %v", d, err)
		}
	}
}

func TestNewCreditEstimate_EqualBalanceIsSufficient(t *testing.T) {
	est := NewCreditEstimate(1.5, 150, 1.5)
	if !est.HasSufficientCredits {
		t.Fatalf("expected sufficient credits when balance equals cost")
	}

	est = NewCreditEstimate(1.49, 150, 1.5)
	if est.HasSufficientCredits {
		t.Fatalf("expected insufficient credits")
	}
}
