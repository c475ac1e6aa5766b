package model

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func bigInt(v int64) *big.Int {
	return big.NewInt(v)
}

func TestApprovalSufficient(t *testing.T) {
	cases := []struct {
		allowance, required *big.Int
		want                bool
	}{
		{bigInt(50), bigInt(100), false},
		{bigInt(100), bigInt(100), true},
		{bigInt(150), bigInt(100), true},
		{bigInt(100), bigInt(0), false},
		{nil, bigInt(1), false},
		{bigInt(1), nil, false},
	}
	for _, tc := range cases {
		a := LiquidityApproval{Allowance: tc.allowance, RequiredAmount: tc.required}
		if got := a.Sufficient(); got != tc.want {
			t.Fatalf("allowance %v required %v: got %v want %v", tc.allowance, tc.required, got, tc.want)
		}
	}
}

func TestQuoteAvailability(t *testing.T) {
	q := Quote{Status: QuoteNoInput, Price: decimal.NewNullDecimal(decimal.RequireFromString("1.5"))}
	if q.Available() {
		t.Fatalf("no_input quote must not be available")
	}
	if got := FormatDecimal(q.Price, 3); got != "1.500" {
		t.Fatalf("price = %q", got)
	}
	if got := FormatDecimal(q.PriceImpactPercent, 2); got != Unavailable {
		t.Fatalf("impact = %q", got)
	}

	q = Quote{Status: QuoteOK, AmountOut: bigInt(0)}
	if !q.Available() {
		t.Fatalf("a computed zero is still available")
	}
}
