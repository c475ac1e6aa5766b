package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// QuoteStatus describes why a quote is (un)available.
type QuoteStatus string

const (
	QuoteOK           QuoteStatus = "ok"
	QuoteNoInput      QuoteStatus = "no_input"
	QuoteNoPool       QuoteStatus = "no_pool"
	QuoteInvalidPair  QuoteStatus = "invalid_pair"
	QuoteLookupFailed QuoteStatus = "lookup_failed"
)

// Unavailable is how a missing quote field is displayed.
const Unavailable = "-"

// Quote is the result of pricing a candidate swap. Nil amounts and invalid decimals are
// unavailable, which is distinct from a computed zero.
type Quote struct {
	Status             QuoteStatus         `json:"status"`
	AmountIn           *big.Int            `json:"amount_in,omitempty"`
	AmountOut          *big.Int            `json:"amount_out,omitempty"`
	MinimumReceived    *big.Int            `json:"minimum_received,omitempty"`
	Price              decimal.NullDecimal `json:"price"`
	PriceImpactPercent decimal.NullDecimal `json:"price_impact_percent"`
	LPFee              decimal.NullDecimal `json:"lp_fee"`
	Reserves           *PoolReserves       `json:"reserves,omitempty"`
	Reason             string              `json:"reason,omitempty"`
}

// Available reports whether the quote carries a computed output amount.
func (q Quote) Available() bool {
	return q.Status == QuoteOK && q.AmountOut != nil
}

// FormatDecimal renders v with the given number of places, or "-" when unavailable.
func FormatDecimal(v decimal.NullDecimal, places int32) string {
	if !v.Valid {
		return Unavailable
	}
	return v.Decimal.StringFixed(places)
}
