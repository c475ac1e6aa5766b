package quote

import (
	"math/big"

	"github.com/shopspring/decimal"

	"launchpad/internal/model"
)

const (
	// BpsDenominator is the basis-point scale for fees and slippage.
	BpsDenominator = 10_000
	// DefaultFeeBps is the 0.3% V2 swap fee.
	DefaultFeeBps = 30
)

var (
	bpsDen     = big.NewInt(BpsDenominator)
	hundred    = decimal.NewFromInt(100)
	bpsDecimal = decimal.NewFromInt(BpsDenominator)
)

// EffectiveInput returns amountIn*(10000-feeBps)/10000, floored.
func EffectiveInput(amountIn *big.Int, feeBps uint32) *big.Int {
	if amountIn == nil || amountIn.Sign() <= 0 || feeBps >= BpsDenominator {
		return new(big.Int)
	}
	out := new(big.Int).Mul(amountIn, big.NewInt(int64(BpsDenominator-feeBps)))
	return out.Quo(out, bpsDen)
}

// QuoteOutput is the constant-product output for amountIn with the fee taken from the
// input. All division floors. A pool without liquidity quotes zero.
func QuoteOutput(reserves model.PoolReserves, amountIn *big.Int, feeBps uint32) *big.Int {
	if !reserves.HasLiquidity() {
		return new(big.Int)
	}
	effective := EffectiveInput(amountIn, feeBps)
	denominator := new(big.Int).Add(reserves.ReserveIn, effective)
	if denominator.Sign() == 0 {
		return new(big.Int)
	}
	numerator := new(big.Int).Mul(effective, reserves.ReserveOut)
	return numerator.Quo(numerator, denominator)
}

// SpotPrice is reserveOut/reserveIn in human units. ok is false when either reserve is zero.
func SpotPrice(reserves model.PoolReserves) (decimal.Decimal, bool) {
	if !reserves.HasLiquidity() {
		return decimal.Zero, false
	}
	in := decimal.NewFromBigInt(reserves.ReserveIn, -int32(reserves.DecimalsIn))
	out := decimal.NewFromBigInt(reserves.ReserveOut, -int32(reserves.DecimalsOut))
	return out.Div(in), true
}

// PriceImpact is the percentage shortfall of amountOut against amountIn*spot.
func PriceImpact(amountIn, amountOut, spot decimal.Decimal) (decimal.Decimal, bool) {
	expected := amountIn.Mul(spot)
	if expected.Sign() <= 0 {
		return decimal.Zero, false
	}
	return expected.Sub(amountOut).Div(expected).Mul(hundred), true
}

// LPFee is the portion of amountIn paid to liquidity providers, in input-token units.
func LPFee(amountIn decimal.Decimal, feeBps uint32) decimal.Decimal {
	return amountIn.Mul(decimal.NewFromInt(int64(feeBps))).Div(bpsDecimal)
}

// ApplySlippage returns amount*(10000-slippageBps)/10000, floored.
func ApplySlippage(amount *big.Int, slippageBps uint32) *big.Int {
	if amount == nil || amount.Sign() <= 0 || slippageBps >= BpsDenominator {
		return new(big.Int)
	}
	out := new(big.Int).Mul(amount, big.NewInt(int64(BpsDenominator-slippageBps)))
	return out.Quo(out, bpsDen)
}

// PairAmount returns the amount of the out-token matching amountIn at the current pool
// ratio, with no fee and no curve. Used to suggest the other leg of a deposit.
func PairAmount(reserves model.PoolReserves, amountIn *big.Int) *big.Int {
	if !reserves.HasLiquidity() || amountIn == nil || amountIn.Sign() <= 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(amountIn, reserves.ReserveOut)
	return out.Quo(out, reserves.ReserveIn)
}

// DepositLeg returns the out-token amount that pairs with amountIn at the pool ratio,
// and what swapping amountIn through the pool at feeBps would return instead.
func DepositLeg(reserves model.PoolReserves, amountIn *big.Int, feeBps uint32) (paired, swapOut *big.Int) {
	return PairAmount(reserves, amountIn), QuoteOutput(reserves, amountIn, feeBps)
}

// Calculate prices amountIn against reserves. A nil or zero amountIn yields a
// no_input quote where only the spot price is filled in.
func Calculate(reserves model.PoolReserves, amountIn *big.Int, feeBps uint32) model.Quote {
	snapshot := reserves
	q := model.Quote{Status: model.QuoteNoInput, Reserves: &snapshot}
	if !reserves.HasLiquidity() {
		q.Status = model.QuoteNoPool
		q.Reason = "pool has no liquidity"
		return q
	}

	price, ok := SpotPrice(reserves)
	q.Price = decimal.NullDecimal{Decimal: price, Valid: ok}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return q
	}

	out := QuoteOutput(reserves, amountIn, feeBps)
	q.Status = model.QuoteOK
	q.AmountIn = new(big.Int).Set(amountIn)
	q.AmountOut = out
	q.MinimumReceived = new(big.Int).Set(out)

	inHuman := decimal.NewFromBigInt(amountIn, -int32(reserves.DecimalsIn))
	outHuman := decimal.NewFromBigInt(out, -int32(reserves.DecimalsOut))
	impact, ok := PriceImpact(inHuman, outHuman, price)
	q.PriceImpactPercent = decimal.NullDecimal{Decimal: impact, Valid: ok}
	q.LPFee = decimal.NullDecimal{Decimal: LPFee(inHuman, feeBps), Valid: true}
	return q
}
