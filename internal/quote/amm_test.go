package quote

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/model"
)

func units(n int64, decimals uint8) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Int).Mul(big.NewInt(n), scale)
}

func pool(in, out *big.Int) model.PoolReserves {
	return model.PoolReserves{ReserveIn: in, ReserveOut: out, DecimalsIn: 18, DecimalsOut: 18}
}

func TestQuoteOutputLargePool(t *testing.T) {
	reserves := pool(units(1_000_000, 18), units(2_000, 18))
	out := QuoteOutput(reserves, units(1_000, 18), DefaultFeeBps)

	// 997e18 * 2000e18 / (1e24 + 997e18), floored.
	want, _ := new(big.Int).SetString("1992013962079806432", 10)
	assert.Equal(t, want.String(), out.String())
	assert.True(t, out.Cmp(units(199, 16)) > 0)
	assert.True(t, out.Cmp(new(big.Int).Mul(big.NewInt(1994), units(1, 15))) <= 0)
}

func TestQuoteOutputEmptyReserveIn(t *testing.T) {
	reserves := pool(new(big.Int), units(2_000, 18))
	for _, in := range []*big.Int{big.NewInt(1), units(1, 18), units(1_000_000, 18)} {
		assert.Zero(t, QuoteOutput(reserves, in, DefaultFeeBps).Sign())
	}
	_, ok := SpotPrice(reserves)
	assert.False(t, ok)
}

func TestQuoteOutputZeroInput(t *testing.T) {
	reserves := pool(units(10, 18), units(10, 18))
	assert.Zero(t, QuoteOutput(reserves, nil, DefaultFeeBps).Sign())
	assert.Zero(t, QuoteOutput(reserves, new(big.Int), DefaultFeeBps).Sign())
	assert.Zero(t, QuoteOutput(reserves, big.NewInt(-5), DefaultFeeBps).Sign())
}

func TestQuoteOutputMonotoneAndBounded(t *testing.T) {
	reserves := pool(units(500, 18), units(7_000, 6))
	reserves.DecimalsOut = 6

	prev := new(big.Int)
	for _, n := range []int64{1, 2, 5, 10, 50, 100, 499, 500, 5_000, 1_000_000} {
		in := units(n, 18)
		out := QuoteOutput(reserves, in, DefaultFeeBps)
		assert.True(t, out.Cmp(prev) >= 0, "output decreased at %d", n)
		assert.True(t, out.Cmp(reserves.ReserveOut) < 0, "output reached reserve at %d", n)

		naive := new(big.Int).Mul(in, reserves.ReserveOut)
		naive.Quo(naive, reserves.ReserveIn)
		assert.True(t, out.Cmp(naive) < 0, "output not below naive product at %d", n)
		prev = out
	}
}

func TestQuoteRoundTripLoses(t *testing.T) {
	reserves := pool(units(1_000, 18), units(3_000, 18))
	in := units(10, 18)
	out := QuoteOutput(reserves, in, DefaultFeeBps)

	// Same snapshot both ways: no profit beyond twice the fee.
	back := QuoteOutput(reserves.Reverse(), out, DefaultFeeBps)
	bound := new(big.Int).Mul(in, big.NewInt(BpsDenominator+2*DefaultFeeBps))
	bound.Quo(bound, big.NewInt(BpsDenominator))
	assert.True(t, back.Cmp(bound) <= 0)

	// Against the post-swap pool the trader always loses.
	after := model.PoolReserves{
		ReserveIn:   new(big.Int).Sub(reserves.ReserveOut, out),
		ReserveOut:  new(big.Int).Add(reserves.ReserveIn, in),
		DecimalsIn:  18,
		DecimalsOut: 18,
	}
	assert.True(t, QuoteOutput(after, out, DefaultFeeBps).Cmp(in) < 0)
}

func TestPriceImpactGrowsWithSize(t *testing.T) {
	reserves := pool(units(1_000, 18), units(2_000, 18))
	prev := decimal.NewFromInt(-1)
	for _, n := range []int64{1, 10, 100, 1_000} {
		q := Calculate(reserves, units(n, 18), DefaultFeeBps)
		require.Equal(t, model.QuoteOK, q.Status)
		require.True(t, q.PriceImpactPercent.Valid)
		assert.True(t, q.PriceImpactPercent.Decimal.GreaterThan(prev), "impact did not grow at %d", n)
		prev = q.PriceImpactPercent.Decimal
	}
}

func TestCalculate(t *testing.T) {
	reserves := pool(units(1_000, 18), units(2_000, 18))
	q := Calculate(reserves, units(1, 18), DefaultFeeBps)

	require.Equal(t, model.QuoteOK, q.Status)
	assert.True(t, q.Available())
	assert.Equal(t, q.AmountOut.String(), q.MinimumReceived.String())
	assert.Equal(t, "2", q.Price.Decimal.String())
	assert.Equal(t, "0.003", q.LPFee.Decimal.String())
	assert.Equal(t, "0.40", model.FormatDecimal(q.PriceImpactPercent, 2))
	require.NotNil(t, q.Reserves)
	assert.Equal(t, reserves.ReserveIn.String(), q.Reserves.ReserveIn.String())
}

func TestCalculateNoInputKeepsPrice(t *testing.T) {
	q := Calculate(pool(units(4, 18), units(1, 18)), nil, DefaultFeeBps)
	assert.Equal(t, model.QuoteNoInput, q.Status)
	assert.False(t, q.Available())
	assert.Nil(t, q.AmountOut)
	assert.Equal(t, "0.25", model.FormatDecimal(q.Price, 2))
	assert.Equal(t, model.Unavailable, model.FormatDecimal(q.PriceImpactPercent, 2))
	assert.Equal(t, model.Unavailable, model.FormatDecimal(q.LPFee, 4))
}

func TestCalculateEmptyPool(t *testing.T) {
	q := Calculate(pool(new(big.Int), new(big.Int)), units(1, 18), DefaultFeeBps)
	assert.Equal(t, model.QuoteNoPool, q.Status)
	assert.False(t, q.Price.Valid)
}

func TestApplySlippage(t *testing.T) {
	assert.Equal(t, "190", ApplySlippage(big.NewInt(200), 500).String())
	assert.Equal(t, "199", ApplySlippage(big.NewInt(200), 50).String())
	assert.Equal(t, "200", ApplySlippage(big.NewInt(200), 0).String())
	assert.Equal(t, "0", ApplySlippage(big.NewInt(200), BpsDenominator).String())
	assert.Equal(t, "0", ApplySlippage(nil, 500).String())
}

func TestPairAmount(t *testing.T) {
	reserves := pool(units(1_000, 18), units(5, 18))
	assert.Equal(t, units(1, 16).String(), PairAmount(reserves, units(2, 18)).String())
	assert.Zero(t, PairAmount(pool(new(big.Int), units(5, 18)), units(2, 18)).Sign())
}

func TestDepositLeg(t *testing.T) {
	reserves := pool(units(1_000, 18), units(5, 18))
	paired, swapOut := DepositLeg(reserves, units(2, 18), DefaultFeeBps)
	assert.Equal(t, units(1, 16).String(), paired.String())
	assert.Equal(t, QuoteOutput(reserves, units(2, 18), DefaultFeeBps).String(), swapOut.String())
	assert.Equal(t, -1, swapOut.Cmp(paired), "a swap pays fee and curve, pairing does not")

	_, noFee := DepositLeg(reserves, units(2, 18), 0)
	assert.Equal(t, 1, noFee.Cmp(swapOut), "a higher fee must lower the swap output")

	paired, swapOut = DepositLeg(pool(new(big.Int), units(5, 18)), units(2, 18), DefaultFeeBps)
	assert.Zero(t, paired.Sign())
	assert.Zero(t, swapOut.Sign())
}
