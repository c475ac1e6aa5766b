package liquidity

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"launchpad/internal/model"
	"launchpad/internal/quote"
)

const (
	DefaultSlippageBps    = 500
	DefaultDeadlineWindow = 20 * time.Minute
)

// ParseSlippage converts a percentage such as "5" or "0.5" into basis points.
func ParseSlippage(input string) (uint32, error) {
	return quote.ParseBps(input)
}

// BuildDeposit fills a pending deposit for tokenAmount/nativeAmount with slippage-bounded
// minimums and an absolute unix-seconds deadline.
func BuildDeposit(token, owner common.Address, tokenAmount, nativeAmount *big.Int, slippageBps uint32, deadline time.Time) model.LiquidityDeposit {
	return model.LiquidityDeposit{
		ID:                  uuid.NewString(),
		Token:               token.Hex(),
		To:                  owner.Hex(),
		AmountTokenDesired:  copyBig(tokenAmount),
		AmountTokenMin:      quote.ApplySlippage(tokenAmount, slippageBps),
		AmountNativeDesired: copyBig(nativeAmount),
		AmountNativeMin:     quote.ApplySlippage(nativeAmount, slippageBps),
		Deadline:            uint64(deadline.Unix()),
		Status:              model.DepositPending,
	}
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
