package model

import "math/big"

// LiquidityApproval tracks a spender's ERC-20 allowance against the amount a deposit needs.
type LiquidityApproval struct {
	Owner          string   `json:"owner"`
	Spender        string   `json:"spender"`
	Token          string   `json:"token"`
	Allowance      *big.Int `json:"allowance"`
	RequiredAmount *big.Int `json:"required_amount"`
}

// Sufficient is true iff allowance >= required and required > 0.
func (a LiquidityApproval) Sufficient() bool {
	if a.Allowance == nil || a.RequiredAmount == nil {
		return false
	}
	return a.RequiredAmount.Sign() > 0 && a.Allowance.Cmp(a.RequiredAmount) >= 0
}

// DepositStatus is the lifecycle of a paired deposit.
type DepositStatus string

const (
	DepositPending   DepositStatus = "pending"
	DepositCompleted DepositStatus = "completed"
	DepositFailed    DepositStatus = "failed"
)

// LiquidityDeposit is a paired token/native deposit request and its outcome.
type LiquidityDeposit struct {
	ID                  string        `json:"id"`
	Token               string        `json:"token"`
	To                  string        `json:"to"`
	AmountTokenDesired  *big.Int      `json:"amount_token_desired"`
	AmountTokenMin      *big.Int      `json:"amount_token_min"`
	AmountNativeDesired *big.Int      `json:"amount_native_desired"`
	AmountNativeMin     *big.Int      `json:"amount_native_min"`
	Deadline            uint64        `json:"deadline"`
	Status              DepositStatus `json:"status"`
	TxHash              string        `json:"tx_hash,omitempty"`
	BlockNumber         uint64        `json:"block_number,omitempty"`
	AmountToken         *big.Int      `json:"amount_token,omitempty"`
	AmountNative        *big.Int      `json:"amount_native,omitempty"`
	Liquidity           *big.Int      `json:"liquidity,omitempty"`
	Error               string        `json:"error,omitempty"`
}
