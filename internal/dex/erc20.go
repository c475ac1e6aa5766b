package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"launchpad/internal/model"
)

// Allowance reads token.allowance(owner, spender).
func Allowance(ctx context.Context, caller ContractCaller, token, owner, spender common.Address) (*big.Int, error) {
	return readUint(ctx, caller, token, "allowance", owner, spender)
}

// BalanceOf reads token.balanceOf(owner).
func BalanceOf(ctx context.Context, caller ContractCaller, token, owner common.Address) (*big.Int, error) {
	return readUint(ctx, caller, token, "balanceOf", owner)
}

// PackApprove encodes approve(spender, amount).
func PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	erc20, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	data, err := erc20.Pack("approve", spender, bigOrZero(amount))
	if err != nil {
		return nil, fmt.Errorf("pack approve: %w", err)
	}
	return data, nil
}

func readUint(ctx context.Context, caller ContractCaller, token common.Address, method string, args ...interface{}) (*big.Int, error) {
	if caller == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	erc20, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	values, err := callMethod(ctx, caller, token, erc20, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrLookupFailed, err)
	}
	value, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrLookupFailed, method, err)
	}
	return value, nil
}
