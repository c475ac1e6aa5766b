package dex

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"launchpad/internal/model"
)

// DefaultNativeLiquidityMethod is the router method name on Avalanche V2 forks.
const DefaultNativeLiquidityMethod = "addLiquidityAVAX"

// PackAddLiquidityNative encodes the router's token/native deposit call. method selects
// between addLiquidityAVAX and addLiquidityETH.
func PackAddLiquidityNative(method string, deposit model.LiquidityDeposit) ([]byte, error) {
	if method == "" {
		method = DefaultNativeLiquidityMethod
	}
	router, err := RouterABI()
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}
	if _, ok := router.Methods[method]; !ok {
		return nil, fmt.Errorf("unsupported router method: %s", method)
	}
	if !common.IsHexAddress(deposit.Token) || !common.IsHexAddress(deposit.To) {
		return nil, fmt.Errorf("invalid deposit address")
	}
	data, err := router.Pack(method,
		common.HexToAddress(deposit.Token),
		bigOrZero(deposit.AmountTokenDesired),
		bigOrZero(deposit.AmountTokenMin),
		bigOrZero(deposit.AmountNativeMin),
		common.HexToAddress(deposit.To),
		new(big.Int).SetUint64(deposit.Deadline),
	)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	return data, nil
}

// MintResult holds the amounts a pair reported for one deposit.
type MintResult struct {
	Pair      common.Address
	Amount0   *big.Int
	Amount1   *big.Int
	Liquidity *big.Int
}

// DecodeMint finds the pair Mint event and the LP Transfer to recipient in a receipt.
func DecodeMint(receipt *types.Receipt, recipient common.Address) (*MintResult, error) {
	if receipt == nil {
		return nil, fmt.Errorf("receipt is nil")
	}
	pairABI, err := PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}
	mintEvent := pairABI.Events["Mint"]
	transferEvent := pairABI.Events["Transfer"]

	var result *MintResult
	liquidity := make(map[common.Address]*big.Int)
	for _, log := range receipt.Logs {
		if log == nil || len(log.Topics) == 0 {
			continue
		}
		switch log.Topics[0] {
		case mintEvent.ID:
			values, err := mintEvent.Inputs.NonIndexed().Unpack(log.Data)
			if err != nil || len(values) != 2 {
				continue
			}
			amount0, err0 := asBigInt(values[0])
			amount1, err1 := asBigInt(values[1])
			if err0 != nil || err1 != nil {
				continue
			}
			result = &MintResult{Pair: log.Address, Amount0: amount0, Amount1: amount1}
		case transferEvent.ID:
			if len(log.Topics) != 3 {
				continue
			}
			from := common.BytesToAddress(log.Topics[1].Bytes())
			to := common.BytesToAddress(log.Topics[2].Bytes())
			if from != (common.Address{}) || to != recipient {
				continue
			}
			values, err := transferEvent.Inputs.NonIndexed().Unpack(log.Data)
			if err != nil || len(values) != 1 {
				continue
			}
			if value, err := asBigInt(values[0]); err == nil {
				liquidity[log.Address] = value
			}
		}
	}
	if result == nil {
		return nil, fmt.Errorf("mint event not found in %s", receipt.TxHash.Hex())
	}
	result.Liquidity = liquidity[result.Pair]
	return result, nil
}
