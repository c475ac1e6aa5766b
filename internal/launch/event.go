package launch

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TokenCreated is the factory event emitted for a new token.
type TokenCreated struct {
	Token   common.Address
	Creator common.Address
	Name    string
	Symbol  string
}

// ParseTokenCreated extracts the TokenCreated event from receipt, preferring logs
// emitted by factory over same-signature logs from other contracts.
func ParseTokenCreated(receipt *types.Receipt, factory common.Address) (TokenCreated, error) {
	if receipt == nil {
		return TokenCreated{}, fmt.Errorf("receipt is nil")
	}
	parsed, err := FactoryABI()
	if err != nil {
		return TokenCreated{}, fmt.Errorf("parse factory abi: %w", err)
	}
	event := parsed.Events["TokenCreated"]

	var fallback *TokenCreated
	for _, log := range receipt.Logs {
		if log == nil || len(log.Topics) != 3 || log.Topics[0] != event.ID {
			continue
		}
		created := TokenCreated{
			Token:   common.BytesToAddress(log.Topics[1].Bytes()),
			Creator: common.BytesToAddress(log.Topics[2].Bytes()),
		}
		values, err := event.Inputs.NonIndexed().Unpack(log.Data)
		if err == nil && len(values) == 2 {
			created.Name, _ = values[0].(string)
			created.Symbol, _ = values[1].(string)
		}
		if log.Address == factory {
			return created, nil
		}
		if fallback == nil {
			fallback = &created
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return TokenCreated{}, fmt.Errorf("TokenCreated event not found in %s", receipt.TxHash.Hex())
}
