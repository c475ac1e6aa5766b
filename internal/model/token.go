package model

import "strings"

// NativeAddress is the sentinel address used for the network's native coin.
const NativeAddress = "native"

const zeroAddressHex = "0x0000000000000000000000000000000000000000"

// TokenRef identifies a fungible token.
type TokenRef struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// NewNativeToken returns the TokenRef for the native coin.
func NewNativeToken(symbol string) TokenRef {
	return TokenRef{Address: NativeAddress, Symbol: symbol, Decimals: 18}
}

// IsNative reports whether the token is the native-coin sentinel.
func (t TokenRef) IsNative() bool {
	return IsNativeAddress(t.Address)
}

// Equal compares tokens by address, case-insensitively.
func (t TokenRef) Equal(other TokenRef) bool {
	if t.IsNative() || other.IsNative() {
		return t.IsNative() && other.IsNative()
	}
	return strings.EqualFold(strings.TrimSpace(t.Address), strings.TrimSpace(other.Address))
}

func (t TokenRef) String() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	return t.Address
}

// IsNativeAddress reports whether input names the native coin.
func IsNativeAddress(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case NativeAddress, "0x0", zeroAddressHex:
		return true
	default:
		return false
	}
}
