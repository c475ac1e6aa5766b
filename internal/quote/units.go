package quote

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseUnits converts a human amount into smallest units. Empty input parses to nil.
func ParseUnits(input string, decimals uint8) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(input)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", input, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", input)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", input, decimals)
	}
	return scaled.BigInt(), nil
}

// FormatUnits renders a smallest-unit amount in human units.
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}
	sign := value.Sign()
	abs := new(big.Int).Abs(value)
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	rat := new(big.Rat).SetFrac(abs, denom)
	text := rat.FloatString(int(decimals))
	if strings.Contains(text, ".") {
		text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	}
	if sign < 0 {
		return "-" + text
	}
	return text
}

// ParseBps parses a percentage such as "5" or "0.5" into basis points.
func ParseBps(input string) (uint32, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(input), "%")))
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", input, err)
	}
	bps := d.Mul(decimal.NewFromInt(100))
	if bps.Sign() < 0 || bps.GreaterThanOrEqual(bpsDecimal) {
		return 0, fmt.Errorf("percentage %q out of range [0, 100)", input)
	}
	if !bps.Equal(bps.Truncate(0)) {
		return 0, fmt.Errorf("percentage %q is finer than one basis point", input)
	}
	return uint32(bps.IntPart()), nil
}
