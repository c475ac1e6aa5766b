package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Fuji testnet defaults.
const (
	DefaultRPCURL                = "https://api.avax-test.network/ext/bc/C/rpc"
	DefaultChainID               = 43113
	DefaultPairFactory           = "0x9Ad6C38BE94206cA50bb0d90783181662f0Cfa10"
	DefaultRouter                = "0x2D99ABD9008Dc933ff5c0CD271B88309593aB921"
	DefaultWrappedNative         = "0xd00ae08403b9bbb9124bb305c09058e32c39a48c"
	DefaultNativeSymbol          = "AVAX"
	DefaultNativeLiquidityMethod = "addLiquidityAVAX"
	DefaultTokenFactory          = "0x7C05dA83a4Fe020aCB26DD8CdAEE9fe9f94760A2"
	DefaultLaunchFee             = "0.01"
	DefaultFeeBps                = 30
	DefaultSlippage              = "5"
	DefaultDeadline              = 20 * time.Minute
	DefaultWatchInterval         = 10 * time.Second
)

// Network describes the chain and exchange contracts.
type Network struct {
	RPCURL                string
	ChainID               int64
	PairFactory           common.Address
	Router                common.Address
	WrappedNative         common.Address
	NativeSymbol          string
	NativeLiquidityMethod string
	TokenFactory          common.Address
}

// Common holds settings shared by every command.
type Common struct {
	Network  Network
	LogLevel string
	PGDSN    string
	Journal  string
}

// QuoteConfig holds configuration for the quote and reserves commands.
type QuoteConfig struct {
	Common
	FeeBps   uint32
	Watch    bool
	Interval time.Duration
}

// LiquidityConfig holds configuration for the liquidity command.
type LiquidityConfig struct {
	Common
	PrivateKey string
	FeeBps     uint32
	Slippage   string
	Deadline   time.Duration
	Yes        bool
}

// LaunchConfig holds configuration for the launch command.
type LaunchConfig struct {
	Common
	PrivateKey string
	LaunchFee  string
	Yes        bool
}

// TokensConfig holds configuration for the tokens commands.
type TokensConfig struct {
	Common
	Limit     int
	Addresses []string
}

// Load merges config file, environment variables, and flags into a viper instance.
// Precedence is flags, then LAUNCHPAD_* env, then the config file, then defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc", DefaultRPCURL)
	v.SetDefault("chain-id", DefaultChainID)
	v.SetDefault("pair-factory", DefaultPairFactory)
	v.SetDefault("router", DefaultRouter)
	v.SetDefault("wrapped-native", DefaultWrappedNative)
	v.SetDefault("native-symbol", DefaultNativeSymbol)
	v.SetDefault("native-liquidity-method", DefaultNativeLiquidityMethod)
	v.SetDefault("token-factory", DefaultTokenFactory)
	v.SetDefault("launch-fee", DefaultLaunchFee)
	v.SetDefault("fee-bps", DefaultFeeBps)
	v.SetDefault("slippage", DefaultSlippage)
	v.SetDefault("deadline", DefaultDeadline)
	v.SetDefault("interval", DefaultWatchInterval)
	v.SetDefault("limit", 50)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := Load(cfgFile, flags)
	if err != nil {
		return QuoteConfig{}, err
	}
	base, err := commonFrom(v)
	if err != nil {
		return QuoteConfig{}, err
	}
	feeBps, err := feeBpsFrom(v)
	if err != nil {
		return QuoteConfig{}, err
	}
	cfg := QuoteConfig{
		Common:   base,
		FeeBps:   feeBps,
		Watch:    v.GetBool("watch"),
		Interval: v.GetDuration("interval"),
	}
	if cfg.Interval <= 0 {
		return QuoteConfig{}, fmt.Errorf("interval must be positive")
	}
	return cfg, nil
}

func LoadLiquidity(cfgFile string, flags *pflag.FlagSet) (LiquidityConfig, error) {
	v, err := Load(cfgFile, flags)
	if err != nil {
		return LiquidityConfig{}, err
	}
	base, err := commonFrom(v)
	if err != nil {
		return LiquidityConfig{}, err
	}
	feeBps, err := feeBpsFrom(v)
	if err != nil {
		return LiquidityConfig{}, err
	}
	cfg := LiquidityConfig{
		Common:     base,
		PrivateKey: v.GetString("private-key"),
		FeeBps:     feeBps,
		Slippage:   v.GetString("slippage"),
		Deadline:   v.GetDuration("deadline"),
		Yes:        v.GetBool("yes"),
	}
	if cfg.Deadline <= 0 {
		return LiquidityConfig{}, fmt.Errorf("deadline must be positive")
	}
	return cfg, nil
}

func LoadLaunch(cfgFile string, flags *pflag.FlagSet) (LaunchConfig, error) {
	v, err := Load(cfgFile, flags)
	if err != nil {
		return LaunchConfig{}, err
	}
	base, err := commonFrom(v)
	if err != nil {
		return LaunchConfig{}, err
	}
	return LaunchConfig{
		Common:     base,
		PrivateKey: v.GetString("private-key"),
		LaunchFee:  v.GetString("launch-fee"),
		Yes:        v.GetBool("yes"),
	}, nil
}

func LoadTokens(cfgFile string, flags *pflag.FlagSet) (TokensConfig, error) {
	v, err := Load(cfgFile, flags)
	if err != nil {
		return TokensConfig{}, err
	}
	base, err := commonFrom(v)
	if err != nil {
		return TokensConfig{}, err
	}
	return TokensConfig{
		Common:    base,
		Limit:     v.GetInt("limit"),
		Addresses: getStringSlice(v, "address"),
	}, nil
}

func commonFrom(v *viper.Viper) (Common, error) {
	network := Network{
		RPCURL:                strings.TrimSpace(v.GetString("rpc")),
		ChainID:               v.GetInt64("chain-id"),
		NativeSymbol:          v.GetString("native-symbol"),
		NativeLiquidityMethod: v.GetString("native-liquidity-method"),
	}
	if network.RPCURL == "" {
		return Common{}, fmt.Errorf("rpc url is required")
	}
	if network.ChainID <= 0 {
		return Common{}, fmt.Errorf("chain id must be positive")
	}

	addresses := []struct {
		key string
		dst *common.Address
	}{
		{"pair-factory", &network.PairFactory},
		{"router", &network.Router},
		{"wrapped-native", &network.WrappedNative},
		{"token-factory", &network.TokenFactory},
	}
	for _, a := range addresses {
		raw := strings.TrimSpace(v.GetString(a.key))
		if !common.IsHexAddress(raw) {
			return Common{}, fmt.Errorf("invalid %s address: %q", a.key, raw)
		}
		*a.dst = common.HexToAddress(raw)
	}

	return Common{
		Network:  network,
		LogLevel: v.GetString("log-level"),
		PGDSN:    v.GetString("pg-dsn"),
		Journal:  v.GetString("journal"),
	}, nil
}

func feeBpsFrom(v *viper.Viper) (uint32, error) {
	fee := v.GetInt("fee-bps")
	if fee < 0 || fee >= 10_000 {
		return 0, fmt.Errorf("fee-bps must be in [0, 10000), got %d", fee)
	}
	return uint32(fee), nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	return cleanStrings(strings.Split(input, ","))
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Redact hides a secret for logging.
func Redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}

// ParseAddresses converts a list of hex strings into addresses, skipping blanks.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !common.IsHexAddress(input) {
			return nil, fmt.Errorf("invalid address: %s", input)
		}
		addresses = append(addresses, common.HexToAddress(input))
	}
	return addresses, nil
}
