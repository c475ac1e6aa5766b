package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"launchpad/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:          "launchpad",
		Short:        "Quote, liquidity and launch tooling for a testnet token launchpad",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("rpc", config.DefaultRPCURL, "EVM RPC URL")
	flags.Int64("chain-id", config.DefaultChainID, "expected chain ID")
	flags.String("pair-factory", config.DefaultPairFactory, "V2 pair factory address")
	flags.String("router", config.DefaultRouter, "V2 router address")
	flags.String("wrapped-native", config.DefaultWrappedNative, "wrapped native token address")
	flags.String("native-symbol", config.DefaultNativeSymbol, "native coin symbol")
	flags.String("native-liquidity-method", config.DefaultNativeLiquidityMethod, "router method for token/native deposits (addLiquidityAVAX or addLiquidityETH)")
	flags.String("token-factory", config.DefaultTokenFactory, "token factory address")
	flags.String("pg-dsn", "", "Postgres DSN for the token registry and deposit log")
	flags.String("journal", "", "optional JSONL journal path")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newQuoteCmd(), newReservesCmd(), newLiquidityCmd(), newLaunchCmd(), newTokensCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func configFile(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
