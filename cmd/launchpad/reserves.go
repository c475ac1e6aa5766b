package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"launchpad/internal/config"
	"launchpad/internal/model"
	"launchpad/internal/quote"
)

func newReservesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reserves",
		Short: "Show the reserves of a V2 pool",
		RunE:  runReserves,
	}
	cmd.Flags().String("token-a", "", "first token (address, native symbol or ticker)")
	cmd.Flags().String("token-b", "", "second token (address, native symbol or ticker)")
	return cmd
}

func runReserves(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadQuote(configFile(cmd), cmd.Flags())
	if err != nil {
		return err
	}
	inputA, _ := cmd.Flags().GetString("token-a")
	inputB, _ := cmd.Flags().GetString("token-b")

	ctx, stop := signalContext()
	defer stop()

	a, err := openApp(ctx, cfg.Common)
	if err != nil {
		return err
	}
	defer a.Close()

	tokenA, err := a.resolveToken(ctx, inputA)
	if err != nil {
		return fmt.Errorf("token-a: %w", err)
	}
	tokenB, err := a.resolveToken(ctx, inputB)
	if err != nil {
		return fmt.Errorf("token-b: %w", err)
	}

	reserves, err := a.reader.GetReserves(ctx, tokenA, tokenB)
	if errors.Is(err, model.ErrPoolNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "no pool for %s/%s\n", tokenA, tokenB)
		return nil
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintf(tw, "pair\t%s\n", reserves.Pair)
	fmt.Fprintf(tw, "%s\t%s\n", tokenA, quote.FormatUnits(reserves.ReserveIn, reserves.DecimalsIn))
	fmt.Fprintf(tw, "%s\t%s\n", tokenB, quote.FormatUnits(reserves.ReserveOut, reserves.DecimalsOut))
	price, ok := quote.SpotPrice(reserves)
	fmt.Fprintf(tw, "price\t1 %s = %s %s\n", tokenA, model.FormatDecimal(decimal.NullDecimal{Decimal: price, Valid: ok}, 8), tokenB)
	fmt.Fprintf(tw, "updated\t%s\n", time.Unix(int64(reserves.BlockTimestampLast), 0).UTC().Format(time.RFC3339))
	return nil
}
