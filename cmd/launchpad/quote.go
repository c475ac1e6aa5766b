package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"launchpad/internal/config"
	"launchpad/internal/model"
	"launchpad/internal/quote"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against the V2 pool",
		RunE:  runQuote,
	}
	cmd.Flags().String("from", "", "input token (address, native symbol or ticker)")
	cmd.Flags().String("to", "", "output token (address, native symbol or ticker)")
	cmd.Flags().String("amount", "", "input amount in human units; empty shows the spot price only")
	cmd.Flags().Int("fee-bps", config.DefaultFeeBps, "swap fee in basis points")
	cmd.Flags().Bool("watch", false, "keep re-quoting and print whenever the quote changes")
	cmd.Flags().Duration("interval", config.DefaultWatchInterval, "watch refresh interval")
	return cmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadQuote(configFile(cmd), cmd.Flags())
	if err != nil {
		return err
	}
	fromInput, _ := cmd.Flags().GetString("from")
	toInput, _ := cmd.Flags().GetString("to")
	amount, _ := cmd.Flags().GetString("amount")

	ctx, stop := signalContext()
	defer stop()

	a, err := openApp(ctx, cfg.Common)
	if err != nil {
		return err
	}
	defer a.Close()

	from, err := a.resolveToken(ctx, fromInput)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	to, err := a.resolveToken(ctx, toInput)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}

	quoter := quote.NewQuoter(a.reader, cfg.FeeBps, a.logger)
	out := cmd.OutOrStdout()
	emit := func(q model.Quote) {
		printQuote(out, from, to, q, quoter.FeeBps())
		if err := a.journal.Put(model.QuoteSnapshot{
			From:      from.String(),
			To:        to.String(),
			AmountIn:  amount,
			Quote:     q,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			a.logger.Warn("journal write failed", zap.Error(err))
		}
	}

	if !cfg.Watch {
		emit(quoter.Quote(ctx, from, to, amount))
		return nil
	}

	a.logger.Info("watching quote",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Duration("interval", cfg.Interval),
	)
	watcher := quote.NewWatcher(quoter, cfg.Interval, a.logger)
	err = watcher.Run(ctx, quote.WatchRequest{From: from, To: to, Amount: amount}, emit)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printQuote(w io.Writer, from, to model.TokenRef, q model.Quote, feeBps uint32) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "pair\t%s -> %s\n", from, to)
	fmt.Fprintf(tw, "status\t%s\n", q.Status)
	if q.Reason != "" {
		fmt.Fprintf(tw, "reason\t%s\n", q.Reason)
	}

	amountIn, amountOut, minimum := model.Unavailable, model.Unavailable, model.Unavailable
	if q.Reserves != nil && q.Available() {
		amountIn = quote.FormatUnits(q.AmountIn, q.Reserves.DecimalsIn)
		amountOut = quote.FormatUnits(q.AmountOut, q.Reserves.DecimalsOut)
		minimum = quote.FormatUnits(q.MinimumReceived, q.Reserves.DecimalsOut)
	}
	fmt.Fprintf(tw, "amount in\t%s %s\n", amountIn, from)
	fmt.Fprintf(tw, "amount out\t%s %s\n", amountOut, to)
	fmt.Fprintf(tw, "minimum received\t%s %s\n", minimum, to)
	fmt.Fprintf(tw, "price\t1 %s = %s %s\n", from, model.FormatDecimal(q.Price, 8), to)
	fmt.Fprintf(tw, "price impact\t%s%%\n", model.FormatDecimal(q.PriceImpactPercent, 2))
	fmt.Fprintf(tw, "lp fee (%d bps)\t%s %s\n", feeBps, model.FormatDecimal(q.LPFee, 6), from)
	if q.Reserves != nil && q.Reserves.HasLiquidity() {
		fmt.Fprintf(tw, "reserves\t%s %s / %s %s\n",
			quote.FormatUnits(q.Reserves.ReserveIn, q.Reserves.DecimalsIn), from,
			quote.FormatUnits(q.Reserves.ReserveOut, q.Reserves.DecimalsOut), to)
	}
	fmt.Fprintln(tw)
}
