package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"launchpad/internal/config"
	"launchpad/internal/dex"
	"launchpad/internal/liquidity"
	"launchpad/internal/model"
	"launchpad/internal/quote"
	"launchpad/internal/wallet"
)

func newLiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liquidity",
		Short: "Approve the router and add token/native liquidity",
		RunE:  runLiquidity,
	}
	cmd.Flags().String("token", "", "ERC-20 token to pair with the native coin")
	cmd.Flags().String("amount", "", "token amount in human units")
	cmd.Flags().String("native-amount", "", "native amount; defaults to the current pool ratio")
	cmd.Flags().String("private-key", "", "hex private key of the depositing account")
	cmd.Flags().String("slippage", config.DefaultSlippage, "slippage tolerance in percent")
	cmd.Flags().Duration("deadline", config.DefaultDeadline, "deposit deadline window")
	cmd.Flags().Int("fee-bps", config.DefaultFeeBps, "swap fee in basis points")
	cmd.Flags().Bool("yes", false, "send transactions without prompting")
	return cmd
}

func runLiquidity(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadLiquidity(configFile(cmd), cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.PrivateKey == "" {
		return fmt.Errorf("private key is required (--private-key or LAUNCHPAD_PRIVATE_KEY)")
	}
	slippageBps, err := liquidity.ParseSlippage(cfg.Slippage)
	if err != nil {
		return fmt.Errorf("slippage: %w", err)
	}
	tokenInput, _ := cmd.Flags().GetString("token")
	amountInput, _ := cmd.Flags().GetString("amount")
	nativeInput, _ := cmd.Flags().GetString("native-amount")

	ctx, stop := signalContext()
	defer stop()

	a, err := openApp(ctx, cfg.Common)
	if err != nil {
		return err
	}
	defer a.Close()

	token, err := a.resolveToken(ctx, tokenInput)
	if err != nil {
		return err
	}
	if token.IsNative() {
		return fmt.Errorf("token must be an ERC-20, the native leg is implied")
	}
	tokenAmount, err := quote.ParseUnits(amountInput, token.Decimals)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if tokenAmount == nil || tokenAmount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	nativeAmount, err := a.nativeLeg(ctx, cmd.ErrOrStderr(), token, tokenAmount, nativeInput, cfg.FeeBps)
	if err != nil {
		return err
	}

	var confirmer wallet.Confirmer = wallet.NewPromptConfirmer(os.Stdin, cmd.ErrOrStderr())
	if cfg.Yes {
		confirmer = wallet.AutoConfirm{}
	}
	w, err := wallet.Open(ctx, a.client, wallet.Config{
		PrivateKey: cfg.PrivateKey,
		ChainID:    cfg.Network.ChainID,
	}, confirmer, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	ledger := liquidity.NewChainLedger(a.client, w, cfg.Network.Router, cfg.Network.NativeLiquidityMethod, a.logger)
	var session *liquidity.Session
	session, err = liquidity.NewSession(liquidity.Config{
		Token:          common.HexToAddress(token.Address),
		Owner:          w.Address(),
		SlippageBps:    slippageBps,
		DeadlineWindow: cfg.Deadline,
	}, ledger, a.logger,
		liquidity.WithObserver(func(e model.SessionEvent) { a.recordTransition(ctx, session, e) }),
		liquidity.WithOnCompleted(func(d model.LiquidityDeposit) { a.printPool(ctx, cmd, token, d) }),
	)
	if err != nil {
		return err
	}

	if err := session.SetAmounts(ctx, tokenAmount, nativeAmount); err != nil {
		return err
	}
	if session.State() == liquidity.StateUnapproved {
		if err := session.Approve(ctx); err != nil {
			return err
		}
	}
	if session.State() != liquidity.StateApproved {
		approval := session.Approval()
		return fmt.Errorf("%w: allowance %s below %s after approval",
			model.ErrInsufficientAllowance, approval.Allowance, approval.RequiredAmount)
	}

	deposit, err := session.Deposit(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintf(tw, "deposit\t%s\n", deposit.ID)
	fmt.Fprintf(tw, "tx\t%s (block %d)\n", deposit.TxHash, deposit.BlockNumber)
	fmt.Fprintf(tw, "%s\t%s (min %s)\n", token, formatOptional(deposit.AmountToken, token.Decimals), quote.FormatUnits(deposit.AmountTokenMin, token.Decimals))
	fmt.Fprintf(tw, "%s\t%s (min %s)\n", a.native(), formatOptional(deposit.AmountNative, 18), quote.FormatUnits(deposit.AmountNativeMin, 18))
	fmt.Fprintf(tw, "lp tokens\t%s\n", formatOptional(deposit.Liquidity, 18))
	return nil
}

// nativeLeg parses the native amount, or derives it from the pool ratio when omitted.
// nativeLeg returns the native amount to deposit: the explicit input, or the pool ratio
// shown next to what a swap of the same token amount would return at feeBps.
func (a *app) nativeLeg(ctx context.Context, w io.Writer, token model.TokenRef, tokenAmount *big.Int, input string, feeBps uint32) (*big.Int, error) {
	if input != "" {
		amount, err := quote.ParseUnits(input, 18)
		if err != nil {
			return nil, fmt.Errorf("native-amount: %w", err)
		}
		if amount == nil || amount.Sign() <= 0 {
			return nil, fmt.Errorf("native-amount must be positive")
		}
		return amount, nil
	}

	reserves, err := a.reader.GetReserves(ctx, token, a.native())
	if errors.Is(err, model.ErrPoolNotFound) {
		return nil, fmt.Errorf("no %s/%s pool yet: --native-amount sets the initial price", token, a.native())
	}
	if err != nil {
		return nil, err
	}
	amount, swapOut := quote.DepositLeg(reserves, tokenAmount, feeBps)
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("pool is empty: --native-amount sets the initial price")
	}
	fmt.Fprintf(w, "native leg %s %s at pool ratio (swapping %s %s returns %s %s at %d bps)\n",
		quote.FormatUnits(amount, 18), a.native(),
		quote.FormatUnits(tokenAmount, token.Decimals), token,
		quote.FormatUnits(swapOut, 18), a.native(), feeBps)
	a.logger.Info("native amount from pool ratio",
		zap.String("native_amount", quote.FormatUnits(amount, 18)),
		zap.String("swap_out", quote.FormatUnits(swapOut, 18)),
		zap.Uint32("fee_bps", feeBps),
	)
	return amount, nil
}

// recordTransition journals session events and mirrors deposits into Postgres.
func (a *app) recordTransition(ctx context.Context, session *liquidity.Session, e model.SessionEvent) {
	records := []interface{}{e}
	deposit, hasDeposit := session.LastDeposit()
	if hasDeposit && (e.To == string(liquidity.StateCompleted) || e.To == string(liquidity.StateFailed)) {
		records = append(records, deposit)
	}
	if err := a.journal.Put(records...); err != nil {
		a.logger.Warn("journal write failed", zap.Error(err))
	}

	if a.store == nil || !hasDeposit {
		return
	}
	switch liquidity.State(e.To) {
	case liquidity.StateDepositing:
		err := a.store.InsertDeposit(ctx, a.chainID(), deposit)
		if err != nil {
			a.logger.Warn("store deposit failed", zap.String("deposit", deposit.ID), zap.Error(err))
		}
	case liquidity.StateCompleted, liquidity.StateFailed:
		if e.From != string(liquidity.StateDepositing) {
			return
		}
		if err := a.store.UpdateDeposit(ctx, deposit); err != nil {
			a.logger.Warn("update deposit failed", zap.String("deposit", deposit.ID), zap.Error(err))
		}
	}
}

// printPool re-reads the pool and the owner's balances after a deposit.
func (a *app) printPool(ctx context.Context, cmd *cobra.Command, token model.TokenRef, deposit model.LiquidityDeposit) {
	out := cmd.OutOrStdout()
	reserves, err := a.reader.GetReserves(ctx, token, a.native())
	if err != nil {
		a.logger.Warn("refresh reserves failed", zap.Error(err))
	} else {
		fmt.Fprintf(out, "pool %s now holds %s %s / %s %s\n", reserves.Pair,
			quote.FormatUnits(reserves.ReserveIn, reserves.DecimalsIn), token,
			quote.FormatUnits(reserves.ReserveOut, reserves.DecimalsOut), a.native())
	}

	owner := common.HexToAddress(deposit.To)
	tokenBalance, err := dex.BalanceOf(ctx, a.client, common.HexToAddress(token.Address), owner)
	if err != nil {
		a.logger.Warn("refresh token balance failed", zap.Error(err))
		return
	}
	nativeBalance, err := a.client.BalanceAt(ctx, owner)
	if err != nil {
		a.logger.Warn("refresh native balance failed", zap.Error(err))
		return
	}
	fmt.Fprintf(out, "balance %s %s / %s %s\n",
		quote.FormatUnits(tokenBalance, token.Decimals), token,
		quote.FormatUnits(nativeBalance, 18), a.native())
}

func formatOptional(v *big.Int, decimals uint8) string {
	if v == nil {
		return model.Unavailable
	}
	return quote.FormatUnits(v, decimals)
}
