package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"launchpad/internal/config"
	"launchpad/internal/launch"
	"launchpad/internal/quote"
	"launchpad/internal/wallet"
)

func newLaunchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Create a token through the launchpad factory",
		RunE:  runLaunch,
	}
	cmd.Flags().String("name", "", "token name")
	cmd.Flags().String("symbol", "", "token ticker")
	cmd.Flags().String("supply", "", "initial supply in whole tokens")
	cmd.Flags().String("description", "", "token description")
	cmd.Flags().String("image-url", "", "token image URL")
	cmd.Flags().String("private-key", "", "hex private key of the creator")
	cmd.Flags().String("launch-fee", config.DefaultLaunchFee, "minting fee in native units")
	cmd.Flags().Bool("yes", false, "send the transaction without prompting")
	return cmd
}

func runLaunch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadLaunch(configFile(cmd), cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.PrivateKey == "" {
		return fmt.Errorf("private key is required (--private-key or LAUNCHPAD_PRIVATE_KEY)")
	}
	fee, err := quote.ParseUnits(cfg.LaunchFee, 18)
	if err != nil {
		return fmt.Errorf("launch-fee: %w", err)
	}

	req := launch.Request{}
	req.Name, _ = cmd.Flags().GetString("name")
	req.Symbol, _ = cmd.Flags().GetString("symbol")
	req.InitialSupply, _ = cmd.Flags().GetString("supply")
	req.Description, _ = cmd.Flags().GetString("description")
	req.ImageURL, _ = cmd.Flags().GetString("image-url")

	ctx, stop := signalContext()
	defer stop()

	a, err := openApp(ctx, cfg.Common)
	if err != nil {
		return err
	}
	defer a.Close()

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
	if err := w.EnsureNetwork(ctx); err != nil {
		return err
	}

	var registry launch.Registry
	if a.store != nil {
		registry = a.store
	}
	launcher := launch.NewLauncher(launch.Config{
		Factory:    cfg.Network.TokenFactory,
		MintingFee: fee,
		ChainID:    a.chainID(),
	}, w, registry, a.logger)

	record, err := launcher.Launch(ctx, req)
	if record.Address != "" {
		if jerr := a.journal.Put(record); jerr != nil {
			a.logger.Warn("journal write failed", zap.Error(jerr))
		}
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintf(tw, "token\t%s (%s)\n", record.Name, record.Ticker)
	fmt.Fprintf(tw, "address\t%s\n", record.Address)
	fmt.Fprintf(tw, "supply\t%s\n", req.InitialSupply)
	fmt.Fprintf(tw, "tx\t%s\n", record.TxHash)
	return nil
}
