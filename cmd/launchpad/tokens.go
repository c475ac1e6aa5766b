package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"launchpad/internal/config"
	"launchpad/internal/dex"
	"launchpad/internal/model"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Browse and maintain the launched-token registry",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered tokens",
		RunE:  runTokensList,
	}
	list.Flags().String("search", "", "filter by name or ticker")
	list.Flags().Int("limit", 50, "maximum rows")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Register existing tokens by reading their on-chain metadata",
		RunE:  runTokensImport,
	}
	importCmd.Flags().StringSlice("address", nil, "token addresses (comma-separated)")

	cmd.AddCommand(list, importCmd)
	return cmd
}

func runTokensList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadTokens(configFile(cmd), cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	search, _ := cmd.Flags().GetString("search")

	ctx, stop := signalContext()
	defer stop()

	a, err := openApp(ctx, cfg.Common)
	if err != nil {
		return err
	}
	defer a.Close()

	tokens, err := a.store.ListTokens(ctx, a.chainID(), search, cfg.Limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "TICKER\tNAME\tADDRESS\tCREATED")
	for _, t := range tokens {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Ticker, t.Name, t.Address, t.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func runTokensImport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadTokens(configFile(cmd), cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	addresses, err := config.ParseAddresses(cfg.Addresses)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("address list is required")
	}

	ctx, stop := signalContext()
	defer stop()

	a, err := openApp(ctx, cfg.Common)
	if err != nil {
		return err
	}
	defer a.Close()

	records := make([]model.TokenRecord, 0, len(addresses))
	for _, addr := range addresses {
		meta, err := a.reader.TokenMeta(ctx, model.TokenRef{Address: addr.Hex()})
		if err != nil {
			return err
		}
		name, err := dex.TokenName(ctx, a.client, addr)
		if err != nil {
			return err
		}
		symbol := strings.ToUpper(meta.Symbol)
		records = append(records, model.TokenRecord{
			ChainID:   a.chainID(),
			Address:   meta.Address,
			Name:      name,
			Ticker:    symbol,
			Decimals:  meta.Decimals,
			CreatedAt: time.Now().UTC(),
		})
	}
	if err := a.store.UpsertTokens(ctx, records); err != nil {
		return err
	}
	a.logger.Info("tokens imported", zap.Int("count", len(records)))
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d tokens\n", len(records))
	return nil
}
