package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"launchpad/internal/chain"
	"launchpad/internal/config"
	"launchpad/internal/dex"
	"launchpad/internal/model"
	"launchpad/internal/storage"
	"launchpad/internal/storage/postgres"
)

// app is the per-command wiring: RPC client, reserve reader and optional stores.
type app struct {
	cfg     config.Common
	logger  *zap.Logger
	client  *chain.Client
	reader  *dex.ReserveReader
	store   *postgres.Store
	journal storage.Sink
}

func openApp(ctx context.Context, cfg config.Common) (*app, error) {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	client, err := chain.NewClient(ctx, cfg.Network.RPCURL)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		journal: storage.Discard{},
		reader: dex.NewReserveReader(dex.ReserveReaderConfig{
			Factory:       cfg.Network.PairFactory,
			WrappedNative: cfg.Network.WrappedNative,
		}, client, dex.NewTokenMetaCache(), logger),
	}

	if cfg.Journal != "" {
		a.journal = storage.NewJsonlStorage(cfg.Journal)
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			a.Close()
			return nil, err
		}
		a.store = store
	}

	logger.Debug("app ready",
		zap.String("rpc", cfg.Network.RPCURL),
		zap.Int64("chain_id", cfg.Network.ChainID),
		zap.String("pg_dsn", config.Redact(cfg.PGDSN)),
		zap.String("journal", cfg.Journal),
	)
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.client != nil {
		a.client.Close()
	}
	a.logger.Sync()
}

func (a *app) chainID() uint64 {
	return uint64(a.cfg.Network.ChainID)
}

func (a *app) native() model.TokenRef {
	return model.NewNativeToken(a.cfg.Network.NativeSymbol)
}

// resolveToken accepts the native sentinel or symbol, a contract address, or a
// registry ticker when Postgres is configured.
func (a *app) resolveToken(ctx context.Context, input string) (model.TokenRef, error) {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return model.TokenRef{}, fmt.Errorf("token is required")
	case model.IsNativeAddress(input), strings.EqualFold(input, a.cfg.Network.NativeSymbol):
		return a.native(), nil
	case common.IsHexAddress(input):
		return a.reader.TokenMeta(ctx, model.TokenRef{Address: input})
	case a.store != nil:
		record, ok, err := a.store.FindToken(ctx, a.chainID(), input)
		if err != nil {
			return model.TokenRef{}, fmt.Errorf("registry lookup: %w", err)
		}
		if !ok {
			return model.TokenRef{}, fmt.Errorf("unknown token %q", input)
		}
		return record.Ref(), nil
	default:
		return model.TokenRef{}, fmt.Errorf("unknown token %q: use an address, %s, or set --pg-dsn to look up tickers", input, a.cfg.Network.NativeSymbol)
	}
}
