package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"launchpad/internal/model"
)

const nativeDecimals = 18

// ReserveReaderConfig holds the exchange addresses used for pair lookups.
type ReserveReaderConfig struct {
	Factory       common.Address
	WrappedNative common.Address
}

// ReserveReader reads V2 pair reserves and token decimals. It never caches reserves.
type ReserveReader struct {
	cfg      ReserveReaderConfig
	caller   ContractCaller
	decimals *TokenMetaCache
	logger   *zap.Logger
}

func NewReserveReader(cfg ReserveReaderConfig, caller ContractCaller, cache *TokenMetaCache, logger *zap.Logger) *ReserveReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewTokenMetaCache()
	}
	return &ReserveReader{cfg: cfg, caller: caller, decimals: cache, logger: logger}
}

// Resolve maps a TokenRef onto the address the exchange pools, replacing the native
// sentinel with the wrapped-native token.
func (r *ReserveReader) Resolve(token model.TokenRef) (common.Address, error) {
	if token.IsNative() {
		return r.cfg.WrappedNative, nil
	}
	if !common.IsHexAddress(token.Address) {
		return common.Address{}, fmt.Errorf("invalid token address: %s", token.Address)
	}
	return common.HexToAddress(token.Address), nil
}

// GetReserves returns the reserves of the tokenA/tokenB pool, oriented so that
// ReserveIn belongs to tokenA.
func (r *ReserveReader) GetReserves(ctx context.Context, tokenA, tokenB model.TokenRef) (model.PoolReserves, error) {
	if r.caller == nil {
		return model.PoolReserves{}, fmt.Errorf("chain client is nil")
	}
	a, err := r.Resolve(tokenA)
	if err != nil {
		return model.PoolReserves{}, err
	}
	b, err := r.Resolve(tokenB)
	if err != nil {
		return model.PoolReserves{}, err
	}
	if a == b {
		return model.PoolReserves{}, model.ErrSameToken
	}

	pair, err := r.getPair(ctx, a, b)
	if err != nil {
		return model.PoolReserves{}, err
	}

	pairABI, err := PairABI()
	if err != nil {
		return model.PoolReserves{}, fmt.Errorf("parse pair abi: %w", err)
	}
	values, err := callMethod(ctx, r.caller, pair, pairABI, "getReserves")
	if err != nil {
		return model.PoolReserves{}, fmt.Errorf("%w: %w", model.ErrLookupFailed, err)
	}
	if len(values) < 3 {
		return model.PoolReserves{}, fmt.Errorf("%w: getReserves returned %d values", model.ErrLookupFailed, len(values))
	}
	reserve0, err := asBigInt(values[0])
	if err != nil {
		return model.PoolReserves{}, fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return model.PoolReserves{}, fmt.Errorf("reserve1: %w", err)
	}
	tsLast, err := asBigInt(values[2])
	if err != nil {
		return model.PoolReserves{}, fmt.Errorf("block timestamp: %w", err)
	}

	token0, err := PairToken0(ctx, r.caller, pair)
	if err != nil {
		return model.PoolReserves{}, err
	}

	reserves := model.PoolReserves{
		Pair:               pair.Hex(),
		BlockTimestampLast: uint32(tsLast.Uint64()),
	}
	if token0 == a {
		reserves.ReserveIn, reserves.ReserveOut = reserve0, reserve1
	} else {
		reserves.ReserveIn, reserves.ReserveOut = reserve1, reserve0
	}

	var decimalsIn, decimalsOut uint8
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		decimalsIn, err = r.Decimals(gctx, tokenA)
		return err
	})
	g.Go(func() error {
		var err error
		decimalsOut, err = r.Decimals(gctx, tokenB)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.PoolReserves{}, err
	}
	reserves.DecimalsIn = decimalsIn
	reserves.DecimalsOut = decimalsOut

	r.logger.Debug("reserves loaded",
		zap.String("pair", reserves.Pair),
		zap.String("reserve_in", reserves.ReserveIn.String()),
		zap.String("reserve_out", reserves.ReserveOut.String()),
	)

	return reserves, nil
}

// Decimals returns the token's decimal precision, 18 for the native coin.
func (r *ReserveReader) Decimals(ctx context.Context, token model.TokenRef) (uint8, error) {
	if token.IsNative() {
		return nativeDecimals, nil
	}
	meta, err := r.TokenMeta(ctx, token)
	if err != nil {
		return 0, err
	}
	return meta.Decimals, nil
}

// TokenMeta returns cached ERC-20 metadata, loading it on first use.
func (r *ReserveReader) TokenMeta(ctx context.Context, token model.TokenRef) (model.TokenRef, error) {
	addr, err := r.Resolve(token)
	if err != nil {
		return model.TokenRef{}, err
	}
	if meta, ok := r.decimals.Get(addr); ok {
		return meta, nil
	}
	meta, err := FetchTokenMeta(ctx, r.caller, addr, r.logger)
	if err != nil {
		return model.TokenRef{}, fmt.Errorf("%w: token %s: %w", model.ErrLookupFailed, addr.Hex(), err)
	}
	r.decimals.Set(addr, meta)
	return meta, nil
}

func (r *ReserveReader) getPair(ctx context.Context, a, b common.Address) (common.Address, error) {
	factoryABI, err := FactoryABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}
	values, err := callMethod(ctx, r.caller, r.cfg.Factory, factoryABI, "getPair", a, b)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", model.ErrLookupFailed, err)
	}
	pair, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: getPair: %w", model.ErrLookupFailed, err)
	}
	if pair == (common.Address{}) {
		return common.Address{}, model.ErrPoolNotFound
	}
	return pair, nil
}

// PairToken0 reads the pair's token0 address.
func PairToken0(ctx context.Context, caller ContractCaller, pair common.Address) (common.Address, error) {
	pairABI, err := PairABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse pair abi: %w", err)
	}
	values, err := callMethod(ctx, caller, pair, pairABI, "token0")
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", model.ErrLookupFailed, err)
	}
	token0, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: token0: %w", model.ErrLookupFailed, err)
	}
	return token0, nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
