package liquidity

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"launchpad/internal/dex"
	"launchpad/internal/model"
	"launchpad/internal/wallet"
)

// ChainReader serves the ledger's reads. *chain.Client satisfies it.
type ChainReader interface {
	dex.ContractCaller
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
}

// Signer sends the ledger's writes. *wallet.Wallet satisfies it.
type Signer interface {
	Address() common.Address
	EnsureNetwork(ctx context.Context) error
	Transact(ctx context.Context, req wallet.TxRequest) (*types.Receipt, error)
}

// ChainLedger is the Ledger backed by a V2 router: ERC-20 reads through the RPC client
// and writes through the wallet.
type ChainLedger struct {
	reader ChainReader
	signer Signer
	router common.Address
	method string
	logger *zap.Logger
}

// NewChainLedger builds a ledger for router. method is the router's native-pair deposit
// method; empty means addLiquidityAVAX.
func NewChainLedger(reader ChainReader, signer Signer, router common.Address, method string, logger *zap.Logger) *ChainLedger {
	if method == "" {
		method = dex.DefaultNativeLiquidityMethod
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainLedger{reader: reader, signer: signer, router: router, method: method, logger: logger}
}

func (l *ChainLedger) Spender() common.Address {
	return l.router
}

func (l *ChainLedger) EnsureNetwork(ctx context.Context) error {
	return l.signer.EnsureNetwork(ctx)
}

func (l *ChainLedger) Allowance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	return dex.Allowance(ctx, l.reader, token, owner, l.router)
}

func (l *ChainLedger) TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	return dex.BalanceOf(ctx, l.reader, token, owner)
}

func (l *ChainLedger) NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	balance, err := l.reader.BalanceAt(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: native balance: %w", model.ErrLookupFailed, err)
	}
	return balance, nil
}

func (l *ChainLedger) Approve(ctx context.Context, token common.Address, amount *big.Int) (string, error) {
	data, err := dex.PackApprove(l.router, amount)
	if err != nil {
		return "", err
	}
	receipt, err := l.signer.Transact(ctx, wallet.TxRequest{
		To:          token,
		Data:        data,
		Description: fmt.Sprintf("approve %s of %s for router %s", amount, token.Hex(), l.router.Hex()),
	})
	return receiptHash(receipt), err
}

// AddLiquidity sends the deposit with the native leg as value and fills the actual
// amounts from the pair's Mint event.
func (l *ChainLedger) AddLiquidity(ctx context.Context, deposit model.LiquidityDeposit) (model.LiquidityDeposit, error) {
	data, err := dex.PackAddLiquidityNative(l.method, deposit)
	if err != nil {
		return deposit, err
	}
	receipt, err := l.signer.Transact(ctx, wallet.TxRequest{
		To:          l.router,
		Data:        data,
		Value:       deposit.AmountNativeDesired,
		Description: fmt.Sprintf("%s %s token + %s native wei", l.method, deposit.AmountTokenDesired, deposit.AmountNativeDesired),
	})
	deposit.TxHash = receiptHash(receipt)
	if receipt != nil && receipt.BlockNumber != nil {
		deposit.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if err != nil {
		return deposit, err
	}

	mint, err := dex.DecodeMint(receipt, l.signer.Address())
	if err != nil {
		l.logger.Warn("deposit mined without decodable mint", zap.String("tx_hash", deposit.TxHash), zap.Error(err))
		return deposit, nil
	}
	deposit.Liquidity = mint.Liquidity
	deposit.AmountToken, deposit.AmountNative = mint.Amount1, mint.Amount0
	token0, err := dex.PairToken0(ctx, l.reader, mint.Pair)
	if err != nil {
		l.logger.Warn("pair token0 lookup failed", zap.String("pair", mint.Pair.Hex()), zap.Error(err))
		deposit.AmountToken, deposit.AmountNative = nil, nil
		return deposit, nil
	}
	if token0 == common.HexToAddress(deposit.Token) {
		deposit.AmountToken, deposit.AmountNative = mint.Amount0, mint.Amount1
	}
	return deposit, nil
}

func receiptHash(receipt *types.Receipt) string {
	if receipt == nil {
		return ""
	}
	return receipt.TxHash.Hex()
}
