package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"launchpad/internal/model"
)

// gas estimate headroom, in percent
const gasBufferPercent = 120

// Backend is the chain surface a wallet writes through. *chain.Client satisfies it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

type Config struct {
	PrivateKey string
	ChainID    int64
}

// TxRequest is one contract write. Description is shown to the confirmer.
type TxRequest struct {
	To          common.Address
	Data        []byte
	Value       *big.Int
	Description string
}

// Wallet is a connected signing account bound to one expected network. Writes are
// serialized so nonces never collide.
type Wallet struct {
	mu        sync.Mutex
	backend   Backend
	key       *ecdsa.PrivateKey
	address   common.Address
	chainID   *big.Int
	confirmer Confirmer
	logger    *zap.Logger
}

// Open loads the signing key. A chain mismatch is logged but does not fail; writes
// check the network again before sending.
func Open(ctx context.Context, backend Backend, cfg Config, confirmer Confirmer, logger *zap.Logger) (*Wallet, error) {
	if backend == nil {
		return nil, fmt.Errorf("wallet backend is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if confirmer == nil {
		confirmer = AutoConfirm{}
	}
	if cfg.ChainID <= 0 {
		return nil, fmt.Errorf("chain id must be positive")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	w := &Wallet{
		backend:   backend,
		key:       key,
		address:   crypto.PubkeyToAddress(key.PublicKey),
		chainID:   big.NewInt(cfg.ChainID),
		confirmer: confirmer,
		logger:    logger,
	}
	if err := w.EnsureNetwork(ctx); err != nil {
		logger.Warn("wallet opened on unexpected network", zap.String("address", w.address.Hex()), zap.Error(err))
	}
	return w, nil
}

func (w *Wallet) Address() common.Address {
	return w.address
}

func (w *Wallet) ChainID() *big.Int {
	return new(big.Int).Set(w.chainID)
}

// EnsureNetwork fails with ErrNetworkMismatch unless the RPC reports the expected chain.
func (w *Wallet) EnsureNetwork(ctx context.Context) error {
	remote, err := w.backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: chain id: %w", model.ErrLookupFailed, err)
	}
	if remote.Cmp(w.chainID) != 0 {
		return fmt.Errorf("%w: connected to chain %s, expected %s", model.ErrNetworkMismatch, remote, w.chainID)
	}
	return nil
}

// Transact confirms, signs, sends and waits for req. The receipt is returned together
// with ErrTransactionReverted when the transaction was mined but failed.
func (w *Wallet) Transact(ctx context.Context, req TxRequest) (*types.Receipt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.key == nil {
		return nil, fmt.Errorf("wallet is closed")
	}
	if err := w.EnsureNetwork(ctx); err != nil {
		return nil, err
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	ok, err := w.confirmer.Confirm(ctx, Summary{
		From:        w.address,
		To:          req.To,
		Value:       value,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrUserRejected, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUserRejected, req.Description)
	}

	nonce, err := w.backend.PendingNonceAt(ctx, w.address)
	if err != nil {
		return nil, fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := w.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}
	to := req.To
	gas, err := w.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:     w.address,
		To:       &to,
		GasPrice: gasPrice,
		Value:    value,
		Data:     req.Data,
	})
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("%w: %s: %w", model.ErrTransactionReverted, req.Description, err)
		}
		return nil, fmt.Errorf("estimate gas: %w", err)
	}
	gas = gas * gasBufferPercent / 100

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     req.Data,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(w.chainID), w.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	if err := w.backend.SendTransaction(ctx, signed); err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("%w: %s: %w", model.ErrTransactionReverted, req.Description, err)
		}
		return nil, fmt.Errorf("send transaction: %w", err)
	}
	w.logger.Info("transaction sent",
		zap.String("description", req.Description),
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gas),
	)

	receipt, err := bind.WaitMined(ctx, w.backend, signed)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", signed.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s in tx %s", model.ErrTransactionReverted, req.Description, signed.Hash().Hex())
	}
	w.logger.Info("transaction mined",
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
		zap.Uint64("gas_used", receipt.GasUsed),
	)
	return receipt, nil
}

// Close forgets the signing key. The wallet cannot transact afterwards.
func (w *Wallet) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.key != nil && w.key.D != nil {
		w.key.D.SetInt64(0)
	}
	w.key = nil
}

func isRevert(err error) bool {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "revert")
}
