package launch

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"launchpad/internal/model"
	"launchpad/internal/quote"
	"launchpad/internal/wallet"
)

// TokenDecimals is the fixed precision of factory-minted tokens. Initial supply is
// always given in whole tokens and scaled by it.
const TokenDecimals = 18

// Transactor sends the createToken call. *wallet.Wallet satisfies it.
type Transactor interface {
	Address() common.Address
	Transact(ctx context.Context, req wallet.TxRequest) (*types.Receipt, error)
}

// Registry stores launched tokens. *postgres.Store satisfies it.
type Registry interface {
	FindToken(ctx context.Context, chainID uint64, addressOrTicker string) (model.TokenRecord, bool, error)
	UpsertTokens(ctx context.Context, tokens []model.TokenRecord) error
}

type Config struct {
	Factory    common.Address
	MintingFee *big.Int
	ChainID    uint64
}

// Request is a token launch as entered by the creator.
type Request struct {
	Name          string `validate:"required,max=64"`
	Symbol        string `validate:"required,alphanum,max=11"`
	InitialSupply string `validate:"required,numeric"`
	Description   string `validate:"max=500"`
	ImageURL      string `validate:"omitempty,url"`
}

type Launcher struct {
	cfg      Config
	tx       Transactor
	registry Registry
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewLauncher builds a launcher. registry may be nil, in which case launches are not
// recorded and tickers are not checked for reuse.
func NewLauncher(cfg Config, tx Transactor, registry Registry, logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MintingFee == nil {
		cfg.MintingFee = new(big.Int)
	}
	return &Launcher{
		cfg:      cfg,
		tx:       tx,
		registry: registry,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Launch creates the token through the factory and records it in the registry.
func (l *Launcher) Launch(ctx context.Context, req Request) (model.TokenRecord, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	req.InitialSupply = strings.TrimSpace(req.InitialSupply)
	req.Description = strings.TrimSpace(req.Description)
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	if err := l.validate.Struct(req); err != nil {
		return model.TokenRecord{}, fmt.Errorf("invalid launch request: %w", err)
	}
	supply, err := quote.ParseUnits(req.InitialSupply, TokenDecimals)
	if err != nil {
		return model.TokenRecord{}, fmt.Errorf("initial supply: %w", err)
	}
	if supply == nil || supply.Sign() <= 0 {
		return model.TokenRecord{}, fmt.Errorf("initial supply must be positive")
	}

	if l.registry != nil {
		existing, ok, err := l.registry.FindToken(ctx, l.cfg.ChainID, req.Symbol)
		if err != nil {
			return model.TokenRecord{}, fmt.Errorf("registry lookup: %w", err)
		}
		if ok {
			return model.TokenRecord{}, fmt.Errorf("token %s already exists at %s", req.Symbol, existing.Address)
		}
	}

	parsed, err := FactoryABI()
	if err != nil {
		return model.TokenRecord{}, fmt.Errorf("parse factory abi: %w", err)
	}
	data, err := parsed.Pack("createToken", req.Name, req.Symbol, supply)
	if err != nil {
		return model.TokenRecord{}, fmt.Errorf("pack createToken: %w", err)
	}

	receipt, err := l.tx.Transact(ctx, wallet.TxRequest{
		To:          l.cfg.Factory,
		Data:        data,
		Value:       l.cfg.MintingFee,
		Description: fmt.Sprintf("create token %s (%s), supply %s", req.Name, req.Symbol, req.InitialSupply),
	})
	if err != nil {
		return model.TokenRecord{}, err
	}

	created, err := ParseTokenCreated(receipt, l.cfg.Factory)
	if err != nil {
		return model.TokenRecord{}, err
	}
	record := model.TokenRecord{
		ChainID:     l.cfg.ChainID,
		Address:     created.Token.Hex(),
		Name:        req.Name,
		Ticker:      req.Symbol,
		Decimals:    TokenDecimals,
		Creator:     l.tx.Address().Hex(),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		TxHash:      receipt.TxHash.Hex(),
		CreatedAt:   l.now().UTC(),
	}
	l.logger.Info("token launched",
		zap.String("token", record.Address),
		zap.String("ticker", record.Ticker),
		zap.String("tx_hash", record.TxHash),
	)

	if l.registry != nil {
		if err := l.registry.UpsertTokens(ctx, []model.TokenRecord{record}); err != nil {
			return record, fmt.Errorf("register token: %w", err)
		}
	}
	return record, nil
}
