package quote

import (
	"context"
	"errors"
	"math/big"

	"go.uber.org/zap"

	"launchpad/internal/model"
)

// ReserveSource supplies oriented pool reserves. *dex.ReserveReader satisfies it.
type ReserveSource interface {
	GetReserves(ctx context.Context, tokenA, tokenB model.TokenRef) (model.PoolReserves, error)
}

// Quoter turns a user's from/to/amount selection into a displayable Quote. Read
// failures are reported through the quote status and never returned as errors.
type Quoter struct {
	source ReserveSource
	feeBps uint32
	logger *zap.Logger
}

func NewQuoter(source ReserveSource, feeBps uint32, logger *zap.Logger) *Quoter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Quoter{source: source, feeBps: feeBps, logger: logger}
}

// FeeBps returns the swap fee the quoter applies.
func (q *Quoter) FeeBps() uint32 {
	return q.feeBps
}

// Quote prices amountText of from in units of to. An empty amount still returns the
// spot price when the pool exists.
func (q *Quoter) Quote(ctx context.Context, from, to model.TokenRef, amountText string) model.Quote {
	if from.Equal(to) {
		return model.Quote{Status: model.QuoteInvalidPair, Reason: model.ErrSameToken.Error()}
	}

	reserves, err := q.source.GetReserves(ctx, from, to)
	if err != nil {
		return q.failed(from, to, err)
	}

	amountIn, err := ParseUnits(amountText, reserves.DecimalsIn)
	if err != nil {
		out := Calculate(reserves, nil, q.feeBps)
		if out.Status == model.QuoteNoInput {
			out.Reason = err.Error()
		}
		return out
	}
	return Calculate(reserves, amountIn, q.feeBps)
}

func (q *Quoter) failed(from, to model.TokenRef, err error) model.Quote {
	switch {
	case errors.Is(err, model.ErrPoolNotFound):
		return model.Quote{Status: model.QuoteNoPool, Reason: err.Error()}
	case errors.Is(err, model.ErrSameToken):
		return model.Quote{Status: model.QuoteInvalidPair, Reason: err.Error()}
	default:
		q.logger.Warn("quote lookup failed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(err),
		)
		return model.Quote{Status: model.QuoteLookupFailed, Reason: err.Error()}
	}
}

// Changed reports whether b differs from a in any displayed field.
func Changed(a, b model.Quote) bool {
	if a.Status != b.Status || a.Reason != b.Reason {
		return true
	}
	if !bigEqual(a.AmountOut, b.AmountOut) {
		return true
	}
	if a.Price.Valid != b.Price.Valid || (a.Price.Valid && !a.Price.Decimal.Equal(b.Price.Decimal)) {
		return true
	}
	return false
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Cmp(b) == 0
}
