package quote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/model"
)

var (
	memeToken = model.TokenRef{Address: "0x1111111111111111111111111111111111111111", Symbol: "MEME", Decimals: 18}
	native    = model.NewNativeToken("AVAX")
)

type stubSource struct {
	mu       sync.Mutex
	reserves []model.PoolReserves
	err      error
	calls    int
}

func (s *stubSource) GetReserves(_ context.Context, _, _ model.TokenRef) (model.PoolReserves, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return model.PoolReserves{}, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.reserves) {
		idx = len(s.reserves) - 1
	}
	return s.reserves[idx], nil
}

func TestQuoterQuote(t *testing.T) {
	source := &stubSource{reserves: []model.PoolReserves{pool(units(1_000, 18), units(2_000, 18))}}
	q := NewQuoter(source, DefaultFeeBps, nil).Quote(context.Background(), native, memeToken, "1")

	require.Equal(t, model.QuoteOK, q.Status)
	assert.Equal(t, "1992013962079806432", q.AmountOut.String())
	assert.Equal(t, 1, source.calls)
}

func TestQuoterSameTokenSkipsLookup(t *testing.T) {
	source := &stubSource{}
	upper := model.TokenRef{Address: "0X1111111111111111111111111111111111111111"}
	q := NewQuoter(source, DefaultFeeBps, nil).Quote(context.Background(), memeToken, upper, "1")

	assert.Equal(t, model.QuoteInvalidPair, q.Status)
	assert.Zero(t, source.calls)
}

func TestQuoterErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want model.QuoteStatus
	}{
		{model.ErrPoolNotFound, model.QuoteNoPool},
		{model.ErrSameToken, model.QuoteInvalidPair},
		{fmt.Errorf("%w: %w", model.ErrLookupFailed, errors.New("timeout")), model.QuoteLookupFailed},
		{errors.New("invalid token address: zz"), model.QuoteLookupFailed},
	}
	for _, tc := range cases {
		source := &stubSource{err: tc.err}
		q := NewQuoter(source, DefaultFeeBps, nil).Quote(context.Background(), native, memeToken, "1")
		assert.Equal(t, tc.want, q.Status, tc.err.Error())
		assert.Nil(t, q.AmountOut)
		assert.NotEmpty(t, q.Reason)
	}
}

func TestQuoterNoInput(t *testing.T) {
	source := &stubSource{reserves: []model.PoolReserves{pool(units(1_000, 18), units(2_000, 18))}}
	quoter := NewQuoter(source, DefaultFeeBps, nil)

	for _, amount := range []string{"", "0", "not-a-number"} {
		q := quoter.Quote(context.Background(), native, memeToken, amount)
		assert.Equal(t, model.QuoteNoInput, q.Status, amount)
		assert.True(t, q.Price.Valid, amount)
	}
}

func TestChanged(t *testing.T) {
	base := Calculate(pool(units(1_000, 18), units(2_000, 18)), units(1, 18), DefaultFeeBps)
	same := Calculate(pool(units(1_000, 18), units(2_000, 18)), units(1, 18), DefaultFeeBps)
	moved := Calculate(pool(units(1_100, 18), units(2_000, 18)), units(1, 18), DefaultFeeBps)

	assert.False(t, Changed(base, same))
	assert.True(t, Changed(base, moved))
	assert.True(t, Changed(base, model.Quote{Status: model.QuoteLookupFailed}))
}

func TestWatcherEmitsOnChange(t *testing.T) {
	source := &stubSource{reserves: []model.PoolReserves{
		pool(units(1_000, 18), units(2_000, 18)),
		pool(units(1_000, 18), units(2_000, 18)),
		pool(units(1_200, 18), units(2_000, 18)),
	}}
	watcher := NewWatcher(NewQuoter(source, DefaultFeeBps, nil), time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []model.Quote
	err := watcher.Run(ctx, WatchRequest{From: native, To: memeToken, Amount: "1"}, func(q model.Quote) {
		got = append(got, q)
		if len(got) == 2 {
			cancel()
		}
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, got, 2)
	assert.True(t, got[1].AmountOut.Cmp(got[0].AmountOut) < 0)
	source.mu.Lock()
	assert.GreaterOrEqual(t, source.calls, 3)
	source.mu.Unlock()
}

func TestWatcherStopsWhenCancelled(t *testing.T) {
	source := &stubSource{reserves: []model.PoolReserves{pool(units(1, 18), units(1, 18))}}
	watcher := NewWatcher(NewQuoter(source, DefaultFeeBps, nil), time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	err := watcher.Run(ctx, WatchRequest{From: native, To: memeToken}, func(model.Quote) { calls++ })
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
}

func TestQuoterFeeBps(t *testing.T) {
	source := &stubSource{reserves: []model.PoolReserves{pool(units(1_000, 18), units(2_000, 18))}}
	q := NewQuoter(source, 25, nil)
	assert.Equal(t, uint32(25), q.FeeBps())

	got := q.Quote(context.Background(), native, memeToken, "1")
	require.True(t, got.Available())
	assert.Equal(t, QuoteOutput(pool(units(1_000, 18), units(2_000, 18)), units(1, 18), 25).String(), got.AmountOut.String())
}
