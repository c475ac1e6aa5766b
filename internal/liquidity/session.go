package liquidity

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"launchpad/internal/model"
)

// Ledger is the remote side of a session: allowance and balance reads plus the two
// writes. Spender is the router the allowance is granted to.
type Ledger interface {
	Spender() common.Address
	EnsureNetwork(ctx context.Context) error
	Allowance(ctx context.Context, token, owner common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error)
	NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error)
	Approve(ctx context.Context, token common.Address, amount *big.Int) (string, error)
	AddLiquidity(ctx context.Context, deposit model.LiquidityDeposit) (model.LiquidityDeposit, error)
}

type Config struct {
	Token          common.Address
	Owner          common.Address
	SlippageBps    uint32
	DeadlineWindow time.Duration
}

// Observer receives every state transition.
type Observer func(model.SessionEvent)

// Session drives one owner's approve-then-deposit flow for one token. At most one
// remote call is outstanding at a time; concurrent requests fail with ErrSessionBusy.
type Session struct {
	mu     sync.Mutex
	id     string
	cfg    Config
	ledger Ledger
	logger *zap.Logger

	state        State
	busy         bool
	err          error
	tokenAmount  *big.Int
	nativeAmount *big.Int
	allowance    *big.Int
	deposit      *model.LiquidityDeposit

	observer    Observer
	onCompleted func(model.LiquidityDeposit)
	now         func() time.Time
}

type Option func(*Session)

func WithObserver(fn Observer) Option {
	return func(s *Session) { s.observer = fn }
}

// WithOnCompleted registers a hook run after a deposit is mined, used to refresh
// reserves and balances.
func WithOnCompleted(fn func(model.LiquidityDeposit)) Option {
	return func(s *Session) { s.onCompleted = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func NewSession(cfg Config, ledger Ledger, logger *zap.Logger, opts ...Option) (*Session, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger is nil")
	}
	if cfg.Token == (common.Address{}) {
		return nil, fmt.Errorf("token address is required")
	}
	if cfg.Owner == (common.Address{}) {
		return nil, fmt.Errorf("owner address is required")
	}
	if cfg.SlippageBps >= 10_000 {
		return nil, fmt.Errorf("slippage must be below 100%%")
	}
	if cfg.DeadlineWindow <= 0 {
		cfg.DeadlineWindow = DefaultDeadlineWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		ledger: ledger,
		logger: logger,
		state:  StateIdle,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.id), zap.String("token", cfg.Token.Hex()))
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the cause of the last failure, nil unless the session is Failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Approval returns the last observed allowance against the required token amount.
func (s *Session) Approval() model.LiquidityApproval {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.LiquidityApproval{
		Owner:          s.cfg.Owner.Hex(),
		Spender:        s.ledger.Spender().Hex(),
		Token:          s.cfg.Token.Hex(),
		Allowance:      copyBig(s.allowance),
		RequiredAmount: copyBig(s.tokenAmount),
	}
}

// LastDeposit returns the most recent deposit attempt, if any.
func (s *Session) LastDeposit() (model.LiquidityDeposit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deposit == nil {
		return model.LiquidityDeposit{}, false
	}
	return *s.deposit, true
}

// SetAmounts records the desired deposit and re-reads the allowance.
func (s *Session) SetAmounts(ctx context.Context, tokenAmount, nativeAmount *big.Int) error {
	if err := s.begin("set amounts", StateIdle, StateUnapproved, StateApproved); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.tokenAmount = copyBig(tokenAmount)
	s.nativeAmount = copyBig(nativeAmount)
	s.mu.Unlock()

	s.transition(StateChecking, nil, "")
	return s.check(ctx)
}

// Refresh re-reads the allowance for the current amounts.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.begin("refresh", StateIdle, StateUnapproved, StateApproved); err != nil {
		return err
	}
	defer s.end()

	s.transition(StateChecking, nil, "")
	return s.check(ctx)
}

// Approve grants the router an allowance of exactly the desired token amount. Network
// and balance failures leave the session where it was.
func (s *Session) Approve(ctx context.Context) error {
	if err := s.begin("approve", StateUnapproved); err != nil {
		return err
	}
	defer s.end()

	amount := s.amounts()
	if amount.token.Sign() <= 0 {
		return fmt.Errorf("%w: approve needs a positive token amount", model.ErrInvalidTransition)
	}
	if err := s.ledger.EnsureNetwork(ctx); err != nil {
		return err
	}
	if err := s.guardTokenBalance(ctx, amount.token); err != nil {
		return err
	}

	s.transition(StateApproving, nil, "")
	txHash, err := s.ledger.Approve(ctx, s.cfg.Token, amount.token)
	if err != nil {
		s.transition(StateFailed, err, txHash)
		return err
	}
	s.transition(StateChecking, nil, txHash)
	return s.check(ctx)
}

// Deposit adds token and native liquidity. The allowance is re-read first; when it
// no longer covers the amount the session falls back to Unapproved.
func (s *Session) Deposit(ctx context.Context) (model.LiquidityDeposit, error) {
	if err := s.begin("deposit", StateApproved); err != nil {
		return model.LiquidityDeposit{}, err
	}
	defer s.end()

	amount := s.amounts()
	if err := s.ledger.EnsureNetwork(ctx); err != nil {
		return model.LiquidityDeposit{}, err
	}
	if err := s.guardTokenBalance(ctx, amount.token); err != nil {
		return model.LiquidityDeposit{}, err
	}
	nativeBalance, err := s.ledger.NativeBalance(ctx, s.cfg.Owner)
	if err != nil {
		return model.LiquidityDeposit{}, err
	}
	if nativeBalance.Cmp(amount.native) < 0 {
		return model.LiquidityDeposit{}, fmt.Errorf("%w: native balance %s below %s",
			model.ErrInsufficientBalance, nativeBalance, amount.native)
	}

	allowance, err := s.ledger.Allowance(ctx, s.cfg.Token, s.cfg.Owner)
	if err != nil {
		return model.LiquidityDeposit{}, err
	}
	s.setAllowance(allowance)
	if !s.Approval().Sufficient() {
		s.transition(StateUnapproved, nil, "")
		return model.LiquidityDeposit{}, fmt.Errorf("%w: allowance %s below %s",
			model.ErrInsufficientAllowance, allowance, amount.token)
	}

	deposit := BuildDeposit(s.cfg.Token, s.cfg.Owner, amount.token, amount.native,
		s.cfg.SlippageBps, s.now().Add(s.cfg.DeadlineWindow))
	s.setDeposit(deposit)
	s.transition(StateDepositing, nil, "")

	result, err := s.ledger.AddLiquidity(ctx, deposit)
	if result.ID == "" {
		result = mergeDeposit(deposit, result)
	}
	if err != nil {
		result.Status = model.DepositFailed
		result.Error = err.Error()
		s.setDeposit(result)
		s.transition(StateFailed, err, result.TxHash)
		return result, err
	}
	result.Status = model.DepositCompleted
	s.setDeposit(result)
	s.transition(StateCompleted, nil, result.TxHash)
	if s.onCompleted != nil {
		s.onCompleted(result)
	}
	return result, nil
}

// Reset returns a Completed or Failed session to Idle.
func (s *Session) Reset() error {
	if err := s.begin("reset", StateCompleted, StateFailed); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.allowance = nil
	s.mu.Unlock()
	s.transition(StateIdle, nil, "")
	return nil
}

func (s *Session) check(ctx context.Context) error {
	allowance, err := s.ledger.Allowance(ctx, s.cfg.Token, s.cfg.Owner)
	if err != nil {
		if !errors.Is(err, model.ErrLookupFailed) {
			err = fmt.Errorf("%w: allowance: %w", model.ErrLookupFailed, err)
		}
		s.transition(StateFailed, err, "")
		return err
	}
	s.setAllowance(allowance)
	if s.Approval().Sufficient() {
		s.transition(StateApproved, nil, "")
	} else {
		s.transition(StateUnapproved, nil, "")
	}
	return nil
}

func (s *Session) guardTokenBalance(ctx context.Context, amount *big.Int) error {
	balance, err := s.ledger.TokenBalance(ctx, s.cfg.Token, s.cfg.Owner)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: token balance %s below %s", model.ErrInsufficientBalance, balance, amount)
	}
	return nil
}

func (s *Session) begin(op string, allowed ...State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return fmt.Errorf("%w: %s while %s", model.ErrSessionBusy, op, s.state)
	}
	for _, state := range allowed {
		if s.state == state {
			s.busy = true
			return nil
		}
	}
	return fmt.Errorf("%w: %s from %s", model.ErrInvalidTransition, op, s.state)
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) transition(to State, cause error, txHash string) {
	s.mu.Lock()
	from := s.state
	if !CanTransition(from, to) {
		s.mu.Unlock()
		s.logger.Error("illegal transition", zap.String("from", string(from)), zap.String("to", string(to)))
		return
	}
	s.state = to
	s.err = cause
	event := model.SessionEvent{
		SessionID: s.id,
		Token:     s.cfg.Token.Hex(),
		Owner:     s.cfg.Owner.Hex(),
		From:      string(from),
		To:        string(to),
		TxHash:    txHash,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	observer := s.observer
	s.mu.Unlock()

	fields := []zap.Field{zap.String("from", string(from)), zap.String("to", string(to))}
	if txHash != "" {
		fields = append(fields, zap.String("tx_hash", txHash))
	}
	if cause != nil {
		s.logger.Warn("session transition", append(fields, zap.Error(cause))...)
	} else {
		s.logger.Debug("session transition", fields...)
	}
	if observer != nil {
		observer(event)
	}
}

type amounts struct {
	token  *big.Int
	native *big.Int
}

func (s *Session) amounts() amounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return amounts{token: copyBig(s.tokenAmount), native: copyBig(s.nativeAmount)}
}

func (s *Session) setAllowance(v *big.Int) {
	s.mu.Lock()
	s.allowance = copyBig(v)
	s.mu.Unlock()
}

func (s *Session) setDeposit(d model.LiquidityDeposit) {
	s.mu.Lock()
	s.deposit = &d
	s.mu.Unlock()
}

func mergeDeposit(base, result model.LiquidityDeposit) model.LiquidityDeposit {
	base.TxHash = result.TxHash
	base.BlockNumber = result.BlockNumber
	base.AmountToken = result.AmountToken
	base.AmountNative = result.AmountNative
	base.Liquidity = result.Liquidity
	return base
}
