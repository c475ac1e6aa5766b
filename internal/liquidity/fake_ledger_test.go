package liquidity

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"launchpad/internal/model"
)

var (
	tokenAddr  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	ownerAddr  = common.HexToAddress("0x4444444444444444444444444444444444444444")
	routerAddr = common.HexToAddress("0x2D99ABD9008Dc933ff5c0CD271B88309593aB921")
)

// fakeLedger is an in-memory ledger. block, when set, parks writes until released.
type fakeLedger struct {
	mu            sync.Mutex
	allowance     *big.Int
	tokenBalance  *big.Int
	nativeBalance *big.Int
	networkErr    error
	allowanceErr  error
	approveErr    error
	depositErr    error
	block         chan struct{}
	entered       chan struct{}

	approvals []*big.Int
	deposits  []model.LiquidityDeposit
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		allowance:     new(big.Int),
		tokenBalance:  big.NewInt(1_000),
		nativeBalance: big.NewInt(1_000),
	}
}

func (f *fakeLedger) Spender() common.Address { return routerAddr }

func (f *fakeLedger) EnsureNetwork(context.Context) error { return f.networkErr }

func (f *fakeLedger) Allowance(context.Context, common.Address, common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.allowanceErr != nil {
		return nil, f.allowanceErr
	}
	return new(big.Int).Set(f.allowance), nil
}

func (f *fakeLedger) TokenBalance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return new(big.Int).Set(f.tokenBalance), nil
}

func (f *fakeLedger) NativeBalance(context.Context, common.Address) (*big.Int, error) {
	return new(big.Int).Set(f.nativeBalance), nil
}

func (f *fakeLedger) wait() {
	if f.block == nil {
		return
	}
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	<-f.block
}

func (f *fakeLedger) Approve(_ context.Context, _ common.Address, amount *big.Int) (string, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approvals = append(f.approvals, new(big.Int).Set(amount))
	if f.approveErr != nil {
		return "", f.approveErr
	}
	f.allowance = new(big.Int).Set(amount)
	return fmt.Sprintf("0xapprove%d", len(f.approvals)), nil
}

func (f *fakeLedger) AddLiquidity(_ context.Context, deposit model.LiquidityDeposit) (model.LiquidityDeposit, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deposits = append(f.deposits, deposit)
	deposit.TxHash = "0xdeposit"
	if f.depositErr != nil {
		return deposit, f.depositErr
	}
	deposit.AmountToken = deposit.AmountTokenDesired
	deposit.AmountNative = deposit.AmountNativeDesired
	deposit.Liquidity = big.NewInt(42)
	return deposit, nil
}
