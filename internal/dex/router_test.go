package dex

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/model"
)

func TestPackAddLiquidityNative(t *testing.T) {
	router, err := RouterABI()
	require.NoError(t, err)

	owner := common.HexToAddress("0x4444444444444444444444444444444444444444")
	deposit := model.LiquidityDeposit{
		Token:              memeAddr.Hex(),
		To:                 owner.Hex(),
		AmountTokenDesired: big.NewInt(200),
		AmountTokenMin:     big.NewInt(190),
		AmountNativeMin:    big.NewInt(95),
		Deadline:           1700001200,
	}

	for _, method := range []string{"addLiquidityAVAX", "addLiquidityETH"} {
		data, err := PackAddLiquidityNative(method, deposit)
		require.NoError(t, err)
		assert.Equal(t, router.Methods[method].ID, data[:4])

		args, err := router.Methods[method].Inputs.Unpack(data[4:])
		require.NoError(t, err)
		require.Len(t, args, 6)
		assert.Equal(t, memeAddr, args[0])
		assert.Equal(t, "190", args[2].(*big.Int).String())
		assert.Equal(t, "95", args[3].(*big.Int).String())
		assert.Equal(t, owner, args[4])
		assert.Equal(t, "1700001200", args[5].(*big.Int).String())
	}

	_, err = PackAddLiquidityNative("addLiquidity", deposit)
	require.Error(t, err)
}

func TestDecodeMint(t *testing.T) {
	pairABI, err := PairABI()
	require.NoError(t, err)
	recipient := common.HexToAddress("0x4444444444444444444444444444444444444444")
	router := common.HexToAddress("0x2D99ABD9008Dc933ff5c0CD271B88309593aB921")

	mintData, err := pairABI.Events["Mint"].Inputs.NonIndexed().Pack(big.NewInt(1000), big.NewInt(50))
	require.NoError(t, err)
	lpData, err := pairABI.Events["Transfer"].Inputs.NonIndexed().Pack(big.NewInt(223))
	require.NoError(t, err)
	tokenData, err := pairABI.Events["Transfer"].Inputs.NonIndexed().Pack(big.NewInt(1000))
	require.NoError(t, err)

	receipt := &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		Logs: []*types.Log{
			{
				Address: memeAddr,
				Topics: []common.Hash{
					pairABI.Events["Transfer"].ID,
					common.BytesToHash(recipient.Bytes()),
					common.BytesToHash(pairAddr.Bytes()),
				},
				Data: tokenData,
			},
			{
				Address: pairAddr,
				Topics: []common.Hash{
					pairABI.Events["Transfer"].ID,
					{},
					common.BytesToHash(recipient.Bytes()),
				},
				Data: lpData,
			},
			{
				Address: pairAddr,
				Topics: []common.Hash{
					pairABI.Events["Mint"].ID,
					common.BytesToHash(router.Bytes()),
				},
				Data: mintData,
			},
		},
	}

	got, err := DecodeMint(receipt, recipient)
	require.NoError(t, err)
	assert.Equal(t, pairAddr, got.Pair)
	assert.Equal(t, "1000", got.Amount0.String())
	assert.Equal(t, "50", got.Amount1.String())
	require.NotNil(t, got.Liquidity)
	assert.Equal(t, "223", got.Liquidity.String())

	_, err = DecodeMint(&types.Receipt{}, recipient)
	require.Error(t, err)
}
