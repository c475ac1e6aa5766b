package model

import "math/big"

// PoolReserves is a read-only snapshot of a pair's liquidity, oriented in the swap direction.
type PoolReserves struct {
	Pair               string   `json:"pair"`
	ReserveIn          *big.Int `json:"reserve_in"`
	ReserveOut         *big.Int `json:"reserve_out"`
	DecimalsIn         uint8    `json:"decimals_in"`
	DecimalsOut        uint8    `json:"decimals_out"`
	BlockTimestampLast uint32   `json:"block_timestamp_last"`
}

// HasLiquidity is false when either side of the pool is empty.
func (r PoolReserves) HasLiquidity() bool {
	return r.ReserveIn != nil && r.ReserveOut != nil && r.ReserveIn.Sign() > 0 && r.ReserveOut.Sign() > 0
}

// Reverse returns the same snapshot oriented in the opposite direction.
func (r PoolReserves) Reverse() PoolReserves {
	return PoolReserves{
		Pair:               r.Pair,
		ReserveIn:          r.ReserveOut,
		ReserveOut:         r.ReserveIn,
		DecimalsIn:         r.DecimalsOut,
		DecimalsOut:        r.DecimalsIn,
		BlockTimestampLast: r.BlockTimestampLast,
	}
}
