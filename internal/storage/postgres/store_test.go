package postgres

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%meme%", likePattern(" meme "))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, "%%", likePattern(""))
}

func TestNumeric(t *testing.T) {
	v, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	assert.Equal(t, v.String(), numeric(v).String())
	assert.Equal(t, "0", numeric(nil).String())

	assert.False(t, nullNumeric(nil).Valid)
	n := nullNumeric(big.NewInt(190))
	assert.True(t, n.Valid)
	assert.Equal(t, "190", n.Decimal.String())
}
