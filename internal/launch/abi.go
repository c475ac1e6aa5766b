package launch

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const factoryABIJSON = `[
  {"type":"function","name":"createToken","stateMutability":"payable","inputs":[
    {"name":"name","type":"string"},
    {"name":"symbol","type":"string"},
    {"name":"initialSupply","type":"uint256"}
  ],"outputs":[]},
  {"type":"event","name":"TokenCreated","anonymous":false,"inputs":[
    {"name":"tokenAddress","type":"address","indexed":true},
    {"name":"creator","type":"address","indexed":true},
    {"name":"name","type":"string","indexed":false},
    {"name":"symbol","type":"string","indexed":false}
  ]}
]`

var (
	factoryOnce   sync.Once
	factoryParsed abi.ABI
	factoryErr    error
)

// FactoryABI returns the token factory ABI.
func FactoryABI() (abi.ABI, error) {
	factoryOnce.Do(func() {
		factoryParsed, factoryErr = abi.JSON(strings.NewReader(factoryABIJSON))
	})
	return factoryParsed, factoryErr
}
