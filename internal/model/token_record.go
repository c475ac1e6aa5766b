package model

import "time"

// TokenRecord is a launched token in the registry.
type TokenRecord struct {
	ChainID     uint64    `json:"chain_id"`
	Address     string    `json:"contract_address"`
	Name        string    `json:"name"`
	Ticker      string    `json:"ticker"`
	Decimals    uint8     `json:"decimals"`
	Creator     string    `json:"creator"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	TxHash      string    `json:"tx_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ref converts the record into a TokenRef.
func (r TokenRecord) Ref() TokenRef {
	return TokenRef{Address: r.Address, Symbol: r.Ticker, Decimals: r.Decimals}
}
