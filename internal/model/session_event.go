package model

// SessionEvent is a journal line for a liquidity session transition.
type SessionEvent struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	Owner     string `json:"owner"`
	From      string `json:"from"`
	To        string `json:"to"`
	Error     string `json:"error,omitempty"`
	TxHash    string `json:"tx_hash,omitempty"`
	Timestamp string `json:"ts"`
}

// QuoteSnapshot is a journal line for a watched quote.
type QuoteSnapshot struct {
	From      string `json:"from"`
	To        string `json:"to"`
	AmountIn  string `json:"amount_in"`
	Quote     Quote  `json:"quote"`
	Timestamp string `json:"ts"`
}
