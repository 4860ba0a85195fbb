package models

type Block struct {
	Index        uint64        `json:"index"`
	Hash         string        `json:"hash"`
	PreviousHash string        `json:"previous_hash"`
	Timestamp    int64         `json:"timestamp"`
	Proof        uint64        `json:"proof"`
	Transactions []Transaction `json:"transactions"`
}

// Chain is the full chain as served by the ledger node.
type Chain struct {
	Length int     `json:"length"`
	Blocks []Block `json:"chain"`
}
