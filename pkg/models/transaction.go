package models

type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	// BlockIndex is only known once the transaction is part of a block.
	BlockIndex uint64 `json:"block_index,omitempty"`
}
