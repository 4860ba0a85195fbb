package models

import (
	"github.com/iov-one/block-ledger/pkg/ledger"
)

// NewBlock adapts a ledger block into its API form, hash included.
func NewBlock(b ledger.Block) Block {
	txs := make([]Transaction, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		txs = append(txs, Transaction{
			Sender:     tx.Sender,
			Recipient:  tx.Recipient,
			Amount:     tx.Amount,
			BlockIndex: b.Index,
		})
	}
	return Block{
		Index:        b.Index,
		Hash:         b.Digest().String(),
		PreviousHash: b.PreviousDigest.String(),
		Timestamp:    b.Timestamp,
		Proof:        b.Proof,
		Transactions: txs,
	}
}

func NewChain(blocks []ledger.Block) Chain {
	c := Chain{
		Length: len(blocks),
		Blocks: make([]Block, 0, len(blocks)),
	}
	for _, b := range blocks {
		c.Blocks = append(c.Blocks, NewBlock(b))
	}
	return c
}

// NewPending adapts pool transactions, which have no block yet.
func NewPending(txs []ledger.Transaction) []Transaction {
	res := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		res = append(res, Transaction{Sender: tx.Sender, Recipient: tx.Recipient, Amount: tx.Amount})
	}
	return res
}

// LedgerBlock converts the API form back into a ledger block. The hash is
// not trusted, use Verify to compare it with the recomputed digest.
func (b Block) LedgerBlock() (ledger.Block, error) {
	prev, err := ledger.ParseDigest(b.PreviousHash)
	if err != nil {
		return ledger.Block{}, err
	}
	txs := make([]ledger.Transaction, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		txs = append(txs, ledger.NewTransaction(tx.Sender, tx.Recipient, tx.Amount))
	}
	return ledger.Block{
		Index:          b.Index,
		Timestamp:      b.Timestamp,
		Transactions:   txs,
		Proof:          b.Proof,
		PreviousDigest: prev,
	}, nil
}

// Verify reports whether Hash matches the digest recomputed from the other
// fields.
func (b Block) Verify() (bool, error) {
	lb, err := b.LedgerBlock()
	if err != nil {
		return false, err
	}
	return lb.Digest().String() == b.Hash, nil
}
