package node

import (
	"context"
	"sync"

	"github.com/iov-one/block-ledger/pkg/ledger"
	"github.com/iov-one/weave/errors"
)

const (
	// RewardSender is the sender of the transaction paying the miner.
	RewardSender = "0"
	// RewardAmount is paid to the node for every block it mines.
	RewardAmount = 1
)

// Node owns a ledger and serializes all access to it. The proof search runs
// without holding the lock so that transactions can be submitted while a
// block is being mined.
type Node struct {
	id string

	mu       sync.Mutex
	ledger   *ledger.Ledger
	poisoned bool
	subs     map[*Subscription]struct{}
}

// New returns a node identified by id. The id receives the mining rewards.
func New(id string, opts ...ledger.Option) *Node {
	return &Node{
		id:     id,
		ledger: ledger.New(opts...),
		subs:   make(map[*Subscription]struct{}),
	}
}

func (n *Node) ID() string {
	return n.id
}

// locked runs fn while holding the ledger. A panic inside fn poisons the node
// so that no later caller observes a half applied change.
func (n *Node) locked(fn func(l *ledger.Ledger)) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.poisoned {
		return errors.Wrap(ErrPoisoned, n.id)
	}
	defer func() {
		if r := recover(); r != nil {
			n.poisoned = true
			panic(r)
		}
	}()
	fn(n.ledger)
	return nil
}

// SubmitTransaction queues tx and returns the index of the block it is
// expected to land in. The index is advisory, a block mined in between makes
// it stale.
func (n *Node) SubmitTransaction(tx ledger.Transaction) (uint64, error) {
	if tx.Sender == "" {
		return 0, errors.Wrap(ErrInvalidTransaction, "empty sender")
	}
	if tx.Recipient == "" {
		return 0, errors.Wrap(ErrInvalidTransaction, "empty recipient")
	}

	var index uint64
	err := n.locked(func(l *ledger.Ledger) {
		index = l.AddTransaction(tx)
	})
	return index, err
}

// Mine solves the puzzle for the current last block, pays the node and
// appends a block holding every pending transaction. If another block is
// appended while the puzzle is being solved, the search starts over against
// the new last block.
//
// The search is abandoned when ctx is done, in which case the context error
// is returned as is.
func (n *Node) Mine(ctx context.Context) (ledger.Block, error) {
	for {
		var last ledger.Block
		if err := n.locked(func(l *ledger.Ledger) { last = l.LastBlock() }); err != nil {
			return ledger.Block{}, err
		}

		proof, err := ledger.Search(ctx, last.Proof)
		if err != nil {
			return ledger.Block{}, err
		}

		var (
			mined ledger.Block
			moved bool
		)
		err = n.locked(func(l *ledger.Ledger) {
			if l.Len() != int(last.Index) {
				moved = true
				return
			}
			l.AddTransaction(ledger.NewTransaction(RewardSender, n.id, RewardAmount))
			l.AddBlock(proof)
			mined = l.LastBlock()
			n.publish(mined)
		})
		if err != nil {
			return ledger.Block{}, err
		}
		if !moved {
			return mined, nil
		}
	}
}

func (n *Node) LastBlock() (ledger.Block, error) {
	var b ledger.Block
	err := n.locked(func(l *ledger.Ledger) { b = l.LastBlock() })
	return b, err
}

// Block returns the block with the given 1-based index.
func (n *Node) Block(index uint64) (ledger.Block, error) {
	var (
		b   ledger.Block
		err error
	)
	if lerr := n.locked(func(l *ledger.Ledger) { b, err = l.Block(index) }); lerr != nil {
		return b, lerr
	}
	return b, err
}

// Chain returns a snapshot of the whole chain.
func (n *Node) Chain() ([]ledger.Block, error) {
	var blocks []ledger.Block
	err := n.locked(func(l *ledger.Ledger) { blocks = l.Chain() })
	return blocks, err
}

// LastN returns up to count blocks, newest first.
func (n *Node) LastN(count int) ([]ledger.Block, error) {
	var blocks []ledger.Block
	err := n.locked(func(l *ledger.Ledger) {
		chain := l.Chain()
		for i := len(chain) - 1; i >= 0 && len(blocks) < count; i-- {
			blocks = append(blocks, chain[i])
		}
	})
	return blocks, err
}

func (n *Node) Pending() ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	err := n.locked(func(l *ledger.Ledger) { txs = l.Pending() })
	return txs, err
}

// Verify checks the links of the whole chain.
func (n *Node) Verify() error {
	var err error
	if lerr := n.locked(func(l *ledger.Ledger) { err = l.Verify() }); lerr != nil {
		return lerr
	}
	return err
}
