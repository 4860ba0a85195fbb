package node

import (
	"github.com/iov-one/block-ledger/pkg/ledger"
)

// subscriptionBuffer is how many blocks a subscriber may lag behind before it
// is dropped.
const subscriptionBuffer = 64

// Subscription delivers blocks appended to a node. The channel is closed when
// the subscription is closed or when the subscriber fell too far behind; in
// the latter case the subscriber should subscribe again from the next index
// it is missing.
type Subscription struct {
	C <-chan ledger.Block

	c    chan ledger.Block
	node *Node
}

// Subscribe returns every block with an index of at least from, followed by
// a subscription for the blocks appended afterwards. No block is missed or
// repeated between the two.
func (n *Node) Subscribe(from uint64) ([]ledger.Block, *Subscription, error) {
	c := make(chan ledger.Block, subscriptionBuffer)
	sub := &Subscription{C: c, c: c, node: n}

	var backlog []ledger.Block
	err := n.locked(func(l *ledger.Ledger) {
		for _, b := range l.Chain() {
			if b.Index >= from {
				backlog = append(backlog, b)
			}
		}
		n.subs[sub] = struct{}{}
	})
	if err != nil {
		return nil, nil, err
	}
	return backlog, sub, nil
}

// Close stops the delivery. It is safe to call more than once.
func (s *Subscription) Close() {
	s.node.mu.Lock()
	defer s.node.mu.Unlock()
	s.node.unsubscribe(s)
}

// publish must be called with the node lock held.
func (n *Node) publish(b ledger.Block) {
	for sub := range n.subs {
		select {
		case sub.c <- b:
		default:
			n.unsubscribe(sub)
		}
	}
}

// unsubscribe must be called with the node lock held.
func (n *Node) unsubscribe(sub *Subscription) {
	if _, ok := n.subs[sub]; !ok {
		return
	}
	delete(n.subs, sub)
	close(sub.c)
}
