package ledger

// chain is a sequence of blocks that can never be empty: the genesis block is
// a field rather than an element, so the last block always exists.
type chain struct {
	genesis Block
	rest    []Block
}

func newChain(genesis Block) chain {
	return chain{genesis: genesis}
}

func (c *chain) len() int {
	return 1 + len(c.rest)
}

func (c *chain) last() *Block {
	if n := len(c.rest); n > 0 {
		return &c.rest[n-1]
	}
	return &c.genesis
}

// at returns the block at the zero-based position i. The caller must check
// the bounds.
func (c *chain) at(i int) *Block {
	if i == 0 {
		return &c.genesis
	}
	return &c.rest[i-1]
}

func (c *chain) push(b Block) {
	c.rest = append(c.rest, b)
}
