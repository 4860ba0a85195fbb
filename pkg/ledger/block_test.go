package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBlock() Block {
	return Block{
		Index:     3,
		Timestamp: 1700000000,
		Transactions: []Transaction{
			NewTransaction("Alice", "Bob", 10),
			NewTransaction("Charlie", "Bob", 20),
		},
		Proof:          7,
		PreviousDigest: Sum([]byte("previous")),
	}
}

func TestBlockDigestDeterministic(t *testing.T) {
	b := sampleBlock()
	assert.Equal(t, b.Digest(), b.Digest())
	assert.Equal(t, b.Digest(), sampleBlock().Digest())
}

func TestBlockDigestChangesWithEveryField(t *testing.T) {
	base := sampleBlock().Digest()

	mutations := map[string]func(b *Block){
		"index":           func(b *Block) { b.Index++ },
		"timestamp":       func(b *Block) { b.Timestamp++ },
		"proof":           func(b *Block) { b.Proof++ },
		"previous digest": func(b *Block) { b.PreviousDigest[31] ^= 1 },
		"drop tx":         func(b *Block) { b.Transactions = b.Transactions[:1] },
		"no txs":          func(b *Block) { b.Transactions = nil },
		"swap txs":        func(b *Block) { b.Transactions[0], b.Transactions[1] = b.Transactions[1], b.Transactions[0] },
		"sender":          func(b *Block) { b.Transactions[0].Sender = "Alicia" },
		"recipient":       func(b *Block) { b.Transactions[1].Recipient = "Bobby" },
		"amount":          func(b *Block) { b.Transactions[0].Amount = 11 },
		// Without length prefixes these two would encode the same bytes.
		"shifted boundary": func(b *Block) {
			b.Transactions[0].Sender = "AliceB"
			b.Transactions[0].Recipient = "ob"
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			b := sampleBlock()
			mutate(&b)
			assert.NotEqual(t, base, b.Digest())
		})
	}
}

func TestBlockCanonicalEncoding(t *testing.T) {
	b := Block{
		Index:        1,
		Timestamp:    0,
		Transactions: []Transaction{NewTransaction("a", "bc", 5)},
		Proof:        42,
	}
	want := []byte{
		0, 0, 0, 0, 0, 0, 0, 1, // index
		0, 0, 0, 0, 0, 0, 0, 0, // timestamp
		0, 0, 0, 0, 0, 0, 0, 1, // tx count
		0, 0, 0, 0, 0, 0, 0, 1, 'a',
		0, 0, 0, 0, 0, 0, 0, 2, 'b', 'c',
		0, 0, 0, 0, 0, 0, 0, 5, // amount
		0, 0, 0, 0, 0, 0, 0, 42, // proof
	}
	want = append(want, make([]byte, DigestSize)...)
	assert.Equal(t, want, b.appendCanonical(nil))
	assert.Equal(t, Sum(want), b.Digest())
}
