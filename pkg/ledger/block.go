package ledger

import (
	"encoding/binary"
)

// Block is a single link of the chain. Once appended to a ledger a block is
// never modified, and its digest is recomputed from the fields on demand.
type Block struct {
	Index          uint64        `json:"index"`
	Timestamp      int64         `json:"timestamp"`
	Transactions   []Transaction `json:"transactions"`
	Proof          uint64        `json:"proof"`
	PreviousDigest Digest        `json:"previous_hash"`
}

// Digest returns the Blake2s-256 digest of the canonical block encoding.
func (b Block) Digest() Digest {
	return Sum(b.appendCanonical(nil))
}

// appendCanonical appends the canonical binary form of the block to buf.
//
// Layout, all integers big-endian:
//	index u64 | timestamp i64 | tx count u64 |
//	per tx: sender len u64, sender | recipient len u64, recipient | amount u64 |
//	proof u64 | previous digest (32 bytes)
func (b Block) appendCanonical(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint64(buf, b.Index)
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Timestamp))
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		buf = appendString(buf, tx.Sender)
		buf = appendString(buf, tx.Recipient)
		buf = binary.BigEndian.AppendUint64(buf, tx.Amount)
	}
	buf = binary.BigEndian.AppendUint64(buf, b.Proof)
	return append(buf, b.PreviousDigest[:]...)
}

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(s)))
	return append(buf, s...)
}

// clone returns a copy that does not share the transaction slice.
func (b Block) clone() Block {
	if b.Transactions != nil {
		b.Transactions = append([]Transaction(nil), b.Transactions...)
	}
	return b
}
