package ledger

import (
	"encoding/hex"

	"github.com/iov-one/weave/errors"
	"golang.org/x/crypto/blake2s"
)

// DigestSize is the width of every digest in bytes.
const DigestSize = blake2s.Size

// Digest is a Blake2s-256 hash value. Being an array, it can never be
// partially filled.
type Digest [DigestSize]byte

// ZeroDigest returns the all-zero digest. It denotes "no predecessor" and is
// used only by the genesis block.
func ZeroDigest() Digest {
	return Digest{}
}

// Sum returns the Blake2s-256 digest of data.
func Sum(data []byte) Digest {
	return Digest(blake2s.Sum256(data))
}

// DigestFromBytes builds a digest from exactly DigestSize bytes. Any other
// length returns ErrDigestSize.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestSize {
		return d, errors.Wrapf(ErrDigestSize, "got %d bytes, want %d", len(b), DigestSize)
	}
	copy(d[:], b)
	return d, nil
}

// ParseDigest decodes the lowercase (or uppercase) hex form of a digest.
func ParseDigest(s string) (Digest, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, errors.Wrap(ErrDigestSize, err.Error())
	}
	return DigestFromBytes(raw)
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the 64 character lowercase hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
