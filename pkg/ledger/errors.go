package ledger

import (
	"github.com/iov-one/weave/errors"
)

var (
	// Ledger errors start from 2200

	// ErrDigestSize is returned when a digest is built from a byte source
	// that is not exactly DigestSize long.
	ErrDigestSize = errors.Register(2200, "invalid digest size")
	// ErrBrokenChain is returned by Verify when the block sequence does not
	// link up.
	ErrBrokenChain = errors.Register(2201, "broken chain")
)
