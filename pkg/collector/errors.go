package collector

import (
	"github.com/iov-one/weave/errors"
)

var (
	// Collector errors start from 2100

	// ErrFeedClosed is returned when the ledger closes the block feed. The
	// caller should dial again from the next missing index.
	ErrFeedClosed = errors.Register(2100, "feed closed")
	// ErrInvalidBlock is returned when a received block does not continue
	// the archived chain.
	ErrInvalidBlock = errors.Register(2101, "invalid block")
)
