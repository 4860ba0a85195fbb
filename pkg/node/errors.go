package node

import (
	"github.com/iov-one/weave/errors"
)

var (
	// Node errors start from 2300

	// ErrInvalidTransaction is returned when a submitted transaction is
	// missing a sender or a recipient.
	ErrInvalidTransaction = errors.Register(2300, "invalid transaction")
	// ErrPoisoned is returned by every operation once an earlier operation
	// panicked while holding the ledger.
	ErrPoisoned = errors.Register(2301, "ledger poisoned")
)
