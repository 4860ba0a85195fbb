package ledger

import (
	"context"
	"strconv"
)

// checkEvery is how many candidates Search tries between context checks.
const checkEvery = 1024

// ValidProof reports whether proof solves the puzzle posed by lastProof: the
// digest of their concatenated decimal forms must start with a zero byte,
// that is its hex form starts with "00".
func ValidProof(lastProof, proof uint64) bool {
	guess := strconv.AppendUint(nil, lastProof, 10)
	guess = strconv.AppendUint(guess, proof, 10)
	d := Sum(guess)
	return d[0] == 0
}

// Solve returns the smallest proof that is valid for lastProof. It searches
// sequentially from 0 and never gives up.
func Solve(lastProof uint64) uint64 {
	var proof uint64
	for !ValidProof(lastProof, proof) {
		proof++
	}
	return proof
}

// Search is Solve that can be abandoned. It returns the context error if ctx
// is done before a proof is found.
func Search(ctx context.Context, lastProof uint64) (uint64, error) {
	for proof := uint64(0); ; proof++ {
		if proof%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if ValidProof(lastProof, proof) {
			return proof, nil
		}
	}
}
