package main

import (
	"os"
	"strconv"

	"github.com/iov-one/block-ledger/pkg/ledger"
	"github.com/pterm/pterm"
)

// Runs the reference scenario against an in-memory ledger: two transfers,
// two mined blocks, then the chain is printed and verified.
func main() {
	l := ledger.New()

	pterm.DefaultHeader.WithFullWidth().Println("block ledger demo")

	for _, tx := range []ledger.Transaction{
		ledger.NewTransaction("Alice", "Bob", 10),
		ledger.NewTransaction("Charlie", "Bob", 20),
	} {
		index := l.AddTransaction(tx)
		pterm.Info.Printfln("%s -> %s %d will be added to block %d", tx.Sender, tx.Recipient, tx.Amount, index)
	}

	for i := 0; i < 2; i++ {
		mine(l)
	}

	printChain(l.Chain())

	if err := l.Verify(); err != nil {
		pterm.Error.Printfln("chain does not verify: %s", err)
		os.Exit(1)
	}
	pterm.Success.Printfln("chain of %d blocks verified", l.Len())
}

func mine(l *ledger.Ledger) {
	last := l.LastBlock()
	spinner, _ := pterm.DefaultSpinner.Start("Solving the puzzle for block " + strconv.FormatUint(last.Index+1, 10) + " ...")
	proof := ledger.Solve(last.Proof)
	l.AddBlock(proof)
	spinner.Success("Mined block ", l.LastBlock().Index, " with proof ", proof)
}

func printChain(chain []ledger.Block) {
	data := pterm.TableData{{"Index", "Proof", "Previous hash", "Hash", "Transactions"}}
	for _, b := range chain {
		data = append(data, []string{
			strconv.FormatUint(b.Index, 10),
			strconv.FormatUint(b.Proof, 10),
			short(b.PreviousDigest),
			short(b.Digest()),
			strconv.Itoa(len(b.Transactions)),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()

	for _, b := range chain {
		if len(b.Transactions) == 0 {
			continue
		}
		txs := pterm.TableData{{"Sender", "Recipient", "Amount"}}
		for _, tx := range b.Transactions {
			txs = append(txs, []string{tx.Sender, tx.Recipient, strconv.FormatUint(tx.Amount, 10)})
		}
		pterm.DefaultSection.Printfln("Block %d", b.Index)
		_ = pterm.DefaultTable.WithHasHeader().WithData(txs).Render()
	}
}

func short(d ledger.Digest) string {
	return d.String()[:16]
}
