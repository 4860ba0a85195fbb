package ledger

// Transaction moves Amount from Sender to Recipient. Nothing about it is
// validated by the ledger.
type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

func NewTransaction(sender, recipient string, amount uint64) Transaction {
	return Transaction{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}
