package model

// TxType classifies a clearing house transaction.
type TxType string

const (
	TxLending    TxType = "LENDING"
	TxRepayment  TxType = "REPAYMENT"
	TxMarginCall TxType = "MARGIN_CALL"
)

// TxStatus is the outcome the clearing house assigned to a transaction.
type TxStatus string

const (
	TxCleared  TxStatus = "CLEARED"
	TxFailed   TxStatus = "FAILED"
	TxRejected TxStatus = "REJECTED (RISK)"
	TxPending  TxStatus = "PENDING"
)

// Transaction is a single entry in the central counterparty ledger.
type Transaction struct {
	ID      string   `json:"id"`
	Time    string   `json:"time"`
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Type    TxType   `json:"type"`
	Amount  int64    `json:"amount"`
	Status  TxStatus `json:"status"`
	Penalty int64    `json:"penalty"`
}
