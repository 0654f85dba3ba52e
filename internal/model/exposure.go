package model

// Exposure is a directed lending relationship between two banks.
type Exposure struct {
	Lender       string
	Borrower     string
	Amount       float64
	InterestRate float64
}
