package model

import "strings"

// NodeStatus is the lifecycle state of a bank inside the network.
type NodeStatus string

const (
	StatusActive    NodeStatus = "Active"
	StatusDefaulted NodeStatus = "Defaulted"
)

// NashAction records the strategy adjustment a bank picked in the last round.
type NashAction string

const (
	ActionRiskOn  NashAction = "RISK_ON"
	ActionRiskOff NashAction = "RISK_OFF"
	ActionHold    NashAction = "HOLD"
)

// BankNode is a single institution participating in the interbank network.
type BankNode struct {
	ID           string
	Assets       float64
	CapitalRatio float64
	Strategy     float64
	Status       NodeStatus
	NashAction   NashAction
	LastProfit   float64
	VIPScore     float64
}

// Defaulted reports whether the bank has already failed.
func (b *BankNode) Defaulted() bool {
	return b.Status == StatusDefaulted
}

// DisplayName maps a raw node id to the ticker shown on the wire,
// keeping only the fragment after the last underscore.
func DisplayName(id string) string {
	if i := strings.LastIndex(id, "_"); i >= 0 {
		return "BANK_" + id[i+1:]
	}
	return "BANK_" + id
}
