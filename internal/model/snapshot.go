package model

// RiskLabel is the advisory classification attached to a bank each round.
// It colors the dashboard but never feeds back into solvency decisions.
type RiskLabel string

const (
	RiskSafe             RiskLabel = "SAFE"
	RiskUnderCapitalized RiskLabel = "UNDER-CAPITALIZED"
	RiskInsolvent        RiskLabel = "INSOLVENT"
)

// Central counterparty hub rendered alongside the banks.
const (
	CCPNodeID   = "CCP_CORE"
	CCPNodeName = "CCP_PRIME"
)

// LinkType distinguishes interbank exposures from CCP membership spokes.
type LinkType string

const (
	LinkTransaction LinkType = "transaction"
	LinkMembership  LinkType = "membership"
)

// StressLevel annotates a link with its contagion reading.
type StressLevel string

const (
	StressNormal    StressLevel = "Normal"
	StressContagion StressLevel = "Contagion Risk"
	StressStable    StressLevel = "Stable"
)

// SnapshotNode is the wire form of one network node.
type SnapshotNode struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	ActualAssets int64      `json:"actual_assets"`
	Health       float64    `json:"health"`
	Profit       int64      `json:"profit"`
	Val          int        `json:"val"`
	Color        string     `json:"color"`
	MLRiskProb   float64    `json:"ml_risk_prob"`
	RiskLabel    RiskLabel  `json:"risk_label"`
	NashAction   NashAction `json:"nash_action,omitempty"`
	RiskSlope    float64    `json:"risk_slope"`
	Sensitivity  float64    `json:"sensitivity"`
	IsCCP        bool       `json:"is_ccp"`
}

// SnapshotLink is the wire form of one network edge.
type SnapshotLink struct {
	Source string      `json:"source"`
	Target string      `json:"target"`
	Amount float64     `json:"amount"`
	Color  string      `json:"color"`
	Stress StressLevel `json:"stress"`
	Type   LinkType    `json:"type"`
}

// GraphSnapshot is the complete renderable view of the network,
// banks plus the CCP hub and all links.
type GraphSnapshot struct {
	Nodes []SnapshotNode `json:"nodes"`
	Links []SnapshotLink `json:"links"`
}

// RoundStats summarizes one committed round.
type RoundStats struct {
	Active    int              `json:"active"`
	Defaulted int              `json:"defaulted"`
	Stability StabilityMetrics `json:"stability"`
}
