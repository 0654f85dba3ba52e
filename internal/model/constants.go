package model

// Solvency thresholds shared across the engine, the clearing house and the
// risk tracker. Values are calibrated for a 15 node fortress economy where
// banks start with capital ratios well above both lines.
const (
	// BaselRequirement is the capital ratio below which a bank counts as
	// under-capitalized.
	BaselRequirement = 12.0

	// InsolvencyLimit is the capital ratio at or below which a bank fails.
	InsolvencyLimit = 5.0
)
