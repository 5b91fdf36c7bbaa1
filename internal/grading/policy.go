package grading

// Policy holds the part-two scoring weights. Two revisions of the test used
// different weights (bonus x1 vs x2, partial credit present or not), so all
// of them are named configuration rather than inline constants.
type Policy struct {
	// FullCreditPoints is awarded when every required item of a scenario was
	// selected. It is also the scenario's contribution to the denominator;
	// bonuses are deliberately excluded from the target so the percentage
	// stays bounded near 100.
	FullCreditPoints int `yaml:"fullCreditPoints"`
	// PartialCreditPoints is awarded when exactly one required item was
	// missed. Set PartialCreditEnabled to false for the strict
	// all-or-nothing revision.
	PartialCreditPoints  int  `yaml:"partialCreditPoints"`
	PartialCreditEnabled bool `yaml:"partialCreditEnabled"`
	// BonusPerOptional is added for each optional item selected.
	BonusPerOptional int `yaml:"bonusPerOptional"`
	// DeductionPerUnlikely is subtracted for each unlikely item selected.
	// Deductions can push a total below zero; totals are never clamped.
	DeductionPerUnlikely int `yaml:"deductionPerUnlikely"`
}

// DefaultPolicy returns the current test revision's weights.
func DefaultPolicy() Policy {
	return Policy{
		FullCreditPoints:     10,
		PartialCreditPoints:  6,
		PartialCreditEnabled: true,
		BonusPerOptional:     1,
		DeductionPerUnlikely: 1,
	}
}
