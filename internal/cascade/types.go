// Package cascade prices a multi-level enhancement plan, including the
// expected cost of climbing back after unprotected downgrades.
package cascade

import (
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/pricing"
)

// DefaultRecoveryDamping scales the recovery multiplier by this factor for
// every rung beyond the immediate predecessor. It is an approximation of the
// infinite regression series, not a property of the game.
const DefaultRecoveryDamping = 0.5

// ProtectionPlan says which steps use protection stones. All wins over PerStep;
// steps past the end of PerStep are unprotected.
type ProtectionPlan struct {
	All     bool   `json:"all,omitempty"`
	PerStep []bool `json:"per_step,omitempty"`
}

// At reports whether step i is explicitly protected.
func (p ProtectionPlan) At(i int) bool {
	if p.All {
		return true
	}
	return i >= 0 && i < len(p.PerStep) && p.PerStep[i]
}

// Options tune what a cascade charges for.
type Options struct {
	Protection                ProtectionPlan         `json:"protection"`
	ProtectionKind            catalog.ProtectionKind `json:"protection_kind,omitempty"`
	IncludeRepair             bool                   `json:"include_repair,omitempty"`
	EfficientRepair           bool                   `json:"efficient_repair,omitempty"`
	IncludeFailstackBuildCost bool                   `json:"include_failstack_build_cost,omitempty"`
	// RecoveryDamping overrides DefaultRecoveryDamping when > 0. Must be <= 1.
	RecoveryDamping float64 `json:"recovery_damping,omitempty"`
}

// Request asks for the cost of going from Start to Target.
type Request struct {
	Family string        `json:"family"`
	Start  catalog.Level `json:"start"`
	Target catalog.Level `json:"target"`
	// Failstacks[i] is the failstack for step i. Missing entries use the
	// level's recommended failstack.
	Failstacks []int          `json:"failstacks,omitempty"`
	Region     catalog.Region `json:"region,omitempty"`
	Options    Options        `json:"options"`
}

// Breakdown splits silver by what it was spent on.
type Breakdown struct {
	Materials  float64 `json:"materials"`
	Protection float64 `json:"protection"`
	Repair     float64 `json:"repair"`
	Failstack  float64 `json:"failstack"`
	Recovery   float64 `json:"recovery"`
}

// Total sums every component.
func (b Breakdown) Total() float64 {
	return b.Materials + b.Protection + b.Repair + b.Failstack + b.Recovery
}

func (b *Breakdown) add(o Breakdown) {
	b.Materials += o.Materials
	b.Protection += o.Protection
	b.Repair += o.Repair
	b.Failstack += o.Failstack
	b.Recovery += o.Recovery
}

// Step is one rung of the cascade.
type Step struct {
	From        catalog.Level `json:"from"`
	To          catalog.Level `json:"to"`
	Failstack   int           `json:"failstack"`
	Chance      float64       `json:"chance"`
	UsedDefault bool          `json:"used_default,omitempty"`

	// Attempts is the expected direct attempt count at this rung.
	Attempts float64 `json:"attempts"`
	// RawAttempts is 100/chance, the geometric mean without failstack feedback.
	RawAttempts float64 `json:"raw_attempts"`
	// RecoveryAttempts are the expected attempts at lower rungs spent
	// climbing back after downgrades. Informational.
	RecoveryAttempts float64 `json:"recovery_attempts"`

	Protected          bool `json:"protected"`
	ImplicitProtection bool `json:"implicit_protection,omitempty"`

	ProtectionStones float64 `json:"protection_stones"`
	RepairUnits      float64 `json:"repair_units"`

	Cost         Breakdown              `json:"cost"`
	StepTotal    float64                `json:"step_total"`
	RunningTotal float64                `json:"running_total"`
	Failstacks   *pricing.FailstackPlan `json:"failstack_plan,omitempty"`
}

// Result is a priced cascade.
type Result struct {
	Family  string         `json:"family"`
	Start   catalog.Level  `json:"start"`
	Target  catalog.Level  `json:"target"`
	Region  catalog.Region `json:"region"`
	Damping float64        `json:"recovery_damping"`

	Steps  []Step    `json:"steps"`
	Totals Breakdown `json:"totals"`

	TotalCost        float64 `json:"total_cost"`
	DirectAttempts   float64 `json:"direct_attempts"`
	TotalAttempts    float64 `json:"total_attempts"`
	ProtectionStones float64 `json:"protection_stones"`
	RepairUnits      float64 `json:"repair_units"`
	UsedDefault      bool    `json:"used_default,omitempty"`
}
