package pricing

import (
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/enhance"
)

// AttemptOptions selects which optional costs an attempt carries.
type AttemptOptions struct {
	ProtectionKind  catalog.ProtectionKind
	IncludeRepair   bool
	EfficientRepair bool
}

// Attempt is the silver cost of one attempt at a level, split by component.
// Protection is priced whether or not the caller ends up protecting.
type Attempt struct {
	Materials       float64
	Protection      float64
	Repair          float64
	ProtectionCount int
	RepairUnits     int
	HasData         bool // false when the level has no requirement row
}

// Total is materials plus protection plus repair.
func (a Attempt) Total() float64 { return a.Materials + a.Protection + a.Repair }

// Price converts the attempt for the simulator.
func (a Attempt) Price() enhance.AttemptPrice {
	return enhance.AttemptPrice{Materials: a.Materials, Protection: a.Protection, Repair: a.Repair}
}

// AttemptCost prices one attempt of upgrading level l in family f.
func AttemptCost(cat *catalog.Catalog, f *catalog.Family, l catalog.Level, sheet PriceSheet, opts AttemptOptions) Attempt {
	var out Attempt
	if f == nil {
		return out
	}
	if req, ok := f.Requirement(l); ok {
		out.HasData = true
		for _, m := range req.Materials {
			out.Materials += float64(m.Count) * float64(sheet.Price(m.Item))
		}
		out.ProtectionCount = req.ProtectionCount
		kind := opts.ProtectionKind
		if kind == "" {
			kind = catalog.ProtectionStandard
		}
		if cat != nil {
			out.Protection = float64(req.ProtectionCount) * float64(cat.ProtectionPrice(kind))
		}
	}
	if opts.IncludeRepair {
		out.RepairUnits = Repair{PerUnit: f.RepairPerUnit, Efficient: opts.EfficientRepair}.UnitsFor(f.DurabilityLoss)
		if cat != nil {
			out.Repair = float64(out.RepairUnits) * float64(sheet.Price(cat.RepairItem()))
		}
	}
	return out
}
