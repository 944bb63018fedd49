package pricing

// EfficientBatch is how many repair units one efficient repair replaces.
const EfficientBatch = 5

// Repair defines how durability loss converts into repair-item units.
type Repair struct {
	PerUnit   int  // durability restored per unit; <= 0 means 1
	Efficient bool // batch units EfficientBatch:1, remainder kept
}

// UnitsFor returns how many repair units restore loss durability.
func (r Repair) UnitsFor(loss int) int {
	if loss <= 0 {
		return 0
	}
	per := r.PerUnit
	if per <= 0 {
		per = 1
	}
	units := (loss + per - 1) / per
	if r.Efficient {
		return units/EfficientBatch + units%EfficientBatch
	}
	return units
}
