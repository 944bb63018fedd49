package catalog

import (
	"fmt"
	"sort"
)

// DefaultCurve is substituted when a family or level has no rate data.
var DefaultCurve = Curve{
	Policy:  PolicyCappedLinear,
	Base:    2,
	Softcap: CapPoint{FS: 100, Chance: 40},
	Hardcap: CapPoint{FS: 220, Chance: 90},
}

// DefaultRecommendedFS pairs with DefaultCurve.
const DefaultRecommendedFS = 50

// Family is one gear family: its ladder, chance policy and per-level requirements.
type Family struct {
	Key            string
	Name           string
	Policy         Policy
	Ladder         []Level
	DurabilityLoss int
	RepairPerUnit  int

	index  map[Level]int
	levels map[Level]LevelRequirement
}

// Index returns the ladder position of l.
func (f *Family) Index(l Level) (int, bool) {
	i, ok := f.index[l]
	return i, ok
}

// Requirement returns the data for upgrading from l to the next rung.
func (f *Family) Requirement(l Level) (LevelRequirement, bool) {
	r, ok := f.levels[l]
	return r, ok
}

// Terminal is the last rung; nothing upgrades beyond it.
func (f *Family) Terminal() Level {
	return f.Ladder[len(f.Ladder)-1]
}

// Next returns the rung above l.
func (f *Family) Next(l Level) (Level, bool) {
	i, ok := f.index[l]
	if !ok || i+1 >= len(f.Ladder) {
		return "", false
	}
	return f.Ladder[i+1], true
}

// CurveFor returns the chance curve of level l, or the default curve if the
// level has no data. The family policy is kept on the fallback except for
// piecewise, which needs the default knots.
func (f *Family) CurveFor(l Level) (Curve, bool) {
	if r, ok := f.levels[l]; ok {
		return r.Curve, true
	}
	c := DefaultCurve
	if f.Policy != "" {
		c.Policy = f.Policy
	}
	return c, false
}

// Catalog is the immutable, validated reference data.
type Catalog struct {
	Version string

	items      map[ItemID]Item
	families   map[string]*Family
	order      []string
	protection map[ProtectionKind]int64
	repairItem ItemID
	prices     map[Region]map[ItemID]int64
	failstack  FailstackTiers
}

// Build normalizes a validated RawConfig.
func Build(raw RawConfig) (*Catalog, error) {
	c := &Catalog{
		Version:    raw.Version,
		items:      make(map[ItemID]Item, len(raw.Items)),
		families:   make(map[string]*Family, len(raw.Families)),
		protection: make(map[ProtectionKind]int64, len(raw.Protection)),
		prices:     make(map[Region]map[ItemID]int64, len(raw.Prices)),
	}
	for id, name := range raw.Items {
		c.items[ItemID(id)] = Item{ID: ItemID(id), Name: name}
	}
	for kind, p := range raw.Protection {
		c.protection[ProtectionKind(kind)] = p
	}
	if raw.RepairItem != nil {
		c.repairItem = ItemID(*raw.RepairItem)
	}
	for region, table := range raw.Prices {
		dst := make(map[ItemID]int64, len(table))
		for id, p := range table {
			dst[ItemID(id)] = p
		}
		c.prices[Region(region)] = dst
	}

	for key, fc := range raw.Families {
		fam, err := buildFamily(key, fc)
		if err != nil {
			return nil, err
		}
		c.families[key] = fam
		c.order = append(c.order, key)
	}
	sort.Strings(c.order)

	if raw.Failstack == nil {
		return nil, fmt.Errorf("build catalog: missing failstack section")
	}
	c.failstack = buildFailstack(*raw.Failstack)
	return c, nil
}

func buildFamily(key string, fc FamilyConfig) (*Family, error) {
	if len(fc.Ladder) == 0 {
		return nil, fmt.Errorf("build family %s: empty ladder", key)
	}
	f := &Family{
		Key:           key,
		Name:          fc.Name,
		Policy:        Policy(fc.Policy),
		RepairPerUnit: 1,
		index:         make(map[Level]int, len(fc.Ladder)),
		levels:        make(map[Level]LevelRequirement, len(fc.Levels)),
	}
	if f.Name == "" {
		f.Name = key
	}
	if fc.DurabilityLoss != nil {
		f.DurabilityLoss = *fc.DurabilityLoss
	}
	if fc.RepairPerUnit != nil {
		f.RepairPerUnit = *fc.RepairPerUnit
	}
	for i, l := range fc.Ladder {
		f.Ladder = append(f.Ladder, Level(l))
		f.index[Level(l)] = i
	}
	for name, lc := range fc.Levels {
		req := LevelRequirement{
			Level:           Level(name),
			ProtectionCount: lc.Protection,
			Curve:           Curve{Policy: f.Policy, Base: lc.BaseChance},
		}
		for _, m := range lc.Materials {
			req.Materials = append(req.Materials, Material{Item: ItemID(m.Item), Count: m.Count})
		}
		if lc.RecommendedFS != nil {
			req.RecommendedFS = *lc.RecommendedFS
			req.HasRecommended = true
		}
		if lc.Softcap != nil {
			req.Curve.Softcap = CapPoint{FS: lc.Softcap.FS, Chance: lc.Softcap.Chance}
		}
		if lc.Hardcap != nil {
			req.Curve.Hardcap = CapPoint{FS: lc.Hardcap.FS, Chance: lc.Hardcap.Chance}
		}
		f.levels[Level(name)] = req
	}
	return f, nil
}

func buildFailstack(fc FailstackConfig) FailstackTiers {
	t := FailstackTiers{}
	if fc.FreePoints != nil {
		t.FreePoints = *fc.FreePoints
	}
	if fc.PremiumPoints != nil {
		t.PremiumPoints = *fc.PremiumPoints
	}
	if fc.PremiumPrice != nil {
		t.PremiumPrice = *fc.PremiumPrice
	}
	if fc.MaxTiered != nil {
		t.MaxTiered = *fc.MaxTiered
	}
	if fc.Ceiling != nil {
		t.Ceiling = *fc.Ceiling
	}
	for _, ti := range fc.Tiered {
		item := TierItem{Item: ItemID(ti.Item)}
		for _, cp := range ti.Checkpoints {
			item.Checkpoints = append(item.Checkpoints, Checkpoint{FS: cp.FS, Qty: cp.Qty})
		}
		t.Tiered = append(t.Tiered, item)
	}
	if fc.Gap != nil {
		t.Gap = &GapBridge{ExtraItem: ItemID(fc.Gap.ExtraItem), ExtraUnits: fc.Gap.ExtraUnits}
	}
	if fc.Bulk != nil {
		t.BulkItem = ItemID(fc.Bulk.Item)
		for _, y := range fc.Bulk.Yields {
			t.Yields = append(t.Yields, YieldStep{From: y.From, Yield: y.Yield})
		}
	}
	return t
}

// Family looks up a gear family by key.
func (c *Catalog) Family(key string) (*Family, bool) {
	f, ok := c.families[key]
	return f, ok
}

// Families returns every family sorted by key.
func (c *Catalog) Families() []*Family {
	out := make([]*Family, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.families[k])
	}
	return out
}

// ItemName returns the display name, or a placeholder for unknown ids.
func (c *Catalog) ItemName(id ItemID) string {
	if it, ok := c.items[id]; ok {
		return it.Name
	}
	return fmt.Sprintf("Item ID %d", id)
}

// ProtectionPrice is the unit price of one protection stone of the given kind.
// Unknown kinds fall back to the standard price.
func (c *Catalog) ProtectionPrice(kind ProtectionKind) int64 {
	if p, ok := c.protection[kind]; ok {
		return p
	}
	return c.protection[ProtectionStandard]
}

// RepairItem is the durability-repair consumable.
func (c *Catalog) RepairItem() ItemID { return c.repairItem }

// DefaultPrice is the configured fallback price for id in region.
func (c *Catalog) DefaultPrice(region Region, id ItemID) (int64, bool) {
	p, ok := c.prices[region][id]
	return p, ok
}

// Failstack returns the failstack build tiers.
func (c *Catalog) Failstack() FailstackTiers { return c.failstack }

// ItemIDs lists every item the catalog references, sorted.
func (c *Catalog) ItemIDs() []ItemID {
	set := make(map[ItemID]struct{})
	for id := range c.items {
		set[id] = struct{}{}
	}
	for _, f := range c.families {
		for _, r := range f.levels {
			for _, m := range r.Materials {
				set[m.Item] = struct{}{}
			}
		}
	}
	if c.repairItem != 0 {
		set[c.repairItem] = struct{}{}
	}
	for _, t := range c.failstack.Tiered {
		set[t.Item] = struct{}{}
	}
	if c.failstack.BulkItem != 0 {
		set[c.failstack.BulkItem] = struct{}{}
	}
	ids := make([]ItemID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
