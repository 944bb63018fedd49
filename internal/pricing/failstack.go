package pricing

import (
	"math"

	"github.com/xtding233/enhance-backend/internal/catalog"
)

// Line sources in a FailstackPlan.
const (
	SourceFree    = "free"
	SourcePremium = "premium"
	SourceTiered  = "tiered"
	SourceGap     = "tiered_gap"
	SourceBulk    = "bulk"
)

// FailstackLine is one line item in the plan.
type FailstackLine struct {
	Source    string         `json:"source"`
	Item      catalog.ItemID `json:"item,omitempty"`
	Name      string         `json:"name"`
	Quantity  int            `json:"quantity"`
	UnitPrice int64          `json:"unit_price"`
	FromFS    int            `json:"from_fs"`
	ToFS      int            `json:"to_fs"`
	Subtotal  float64        `json:"subtotal"`
}

// FailstackPlan summarizes the cheapest known way to reach a failstack.
type FailstackPlan struct {
	Target  int             `json:"target"`
	Reached int             `json:"reached"`
	Lines   []FailstackLine `json:"lines"`
	Total   float64         `json:"total"`
}

// FailstackModel prices failstacks from the catalog tiers and a price sheet.
type FailstackModel struct {
	tiers catalog.FailstackTiers
	sheet PriceSheet
	names func(catalog.ItemID) string
}

func NewFailstackModel(cat *catalog.Catalog, sheet PriceSheet) FailstackModel {
	return FailstackModel{tiers: cat.Failstack(), sheet: sheet, names: cat.ItemName}
}

// BuildCost returns the plan for building a fresh stack up to target:
// free allowance, then premium points, then tiered items up to MaxTiered,
// then the bulk item until target or the ceiling.
func (m FailstackModel) BuildCost(target int) FailstackPlan {
	if m.tiers.Ceiling > 0 && target > m.tiers.Ceiling {
		target = m.tiers.Ceiling
	}
	plan := FailstackPlan{Target: target}
	if target <= 0 {
		return plan
	}

	fs := 0
	if n := min(m.tiers.FreePoints, target); n > 0 {
		plan.add(FailstackLine{Source: SourceFree, Name: "Free failstacks", Quantity: n, FromFS: 0, ToFS: n})
		fs = n
	}
	if n := min(m.tiers.PremiumPoints, target-fs); n > 0 {
		plan.add(FailstackLine{
			Source: SourcePremium, Name: "Premium failstacks", Quantity: n,
			UnitPrice: m.tiers.PremiumPrice, FromFS: fs, ToFS: fs + n,
			Subtotal: float64(n) * float64(m.tiers.PremiumPrice),
		})
		fs += n
	}
	if fs < target && fs < m.tiers.MaxTiered && len(m.tiers.Tiered) > 0 {
		fs = m.addTiered(&plan, fs, min(target, m.tiers.MaxTiered))
	}
	if fs < target && len(m.tiers.Yields) > 0 {
		fs = m.addBulk(&plan, fs, target)
	}
	plan.Reached = fs
	return plan
}

func (p *FailstackPlan) add(l FailstackLine) {
	p.Lines = append(p.Lines, l)
	p.Total += l.Subtotal
}

// tierSpan is what the tiered range charges to go from one failstack to another.
type tierSpan struct {
	lines []FailstackLine
	cost  float64
}

func (m FailstackModel) buy(sp *tierSpan, src string, id catalog.ItemID, units, from, to int) {
	if units <= 0 {
		return
	}
	price := m.sheet.Price(id)
	l := FailstackLine{
		Source: src, Item: id, Name: m.name(id), Quantity: units,
		UnitPrice: price, FromFS: from, ToFS: to,
		Subtotal: float64(units) * float64(price),
	}
	sp.lines = append(sp.lines, l)
	sp.cost += l.Subtotal
}

// tieredSpan is the single strategy for the tiered range. The item whose
// checkpoints cover to pays for the points above from: the first item
// (interpolated from the origin), the gap bridge, or the second item, which
// is bought in full from its own table once the stack is below its coverage.
func (m FailstackModel) tieredSpan(from, to int) tierSpan {
	var sp tierSpan
	items := m.tiers.Tiered
	if to <= from || len(items) == 0 {
		return sp
	}
	lower := items[0]
	last := lower.Checkpoints[len(lower.Checkpoints)-1].FS
	lowerUnits := func(a, b int) int {
		return roundUp(interpolateExact(lower.Checkpoints, b, true) - interpolateExact(lower.Checkpoints, a, true))
	}
	switch {
	case to <= last || len(items) == 1:
		m.buy(&sp, SourceTiered, lower.Item, lowerUnits(from, to), from, to)
	case to < items[1].Checkpoints[0].FS:
		if from < last {
			m.buy(&sp, SourceTiered, lower.Item, lowerUnits(from, last), from, last)
		}
		if g := m.tiers.Gap; g != nil {
			m.buy(&sp, SourceGap, g.ExtraItem, g.ExtraUnits, max(from, last), to)
		}
	default:
		upper := items[1]
		have := 0.0
		if from >= upper.Checkpoints[0].FS {
			have = interpolateExact(upper.Checkpoints, from, false)
		}
		m.buy(&sp, SourceTiered, upper.Item, roundUp(interpolateExact(upper.Checkpoints, to, false)-have), from, to)
	}
	return sp
}

// addTiered buys the cheapest span that reaches at least to without leaving
// the tiered range, so a cheaper item covering a higher failstack is used
// instead of a dearer one covering to exactly. It returns the failstack reached.
func (m FailstackModel) addTiered(plan *FailstackPlan, from, to int) int {
	best, reached := m.tieredSpan(from, to), to
	for y := to + 1; y <= m.tiers.MaxTiered; y++ {
		if sp := m.tieredSpan(from, y); sp.cost < best.cost {
			best, reached = sp, y
		}
	}
	for _, l := range best.lines {
		plan.add(l)
	}
	return reached
}

// addBulk consumes bulk units one at a time until target.
func (m FailstackModel) addBulk(plan *FailstackPlan, from, target int) int {
	fs, units := from, 0
	for fs < target {
		fs += m.yieldAt(fs)
		units++
	}
	if m.tiers.Ceiling > 0 && fs > m.tiers.Ceiling {
		fs = m.tiers.Ceiling
	}
	price := m.sheet.Price(m.tiers.BulkItem)
	plan.add(FailstackLine{
		Source: SourceBulk, Item: m.tiers.BulkItem, Name: m.name(m.tiers.BulkItem),
		Quantity: units, UnitPrice: price, FromFS: from, ToFS: fs,
		Subtotal: float64(units) * float64(price),
	})
	return fs
}

// yieldAt is the bulk step function: the last step starting at or below fs.
func (m FailstackModel) yieldAt(fs int) int {
	y := m.tiers.Yields[0].Yield
	for _, s := range m.tiers.Yields {
		if s.From > fs {
			break
		}
		y = s.Yield
	}
	if y < 1 {
		y = 1
	}
	return y
}

func (m FailstackModel) name(id catalog.ItemID) string {
	if m.names == nil {
		return ""
	}
	return m.names(id)
}

// interpolate returns the units needed for fs x on a checkpoint list, rounded
// up. withOrigin adds an implicit (0, 0) point before the first checkpoint.
// Past the last checkpoint the last segment's slope is extended.
func interpolate(cps []catalog.Checkpoint, x int, withOrigin bool) int {
	return roundUp(interpolateExact(cps, x, withOrigin))
}

func interpolateExact(cps []catalog.Checkpoint, x int, withOrigin bool) float64 {
	pts := cps
	if withOrigin {
		pts = append([]catalog.Checkpoint{{FS: 0, Qty: 0}}, cps...)
	}
	if len(pts) == 0 {
		return 0
	}
	if x <= pts[0].FS || len(pts) == 1 {
		return float64(pts[0].Qty)
	}
	i := len(pts) - 2
	for j := 0; j+1 < len(pts); j++ {
		if x <= pts[j+1].FS {
			i = j
			break
		}
	}
	a, b := pts[i], pts[i+1]
	width := b.FS - a.FS
	if width <= 0 {
		return float64(b.Qty)
	}
	perPoint := float64(b.Qty-a.Qty) / float64(width)
	return float64(a.Qty) + perPoint*float64(x-a.FS)
}

// roundUp rounds units up, ignoring float noise below 1e-9.
func roundUp(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Ceil(v - 1e-9))
}
