package cascade

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xtding233/enhance-backend/internal/apperr"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/enhance"
)

// plan is a request checked against the catalog, with defaults filled in.
type plan struct {
	family     *catalog.Family
	startIdx   int
	failstacks []int
	region     catalog.Region
	opts       Options
	damping    float64
}

func (p plan) steps() int { return len(p.failstacks) }

// resolve rejects anything the cascade cannot price. It runs before any
// price lookup.
func resolve(cat *catalog.Catalog, req Request) (plan, error) {
	if cat == nil {
		return plan{}, apperr.New(apperr.CodeConfigurationMissing, "catalog not loaded")
	}
	fam, ok := cat.Family(req.Family)
	if !ok {
		return plan{}, apperr.WithMetadata(apperr.CodeConfigurationMissing,
			fmt.Sprintf("unknown family %q", req.Family), map[string]string{"family": req.Family})
	}
	pair := map[string]string{"family": req.Family, "from": string(req.Start), "to": string(req.Target)}
	si, ok := fam.Index(req.Start)
	if !ok {
		return plan{}, apperr.WithMetadata(apperr.CodeConfigurationMissing,
			fmt.Sprintf("%s: unknown start level %q", req.Family, req.Start), pair)
	}
	ti, ok := fam.Index(req.Target)
	if !ok {
		return plan{}, apperr.WithMetadata(apperr.CodeConfigurationMissing,
			fmt.Sprintf("%s: unknown target level %q", req.Family, req.Target), pair)
	}
	if ti <= si {
		return plan{}, apperr.WithMetadata(apperr.CodeInvalidLadder,
			fmt.Sprintf("%s: invalid level pair %s -> %s, target must be above start", req.Family, req.Start, req.Target), pair)
	}
	steps := ti - si

	if len(req.Failstacks) > steps {
		return plan{}, invalidArg(fmt.Sprintf("%d failstacks given for %d steps %s -> %s", len(req.Failstacks), steps, req.Start, req.Target), pair)
	}
	for i, fs := range req.Failstacks {
		if fs < 0 {
			md := copyMeta(pair)
			md["step"] = strconv.Itoa(i)
			return plan{}, invalidArg(fmt.Sprintf("step %d: negative failstack %d", i, fs), md)
		}
	}
	if len(req.Options.Protection.PerStep) > steps {
		return plan{}, invalidArg(fmt.Sprintf("%d protection flags given for %d steps", len(req.Options.Protection.PerStep), steps), pair)
	}

	opts := req.Options
	switch opts.ProtectionKind {
	case "":
		opts.ProtectionKind = catalog.ProtectionStandard
	case catalog.ProtectionStandard, catalog.ProtectionPremium:
	default:
		return plan{}, invalidArg(fmt.Sprintf("unknown protection kind %q", opts.ProtectionKind), pair)
	}
	damping := opts.RecoveryDamping
	if math.IsNaN(damping) || damping < 0 || damping > 1 {
		return plan{}, invalidArg(fmt.Sprintf("recovery damping %v outside 0..1", damping), pair)
	}
	if damping == 0 {
		damping = DefaultRecoveryDamping
	}

	region, err := resolveRegion(req.Region)
	if err != nil {
		return plan{}, err
	}

	model := enhance.Model{Catalog: cat}
	fss := make([]int, steps)
	for i := range fss {
		if i < len(req.Failstacks) {
			fss[i] = req.Failstacks[i]
			continue
		}
		fss[i] = model.RecommendedFS(req.Family, fam.Ladder[si+i])
	}

	return plan{family: fam, startIdx: si, failstacks: fss, region: region, opts: opts, damping: damping}, nil
}

func resolveRegion(r catalog.Region) (catalog.Region, error) {
	switch r {
	case "":
		return catalog.RegionEU, nil
	case catalog.RegionEU, catalog.RegionNA:
		return r, nil
	default:
		return "", invalidArg(fmt.Sprintf("unknown region %q", r), map[string]string{"region": string(r)})
	}
}

func invalidArg(msg string, md map[string]string) error {
	return apperr.WithMetadata(apperr.CodeInvalidArgument, msg, md)
}

func copyMeta(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

// itemIDs lists every item whose price the plan needs.
func (p plan) itemIDs(cat *catalog.Catalog) []catalog.ItemID {
	var ids []catalog.ItemID
	for i := 0; i < p.steps(); i++ {
		if req, ok := p.family.Requirement(p.family.Ladder[p.startIdx+i]); ok {
			for _, m := range req.Materials {
				ids = append(ids, m.Item)
			}
		}
	}
	if p.opts.IncludeRepair && cat.RepairItem() != 0 {
		ids = append(ids, cat.RepairItem())
	}
	if p.opts.IncludeFailstackBuildCost {
		ids = append(ids, failstackItems(cat)...)
	}
	return ids
}

func failstackItems(cat *catalog.Catalog) []catalog.ItemID {
	tiers := cat.Failstack()
	var ids []catalog.ItemID
	for _, t := range tiers.Tiered {
		ids = append(ids, t.Item)
	}
	if tiers.Gap != nil {
		ids = append(ids, tiers.Gap.ExtraItem)
	}
	if tiers.BulkItem != 0 {
		ids = append(ids, tiers.BulkItem)
	}
	return ids
}
