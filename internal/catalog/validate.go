package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	if len(cfg.Families) == 0 {
		errs = append(errs, "families must not be empty")
	}
	keys := make([]string, 0, len(cfg.Families))
	for k := range cfg.Families {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		errs = append(errs, validateFamily(key, cfg.Families[key])...)
	}

	// protection
	if _, ok := cfg.Protection[string(ProtectionStandard)]; !ok {
		errs = append(errs, "protection.standard is required")
	}
	for kind, p := range cfg.Protection {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("protection.%s must be >= 0", kind))
		}
	}

	// prices
	for region, table := range cfg.Prices {
		for id, p := range table {
			if p < 0 {
				errs = append(errs, fmt.Sprintf("prices.%s.%d must be >= 0", region, id))
			}
		}
	}

	if cfg.Failstack == nil {
		errs = append(errs, "failstack section is required")
	} else {
		errs = append(errs, validateFailstack(*cfg.Failstack)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateFamily(key string, f FamilyConfig) []string {
	var errs []string
	prefix := "families." + key

	switch Policy(f.Policy) {
	case PolicyCappedLinear, PolicyFixed, PolicyPiecewise:
	default:
		errs = append(errs, prefix+".policy must be one of: capped_linear, fixed, piecewise_softcap")
	}

	if len(f.Ladder) < 2 {
		errs = append(errs, prefix+".ladder must have at least 2 levels")
	}
	seen := make(map[string]bool, len(f.Ladder))
	for _, l := range f.Ladder {
		if seen[l] {
			errs = append(errs, fmt.Sprintf("%s.ladder has duplicate level %q", prefix, l))
		}
		seen[l] = true
	}

	if f.DurabilityLoss != nil && *f.DurabilityLoss < 0 {
		errs = append(errs, prefix+".durability_loss must be >= 0")
	}
	if f.RepairPerUnit != nil && *f.RepairPerUnit <= 0 {
		errs = append(errs, prefix+".repair_per_unit must be >= 1")
	}

	if len(f.Ladder) > 0 {
		terminal := f.Ladder[len(f.Ladder)-1]
		if _, ok := f.Levels[terminal]; ok {
			errs = append(errs, fmt.Sprintf("%s.levels.%s: terminal level cannot have a requirement", prefix, terminal))
		}
	}

	names := make([]string, 0, len(f.Levels))
	for name := range f.Levels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lv := f.Levels[name]
		lp := prefix + ".levels." + name
		if !seen[name] {
			errs = append(errs, lp+" is not on the ladder")
		}
		if !(lv.BaseChance > 0 && lv.BaseChance <= 100) {
			errs = append(errs, lp+".base_chance must be in (0,100]")
		}
		if lv.Protection < 0 {
			errs = append(errs, lp+".protection must be >= 0")
		}
		if lv.RecommendedFS != nil && *lv.RecommendedFS < 0 {
			errs = append(errs, lp+".recommended_fs must be >= 0")
		}
		for i, m := range lv.Materials {
			if m.Count <= 0 {
				errs = append(errs, fmt.Sprintf("%s.materials[%d].count must be >= 1", lp, i))
			}
		}
		if Policy(f.Policy) == PolicyPiecewise {
			switch {
			case lv.Softcap == nil || lv.Hardcap == nil:
				errs = append(errs, lp+": softcap and hardcap are required for policy=piecewise_softcap")
			default:
				if lv.Softcap.FS < 0 || lv.Hardcap.FS <= lv.Softcap.FS {
					errs = append(errs, lp+": must satisfy 0 <= softcap.fs < hardcap.fs")
				}
				if lv.Softcap.Chance < lv.BaseChance || lv.Hardcap.Chance < lv.Softcap.Chance || lv.Hardcap.Chance > 100 {
					errs = append(errs, lp+": must satisfy base_chance <= softcap.chance <= hardcap.chance <= 100")
				}
			}
		}
	}
	return errs
}

func validateFailstack(fs FailstackConfig) []string {
	var errs []string

	if fs.FreePoints != nil && *fs.FreePoints < 0 {
		errs = append(errs, "failstack.free_points must be >= 0")
	}
	if fs.PremiumPoints != nil && *fs.PremiumPoints < 0 {
		errs = append(errs, "failstack.premium_points must be >= 0")
	}
	if fs.PremiumPrice != nil && *fs.PremiumPrice < 0 {
		errs = append(errs, "failstack.premium_price must be >= 0")
	}
	if fs.MaxTiered == nil || *fs.MaxTiered <= 0 {
		errs = append(errs, "failstack.max_tiered must be >= 1")
	}
	if fs.Ceiling == nil || (fs.MaxTiered != nil && *fs.Ceiling < *fs.MaxTiered) {
		errs = append(errs, "failstack.ceiling is required and must be >= max_tiered")
	}

	if len(fs.Tiered) == 0 || len(fs.Tiered) > 2 {
		errs = append(errs, "failstack.tiered must list 1 or 2 items")
	}
	for i, t := range fs.Tiered {
		if len(t.Checkpoints) == 0 {
			errs = append(errs, fmt.Sprintf("failstack.tiered[%d].checkpoints must not be empty", i))
			continue
		}
		prev := CheckpointConfig{}
		for j, c := range t.Checkpoints {
			// checkpoints are strictly increasing in both failstack and quantity
			if c.FS <= prev.FS || c.Qty <= prev.Qty {
				errs = append(errs, fmt.Sprintf("failstack.tiered[%d].checkpoints[%d] must be strictly increasing in fs and qty", i, j))
			}
			prev = c
		}
	}
	if len(fs.Tiered) == 2 && len(fs.Tiered[0].Checkpoints) > 0 && len(fs.Tiered[1].Checkpoints) > 0 {
		last := fs.Tiered[0].Checkpoints[len(fs.Tiered[0].Checkpoints)-1]
		first := fs.Tiered[1].Checkpoints[0]
		if first.FS <= last.FS {
			errs = append(errs, "failstack.tiered[1] must start above the last checkpoint of tiered[0]")
		}
		if first.FS > last.FS+1 && fs.Gap == nil {
			errs = append(errs, "failstack.gap is required when tiered items leave a gap")
		}
	}
	if fs.Gap != nil && fs.Gap.ExtraUnits < 0 {
		errs = append(errs, "failstack.gap.extra_units must be >= 0")
	}

	if fs.Bulk == nil || len(fs.Bulk.Yields) == 0 {
		errs = append(errs, "failstack.bulk.yields must not be empty")
	} else {
		for i, y := range fs.Bulk.Yields {
			if y.Yield <= 0 {
				errs = append(errs, fmt.Sprintf("failstack.bulk.yields[%d].yield must be >= 1", i))
			}
			if i > 0 {
				p := fs.Bulk.Yields[i-1]
				if y.From <= p.From || y.Yield >= p.Yield {
					errs = append(errs, fmt.Sprintf("failstack.bulk.yields[%d] must increase in from and decrease in yield", i))
				}
			}
		}
		if fs.MaxTiered != nil && fs.Bulk.Yields[0].From > *fs.MaxTiered {
			errs = append(errs, "failstack.bulk.yields[0].from must be <= max_tiered")
		}
	}

	return errs
}
