package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/default.yaml
var defaultYAML []byte

// Paths helper for catalog/family override files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/enhance/config; empty means embedded data only
}

func (p Paths) CatalogPath() string {
	return filepath.Join(p.BaseDir, "catalog.yaml")
}
func (p Paths) FamilyDir() string {
	return filepath.Join(p.BaseDir, "families")
}
func (p Paths) FamilyPath(family string) string {
	return filepath.Join(p.FamilyDir(), family+".yaml")
}

// Loader reads YAML configs and merges embedded default → catalog → families.
type Loader struct {
	paths Paths

	mu     sync.RWMutex
	cached *RawConfig
}

// NewLoader creates a config loader with the given override directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{paths: Paths{BaseDir: baseDir}}
}

// Paths returns the override locations this loader reads.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → catalog.yaml → families/*.yaml.
// It returns the merged RawConfig (without validation).
func (l *Loader) LoadMerged() (RawConfig, error) {
	l.mu.RLock()
	if l.cached != nil {
		cfg := *l.cached
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	var defCfg RawConfig
	if err := yaml.Unmarshal(defaultYAML, &defCfg); err != nil {
		return RawConfig{}, fmt.Errorf("parse embedded default: %w", err)
	}
	merged := defCfg

	if l.paths.BaseDir != "" {
		catCfg, err := readYAML(l.paths.CatalogPath()) // catalog file may not exist
		if err != nil {
			return RawConfig{}, fmt.Errorf("read catalog: %w", err)
		}
		merged = mergeRaw(merged, catCfg)

		famFiles, err := filepath.Glob(filepath.Join(l.paths.FamilyDir(), "*.yaml"))
		if err != nil {
			return RawConfig{}, fmt.Errorf("list families: %w", err)
		}
		sort.Strings(famFiles)
		for _, path := range famFiles {
			fam, err := readFamilyYAML(path)
			if err != nil {
				return RawConfig{}, fmt.Errorf("read family %s: %w", filepath.Base(path), err)
			}
			key := strings.TrimSuffix(filepath.Base(path), ".yaml")
			merged = mergeRaw(merged, RawConfig{Families: map[string]FamilyConfig{key: fam}})
		}
	}

	l.mu.Lock()
	c := merged
	l.cached = &c
	l.mu.Unlock()

	return merged, nil
}

// Load merges, validates and normalizes the configuration.
func (l *Loader) Load() (*Catalog, error) {
	raw, err := l.LoadMerged()
	if err != nil {
		return nil, err
	}
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}
	return Build(raw)
}

// Invalidate drops the merged config so the next Load rereads the files.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// LoadDefault builds the catalog from the embedded data only.
func LoadDefault() (*Catalog, error) {
	return NewLoader("").Load()
}

// readYAML decodes an optional override file; a missing file is empty.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

func readFamilyYAML(path string) (FamilyConfig, error) {
	var fam FamilyConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return FamilyConfig{}, err
	}
	if err := yaml.Unmarshal(b, &fam); err != nil {
		return FamilyConfig{}, err
	}
	return fam, nil
}

// mergeRaw overlays b on a. Set fields of b win.
// Maps merge per key; slices (ladders, checkpoints, yields) are replaced whole.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.RepairItem != nil {
		out.RepairItem = b.RepairItem
	}

	if len(b.Items) > 0 {
		items := make(map[int64]string, len(a.Items)+len(b.Items))
		for k, v := range a.Items {
			items[k] = v
		}
		for k, v := range b.Items {
			items[k] = v
		}
		out.Items = items
	}
	if len(b.Protection) > 0 {
		prot := make(map[string]int64, len(a.Protection)+len(b.Protection))
		for k, v := range a.Protection {
			prot[k] = v
		}
		for k, v := range b.Protection {
			prot[k] = v
		}
		out.Protection = prot
	}
	if len(b.Prices) > 0 {
		prices := make(map[string]map[int64]int64, len(a.Prices)+len(b.Prices))
		for region, table := range a.Prices {
			prices[region] = copyPrices(table)
		}
		for region, table := range b.Prices {
			dst, ok := prices[region]
			if !ok {
				dst = make(map[int64]int64, len(table))
				prices[region] = dst
			}
			for id, p := range table {
				dst[id] = p
			}
		}
		out.Prices = prices
	}

	if len(b.Families) > 0 {
		fams := make(map[string]FamilyConfig, len(a.Families)+len(b.Families))
		for k, v := range a.Families {
			fams[k] = v
		}
		for k, v := range b.Families {
			if base, ok := fams[k]; ok {
				fams[k] = mergeFamily(base, v)
			} else {
				fams[k] = v
			}
		}
		out.Families = fams
	}

	switch {
	case out.Failstack == nil && b.Failstack != nil:
		c := *b.Failstack
		out.Failstack = &c
	case out.Failstack != nil && b.Failstack != nil:
		c := *out.Failstack
		if b.Failstack.FreePoints != nil {
			c.FreePoints = b.Failstack.FreePoints
		}
		if b.Failstack.PremiumPoints != nil {
			c.PremiumPoints = b.Failstack.PremiumPoints
		}
		if b.Failstack.PremiumPrice != nil {
			c.PremiumPrice = b.Failstack.PremiumPrice
		}
		if b.Failstack.MaxTiered != nil {
			c.MaxTiered = b.Failstack.MaxTiered
		}
		if b.Failstack.Ceiling != nil {
			c.Ceiling = b.Failstack.Ceiling
		}
		if len(b.Failstack.Tiered) > 0 {
			c.Tiered = append([]TierItemConfig(nil), b.Failstack.Tiered...)
		}
		if b.Failstack.Gap != nil {
			g := *b.Failstack.Gap
			c.Gap = &g
		}
		if b.Failstack.Bulk != nil {
			bk := *b.Failstack.Bulk
			c.Bulk = &bk
		}
		out.Failstack = &c
	}

	return out
}

// mergeFamily overrides family fields; level entries replace the base level whole.
func mergeFamily(a, b FamilyConfig) FamilyConfig {
	out := a
	if b.Name != "" {
		out.Name = b.Name
	}
	if b.Policy != "" {
		out.Policy = b.Policy
	}
	if len(b.Ladder) > 0 {
		out.Ladder = append([]string(nil), b.Ladder...)
	}
	if b.DurabilityLoss != nil {
		out.DurabilityLoss = b.DurabilityLoss
	}
	if b.RepairPerUnit != nil {
		out.RepairPerUnit = b.RepairPerUnit
	}
	if len(b.Levels) > 0 {
		levels := make(map[string]LevelConfig, len(a.Levels)+len(b.Levels))
		for k, v := range a.Levels {
			levels[k] = v
		}
		for k, v := range b.Levels {
			levels[k] = v
		}
		out.Levels = levels
	}
	return out
}

func copyPrices(in map[int64]int64) map[int64]int64 {
	out := make(map[int64]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
