// types.go
package catalog

// Raw config loaded from YAML; every section is optional in override files.
type RawConfig struct {
	Version    string                      `yaml:"version"`
	Notes      string                      `yaml:"notes,omitempty"`
	Items      map[int64]string            `yaml:"items,omitempty"`      // market id -> display name
	Protection map[string]int64            `yaml:"protection,omitempty"` // kind -> unit price
	RepairItem *int64                      `yaml:"repair_item,omitempty"`
	Prices     map[string]map[int64]int64  `yaml:"prices,omitempty"` // region -> id -> silver
	Families   map[string]FamilyConfig     `yaml:"families,omitempty"`
	Failstack  *FailstackConfig            `yaml:"failstack,omitempty"`
}

type FamilyConfig struct {
	Name           string                 `yaml:"name"`
	Policy         string                 `yaml:"policy"` // "capped_linear" | "fixed" | "piecewise_softcap"
	Ladder         []string               `yaml:"ladder,omitempty"`
	DurabilityLoss *int                   `yaml:"durability_loss,omitempty"`
	RepairPerUnit  *int                   `yaml:"repair_per_unit,omitempty"`
	Levels         map[string]LevelConfig `yaml:"levels,omitempty"`
}

type LevelConfig struct {
	Materials     []MaterialConfig `yaml:"materials"`
	Protection    int              `yaml:"protection"` // protection stones per attempt
	BaseChance    float64          `yaml:"base_chance"`
	RecommendedFS *int             `yaml:"recommended_fs,omitempty"`
	Softcap       *CapConfig       `yaml:"softcap,omitempty"` // piecewise_softcap only
	Hardcap       *CapConfig       `yaml:"hardcap,omitempty"`
}

type MaterialConfig struct {
	Item  int64 `yaml:"item"`
	Count int   `yaml:"count"`
}

type CapConfig struct {
	FS     int     `yaml:"fs"`
	Chance float64 `yaml:"chance"`
}

type FailstackConfig struct {
	FreePoints    *int             `yaml:"free_points,omitempty"`
	PremiumPoints *int             `yaml:"premium_points,omitempty"`
	PremiumPrice  *int64           `yaml:"premium_price,omitempty"`
	MaxTiered     *int             `yaml:"max_tiered,omitempty"`
	Ceiling       *int             `yaml:"ceiling,omitempty"`
	Tiered        []TierItemConfig `yaml:"tiered,omitempty"`
	Gap           *GapConfig       `yaml:"gap,omitempty"`
	Bulk          *BulkConfig      `yaml:"bulk,omitempty"`
}

type TierItemConfig struct {
	Item        int64              `yaml:"item"`
	Checkpoints []CheckpointConfig `yaml:"checkpoints"`
}

type CheckpointConfig struct {
	FS  int `yaml:"fs"`
	Qty int `yaml:"qty"`
}

// GapConfig bridges the failstack values between the last checkpoint of the
// first tiered item and the first checkpoint of the second.
type GapConfig struct {
	ExtraItem  int64 `yaml:"extra_item"`
	ExtraUnits int   `yaml:"extra_units"`
}

type BulkConfig struct {
	Item   int64         `yaml:"item"`
	Yields []YieldConfig `yaml:"yields"`
}

type YieldConfig struct {
	From  int `yaml:"from"`
	Yield int `yaml:"yield"`
}

// Normalized reference data used by the engine packages.

type ItemID int64

type Level string

type Region string

const (
	RegionEU Region = "EU"
	RegionNA Region = "NA"
)

type Policy string

const (
	PolicyCappedLinear Policy = "capped_linear"
	PolicyFixed        Policy = "fixed"
	PolicyPiecewise    Policy = "piecewise_softcap"
)

type ProtectionKind string

const (
	ProtectionStandard ProtectionKind = "standard"
	ProtectionPremium  ProtectionKind = "premium"
)

type Item struct {
	ID   ItemID
	Name string
}

type Material struct {
	Item  ItemID
	Count int
}

// CapPoint is one knot of the piecewise chance curve.
type CapPoint struct {
	FS     int
	Chance float64
}

// Curve holds everything the chance model needs for one level.
type Curve struct {
	Policy  Policy
	Base    float64 // percent at failstack 0
	Softcap CapPoint
	Hardcap CapPoint
}

type LevelRequirement struct {
	Level           Level
	Materials       []Material
	ProtectionCount int
	Curve           Curve
	RecommendedFS   int
	HasRecommended  bool
}

type Checkpoint struct {
	FS  int
	Qty int
}

type TierItem struct {
	Item        ItemID
	Checkpoints []Checkpoint // strictly increasing in FS and Qty
}

type GapBridge struct {
	ExtraItem  ItemID
	ExtraUnits int
}

// YieldStep applies Yield to every failstack >= From until the next step.
type YieldStep struct {
	From  int
	Yield int
}

type FailstackTiers struct {
	FreePoints    int
	PremiumPoints int
	PremiumPrice  int64
	MaxTiered     int
	Ceiling       int
	Tiered        []TierItem
	Gap           *GapBridge
	BulkItem      ItemID
	Yields        []YieldStep
}
