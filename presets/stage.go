package presets

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/reactorsim/common"
	"gopkg.in/yaml.v3"
)

// StageCount is the number of narrative stages in a table.
const StageCount = 6

var ErrInvalidPreset = errors.New("presets: invalid preset")

// StagePreset is one stage's simulation parameters. Values are copied out
// of a Table; nothing in the simulation holds a pointer into it.
type StagePreset struct {
	Title       string
	Time        string
	Description string

	// BlastEnergy is the base outward speed.
	BlastEnergy float64
	// Drag is the per-second velocity decay fraction.
	Drag         float64
	Buoyancy     float64
	AnisotropyUp float64
	AnisotropyXZ float64
	Wind         mgl64.Vec3
	ThermalDecay float64
	// VerticalBias mixes |dir.y| (always up) with the signed dir.y.
	VerticalBias float64
	Count        int
	// Heat drives the core glow only.
	Heat   float64
	ColorA color.NRGBA
	ColorB color.NRGBA
}

// Table is an ordered, read-only list of stage presets.
type Table struct {
	stages []StagePreset
}

// Default returns the table embedded in the binary.
var Default = sync.OnceValue(func() *Table {
	data, err := PresetsFS.ReadFile(DefaultFile)
	if err != nil {
		panic("presets: read embedded " + DefaultFile + ": " + err.Error())
	}
	t, err := ParseTable(DefaultFile, data)
	if err != nil {
		panic("presets: embedded " + DefaultFile + ": " + err.Error())
	}
	return t
})

// LoadTable loads a table from path. An empty path loads presets/stages.yaml
// from disk when present and falls back to the embedded copy.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		spec, err := LoadSpec[TableSpec](DefaultFile)
		if err != nil {
			return nil, err
		}
		return NewTable(spec)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("presets: load %s: %w", path, err)
	}
	return ParseTable(path, data)
}

// ParseTable decodes and validates YAML table data.
func ParseTable(name string, data []byte) (*Table, error) {
	spec, err := DecodeSpec[TableSpec](name, data)
	if err != nil {
		return nil, err
	}
	t, err := NewTable(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// NewTable validates spec and builds a table from it.
func NewTable(spec TableSpec) (*Table, error) {
	if len(spec.Stages) != StageCount {
		return nil, fmt.Errorf("%w: want %d stages, got %d", ErrInvalidPreset, StageCount, len(spec.Stages))
	}
	stages := make([]StagePreset, 0, len(spec.Stages))
	for i, s := range spec.Stages {
		p, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, s.Title, err)
		}
		stages = append(stages, p)
	}
	return &Table{stages: stages}, nil
}

func (s StageSpec) build() (StagePreset, error) {
	for name, v := range map[string]float64{
		"blast_energy":  s.BlastEnergy,
		"drag":          s.Drag,
		"buoyancy":      s.Buoyancy,
		"anisotropy_up": s.AnisotropyUp,
		"anisotropy_xz": s.AnisotropyXZ,
		"thermal_decay": s.ThermalDecay,
		"vertical_bias": s.VerticalBias,
		"heat":          s.Heat,
		"wind.x":        s.Wind.X(),
		"wind.y":        s.Wind.Y(),
		"wind.z":        s.Wind.Z(),
	} {
		if !common.Finite(v) {
			return StagePreset{}, fmt.Errorf("%w: %s is not finite", ErrInvalidPreset, name)
		}
	}
	switch {
	case s.BlastEnergy < 0:
		return StagePreset{}, fmt.Errorf("%w: blast_energy %v < 0", ErrInvalidPreset, s.BlastEnergy)
	case s.Drag < 0 || s.Drag >= 1:
		return StagePreset{}, fmt.Errorf("%w: drag %v outside [0,1)", ErrInvalidPreset, s.Drag)
	case s.ThermalDecay < 0:
		return StagePreset{}, fmt.Errorf("%w: thermal_decay %v < 0", ErrInvalidPreset, s.ThermalDecay)
	case s.VerticalBias < 0 || s.VerticalBias > 1:
		return StagePreset{}, fmt.Errorf("%w: vertical_bias %v outside [0,1]", ErrInvalidPreset, s.VerticalBias)
	case s.Count <= 0:
		return StagePreset{}, fmt.Errorf("%w: count %d must be positive", ErrInvalidPreset, s.Count)
	case len(s.Colors) != 2:
		return StagePreset{}, fmt.Errorf("%w: want 2 colors, got %d", ErrInvalidPreset, len(s.Colors))
	}

	return StagePreset{
		Title:        s.Title,
		Time:         s.Time,
		Description:  s.Description,
		BlastEnergy:  s.BlastEnergy,
		Drag:         s.Drag,
		Buoyancy:     s.Buoyancy,
		AnisotropyUp: s.AnisotropyUp,
		AnisotropyXZ: s.AnisotropyXZ,
		Wind:         s.Wind.Vec3,
		ThermalDecay: s.ThermalDecay,
		VerticalBias: s.VerticalBias,
		Count:        s.Count,
		Heat:         s.Heat,
		ColorA:       s.Colors[0].NRGBA,
		ColorB:       s.Colors[1].NRGBA,
	}, nil
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.stages)
}

// ClampIndex maps any integer onto a valid stage index.
func (t *Table) ClampIndex(i int) int {
	n := t.Len()
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// At returns a copy of the preset at the clamped index.
func (t *Table) At(i int) StagePreset {
	if t.Len() == 0 {
		return StagePreset{}
	}
	return t.stages[t.ClampIndex(i)]
}

// All returns a copy of every preset in order.
func (t *Table) All() []StagePreset {
	if t == nil {
		return nil
	}
	return append([]StagePreset(nil), t.stages...)
}

// Spec converts the table back to its file layout.
func (t *Table) Spec() TableSpec {
	spec := TableSpec{Stages: make([]StageSpec, 0, t.Len())}
	for _, p := range t.All() {
		spec.Stages = append(spec.Stages, SpecFor(p))
	}
	return spec
}

// SpecFor converts one preset to its file layout.
func SpecFor(p StagePreset) StageSpec {
	return StageSpec{
		Title:        p.Title,
		Time:         p.Time,
		Description:  p.Description,
		BlastEnergy:  p.BlastEnergy,
		Drag:         p.Drag,
		Buoyancy:     p.Buoyancy,
		AnisotropyUp: p.AnisotropyUp,
		AnisotropyXZ: p.AnisotropyXZ,
		Wind:         YAMLVec3{p.Wind},
		ThermalDecay: p.ThermalDecay,
		VerticalBias: p.VerticalBias,
		Count:        p.Count,
		Heat:         p.Heat,
		Colors:       []YAMLColor{{p.ColorA}, {p.ColorB}},
	}
}

// MarshalStage encodes a single preset as one YAML list entry, ready to
// paste into a stages file.
func MarshalStage(p StagePreset) ([]byte, error) {
	return yaml.Marshal([]StageSpec{SpecFor(p)})
}

// Marshal encodes the table as YAML.
func (t *Table) Marshal() ([]byte, error) {
	return yaml.Marshal(t.Spec())
}

const (
	MinEnergyScale = 0.2
	MaxEnergyScale = 3.0
	MinDragOffset  = -0.1
	MaxDragOffset  = 0.2
)

// Overrides are the user-tunable knobs layered over the active preset.
type Overrides struct {
	EnergyScale float64
	DragOffset  float64
}

func DefaultOverrides() Overrides {
	return Overrides{EnergyScale: 1}
}

// Clamped returns o limited to the supported ranges. A zero or non-finite
// scale is treated as 1.
func (o Overrides) Clamped() Overrides {
	if o.EnergyScale == 0 || !common.Finite(o.EnergyScale) {
		o.EnergyScale = 1
	}
	if !common.Finite(o.DragOffset) {
		o.DragOffset = 0
	}
	o.EnergyScale = cp.Clamp(o.EnergyScale, MinEnergyScale, MaxEnergyScale)
	o.DragOffset = cp.Clamp(o.DragOffset, MinDragOffset, MaxDragOffset)
	return o
}

// Apply returns p with the overrides layered on. Drag never goes below 0
// or reaches 1.
func (o Overrides) Apply(p StagePreset) StagePreset {
	o = o.Clamped()
	p.BlastEnergy *= o.EnergyScale
	p.Drag = cp.Clamp(p.Drag+o.DragOffset, 0, 0.99)
	return p
}
