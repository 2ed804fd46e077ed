package presets

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// LoadSpec reads a preset file (disk first, then embedded) and decodes it.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("presets: load %s: %w", filename, err)
	}
	return DecodeSpec[T](filename, data)
}

// DecodeSpec decodes YAML bytes; name only labels errors.
func DecodeSpec[T any](name string, data []byte) (T, error) {
	var zero T
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("presets: unmarshal %s: %w", name, err)
	}
	return spec, nil
}

// TableSpec is the on-disk layout of a stage table.
type TableSpec struct {
	Stages []StageSpec `yaml:"stages"`
}

type StageSpec struct {
	Title        string      `yaml:"title"`
	Time         string      `yaml:"time"`
	Description  string      `yaml:"description"`
	BlastEnergy  float64     `yaml:"blast_energy"`
	Drag         float64     `yaml:"drag"`
	Buoyancy     float64     `yaml:"buoyancy"`
	AnisotropyUp float64     `yaml:"anisotropy_up"`
	AnisotropyXZ float64     `yaml:"anisotropy_xz"`
	Wind         YAMLVec3    `yaml:"wind"`
	ThermalDecay float64     `yaml:"thermal_decay"`
	VerticalBias float64     `yaml:"vertical_bias"`
	Count        int         `yaml:"count"`
	Heat         float64     `yaml:"heat"`
	Colors       []YAMLColor `yaml:"colors"`
}

type YAMLColor struct {
	color.NRGBA
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.NRGBA = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}

// YAMLVec3 decodes a three element flow sequence such as [1, 0, 0.5].
type YAMLVec3 struct {
	mgl64.Vec3
}

func (v *YAMLVec3) UnmarshalYAML(value *yaml.Node) error {
	var raw []float64
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("vector must be a sequence of numbers: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("vector needs 3 components, got %d", len(raw))
	}
	v.Vec3 = mgl64.Vec3{raw[0], raw[1], raw[2]}
	return nil
}

func (v YAMLVec3) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range v.Vec3 {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(c, 'g', -1, 64),
		})
	}
	return node, nil
}
