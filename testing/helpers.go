// Package testing provides fixture records and helpers for fieldset tests.
package testing

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/zoobzio/fieldset"
)

// MiniStruct is the smallest fixture: an int8 and a float32 with defaults.
type MiniStruct struct {
	Var1 int8
	Var2 float32
}

// Describe implements fieldset.Describer.
func (MiniStruct) Describe() []fieldset.FieldSpec[MiniStruct] {
	return []fieldset.FieldSpec[MiniStruct]{
		fieldset.Spec("var1", func(m *MiniStruct) *int8 { return &m.Var1 }, fieldset.Int8(), 12, "first variable"),
		fieldset.Spec("var2", func(m *MiniStruct) *float32 { return &m.Var2 }, fieldset.Float32(), 1.1, "second variable"),
	}
}

// DefaultMini returns a MiniStruct holding its defaults.
func DefaultMini() MiniStruct { return MiniStruct{Var1: 12, Var2: 1.1} }

// Color is a fixture enum.
type Color uint8

// Color values.
const (
	Red Color = iota
	Green
	Blue
)

// ColorEnum describes Color.
var ColorEnum = fieldset.NewEnum[Color]("Color", "Red", "Green", "Blue")

// Level is a fixture enum with values outside a byte.
type Level int16

// LevelEnum describes Level.
var LevelEnum = fieldset.NewEnumValues("Level", []Level{-1, 0, 1000}, []string{"Low", "Mid", "High"})

// FlagWidth is the width of Sample.Flags.
const FlagWidth = 10

// Sample carries one field of every supported kind.
type Sample struct {
	ID      uint32
	Label   string
	Enabled bool
	Ratio   float64
	Gain    float32
	Color   Color
	Level   Level
	Flags   bitset.BitSet
	Points  [3]int16
	Tags    []string
	Inner   MiniStruct
	Items   []MiniStruct
	Note    string `fieldset:"-"`
}

// Describe implements fieldset.Describer.
func (Sample) Describe() []fieldset.FieldSpec[Sample] {
	return []fieldset.FieldSpec[Sample]{
		fieldset.Spec("id", func(s *Sample) *uint32 { return &s.ID }, fieldset.Uint32(), 0, "identifier"),
		fieldset.Spec("label", func(s *Sample) *string { return &s.Label }, fieldset.String(), "unnamed", "display label"),
		fieldset.Spec("enabled", func(s *Sample) *bool { return &s.Enabled }, fieldset.Bool(), true, "whether the sample is active"),
		fieldset.Spec("ratio", func(s *Sample) *float64 { return &s.Ratio }, fieldset.Float64(), 0.5, "mix ratio"),
		fieldset.Spec("gain", func(s *Sample) *float32 { return &s.Gain }, fieldset.Float32(), 1, "output gain"),
		fieldset.Spec("color", func(s *Sample) *Color { return &s.Color }, fieldset.Enum(ColorEnum), Green, "display color"),
		fieldset.Spec("level", func(s *Sample) *Level { return &s.Level }, fieldset.Enum(LevelEnum), 0, "alert level"),
		fieldset.Spec("flags", func(s *Sample) *bitset.BitSet { return &s.Flags }, fieldset.Bitset(FlagWidth), bitset.BitSet{}, "feature flags"),
		fieldset.Spec("points", func(s *Sample) *[3]int16 { return &s.Points }, fieldset.Array[[3]int16](fieldset.Int16()), [3]int16{}, "control points"),
		fieldset.Spec("tags", func(s *Sample) *[]string { return &s.Tags }, fieldset.Vector(fieldset.String()), nil, "free form tags"),
		fieldset.Spec("inner", func(s *Sample) *MiniStruct { return &s.Inner }, fieldset.Record[MiniStruct](), DefaultMini(), "nested record"),
		fieldset.Spec("items", func(s *Sample) *[]MiniStruct { return &s.Items }, fieldset.Vector(fieldset.Record[MiniStruct]()), nil, "nested records"),
	}
}

// NewSample returns a Sample where every field differs from its default.
func NewSample() Sample {
	var flags bitset.BitSet
	flags.Set(0).Set(3).Set(9)
	return Sample{
		ID:      42,
		Label:   "alpha, beta",
		Enabled: false,
		Ratio:   0.125,
		Gain:    2.5,
		Color:   Blue,
		Level:   1000,
		Flags:   flags,
		Points:  [3]int16{-3, 0, 300},
		Tags:    []string{"x", "y: z"},
		Inner:   MiniStruct{Var1: -7, Var2: 3.25},
		Items:   []MiniStruct{{Var1: 1, Var2: 0.5}, {Var1: 2, Var2: -1.75}},
		Note:    "not registered",
	}
}

// Node is a recursive fixture.
type Node struct {
	Name     string
	Children []Node
}

// Describe implements fieldset.Describer.
func (Node) Describe() []fieldset.FieldSpec[Node] {
	return []fieldset.FieldSpec[Node]{
		fieldset.Spec("name", func(n *Node) *string { return &n.Name }, fieldset.String(), "", "node name"),
		fieldset.Spec("children", func(n *Node) *[]Node { return &n.Children }, fieldset.Vector(fieldset.Record[Node]()), nil, "child nodes"),
	}
}

// MiniRegistry returns the MiniStruct registry or fails the test.
func MiniRegistry(tb testing.TB) *fieldset.Registry[MiniStruct] {
	return mustUse[MiniStruct](tb)
}

// SampleRegistry returns the Sample registry or fails the test.
func SampleRegistry(tb testing.TB) *fieldset.Registry[Sample] {
	return mustUse[Sample](tb)
}

// NodeRegistry returns the Node registry or fails the test.
func NodeRegistry(tb testing.TB) *fieldset.Registry[Node] {
	return mustUse[Node](tb)
}

func mustUse[R fieldset.Describer[R]](tb testing.TB) *fieldset.Registry[R] {
	tb.Helper()
	reg, err := fieldset.Use[R]()
	if err != nil {
		tb.Fatalf("Use() error: %v", err)
	}
	return reg
}
