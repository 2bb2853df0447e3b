package fieldset

import (
	"github.com/bits-and-blooms/bitset"
)

// mini is the two field record used across the tests.
type mini struct {
	Var1 int8
	Var2 float32
}

func (mini) Describe() []FieldSpec[mini] {
	return []FieldSpec[mini]{
		Spec("var1", func(m *mini) *int8 { return &m.Var1 }, Int8(), 12, "first variable"),
		Spec("var2", func(m *mini) *float32 { return &m.Var2 }, Float32(), 1.1, "second variable"),
	}
}

type shade uint8

const (
	shadeLight shade = iota
	shadeDark
)

var shadeEnum = NewEnum[shade]("Shade", "Light", "Dark")

// outer nests mini and covers the variable-length kinds.
type outer struct {
	Name  string
	Shade shade
	Mask  bitset.BitSet
	Inner mini
	List  []int16
	Pair  [2]bool
	Skip  int `fieldset:"-"`
}

func (outer) Describe() []FieldSpec[outer] {
	return []FieldSpec[outer]{
		Spec("name", func(o *outer) *string { return &o.Name }, String(), "", "display name"),
		Spec("shade", func(o *outer) *shade { return &o.Shade }, Enum(shadeEnum), shadeDark, "shade"),
		Spec("mask", func(o *outer) *bitset.BitSet { return &o.Mask }, Bitset(12), bitset.BitSet{}, "bits"),
		Spec("inner", func(o *outer) *mini { return &o.Inner }, Record[mini](), mini{Var1: 12, Var2: 1.1}, "nested"),
		Spec("list", func(o *outer) *[]int16 { return &o.List }, Vector(Int16()), nil, "numbers"),
		Spec("pair", func(o *outer) *[2]bool { return &o.Pair }, Array[[2]bool](Bool()), [2]bool{}, "two flags"),
	}
}

// tagged takes its descriptions from struct tags.
type tagged struct {
	Count uint16 `desc:"how many"`
	Unit  string `desc:"unit of count"`
}

func (tagged) Describe() []FieldSpec[tagged] {
	return []FieldSpec[tagged]{
		Spec("count", func(t *tagged) *uint16 { return &t.Count }, Uint16(), 0, ""),
		Spec("unit", func(t *tagged) *string { return &t.Unit }, String(), "m", "explicit"),
	}
}

func miniRegistry() *Registry[mini]     { return MustUse[mini]() }
func outerRegistry() *Registry[outer]   { return MustUse[outer]() }
func taggedRegistry() *Registry[tagged] { return MustUse[tagged]() }
