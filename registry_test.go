package fieldset

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestDefine_Order(t *testing.T) {
	reg := outerRegistry()

	if reg.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", reg.Len())
	}
	want := []string{"name", "shade", "mask", "inner", "list", "pair"}
	for i, f := range reg.Fields() {
		if f.Name() != want[i] || f.Index() != i {
			t.Errorf("field %d = %s (index %d), want %s", i, f.Name(), f.Index(), want[i])
		}
	}
	if reg.TypeName() != "outer" {
		t.Errorf("TypeName() = %s, want outer", reg.TypeName())
	}
}

func TestDefine_DescriptionFromTag(t *testing.T) {
	reg := taggedRegistry()

	count, _ := reg.Field("count")
	if count.Description() != "how many" {
		t.Errorf("count description = %q, want tag value", count.Description())
	}
	unit, _ := reg.Field("unit")
	if unit.Description() != "explicit" {
		t.Errorf("unit description = %q, want explicit", unit.Description())
	}
}

type pairRec struct {
	A int32
	B int32
}

func TestDefine_Errors(t *testing.T) {
	a := func(p *pairRec) *int32 { return &p.A }
	b := func(p *pairRec) *int32 { return &p.B }
	outside := func(*pairRec) *int32 { return new(int32) }

	tests := []struct {
		name  string
		specs []FieldSpec[pairRec]
		want  string
	}{
		{
			name:  "missing field",
			specs: []FieldSpec[pairRec]{Spec("a", a, Int32(), 0, "")},
			want:  "not registered: B",
		},
		{
			name: "duplicate name",
			specs: []FieldSpec[pairRec]{
				Spec("a", a, Int32(), 0, ""),
				Spec("a", b, Int32(), 0, ""),
			},
			want: "registered twice",
		},
		{
			name: "same member",
			specs: []FieldSpec[pairRec]{
				Spec("a", a, Int32(), 0, ""),
				Spec("b", a, Int32(), 0, ""),
			},
			want: "address the same field",
		},
		{
			name: "invalid name",
			specs: []FieldSpec[pairRec]{
				Spec("a b", a, Int32(), 0, ""),
				Spec("b", b, Int32(), 0, ""),
			},
			want: "invalid name",
		},
		{
			name: "foreign accessor",
			specs: []FieldSpec[pairRec]{
				Spec("a", outside, Int32(), 0, ""),
				Spec("b", b, Int32(), 0, ""),
			},
			want: "does not address",
		},
		{
			name:  "empty spec",
			specs: []FieldSpec[pairRec]{{}},
			want:  "is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Define(tt.specs...)
			if !errors.Is(err, ErrInvalidField) {
				t.Fatalf("Define() error = %v, want ErrInvalidField", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Define() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDefine_NotStruct(t *testing.T) {
	_, err := Define[int]()
	if !errors.Is(err, ErrInvalidField) {
		t.Errorf("Define[int]() error = %v, want ErrInvalidField", err)
	}
}

func TestMustDefine_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustDefine() should panic")
		}
	}()
	MustDefine[pairRec]()
}

func TestRegistry_NewAndReset(t *testing.T) {
	reg := miniRegistry()

	m := reg.New()
	if m.Var1 != 12 || m.Var2 != 1.1 {
		t.Errorf("New() = %+v", *m)
	}
	if !reg.IsDefault(m) {
		t.Error("IsDefault() = false for a new record")
	}

	m.Var1 = 3
	if got := reg.NonDefault(m); !slices.Equal(got, []string{"var1"}) {
		t.Errorf("NonDefault() = %v", got)
	}
	reg.Reset(m)
	if m.Var1 != 12 {
		t.Errorf("Reset() left var1 = %d", m.Var1)
	}
}

func TestRegistry_DiffAndDifferences(t *testing.T) {
	reg := miniRegistry()
	a := reg.New()
	b := reg.New()

	if !reg.Equal(a, b) || reg.Diff(a, b) != nil {
		t.Fatal("new records should be equal")
	}

	b.Var1 = 11
	b.Var2 = 22.22
	if got := reg.Diff(a, b); !slices.Equal(got, []string{"var1", "var2"}) {
		t.Errorf("Diff() = %v", got)
	}
	want := "var1: 12 vs 11\nvar2: 1.1 vs 22.22\n"
	if got := reg.Differences(a, b); got != want {
		t.Errorf("Differences() = %q, want %q", got, want)
	}
}

func TestRegistry_Docstring(t *testing.T) {
	want := "var1: first variable\nvar2: second variable\n"
	if got := miniRegistry().Docstring(); got != want {
		t.Errorf("Docstring() = %q, want %q", got, want)
	}
}

func TestRegistry_CloneIsDeep(t *testing.T) {
	reg := outerRegistry()
	src := reg.New()
	src.List = []int16{1, 2}
	src.Mask.Set(3)
	src.Skip = 7

	c := reg.Clone(src)
	src.List[0] = 9
	src.Mask.Set(4)

	if c.List[0] != 1 || c.Mask.Test(4) {
		t.Error("Clone() shares storage with the source")
	}
	if c.Skip != 7 {
		t.Errorf("Clone() dropped unregistered field: %d", c.Skip)
	}
}

func TestRegistry_FieldAccess(t *testing.T) {
	reg := miniRegistry()
	rec := reg.New()

	f, ok := reg.Field("var1")
	if !ok {
		t.Fatal("Field(var1) not found")
	}
	if f.Value(rec) != int8(12) {
		t.Errorf("Value() = %v", f.Value(rec))
	}
	if err := f.SetValue(rec, int8(5)); err != nil || rec.Var1 != 5 {
		t.Errorf("SetValue() = %v, var1 = %d", err, rec.Var1)
	}
	if err := f.SetValue(rec, "5"); !errors.Is(err, ErrType) {
		t.Errorf("SetValue(string) error = %v, want ErrType", err)
	}
	if err := f.SetText(rec, "-7"); err != nil || rec.Var1 != -7 {
		t.Errorf("SetText() = %v, var1 = %d", err, rec.Var1)
	}
	if f.DefaultText() != "12" {
		t.Errorf("DefaultText() = %s", f.DefaultText())
	}
	if p, ok := f.Pointer(rec).(*int8); !ok || p != &rec.Var1 {
		t.Error("Pointer() does not address the field")
	}
	if _, ok := reg.Field("var3"); ok {
		t.Error("Field(var3) should not exist")
	}
	if reg.FieldAt(1).Name() != "var2" {
		t.Errorf("FieldAt(1) = %s", reg.FieldAt(1).Name())
	}
}

func TestRegistry_MakeMask(t *testing.T) {
	reg := outerRegistry()

	m, err := reg.MakeMask("shade", "list")
	if err != nil {
		t.Fatalf("MakeMask() error: %v", err)
	}
	if m.Count() != 4 || m.Excludes(1) || m.Excludes(4) {
		t.Errorf("MakeMask() = %s", m)
	}

	none, _ := reg.MakeMask()
	if !none.All() {
		t.Errorf("MakeMask() with no names = %s, want all excluded", none)
	}

	if _, err := reg.MakeMask("nope"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("MakeMask(nope) error = %v, want ErrUnknownField", err)
	}
}

func TestRegistry_MaskFor(t *testing.T) {
	reg := outerRegistry()
	rec := reg.New()

	m, err := reg.MaskFor(rec, &rec.Shade, &rec.List)
	if err != nil {
		t.Fatalf("MaskFor() error: %v", err)
	}
	want, _ := reg.MakeMask("shade", "list")
	if !m.Equal(want) {
		t.Errorf("MaskFor() = %s, want %s", m, want)
	}

	if _, err := reg.MaskFor(rec, &rec.Skip); !errors.Is(err, ErrUnknownField) {
		t.Errorf("MaskFor(unregistered) error = %v, want ErrUnknownField", err)
	}
	if _, err := reg.MaskFor(rec, rec.Shade); !errors.Is(err, ErrType) {
		t.Errorf("MaskFor(value) error = %v, want ErrType", err)
	}
}
