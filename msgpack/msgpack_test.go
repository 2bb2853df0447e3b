package msgpack

import (
	"testing"

	"github.com/zoobzio/fieldset"
	fstest "github.com/zoobzio/fieldset/testing"
)

func TestContentType(t *testing.T) {
	if got := New().ContentType(); got != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", got, "application/msgpack")
	}
}

func exchange(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	c := New()
	data, err := c.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var out map[string]any
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	return out
}

func TestExportedDocument(t *testing.T) {
	reg := fstest.SampleRegistry(t)
	sample := fstest.NewSample()
	doc := exchange(t, reg.ToDocument(&sample))

	// Sized integers and float32 keep their Go types.
	tests := []struct {
		key  string
		want any
	}{
		{"id", uint32(42)},
		{"gain", float32(2.5)},
		{"ratio", 0.125},
		{"enabled", false},
		{"color", "Blue"},
		{"level", "High"},
		{"flags", "1000001001"},
		{"label", "alpha, beta"},
	}
	for _, tt := range tests {
		if doc[tt.key] != tt.want {
			t.Errorf("%s = %#v, want %#v", tt.key, doc[tt.key], tt.want)
		}
	}

	inner, ok := doc["inner"].(map[string]any)
	if !ok {
		t.Fatalf("inner = %T, want map[string]any", doc["inner"])
	}
	if inner["var1"] != int8(-7) || inner["var2"] != float32(3.25) {
		t.Errorf("inner = %#v", inner)
	}
	points, ok := doc["points"].([]any)
	if !ok || len(points) != 3 || points[2] != int16(300) {
		t.Errorf("points = %#v", doc["points"])
	}

	restored := reg.New()
	if err := reg.FromDocument(doc, restored); err != nil {
		t.Fatalf("FromDocument() error: %v", err)
	}
	if !reg.Equal(&sample, restored) {
		t.Errorf("round-trip differs:\n%s", reg.Differences(&sample, restored))
	}
}

func TestWideUnsigned(t *testing.T) {
	doc := exchange(t, map[string]any{"wide": uint64(1 << 63)})

	if doc["wide"] != uint64(1<<63) {
		t.Errorf("wide = %#v, want uint64", doc["wide"])
	}
	var wide uint64
	if err := fieldset.Uint64().Import(doc["wide"], &wide); err != nil || wide != 1<<63 {
		t.Errorf("Import(wide) = %d, %v", wide, err)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var doc map[string]any
	if err := New().Unmarshal([]byte("not msgpack"), &doc); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
