package json

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/zoobzio/fieldset"
	fstest "github.com/zoobzio/fieldset/testing"
)

func TestContentType(t *testing.T) {
	if got := New().ContentType(); got != "application/json" {
		t.Errorf("ContentType() = %q, want %q", got, "application/json")
	}
}

// exchange marshals an exported sample and decodes it back into a document.
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

	tests := []struct {
		key  string
		want any
	}{
		{"id", json.Number("42")},
		{"gain", json.Number("2.5")},
		{"ratio", json.Number("0.125")},
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
	if inner["var1"] != json.Number("-7") {
		t.Errorf("inner.var1 = %#v, want json.Number(-7)", inner["var1"])
	}
	points, ok := doc["points"].([]any)
	if !ok || len(points) != 3 || points[2] != json.Number("300") {
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

func TestUnmarshalDocumentUsesNumber(t *testing.T) {
	doc := exchange(t, map[string]any{"wide": uint64(1 << 63), "big": int64(9007199254740993)})

	for key, want := range map[string]string{"wide": "9223372036854775808", "big": "9007199254740993"} {
		n, ok := doc[key].(json.Number)
		if !ok {
			t.Fatalf("%s = %T, want json.Number", key, doc[key])
		}
		if n.String() != want {
			t.Errorf("%s = %s, want %s", key, n, want)
		}
	}

	var wide uint64
	if err := fieldset.Uint64().Import(doc["wide"], &wide); err != nil || wide != 1<<63 {
		t.Errorf("Import(wide) = %d, %v", wide, err)
	}
}

func TestUnmarshalOverflowFromNumber(t *testing.T) {
	reg := fstest.MiniRegistry(t)
	doc := exchange(t, map[string]any{"var1": 300})

	err := reg.FromDocument(doc, reg.New())
	if !errors.Is(err, fieldset.ErrOverflow) {
		t.Errorf("FromDocument() error = %v, want ErrOverflow", err)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var doc map[string]any
	if err := New().Unmarshal([]byte("invalid json"), &doc); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
