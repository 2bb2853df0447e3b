package fieldset

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestIntegerCodec_Layout(t *testing.T) {
	tests := []struct {
		name string
		size int
		enc  func(buf []byte) (int, error)
		want []byte
	}{
		{"int8", 1, func(b []byte) (int, error) { v := int8(-2); return Int8().Encode(b, &v) }, []byte{0xFE}},
		{"uint16", 2, func(b []byte) (int, error) { v := uint16(0x0102); return Uint16().Encode(b, &v) }, []byte{0x02, 0x01}},
		{"int32", 4, func(b []byte) (int, error) { v := int32(-1); return Int32().Encode(b, &v) }, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"int", 8, func(b []byte) (int, error) { v := 1; return Int().Encode(b, &v) }, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.size)
			n, err := tt.enc(buf)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if n != tt.size || !bytes.Equal(buf, tt.want) {
				t.Errorf("Encode() = %d %x, want %d %x", n, buf, tt.size, tt.want)
			}
		})
	}
}

func TestIntegerCodec_DecodeSignExtends(t *testing.T) {
	var v int16
	if _, err := Int16().Decode([]byte{0xFF, 0xFF}, &v); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if v != -1 {
		t.Errorf("Decode() = %d, want -1", v)
	}
}

func TestIntegerCodec_ShortBuffer(t *testing.T) {
	var v uint32
	_, err := Uint32().Decode([]byte{1, 2}, &v)
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Decode() error = %v, want ErrShortBuffer", err)
	}
}

func TestIntegerCodec_Parse(t *testing.T) {
	tests := []struct {
		in      string
		want    int8
		wantErr error
	}{
		{"11", 11, nil},
		{"-128", -128, nil},
		{"128", 0, ErrOverflow},
		{"1.5", 0, ErrSyntax},
		{"x", 0, ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v int8
			err := Int8().Parse(tt.in, &v)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Parse(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil || v != tt.want {
				t.Errorf("Parse(%q) = %d, %v, want %d", tt.in, v, err, tt.want)
			}
		})
	}
}

func TestIntegerCodec_Import(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    uint8
		wantErr error
	}{
		{"int", 200, 200, nil},
		{"float64", 7.0, 7, nil},
		{"json number", json.Number("9"), 9, nil},
		{"negative", -1, 0, ErrOverflow},
		{"too big", uint64(256), 0, ErrOverflow},
		{"fraction", 1.5, 0, ErrType},
		{"bool", true, 0, ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v uint8
			err := Uint8().Import(tt.in, &v)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Import(%v) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil || v != tt.want {
				t.Errorf("Import(%v) = %d, %v, want %d", tt.in, v, err, tt.want)
			}
		})
	}
}

func TestIntegerCodec_ImportUint64Negative(t *testing.T) {
	var v uint64
	if err := Uint64().Import(int64(-1), &v); !errors.Is(err, ErrOverflow) {
		t.Errorf("Import(-1) error = %v, want ErrOverflow", err)
	}
}

type celsius int16

func TestInteger_NamedType(t *testing.T) {
	c := Integer[celsius]()
	v := celsius(-40)
	if got := c.Format(&v); got != "-40" {
		t.Errorf("Format() = %q, want -40", got)
	}
	if c.Size(&v) != 2 {
		t.Errorf("Size() = %d, want 2", c.Size(&v))
	}
}

func TestBoolCodec(t *testing.T) {
	c := Bool()

	var v bool
	if _, err := c.Decode([]byte{7}, &v); err != nil || !v {
		t.Errorf("Decode(7) = %v, %v, want true", v, err)
	}

	for _, in := range []string{"true", "1"} {
		v = false
		if err := c.Parse(in, &v); err != nil || !v {
			t.Errorf("Parse(%q) = %v, %v, want true", in, v, err)
		}
	}
	for _, in := range []string{"false", "0"} {
		v = true
		if err := c.Parse(in, &v); err != nil || v {
			t.Errorf("Parse(%q) = %v, %v, want false", in, v, err)
		}
	}
	if err := c.Parse("yes", &v); !errors.Is(err, ErrSyntax) {
		t.Errorf("Parse(yes) error = %v, want ErrSyntax", err)
	}
}

func TestFloatCodec_EqualNaN(t *testing.T) {
	c := Float64()
	a, b := math.NaN(), math.NaN()
	if !c.Equal(&a, &b) {
		t.Error("NaN should equal NaN")
	}
	one := 1.0
	if c.Equal(&a, &one) {
		t.Error("NaN should not equal 1")
	}
}

func TestFloatCodec_Format(t *testing.T) {
	f32 := float32(22.22)
	if got := Float32().Format(&f32); got != "22.22" {
		t.Errorf("Format(float32) = %q, want 22.22", got)
	}

	tests := []struct {
		in   float64
		want string
	}{
		{0.1, "0.1"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := Float64().Format(&tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFloatCodec_ParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"NaN", "+Inf", "-Inf", "1e-30", "3.4028235e+38"} {
		var v float32
		if err := Float32().Parse(s, &v); err != nil {
			t.Fatalf("Parse(%q) error: %v", s, err)
		}
		var back float32
		if err := Float32().Parse(Float32().Format(&v), &back); err != nil {
			t.Fatalf("Parse(Format) error: %v", err)
		}
		if !Float32().Equal(&v, &back) {
			t.Errorf("%q: %v != %v", s, v, back)
		}
	}
}

func TestFloatCodec_Float64Bits(t *testing.T) {
	v := 1.5
	buf := make([]byte, 8)
	if _, err := Float64().Encode(buf, &v); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := []byte{0, 0, 0, 0, 0, 0, 0xF8, 0x3F}
	if !bytes.Equal(buf, want) {
		t.Errorf("Encode(1.5) = %x, want %x", buf, want)
	}
}

func TestStringCodec(t *testing.T) {
	c := String()
	v := "hello"
	buf := make([]byte, c.Size(&v))
	if _, err := c.Encode(buf, &v); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !bytes.Equal(buf, []byte{5, 'h', 'e', 'l', 'l', 'o'}) {
		t.Errorf("Encode() = %x", buf)
	}

	var out string
	if n, err := c.Decode(buf, &out); err != nil || n != 6 || out != v {
		t.Errorf("Decode() = %q, %d, %v", out, n, err)
	}
}

func TestStringCodec_TooLong(t *testing.T) {
	v := string(make([]byte, 256))
	buf := make([]byte, 300)
	if _, err := String().Encode(buf, &v); !errors.Is(err, ErrTooLong) {
		t.Errorf("Encode() error = %v, want ErrTooLong", err)
	}
}

func TestStringCodec_DecodeTruncated(t *testing.T) {
	var out string
	if _, err := String().Decode([]byte{4, 'a', 'b'}, &out); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Decode() error = %v, want ErrShortBuffer", err)
	}
}

func TestStringCodec_Text(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", `""`},
		{" padded", `" padded"`},
		{"a, b", `"a, b"`},
		{"k: v", `"k: v"`},
		{"#hash", `"#hash"`},
		{`say "hi"`, `"say \"hi\""`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := String().Format(&tt.in)
			if got != tt.want {
				t.Errorf("Format(%q) = %s, want %s", tt.in, got, tt.want)
			}
			var back string
			if err := String().Parse(got, &back); err != nil || back != tt.in {
				t.Errorf("Parse(%s) = %q, %v, want %q", got, back, err, tt.in)
			}
		})
	}
}
