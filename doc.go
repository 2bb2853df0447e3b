// Package fieldset provides field registries that drive binary, text and
// document serialization of plain Go structs.
//
// A record type declares its fields once, in order, with a typed accessor,
// a value codec, a default and a description. The resulting Registry
// encodes and decodes records, tracks defaults, diffs records field by
// field and restricts every operation to a subset of fields through a Mask.
//
// # Declaring Fields
//
//	type Motor struct {
//	    Speed float32
//	    Mode  Mode
//	    Trims []int16
//	}
//
//	var modes = fieldset.NewEnum[Mode]("Mode", "Idle", "Run")
//
//	func (Motor) Describe() []fieldset.FieldSpec[Motor] {
//	    return []fieldset.FieldSpec[Motor]{
//	        fieldset.Spec("speed", func(m *Motor) *float32 { return &m.Speed }, fieldset.Float32(), 1, "target speed"),
//	        fieldset.Spec("mode", func(m *Motor) *Mode { return &m.Mode }, fieldset.Enum(modes), 0, "run mode"),
//	        fieldset.Spec("trims", func(m *Motor) *[]int16 { return &m.Trims }, fieldset.Vector(fieldset.Int16()), nil, "trim offsets"),
//	    }
//	}
//
//	reg := fieldset.MustUse[Motor]()
//
// Every exported struct field must be registered unless it is tagged
// `fieldset:"-"`. A `desc` tag supplies a description left empty in the spec.
//
// # Binary Format
//
// Fields are written back to back in declaration order, little-endian,
// with no field tags. Strings and vectors carry a one byte length, so they
// hold at most 255 elements. float32 values use a portable exponent and
// mantissa packing; float64 values are IEEE-754 bits. A buffer that ends on
// a field boundary decodes without error and leaves the remaining fields
// untouched.
//
// # Text Format
//
// The text form is one "name: value" line per field. Nested records are a
// "name:" line followed by the record indented two spaces. Documents in a
// stream are separated by "---" and may be closed with "...". A document with
// no fields is a lone "---" line:
//
//	speed: 1.5
//	mode: Run # trailing comments are ignored
//	trims: [0, -3]
//
// # Masks and Views
//
// A Mask excludes fields by index. MakeMask lists the fields to keep:
//
//	m, _ := reg.MakeMask("speed")
//	data, _ := reg.View(&motor, m).MarshalBinary()
//
// A View encodes a one byte mask length and the mask before the included
// fields, so the receiver learns which fields follow.
//
// # Codec Providers
//
// Processor exchanges records with document formats through a Codec. The
// following codec implementations are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package fieldset
