// Package bson provides a BSON codec implementation.
package bson

import (
	"github.com/zoobzio/fieldset"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements fieldset.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec. Documents decoded into a map[string]any have
// their nested documents and arrays converted to map[string]any and []any.
func New() fieldset.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	doc, ok := v.(*map[string]any)
	if !ok {
		return bson.Unmarshal(data, v)
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		return err
	}
	*doc = normalizeMap(m)
	return nil
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

// normalize converts driver container types to plain Go containers.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}
