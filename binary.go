package fieldset

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Size returns the encoded size of rec.
func (r *Registry[R]) Size(rec *R) int { return r.size(rec, Mask{}) }

// Encode writes every field of rec to the front of buf in declaration order.
func (r *Registry[R]) Encode(buf []byte, rec *R) (int, error) {
	return r.encodeFields(buf, rec, Mask{})
}

// Decode reads every field of rec from the front of buf. A buffer that ends
// on a field boundary is accepted and the remaining fields keep their values.
func (r *Registry[R]) Decode(buf []byte, rec *R) (int, error) {
	return r.decodeFields(buf, rec, Mask{}, true)
}

// Marshal returns the binary encoding of rec.
func (r *Registry[R]) Marshal(rec *R) ([]byte, error) {
	start := time.Now()
	buf := make([]byte, r.Size(rec))
	n, err := r.Encode(buf, rec)
	emitEncodeComplete(context.Background(), r.typeName, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Unmarshal decodes data into rec.
func (r *Registry[R]) Unmarshal(data []byte, rec *R) error {
	start := time.Now()
	n, err := r.Decode(data, rec)
	emitDecodeComplete(context.Background(), r.typeName, n, time.Since(start), err)
	return err
}

func (r *Registry[R]) size(rec *R, m Mask) int {
	n := 0
	for _, f := range r.included(m) {
		n += f.Size(rec)
	}
	return n
}

func (r *Registry[R]) encodeFields(buf []byte, rec *R, m Mask) (int, error) {
	off := 0
	for _, f := range r.included(m) {
		n, err := f.Encode(buf[off:], rec)
		if err != nil {
			return off, err
		}
		off += n
	}
	return off, nil
}

// decodeFields reads the fields m includes. When partial is set, running out
// of input exactly between two fields ends the decode without error.
func (r *Registry[R]) decodeFields(buf []byte, rec *R, m Mask, partial bool) (int, error) {
	off, read := 0, 0
	for _, f := range r.included(m) {
		if partial && off == len(buf) {
			Logger().Debug("partial record decode",
				zap.String("type", r.typeName),
				zap.Int("fields_read", read),
				zap.Int("bytes", off),
			)
			break
		}
		n, err := f.Decode(buf[off:], rec)
		if err != nil {
			return off, err
		}
		off += n
		read++
	}
	return off, nil
}
