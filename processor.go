package fieldset

import (
	"context"
	"sync"
	"time"
)

// Processor exchanges records with document formats through a Codec.
//
// A record is exported as a field name to value document and imported back
// from one. Enums and bitsets travel as their text form, sequences as lists
// and nested records as nested documents. Fields excluded by the processor
// mask are neither written nor read. A Sealer, when set, encrypts exported
// payloads and opens imported ones.
//
// Processors are safe for concurrent use. SetMask may be called at any time.
type Processor[R any] struct {
	codec Codec
	reg   *Registry[R]

	// Mutable configuration protected by mu
	mu     sync.RWMutex
	mask   Mask
	sealer Sealer
}

// NewProcessor creates a Processor for the records of reg.
func NewProcessor[R any](reg *Registry[R], codec Codec) *Processor[R] {
	return &Processor[R]{
		codec: codec,
		reg:   reg,
		mask:  NewMask(reg.Len()),
	}
}

// SetMask sets the mask applied to exports and imports.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor[R]) SetMask(m Mask) *Processor[R] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mask = m.sized(p.reg.Len())
	return p
}

// SetSealer sets the sealer applied to exported payloads. nil disables sealing.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor[R]) SetSealer(s Sealer) *Processor[R] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sealer = s
	return p
}

// Mask returns the current mask.
func (p *Processor[R]) Mask() Mask {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mask
}

func (p *Processor[R]) config() (Mask, Sealer) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mask, p.sealer
}

// Codec returns the document codec.
func (p *Processor[R]) Codec() Codec { return p.codec }

// Export encodes the included fields of rec as a document.
func (p *Processor[R]) Export(ctx context.Context, rec *R) ([]byte, error) {
	start := time.Now()

	var (
		data   []byte
		retErr error
	)
	defer func() {
		emitExportComplete(ctx, p.codec.ContentType(), p.reg.typeName,
			len(data), time.Since(start), retErr)
	}()

	mask, sealer := p.config()
	data, err := p.codec.Marshal(p.reg.toDocument(rec, mask))
	if err != nil {
		retErr = newCodecError(ErrMarshal, err)
		return nil, retErr
	}
	if sealer != nil {
		if data, err = sealer.Seal(data); err != nil {
			retErr = newCodecError(ErrMarshal, err)
			return nil, retErr
		}
	}
	return data, nil
}

// Import decodes a document into rec. Only included fields present in the
// document are overwritten.
func (p *Processor[R]) Import(ctx context.Context, data []byte, rec *R) error {
	start := time.Now()

	var retErr error
	defer func() {
		emitImportComplete(ctx, p.codec.ContentType(), p.reg.typeName,
			len(data), time.Since(start), retErr)
	}()

	mask, sealer := p.config()
	if sealer != nil {
		opened, err := sealer.Open(data)
		if err != nil {
			retErr = newCodecError(ErrUnmarshal, err)
			return retErr
		}
		data = opened
	}
	var doc map[string]any
	if err := p.codec.Unmarshal(data, &doc); err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return retErr
	}
	if err := p.reg.fromDocument(doc, rec, mask); err != nil {
		retErr = err
		return retErr
	}
	return nil
}
