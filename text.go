package fieldset

import (
	"context"
	"io"
	"strings"
	"time"
)

// TextEncoder writes records as YAML-like documents. Consecutive documents
// are separated by a "---" line. A document without members is written as a
// lone "---" line wherever it appears in the stream.
type TextEncoder struct {
	w    io.Writer
	docs int
}

// NewTextEncoder returns an encoder writing to w.
func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) document(body string) (int, error) {
	if e.docs > 0 && body != emptyDocument {
		body = docStart + "\n" + body
	}
	n, err := io.WriteString(e.w, body)
	if err != nil {
		return n, err
	}
	e.docs++
	return n, nil
}

// emptyDocument is the text of a document without members.
const emptyDocument = docStart + "\n"

// textWriter accumulates the lines of one document.
type textWriter struct {
	b strings.Builder
}

// document returns the accumulated lines, or emptyDocument when there are none.
func (w *textWriter) document() string {
	if w.b.Len() == 0 {
		return emptyDocument
	}
	return w.b.String()
}

func (w *textWriter) indent(depth int) {
	for i := 0; i < depth*indentUnit; i++ {
		w.b.WriteByte(' ')
	}
}

// member writes a "name: value" line.
func (w *textWriter) member(depth int, name, value string) {
	w.indent(depth)
	w.b.WriteString(name)
	w.b.WriteString(": ")
	w.b.WriteString(value)
	w.b.WriteByte('\n')
}

// open writes the "name:" line that starts a nested block.
func (w *textWriter) open(depth int, name string) {
	w.indent(depth)
	w.b.WriteString(name)
	w.b.WriteString(":\n")
}

func (r *Registry[R]) writeFields(w *textWriter, rec *R, m Mask, depth int) {
	for _, f := range r.included(m) {
		f.writeText(w, rec, depth)
	}
}

// WriteText writes rec as one document.
func (r *Registry[R]) WriteText(e *TextEncoder, rec *R) error {
	return r.writeDocument(e, rec, Mask{})
}

// ReadText reads one document into rec. Fields absent from the document
// keep their values. It returns io.EOF when no document is left.
func (r *Registry[R]) ReadText(d *TextDecoder, rec *R) error {
	return r.readDocument(d, rec, Mask{})
}

// FormatText returns rec as a text document.
func (r *Registry[R]) FormatText(rec *R) string {
	var w textWriter
	r.writeFields(&w, rec, Mask{}, 0)
	return w.document()
}

// ParseText reads the first document of s into rec. Empty input is an empty
// document and leaves rec unchanged.
func (r *Registry[R]) ParseText(s string, rec *R) error {
	return firstDocument(r.ReadText(NewTextDecoderString(s), rec))
}

// firstDocument maps the io.EOF of a stream without documents to an empty
// document.
func firstDocument(err error) error {
	if err == io.EOF {
		return nil
	}
	return err
}

func (r *Registry[R]) writeDocument(e *TextEncoder, rec *R, m Mask) error {
	start := time.Now()
	var w textWriter
	r.writeFields(&w, rec, m, 0)
	n, err := e.document(w.document())
	emitTextWrite(context.Background(), r.typeName, n, time.Since(start), err)
	return err
}

func (r *Registry[R]) readDocument(d *TextDecoder, rec *R, m Mask) error {
	if err := d.load(); err != nil {
		return err
	}
	start, from := time.Now(), d.pos
	started, err := r.readFields(d, rec, m, 0, true)
	if err == nil && !started {
		return io.EOF
	}
	emitTextRead(context.Background(), r.typeName, d.pos-from, time.Since(start), err)
	return err
}

// readFields reads member lines into rec until its block ends. level is the
// least indentation a line of the block may have; top marks a document.
// started reports whether a marker or member line was consumed.
func (r *Registry[R]) readFields(d *TextDecoder, rec *R, m Mask, level int, top bool) (started bool, err error) {
	base := -1
	for {
		l, ok := d.next()
		if !ok {
			return started, nil
		}
		if l.comment() {
			continue
		}
		if l.blank() {
			return started, newParseError("", l.num, l.raw, ErrEmptyLine)
		}

		switch l.body {
		case docStart:
			if top && !started {
				if l.indent != 0 {
					return started, newParseError("", l.num, l.raw, ErrIndent)
				}
				started = true
				continue
			}
			d.rewind(l)
			return started, nil
		case docEnd:
			if top {
				return true, nil
			}
			d.rewind(l)
			return started, nil
		}

		if l.indent < level || (base >= 0 && l.indent < base) {
			d.rewind(l)
			return started, nil
		}
		if base < 0 {
			base = l.indent
		} else if l.indent > base {
			return started, newParseError("", l.num, l.raw, ErrIndent)
		}
		started = true

		name, value, err := l.splitMember()
		if err != nil {
			return started, newParseError("", l.num, l.raw, err)
		}
		f, ok := r.Field(name)
		if !ok {
			return started, newParseError(name, l.num, l.raw, ErrUnknownField)
		}
		if m.Excludes(f.Index()) {
			d.skipBlock(l.indent)
			continue
		}
		if value == "" && f.block() {
			if err := f.readBlock(d, rec, l.indent+1); err != nil {
				return started, newParseError(name, l.num, l.raw, err)
			}
			continue
		}
		if err := f.SetText(rec, value); err != nil {
			return started, newParseError(name, l.num, l.raw, err)
		}
	}
}

// skipBlock consumes the lines indented deeper than indent.
func (d *TextDecoder) skipBlock(indent int) {
	for {
		l, ok := d.next()
		if !ok {
			return
		}
		if l.comment() {
			continue
		}
		if l.blank() || l.body == docStart || l.body == docEnd || l.indent <= indent {
			d.rewind(l)
			return
		}
	}
}
