package fieldset

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Document markers.
const (
	docStart = "---"
	docEnd   = "..."
)

// indentUnit is the number of spaces per nesting level.
const indentUnit = 2

// TextDecoder reads records from a YAML-like text stream.
//
// The whole input is buffered on first use and read line by line through a
// cursor that can rewind to the start of the last line. Several documents
// may be read in sequence from one decoder.
type TextDecoder struct {
	r      io.Reader
	src    string
	loaded bool
	err    error
	pos    int
	line   int
}

// NewTextDecoder returns a decoder reading from r.
func NewTextDecoder(r io.Reader) *TextDecoder {
	return &TextDecoder{r: r}
}

// NewTextDecoderString returns a decoder over s.
func NewTextDecoderString(s string) *TextDecoder {
	return &TextDecoder{src: s, loaded: true}
}

// Line returns the number of the last line read.
func (d *TextDecoder) Line() int { return d.line }

// More reports whether unread input remains.
func (d *TextDecoder) More() bool {
	if err := d.load(); err != nil {
		return false
	}
	return d.pos < len(d.src)
}

func (d *TextDecoder) load() error {
	if d.loaded {
		return d.err
	}
	d.loaded = true
	data, err := io.ReadAll(d.r)
	if err != nil {
		d.err = err
		return err
	}
	d.src = string(data)
	return nil
}

// textLine is one physical line of input.
type textLine struct {
	raw    string // line without its terminator
	num    int    // 1-based line number
	start  int    // cursor offset of the line start
	indent int    // nesting level from leading spaces
	body   string // content with indentation and trailing comment removed
}

// next returns the next line. ok is false at the end of input.
func (d *TextDecoder) next() (l textLine, ok bool) {
	if d.pos >= len(d.src) {
		return textLine{}, false
	}
	start := d.pos
	end := strings.IndexByte(d.src[start:], '\n')
	if end < 0 {
		d.pos = len(d.src)
		end = len(d.src)
	} else {
		end += start
		d.pos = end + 1
	}
	d.line++
	raw := strings.TrimSuffix(d.src[start:end], "\r")
	trimmed := strings.TrimLeft(raw, " ")
	return textLine{
		raw:    raw,
		num:    d.line,
		start:  start,
		indent: (len(raw) - len(trimmed)) / indentUnit,
		body:   strings.TrimSpace(stripComment(trimmed)),
	}, true
}

// rewind puts l back so the next call to next returns it again.
func (d *TextDecoder) rewind(l textLine) {
	d.pos = l.start
	d.line = l.num - 1
}

// comment reports whether the line holds nothing but a comment.
func (l textLine) comment() bool {
	return strings.HasPrefix(strings.TrimLeft(l.raw, " \t"), "#")
}

// blank reports whether the line is empty or whitespace only.
func (l textLine) blank() bool {
	return strings.TrimSpace(l.raw) == ""
}

// splitMember splits "name: value" at the first colon.
func (l textLine) splitMember() (name, value string, err error) {
	name, value, ok := strings.Cut(l.body, ":")
	if !ok {
		return "", "", fmt.Errorf("%w: expected name: value", ErrSyntax)
	}
	return strings.TrimSpace(name), strings.TrimSpace(value), nil
}

// stripComment removes a trailing "# ..." that is outside double quotes.
func stripComment(s string) string {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return s[:i]
			}
		}
	}
	return s
}

// needsQuote reports whether a string must be double-quoted in text form.
func needsQuote(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return true
	}
	return strings.ContainsAny(s, "#\",:[]{}\n\r\t\\")
}

func quoteText(s string) string {
	if needsQuote(s) {
		return strconv.Quote(s)
	}
	return s
}

func unquoteText(s string) (string, error) {
	if !strings.HasPrefix(s, `"`) {
		return s, nil
	}
	u, err := strconv.Unquote(s)
	if err != nil {
		return "", fmt.Errorf("%w: malformed quoted string %s", ErrSyntax, s)
	}
	return u, nil
}

// trimDelims removes one pair of surrounding open/close delimiters if present.
func trimDelims(s string, open, close byte) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == open && s[len(s)-1] == close {
		return s[1 : len(s)-1]
	}
	return s
}

// splitSequence splits s at top-level commas. Commas inside quotes,
// brackets or braces do not split. An empty input yields no items.
func splitSequence(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var (
		items   []string
		depth   int
		inQuote bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			switch c {
			case '\\':
				i++
			case '"':
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced %q", ErrSyntax, c)
			}
		case ',':
			if depth == 0 {
				items = append(items, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if inQuote || depth != 0 {
		return nil, fmt.Errorf("%w: unterminated sequence %s", ErrSyntax, s)
	}
	items = append(items, strings.TrimSpace(s[start:]))
	for _, item := range items {
		if item == "" {
			return nil, fmt.Errorf("%w: empty element in %s", ErrSyntax, s)
		}
	}
	return items, nil
}
