// Package csvtok is a lazy tokenizer for delimiter separated text held in memory.
//
// The tokenizer never copies the input: rows and cells are spans of the original byte
// slice, typically a memory mapped file. Content is not validated; a stray quote simply
// toggles quoting until the next quote character.
package csvtok

import (
	"bytes"
	"errors"
	"iter"
)

var (
	// ErrInvalidDelimiter is returned for a delimiter that is zero or a line terminator.
	ErrInvalidDelimiter = errors.New("csvtok: invalid delimiter")
	// ErrInvalidQuote is returned for a quote character that is zero or a line terminator.
	ErrInvalidQuote = errors.New("csvtok: invalid quote character")
	// ErrDelimiterIsQuote is returned when delimiter and quote character are the same byte.
	ErrDelimiterIsQuote = errors.New("csvtok: delimiter and quote character must differ")
)

// Dialect describes how the input is split into rows and cells.
type Dialect struct {
	// Delimiter separates cells within a row.
	Delimiter byte
	// Quote encloses cells that contain delimiters or line breaks.
	Quote byte
	// Header marks the first row as a header that is not part of Rows.
	Header bool
}

// DefaultDialect splits on ',' with '"' as quote character and no header row.
func DefaultDialect() Dialect {
	return Dialect{Delimiter: ',', Quote: '"'}
}

func isSeparator(b byte) bool {
	return b != 0 && b != '\n' && b != '\r'
}

// Validate reports whether the dialect can be used to tokenize input.
func (d Dialect) Validate() error {
	if !isSeparator(d.Delimiter) {
		return ErrInvalidDelimiter
	}
	if !isSeparator(d.Quote) {
		return ErrInvalidQuote
	}
	if d.Delimiter == d.Quote {
		return ErrDelimiterIsQuote
	}
	return nil
}

// Reader tokenizes data according to a Dialect.
type Reader struct {
	data    []byte
	dialect Dialect
}

// NewReader returns a Reader over data. Zero Delimiter or Quote fields fall back to the
// DefaultDialect values.
func NewReader(data []byte, d Dialect) *Reader {
	def := DefaultDialect()
	if d.Delimiter == 0 {
		d.Delimiter = def.Delimiter
	}
	if d.Quote == 0 {
		d.Quote = def.Quote
	}
	return &Reader{data: data, dialect: d}
}

// Dialect returns the dialect used by the reader.
func (r *Reader) Dialect() Dialect {
	return r.dialect
}

// Header returns the first row if the dialect declares a header row.
func (r *Reader) Header() (Row, bool) {
	if !r.dialect.Header || len(r.data) == 0 {
		return Row{}, false
	}
	end, _, _ := r.scanRow(0)
	return r.newRow(0, end, 1), true
}

// Rows returns the rows of the input in order. Every call starts over at the beginning of
// the data, so the sequence can be traversed any number of times.
func (r *Reader) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		pos, line := 0, 1
		skipHeader := r.dialect.Header
		for pos < len(r.data) {
			end, next, lines := r.scanRow(pos)
			row := r.newRow(pos, end, line)
			pos, line = next, line+lines
			if skipHeader {
				skipHeader = false
				continue
			}
			if !yield(row) {
				return
			}
		}
	}
}

func (r *Reader) newRow(start, end, line int) Row {
	return Row{
		data:      r.data[start:end:end],
		line:      line,
		delimiter: r.dialect.Delimiter,
		quote:     r.dialect.Quote,
	}
}

// scanRow finds the row starting at start. It returns the end of the row content without
// line terminator, the start of the next row and the number of line breaks consumed.
func (r *Reader) scanRow(start int) (end, next, lines int) {
	data := r.data
	quote := r.dialect.Quote
	inQuotes := false
	pos := start
	for {
		segEnd := len(data)
		nl := bytes.IndexByte(data[pos:], '\n')
		if nl >= 0 {
			segEnd = pos + nl
		}
		if bytes.Count(data[pos:segEnd], []byte{quote})%2 == 1 {
			inQuotes = !inQuotes
		}
		switch {
		case nl < 0:
			return trimCR(data, start, segEnd), segEnd, lines
		case !inQuotes:
			return trimCR(data, start, segEnd), segEnd + 1, lines + 1
		}
		// line break inside a quoted cell
		lines++
		pos = segEnd + 1
	}
}

func trimCR(data []byte, start, end int) int {
	if end > start && data[end-1] == '\r' {
		return end - 1
	}
	return end
}

// Row is a single record of the input.
type Row struct {
	data      []byte
	line      int
	delimiter byte
	quote     byte
}

// Raw returns the row content without line terminator.
func (r Row) Raw() []byte {
	return r.data
}

// Line returns the 1-based line number the row starts on.
func (r Row) Line() int {
	return r.line
}

// Cells returns the cells of the row in order. A row always has at least one cell.
func (r Row) Cells() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		data := r.data
		if bytes.IndexByte(data, r.quote) < 0 {
			for {
				i := bytes.IndexByte(data, r.delimiter)
				if i < 0 {
					yield(Cell{data: data, quote: r.quote})
					return
				}
				if !yield(Cell{data: data[:i:i], quote: r.quote}) {
					return
				}
				data = data[i+1:]
			}
		}

		start := 0
		inQuotes := false
		for i, c := range data {
			switch {
			case c == r.quote:
				inQuotes = !inQuotes
			case c == r.delimiter && !inQuotes:
				if !yield(Cell{data: data[start:i:i], quote: r.quote}) {
					return
				}
				start = i + 1
			}
		}
		yield(Cell{data: data[start:], quote: r.quote})
	}
}

// Values returns the unescaped values of all cells of the row.
func (r Row) Values() []string {
	var values []string
	for cell := range r.Cells() {
		values = append(values, cell.Value())
	}
	return values
}

// Cell is a single field of a row.
type Cell struct {
	data  []byte
	quote byte
}

// Raw returns the cell exactly as it appears in the input, including quotes.
func (c Cell) Raw() []byte {
	return c.data
}

// Quoted reports whether the cell is enclosed in quote characters.
func (c Cell) Quoted() bool {
	n := len(c.data)
	return n >= 2 && c.data[0] == c.quote && c.data[n-1] == c.quote
}

// AppendValue appends the unescaped cell value to dst. Enclosing quotes are removed and
// doubled quote characters are collapsed.
func (c Cell) AppendValue(dst []byte) []byte {
	if !c.Quoted() {
		return append(dst, c.data...)
	}
	inner := c.data[1 : len(c.data)-1]
	for {
		i := bytes.IndexByte(inner, c.quote)
		if i < 0 {
			return append(dst, inner...)
		}
		dst = append(dst, inner[:i+1]...)
		inner = inner[i+1:]
		if len(inner) > 0 && inner[0] == c.quote {
			inner = inner[1:]
		}
	}
}

// Value returns the unescaped cell value.
func (c Cell) Value() string {
	if !c.Quoted() {
		return string(c.data)
	}
	return string(c.AppendValue(make([]byte, 0, len(c.data))))
}
