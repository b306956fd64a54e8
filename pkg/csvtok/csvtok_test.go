package csvtok

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(r *Reader) [][]string {
	var rows [][]string
	for row := range r.Rows() {
		rows = append(rows, row.Values())
	}
	return rows
}

func TestReaderRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		dialect Dialect
		want    [][]string
	}{
		{
			name:  "basicRows",
			input: "a,b,c\n1,2,3\n",
			want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:  "singleField",
			input: "x\n",
			want:  [][]string{{"x"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "finalRowWithoutTerminator",
			input: "alpha,beta\ngamma",
			want:  [][]string{{"alpha", "beta"}, {"gamma"}},
		},
		{
			name:  "windowsLineEndings",
			input: "a,b\r\nc,d\r\n",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "emptyLine",
			input: "a\n\nb\n",
			want:  [][]string{{"a"}, {""}, {"b"}},
		},
		{
			name:  "emptyFields",
			input: ",,\n",
			want:  [][]string{{"", "", ""}},
		},
		{
			name:  "quotedDelimiter",
			input: "a,\"b,b\",c\n",
			want:  [][]string{{"a", "b,b", "c"}},
		},
		{
			name:  "escapedQuote",
			input: "a,\"b\"\"c\",d\n",
			want:  [][]string{{"a", "b\"c", "d"}},
		},
		{
			name:  "embeddedNewline",
			input: "a,\"b\nc\",d\ne,f,g\n",
			want:  [][]string{{"a", "b\nc", "d"}, {"e", "f", "g"}},
		},
		{
			name:  "emptyQuoted",
			input: "\"\",x\n",
			want:  [][]string{{"", "x"}},
		},
		{
			name:  "unterminatedQuoteRunsToEOF",
			input: "a,\"b\nc,d\n",
			want:  [][]string{{"a", "\"b\nc,d\n"}},
		},
		{
			name:    "customDialect",
			input:   "left;'up;down'\n",
			dialect: Dialect{Delimiter: ';', Quote: '\''},
			want:    [][]string{{"left", "up;down"}},
		},
		{
			name:    "headerSkipped",
			input:   "name,age\nada,36\n",
			dialect: Dialect{Header: true},
			want:    [][]string{{"ada", "36"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := NewReader([]byte(tc.input), tc.dialect)
			require.Equal(t, tc.want, collect(r))
		})
	}
}

func TestReaderRowsRestartable(t *testing.T) {
	r := NewReader([]byte("a,b,c\n1,2,3\n4,5,6\n"), DefaultDialect())
	first := collect(r)
	second := collect(r)
	require.Len(t, first, 3)
	require.Equal(t, first, second)
}

func TestReaderRowsEarlyStop(t *testing.T) {
	r := NewReader([]byte("a\nb\nc\n"), DefaultDialect())
	seen := 0
	for row := range r.Rows() {
		seen++
		if string(row.Raw()) == "b" {
			break
		}
	}
	require.Equal(t, 2, seen)

	cells := 0
	for row := range r.Rows() {
		for range row.Cells() {
			cells++
			break
		}
	}
	require.Equal(t, 3, cells)
}

func TestReaderLineNumbers(t *testing.T) {
	r := NewReader([]byte("h1,h2\na,\"multi\nline\"\nb,c\n"), Dialect{Header: true})
	header, ok := r.Header()
	require.True(t, ok)
	require.Equal(t, []string{"h1", "h2"}, header.Values())
	require.Equal(t, 1, header.Line())

	var lines []int
	for row := range r.Rows() {
		lines = append(lines, row.Line())
	}
	require.Equal(t, []int{2, 4}, lines)
}

func TestReaderHeaderDisabled(t *testing.T) {
	_, ok := NewReader([]byte("a,b\n"), DefaultDialect()).Header()
	require.False(t, ok)
	_, ok = NewReader(nil, Dialect{Header: true}).Header()
	require.False(t, ok)
}

func TestCellRawAndValue(t *testing.T) {
	r := NewReader([]byte("plain,\"quo\"\"ted\",\"\n"), DefaultDialect())
	var raws, values []string
	var quoted []bool
	for row := range r.Rows() {
		for cell := range row.Cells() {
			raws = append(raws, string(cell.Raw()))
			values = append(values, cell.Value())
			quoted = append(quoted, cell.Quoted())
		}
	}
	require.Equal(t, []string{"plain", "\"quo\"\"ted\"", "\"\n"}, raws)
	require.Equal(t, []string{"plain", "quo\"ted", "\"\n"}, values)
	require.Equal(t, []bool{false, true, false}, quoted)

	dst := []byte("prefix:")
	for row := range NewReader([]byte("\"a\"\"b\"\n"), DefaultDialect()).Rows() {
		for cell := range row.Cells() {
			dst = cell.AppendValue(dst)
		}
	}
	require.Equal(t, "prefix:a\"b", string(dst))
}

func TestDialectValidate(t *testing.T) {
	require.NoError(t, DefaultDialect().Validate())
	require.NoError(t, Dialect{Delimiter: '\t', Quote: '\''}.Validate())
	require.ErrorIs(t, Dialect{Quote: '"'}.Validate(), ErrInvalidDelimiter)
	require.ErrorIs(t, Dialect{Delimiter: '\n', Quote: '"'}.Validate(), ErrInvalidDelimiter)
	require.ErrorIs(t, Dialect{Delimiter: ',', Quote: '\r'}.Validate(), ErrInvalidQuote)
	require.ErrorIs(t, Dialect{Delimiter: ',', Quote: ','}.Validate(), ErrDelimiterIsQuote)
}
