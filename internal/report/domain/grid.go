package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Ref is a 1-based (row, column) cell coordinate.
type Ref struct {
	Row int
	Col int
}

func (r Ref) String() string {
	return ColumnName(r.Col) + strconv.Itoa(r.Row)
}

// Absolute renders the ref as $A$1.
func (r Ref) Absolute() string {
	return "$" + ColumnName(r.Col) + "$" + strconv.Itoa(r.Row)
}

// ColumnName converts a 1-based column index to its letter form (1 -> A, 27 -> AA).
func ColumnName(col int) string {
	if col < 1 {
		return ""
	}
	var name []byte
	for col > 0 {
		col--
		name = append([]byte{byte('A' + col%26)}, name...)
		col /= 26
	}
	return string(name)
}

// Range is an inclusive rectangle of cells. A single cell has From == To.
type Range struct {
	From Ref
	To   Ref
}

// Single is the one-cell range at ref.
func Single(ref Ref) Range { return Range{From: ref, To: ref} }

func (r Range) String() string {
	if r.From == r.To {
		return r.From.String()
	}
	return r.From.String() + ":" + r.To.String()
}

// Formula renders the range as a sheet-qualified absolute reference.
func (r Range) Formula(sheet string) string {
	prefix := "'" + strings.ReplaceAll(sheet, "'", "''") + "'!"
	if r.From == r.To {
		return prefix + r.From.Absolute()
	}
	return prefix + r.From.Absolute() + ":" + r.To.Absolute()
}

// Refs lists every cell of the range in row-major order.
func (r Range) Refs() []Ref {
	var refs []Ref
	for row := r.From.Row; row <= r.To.Row; row++ {
		for col := r.From.Col; col <= r.To.Col; col++ {
			refs = append(refs, Ref{Row: row, Col: col})
		}
	}
	return refs
}

type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindText
	KindNumber
	KindDate
)

// Value is a cell value. Date values keep their display text next to the instant.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Time   time.Time
}

func Empty() Value { return Value{Kind: KindEmpty} }

func Text(s string) Value { return Value{Kind: KindText, Text: s} }

func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }

func Date(t time.Time, display string) Value {
	return Value{Kind: KindDate, Text: display, Time: t}
}

func (v Value) String() string {
	switch v.Kind {
	case KindText, KindDate:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
}

type Align string

const (
	AlignDefault Align = ""
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
)

type Style struct {
	Bold     bool
	Italic   bool
	FontSize float64
	Align    Align
	NumFmt   string
}

type Cell struct {
	Ref   Ref
	Value Value
	Style Style
}

// ColumnStyle is the default style of a whole column. Cell styles take precedence.
type ColumnStyle struct {
	Col   int
	Style Style
}

type ColumnWidth struct {
	Col   int
	Width float64
}

// Grid is an immutable sheet description: cells, merges, column widths and named ranges.
type Grid struct {
	sheet  string
	cells  map[Ref]Cell
	merges []Range
	widths map[int]float64
	cols   map[int]Style
	names  map[string]Range
}

func (g Grid) SheetName() string { return g.sheet }

func (g Grid) Cell(ref Ref) (Cell, bool) {
	c, ok := g.cells[ref]
	return c, ok
}

// Value returns the value at ref, or an empty value.
func (g Grid) Value(ref Ref) Value {
	return g.cells[ref].Value
}

// Cells returns every cell sorted by row, then column.
func (g Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.cells))
	for _, c := range g.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ref.Row != out[j].Ref.Row {
			return out[i].Ref.Row < out[j].Ref.Row
		}
		return out[i].Ref.Col < out[j].Ref.Col
	})
	return out
}

func (g Grid) Merges() []Range { return append([]Range(nil), g.merges...) }

func (g Grid) ColumnWidths() []ColumnWidth {
	out := make([]ColumnWidth, 0, len(g.widths))
	for col, w := range g.widths {
		out = append(out, ColumnWidth{Col: col, Width: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Col < out[j].Col })
	return out
}

func (g Grid) ColumnStyles() []ColumnStyle {
	out := make([]ColumnStyle, 0, len(g.cols))
	for col, st := range g.cols {
		out = append(out, ColumnStyle{Col: col, Style: st})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Col < out[j].Col })
	return out
}

func (g Grid) ColumnWidth(col int) (float64, bool) {
	w, ok := g.widths[col]
	return w, ok
}

func (g Grid) Range(name string) (Range, bool) {
	r, ok := g.names[name]
	return r, ok
}

// Bounds returns the last used row and column.
func (g Grid) Bounds() (rows, cols int) {
	for ref := range g.cells {
		if ref.Row > rows {
			rows = ref.Row
		}
		if ref.Col > cols {
			cols = ref.Col
		}
	}
	return rows, cols
}

// GridBuilder accumulates cells for a Grid. It is not safe for concurrent use.
type GridBuilder struct {
	grid Grid
}

func NewGridBuilder(sheet string) *GridBuilder {
	return &GridBuilder{grid: Grid{
		sheet:  sheet,
		cells:  map[Ref]Cell{},
		widths: map[int]float64{},
		cols:   map[int]Style{},
		names:  map[string]Range{},
	}}
}

func (b *GridBuilder) Set(ref Ref, value Value, style Style) *GridBuilder {
	b.grid.cells[ref] = Cell{Ref: ref, Value: value, Style: style}
	return b
}

// Style replaces the style of ref, creating an empty cell if needed.
func (b *GridBuilder) Style(ref Ref, fn func(*Style)) *GridBuilder {
	c, ok := b.grid.cells[ref]
	if !ok {
		c = Cell{Ref: ref, Value: Empty()}
	}
	fn(&c.Style)
	b.grid.cells[ref] = c
	return b
}

func (b *GridBuilder) Merge(r Range) *GridBuilder {
	b.grid.merges = append(b.grid.merges, r)
	return b
}

func (b *GridBuilder) Width(col int, width float64) *GridBuilder {
	b.grid.widths[col] = width
	return b
}

func (b *GridBuilder) ColumnStyle(col int, style Style) *GridBuilder {
	b.grid.cols[col] = style
	return b
}

func (b *GridBuilder) Name(name string, r Range) *GridBuilder {
	b.grid.names[name] = r
	return b
}

// Build returns a copy so further builder calls do not leak into the grid.
func (b *GridBuilder) Build() Grid {
	g := Grid{
		sheet:  b.grid.sheet,
		cells:  make(map[Ref]Cell, len(b.grid.cells)),
		merges: append([]Range(nil), b.grid.merges...),
		widths: make(map[int]float64, len(b.grid.widths)),
		cols:   make(map[int]Style, len(b.grid.cols)),
		names:  make(map[string]Range, len(b.grid.names)),
	}
	for k, v := range b.grid.cells {
		g.cells[k] = v
	}
	for k, v := range b.grid.widths {
		g.widths[k] = v
	}
	for k, v := range b.grid.cols {
		g.cols[k] = v
	}
	for k, v := range b.grid.names {
		g.names[k] = v
	}
	return g
}
