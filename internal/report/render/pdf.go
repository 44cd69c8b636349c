package render

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/smallbiznis/crmlite/internal/config"
	"github.com/smallbiznis/crmlite/internal/report/domain"
)

const ContentTypePDF = "application/pdf"

const (
	customFontFamily = "report"
	rowHeight        = 7
	spacerHeight     = 4
)

// Grid columns A..D mapped onto the 12-column maroto page grid.
var pdfColumnSizes = map[int]int{1: 6, 2: 2, 3: 2, 4: 2}

// PDF renders the grid as a plain table. Charts are not drawn.
type PDF struct {
	fontPath func() string
}

// NewPDF returns a PDF renderer. fontPath, when set, must point at a UTF-8 TTF font;
// without it the built-in fonts are used and non-Latin glyphs may not display.
func NewPDF(fontPath string) *PDF {
	return &PDF{fontPath: func() string { return fontPath }}
}

// NewPDFFromConfig reads the font path from the report config on every render so
// reloads apply without a restart.
func NewPDFFromConfig(holder *config.ReportConfigHolder) *PDF {
	return &PDF{fontPath: func() string { return holder.Get().PDF.FontPath }}
}

func (*PDF) Format() domain.Format { return domain.FormatPDF }

func (*PDF) ContentType() string { return ContentTypePDF }

func (r *PDF) Render(doc domain.Document) ([]byte, error) {
	builder := marotoconfig.NewBuilder()
	if fontPath := r.fontPath(); fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(customFontFamily, fontstyle.Normal, fontPath).
			AddUTF8Font(customFontFamily, fontstyle.Bold, fontPath).
			AddUTF8Font(customFontFamily, fontstyle.Italic, fontPath).
			AddUTF8Font(customFontFamily, fontstyle.BoldItalic, fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("load pdf font: %w", err)
		}
		builder = builder.WithCustomFonts(fonts).WithDefaultFont(&props.Font{Family: customFontFamily})
	}

	m := maroto.New(builder.Build())

	grid := doc.Grid
	spans := mergeSpans(grid)
	rows, cols := grid.Bounds()
	for row := 1; row <= rows; row++ {
		var line []core.Col
		filled := false
		for c := 1; c <= cols; c++ {
			ref := domain.Ref{Row: row, Col: c}
			if covered(spans, ref) {
				continue
			}
			size := pdfColumnSizes[c]
			if last, ok := spans[ref]; ok {
				size = 0
				for k := c; k <= last; k++ {
					size += pdfColumnSizes[k]
				}
			}
			cell, ok := grid.Cell(ref)
			if !ok || cell.Value.String() == "" {
				line = append(line, col.New(size))
				continue
			}
			filled = true
			line = append(line, text.NewCol(size, cell.Value.String(), textProps(cell.Style)))
		}
		if !filled {
			m.AddRow(spacerHeight)
			continue
		}
		m.AddRow(rowHeight, line...)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}

// mergeSpans maps the top-left cell of every horizontal merge to its last column.
func mergeSpans(grid domain.Grid) map[domain.Ref]int {
	spans := make(map[domain.Ref]int)
	for _, m := range grid.Merges() {
		spans[m.From] = m.To.Col
	}
	return spans
}

func covered(spans map[domain.Ref]int, ref domain.Ref) bool {
	for from, last := range spans {
		if from.Row == ref.Row && ref.Col > from.Col && ref.Col <= last {
			return true
		}
	}
	return false
}

func textProps(s domain.Style) props.Text {
	p := props.Text{Size: s.FontSize, Top: 1}
	switch {
	case s.Bold && s.Italic:
		p.Style = fontstyle.BoldItalic
	case s.Bold:
		p.Style = fontstyle.Bold
	case s.Italic:
		p.Style = fontstyle.Italic
	}
	switch s.Align {
	case domain.AlignCenter:
		p.Align = align.Center
	case domain.AlignRight:
		p.Align = align.Right
	default:
		p.Align = align.Left
	}
	return p
}
