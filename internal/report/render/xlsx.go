package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	defaultSheet    = "Sheet1"
	defaultFontSize = 11
)

// XLSX writes the grid and its charts into an OOXML workbook with a single sheet.
type XLSX struct{}

func NewXLSX() *XLSX { return &XLSX{} }

func (*XLSX) Format() domain.Format { return domain.FormatXLSX }

func (*XLSX) ContentType() string { return ContentTypeXLSX }

func (r *XLSX) Render(doc domain.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.Grid.SheetName()
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styles := make(map[domain.Style]int)
	styleID := func(s domain.Style) (int, error) {
		if id, ok := styles[s]; ok {
			return id, nil
		}
		id, err := f.NewStyle(toStyle(s))
		if err != nil {
			return 0, err
		}
		styles[s] = id
		return id, nil
	}

	// Column styles go first so the cell styles below override them.
	for _, cs := range doc.Grid.ColumnStyles() {
		col := domain.ColumnName(cs.Col)
		id, err := styleID(cs.Style)
		if err != nil {
			return nil, fmt.Errorf("style column %s: %w", col, err)
		}
		if err := f.SetColStyle(sheet, col, id); err != nil {
			return nil, fmt.Errorf("style column %s: %w", col, err)
		}
	}

	for _, c := range doc.Grid.Cells() {
		cell := c.Ref.String()
		if err := setValue(f, sheet, cell, c.Value); err != nil {
			return nil, fmt.Errorf("set %s: %w", cell, err)
		}
		if c.Style == (domain.Style{}) {
			continue
		}
		id, err := styleID(c.Style)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
			return nil, fmt.Errorf("style %s: %w", cell, err)
		}
	}

	for _, m := range doc.Grid.Merges() {
		if err := f.MergeCell(sheet, m.From.String(), m.To.String()); err != nil {
			return nil, fmt.Errorf("merge %s: %w", m, err)
		}
	}

	for _, w := range doc.Grid.ColumnWidths() {
		col := domain.ColumnName(w.Col)
		if err := f.SetColWidth(sheet, col, col, w.Width); err != nil {
			return nil, fmt.Errorf("width %s: %w", col, err)
		}
	}

	for _, spec := range doc.Charts {
		chart, err := toChart(sheet, spec)
		if err != nil {
			return nil, err
		}
		if err := f.AddChart(sheet, spec.Anchor.String(), chart); err != nil {
			return nil, fmt.Errorf("chart %s: %w", spec.Name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setValue(f *excelize.File, sheet, cell string, v domain.Value) error {
	switch v.Kind {
	case domain.KindText, domain.KindDate:
		// Dates are written as their display text; the number format is kept as cell metadata.
		return f.SetCellValue(sheet, cell, v.Text)
	case domain.KindNumber:
		if v.Number == math.Trunc(v.Number) {
			return f.SetCellValue(sheet, cell, int64(v.Number))
		}
		return f.SetCellValue(sheet, cell, v.Number)
	default:
		return nil
	}
}

func toStyle(s domain.Style) *excelize.Style {
	size := s.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	style := &excelize.Style{
		Font: &excelize.Font{Bold: s.Bold, Italic: s.Italic, Size: size},
	}
	if s.Align != domain.AlignDefault {
		style.Alignment = &excelize.Alignment{Horizontal: string(s.Align)}
	}
	if s.NumFmt != "" {
		numFmt := s.NumFmt
		style.CustomNumFmt = &numFmt
	}
	return style
}

func toChart(sheet string, spec domain.ChartSpec) (*excelize.Chart, error) {
	var kind excelize.ChartType
	switch spec.Kind {
	case domain.ChartPie:
		kind = excelize.Pie
	case domain.ChartClusteredColumn:
		kind = excelize.Col
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}

	return &excelize.Chart{
		Type: kind,
		Series: []excelize.ChartSeries{{
			Categories: formula(sheet, spec.Categories),
			Values:     formula(sheet, spec.Values),
		}},
		Title:     []excelize.RichTextRun{{Text: spec.Title}},
		Legend:    excelize.ChartLegend{Position: string(spec.Legend)},
		PlotArea:  excelize.ChartPlotArea{ShowPercent: spec.ShowPercent},
		Dimension: excelize.ChartDimension{Width: uint(spec.Width), Height: uint(spec.Height)},
	}, nil
}

// formula joins several ranges into one union reference, e.g. ('Лист 1'!$B$4,'Лист 1'!$B$10:$B$13).
func formula(sheet string, ranges []domain.Range) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, r.Formula(sheet))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, ",") + ")"
}
