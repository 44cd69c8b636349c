package render

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/crmlite/internal/report/chart"
	"github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/smallbiznis/crmlite/internal/report/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument(t *testing.T) domain.Document {
	t.Helper()
	stats := domain.NewStats(
		[]domain.Bucket{
			{Name: domain.StatusHandedToSales, Count: 2},
			{Name: domain.StatusInProgress, Count: 3},
			{Name: domain.StatusNotInterested, Count: 5},
		},
		[]domain.Bucket{
			{Name: domain.ResultInProgress, Count: 1},
			{Name: domain.ResultDeclined, Count: 0},
			{Name: domain.ResultDemoScheduled, Count: 1},
			{Name: domain.ResultSucceeded, Count: 0},
		},
		4,
		10,
	)
	now := time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)
	grid := layout.Build(stats, "Кампания", now)
	charts, err := chart.Build(grid)
	require.NoError(t, err)
	return domain.Document{Title: "Кампания", Date: now, Grid: grid, Charts: charts[:]}
}

// zipParts returns the bodies of every archive entry whose name starts with prefix.
func zipParts(t *testing.T, data []byte, prefix string) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var parts []string
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		parts = append(parts, string(body))
	}
	return parts
}

func chartXML(t *testing.T, data []byte) string {
	t.Helper()
	parts := zipParts(t, data, "xl/charts/chart")
	require.Len(t, parts, 3)
	return strings.Join(parts, "")
}

var anchorFrom = regexp.MustCompile(`<xdr:from><xdr:col>(\d+)</xdr:col><xdr:colOff>-?\d+</xdr:colOff><xdr:row>(\d+)</xdr:row>`)

// Chart parts may or may not carry the c: prefix depending on the writer.
var (
	pieChart = regexp.MustCompile(`<(c:)?pieChart>`)
	legend   = regexp.MustCompile(`<(c:)?legend>`)
)

func TestXLSXRender(t *testing.T) {
	renderer := NewXLSX()
	assert.Equal(t, domain.FormatXLSX, renderer.Format())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", renderer.ContentType())

	data, err := renderer.Render(sampleDocument(t))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{layout.SheetName}, f.GetSheetList())
	sheet := layout.SheetName

	values := map[string]string{
		"A1":  "Кампания",
		"C2":  "Статус на",
		"A3":  "Регионов в работе",
		"B3":  "4",
		"A4":  "Всего отправлено предложений",
		"B4":  "10",
		"A5":  "Передано сейлу",
		"B7":  "5",
		"A9":  "Сейлы:",
		"A12": "Договорились на демонстрацию",
		"B12": "1",
	}
	for cell, want := range values {
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	date, err := f.GetCellValue(sheet, "D2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "7.3.2024", date)

	merges, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	var merged []string
	for _, m := range merges {
		merged = append(merged, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	assert.ElementsMatch(t, []string{"A1:C1", "A2:B2"}, merged)

	widthB, err := f.GetColWidth(sheet, "B")
	require.NoError(t, err)
	assert.InDelta(t, 10.33, widthB, 0.001)
	widthD, err := f.GetColWidth(sheet, "D")
	require.NoError(t, err)
	assert.InDelta(t, 10.33, widthD, 0.001)

	styleID, err := f.GetCellStyle(sheet, "B5")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.Equal(t, float64(10), style.Font.Size)

	xml := chartXML(t, data)
	assert.Contains(t, xml, "$B$5:$B$7")
	assert.Contains(t, xml, "$A$10:$A$13")
	assert.Contains(t, xml, "!$B$4,")
	assert.Contains(t, xml, "!$A$4,")
	assert.Contains(t, xml, "Pre-sale")

	colStyleID, err := f.GetColStyle(sheet, "B")
	require.NoError(t, err)
	colStyle, err := f.GetStyle(colStyleID)
	require.NoError(t, err)
	require.NotNil(t, colStyle.Alignment)
	assert.Equal(t, "center", colStyle.Alignment.Horizontal)
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "right", style.Alignment.Horizontal)
}

func TestXLSXChartPlacementAndLegends(t *testing.T) {
	data, err := NewXLSX().Render(sampleDocument(t))
	require.NoError(t, err)

	drawings := zipParts(t, data, "xl/drawings/drawing")
	require.Len(t, drawings, 1)
	var anchors []string
	for _, m := range anchorFrom.FindAllStringSubmatch(drawings[0], -1) {
		anchors = append(anchors, m[1]+":"+m[2])
	}
	// Zero-based: A15, E15 and L15.
	assert.ElementsMatch(t, []string{"0:14", "4:14", "11:14"}, anchors)

	charts := zipParts(t, data, "xl/charts/chart")
	require.Len(t, charts, 3)
	var pies, withoutLegend int
	for _, c := range charts {
		if pieChart.MatchString(c) {
			pies++
			assert.Regexp(t, `<(c:)?showPercent val="1"`, c)
			assert.Regexp(t, `<(c:)?legendPos val="b"`, c)
		}
		if !legend.MatchString(c) {
			withoutLegend++
			assert.Regexp(t, `<(c:)?barChart>`, c)
		}
	}
	assert.Equal(t, 2, pies)
	assert.Equal(t, 1, withoutLegend)
}

func TestXLSXRenderRejectsUnknownChartKind(t *testing.T) {
	doc := sampleDocument(t)
	doc.Charts = []domain.ChartSpec{{Name: "x", Kind: "radar", Anchor: domain.Ref{Row: 15, Col: 1}}}

	_, err := NewXLSX().Render(doc)
	assert.Error(t, err)
}

func TestFormulaUnion(t *testing.T) {
	single := []domain.Range{{From: domain.Ref{Row: 5, Col: 2}, To: domain.Ref{Row: 7, Col: 2}}}
	assert.Equal(t, "'Лист 1'!$B$5:$B$7", formula("Лист 1", single))

	union := []domain.Range{
		domain.Single(domain.Ref{Row: 4, Col: 2}),
		{From: domain.Ref{Row: 10, Col: 2}, To: domain.Ref{Row: 13, Col: 2}},
	}
	assert.Equal(t, "('Лист 1'!$B$4,'Лист 1'!$B$10:$B$13)", formula("Лист 1", union))
}

func TestPDFRender(t *testing.T) {
	renderer := NewPDF("")
	assert.Equal(t, domain.FormatPDF, renderer.Format())
	assert.Equal(t, "application/pdf", renderer.ContentType())

	data, err := renderer.Render(sampleDocument(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPDFRenderMissingFont(t *testing.T) {
	_, err := NewPDF("/nonexistent/font.ttf").Render(sampleDocument(t))
	assert.Error(t, err)
}
