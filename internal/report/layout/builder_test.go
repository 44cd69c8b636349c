package layout

import (
	"testing"
	"time"

	"github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats() domain.Stats {
	return domain.NewStats(
		[]domain.Bucket{
			{Name: domain.StatusHandedToSales, Count: 2},
			{Name: domain.StatusInProgress, Count: 3},
			{Name: domain.StatusNotInterested, Count: 5},
		},
		[]domain.Bucket{
			{Name: domain.ResultInProgress, Count: 4},
			{Name: domain.ResultDeclined, Count: 1},
			{Name: domain.ResultDemoScheduled, Count: 2},
			{Name: domain.ResultSucceeded, Count: 1},
		},
		3,
		10,
	)
}

func ref(row, col int) domain.Ref { return domain.Ref{Row: row, Col: col} }

func TestFormatDateIsUnpadded(t *testing.T) {
	assert.Equal(t, "7.3.2024", FormatDate(time.Date(2024, time.March, 7, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31.12.2023", FormatDate(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestBuildPlacesLabelsAndValues(t *testing.T) {
	now := time.Date(2024, time.March, 7, 9, 30, 0, 0, time.UTC)
	grid := Build(sampleStats(), "Весна 2024", now)

	assert.Equal(t, SheetName, grid.SheetName())

	expected := map[domain.Ref]string{
		ref(1, 1):  "Весна 2024",
		ref(2, 3):  LabelStatusAt,
		ref(2, 4):  "7.3.2024",
		ref(3, 1):  LabelRegionsInWork,
		ref(3, 2):  "3",
		ref(4, 1):  LabelTotalSent,
		ref(4, 2):  "10",
		ref(5, 1):  domain.StatusHandedToSales,
		ref(5, 2):  "2",
		ref(6, 1):  domain.StatusInProgress,
		ref(6, 2):  "3",
		ref(7, 1):  domain.StatusNotInterested,
		ref(7, 2):  "5",
		ref(8, 1):  "",
		ref(9, 1):  LabelSales,
		ref(10, 1): domain.ResultInProgress,
		ref(10, 2): "4",
		ref(11, 1): domain.ResultDeclined,
		ref(11, 2): "1",
		ref(12, 1): domain.ResultDemoScheduled,
		ref(12, 2): "2",
		ref(13, 1): domain.ResultSucceeded,
		ref(13, 2): "1",
	}
	for r, want := range expected {
		assert.Equal(t, want, grid.Value(r).String(), r.String())
	}

	date, ok := grid.Cell(ref(2, 4))
	require.True(t, ok)
	assert.Equal(t, domain.KindDate, date.Value.Kind)
	assert.True(t, date.Value.Time.Equal(now))

	rows, cols := grid.Bounds()
	assert.Equal(t, 13, rows)
	assert.Equal(t, 4, cols)
}

func TestBuildStyles(t *testing.T) {
	grid := Build(sampleStats(), "g", time.Now())

	title, _ := grid.Cell(ref(1, 1))
	assert.Equal(t, domain.Style{Bold: true, FontSize: 12}, title.Style)

	statusAt, _ := grid.Cell(ref(2, 3))
	assert.Equal(t, domain.AlignRight, statusAt.Style.Align)

	date, _ := grid.Cell(ref(2, 4))
	assert.Equal(t, domain.Style{FontSize: 10, Align: domain.AlignCenter, NumFmt: DateNumberFormat}, date.Style)

	for row := 3; row <= 13; row++ {
		c, ok := grid.Cell(ref(row, 2))
		require.True(t, ok)
		assert.True(t, c.Style.Bold, "B%d", row)
		assert.Equal(t, domain.AlignRight, c.Style.Align, "B%d", row)
		assert.Equal(t, float64(10), c.Style.FontSize, "B%d", row)
	}

	assert.Equal(t, []domain.ColumnStyle{
		{Col: 2, Style: domain.Style{FontSize: 10, Align: domain.AlignCenter}},
	}, grid.ColumnStyles())

	sales, _ := grid.Cell(ref(9, 1))
	assert.True(t, sales.Style.Italic)
	assert.False(t, sales.Style.Bold)

	corner, ok := grid.Cell(ref(13, 4))
	require.True(t, ok)
	assert.Equal(t, domain.KindEmpty, corner.Value.Kind)
	assert.Equal(t, float64(10), corner.Style.FontSize)
}

func TestBuildMergesAndWidths(t *testing.T) {
	grid := Build(sampleStats(), "g", time.Now())

	merges := grid.Merges()
	require.Len(t, merges, 2)
	assert.Equal(t, "A1:C1", merges[0].String())
	assert.Equal(t, "A2:B2", merges[1].String())

	widthB, ok := grid.ColumnWidth(2)
	require.True(t, ok)
	assert.Equal(t, 10.33, widthB)
	widthD, ok := grid.ColumnWidth(4)
	require.True(t, ok)
	assert.Equal(t, 10.33, widthD)

	widthA, ok := grid.ColumnWidth(1)
	require.True(t, ok)
	assert.Equal(t, float64(len([]rune(LabelTotalSent))+2), widthA)

	_, ok = grid.ColumnWidth(3)
	assert.False(t, ok)
}

func TestBuildNamedRanges(t *testing.T) {
	grid := Build(sampleStats(), "g", time.Now())

	expected := map[string]string{
		RangeTitle:        "A1",
		RangeTotalLabel:   "A4",
		RangeTotalValue:   "B4",
		RangeStatusLabels: "A5:A7",
		RangeStatusValues: "B5:B7",
		RangeResultLabels: "A10:A13",
		RangeResultValues: "B10:B13",
	}
	for name, want := range expected {
		r, ok := grid.Range(name)
		require.True(t, ok, name)
		assert.Equal(t, want, r.String(), name)
	}
}

func TestBuildZeroStats(t *testing.T) {
	grid := Build(domain.NewStats(nil, nil, 0, 0), "empty", time.Now())

	for row := 3; row <= 13; row++ {
		if row == 8 || row == 9 {
			continue
		}
		assert.Equal(t, "0", grid.Value(ref(row, 2)).String(), "B%d", row)
	}
}
