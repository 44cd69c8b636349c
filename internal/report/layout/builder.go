package layout

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/smallbiznis/crmlite/internal/report/domain"
)

const SheetName = "Лист 1"

const (
	LabelStatusAt      = "Статус на"
	LabelRegionsInWork = "Регионов в работе"
	LabelTotalSent     = "Всего отправлено предложений"
	LabelSales         = "Сейлы:"
)

// Named ranges published on the grid for the chart builder.
const (
	RangeTitle        = "title"
	RangeTotalLabel   = "total_label"
	RangeTotalValue   = "total_value"
	RangeStatusLabels = "status_labels"
	RangeStatusValues = "status_values"
	RangeResultLabels = "result_labels"
	RangeResultValues = "result_values"
)

const DateNumberFormat = "dd.mm.yyyy"

const (
	colLabel    = 1
	colValue    = 2
	colStatusAt = 3
	colDate     = 4

	firstStatusRow = 5
	firstResultRow = 10
	lastRow        = 13

	bodyFontSize      = 10
	titleFontSize     = 12
	narrowColumnWidth = 10.33
	autoFitPadding    = 2
)

// FormatDate renders day.month.year without zero padding, e.g. 7.3.2024.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d.%d.%d", t.Day(), int(t.Month()), t.Year())
}

// Build places the aggregated values and their labels onto the fixed report grid.
func Build(stats domain.Stats, groupName string, now time.Time) domain.Grid {
	b := domain.NewGridBuilder(SheetName)

	for row := 2; row <= lastRow; row++ {
		for col := 1; col <= colDate; col++ {
			b.Set(domain.Ref{Row: row, Col: col}, domain.Empty(), domain.Style{FontSize: bodyFontSize})
		}
	}

	title := domain.Ref{Row: 1, Col: colLabel}
	b.Set(title, domain.Text(groupName), domain.Style{Bold: true, FontSize: titleFontSize})
	b.Merge(domain.Range{From: title, To: domain.Ref{Row: 1, Col: 3}})
	b.Merge(domain.Range{From: domain.Ref{Row: 2, Col: 1}, To: domain.Ref{Row: 2, Col: 2}})

	b.Set(domain.Ref{Row: 2, Col: colStatusAt}, domain.Text(LabelStatusAt),
		domain.Style{FontSize: bodyFontSize, Align: domain.AlignRight})
	b.Set(domain.Ref{Row: 2, Col: colDate}, domain.Date(now, FormatDate(now)),
		domain.Style{FontSize: bodyFontSize, Align: domain.AlignCenter, NumFmt: DateNumberFormat})

	labels := []string{LabelRegionsInWork, LabelTotalSent}
	pair(b, 3, LabelRegionsInWork, stats.RegionsInWork())
	pair(b, 4, LabelTotalSent, stats.Total())

	for i, name := range domain.RequiredStatusNames() {
		pair(b, firstStatusRow+i, name, stats.StatusCount(name))
		labels = append(labels, name)
	}

	b.Set(domain.Ref{Row: 9, Col: colLabel}, domain.Text(LabelSales),
		domain.Style{FontSize: bodyFontSize, Italic: true})
	labels = append(labels, LabelSales)

	for i, name := range domain.RequiredResultNames() {
		pair(b, firstResultRow+i, name, stats.ResultCount(name))
		labels = append(labels, name)
	}

	b.ColumnStyle(colValue, domain.Style{FontSize: bodyFontSize, Align: domain.AlignCenter})
	for row := 3; row <= lastRow; row++ {
		b.Style(domain.Ref{Row: row, Col: colValue}, func(s *domain.Style) {
			s.Bold = true
			s.Align = domain.AlignRight
		})
	}

	b.Width(colLabel, autoFitWidth(labels))
	b.Width(colValue, narrowColumnWidth)
	b.Width(colDate, narrowColumnWidth)

	statusRows := len(domain.RequiredStatusNames())
	resultRows := len(domain.RequiredResultNames())
	b.Name(RangeTitle, domain.Single(title))
	b.Name(RangeTotalLabel, domain.Single(domain.Ref{Row: 4, Col: colLabel}))
	b.Name(RangeTotalValue, domain.Single(domain.Ref{Row: 4, Col: colValue}))
	b.Name(RangeStatusLabels, column(colLabel, firstStatusRow, statusRows))
	b.Name(RangeStatusValues, column(colValue, firstStatusRow, statusRows))
	b.Name(RangeResultLabels, column(colLabel, firstResultRow, resultRows))
	b.Name(RangeResultValues, column(colValue, firstResultRow, resultRows))

	return b.Build()
}

func pair(b *domain.GridBuilder, row int, label string, value int) {
	b.Set(domain.Ref{Row: row, Col: colLabel}, domain.Text(label), domain.Style{FontSize: bodyFontSize})
	b.Set(domain.Ref{Row: row, Col: colValue}, domain.Number(float64(value)), domain.Style{FontSize: bodyFontSize})
}

func column(col, from, n int) domain.Range {
	return domain.Range{
		From: domain.Ref{Row: from, Col: col},
		To:   domain.Ref{Row: from + n - 1, Col: col},
	}
}

// autoFitWidth sizes a column to its longest label. There is no font metric available
// here, so one character counts as one width unit.
func autoFitWidth(labels []string) float64 {
	longest := 0
	for _, l := range labels {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}
	return float64(longest) + autoFitPadding
}
