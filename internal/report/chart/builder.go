package chart

import (
	"fmt"

	"github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/smallbiznis/crmlite/internal/report/layout"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 400

	// AnchorRow is the shared top row of all charts, two rows below the table.
	AnchorRow = 15

	StatusChartTitle = "Pre-sale"
	ResultChartTitle = "Сейл"
)

// Column offsets of each chart from column A.
const (
	statusChartOffset = 0
	resultChartOffset = 4
	funnelChartOffset = 11
)

type options struct {
	width  int
	height int
}

type Option func(*options)

// WithSize overrides the pixel size of every chart. Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// Build derives the status pie, result pie and funnel column chart from the grid ranges.
func Build(grid domain.Grid, opts ...Option) ([3]domain.ChartSpec, error) {
	o := options{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&o)
	}

	var charts [3]domain.ChartSpec

	names := []string{
		layout.RangeTitle,
		layout.RangeTotalLabel, layout.RangeTotalValue,
		layout.RangeStatusLabels, layout.RangeStatusValues,
		layout.RangeResultLabels, layout.RangeResultValues,
	}
	ranges := make(map[string]domain.Range, len(names))
	for _, name := range names {
		r, ok := grid.Range(name)
		if !ok {
			return charts, fmt.Errorf("%w: %s", domain.ErrMissingRange, name)
		}
		ranges[name] = r
	}

	charts[0] = domain.ChartSpec{
		Name:        "statusPieChart",
		Kind:        domain.ChartPie,
		Title:       StatusChartTitle,
		Values:      []domain.Range{ranges[layout.RangeStatusValues]},
		Categories:  []domain.Range{ranges[layout.RangeStatusLabels]},
		Legend:      domain.LegendBottom,
		ShowPercent: true,
		Width:       o.width,
		Height:      o.height,
		Anchor:      anchor(statusChartOffset),
	}

	charts[1] = domain.ChartSpec{
		Name:        "resultPieChart",
		Kind:        domain.ChartPie,
		Title:       ResultChartTitle,
		Values:      []domain.Range{ranges[layout.RangeResultValues]},
		Categories:  []domain.Range{ranges[layout.RangeResultLabels]},
		Legend:      domain.LegendBottom,
		ShowPercent: true,
		Width:       o.width,
		Height:      o.height,
		Anchor:      anchor(resultChartOffset),
	}

	// The funnel skips the status rows: total sent, then the four result stages.
	charts[2] = domain.ChartSpec{
		Name:       "salesFunnel",
		Kind:       domain.ChartClusteredColumn,
		Title:      grid.Value(ranges[layout.RangeTitle].From).String(),
		Values:     []domain.Range{ranges[layout.RangeTotalValue], ranges[layout.RangeResultValues]},
		Categories: []domain.Range{ranges[layout.RangeTotalLabel], ranges[layout.RangeResultLabels]},
		Legend:     domain.LegendNone,
		Width:      o.width,
		Height:     o.height,
		Anchor:     anchor(funnelChartOffset),
	}

	return charts, nil
}

func anchor(colOffset int) domain.Ref {
	return domain.Ref{Row: AnchorRow, Col: colOffset + 1}
}
