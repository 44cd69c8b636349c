package domain

type ChartKind string

const (
	ChartPie             ChartKind = "pie"
	ChartClusteredColumn ChartKind = "clustered_column"
)

type LegendPosition string

const (
	LegendBottom LegendPosition = "bottom"
	LegendNone   LegendPosition = "none"
)

// ChartSpec describes one chart by the grid ranges it plots. Values and Categories may
// hold several ranges, which are plotted as one series.
type ChartSpec struct {
	Name        string
	Kind        ChartKind
	Title       string
	Values      []Range
	Categories  []Range
	Legend      LegendPosition
	ShowPercent bool
	Width       int
	Height      int
	Anchor      Ref
}
