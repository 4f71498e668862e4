package model

// LineKind identifies which side of the price channel a trendline bounds.
type LineKind string

const (
	KindUpper LineKind = "UPPER" // resistance, drawn blue by the source
	KindLower LineKind = "LOWER" // support, drawn pink by the source
)

// LineStatus marks whether the source still considers a line current.
type LineStatus int

const (
	StatusInactive LineStatus = 0
	StatusActive   LineStatus = 1
)

// PatternEndpoint is one endpoint of a drawn trendline in chart pixel space.
// X is the bar ordinal on the rendered chart, Y the vertical pixel offset
// measured from the top of the canvas.
type PatternEndpoint struct {
	X int
	Y int
}

// PatternDescriptor is one trendline candidate as reported by the pattern source.
type PatternDescriptor struct {
	Kind     LineKind
	Status   LineStatus
	Strength float64
	Bounces  int
	Start    PatternEndpoint
	End      PatternEndpoint
}

// AxisBounds describes the price scale the descriptor pixel coordinates map onto.
// CanvasHeight must match the exact rendering height the source used.
type AxisBounds struct {
	MaxPrice     float64
	MinPrice     float64
	CanvasHeight int
}

// PatternSet is everything the pattern source reports for one symbol.
type PatternSet struct {
	Symbol      string
	Bounds      AxisBounds
	Descriptors []PatternDescriptor
	ChartBars   int // ordinal of the most recent bar on the rendered chart
}
