// internal/app/system/charts/charts.go

// Package charts reshapes raw aggregate counts into the series the frontend
// chart components consume. Everything here is a pure function run after
// data fetch, before render; drawing happens client-side.
package charts

// QuarterPoint is one bar of the quarterly contributions chart.
type QuarterPoint struct {
	Quarter string `json:"quarter"`
	Value   int64  `json:"value"`
}

// quarterOrder fixes the output order regardless of input map iteration.
var quarterOrder = [4]string{"Q1", "Q2", "Q3", "Q4"}

// ToQuarterlySeries turns totals keyed by quarter label into an ordered
// Q1..Q4 series. Absent quarters appear with value 0; labels outside Q1..Q4
// are ignored.
func ToQuarterlySeries(totals map[string]int64) []QuarterPoint {
	series := make([]QuarterPoint, 0, len(quarterOrder))
	for _, q := range quarterOrder {
		series = append(series, QuarterPoint{Quarter: q, Value: totals[q]})
	}
	return series
}

// PieSlice is one slice of the membership status pie.
type PieSlice struct {
	Category string `json:"category"`
	Value    int64  `json:"value"`
}

// StatusCounts are the raw membership counts the dashboard aggregates.
type StatusCounts struct {
	Overall int64
	Active  int64
	New     int64
	Pending int64
}

// ToPieSlices builds the membership pie. The inactive count is derived as
// max(0, overall - active - new - pending): the chapter's reporting sheet
// treats New and Pending as disjoint from Active. That is a business rule
// inherited from the roster process, not an invariant this code verifies.
// Zero-valued slices are omitted.
func ToPieSlices(c StatusCounts) []PieSlice {
	inactive := c.Overall - c.Active - c.New - c.Pending
	if inactive < 0 {
		inactive = 0
	}
	all := []PieSlice{
		{Category: "Active", Value: c.Active},
		{Category: "New", Value: c.New},
		{Category: "Pending", Value: c.Pending},
		{Category: "Inactive", Value: inactive},
	}
	slices := make([]PieSlice, 0, len(all))
	for _, s := range all {
		if s.Value > 0 {
			slices = append(slices, s)
		}
	}
	return slices
}
