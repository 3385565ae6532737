package render

import (
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/buildsite/crewplan/core/model"
)

// UtilizationPoint is one day of the resource-utilization series.
type UtilizationPoint struct {
	Day       int
	Workers   int
	Cap       int
	Violation bool
}

// UtilizationSeries shapes the resource profile for display.
func UtilizationSeries(profile model.ResourceProfile) []UtilizationPoint {
	points := make([]UtilizationPoint, 0, len(profile.Days))
	for _, d := range profile.Days {
		points = append(points, UtilizationPoint{
			Day:       d.Day,
			Workers:   d.Workers,
			Cap:       d.Cap,
			Violation: d.Violation,
		})
	}
	return points
}

// UtilizationChart renders daily labor demand against the configured cap.
// Days carrying an unresolvable-conflict flag are drawn in the critical color.
func UtilizationChart(profile model.ResourceProfile, labourCap int) *charts.Line {
	points := UtilizationSeries(profile)

	days := make([]string, 0, len(points))
	demand := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		days = append(days, strconv.Itoa(p.Day))
		d := opts.LineData{Value: p.Workers}
		if p.Violation {
			d.Symbol = "triangle"
			d.SymbolSize = 12
		}
		demand = append(demand, d)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Daily Labor Demand",
			Subtitle: "workers per day vs. cap",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "400px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(days)
	if labourCap > 0 {
		line.AddSeries("workers", demand,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "cap", YAxis: labourCap}))
	} else {
		line.AddSeries("workers", demand)
	}
	return line
}
