// Package render formats scheduler output into chart pages. It performs no
// computation of its own beyond shaping series for display.
package render

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/buildsite/crewplan/core/model"
)

const (
	colorCritical    = "#c23531"
	colorNonCritical = "#5470c6"
	colorInvisible   = "rgba(0,0,0,0)"
)

// GanttBar is one row of the Gantt data series.
type GanttBar struct {
	Label    string
	StartDay int
	EndDay   int
	Critical bool
}

// GanttSeries shapes schedule entries into Gantt rows, one per task, in
// start-day order.
func GanttSeries(entries []model.ScheduleEntry) []GanttBar {
	bars := make([]GanttBar, 0, len(entries))
	for _, e := range entries {
		label := e.ID
		if e.Name != "" {
			label = fmt.Sprintf("%s %s", e.ID, e.Name)
		}
		bars = append(bars, GanttBar{
			Label:    label,
			StartDay: e.StartDay,
			EndDay:   e.EndDay,
			Critical: e.OnCriticalPath,
		})
	}
	return bars
}

// GanttChart renders the schedule as a horizontal stacked bar chart: an
// invisible offset series up to each task's start day, then the task span,
// colored by critical-path status.
func GanttChart(entries []model.ScheduleEntry) *charts.Bar {
	bars := GanttSeries(entries)

	labels := make([]string, 0, len(bars))
	offsets := make([]opts.BarData, 0, len(bars))
	spans := make([]opts.BarData, 0, len(bars))
	for _, b := range bars {
		labels = append(labels, b.Label)
		offsets = append(offsets, opts.BarData{
			Value:     b.StartDay - 1,
			ItemStyle: &opts.ItemStyle{Color: colorInvisible},
		})
		color := colorNonCritical
		if b.Critical {
			color = colorCritical
		}
		spans = append(spans, opts.BarData{
			Value:     b.EndDay - b.StartDay + 1,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Project Schedule (Gantt)",
			Subtitle: "red = critical path",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "700px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	bar.SetXAxis(labels).
		AddSeries("start", offsets, charts.WithBarChartOpts(opts.BarChart{Stack: "gantt"})).
		AddSeries("days", spans, charts.WithBarChartOpts(opts.BarChart{Stack: "gantt"}))
	bar.XYReversal()
	return bar
}
