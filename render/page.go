package render

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/buildsite/crewplan/core/model"
)

// Dashboard writes the full dashboard page (Gantt + utilization) for one
// scheduling result.
func Dashboard(w io.Writer, res *model.Result, labourCap int) error {
	page := components.NewPage()
	page.PageTitle = "crewplan"
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		GanttChart(res.Entries),
		UtilizationChart(res.Profile, labourCap),
	)
	return page.Render(w)
}
