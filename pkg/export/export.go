// Package export writes scheduling results in machine-readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/buildsite/crewplan/core/model"
)

// WriteJSON writes the full result to w in JSON format.
func WriteJSON(w io.Writer, res *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes the schedule entries to w as CSV.
func WriteCSV(w io.Writer, entries []model.ScheduleEntry) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "section", "subsection", "name", "start_day", "end_day", "hours", "crew", "slack", "on_critical_path"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		hours := ""
		if e.Hours != nil {
			hours = strconv.FormatFloat(*e.Hours, 'f', -1, 64)
		}
		rec := []string{
			e.ID,
			e.Section,
			e.Subsection,
			e.Name,
			strconv.Itoa(e.StartDay),
			strconv.Itoa(e.EndDay),
			hours,
			strconv.Itoa(e.Crew),
			strconv.Itoa(e.Slack),
			strconv.FormatBool(e.OnCriticalPath),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
