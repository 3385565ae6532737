package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buildsite/crewplan/app"
	"github.com/buildsite/crewplan/config"
	"github.com/buildsite/crewplan/pkg/export"
)

var (
	analyzeCap         int
	analyzeTarget      int
	analyzeSections    []string
	analyzeSubsections []string
	analyzeFormat      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one scheduling pass and print the result",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeCap, "cap", -1, "daily labor cap in workers (0 disables leveling)")
	analyzeCmd.Flags().IntVar(&analyzeTarget, "target", -1, "target project duration in days")
	analyzeCmd.Flags().StringSliceVar(&analyzeSections, "sections", nil, "sections to include")
	analyzeCmd.Flags().StringSliceVar(&analyzeSubsections, "subsections", nil, "section.subsection groups to include")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}

	params := svc.Defaults()
	if analyzeCap >= 0 {
		params.LabourCap = analyzeCap
	}
	if analyzeTarget >= 0 {
		params.TargetDays = analyzeTarget
	}
	params.Sections = analyzeSections
	params.Subsections = analyzeSubsections

	res, err := svc.Compute(params)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	switch analyzeFormat {
	case "json":
		return export.WriteJSON(os.Stdout, res)
	case "csv":
		return export.WriteCSV(os.Stdout, res.Entries)
	default:
		return fmt.Errorf("unknown format %q", analyzeFormat)
	}
}
