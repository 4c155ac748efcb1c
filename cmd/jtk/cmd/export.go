package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/log"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reminders and deadlines as an iCalendar file",
	Long: `Write every dated event as an .ics file that any calendar app can import.

Re-importing a newer export updates events in place because each event keeps
a stable UID.

Examples:
  jtk export -o jobs.ics
  jtk export > jobs.ics`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	events, err := calendar.LoadEvents(cmd.Context(), client)
	if err != nil {
		return err
	}

	doc, skipped := calendar.ExportICS(events, now(), time.Local)
	for _, title := range skipped {
		log.Warn("skipped event without a usable date", "title", title)
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		fmt.Print(doc)
		return nil
	}

	path := expandPath(out)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("✓ Exported %d events to %s\n", len(events)-len(skipped), path)
	if len(skipped) > 0 {
		fmt.Printf("  %d skipped (no date)\n", len(skipped))
	}
	return nil
}
