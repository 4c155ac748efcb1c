package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/log"
	"github.com/theakshaypant/jtk/internal/tui"
)

const defaultPrintWidth = 100

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Print a month, week or day calendar",
	Long: `Print your reminders and application deadlines on a calendar grid.

Use 'jtk ui' for the interactive version.

Examples:
  jtk cal
  jtk cal --view week --date "next monday"`,
	RunE: runCalendar,
}

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().StringP("view", "v", "", "month, week or day (default from config)")
	calendarCmd.Flags().StringP("date", "d", "", "Show the period containing this date")
	calendarCmd.Flags().IntP("width", "w", 0, "Output width in columns (default $COLUMNS or 100)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	t := now()

	viewName, _ := cmd.Flags().GetString("view")
	if viewName == "" {
		viewName = viper.GetString("view")
	}
	mode, err := calendar.ParseMode(viewName)
	if err != nil {
		return err
	}

	ref := t
	if d, _ := cmd.Flags().GetString("date"); d != "" {
		if ref, err = parseDate(d, t); err != nil {
			return err
		}
	}

	width, _ := cmd.Flags().GetInt("width")
	if width <= 0 {
		width = terminalWidth()
	}

	events, err := eventsOrEmpty(cmd.Context(), client)
	if err != nil {
		return err
	}

	grid := calendar.Render(calendar.NewViewState(ref, mode), events, t)

	fmt.Println(tui.HeaderStyle.Render("📅 " + grid.Label))
	fmt.Println(tui.RenderGrid(grid, width, -1))
	fmt.Println(legend())
	return nil
}

// eventsOrEmpty loads the calendar events. A failed read degrades to an
// empty calendar; only a lost session is returned as an error.
func eventsOrEmpty(ctx context.Context, src calendar.EventSource) ([]core.CalendarEvent, error) {
	events, err := calendar.LoadEvents(ctx, src)
	if errors.Is(err, core.ErrUnauthorized) {
		return nil, err
	}
	if err != nil {
		log.Warn("couldn't load events, showing an empty calendar", "err", err)
		fmt.Fprintln(os.Stderr, "⚠️  Couldn't load events, showing an empty calendar.")
		return nil, nil
	}
	return events, nil
}

// terminalWidth reads $COLUMNS, falling back to a fixed width.
func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return defaultPrintWidth
}

func legend() string {
	parts := make([]string, 0, len(core.Colors)+1)
	for _, c := range core.Colors {
		parts = append(parts, tui.EventStyle(c).Render("● "+string(c)))
	}
	parts = append(parts, tui.DimmedItemStyle.Render("◌ from application deadline"))
	return strings.Join(parts, "  ")
}
