package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next upcoming event",
	Long: `Show the next deadline, interview or follow-up on your calendar.

When several events fall on the same day they are all shown.`,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	t := now()

	events, err := calendar.LoadEvents(cmd.Context(), client)
	if err != nil {
		return err
	}

	upcoming := calendar.Upcoming(events, t, 0)
	if len(upcoming) == 0 {
		fmt.Println("No upcoming events found.")
		return nil
	}

	sameDay := calendar.DueOn(upcoming, mustDate(upcoming[0], t.Location()))
	if len(sameDay) > 1 {
		printSameDayEvents(sameDay, t)
	} else {
		printNextEvent(sameDay[0], t)
	}
	return nil
}

func mustDate(e core.CalendarEvent, loc *time.Location) time.Time {
	d, _ := calendar.ParseLocalDateIn(e.Date, loc)
	return d
}

func printCountdown(e core.CalendarEvent, t time.Time) {
	start, ok := eventStart(e, t.Location())
	if !ok {
		return
	}
	switch {
	case e.StartTime == "" && calendar.SameDay(start, t):
		fmt.Println("  🔴 DUE TODAY")
	case e.StartTime == "":
		fmt.Printf("  ⏳ DUE IN: %s\n", formatCountdown(start.Sub(calendar.StartOfDay(t))))
	default:
		fmt.Printf("  ⏳ STARTS IN: %s\n", formatCountdown(start.Sub(t)))
	}
}

func printNextEvent(e core.CalendarEvent, t time.Time) {
	fmt.Println(divider)
	fmt.Println("  NEXT EVENT")
	fmt.Println(divider)

	fmt.Println()
	printCountdown(e, t)
	fmt.Println()

	printEvent(e, t)

	fmt.Println()
	fmt.Println(divider)
}

func printSameDayEvents(events []core.CalendarEvent, t time.Time) {
	fmt.Println(divider)
	fmt.Printf("  ⚠️  %d EVENTS ON %s\n", len(events), calendar.FormatLongDate(events[0].Date))
	fmt.Println(divider)

	fmt.Println()
	printCountdown(events[0], t)

	for i, e := range events {
		fmt.Printf("\n  EVENT %d of %d\n", i+1, len(events))
		fmt.Println("  ─────────────────────────────────────────────")
		printEvent(e, t)
	}

	fmt.Println()
	fmt.Println(divider)
}
