package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/log"
	"github.com/theakshaypant/jtk/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print a digest of what's due on a schedule",
	Long: `Stay running and print what's due today and tomorrow on a cron schedule.

The schedule comes from watch.schedule (default "0 8 * * *", every day at
08:00 local time) and accepts standard five-field cron expressions and
descriptors such as @hourly.

Examples:
  jtk watch
  jtk watch --schedule "@every 2h"
  jtk watch --once`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("schedule", "", "Cron schedule (default watch.schedule)")
	watchCmd.Flags().Bool("once", false, "Print one digest and exit")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if once, _ := cmd.Flags().GetBool("once"); once {
		return printDigest(cmd.Context())
	}

	schedule, _ := cmd.Flags().GetString("schedule")
	if schedule == "" {
		schedule = viper.GetString("watch.schedule")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New(cron.WithLocation(time.Local))
	id, err := c.AddFunc(schedule, func() {
		if err := printDigest(ctx); err != nil {
			log.Error("digest failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Info("watching", "schedule", schedule)
	fmt.Printf("👀 Watching (%s). Next digest %s. Press ctrl+c to stop.\n",
		schedule, c.Entry(id).Next.Format("Mon, Jan 2 3:04 PM"))

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("watch stopped")
	return nil
}

func printDigest(ctx context.Context) error {
	events, err := calendar.LoadEvents(ctx, client)
	if err != nil {
		return err
	}
	fmt.Print(digest(events, now()))
	return nil
}

// digest summarizes the events due on t's date and the day after.
func digest(events []core.CalendarEvent, t time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗓️  %s\n", t.Format("Monday, January 2 · 3:04 PM"))
	b.WriteString(divider + "\n")

	today := calendar.StartOfDay(t)
	for _, day := range []time.Time{today, today.AddDate(0, 0, 1)} {
		due := calendar.DueOn(events, day)
		fmt.Fprintf(&b, "%s\n", calendar.RelativeLabel(day, t))
		if len(due) == 0 {
			b.WriteString("  Nothing due\n")
			continue
		}
		for _, e := range due {
			line := fmt.Sprintf("  %s %s", eventIcon(e), util.Truncate(e.Text(), 50))
			if e.Kind == core.KindInterview && e.Location != "" {
				line += " @ " + e.Location
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}
