package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/log"
	"github.com/theakshaypant/jtk/internal/util"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show application counts and what's coming up",
	RunE:    runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().IntP("upcoming", "n", 0, "How many upcoming events to show (default from config)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	t := now()

	summary, err := client.DashboardSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch dashboard: %w", err)
	}

	fmt.Println("📊 Dashboard")
	fmt.Println(divider)
	fmt.Printf("  %-16s %d\n", "Total", summary.TotalApplications)
	for _, s := range core.Statuses {
		fmt.Printf("  %-16s %d\n", s.Label(), summary.Count(s))
	}

	n, _ := cmd.Flags().GetInt("upcoming")
	if n <= 0 {
		n = viper.GetInt("upcoming")
	}
	if n <= 0 {
		n = calendar.DefaultUpcoming
	}

	fmt.Println()
	fmt.Println("🔔 Upcoming")
	fmt.Println(divider)

	events, err := calendar.LoadEvents(ctx, client)
	if err != nil {
		log.Warn("couldn't load upcoming events", "err", err)
		fmt.Println("  Couldn't load upcoming events.")
		return nil
	}

	upcoming := calendar.Upcoming(events, t, n)
	if len(upcoming) == 0 {
		fmt.Println("  Nothing scheduled. Enjoy the quiet.")
		return nil
	}
	for _, e := range upcoming {
		day, _ := calendar.ParseLocalDateIn(e.Date, t.Location())
		fmt.Printf("  %s %-12s %s\n", eventIcon(e), calendar.RelativeLabel(day, t), util.Truncate(e.Text(), 50))
	}
	return nil
}
