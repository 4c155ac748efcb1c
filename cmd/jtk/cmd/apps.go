package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/tui"
	"github.com/theakshaypant/jtk/internal/util"
)

var appsCmd = &cobra.Command{
	Use:     "apps",
	Aliases: []string{"applications", "ls"},
	Short:   "List job applications",
	Long: `List your job applications, optionally filtered by a search term
(company or title) and by state: all, active (still in progress) or closed
(offered or rejected).`,
	RunE: runAppsList,
}

var appsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an application and its reminders",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppsShow,
}

var appsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an application",
	Long: `Add an application. Company and title are required.

Example:
  jtk apps add --company Acme --title "Backend Engineer" --deadline "next friday"`,
	RunE: runAppsAdd,
}

var appsStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move an application to another stage",
	Long: `Move an application to another stage.

Status is one of DRAFT, APPLIED, INTERVIEW, OFFER, REJECTED, or a display
label such as "Under Review".`,
	Args: cobra.ExactArgs(2),
	RunE: runAppsStatus,
}

var appsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an application",
	Args:    cobra.ExactArgs(1),
	RunE:    runAppsDelete,
}

func init() {
	rootCmd.AddCommand(appsCmd)
	appsCmd.AddCommand(appsShowCmd)
	appsCmd.AddCommand(appsAddCmd)
	appsCmd.AddCommand(appsStatusCmd)
	appsCmd.AddCommand(appsDeleteCmd)

	addAppListFlags(appsCmd)

	appsAddCmd.Flags().String("company", "", "Company name (required)")
	appsAddCmd.Flags().String("title", "", "Job title (required)")
	appsAddCmd.Flags().String("location", "", "Location")
	appsAddCmd.Flags().String("job-type", "", "Job type (default Full-time)")
	appsAddCmd.Flags().String("link", "", "Job posting URL")
	appsAddCmd.Flags().String("deadline", "", "Application deadline (YYYY-MM-DD, 'friday', ...)")
	appsAddCmd.Flags().String("salary", "", "Salary")
	appsAddCmd.Flags().String("status", "", "Initial status (default APPLIED)")
	appsAddCmd.Flags().String("notes", "", "Notes")

	appsDeleteCmd.Flags().BoolP("yes", "y", false, "Don't ask for confirmation")
}

func addAppListFlags(c *cobra.Command) {
	c.Flags().StringP("search", "s", "", "Filter by company or title")
	c.Flags().StringP("filter", "f", "all", "Show all, active or closed applications")
}

func runAppsList(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetString("search")
	filterFlag, _ := cmd.Flags().GetString("filter")

	apps, err := client.ListApplications(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch applications: %w", err)
	}
	shown := core.FilterApplications(apps, search, core.ParseAppFilter(filterFlag))

	fmt.Println("💼 Applications")
	fmt.Println(divider)

	if len(shown) == 0 {
		if len(apps) == 0 {
			fmt.Println("No applications yet. Add one with 'jtk apps add'.")
		} else {
			fmt.Println("No applications match.")
		}
		return nil
	}

	for _, a := range shown {
		printApplicationLine(a)
	}

	fmt.Println(divider)
	fmt.Println(core.CountLabel(len(shown), len(apps)))
	return nil
}

func printApplicationLine(a core.Application) {
	deadline := ""
	if a.Deadline != "" {
		deadline = "⏰ " + calendar.FormatShortDate(a.Deadline)
	}
	fmt.Printf("  %-6s %-22s %-30s %-14s %s\n",
		util.Truncate(a.ID, 6),
		util.Truncate(a.Company, 22),
		util.Truncate(a.Title, 30),
		a.Status.Label(),
		deadline)
}

func runAppsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := client.GetApplication(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch application: %w", err)
	}

	fmt.Println(divider)
	fmt.Printf("  %s — %s\n", a.Company, a.Title)
	fmt.Println(divider)
	fmt.Printf("  📊 Status:     %s\n", a.Status.Label())
	printIfSet("📍 Location:  ", a.Location)
	printIfSet("🏷️  Type:      ", a.JobType)
	printIfSet("💰 Salary:    ", a.Salary)
	printIfSet("🎓 Experience:", a.Experience)
	if a.Deadline != "" {
		fmt.Printf("  ⏰ Deadline:   %s\n", calendar.FormatLongDate(a.Deadline))
	}
	if a.AppliedAt != "" {
		fmt.Printf("  📨 Applied:    %s\n", calendar.FormatLongDate(a.AppliedAt))
	}
	if a.JobLink != "" {
		fmt.Printf("  🔗 Posting:    %s\n", util.MakeHyperlink(a.JobLink, a.JobLink))
	}
	if a.Notes != "" {
		fmt.Println("  📝 Notes:")
		for _, line := range strings.Split(util.Wrap(a.Notes, 60), "\n") {
			fmt.Printf("     %s\n", line)
		}
	}
	fmt.Printf("  🆔 ID:         %s\n", a.ID)

	reminders, err := client.ApplicationReminders(ctx, a.ID)
	if err != nil {
		// The application itself loaded; reminders are best effort.
		fmt.Printf("\n  ⚠️  Couldn't load reminders: %v\n", err)
		return nil
	}
	if len(reminders) > 0 {
		fmt.Println("\n  🔔 Reminders:")
		for _, r := range reminders {
			fmt.Printf("     • %s  %-10s %s  (%s)\n", calendar.FormatShortDate(r.TriggerAt), r.Kind.Label(), r.Title, r.ID)
		}
	}
	fmt.Println()
	return nil
}

func printIfSet(label, value string) {
	if value != "" {
		fmt.Printf("  %s %s\n", label, value)
	}
}

func runAppsAdd(cmd *cobra.Command, args []string) error {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	in := core.ApplicationInput{
		Company:  get("company"),
		Title:    get("title"),
		Location: get("location"),
		JobType:  get("job-type"),
		JobLink:  get("link"),
		Salary:   get("salary"),
		Status:   get("status"),
		Notes:    get("notes"),
	}
	if d := get("deadline"); d != "" {
		t, err := parseDate(d, now())
		if err != nil {
			return err
		}
		in.Deadline = calendar.FormatDate(t)
	}

	a, err := client.CreateApplication(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added %s — %s (%s)\n", a.Company, a.Title, a.ID)
	return nil
}

func runAppsStatus(cmd *cobra.Command, args []string) error {
	status, err := core.ParseStatus(args[1])
	if err != nil {
		return err
	}
	if err := client.UpdateApplicationStatus(cmd.Context(), args[0], status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	fmt.Printf("✓ Application %s is now %s\n", args[0], status.Label())
	return nil
}

func runAppsDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		ok, err := confirm(fmt.Sprintf("Delete application %s? (y/N)", id))
		if err != nil || !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}
	if err := client.DeleteApplication(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	fmt.Printf("🗑️  Deleted application %s\n", id)
	return nil
}

// confirm asks a yes/no question on the terminal.
func confirm(question string) (bool, error) {
	answer, err := tui.Prompt(question, false)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
