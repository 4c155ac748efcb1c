package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/jtk/internal/adapter/rest"
	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/util"
)

var remindersCmd = &cobra.Command{
	Use:     "reminders",
	Aliases: []string{"reminder", "rem"},
	Short:   "List upcoming reminders",
	Long: `List your saved reminders: deadlines, interviews and follow-ups.

Past reminders are hidden unless --all is given. Deadlines taken from
application records are shown by 'jtk calendar' and 'jtk dashboard'.`,
	RunE: runRemindersList,
}

var reminderAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reminder",
	Long: `Add a deadline, interview or follow-up reminder.

Examples:
  jtk reminders add --title "Send portfolio" --date friday
  jtk reminders add --kind interview --title "Acme onsite" --date 2025-03-10 \
      --start 10:00 --end 14:00 --link https://meet.example.com/abc`,
	RunE: runReminderAdd,
}

var reminderEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a reminder",
	Long:  `Change a reminder. Only the flags you pass are updated.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReminderEdit,
}

var reminderShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runReminderShow,
}

var reminderDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a reminder",
	Args:    cobra.ExactArgs(1),
	RunE:    runReminderDelete,
}

func init() {
	rootCmd.AddCommand(remindersCmd)
	remindersCmd.AddCommand(reminderAddCmd)
	remindersCmd.AddCommand(reminderEditCmd)
	remindersCmd.AddCommand(reminderShowCmd)
	remindersCmd.AddCommand(reminderDeleteCmd)

	remindersCmd.Flags().BoolP("all", "a", false, "Include past reminders")

	addReminderFlags(reminderAddCmd)
	addReminderFlags(reminderEditCmd)

	reminderDeleteCmd.Flags().BoolP("yes", "y", false, "Don't ask for confirmation")
}

func addReminderFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringP("kind", "k", "", "deadline, interview or followup (default deadline)")
	f.StringP("title", "t", "", "Title")
	f.StringP("date", "d", "", "Date, or start date for interviews (YYYY-MM-DD, 'tomorrow', 'next mon', ...)")
	f.String("end-date", "", "Interview end date (defaults to the start date)")
	f.String("start", "", "Start time (14:00, 2pm)")
	f.String("end", "", "Interview end time")
	f.String("location", "", "Location")
	f.String("link", "", "Interview meeting link")
	f.String("color", "", "blue, green, red, orange or purple")
	f.String("app", "", "Application ID to attach the reminder to")
	f.String("notes", "", "Notes")
}

func runRemindersList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	events, err := client.CalendarEvents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch reminders: %w", err)
	}

	t := now()
	shown := calendar.Upcoming(events, t, 0)
	if all {
		shown = sortedByDate(events)
	}

	fmt.Println("🔔 Reminders")
	fmt.Println(divider)
	if len(shown) == 0 {
		fmt.Println("Nothing coming up. Add one with 'jtk reminders add'.")
		return nil
	}
	for _, e := range shown {
		when := e.Date
		if d, err := calendar.ParseLocalDateIn(e.Date, t.Location()); err == nil {
			when = calendar.RelativeLabel(d, t)
		}
		fmt.Printf("  %s %-12s %-10s %s  (%s)\n",
			eventIcon(e), when, e.Kind.Label(), util.Truncate(e.Text(), 40), e.ID)
	}
	return nil
}

// sortedByDate orders events by date, keeping undated ones last.
func sortedByDate(events []core.CalendarEvent) []core.CalendarEvent {
	dated := calendar.Upcoming(events, time.Date(1, 1, 1, 0, 0, 0, 0, time.Local), 0)
	for _, e := range events {
		if e.Date == "" {
			dated = append(dated, e)
		}
	}
	return dated
}

// eventIcon is the glyph printed next to an event in plain output.
func eventIcon(e core.CalendarEvent) string {
	switch {
	case e.IsAutoGenerated:
		return "⏰"
	case e.Kind == core.KindInterview:
		return "🤝"
	case e.Kind == core.KindFollowUp:
		return "📨"
	default:
		return "📌"
	}
}

// reminderFromFlags applies the flags the user set on top of in.
func reminderFromFlags(cmd *cobra.Command, in core.ReminderInput, t time.Time) (core.ReminderInput, error) {
	f := cmd.Flags()
	str := func(name string) (string, bool) {
		if !f.Changed(name) {
			return "", false
		}
		v, _ := f.GetString(name)
		return v, true
	}

	if v, ok := str("kind"); ok {
		in.Kind = core.ParseKind(v)
	}
	if v, ok := str("title"); ok {
		in.Title = v
	}
	if v, ok := str("notes"); ok {
		in.Notes = v
	}
	if v, ok := str("color"); ok {
		in.Color = core.ParseColor(v)
	}
	if v, ok := str("app"); ok {
		in.ApplicationID = strings.TrimSpace(v)
	}
	if v, ok := str("location"); ok {
		in.Location = v
	}
	if v, ok := str("link"); ok {
		in.MeetingLink = v
	}

	for _, d := range []struct {
		flag string
		dst  *string
	}{{"date", &in.Date}, {"end-date", &in.EndDate}} {
		v, ok := str(d.flag)
		if !ok {
			continue
		}
		if strings.TrimSpace(v) == "" {
			*d.dst = ""
			continue
		}
		parsed, err := parseDate(v, t)
		if err != nil {
			return in, err
		}
		*d.dst = calendar.FormatDate(parsed)
	}

	for _, c := range []struct {
		flag string
		dst  *string
	}{{"start", &in.StartTime}, {"end", &in.EndTime}} {
		v, ok := str(c.flag)
		if !ok {
			continue
		}
		clock, err := parseClock(v)
		if err != nil {
			return in, fmt.Errorf("--%s: %w", c.flag, err)
		}
		*c.dst = clock
	}
	return in, nil
}

var clockLayouts = []string{"15:04", "3:04pm", "3:04 pm", "3pm", "3 pm", "1504"}

// parseClock normalizes a time of day to HH:MM. Empty input clears the time.
func parseClock(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unable to parse time %q (use 14:00 or 2pm)", s)
}

func runReminderAdd(cmd *cobra.Command, args []string) error {
	t := now()
	in, err := reminderFromFlags(cmd, core.ReminderInput{}, t)
	if err != nil {
		return err
	}
	if err := in.Validate(t); err != nil {
		return err
	}

	r, err := client.CreateReminder(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}
	fmt.Printf("✓ %s reminder saved for %s (%s)\n", r.Kind.Label(), calendar.FormatLongDate(r.TriggerAt), r.ID)
	return nil
}

func runReminderEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	r, err := client.GetReminder(ctx, id)
	if err != nil {
		return fetchReminderErr(id, err)
	}

	t := now()
	in, err := reminderFromFlags(cmd, r.Input(), t)
	if err != nil {
		return err
	}
	if err := in.Validate(t); err != nil {
		return err
	}

	updated, err := client.UpdateReminder(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	fmt.Printf("✓ Updated %q\n", updated.Title)
	return nil
}

// fetchReminderErr turns a 404 into a message naming the missing ID.
func fetchReminderErr(id string, err error) error {
	if rest.IsNotFound(err) {
		return fmt.Errorf("no reminder with ID %s (see 'jtk reminders --all')", id)
	}
	return fmt.Errorf("failed to fetch reminder: %w", err)
}

func runReminderShow(cmd *cobra.Command, args []string) error {
	r, err := client.GetReminder(cmd.Context(), args[0])
	if err != nil {
		return fetchReminderErr(args[0], err)
	}

	fmt.Println(divider)
	fmt.Printf("  %s\n", r.Title)
	fmt.Println(divider)
	fmt.Printf("  🏷️  Type:     %s\n", r.Kind.Label())

	when := calendar.FormatLongDate(r.TriggerAt)
	if r.Kind == core.KindInterview && r.EndDate != "" && r.EndDate != r.TriggerAt {
		when += " – " + calendar.FormatLongDate(r.EndDate)
	}
	fmt.Printf("  📅 Date:     %s\n", when)

	if r.StartTime != "" {
		clock := r.StartTime
		if r.EndTime != "" {
			clock += " – " + r.EndTime
		}
		fmt.Printf("  🕐 Time:     %s\n", clock)
	}
	printIfSet("📍 Location:", r.Location)
	if r.MeetingLink != "" {
		fmt.Printf("  🔗 Join:     %s\n", util.MakeHyperlink(r.MeetingLink, r.MeetingLink))
	}
	printIfSet("🎨 Color:   ", string(r.Color))
	printIfSet("💼 App:     ", r.ApplicationID)
	if r.Notes != "" {
		fmt.Println("  📝 Notes:")
		for _, line := range strings.Split(util.Wrap(r.Notes, 60), "\n") {
			fmt.Printf("     %s\n", line)
		}
	}
	fmt.Printf("  🆔 ID:       %s\n", r.ID)
	return nil
}

func runReminderDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		ok, err := confirm(fmt.Sprintf("Delete reminder %s? (y/N)", id))
		if err != nil || !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}
	if err := client.DeleteReminder(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	fmt.Printf("🗑️  Deleted reminder %s\n", id)
	return nil
}
