package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theakshaypant/jtk/internal/adapter/rest"
	"github.com/theakshaypant/jtk/internal/log"
	"github.com/theakshaypant/jtk/internal/session"
)

const divider = "─────────────────────────────────────────────────"

var (
	cfgFile string
	profile string
	client  *rest.Client

	// now is the clock every command uses for date arithmetic.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "jtk",
	Short: "Track job applications, deadlines and interviews from the terminal",
	Long: `jtk — a terminal front-end for your job-application tracker.

List and update applications, keep reminders for deadlines, interviews and
follow-ups, and browse everything on a month, week or day calendar. Running
jtk with no subcommand lists your applications.`,
	PersistentPreRunE: initClient,
	RunE:              runAppsList,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (inherited by all subcommands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/jtk/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "config profile to use (e.g., local, staging)")
	rootCmd.PersistentFlags().String("base-url", "", "Tracker API base URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().String("session-file", "", "Where the login session is stored")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("session_file", rootCmd.PersistentFlags().Lookup("session-file"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	addAppListFlags(rootCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "jtk"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables: JTK_BASE_URL, JTK_GOOGLE_CALENDAR_ID, ...
	viper.SetEnvPrefix("JTK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("base_url", "http://localhost:8080")
	viper.SetDefault("session_file", "~/.config/jtk/session.json")
	viper.SetDefault("view", "month")
	viper.SetDefault("upcoming", 3)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("google.credentials_file", "~/.config/jtk/google_credentials.json")
	viper.SetDefault("google.token_file", "~/.config/jtk/google_token.json")
	viper.SetDefault("google.calendar_id", "primary")
	viper.SetDefault("watch.schedule", "0 8 * * *")

	readErr := viper.ReadInConfig()

	// Apply profile settings if specified
	applyProfile()

	configureLogging()
	if readErr == nil {
		log.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// profileSettings lists the keys a profile may override.
var profileSettings = []string{
	"base_url",
	"session_file",
	"view",
	"upcoming",
	"log_level",
	"google.credentials_file",
	"google.token_file",
	"google.calendar_id",
	"watch.schedule",
}

// applyProfile merges profile-specific settings over defaults
func applyProfile() {
	activeProfile := profile
	if activeProfile == "" {
		activeProfile = viper.GetString("default_profile")
	}
	if activeProfile == "" {
		return
	}

	profileKey := "profiles." + activeProfile
	if !viper.IsSet(profileKey) {
		fmt.Fprintf(os.Stderr, "Warning: profile '%s' not found in config\n", activeProfile)
		return
	}

	// Override each setting if present in profile,
	// but only if the user hasn't explicitly set it via CLI flag.
	for _, key := range profileSettings {
		profileSettingKey := profileKey + "." + key
		if viper.IsSet(profileSettingKey) && !isFlagExplicitlySet(key) {
			viper.Set(key, viper.Get(profileSettingKey))
		}
	}
}

func isFlagExplicitlySet(viperKey string) bool {
	flagName := strings.NewReplacer("_", "-", ".", "-").Replace(viperKey)
	f := rootCmd.PersistentFlags().Lookup(flagName)

	return f != nil && f.Changed
}

func configureLogging() {
	level, err := log.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using warn\n", err)
		level = log.LevelWarn
	}
	log.SetLevel(level)
}

// skipsClient reports whether cmd runs without a tracker client.
func skipsClient(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "profile":
			return true
		}
	}
	return false
}

func initClient(cmd *cobra.Command, args []string) error {
	if skipsClient(cmd) {
		return nil
	}

	baseURL := strings.TrimSpace(viper.GetString("base_url"))
	if baseURL == "" {
		return fmt.Errorf("base_url is not configured\n\nSet it in your config or pass --base-url")
	}
	store := session.NewFileStore(expandPath(viper.GetString("session_file")))
	client = rest.New(baseURL, store)
	log.Debug("tracker client ready", "base_url", baseURL, "session", store.Path())
	return nil
}

// parseDate parses a date string in various formats relative to now.
// Supports: YYYY-MM-DD, MM-DD, MM/DD, MM/DD/YYYY, "today", "tomorrow",
// "yesterday", weekday names and "next <weekday>".
func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch s {
	case "today", "":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	weekdays := map[string]time.Weekday{
		"sunday": time.Sunday, "sun": time.Sunday,
		"monday": time.Monday, "mon": time.Monday,
		"tuesday": time.Tuesday, "tue": time.Tuesday,
		"wednesday": time.Wednesday, "wed": time.Wednesday,
		"thursday": time.Thursday, "thu": time.Thursday,
		"friday": time.Friday, "fri": time.Friday,
		"saturday": time.Saturday, "sat": time.Saturday,
	}

	// Handle "next <weekday>"
	dayName := strings.TrimPrefix(s, "next ")
	if wd, ok := weekdays[dayName]; ok {
		daysUntil := int(wd - today.Weekday())
		if daysUntil <= 0 {
			daysUntil += 7
		}
		return today.AddDate(0, 0, daysUntil), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}

	// MM-DD and MM/DD are in the current year
	for _, layout := range []string{"01-02", "01/02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
	}

	if t, err := time.ParseInLocation("01/02/2006", s, loc); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s (use YYYY-MM-DD, 'today', 'tomorrow', or weekday names)", s)
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
