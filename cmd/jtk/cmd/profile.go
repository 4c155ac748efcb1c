package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage configuration profiles",
	Long: `Manage configuration profiles for different tracker deployments.

Profiles let you switch between backends (for example a local server and a
hosted one) along with their session files and Google Calendar targets.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileShow,
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAdd,
}

var profileSetDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSetDefault,
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a profile's settings",
	Long: `Edit a profile's settings using flags.

Example:
  jtk profile edit staging --base-url=https://tracker.example.com
  jtk profile edit local --view=week --upcoming=5`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileEdit,
}

// profileFlag maps a command-line flag to its (possibly nested) config key.
type profileFlag struct {
	flag  string
	key   string
	isInt bool
	usage string
}

var profileFlags = []profileFlag{
	{flag: "base-url", key: "base_url", usage: "Tracker API base URL"},
	{flag: "session-file", key: "session_file", usage: "Session file path"},
	{flag: "view", key: "view", usage: "Default calendar view (month, week, day)"},
	{flag: "upcoming", key: "upcoming", isInt: true, usage: "Upcoming events shown on the dashboard"},
	{flag: "log-level", key: "log_level", usage: "Log level"},
	{flag: "google-credentials-file", key: "google.credentials_file", usage: "Google OAuth client credentials file"},
	{flag: "google-token-file", key: "google.token_file", usage: "Google OAuth token file"},
	{flag: "google-calendar-id", key: "google.calendar_id", usage: "Google calendar to sync into"},
	{flag: "watch-schedule", key: "watch.schedule", usage: "Cron schedule for jtk watch"},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileSetDefaultCmd)
	profileCmd.AddCommand(profileEditCmd)

	for _, c := range []*cobra.Command{profileAddCmd, profileEditCmd} {
		for _, pf := range profileFlags {
			if pf.isInt {
				c.Flags().Int(pf.flag, 0, pf.usage)
			} else {
				c.Flags().String(pf.flag, "", pf.usage)
			}
		}
	}
}

func runProfileList(cmd *cobra.Command, args []string) error {
	profiles := viper.GetStringMap("profiles")
	defaultProfile := viper.GetString("default_profile")

	if len(profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("\nAdd one with: jtk profile add <name> --base-url=<url>")
		return nil
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available profiles:")
	fmt.Println(divider)
	for _, name := range names {
		marker := "  "
		if name == defaultProfile {
			marker = "* "
		}
		fmt.Printf("%s%s\n", marker, name)
	}
	fmt.Println(divider)
	if defaultProfile != "" {
		fmt.Printf("Default: %s\n", defaultProfile)
	}
	fmt.Println("\nUse 'jtk profile show <name>' for details")

	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	var profileName string
	if len(args) > 0 {
		profileName = args[0]
	} else {
		profileName = viper.GetString("default_profile")
		if profileName == "" {
			return fmt.Errorf("no profile specified and no default profile set")
		}
	}

	profileKey := "profiles." + profileName
	if !viper.IsSet(profileKey) {
		return fmt.Errorf("profile '%s' not found", profileName)
	}

	fmt.Printf("Profile: %s\n", profileName)
	if profileName == viper.GetString("default_profile") {
		fmt.Println("(default)")
	}
	fmt.Println(divider)

	sections := []struct {
		title string
		keys  []string
	}{
		{"🌐 Tracker:", []string{"base_url", "session_file", "log_level"}},
		{"📅 Calendar:", []string{"view", "upcoming", "watch.schedule"}},
		{"🔗 Google Calendar:", []string{"google.credentials_file", "google.token_file", "google.calendar_id"}},
	}
	for _, s := range sections {
		fmt.Println("\n" + s.title)
		for _, key := range s.keys {
			if full := profileKey + "." + key; viper.IsSet(full) {
				fmt.Printf("  %s: %v\n", key, viper.Get(full))
			}
		}
	}

	fmt.Println()
	return nil
}

// profileFromFlags collects the flags the user changed into a nested
// settings map, starting from base.
func profileFromFlags(cmd *cobra.Command, base map[string]interface{}) (map[string]interface{}, bool) {
	changed := false
	for _, pf := range profileFlags {
		if !cmd.Flags().Changed(pf.flag) {
			continue
		}
		var val interface{}
		if pf.isInt {
			val, _ = cmd.Flags().GetInt(pf.flag)
		} else {
			val, _ = cmd.Flags().GetString(pf.flag)
		}
		setNested(base, pf.key, val)
		changed = true
	}
	return base, changed
}

// setNested sets a dotted key ("google.token_file") inside m.
func setNested(m map[string]interface{}, key string, val interface{}) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			m[p] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = val
}

func runProfileAdd(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	profileKey := "profiles." + profileName
	if viper.IsSet(profileKey) {
		return fmt.Errorf("profile '%s' already exists. Use 'jtk profile edit %s' to modify it", profileName, profileName)
	}

	profile, _ := profileFromFlags(cmd, make(map[string]interface{}))
	if err := saveProfileToConfig(profileName, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("✓ Profile '%s' created\n", profileName)
	fmt.Printf("\nUse it with: jtk -p %s\n", profileName)
	fmt.Printf("Set as default: jtk profile default %s\n", profileName)

	return nil
}

func runProfileSetDefault(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	profileKey := "profiles." + profileName
	if !viper.IsSet(profileKey) {
		return fmt.Errorf("profile '%s' not found", profileName)
	}

	if err := setDefaultProfileInConfig(profileName); err != nil {
		return fmt.Errorf("failed to set default profile: %w", err)
	}

	fmt.Printf("✓ Default profile set to '%s'\n", profileName)
	return nil
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	profileKey := "profiles." + profileName
	if !viper.IsSet(profileKey) {
		return fmt.Errorf("profile '%s' not found. Use 'jtk profile add %s' to create it", profileName, profileName)
	}

	config, err := readConfigFile()
	if err != nil {
		return err
	}
	existing := make(map[string]interface{})
	if profiles, ok := config["profiles"].(map[string]interface{}); ok {
		if p, ok := profiles[profileName].(map[string]interface{}); ok {
			existing = p
		}
	}

	profile, changed := profileFromFlags(cmd, existing)
	if !changed {
		fmt.Println("No changes specified. Use flags to update settings:")
		fmt.Println("  jtk profile edit", profileName, "--base-url=https://tracker.example.com")
		return nil
	}

	if err := saveProfileToConfig(profileName, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("✓ Profile '%s' updated\n", profileName)
	return nil
}

// Config file manipulation functions

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "jtk", "config.yaml")
}

func readConfigFile() (map[string]interface{}, error) {
	data, err := os.ReadFile(getConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]interface{}), nil
		}
		return nil, err
	}

	var config map[string]interface{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if config == nil {
		config = make(map[string]interface{})
	}
	return config, nil
}

func writeConfigFile(config map[string]interface{}) error {
	configPath := getConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

func saveProfileToConfig(name string, profile map[string]interface{}) error {
	config, err := readConfigFile()
	if err != nil {
		return err
	}

	profiles, ok := config["profiles"].(map[string]interface{})
	if !ok {
		profiles = make(map[string]interface{})
	}

	profiles[name] = profile
	config["profiles"] = profiles

	return writeConfigFile(config)
}

func setDefaultProfileInConfig(name string) error {
	config, err := readConfigFile()
	if err != nil {
		return err
	}

	config["default_profile"] = name

	return writeConfigFile(config)
}
