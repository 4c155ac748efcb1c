package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/log"
	"github.com/theakshaypant/jtk/internal/session"
	"github.com/theakshaypant/jtk/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive calendar",
	Long: `Launch an interactive calendar for browsing and editing reminders.

Log output goes to ~/.config/jtk/jtk.log while the calendar is open.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringP("view", "v", "", "Initial view: month, week or day (default from config)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	viewName, _ := cmd.Flags().GetString("view")
	if viewName == "" {
		viewName = viper.GetString("view")
	}
	mode, err := calendar.ParseMode(viewName)
	if err != nil {
		return err
	}

	if _, err := client.Session(); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return core.ErrUnauthorized
		}
		return err
	}

	// Log lines on stderr would tear the alt screen.
	var logOut io.Writer = io.Discard
	logPath := expandPath("~/.config/jtk/jtk.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
		if f, err := tea.LogToFile(logPath, ""); err == nil {
			logOut = f
			defer f.Close()
		}
	}
	log.SetOutput(logOut)
	defer log.SetOutput(os.Stderr)

	p := tea.NewProgram(
		tui.NewModel(client, mode),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}

	return nil
}
