package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/theakshaypant/jtk/internal/adapter/google"
	"github.com/theakshaypant/jtk/internal/calendar"
)

const (
	redirectPort = "8085"
	redirectURL  = "http://localhost:" + redirectPort + "/callback"
)

var googleCmd = &cobra.Command{
	Use:   "google",
	Short: "Copy reminders and deadlines into Google Calendar",
	Long: `Keep a Google Calendar you own in step with the tracker.

Run 'jtk google auth' once, then 'jtk google sync' whenever you want the
calendar updated. Synced events are tagged so re-running sync updates them
in place instead of creating duplicates.`,
}

var googleAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize jtk to write to your Google Calendar",
	Long: `Authenticate with Google using OAuth.

  1. Starts a local server to receive the OAuth callback
  2. Opens your browser to sign in with Google
  3. Saves the token to google.token_file for future syncs`,
	RunE: runGoogleAuth,
}

var googleSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Write tracker events to Google Calendar",
	RunE:  runGoogleSync,
}

var googleCalendarsCmd = &cobra.Command{
	Use:     "calendars",
	Aliases: []string{"cals"},
	Short:   "List Google calendars you can sync into",
	RunE:    runGoogleCalendars,
}

func init() {
	rootCmd.AddCommand(googleCmd)
	googleCmd.AddCommand(googleAuthCmd)
	googleCmd.AddCommand(googleSyncCmd)
	googleCmd.AddCommand(googleCalendarsCmd)

	googleSyncCmd.Flags().String("from", "", "Only sync events on or after this date (YYYY-MM-DD, 'today', ...)")
	googleSyncCmd.Flags().Bool("prune", false, "Delete synced events that no longer exist in the tracker")
	googleSyncCmd.Flags().Bool("dry-run", false, "Show what would change without writing")
	googleSyncCmd.Flags().String("calendar-id", "", "Target calendar (default google.calendar_id)")
}

func runGoogleAuth(_ *cobra.Command, _ []string) error {
	credsFile := expandPath(viper.GetString("google.credentials_file"))
	tokenFile := expandPath(viper.GetString("google.token_file"))

	config, err := google.LoadConfig(credsFile)
	if err != nil {
		return fmt.Errorf("%w\n\nDownload an OAuth client (Desktop app) from the Google Cloud console and save it as %s", err, credsFile)
	}
	config.RedirectURL = redirectURL

	tok, err := getTokenViaLocalServer(config, "Google", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(tokenFile), 0o700); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := google.SaveToken(tokenFile, tok); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Println("\n✅ Authentication successful!")
	fmt.Printf("📁 Token saved to %s\n", tokenFile)
	fmt.Println("\nYou can now run 'jtk google sync' to copy your reminders.")

	return nil
}

// newPublisher signs in to Google. An empty calendarID uses google.calendar_id.
func newPublisher(ctx context.Context, calendarID string) (*google.Publisher, error) {
	if calendarID == "" {
		calendarID = viper.GetString("google.calendar_id")
	}
	p := google.NewPublisher(
		calendarID,
		expandPath(viper.GetString("google.credentials_file")),
		expandPath(viper.GetString("google.token_file")),
	)
	if err := p.Login(ctx); err != nil {
		return nil, fmt.Errorf("google login failed: %w", err)
	}
	return p, nil
}

func runGoogleSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	opts := google.SyncOptions{Location: time.Local}
	opts.Prune, _ = cmd.Flags().GetBool("prune")
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		t, err := parseDate(from, now())
		if err != nil {
			return err
		}
		opts.From = t
	}

	events, err := calendar.LoadEvents(ctx, client)
	if err != nil {
		return err
	}

	calendarID, _ := cmd.Flags().GetString("calendar-id")
	p, err := newPublisher(ctx, calendarID)
	if err != nil {
		return err
	}

	res, err := p.Sync(ctx, events, opts)
	if err != nil {
		return err
	}

	heading := "🔄 Synced to"
	if opts.DryRun {
		heading = "🔍 Dry run for"
	}
	fmt.Printf("%s %s\n", heading, p.CalendarID())
	fmt.Println(divider)
	fmt.Printf("  Created:   %d\n", res.Created)
	fmt.Printf("  Updated:   %d\n", res.Updated)
	fmt.Printf("  Unchanged: %d\n", res.Unchanged)
	if opts.Prune {
		fmt.Printf("  Deleted:   %d\n", res.Deleted)
	}

	if len(res.Failed) > 0 {
		fmt.Println()
		for _, f := range res.Failed {
			fmt.Printf("  ✗ %s: %v\n", f.Title, f.Err)
		}
		return fmt.Errorf("%d events failed to sync", len(res.Failed))
	}
	return nil
}

func runGoogleCalendars(cmd *cobra.Command, _ []string) error {
	p, err := newPublisher(cmd.Context(), "")
	if err != nil {
		return err
	}
	calendars, err := p.Calendars(cmd.Context())
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(calendars))
	for id := range calendars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return calendars[ids[i]] < calendars[ids[j]] })

	fmt.Println("📅 Available calendars:")
	fmt.Println(divider)
	for _, id := range ids {
		marker := "•"
		if id == p.CalendarID() {
			marker = "*"
		}
		fmt.Printf("\n  %s %s\n", marker, calendars[id])
		fmt.Printf("    ID: %s\n", id)
	}

	fmt.Println()
	fmt.Printf("Total: %d calendars\n", len(calendars))
	fmt.Println("\nTip: set google.calendar_id or pass --calendar-id to 'jtk google sync'")

	return nil
}

func getTokenViaLocalServer(config *oauth2.Config, providerName string, authOpts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	server := &http.Server{Addr: ":" + redirectPort}
	mux := http.NewServeMux()

	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errMsg := r.URL.Query().Get("error")
			http.Error(w, "Authorization failed: "+errMsg, http.StatusBadRequest)
			errChan <- fmt.Errorf("authorization failed: %s", errMsg)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `
			<!DOCTYPE html>
			<html>
			<head>
				<title>Authorization Successful</title>
				<style>
					body { font-family: -apple-system, sans-serif; display: flex;
					       justify-content: center; align-items: center; height: 100vh;
					       margin: 0; background: #1a1a1a; color: #fff; }
					.card { background: #2d2d2d; padding: 40px; border-radius: 12px;
					        box-shadow: 0 2px 10px rgba(0,0,0,0.3); text-align: center; }
					h1 { color: #4ade80; margin-bottom: 10px; }
					p { color: #a1a1aa; }
				</style>
			</head>
			<body>
				<div class="card">
					<h1>jtk is connected</h1>
					<p>You can close this window and return to the terminal.</p>
				</div>
			</body>
			</html>
		`)

		codeChan <- code
	})

	server.Handler = mux

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	authURL := config.AuthCodeURL("state-token", authOpts...)

	fmt.Printf("🔐 Opening browser for %s authorization...\n", providerName)
	fmt.Println()

	if err := openBrowser(authURL); err != nil {
		fmt.Println("⚠️  Couldn't open browser automatically.")
		fmt.Println("   Please open this URL manually:")
		fmt.Println(authURL)
	}

	fmt.Println("⏳ Waiting for authorization...")

	var code string
	select {
	case code = <-codeChan:
	case err := <-errChan:
		server.Shutdown(context.Background())
		return nil, err
	case <-time.After(5 * time.Minute):
		server.Shutdown(context.Background())
		return nil, fmt.Errorf("timeout waiting for authorization")
	}

	server.Shutdown(context.Background())

	tok, err := config.Exchange(context.Background(), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return tok, nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}

	return cmd.Start()
}
