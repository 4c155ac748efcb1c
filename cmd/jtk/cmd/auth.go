package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/jtk/internal/adapter/rest"
	"github.com/theakshaypant/jtk/internal/session"
	"github.com/theakshaypant/jtk/internal/tui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the tracker",
	Long: `Sign in to the tracker with your email and password.

The session is saved to session_file (default ~/.config/jtk/session.json,
readable only by you) and reused until it expires or you run 'jtk logout'.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("email", "e", "", "Account email (prompted if omitted)")
	loginCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		var err error
		if email, err = tui.Prompt("Email:", false); err != nil {
			return err
		}
	}

	var password string
	if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password from stdin: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	} else {
		var err error
		if password, err = tui.Prompt("Password:", true); err != nil {
			return err
		}
	}

	sess, err := client.Login(cmd.Context(), email, password)
	if errors.Is(err, rest.ErrInvalidCredentials) {
		return fmt.Errorf("invalid email or password")
	}
	if err != nil {
		return err
	}

	name := sess.User.Username
	if name == "" {
		name = sess.User.Email
	}
	fmt.Printf("✅ Logged in as %s\n", name)
	if !sess.Token.Expiry.IsZero() {
		fmt.Printf("⏳ Session valid until %s\n", sess.Token.Expiry.Local().Format("Mon, Jan 2 3:04 PM"))
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := client.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("👋 Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	sess, err := client.Session()
	if errors.Is(err, session.ErrNoSession) || errors.Is(err, rest.ErrUnauthorized) {
		fmt.Println("Not logged in. Run 'jtk login' to sign in.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println("👤 Signed in")
	fmt.Println(divider)
	if sess.User.Username != "" {
		fmt.Printf("  Username: %s\n", sess.User.Username)
	}
	if sess.User.Email != "" {
		fmt.Printf("  Email:    %s\n", sess.User.Email)
	}
	if sess.User.Role != "" {
		fmt.Printf("  Role:     %s\n", sess.User.Role)
	}
	if !sess.Token.Expiry.IsZero() {
		fmt.Printf("  Expires:  %s\n", sess.Token.Expiry.Local().Format("Mon, Jan 2 3:04 PM"))
	}
	fmt.Printf("  Server:   %s\n", client.BaseURL())
	return nil
}
