// Package main is the savings board terminal client.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atinyakov/savingsboard/internal/client"
)

const (
	envAPIURL      = "BOARD_API_URL"
	envSessionFile = "BOARD_SESSION_FILE"
	defaultAPIURL  = "http://localhost:8080"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

var (
	apiURL      string
	sessionFile string
)

var rootCmd = &cobra.Command{
	Use:     "savingsboard",
	Short:   "Track shared savings goals from the terminal",
	Long:    "Log in, share boards by code, add target-price items and run AI price analysis.",
	Version: fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")),
	// Opens the board when a session exists, the login prompt otherwise.
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApp(cmd)
		if !a.dash.LoggedIn() {
			if err := a.login(cmd.Context()); err != nil {
				return err
			}
		}
		return a.shell(cmd.Context())
	},
	SilenceUsage: true,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a username and PIN",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return newApp(cmd).login(cmd.Context())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached login and board",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApp(cmd)
		if err := a.dash.Logout(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Fprintln(a.out, "Logged out.")
		return nil
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open the interactive board shell",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApp(cmd)
		if !a.dash.LoggedIn() {
			return errors.New("not logged in: run `savingsboard login` first")
		}
		return a.shell(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", cmp.Or(os.Getenv(envAPIURL), defaultAPIURL),
		"relay server base URL (or set "+envAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session", cmp.Or(os.Getenv(envSessionFile), client.DefaultSessionFile()),
		"session file (or set "+envSessionFile+")")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(shellCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
