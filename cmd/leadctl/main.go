package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/you/leadsvc/internal/client"
)

var (
	// Global flags
	serverURL   string
	sessionPath string
	timeout     time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "leadctl",
	Short: "Terminal client for the leadsvc API",
	Long: `leadctl drives the signup, verification, sign-in and booking flows
of a leadsvc server from the terminal.

Session state (token, pending verification, open dialogs) is kept in a JSON
file so consecutive commands behave like one browser session.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("LEADCTL_SERVER", "http://localhost:5000"), "leadsvc base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", envOr("LEADCTL_SESSION", defaultSessionPath()), "Session state file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	registerAuthCommands()
	registerBookingCommands()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".leadctl-session.json"
	}
	return filepath.Join(dir, "leadctl", "session.json")
}

// session loads the store and a client carrying its token
func session() (*client.Store, *client.Client, error) {
	store, err := client.LoadStore(sessionPath)
	if err != nil {
		return nil, nil, err
	}
	return store, client.New(serverURL, client.WithToken(store.Token())), nil
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
