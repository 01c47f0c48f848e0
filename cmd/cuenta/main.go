// Cuenta is a terminal client for account self-service.
//
// It lets a signed-in user view their profile, edit it and change their
// password, either through an interactive TUI or through direct commands
// suitable for scripting.
//
// Usage:
//
//	cuenta [command] [flags]
//
// Running without arguments launches the interactive TUI.
// See 'cuenta --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/tui"
	"github.com/cuenta-app/cuenta/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startRoute is the first TUI screen
var startRoute string

var rootCmd = &cobra.Command{
	Use:   "cuenta",
	Short: "Account self-service client",
	Long: `A terminal client for managing your account.

View your profile, edit your personal details and change your password
against a cuenta backend. The backend is taken from --server, from the
active server in the config file, or found on the local network.

If no command is specified, the interactive TUI will launch automatically.`,
	Example: `  # Launch the TUI on the profile screen
  cuenta --user u-1

  # Go straight to the change-password form
  cuenta --start passwd

  # Use a backend that is not in the config file
  cuenta --server http://localhost:8420 --user u-1 --token dev-token`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Backend URL or configured server name")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "User ID (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Session token (default $"+tokenEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default $"+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.Flags().StringVar(&startRoute, "start", "profile", "First screen (profile, edit, passwd)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initLogging(cmd == rootCmd)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		logging.Sync()
	}

	rootCmd.AddCommand(versionCmd)
}

// initLogging keeps the terminal clean while the TUI owns it
func initLogging(interactive bool) error {
	output := logFile
	if output == "" {
		if interactive {
			logging.Disable()
			return nil
		}
		output = "stderr"
	}
	return logging.InitializeWithOutput(logLevel, output)
}

func runTUI(cmd *cobra.Command, args []string) error {
	start, ok := tui.ParseRoute(startRoute)
	if !ok {
		return fmt.Errorf("unknown start screen %q (use profile, edit or passwd)", startRoute)
	}

	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	final, err := tui.Run(ctx, tui.Session{
		Service: s.client,
		UserID:  s.userID,
		Rules:   s.rules,
		Server:  s.url,
	}, start)
	if err != nil {
		return err
	}

	if final.SignedOut() {
		fmt.Println("Signed out.")
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cuenta " + version.Full())
	},
}
