package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuenta-app/cuenta/internal/config"
	"github.com/cuenta-app/cuenta/internal/ui"
)

// Config command flags
var (
	serverName string
	nickMin    int
	nickMax    int
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configUseCmd)
	configCmd.AddCommand(configSetRulesCmd)
	configCmd.AddCommand(configSetFormatCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the cuenta config file",
	Long: `Inspect and change the cuenta config file.

The file holds backend addresses, the user to manage on each of them,
display preferences and the profile validation bounds. It never holds
passwords or tokens; pass the token with --token or $` + tokenEnvVar + `.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		path, _ := config.GetConfigPath()
		printer := ui.NewPrinter(os.Stdout)

		details := []ui.Detail{{Key: "File", Value: path}}
		if len(reg.Servers) == 0 {
			details = append(details, ui.Detail{Key: "Servers", Value: "(none)"})
		}
		for _, name := range reg.ServerNames() {
			s := reg.GetServer(name)
			label := name
			if name == reg.Current {
				label += " *"
			}
			value := s.URL
			if s.UserID != "" {
				value += "  user " + s.UserID
			}
			value += "  [" + s.Source + "]"
			if !s.LastSeen.IsZero() {
				value += "  seen " + s.LastSeen.Format(time.RFC3339)
			}
			details = append(details, ui.Detail{Key: label, Value: value})
		}

		rules := reg.EffectiveRules()
		details = append(details,
			ui.Detail{Key: "Nickname length", Value: fmt.Sprintf("%d-%d", rules.NickMin, rules.NickMax)},
			ui.Detail{Key: "Name minimum", Value: fmt.Sprintf("%d", rules.NameMin)},
		)
		if p := reg.Preferences; p != nil {
			details = append(details,
				ui.Detail{Key: "Output format", Value: p.OutputFormat},
				ui.Detail{Key: "Auto discover", Value: fmt.Sprintf("%v (%ds)", p.AutoDiscover, p.DiscoverTimeout)},
				ui.Detail{Key: "Verify updates", Value: fmt.Sprintf("%v", p.VerifyUpdates)},
			)
		}

		printer.PrintSuccess("Configuration", details)
		return nil
	},
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server <url>",
	Short: "Add or update a server",
	Example: `  # Configure the default server
  cuenta config set-server http://localhost:8420 --user u-1

  # Add a second server and switch to it
  cuenta config set-server https://cuenta.example.org --name work --user 42 --use`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		s := reg.SetServer(serverName, args[0], userFlag)
		if use, _ := cmd.Flags().GetBool("use"); use {
			if err := reg.UseServer(serverName); err != nil {
				return err
			}
		}
		if err := reg.Save(); err != nil {
			return err
		}

		fmt.Printf("Server %q set to %s", serverName, s.URL)
		if s.UserID != "" {
			fmt.Printf(" (user %s)", s.UserID)
		}
		fmt.Println()
		return nil
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a configured server the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		if err := reg.UseServer(args[0]); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Printf("Now using %q\n", args[0])
		return nil
	},
}

var configSetRulesCmd = &cobra.Command{
	Use:   "set-rules",
	Short: "Set the nickname length bounds",
	Example: `  # Allow nicknames of 4 to 12 characters
  cuenta config set-rules --nick-min 4 --nick-max 12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		rules := reg.EffectiveRules()
		lo, hi := rules.NickMin, rules.NickMax
		if cmd.Flags().Changed("nick-min") {
			lo = nickMin
		}
		if cmd.Flags().Changed("nick-max") {
			hi = nickMax
		}

		if err := reg.SetNickBounds(lo, hi); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}

		fmt.Printf("Nicknames must now be %d-%d characters\n", lo, hi)
		return nil
	},
}

var configSetFormatCmd = &cobra.Command{
	Use:       "set-format <format>",
	Short:     "Set the default output format of 'cuenta show'",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.OutputFormats,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		if !config.ValidOutputFormat(format) {
			return fmt.Errorf("unknown format %q (use detailed, compact or json)", format)
		}

		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		if reg.Preferences == nil {
			reg.Preferences = config.DefaultPreferences()
		}
		reg.Preferences.OutputFormat = format
		if err := reg.Save(); err != nil {
			return err
		}

		fmt.Printf("Default output format set to %s\n", format)
		return nil
	},
}

func init() {
	configSetServerCmd.Flags().StringVar(&serverName, "name", config.DefaultServerName, "Name of the server entry")
	configSetServerCmd.Flags().Bool("use", false, "Make this the active server")

	configSetRulesCmd.Flags().IntVar(&nickMin, "nick-min", 0, "Minimum nickname length")
	configSetRulesCmd.Flags().IntVar(&nickMax, "nick-max", 0, "Maximum nickname length")
}

func loadRegistry() (*config.Registry, error) {
	reg, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return reg, nil
}
