package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cuenta-app/cuenta/internal/account"
	"github.com/cuenta-app/cuenta/internal/discovery"
	"github.com/cuenta-app/cuenta/internal/form"
	"github.com/cuenta-app/cuenta/internal/logging"
	"github.com/cuenta-app/cuenta/internal/presenter"
	"github.com/cuenta-app/cuenta/internal/submission"
	"github.com/cuenta-app/cuenta/internal/ui"
	"github.com/cuenta-app/cuenta/internal/validation"
)

// Command flags
var (
	outputFormat string
	scanTimeout  int
	noVerify     bool
	retries      int
	assumeYes    bool
)

// editFlags maps edit command flags to profile fields
var editFlags = []struct {
	name  string
	field form.FieldID
	usage string
}{
	{"nick", form.FieldNick, "Nickname"},
	{"name", form.FieldName, "First name"},
	{"surname1", form.FieldSurname1, "First surname"},
	{"surname2", form.FieldSurname2, "Second surname (empty to clear)"},
	{"nif", form.FieldNIF, "National ID number (8 digits and a letter)"},
	{"email", form.FieldEmail, "Email address"},
	{"phone", form.FieldPhone, "Phone number, 9 digits (empty to clear)"},
	{"postal-code", form.FieldPostalCode, "Postal code, 5 digits (empty to clear)"},
}

var editValues = make(map[form.FieldID]*string)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(scanCmd)
}

// showCmd displays the profile
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Long: `Display the profile stored on the backend.

The profile is always read fresh from the backend.`,
	Example: `  # Show the profile of the configured user
  cuenta show

  # Compact output format
  cuenta show --format compact

  # JSON output for scripting
  cuenta show --format json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "", "Output format (detailed, compact, json); default from config")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	format := outputFormat
	if format == "" && s.registry.Preferences != nil {
		format = s.registry.Preferences.OutputFormat
	}

	p, err := s.client.RefreshProfile(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	s.markSeen()

	switch format {
	case "compact":
		fmt.Println(p.FormatCompact())
	case "json":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "detailed", "":
		fmt.Println(p.FormatDetailed())
	default:
		return fmt.Errorf("unknown format %q (use detailed, compact or json)", format)
	}

	return nil
}

// editCmd updates profile fields without the TUI
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit profile fields",
	Long: `Update one or more profile fields directly.

Only the fields given as flags change; the rest keep their stored value.
Values are checked with the same rules as the interactive form before
anything is sent. After the update the profile is read back to confirm the
backend stored it, unless --no-verify is given.`,
	Example: `  # Change the nickname
  cuenta edit --nick anita

  # Change the email and clear the phone number
  cuenta edit --email ana@example.org --phone ""

  # Skip the read-back check
  cuenta edit --name "Ana María" --no-verify`,
	RunE: runEdit,
}

func init() {
	for _, f := range editFlags {
		editValues[f.field] = editCmd.Flags().String(f.name, "", f.usage)
	}
	editCmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip reading the profile back after the update")
	editCmd.Flags().IntVar(&retries, "retries", 2, "Number of verification retries")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := ui.NewPrinter(os.Stdout)

	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	current, err := s.client.RefreshProfile(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	f := form.NewProfileForm(*current).WithRules(s.rules)
	for _, ef := range editFlags {
		if cmd.Flags().Changed(ef.name) {
			f = f.Reduce(form.FieldChanged{Field: ef.field, Value: *editValues[ef.field]})
		}
	}

	if !f.Dirty(*current) {
		printer.PrintWarning("Nothing to change", []ui.Detail{{Key: "Hint", Value: "pass at least one field flag that differs from the stored value"}})
		return nil
	}
	if errs := f.Errors(); len(errs) > 0 {
		return errors.New(validation.FormatValidationErrors(errs))
	}

	update := f.Update(s.userID)
	printer.PrintHeader("EDIT PROFILE", "cuenta edit", s.details())
	printer.Println(update.FormatChanges(*current))

	var verified *account.VerificationResult
	verify := !noVerify && (s.registry.Preferences == nil || s.registry.Preferences.VerifyUpdates)

	op := account.UpdateProfileOp(s.client, update)
	if verify {
		opts := account.DefaultVerificationOptions()
		opts.MaxRetries = retries
		op = func(ctx context.Context) submission.Result {
			verified = s.client.UpdateAndVerify(ctx, update, opts)
			if !verified.Success {
				return submission.Result{Message: account.GetShortErrorMessage(verified.Error)}
			}
			return submission.Result{Success: true, Message: "Profile updated and verified"}
		}
	}

	fb, err := submitOnce(ctx, presenter.FlowEditProfile, f.CanSubmit(*current, false), op)
	if err != nil {
		return err
	}

	if fb.IsError() {
		var details []string
		if verified != nil {
			for _, m := range verified.Mismatches {
				details = append(details, "Mismatch: "+m.String())
			}
			if verified.Error != nil {
				details = append(details, ui.SplitHint(account.GetTroubleshootingHint(verified.Error))...)
			}
		}
		printer.PrintError("Profile update failed", errors.New(fb.Message), details)
		return fmt.Errorf("profile update failed")
	}

	s.markSeen()
	result := []ui.Detail{{Key: "Changed", Value: fmt.Sprintf("%d field(s)", len(f.Changed(*current)))}}
	if verified != nil {
		result = append(result, ui.Detail{Key: "Verified", Value: fmt.Sprintf("%d attempt(s)", verified.Attempts)})
	} else {
		result = append(result, ui.Detail{Key: "Verified", Value: "no"})
	}
	printer.PrintSuccess(fb.Message, result)
	return nil
}

// passwdCmd changes the password without the TUI
var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	Long: `Change the account password.

You are asked for the current password, the new password and its
confirmation. Input is hidden when reading from a terminal. When stdin is
not a terminal the three values are read one per line.`,
	Example: `  # Interactive
  cuenta passwd

  # From a script
  printf '%s\n%s\n%s\n' "$OLD" "$NEW" "$NEW" | cuenta passwd`,
	RunE: runPasswd,
}

func runPasswd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := ui.NewPrinter(os.Stdout)

	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	printer.PrintHeader("CHANGE PASSWORD", "cuenta passwd", s.details())

	read := newSecretReader(os.Stdin, os.Stderr)
	var f form.PasswordForm
	for _, id := range form.PasswordFields {
		value, err := read(id.Label())
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", strings.ToLower(id.Label()), err)
		}
		f = f.Reduce(form.FieldChanged{Field: id, Value: value})
	}

	v := f.Validity()
	if f.New.Value != "" {
		printer.Println(fmt.Sprintf("Strength: %s", validation.StrengthLabel(v.Strength)))
	}
	if !v.Valid {
		return errors.New(validation.FormatValidationErrors(f.Errors()))
	}

	op := account.ChangePasswordOp(s.client, s.userID, f.Current.Value, f.New.Value)
	fb, err := submitOnce(ctx, presenter.FlowChangePassword, f.Valid(), op)
	if err != nil {
		return err
	}

	if fb.IsError() {
		printer.PrintError("Password change failed", errors.New(fb.Message), nil)
		return fmt.Errorf("password change failed")
	}

	s.markSeen()
	printer.PrintSuccess(fb.Message, []ui.Detail{{Key: "User", Value: s.userID}})
	return nil
}

// newSecretReader prompts for hidden input on a terminal and falls back to
// reading lines otherwise
func newSecretReader(in *os.File, prompt io.Writer) func(label string) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		return func(label string) (string, error) {
			fmt.Fprintf(prompt, "%s: ", label)
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(prompt)
			return string(b), err
		}
	}

	r := bufio.NewReader(in)
	return func(label string) (string, error) {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// submitOnce runs op through a submission controller and returns the
// feedback a screen would show
func submitOnce(ctx context.Context, flow presenter.Flow, valid bool, op submission.Operation) (presenter.Feedback, error) {
	ctrl := submission.NewController(flow.String())
	results, ok := ctrl.Submit(ctx, valid, op)
	if !ok {
		return presenter.Feedback{}, fmt.Errorf("form is not valid")
	}

	out := ctrl.OnResult(<-results)
	fb, _ := presenter.New().Present(flow, out.State, out.Navigate)
	return fb, nil
}

// logoutCmd ends the session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Long: `Close the session on the backend.

The token stops working for every client, including open TUIs, which
return to the signed-out state.`,
	Example: `  # Ask for confirmation
  cuenta logout

  # Skip the confirmation
  cuenta logout --yes`,
	RunE: runLogout,
}

func init() {
	logoutCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := ui.NewPrinter(os.Stdout)

	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	if !assumeYes && !ui.Confirm(os.Stdin, os.Stdout, "Sign out", []string{
		"The session token will stop working",
		"Open cuenta windows will return to the signed-out screen",
	}) {
		return nil
	}

	if err := s.client.Logout(ctx); err != nil {
		printer.PrintError("Logout failed", err, ui.SplitHint(account.GetTroubleshootingHint(err)))
		return fmt.Errorf("logout failed")
	}

	printer.PrintSuccess("Signed out", s.details())
	return nil
}

// scanCmd browses the local network for backends
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for cuenta servers on the network",
	Long: `Scan for cuenta servers using mDNS/DNS-SD discovery.

Every server found is remembered in the config file under its instance
name, so it can be selected later with --server <name>.`,
	Example: `  # Scan for 5 seconds (default)
  cuenta scan

  # Longer scan for slow networks
  cuenta scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for cuenta servers (timeout: %ds)...\n\n", scanTimeout)

	servers, err := discovery.ScanForServers(cmd.Context(), time.Duration(scanTimeout)*time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure cuenta-server runs with --advertise")
		fmt.Println("  - Check that you are on the same network segment")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --server to give the URL directly")
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(servers))

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	for i, srv := range servers {
		fmt.Printf("%d. %s\n", i+1, srv.Instance)
		fmt.Printf("   URL:     %s\n", srv.BaseURL())
		fmt.Printf("   Host:    %s\n", srv.Hostname)
		if v := srv.Version(); v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		fmt.Println()

		reg.RecordDiscovered(srv.Instance, srv.BaseURL())
	}

	if err := reg.Save(); err != nil {
		logging.Warn("Failed to remember discovered servers", zap.Error(err))
	}

	fmt.Println("Use 'cuenta --server <name>' to connect to one of them")
	fmt.Println("Use 'cuenta config use <name>' to make it the default")

	return nil
}

// details lists the session for command headers
func (s *session) details() []ui.Detail {
	server := s.url
	if s.name != "" {
		server = fmt.Sprintf("%s (%s)", s.name, s.url)
	}
	return []ui.Detail{
		{Key: "Server", Value: server},
		{Key: "User", Value: s.userID},
	}
}

// markSeen records a successful request against a configured server
func (s *session) markSeen() {
	if s.name == "" {
		return
	}
	s.registry.MarkSeen(s.name)
	if err := s.registry.Save(); err != nil {
		logging.Debug("Failed to save last seen time", zap.Error(err))
	}
}
