// Package ui provides terminal output components for the cuenta CLI.
//
// These components use Lipgloss to render polished, non-interactive output
// for one-shot commands such as `cuenta show` or `cuenta passwd --current ...`.
// The interactive screens live in package tui.
//
// # Components
//
//   - Header: Command banner showing operation name and parameters
//   - Result: Success/failure/warning boxes with ordered details
//   - Printer: Writes components to an io.Writer at a fixed width
//   - Confirm: Yes/no prompt for operations that end the session
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Change Password", "cuenta passwd", []ui.Detail{
//	    {Key: "Server", Value: "localhost:8420"},
//	    {Key: "User", Value: "u-1"},
//	})
//
//	if err != nil {
//	    p.PrintError("Password not changed", err, hints)
//	    return err
//	}
//	p.PrintSuccess("Password changed", nil)
//
// # Logging Integration
//
// This package expects logging to be controlled via the CUENTA_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
