// Package cli provides the interactive contacts command-line client.
//
// It wires configuration, the SQLite store, the photo directory and the
// optional device address book into an interactive REPL.
//
// Key features:
//   - Add / edit / delete contacts with per-field validation feedback
//   - List and case-sensitive substring search
//   - Import from and export to the device address book
//   - Export upcoming birthdays as an iCalendar file
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
