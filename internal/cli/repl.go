package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Search(ctx context.Context, pattern string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, ids []string) error
	Favorite(ctx context.Context, id string) error
	Photo(ctx context.Context, id, path string) error
	Import(ctx context.Context) error
	Export(ctx context.Context, id string) error
	Birthdays(ctx context.Context, path string) error
}

// runREPL starts a simple read-eval-print loop for the contacts CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//   - help                 — show available commands
//   - l | list             — list all contacts
//   - show <id>            — show a single contact
//   - search <text>        — case-sensitive substring search
//   - add                  — add a contact (interactive)
//   - edit <id>            — edit a contact (interactive)
//   - del <id> [id...]     — delete contacts
//   - fav <id>             — toggle the favorite flag
//   - photo <id> <file>    — attach a photo
//   - import               — merge the device address book
//   - export <id>          — push a contact to the device address book
//   - birthdays [file]     — write upcoming birthdays as an ICS file
//   - exit | quit          — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("contacts> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist, show, search, add, edit, del, fav, photo, import, export, birthdays, exit")

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <text>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))

		case "add":
			_ = a.Add(ctx)

		case "edit":
			if len(args) == 0 {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "del":
			if len(args) == 0 {
				printlnFn("Usage: del <id> [id...]")
				continue
			}
			_ = a.Delete(ctx, args)

		case "fav":
			if len(args) == 0 {
				printlnFn("Usage: fav <id>")
				continue
			}
			_ = a.Favorite(ctx, args[0])

		case "photo":
			if len(args) < 2 {
				printlnFn("Usage: photo <id> <file>")
				continue
			}
			_ = a.Photo(ctx, args[0], args[1])

		case "import":
			_ = a.Import(ctx)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <id>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "birthdays":
			path := "birthdays.ics"
			if len(args) > 0 {
				path = args[0]
			}
			_ = a.Birthdays(ctx, path)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
