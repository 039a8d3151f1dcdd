package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/morkath/contacts/internal/birthdays"
)

// Birthdays writes an iCalendar file with one event per contact whose
// birthday could be parsed, each at its next occurrence.
func (a *App) Birthdays(ctx context.Context, path string) error {
	all, err := a.service.List(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}

	ics, count, err := birthdays.Calendar(all, time.Now())
	if err != nil {
		a.reportError(err)
		return err
	}

	if err := os.WriteFile(path, ics, 0o600); err != nil {
		a.reportError(err)
		return err
	}
	printlnFn(fmt.Sprintf("Wrote %d birthday(s) to %s", count, path))
	return nil
}
