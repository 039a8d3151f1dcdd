package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/morkath/contacts/internal/models"
	"github.com/morkath/contacts/internal/validation"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		printlnFn("Invalid id:", s)
		return 0, err
	}
	return id, nil
}

// formatLine renders the one-line list representation of a contact.
func formatLine(c models.Contact) string {
	star := " "
	if c.IsFavorite {
		star = "*"
	}
	return fmt.Sprintf("%4d %s %-20s %s", c.ID, star, c.Name, c.PhoneNumber)
}

// reportError prints an error for the user. Validation failures are expanded
// into one line per failing field so the whole form can be fixed at once.
func (a *App) reportError(err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			printlnFn(fmt.Sprintf("  %s: %s", f, verr.Fields[f]))
		}
		return
	}
	printlnFn("Error:", err.Error())
}

// List prints a one-line representation for each stored contact, ordered by
// name.
func (a *App) List(ctx context.Context) error {
	all, err := a.service.List(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}
	for _, c := range all {
		printlnFn(formatLine(c))
	}
	return nil
}

// Show prints every filled field of a single contact.
func (a *App) Show(ctx context.Context, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}

	c, err := a.service.Get(ctx, id)
	if err != nil {
		a.reportError(err)
		return err
	}
	if c == nil {
		printlnFn("No contact with id", id)
		return nil
	}

	printlnFn("Name:", c.Name)
	printlnFn("Phone:", c.PhoneNumber)
	if c.Email != "" {
		printlnFn("Email:", c.Email)
	}
	if c.Address != "" {
		printlnFn("Address:", c.Address)
	}
	if c.Birthday != "" {
		printlnFn("Birthday:", c.Birthday)
	}
	if c.Notes != "" {
		printlnFn("Notes:", c.Notes)
	}
	if c.PhotoPath != "" {
		printlnFn("Photo:", c.PhotoPath)
	}
	if c.IsFavorite {
		printlnFn("Favorite: yes")
	}
	if c.DeviceID != 0 {
		printlnFn("Device record:", c.DeviceID)
	}
	return nil
}

// Search prints contacts matching pattern as a case-sensitive substring of
// name, phone, email or address.
func (a *App) Search(ctx context.Context, pattern string) error {
	found, err := a.service.Search(ctx, pattern)
	if err != nil {
		a.reportError(err)
		return err
	}
	if len(found) == 0 {
		printlnFn("No matches")
		return nil
	}
	for _, c := range found {
		printlnFn(formatLine(c))
	}
	return nil
}

// promptContact collects contact fields interactively. base carries the
// current values when editing; an empty answer keeps the current value.
func (a *App) promptContact(base models.Contact) (models.Contact, error) {
	prompt := func(label, current string) (string, error) {
		p := label
		if current != "" {
			p = fmt.Sprintf("%s [%s]", label, current)
		}
		v, err := GetSimpleText(a.reader, p, os.Stdout)
		if err != nil {
			return "", err
		}
		if v == "" {
			return current, nil
		}
		return v, nil
	}

	var err error
	if base.Name, err = prompt("Enter name", base.Name); err != nil {
		return base, err
	}
	if base.PhoneNumber, err = prompt("Enter phone number", base.PhoneNumber); err != nil {
		return base, err
	}
	if base.Email, err = prompt("Enter email", base.Email); err != nil {
		return base, err
	}
	if base.Address, err = prompt("Enter address", base.Address); err != nil {
		return base, err
	}
	if base.Birthday, err = prompt("Enter birthday", base.Birthday); err != nil {
		return base, err
	}

	notes, err := GetMultiline(a.reader, "Enter notes (double Enter to finish):", os.Stdout)
	if err != nil {
		return base, err
	}
	if notes != "" {
		base.Notes = notes
	}
	return base, nil
}

// Add collects a new contact interactively and stores it.
func (a *App) Add(ctx context.Context) error {
	c, err := a.promptContact(models.Contact{})
	if err != nil {
		a.reportError(err)
		return err
	}

	created, err := a.service.Create(ctx, c)
	if err != nil {
		a.reportError(err)
		return err
	}
	printlnFn("Added contact", created.ID)
	return nil
}

// Edit loads a contact, collects replacement values interactively and
// rewrites the record.
func (a *App) Edit(ctx context.Context, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}

	current, err := a.service.Get(ctx, id)
	if err != nil {
		a.reportError(err)
		return err
	}
	if current == nil {
		printlnFn("No contact with id", id)
		return nil
	}

	c, err := a.promptContact(*current)
	if err != nil {
		a.reportError(err)
		return err
	}

	ok, err := a.service.Update(ctx, c)
	if err != nil {
		a.reportError(err)
		return err
	}
	if !ok {
		printlnFn("No contact with id", id)
		return nil
	}
	printlnFn("Updated contact", id)
	return nil
}

// Delete removes the contacts with the given ids.
func (a *App) Delete(ctx context.Context, idArgs []string) error {
	ids := make([]int64, 0, len(idArgs))
	for _, arg := range idArgs {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	n, err := a.service.DeleteMany(ctx, ids)
	if err != nil {
		a.reportError(err)
		return err
	}
	printlnFn(fmt.Sprintf("Deleted %d contact(s)", n))
	return nil
}

// Favorite toggles the favorite flag of a contact.
func (a *App) Favorite(ctx context.Context, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}

	c, err := a.service.ToggleFavorite(ctx, id)
	if err != nil {
		a.reportError(err)
		return err
	}
	state := "no longer a favorite"
	if c.IsFavorite {
		state = "now a favorite"
	}
	printlnFn(fmt.Sprintf("%s is %s", c.Name, state))
	return nil
}

// Photo attaches an image file to a contact, copying it into the photo
// directory.
func (a *App) Photo(ctx context.Context, idArg, path string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}

	c, err := a.service.AttachPhoto(ctx, id, strings.TrimSpace(path))
	if err != nil {
		a.reportError(err)
		return err
	}
	printlnFn("Photo stored at", c.PhotoPath)
	return nil
}
