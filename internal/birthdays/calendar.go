// Package birthdays turns the birthdays recorded on contacts into an
// iCalendar feed. Birthday values are free-form text, so anything that does
// not parse against the known layouts is skipped rather than reported.
package birthdays

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/morkath/contacts/internal/models"
)

const prodID = "-//morkath//contacts//EN"

// stubCalendar keeps the feed valid when no contact has a parseable
// birthday: some calendar clients reject a VCALENDAR without components.
const stubCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + prodID + "\r\nEND:VCALENDAR\r\n"

var yearLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"2 January 2006",
	"January 2, 2006",
}

var yearlessLayouts = []string{
	"--01-02", // vCard style
	"01-02",
	"2 January",
	"January 2",
}

// parseBirthday parses a free-form birthday string. yearKnown reports
// whether the value carried a year.
func parseBirthday(s string) (t time.Time, yearKnown bool, err error) {
	for _, layout := range yearLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized birthday %q", s)
}

// nextOccurrence returns the date the birthday next occurs, counting today
// as upcoming.
func nextOccurrence(now, birth time.Time) time.Time {
	loc := now.Location()
	candidate := time.Date(now.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = time.Date(now.Year()+1, birth.Month(), birth.Day(), 0, 0, 0, 0, loc)
	}
	return candidate
}

// Calendar builds an ICS document with one all-day event per contact whose
// birthday parses, placed at its next occurrence. It returns the encoded
// calendar and the number of events included.
func Calendar(contacts []models.Contact, now time.Time) ([]byte, int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	dtStamp := ical.NewProp(ical.PropDateTimeStamp)
	dtStamp.SetDateTime(now.UTC())

	count := 0
	for _, c := range contacts {
		if c.Birthday == "" {
			continue
		}
		birth, yearKnown, err := parseBirthday(c.Birthday)
		if err != nil {
			continue
		}

		when := nextOccurrence(now, birth)

		summary := fmt.Sprintf("%s's birthday", c.Name)
		if yearKnown {
			summary = fmt.Sprintf("%s's birthday (%d)", c.Name, when.Year()-birth.Year())
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("contact-%d@morkath.contacts", c.ID))
		event.Props.SetText(ical.PropSummary, summary)
		event.Props.Set(dtStamp)

		dtStart := ical.NewProp(ical.PropDateTimeStart)
		dtStart.SetDate(when)
		event.Props.Set(dtStart)

		cal.Children = append(cal.Children, event.Component)
		count++
	}

	if count == 0 {
		return []byte(stubCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("failed to encode birthday calendar: %w", err)
	}
	return buf.Bytes(), count, nil
}
