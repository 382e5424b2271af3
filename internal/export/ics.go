package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/wipdash/wipdash/internal/api"
)

const icsProductID = "-//wipdash//time log export//EN"

// WriteICS renders logs as an iCalendar feed, one VEVENT per log starting
// at the log's date and running for its duration, so a week of logged time
// can be dropped into any calendar application.
func WriteICS(w io.Writer, logs []api.TimeLog) error {
	// The encoder refuses an eventless calendar, but an empty view must
	// still export as a valid zero-event feed.
	if len(logs) == 0 {
		_, err := io.WriteString(w,
			"BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:"+icsProductID+"\r\nEND:VCALENDAR\r\n")
		if err != nil {
			return fmt.Errorf("encoding calendar: %w", err)
		}
		return nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	now := time.Now().UTC()
	for _, log := range logs {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, log.ID+"@wipdash")
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetDateTime(ical.PropDateTimeStart, log.Date.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, log.Date.UTC().Add(time.Duration(log.DurationSecs)*time.Second))
		event.Props.SetText(ical.PropSummary, eventSummary(log))
		if log.Description != "" {
			event.Props.SetText(ical.PropDescription, log.Description)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

// ICSToFile writes the iCalendar export to path.
func ICSToFile(path string, logs []api.TimeLog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ics file: %w", err)
	}
	defer f.Close()

	if err := WriteICS(f, logs); err != nil {
		return err
	}
	return f.Close()
}

func eventSummary(log api.TimeLog) string {
	parts := make([]string, 0, 2)
	if log.ClientName != "" {
		parts = append(parts, log.ClientName)
	}
	if log.JobName != "" {
		parts = append(parts, log.JobName)
	}
	if len(parts) == 0 {
		return "Logged time"
	}
	return strings.Join(parts, " — ")
}
