package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"sportslot/internal/booking"
)

// utf8BOM makes spreadsheet applications detect the encoding when the
// statino is opened directly from the download.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Filename derives the download name for a statino from its slot and date.
func Filename(facility, date string, slotID int) string {
	return fmt.Sprintf("statino_%s_%s_%d.csv", facility, date, slotID)
}

// WriteStatino renders the attendance sheet for one slot/date as delimited
// text: a preamble describing the slot, then one row per booked member.
func WriteStatino(w io.Writer, attendance *booking.AttendanceResponse) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	records := [][]string{
		{"Date", attendance.Date},
		{"Facility", attendance.Slot.Facility},
		{"Slot", fmt.Sprintf("%s %s-%s", attendance.Slot.Title, attendance.Slot.StartTime, attendance.Slot.EndTime)},
		{},
		{"Last name", "First name", "Group", "Booked at"},
	}
	for _, row := range attendance.Attendees {
		records = append(records, []string{
			row.LastName,
			row.FirstName,
			row.GroupLabel,
			row.BookedAt.Format(time.RFC3339),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return err
	}

	return cw.Error()
}
