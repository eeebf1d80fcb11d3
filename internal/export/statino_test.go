package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportslot/internal/booking"
)

func sampleAttendance() *booking.AttendanceResponse {
	bookedAt := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	return &booking.AttendanceResponse{
		Date: "2024-06-03",
		Slot: booking.SlotSummary{
			ID:        1,
			Facility:  "GYM",
			Title:     "First shift",
			StartTime: "16:00",
			EndTime:   "17:15",
		},
		Attendees: []booking.AttendanceRow{
			{LastName: "Bianchi", FirstName: "Anna", GroupLabel: "BETA", BookedAt: bookedAt},
			{LastName: "Rossi", FirstName: "Mario", GroupLabel: "ATLA", BookedAt: bookedAt},
		},
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "statino_GYM_2024-06-03_1.csv", Filename("GYM", "2024-06-03", 1))
}

func TestWriteStatino(t *testing.T) {
	var buf bytes.Buffer
	err := WriteStatino(&buf, sampleAttendance())
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, string([]byte{0xEF, 0xBB, 0xBF})))

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, string([]byte{0xEF, 0xBB, 0xBF}))), "\n")
	require.Len(t, lines, 7)

	assert.Equal(t, "Date,2024-06-03", strings.TrimSpace(lines[0]))
	assert.Equal(t, "Facility,GYM", strings.TrimSpace(lines[1]))
	assert.Equal(t, "Slot,First shift 16:00-17:15", strings.TrimSpace(lines[2]))
	assert.Equal(t, "", strings.TrimSpace(lines[3]))
	assert.Equal(t, "Last name,First name,Group,Booked at", strings.TrimSpace(lines[4]))
	assert.Contains(t, lines[5], "Bianchi,Anna,BETA,2024-06-01T10:30:00Z")
	assert.Contains(t, lines[6], "Rossi,Mario,ATLA")
}

func TestWriteStatino_NoAttendees(t *testing.T) {
	att := sampleAttendance()
	att.Attendees = nil

	var buf bytes.Buffer
	err := WriteStatino(&buf, att)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Preamble and header only.
	assert.Len(t, lines, 5)
}
