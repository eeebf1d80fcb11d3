package slot

import "time"

const (
	FacilityGym    = "GYM"
	FacilityCourts = "COURTS"
	FacilityPool   = "POOL"
)

// Slot is a recurring weekly template: it carries a weekday (1=Monday..7=Sunday)
// and clock times, never a calendar date. Capacity nil means unlimited.
type Slot struct {
	ID        int       `db:"id" json:"id"`
	Facility  string    `db:"facility" json:"facility"`
	Title     string    `db:"title" json:"title"`
	Weekday   int       `db:"weekday" json:"weekday"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Capacity  *int      `db:"capacity" json:"capacity"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type SlotWithAvailability struct {
	Slot
	Booked     int  `json:"booked"`
	Remaining  *int `json:"remaining"`
	Full       bool `json:"full"`
	BookedByMe bool `json:"booked_by_me"`
}

type AvailabilityResponse struct {
	Date  string                 `json:"date"`
	Slots []SlotWithAvailability `json:"slots"`
}

type CreateSlotRequest struct {
	Facility  string `json:"facility" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Weekday   int    `json:"weekday" binding:"required,min=1,max=7"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Capacity  *int   `json:"capacity"`
	Active    *bool  `json:"active"`
}

func ValidFacility(f string) bool {
	switch f {
	case FacilityGym, FacilityCourts, FacilityPool:
		return true
	}
	return false
}

// WeekdayOf maps Go's Sunday-first weekday to the 1=Monday..7=Sunday
// convention used by slot templates.
func WeekdayOf(d time.Time) int {
	return (int(d.Weekday())+6)%7 + 1
}

// ParseDate parses a calendar date in the API's YYYY-MM-DD wire format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
