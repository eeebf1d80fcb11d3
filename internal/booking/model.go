package booking

import "time"

type Booking struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	SlotID    int       `db:"slot_id" json:"slot_id"`
	Date      time.Time `db:"date" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookingWithSlot is a ledger row joined with its slot template, as shown in
// the caller's own booking list.
type BookingWithSlot struct {
	BookingID int    `db:"booking_id" json:"booking_id"`
	SlotID    int    `db:"slot_id" json:"slot_id"`
	Facility  string `db:"facility" json:"facility"`
	Title     string `db:"title" json:"title"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// AttendanceRow carries full user identity and is therefore admin-only.
type AttendanceRow struct {
	LastName   string    `db:"last_name" json:"last_name"`
	FirstName  string    `db:"first_name" json:"first_name"`
	GroupLabel string    `db:"group_label" json:"group"`
	BookedAt   time.Time `db:"booked_at" json:"booked_at"`
}

type BookRequest struct {
	SlotID int    `json:"slot_id" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

type BookResponse struct {
	OK        bool `json:"ok"`
	BookingID int  `json:"booking_id"`
}

type MyBookingsResponse struct {
	Date     string            `json:"date"`
	Bookings []BookingWithSlot `json:"bookings"`
}

type SlotSummary struct {
	ID        int    `json:"id"`
	Facility  string `json:"facility"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AttendanceResponse struct {
	Date      string          `json:"date"`
	Slot      SlotSummary     `json:"slot"`
	Attendees []AttendanceRow `json:"attendees"`
}
