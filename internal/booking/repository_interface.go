package booking

import (
	"context"
	"time"
)

type Repository interface {
	CreateBooking(ctx context.Context, userID, slotID int, date time.Time, capacity *int) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	DeleteBooking(ctx context.Context, id int) error
	GetUserBookingsForDate(ctx context.Context, userID int, date time.Time) ([]BookingWithSlot, error)
	GetAttendance(ctx context.Context, slotID int, date time.Time) ([]AttendanceRow, error)
}
