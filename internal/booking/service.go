package booking

import (
	"context"
	"errors"
	"fmt"

	"sportslot/internal/logger"
	"sportslot/internal/metrics"
	"sportslot/internal/slot"
	"sportslot/internal/user"
)

var (
	ErrSlotNotFound    = errors.New("slot not found or inactive")
	ErrDayMismatch     = errors.New("slot not available on selected date")
	ErrSlotFull        = errors.New("slot full")
	ErrAlreadyBooked   = errors.New("already booked")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotOwner        = errors.New("not allowed")
	ErrInvalidDate     = errors.New("invalid date (use YYYY-MM-DD)")
)

// Notifier delivers best-effort booking emails; failures never fail a booking.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name, slotTitle, facility, date, startTime string) error
	SendBookingCancellation(ctx context.Context, to, name, slotTitle, facility, date string) error
}

type Service interface {
	Book(ctx context.Context, userID, slotID int, dateStr string) (*Booking, error)
	Cancel(ctx context.Context, userID int, isAdmin bool, bookingID int) error
	ListMine(ctx context.Context, userID int, dateStr string) (*MyBookingsResponse, error)
	ListForSlot(ctx context.Context, slotID int, dateStr string) (*AttendanceResponse, error)
}

type service struct {
	bookingRepo Repository
	slotRepo    slot.Repository
	userRepo    user.Repository
	notifier    Notifier
}

func NewService(bookingRepo Repository, slotRepo slot.Repository, userRepo user.Repository, notifier Notifier) Service {
	return &service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

func (s *service) Book(ctx context.Context, userID, slotID int, dateStr string) (*Booking, error) {
	date, err := slot.ParseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}

	sl, err := s.slotRepo.GetSlotByID(ctx, slotID)
	if err != nil || !sl.Active {
		return nil, ErrSlotNotFound
	}

	if slot.WeekdayOf(date) != sl.Weekday {
		return nil, ErrDayMismatch
	}

	b, err := s.bookingRepo.CreateBooking(ctx, userID, slotID, date, sl.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotRowMissing):
			return nil, ErrSlotNotFound
		case errors.Is(err, ErrSlotFullRow):
			metrics.RecordBooking("rejected_full")
			return nil, ErrSlotFull
		case errors.Is(err, ErrDuplicateBooking):
			metrics.RecordBooking("rejected_duplicate")
			return nil, ErrAlreadyBooked
		}
		return nil, err
	}

	metrics.RecordBooking("confirmed")
	s.notifyBooked(ctx, userID, sl, dateStr)

	return b, nil
}

func (s *service) Cancel(ctx context.Context, userID int, isAdmin bool, bookingID int) error {
	b, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	// Admins may cancel on behalf of members.
	if b.UserID != userID && !isAdmin {
		return ErrNotOwner
	}

	if err := s.bookingRepo.DeleteBooking(ctx, bookingID); err != nil {
		if errors.Is(err, ErrBookingRowMissing) {
			return ErrBookingNotFound
		}
		return err
	}

	metrics.RecordBookingCancellation()
	s.notifyCancelled(ctx, b)

	return nil
}

func (s *service) ListMine(ctx context.Context, userID int, dateStr string) (*MyBookingsResponse, error) {
	date, err := slot.ParseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}

	bookings, err := s.bookingRepo.GetUserBookingsForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []BookingWithSlot{}
	}

	return &MyBookingsResponse{Date: dateStr, Bookings: bookings}, nil
}

func (s *service) ListForSlot(ctx context.Context, slotID int, dateStr string) (*AttendanceResponse, error) {
	date, err := slot.ParseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}

	sl, err := s.slotRepo.GetSlotByID(ctx, slotID)
	if err != nil {
		return nil, ErrSlotNotFound
	}

	rows, err := s.bookingRepo.GetAttendance(ctx, slotID, date)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []AttendanceRow{}
	}

	return &AttendanceResponse{
		Date: dateStr,
		Slot: SlotSummary{
			ID:        sl.ID,
			Facility:  sl.Facility,
			Title:     sl.Title,
			StartTime: sl.StartTime,
			EndTime:   sl.EndTime,
		},
		Attendees: rows,
	}, nil
}

func (s *service) notifyBooked(ctx context.Context, userID int, sl *slot.Slot, dateStr string) {
	if s.notifier == nil {
		return
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Errorf("Booking confirmation skipped, user %d lookup failed: %v", userID, err)
		return
	}

	name := fmt.Sprintf("%s %s", u.FirstName, u.LastName)
	if err := s.notifier.SendBookingConfirmation(ctx, u.Email, name, sl.Title, sl.Facility, dateStr, sl.StartTime); err != nil {
		logger.Errorf("Failed to queue booking confirmation for %s: %v", u.Email, err)
	}
}

func (s *service) notifyCancelled(ctx context.Context, b *Booking) {
	if s.notifier == nil {
		return
	}

	u, err := s.userRepo.FindByID(ctx, b.UserID)
	if err != nil {
		return
	}

	sl, err := s.slotRepo.GetSlotByID(ctx, b.SlotID)
	if err != nil {
		return
	}

	name := fmt.Sprintf("%s %s", u.FirstName, u.LastName)
	dateStr := b.Date.Format("2006-01-02")
	if err := s.notifier.SendBookingCancellation(ctx, u.Email, name, sl.Title, sl.Facility, dateStr); err != nil {
		logger.Errorf("Failed to queue cancellation notice for %s: %v", u.Email, err)
	}
}
