package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrSlotRowMissing    = errors.New("slot row missing")
	ErrSlotFullRow       = errors.New("slot is at capacity")
	ErrDuplicateBooking  = errors.New("duplicate booking")
	ErrBookingRowMissing = errors.New("booking row missing")
)

const pqUniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateBooking runs the capacity check and the insert in one transaction.
// The slot row is locked first so concurrent bookings for the same slot
// serialize on the count, and the (user_id, slot_id, date) unique constraint
// backstops duplicates regardless.
func (r *repository) CreateBooking(ctx context.Context, userID, slotID int, date time.Time, capacity *int) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID int
	err = tx.GetContext(ctx, &lockedID, `SELECT id FROM slots WHERE id = $1 FOR UPDATE`, slotID)
	if err != nil {
		return nil, ErrSlotRowMissing
	}

	if capacity != nil {
		var booked int
		err = tx.GetContext(ctx, &booked,
			`SELECT COUNT(*) FROM bookings WHERE slot_id = $1 AND date = $2`, slotID, date)
		if err != nil {
			return nil, err
		}
		if booked >= *capacity {
			return nil, ErrSlotFullRow
		}
	}

	var b Booking
	err = tx.GetContext(ctx, &b, `
		INSERT INTO bookings (user_id, slot_id, date)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, slot_id, date, created_at
	`, userID, slotID, date)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateBooking
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	return &b, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, user_id, slot_id, date, created_at
		FROM bookings
		WHERE id = $1
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) DeleteBooking(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBookingRowMissing
	}

	return nil
}

func (r *repository) GetUserBookingsForDate(ctx context.Context, userID int, date time.Time) ([]BookingWithSlot, error) {
	query := `
		SELECT
			b.id AS booking_id,
			s.id AS slot_id,
			s.facility,
			s.title,
			s.start_time,
			s.end_time
		FROM bookings b
		JOIN slots s ON s.id = b.slot_id
		WHERE b.user_id = $1 AND b.date = $2
		ORDER BY s.start_time ASC
	`

	var bookings []BookingWithSlot
	err := r.db.SelectContext(ctx, &bookings, query, userID, date)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetAttendance(ctx context.Context, slotID int, date time.Time) ([]AttendanceRow, error) {
	query := `
		SELECT
			u.last_name,
			u.first_name,
			u.group_label,
			b.created_at AS booked_at
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.slot_id = $1 AND b.date = $2
		ORDER BY u.last_name ASC, u.first_name ASC
	`

	var rows []AttendanceRow
	err := r.db.SelectContext(ctx, &rows, query, slotID, date)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
