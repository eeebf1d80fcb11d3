package slot

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrSlotRowNotFound = errors.New("slot row not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSlot(ctx context.Context, s *Slot) (*Slot, error) {
	query := `
		INSERT INTO slots (facility, title, weekday, start_time, end_time, capacity, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, facility, title, weekday, start_time, end_time, capacity, active, created_at
	`

	var created Slot
	err := r.db.GetContext(ctx, &created, query,
		s.Facility, s.Title, s.Weekday, s.StartTime, s.EndTime, s.Capacity, s.Active)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) UpdateSlot(ctx context.Context, s *Slot) error {
	query := `
		UPDATE slots
		SET facility = $1, title = $2, weekday = $3, start_time = $4, end_time = $5, capacity = $6, active = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		s.Facility, s.Title, s.Weekday, s.StartTime, s.EndTime, s.Capacity, s.Active, s.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSlotRowNotFound
	}

	return nil
}

// DeactivateSlot is a soft delete: bookings that reference the slot are kept,
// the slot just stops showing up in user-facing listings.
func (r *repository) DeactivateSlot(ctx context.Context, id int) error {
	query := `
		UPDATE slots
		SET active = FALSE
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSlotRowNotFound
	}

	return nil
}

func (r *repository) GetSlotByID(ctx context.Context, id int) (*Slot, error) {
	query := `
		SELECT id, facility, title, weekday, start_time, end_time, capacity, active, created_at
		FROM slots
		WHERE id = $1
	`

	var s Slot
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetAllSlots(ctx context.Context) ([]Slot, error) {
	query := `
		SELECT id, facility, title, weekday, start_time, end_time, capacity, active, created_at
		FROM slots
		ORDER BY facility ASC, weekday ASC, start_time ASC
	`

	var slots []Slot
	err := r.db.SelectContext(ctx, &slots, query)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) GetActiveSlots(ctx context.Context, weekday int, facility string) ([]Slot, error) {
	query := `
		SELECT id, facility, title, weekday, start_time, end_time, capacity, active, created_at
		FROM slots
		WHERE active = TRUE AND weekday = $1
	`
	args := []interface{}{weekday}

	if facility != "" {
		query += " AND facility = $2"
		args = append(args, facility)
	}

	query += " ORDER BY facility ASC, start_time ASC"

	var slots []Slot
	err := r.db.SelectContext(ctx, &slots, query, args...)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

// CountBookingsByDate returns booking counts keyed by slot id with a single
// grouped query rather than one count per slot.
func (r *repository) CountBookingsByDate(ctx context.Context, date time.Time) (map[int]int, error) {
	query := `
		SELECT slot_id, COUNT(*) AS booked
		FROM bookings
		WHERE date = $1
		GROUP BY slot_id
	`

	rows := []struct {
		SlotID int `db:"slot_id"`
		Booked int `db:"booked"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.SlotID] = row.Booked
	}

	return counts, nil
}

func (r *repository) GetUserBookedSlotIDs(ctx context.Context, userID int, date time.Time) (map[int]bool, error) {
	query := `
		SELECT slot_id
		FROM bookings
		WHERE user_id = $1 AND date = $2
	`

	var ids []int
	if err := r.db.SelectContext(ctx, &ids, query, userID, date); err != nil {
		return nil, err
	}

	booked := make(map[int]bool, len(ids))
	for _, id := range ids {
		booked[id] = true
	}

	return booked, nil
}
