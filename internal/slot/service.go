package slot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotInvalid  = errors.New("invalid slot")
	ErrInvalidDate  = errors.New("invalid date (use YYYY-MM-DD)")
)

type Service interface {
	CreateSlot(ctx context.Context, req CreateSlotRequest) (*Slot, error)
	UpdateSlot(ctx context.Context, id int, req CreateSlotRequest) (*Slot, error)
	DeactivateSlot(ctx context.Context, id int) error
	GetAllSlots(ctx context.Context) ([]Slot, error)
	GetSlotByID(ctx context.Context, id int) (*Slot, error)
	ListForDate(ctx context.Context, userID int, dateStr, facility string) (*AvailabilityResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateSlot(ctx context.Context, req CreateSlotRequest) (*Slot, error) {
	slot, err := slotFromRequest(req)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateSlot(ctx, slot)
}

func (s *service) UpdateSlot(ctx context.Context, id int, req CreateSlotRequest) (*Slot, error) {
	slot, err := slotFromRequest(req)
	if err != nil {
		return nil, err
	}
	slot.ID = id

	if err := s.repo.UpdateSlot(ctx, slot); err != nil {
		if errors.Is(err, ErrSlotRowNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return s.repo.GetSlotByID(ctx, id)
}

func (s *service) DeactivateSlot(ctx context.Context, id int) error {
	err := s.repo.DeactivateSlot(ctx, id)
	if errors.Is(err, ErrSlotRowNotFound) {
		return ErrSlotNotFound
	}
	return err
}

func (s *service) GetAllSlots(ctx context.Context) ([]Slot, error) {
	return s.repo.GetAllSlots(ctx)
}

func (s *service) GetSlotByID(ctx context.Context, id int) (*Slot, error) {
	slot, err := s.repo.GetSlotByID(ctx, id)
	if err != nil {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}

// ListForDate is the availability calculator: active slots whose weekday
// matches the date, decorated with occupancy derived from the booking ledger.
func (s *service) ListForDate(ctx context.Context, userID int, dateStr, facility string) (*AvailabilityResponse, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}

	facility = strings.ToUpper(strings.TrimSpace(facility))
	if facility != "" && !ValidFacility(facility) {
		return nil, fmt.Errorf("%w: unknown facility %q", ErrSlotInvalid, facility)
	}

	slots, err := s.repo.GetActiveSlots(ctx, WeekdayOf(date), facility)
	if err != nil {
		return nil, err
	}

	out := &AvailabilityResponse{
		Date:  dateStr,
		Slots: make([]SlotWithAvailability, 0, len(slots)),
	}
	if len(slots) == 0 {
		return out, nil
	}

	counts, err := s.repo.CountBookingsByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	mine, err := s.repo.GetUserBookedSlotIDs(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	for _, slot := range slots {
		booked := counts[slot.ID]

		var remaining *int
		full := false
		if slot.Capacity != nil {
			left := *slot.Capacity - booked
			if left < 0 {
				left = 0
			}
			remaining = &left
			full = booked >= *slot.Capacity
		}

		out.Slots = append(out.Slots, SlotWithAvailability{
			Slot:       slot,
			Booked:     booked,
			Remaining:  remaining,
			Full:       full,
			BookedByMe: mine[slot.ID],
		})
	}

	return out, nil
}

func slotFromRequest(req CreateSlotRequest) (*Slot, error) {
	facility := strings.ToUpper(strings.TrimSpace(req.Facility))
	if !ValidFacility(facility) {
		return nil, fmt.Errorf("%w: unknown facility %q", ErrSlotInvalid, req.Facility)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrSlotInvalid)
	}

	if req.Weekday < 1 || req.Weekday > 7 {
		return nil, fmt.Errorf("%w: weekday must be 1..7", ErrSlotInvalid)
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time must be HH:MM", ErrSlotInvalid)
	}

	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time must be HH:MM", ErrSlotInvalid)
	}

	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start_time must be before end_time", ErrSlotInvalid)
	}

	if req.Capacity != nil && *req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive or null", ErrSlotInvalid)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return &Slot{
		Facility:  facility,
		Title:     title,
		Weekday:   req.Weekday,
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		Capacity:  req.Capacity,
		Active:    active,
	}, nil
}

func parseClock(s string) (time.Time, error) {
	return time.Parse("15:04", strings.TrimSpace(s))
}
