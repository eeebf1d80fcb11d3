package slot

import (
	"context"
	"time"
)

type Repository interface {
	CreateSlot(ctx context.Context, s *Slot) (*Slot, error)
	UpdateSlot(ctx context.Context, s *Slot) error
	DeactivateSlot(ctx context.Context, id int) error
	GetSlotByID(ctx context.Context, id int) (*Slot, error)
	GetAllSlots(ctx context.Context) ([]Slot, error)
	GetActiveSlots(ctx context.Context, weekday int, facility string) ([]Slot, error)
	CountBookingsByDate(ctx context.Context, date time.Time) (map[int]int, error)
	GetUserBookedSlotIDs(ctx context.Context, userID int, date time.Time) (map[int]bool, error)
}
