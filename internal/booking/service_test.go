package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sportslot/internal/slot"
	"sportslot/internal/user"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateBooking(ctx context.Context, userID, slotID int, date time.Time, capacity *int) (*Booking, error) {
	args := m.Called(ctx, userID, slotID, date, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) DeleteBooking(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) GetUserBookingsForDate(ctx context.Context, userID int, date time.Time) ([]BookingWithSlot, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithSlot), args.Error(1)
}

func (m *MockRepository) GetAttendance(ctx context.Context, slotID int, date time.Time) ([]AttendanceRow, error) {
	args := m.Called(ctx, slotID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AttendanceRow), args.Error(1)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) CreateSlot(ctx context.Context, s *slot.Slot) (*slot.Slot, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slot.Slot), args.Error(1)
}

func (m *MockSlotRepository) UpdateSlot(ctx context.Context, s *slot.Slot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSlotRepository) DeactivateSlot(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSlotRepository) GetSlotByID(ctx context.Context, id int) (*slot.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slot.Slot), args.Error(1)
}

func (m *MockSlotRepository) GetAllSlots(ctx context.Context) ([]slot.Slot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]slot.Slot), args.Error(1)
}

func (m *MockSlotRepository) GetActiveSlots(ctx context.Context, weekday int, facility string) ([]slot.Slot, error) {
	args := m.Called(ctx, weekday, facility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]slot.Slot), args.Error(1)
}

func (m *MockSlotRepository) CountBookingsByDate(ctx context.Context, date time.Time) (map[int]int, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *MockSlotRepository) GetUserBookedSlotIDs(ctx context.Context, userID int, date time.Time) (map[int]bool, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]bool), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, firstName, lastName, groupLabel, role, email, passwordHash string) (*user.User, error) {
	args := m.Called(ctx, firstName, lastName, groupLabel, role, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, to, name, slotTitle, facility, date, startTime string) error {
	args := m.Called(ctx, to, name, slotTitle, facility, date, startTime)
	return args.Error(0)
}

func (m *MockNotifier) SendBookingCancellation(ctx context.Context, to, name, slotTitle, facility, date string) error {
	args := m.Called(ctx, to, name, slotTitle, facility, date)
	return args.Error(0)
}

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T) (Service, *MockRepository, *MockSlotRepository, *MockUserRepository, *MockNotifier) {
	t.Helper()
	bookingRepo := new(MockRepository)
	slotRepo := new(MockSlotRepository)
	userRepo := new(MockUserRepository)
	notifier := new(MockNotifier)
	svc := NewService(bookingRepo, slotRepo, userRepo, notifier)
	return svc, bookingRepo, slotRepo, userRepo, notifier
}

func gymSlot() *slot.Slot {
	return &slot.Slot{
		ID: 1, Facility: "GYM", Title: "First shift", Weekday: 1,
		StartTime: "16:00", EndTime: "17:00", Capacity: intPtr(2), Active: true,
	}
}

func TestService_Book(t *testing.T) {
	svc, bookingRepo, slotRepo, userRepo, notifier := newTestService(t)

	date, _ := slot.ParseDate("2024-06-03") // Monday
	slotRepo.On("GetSlotByID", mock.Anything, 1).Return(gymSlot(), nil)
	bookingRepo.On("CreateBooking", mock.Anything, 7, 1, date, intPtr(2)).
		Return(&Booking{ID: 10, UserID: 7, SlotID: 1, Date: date}, nil)
	userRepo.On("FindByID", mock.Anything, 7).Return(&user.User{
		ID: 7, Email: "mario.rossi@sportslot.local", FirstName: "Mario", LastName: "Rossi",
	}, nil)
	notifier.On("SendBookingConfirmation", mock.Anything, "mario.rossi@sportslot.local",
		"Mario Rossi", "First shift", "GYM", "2024-06-03", "16:00").Return(nil)

	b, err := svc.Book(context.Background(), 7, 1, "2024-06-03")
	assert.NoError(t, err)
	assert.Equal(t, 10, b.ID)
	bookingRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_Book_InvalidDate(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.Book(context.Background(), 7, 1, "03/06/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestService_Book_InactiveSlot(t *testing.T) {
	svc, _, slotRepo, _, _ := newTestService(t)

	inactive := gymSlot()
	inactive.Active = false
	slotRepo.On("GetSlotByID", mock.Anything, 1).Return(inactive, nil)

	_, err := svc.Book(context.Background(), 7, 1, "2024-06-03")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_Book_MissingSlot(t *testing.T) {
	svc, _, slotRepo, _, _ := newTestService(t)

	slotRepo.On("GetSlotByID", mock.Anything, 99).Return(nil, errors.New("sql: no rows in result set"))

	_, err := svc.Book(context.Background(), 7, 99, "2024-06-03")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_Book_DayMismatch(t *testing.T) {
	svc, _, slotRepo, _, _ := newTestService(t)

	slotRepo.On("GetSlotByID", mock.Anything, 1).Return(gymSlot(), nil)

	// 2024-06-04 is a Tuesday, the slot runs on Mondays.
	_, err := svc.Book(context.Background(), 7, 1, "2024-06-04")
	assert.ErrorIs(t, err, ErrDayMismatch)
}

func TestService_Book_SlotFull(t *testing.T) {
	svc, bookingRepo, slotRepo, _, _ := newTestService(t)

	date, _ := slot.ParseDate("2024-06-03")
	slotRepo.On("GetSlotByID", mock.Anything, 1).Return(gymSlot(), nil)
	bookingRepo.On("CreateBooking", mock.Anything, 7, 1, date, intPtr(2)).
		Return(nil, ErrSlotFullRow)

	_, err := svc.Book(context.Background(), 7, 1, "2024-06-03")
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestService_Book_Duplicate(t *testing.T) {
	svc, bookingRepo, slotRepo, _, _ := newTestService(t)

	date, _ := slot.ParseDate("2024-06-03")
	slotRepo.On("GetSlotByID", mock.Anything, 1).Return(gymSlot(), nil)
	bookingRepo.On("CreateBooking", mock.Anything, 7, 1, date, intPtr(2)).
		Return(nil, ErrDuplicateBooking)

	_, err := svc.Book(context.Background(), 7, 1, "2024-06-03")
	assert.ErrorIs(t, err, ErrAlreadyBooked)
}

func TestService_Book_NotifierFailureDoesNotFailBooking(t *testing.T) {
	svc, bookingRepo, slotRepo, userRepo, notifier := newTestService(t)

	date, _ := slot.ParseDate("2024-06-03")
	slotRepo.On("GetSlotByID", mock.Anything, 1).Return(gymSlot(), nil)
	bookingRepo.On("CreateBooking", mock.Anything, 7, 1, date, intPtr(2)).
		Return(&Booking{ID: 10, UserID: 7, SlotID: 1, Date: date}, nil)
	userRepo.On("FindByID", mock.Anything, 7).Return(&user.User{
		ID: 7, Email: "mario.rossi@sportslot.local", FirstName: "Mario", LastName: "Rossi",
	}, nil)
	notifier.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	b, err := svc.Book(context.Background(), 7, 1, "2024-06-03")
	assert.NoError(t, err)
	assert.Equal(t, 10, b.ID)
}

func TestService_Cancel_Owner(t *testing.T) {
	svc, bookingRepo, slotRepo, userRepo, notifier := newTestService(t)

	date, _ := slot.ParseDate("2024-06-03")
	bookingRepo.On("GetBookingByID", mock.Anything, 10).
		Return(&Booking{ID: 10, UserID: 7, SlotID: 1, Date: date}, nil)
	bookingRepo.On("DeleteBooking", mock.Anything, 10).Return(nil)
	userRepo.On("FindByID", mock.Anything, 7).Return(&user.User{
		ID: 7, Email: "mario.rossi@sportslot.local", FirstName: "Mario", LastName: "Rossi",
	}, nil)
	slotRepo.On("GetSlotByID", mock.Anything, 1).Return(gymSlot(), nil)
	notifier.On("SendBookingCancellation", mock.Anything, "mario.rossi@sportslot.local",
		"Mario Rossi", "First shift", "GYM", "2024-06-03").Return(nil)

	err := svc.Cancel(context.Background(), 7, false, 10)
	assert.NoError(t, err)
	bookingRepo.AssertExpectations(t)
}

func TestService_Cancel_OtherUsersBooking(t *testing.T) {
	svc, bookingRepo, _, _, _ := newTestService(t)

	bookingRepo.On("GetBookingByID", mock.Anything, 10).
		Return(&Booking{ID: 10, UserID: 7, SlotID: 1}, nil)

	err := svc.Cancel(context.Background(), 8, false, 10)
	assert.ErrorIs(t, err, ErrNotOwner)
	bookingRepo.AssertNotCalled(t, "DeleteBooking")
}

func TestService_Cancel_AdminMayCancelAny(t *testing.T) {
	svc, bookingRepo, slotRepo, userRepo, notifier := newTestService(t)

	date, _ := slot.ParseDate("2024-06-03")
	bookingRepo.On("GetBookingByID", mock.Anything, 10).
		Return(&Booking{ID: 10, UserID: 7, SlotID: 1, Date: date}, nil)
	bookingRepo.On("DeleteBooking", mock.Anything, 10).Return(nil)
	userRepo.On("FindByID", mock.Anything, 7).Return(&user.User{ID: 7, Email: "m@x", FirstName: "M", LastName: "R"}, nil)
	slotRepo.On("GetSlotByID", mock.Anything, 1).Return(gymSlot(), nil)
	notifier.On("SendBookingCancellation", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := svc.Cancel(context.Background(), 1, true, 10)
	assert.NoError(t, err)
}

func TestService_Cancel_NotFound(t *testing.T) {
	svc, bookingRepo, _, _, _ := newTestService(t)

	bookingRepo.On("GetBookingByID", mock.Anything, 999).
		Return(nil, errors.New("sql: no rows in result set"))

	err := svc.Cancel(context.Background(), 7, false, 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_ListMine(t *testing.T) {
	svc, bookingRepo, _, _, _ := newTestService(t)

	date, _ := slot.ParseDate("2024-06-03")
	bookingRepo.On("GetUserBookingsForDate", mock.Anything, 7, date).Return([]BookingWithSlot{
		{BookingID: 10, SlotID: 1, Facility: "GYM", Title: "First shift", StartTime: "16:00", EndTime: "17:00"},
	}, nil)

	resp, err := svc.ListMine(context.Background(), 7, "2024-06-03")
	assert.NoError(t, err)
	assert.Equal(t, "2024-06-03", resp.Date)
	assert.Len(t, resp.Bookings, 1)
}

func TestService_ListForSlot(t *testing.T) {
	svc, bookingRepo, slotRepo, _, _ := newTestService(t)

	date, _ := slot.ParseDate("2024-06-03")
	slotRepo.On("GetSlotByID", mock.Anything, 1).Return(gymSlot(), nil)
	bookingRepo.On("GetAttendance", mock.Anything, 1, date).Return([]AttendanceRow{
		{LastName: "Bianchi", FirstName: "Anna", GroupLabel: "BETA"},
		{LastName: "Rossi", FirstName: "Mario", GroupLabel: "ATLA"},
	}, nil)

	resp, err := svc.ListForSlot(context.Background(), 1, "2024-06-03")
	assert.NoError(t, err)
	assert.Equal(t, "First shift", resp.Slot.Title)
	assert.Len(t, resp.Attendees, 2)
	assert.Equal(t, "Bianchi", resp.Attendees[0].LastName)
}

func TestService_ListForSlot_SlotMissing(t *testing.T) {
	svc, _, slotRepo, _, _ := newTestService(t)

	slotRepo.On("GetSlotByID", mock.Anything, 99).Return(nil, errors.New("sql: no rows in result set"))

	_, err := svc.ListForSlot(context.Background(), 99, "2024-06-03")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
