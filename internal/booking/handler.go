package booking

import (
	"errors"
	"net/http"
	"strconv"

	"sportslot/internal/api"
	"sportslot/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Book a slot
// @Description  Creates a booking for the caller on a concrete date.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.BookRequest true "Booking payload"
// @Success      201 {object} booking.BookResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Book(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "slot_id and date required"})
		return
	}

	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	b, err := h.service.Book(c.Request.Context(), userID, req.SlotID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrDayMismatch):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrSlotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Slot not found or inactive"})
		case errors.Is(err, ErrSlotFull):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Slot full"})
		case errors.Is(err, ErrAlreadyBooked):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already booked"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, BookResponse{OK: true, BookingID: b.ID})
}

// @Summary      Cancel a booking
// @Description  Deletes the caller's booking. Admins may cancel any booking.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      204
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/{bookingID} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID, auth.IsAdmin(c), bookingID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Not allowed"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to cancel booking"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      My bookings for a date
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Success      200 {object} booking.MyBookingsResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /bookings/my [get]
func (h *Handler) ListMine(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date is required"})
		return
	}

	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	resp, err := h.service.ListMine(c.Request.Context(), userID, dateStr)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Attendance for a slot/date
// @Description  Admin-only: lists booked users with full identity (name, surname, group).
// @Tags         admin,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        date    query string true "Date (YYYY-MM-DD)"
// @Param        slot_id query int    true "Slot ID"
// @Success      200 {object} booking.AttendanceResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/bookings [get]
func (h *Handler) ListForSlot(c *gin.Context) {
	dateStr := c.Query("date")
	slotIDStr := c.Query("slot_id")
	if dateStr == "" || slotIDStr == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date and slot_id required"})
		return
	}

	slotID, err := strconv.Atoi(slotIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid slot ID"})
		return
	}

	resp, err := h.service.ListForSlot(c.Request.Context(), slotID, dateStr)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrSlotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Slot not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch attendance"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
