package export

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"sportslot/internal/api"
	"sportslot/internal/booking"
	"sportslot/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	bookings booking.Service
}

func NewHandler(bookings booking.Service) *Handler {
	return &Handler{bookings: bookings}
}

// @Summary      Export attendance sheet
// @Description  Admin-only: downloads the statino (CSV attendance sheet) for a slot/date.
// @Tags         admin,export
// @Produce      text/csv
// @Security     BearerAuth
// @Param        date    query string true "Date (YYYY-MM-DD)"
// @Param        slot_id query int    true "Slot ID"
// @Success      200 {string} string
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/export [get]
func (h *Handler) Export(c *gin.Context) {
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

	attendance, err := h.bookings.ListForSlot(c.Request.Context(), slotID, dateStr)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, booking.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Slot not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to build export"})
		}
		return
	}

	var buf bytes.Buffer
	if err := WriteStatino(&buf, attendance); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to render export"})
		return
	}

	metrics.RecordExport()

	filename := Filename(attendance.Slot.Facility, dateStr, slotID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
