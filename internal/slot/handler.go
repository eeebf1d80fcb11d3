package slot

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

// @Summary      List availability for a date
// @Description  Active slots whose weekday matches the date, with occupancy fields.
// @Tags         slots
// @Produce      json
// @Security     BearerAuth
// @Param        date      query string true  "Date (YYYY-MM-DD)"
// @Param        facility  query string false "Facility filter (GYM, COURTS, POOL)"
// @Success      200 {object} slot.AvailabilityResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /slots [get]
func (h *Handler) ListForDate(c *gin.Context) {
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

	resp, err := h.service.ListForDate(c.Request.Context(), userID, dateStr, c.Query("facility"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrSlotInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch slots"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      List all slots
// @Description  Admin-only: every slot template, active or not.
// @Tags         admin,slots
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} slot.Slot
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/slots [get]
func (h *Handler) ListAll(c *gin.Context) {
	slots, err := h.service.GetAllSlots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch slots"})
		return
	}

	c.JSON(http.StatusOK, slots)
}

// @Summary      Create a slot
// @Description  Admin-only: create a recurring weekly slot template.
// @Tags         admin,slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body slot.CreateSlotRequest true "Slot payload"
// @Success      201 {object} slot.Slot
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/slots [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Details: api.ValidationDetails(err)})
		return
	}

	created, err := h.service.CreateSlot(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrSlotInvalid) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create slot"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      Update a slot
// @Description  Admin-only: replace a slot template's fields.
// @Tags         admin,slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slotID  path int true "Slot ID"
// @Param        request body slot.CreateSlotRequest true "Slot payload"
// @Success      200 {object} slot.Slot
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/slots/{slotID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid slot ID"})
		return
	}

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Details: api.ValidationDetails(err)})
		return
	}

	updated, err := h.service.UpdateSlot(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Slot not found"})
		case errors.Is(err, ErrSlotInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update slot"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary      Deactivate a slot
// @Description  Admin-only soft delete; existing bookings are preserved. Idempotent.
// @Tags         admin,slots
// @Produce      json
// @Security     BearerAuth
// @Param        slotID path int true "Slot ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/slots/{slotID}/deactivate [post]
func (h *Handler) Deactivate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid slot ID"})
		return
	}

	if err := h.service.DeactivateSlot(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to deactivate slot"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Slot deactivated"})
}
