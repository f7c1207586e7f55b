package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roadlink/bus-booking-backend/internal/middleware"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/internal/services"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// BookSeat claims seats and records a booking
// POST /api/bookings/book-seat
func (h *BookingHandler) BookSeat(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.BookSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookingService.BookSeats(userCtx.UserID.String(), &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Booking confirmed", booking)
}

// List returns the requester's bookings
// GET /api/bookings
func (h *BookingHandler) List(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookings, err := h.bookingService.ListForUser(userCtx.UserID.String())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", bookings)
}

// ListAll returns every booking
// GET /api/bookings/all (admin)
func (h *BookingHandler) ListAll(c *gin.Context) {
	bookings, err := h.bookingService.ListAll()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", bookings)
}

// Get returns one booking, owner or admin only
// GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	booking, err := h.bookingService.Get(c.Param("id"), userCtx.UserID.String(), userCtx.Role)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", booking)
}

// Cancel cancels a booking and releases its seats
// PUT /api/bookings/cancel/:id
func (h *BookingHandler) Cancel(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	booking, err := h.bookingService.Cancel(c.Param("id"), userCtx.UserID.String(), userCtx.Role)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Booking cancelled", booking)
}

// Delete removes a booking record outright
// DELETE /api/bookings/:id (admin)
func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.bookingService.Delete(c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Booking deleted", nil)
}
