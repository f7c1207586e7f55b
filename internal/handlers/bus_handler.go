package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roadlink/bus-booking-backend/internal/middleware"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/internal/services"
)

// BusHandler exposes the segment listing and route management endpoints.
// "Bus" in the route names is the passenger-facing word for a bookable
// segment record.
type BusHandler struct {
	listingService *services.ListingService
	routeService   *services.RouteService
	bookingService *services.BookingService
}

// NewBusHandler creates a new BusHandler
func NewBusHandler(listingService *services.ListingService, routeService *services.RouteService, bookingService *services.BookingService) *BusHandler {
	return &BusHandler{
		listingService: listingService,
		routeService:   routeService,
		bookingService: bookingService,
	}
}

// List returns bookable segments matching the search filter
// GET /api/buses?from=&to=&date=
func (h *BusHandler) List(c *gin.Context) {
	filter := models.ListFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
		Date: c.Query("date"),
	}

	views, err := h.listingService.Search(filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", views)
}

// GetAllBuses returns every segment including inactive and finished ones
// POST /api/buses/get-all-buses
func (h *BusHandler) GetAllBuses(c *gin.Context) {
	views, err := h.listingService.All()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", views)
}

// GetBus returns one segment with its seat availability
// GET /api/buses/get-bus/:id
func (h *BusHandler) GetBus(c *gin.Context) {
	view, err := h.listingService.Get(c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", view)
}

// AddBus creates a route and materializes its segment group
// POST /api/buses/add-bus
func (h *BusHandler) AddBus(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	segments, err := h.routeService.CreateRoute(&req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Route created", segments)
}

// BookSeats claims seats on a segment
// POST /api/buses/book-seats
func (h *BusHandler) BookSeats(c *gin.Context) {
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

	respondOK(c, http.StatusCreated, "Seats booked", booking)
}

// UpdateStatus changes the status of a segment's whole group
// PUT /api/buses/update-bus-status/:id
func (h *BusHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	status, err := models.ParseSegmentStatus(req.Status)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.routeService.UpdateStatus(c.Param("id"), status)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Status updated", gin.H{"segments_updated": updated})
}

// Delete removes a segment; the primary record removes the whole group
// DELETE /api/buses/delete-bus/:id
func (h *BusHandler) Delete(c *gin.Context) {
	if err := h.routeService.Delete(c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Deleted", nil)
}
