package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/internal/services"
)

// PriceHandler exposes the fare-table endpoints.
type PriceHandler struct {
	priceService *services.PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService *services.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// Create adds a fare-table entry
// POST /api/prices (admin/vendor)
func (h *PriceHandler) Create(c *gin.Context) {
	var req models.CreatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	price, err := h.priceService.Create(&req)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	respondOK(c, http.StatusCreated, "Price created", price)
}

// List returns the full active price list
// GET /api/prices
func (h *PriceHandler) List(c *gin.Context) {
	prices, err := h.priceService.ListActive()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", prices)
}

// Page returns a paginated, filtered, sorted slice of the price list
// GET /api/prices/paginated?page=&limit=&sort=&order=&search=
func (h *PriceHandler) Page(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	q := &models.PriceQuery{
		Page:   page,
		Limit:  limit,
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
		Search: c.Query("search"),
	}

	result, err := h.priceService.Page(q)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", result)
}

// Get returns one fare-table entry
// GET /api/prices/:id
func (h *PriceHandler) Get(c *gin.Context) {
	price, err := h.priceService.Get(c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", price)
}

// Update applies a partial update to a fare-table entry
// PUT /api/prices/:id (admin/vendor)
func (h *PriceHandler) Update(c *gin.Context) {
	var req models.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	price, err := h.priceService.Update(c.Param("id"), &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Price updated", price)
}

// Delete removes a fare-table entry
// DELETE /api/prices/:id (admin)
func (h *PriceHandler) Delete(c *gin.Context) {
	if err := h.priceService.Delete(c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Price deleted", nil)
}
