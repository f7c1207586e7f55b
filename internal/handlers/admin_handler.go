package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roadlink/bus-booking-backend/internal/services"
)

// AdminHandler exposes manual triggers for the scheduled jobs.
type AdminHandler struct {
	cronService *services.CronService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(cronService *services.CronService) *AdminHandler {
	return &AdminHandler{cronService: cronService}
}

// RunCleanup triggers a cleanup pass outside the schedule
// POST /api/admin/jobs/cleanup
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	h.cronService.RunCleanupNow()
	respondOK(c, http.StatusOK, "Cleanup pass completed", nil)
}

// RunReminders triggers the trip reminder job outside the schedule
// POST /api/admin/jobs/reminders
func (h *AdminHandler) RunReminders(c *gin.Context) {
	h.cronService.RunRemindersNow()
	respondOK(c, http.StatusOK, "Reminder run completed", nil)
}
