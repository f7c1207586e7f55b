package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

// respondOK writes the standard success envelope.
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError writes the standard failure envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondDomainError maps service-layer errors onto HTTP statuses. The
// conflict cases carry their detail through so clients can show which
// seats were lost.
func respondDomainError(c *gin.Context, err error) {
	var conflict *models.SeatConflictError
	var upstream *models.UpstreamError
	var validation *models.ValidationError

	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Error())
	case errors.Is(err, models.ErrSegmentInactive),
		errors.Is(err, models.ErrBookingClosed):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": conflict.Error(),
			"data":    gin.H{"conflicting_seats": conflict.Seats},
		})
	case errors.Is(err, models.ErrCapacityExceeded):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrAlreadyCancelled),
		errors.Is(err, models.ErrAlreadyCompleted):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrDuplicateTransaction):
		respondError(c, http.StatusConflict, "A booking with this transaction id already exists")
	case errors.Is(err, models.ErrNotOwner):
		respondError(c, http.StatusForbidden, "You don't have permission to access this booking")
	case errors.Is(err, models.ErrPaymentCancelled):
		respondError(c, http.StatusConflict, "Payment reference has been cancelled")
	case errors.Is(err, models.ErrSegmentNotFound),
		errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, sql.ErrNoRows):
		respondError(c, http.StatusNotFound, "Resource not found")
	case errors.As(err, &upstream):
		respondError(c, http.StatusBadGateway, "Payment provider is unavailable")
	default:
		// Unclassified errors carry driver and SQL detail; never echo
		// them to clients.
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled error")
		respondError(c, http.StatusInternalServerError, "Something went wrong, please try again later")
	}
}
