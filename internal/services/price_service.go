package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/roadlink/bus-booking-backend/internal/models"
)

// PriceStore is the slice of the price repository the service needs.
type PriceStore interface {
	Create(p *models.Price) error
	GetByID(id string) (*models.Price, error)
	GetAllActive() ([]models.Price, error)
	Query(q *models.PriceQuery) ([]models.Price, int, error)
	Update(id string, req *models.UpdatePriceRequest) error
	Delete(id string) error
}

// PriceService manages the route-fare price list.
type PriceService struct {
	prices PriceStore
	logger *logrus.Logger
}

// NewPriceService creates a new price service
func NewPriceService(prices PriceStore, logger *logrus.Logger) *PriceService {
	return &PriceService{
		prices: prices,
		logger: logger,
	}
}

// Create adds a price entry.
func (s *PriceService) Create(req *models.CreatePriceRequest) (*models.Price, error) {
	price := &models.Price{
		ID:          uuid.New().String(),
		Origin:      req.Origin,
		Destination: req.Destination,
		BusType:     models.BusType(req.BusType),
		Price:       req.Price,
		IsActive:    true,
	}
	if err := s.prices.Create(price); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"price_id":    price.ID,
		"origin":      price.Origin,
		"destination": price.Destination,
	}).Info("Price created")
	return price, nil
}

// Get returns one price entry.
func (s *PriceService) Get(id string) (*models.Price, error) {
	return s.prices.GetByID(id)
}

// ListActive returns the full active price list.
func (s *PriceService) ListActive() ([]models.Price, error) {
	return s.prices.GetAllActive()
}

// Page returns a paginated, filtered, sorted slice of the price list.
func (s *PriceService) Page(q *models.PriceQuery) (*models.PricePage, error) {
	q.Normalize()
	prices, total, err := s.prices.Query(q)
	if err != nil {
		return nil, err
	}
	return models.NewPricePage(prices, total, q.Page, q.Limit), nil
}

// Update applies a partial update to a price entry.
func (s *PriceService) Update(id string, req *models.UpdatePriceRequest) (*models.Price, error) {
	if err := s.prices.Update(id, req); err != nil {
		return nil, err
	}
	return s.prices.GetByID(id)
}

// Delete removes a price entry.
func (s *PriceService) Delete(id string) error {
	return s.prices.Delete(id)
}
