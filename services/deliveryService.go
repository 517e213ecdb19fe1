package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/ndiayedev/jokkoshop-api/apperrors"
	"github.com/ndiayedev/jokkoshop-api/models"
	"gorm.io/gorm"
)

// Fixed city tariffs (CFA). Unknown cities fall back to a per-km rate with
// a floor, then to the default flat fee when no distance is given.
var cityTariffs = map[string]float64{
	"dakar":       1000,
	"pikine":      1500,
	"guediawaye":  1500,
	"rufisque":    2000,
	"thies":       2500,
	"saint-louis": 5000,
}

const (
	deliveryRatePerKm  = 150.0
	deliveryMinimumFee = 1000.0
	deliveryDefaultFee = 2500.0
)

// Known delivery zones, matched as substrings of the address.
var knownZones = []string{
	"plateau",
	"medina",
	"yoff",
	"ouakam",
	"almadies",
	"parcelles",
	"pikine",
	"guediawaye",
	"rufisque",
}

const ZoneOther = "other"

// ComputeDeliveryFee resolves the delivery fee for a city, optionally using
// a distance in kilometers when the city has no fixed tariff.
func ComputeDeliveryFee(city string, distance *float64) float64 {
	if fee, ok := cityTariffs[strings.ToLower(strings.TrimSpace(city))]; ok {
		return fee
	}
	if distance != nil && *distance > 0 {
		return math.Max(round2(*distance*deliveryRatePerKm), deliveryMinimumFee)
	}
	return deliveryDefaultFee
}

// DeriveZone buckets an address into a known zone, or "other".
func DeriveZone(address string) string {
	lower := strings.ToLower(address)
	for _, zone := range knownZones {
		if strings.Contains(lower, zone) {
			return zone
		}
	}
	return ZoneOther
}

// DeliveryInput is the payload the order orchestrator derives when a new
// order spawns its delivery.
type DeliveryInput struct {
	OrderID     uint
	Address     string
	ScheduledAt time.Time
	Fee         float64
	Note        string
}

type DeliveryService struct {
	db    *gorm.DB
	clock Clock
}

func NewDeliveryService(db *gorm.DB, clock Clock) *DeliveryService {
	return &DeliveryService{db: db, clock: clock}
}

// CreateTx creates the delivery inside the caller's transaction. An order
// can have at most one delivery.
func (s *DeliveryService) CreateTx(tx *gorm.DB, input DeliveryInput) (*models.Delivery, error) {
	var existing models.Delivery
	err := tx.Where("order_id = ?", input.OrderID).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("order %d already has a delivery", input.OrderID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to check existing delivery", err)
	}

	delivery := models.Delivery{
		OrderID:     input.OrderID,
		Status:      models.DeliveryStatusNotDelivered,
		ScheduledAt: input.ScheduledAt,
		Address:     input.Address,
		Fee:         input.Fee,
		Note:        input.Note,
	}
	if err := tx.Create(&delivery).Error; err != nil {
		return nil, apperrors.Internal("failed to create delivery", err)
	}
	return &delivery, nil
}

func (s *DeliveryService) Create(input DeliveryInput) (*models.Delivery, error) {
	var delivery *models.Delivery
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, input.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order %d not found", input.OrderID)
			}
			return apperrors.Internal("failed to load order", err)
		}
		created, err := s.CreateTx(tx, input)
		if err != nil {
			return err
		}
		delivery = created
		return nil
	})
	return delivery, err
}

func (s *DeliveryService) GetByID(id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := s.db.Preload("Employee").First(&delivery, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("delivery %d not found", id)
		}
		return nil, apperrors.Internal("failed to load delivery", err)
	}
	return &delivery, nil
}

func (s *DeliveryService) List() ([]models.Delivery, error) {
	var deliveries []models.Delivery
	if err := s.db.Preload("Employee").Order("scheduled_at").Find(&deliveries).Error; err != nil {
		return nil, apperrors.Internal("failed to list deliveries", err)
	}
	return deliveries, nil
}

func (s *DeliveryService) ListByEmployee(employeeID uint) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := s.db.Where("employee_id = ?", employeeID).
		Order("scheduled_at").
		Find(&deliveries).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list employee deliveries", err)
	}
	return deliveries, nil
}

// AssignEmployee puts the delivery in progress and moves the order along
// with it. Only users with the employee role can be assigned.
func (s *DeliveryService) AssignEmployee(deliveryID, employeeID uint) (*models.Delivery, error) {
	delivery, err := s.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.Status == models.DeliveryStatusDelivered || delivery.Status == models.DeliveryStatusCancelled {
		return nil, apperrors.BusinessRule("delivery %d is already %s", deliveryID, delivery.Status)
	}

	var employee models.User
	if err := s.db.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user %d not found", employeeID)
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	if employee.Role != models.RoleEmployee {
		return nil, apperrors.BusinessRule("user %d is not an employee", employeeID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"employee_id": employeeID,
			"status":      models.DeliveryStatusInProgress,
		}
		if err := tx.Model(&models.Delivery{}).Where("id = ?", deliveryID).Updates(updates).Error; err != nil {
			return apperrors.Internal("failed to assign employee", err)
		}
		return propagateDeliveryStatusTx(tx, s.clock, delivery.OrderID, models.DeliveryStatusInProgress)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(deliveryID)
}

// MarkDelivered finishes the delivery, moves the order to delivered and,
// for cash-on-delivery orders, marks the payment paid.
func (s *DeliveryService) MarkDelivered(deliveryID uint, note string) (*models.Delivery, error) {
	delivery, err := s.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.Status == models.DeliveryStatusDelivered {
		return nil, apperrors.BusinessRule("delivery %d is already delivered", deliveryID)
	}
	if delivery.Status == models.DeliveryStatusCancelled {
		return nil, apperrors.BusinessRule("delivery %d was cancelled", deliveryID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": models.DeliveryStatusDelivered}
		if note != "" {
			updates["note"] = note
		}
		if err := tx.Model(&models.Delivery{}).Where("id = ?", deliveryID).Updates(updates).Error; err != nil {
			return apperrors.Internal("failed to mark delivery delivered", err)
		}
		return propagateDeliveryStatusTx(tx, s.clock, delivery.OrderID, models.DeliveryStatusDelivered)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(deliveryID)
}

// UpdateStatus sets the delivery status directly and fans the change out to
// the order where a mapping exists.
func (s *DeliveryService) UpdateStatus(deliveryID uint, status string) (*models.Delivery, error) {
	if !IsValidDeliveryStatus(status) {
		return nil, apperrors.Validation("unknown delivery status %q", status)
	}
	delivery, err := s.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.Status == models.DeliveryStatusDelivered || delivery.Status == models.DeliveryStatusCancelled {
		return nil, apperrors.BusinessRule("delivery %d is already %s", deliveryID, delivery.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Delivery{}).Where("id = ?", deliveryID).
			Update("status", status).Error; err != nil {
			return apperrors.Internal("failed to update delivery status", err)
		}
		return propagateDeliveryStatusTx(tx, s.clock, delivery.OrderID, status)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(deliveryID)
}

func (s *DeliveryService) Update(id uint, updates map[string]any) (*models.Delivery, error) {
	delivery, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	// Status changes go through UpdateStatus so the order stays in sync.
	delete(updates, "status")
	if err := s.db.Model(delivery).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to update delivery", err)
	}
	return s.GetByID(id)
}

func (s *DeliveryService) Delete(id uint) error {
	result := s.db.Delete(&models.Delivery{}, id)
	if result.Error != nil {
		return apperrors.Internal("failed to delete delivery", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("delivery %d not found", id)
	}
	return nil
}

// LateDeliveries lists deliveries past their scheduled time that were never
// completed or cancelled.
func (s *DeliveryService) LateDeliveries() ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := s.db.Preload("Employee").
		Where("scheduled_at < ?", s.clock.Now()).
		Where("status NOT IN ?", []string{models.DeliveryStatusDelivered, models.DeliveryStatusCancelled}).
		Order("scheduled_at").
		Find(&deliveries).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list late deliveries", err)
	}
	return deliveries, nil
}

func (s *DeliveryService) TodayDeliveries() ([]models.Delivery, error) {
	start := startOfDay(s.clock.Now())
	var deliveries []models.Delivery
	err := s.db.Preload("Employee").
		Where("scheduled_at >= ? AND scheduled_at < ?", start, start.Add(24*time.Hour)).
		Order("scheduled_at").
		Find(&deliveries).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list today's deliveries", err)
	}
	return deliveries, nil
}

// PlanFor groups the pending deliveries of a day by derived zone, optionally
// restricted to one employee.
func (s *DeliveryService) PlanFor(date time.Time, employeeID *uint) (map[string][]models.Delivery, error) {
	start := startOfDay(date)
	query := s.db.Preload("Employee").
		Where("scheduled_at >= ? AND scheduled_at < ?", start, start.Add(24*time.Hour)).
		Where("status IN ?", []string{models.DeliveryStatusNotDelivered, models.DeliveryStatusInProgress})
	if employeeID != nil {
		query = query.Where("employee_id = ?", *employeeID)
	}

	var deliveries []models.Delivery
	if err := query.Order("scheduled_at").Find(&deliveries).Error; err != nil {
		return nil, apperrors.Internal("failed to plan deliveries", err)
	}

	plan := make(map[string][]models.Delivery)
	for _, d := range deliveries {
		zone := DeriveZone(d.Address)
		plan[zone] = append(plan[zone], d)
	}
	return plan, nil
}

// DeliveryStats counts deliveries by status since the start of a period
// ("day", "week" or "month").
func (s *DeliveryService) Stats(period string) (map[string]int64, error) {
	now := s.clock.Now()
	var since time.Time
	switch period {
	case "day":
		since = startOfDay(now)
	case "week":
		since = startOfDay(now).AddDate(0, 0, -7)
	case "month", "":
		since = startOfDay(now).AddDate(0, -1, 0)
	default:
		return nil, apperrors.Validation("unknown period %q", period)
	}

	stats := make(map[string]int64)
	for _, status := range []string{
		models.DeliveryStatusNotDelivered,
		models.DeliveryStatusInProgress,
		models.DeliveryStatusDelivered,
		models.DeliveryStatusCancelled,
	} {
		var count int64
		err := s.db.Model(&models.Delivery{}).
			Where("status = ? AND created_at >= ?", status, since).
			Count(&count).Error
		if err != nil {
			return nil, apperrors.Internal("failed to compute delivery stats", err)
		}
		stats[status] = count
	}
	return stats, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// propagateDeliveryStatusTx fans a delivery status change out to the owning
// order through the mapping table.
func propagateDeliveryStatusTx(tx *gorm.DB, clock Clock, orderID uint, deliveryStatus string) error {
	orderStatus, ok := deliveryToOrderStatus[deliveryStatus]
	if !ok {
		return nil
	}
	return applyOrderStatusTx(tx, clock, orderID, orderStatus, true)
}
