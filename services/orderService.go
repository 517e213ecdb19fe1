package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/ndiayedev/jokkoshop-api/apperrors"
	"github.com/ndiayedev/jokkoshop-api/models"
	"gorm.io/gorm"
)

// DeliveryCreator and PaymentCreator are the narrow surfaces the order
// orchestrator needs from the delivery and payment services.
type DeliveryCreator interface {
	CreateTx(tx *gorm.DB, input DeliveryInput) (*models.Delivery, error)
}

type PaymentCreator interface {
	CreateTx(tx *gorm.DB, input PaymentInput) (*models.Payment, error)
}

type OrderLineInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gte=1"`
}

type DeliveryDetails struct {
	Address     string     `json:"address" binding:"required"`
	City        string     `json:"city" binding:"required"`
	Distance    *float64   `json:"distance"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Note        string     `json:"note"`
}

type PaymentDetails struct {
	// Method uses the client-facing vocabulary: "online" or "on-delivery".
	Method   string `json:"method" binding:"required"`
	Phone    string `json:"phone"`
	Operator string `json:"operator"`
}

type CreateOrderInput struct {
	Lines    []OrderLineInput `json:"lines" binding:"required,min=1,dive"`
	Delivery DeliveryDetails  `json:"delivery" binding:"required"`
	Payment  PaymentDetails   `json:"payment" binding:"required"`
}

type AvailabilityLine struct {
	ProductID uint   `json:"productId"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	InStock   bool   `json:"inStock"`
}

type AvailabilityReport struct {
	AllAvailable bool               `json:"allAvailable"`
	Lines        []AvailabilityLine `json:"lines"`
}

type OrderService struct {
	db         *gorm.DB
	clock      Clock
	products   *ProductService
	promotions *PromotionService
	deliveries DeliveryCreator
	payments   PaymentCreator
}

func NewOrderService(
	db *gorm.DB,
	clock Clock,
	products *ProductService,
	promotions *PromotionService,
	deliveries DeliveryCreator,
	payments PaymentCreator,
) *OrderService {
	return &OrderService{
		db:         db,
		clock:      clock,
		products:   products,
		promotions: promotions,
		deliveries: deliveries,
		payments:   payments,
	}
}

func paymentModeFromMethod(method string) (string, error) {
	switch method {
	case "online":
		return models.PaymentModeOnline, nil
	case "on-delivery":
		return models.PaymentModeCashOnDelivery, nil
	default:
		return "", apperrors.Validation("unknown payment method %q", method)
	}
}

// CreateOrder prices the lines from the current catalog, reserves stock,
// persists the order with its lines and spawns the delivery and payment —
// all inside one transaction. Any failure rolls everything back.
func (s *OrderService) CreateOrder(clientID uint, input CreateOrderInput) (*models.Order, error) {
	if len(input.Lines) == 0 {
		return nil, apperrors.Validation("order must contain at least one line")
	}
	mode, err := paymentModeFromMethod(input.Payment.Method)
	if err != nil {
		return nil, err
	}

	var orderID uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		total := 0.0
		lines := make([]models.OrderLine, 0, len(input.Lines))

		for _, line := range input.Lines {
			if line.Quantity < 1 {
				return apperrors.Validation("quantity for product %d must be at least 1", line.ProductID)
			}

			// Unit price comes from the catalog, never from the client.
			quote, err := s.promotions.priceWithPromotionTx(tx, line.ProductID, nil)
			if err != nil {
				return err
			}

			if err := s.products.ReserveStock(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			lineTotal := round2(quote.Discounted * float64(line.Quantity))
			lines = append(lines, models.OrderLine{
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				UnitPrice:   quote.Discounted,
				LineTotal:   lineTotal,
				PromotionID: quote.PromotionID,
			})
			total += lineTotal
		}

		fee := ComputeDeliveryFee(input.Delivery.City, input.Delivery.Distance)
		total = round2(total + fee)

		deliveryInfo, err := json.Marshal(input.Delivery)
		if err != nil {
			return apperrors.Internal("failed to encode delivery info", err)
		}
		paymentInfo, err := json.Marshal(input.Payment)
		if err != nil {
			return apperrors.Internal("failed to encode payment info", err)
		}

		order := models.Order{
			ClientID:     clientID,
			Total:        total,
			Status:       models.OrderStatusPreparing,
			DeliveryInfo: deliveryInfo,
			PaymentInfo:  paymentInfo,
		}
		if err := tx.Create(&order).Error; err != nil {
			return apperrors.Internal("failed to create order", err)
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return apperrors.Internal("failed to create order lines", err)
		}

		scheduled := s.clock.Now().Add(24 * time.Hour)
		if input.Delivery.ScheduledAt != nil {
			scheduled = *input.Delivery.ScheduledAt
		}
		address := strings.TrimSpace(input.Delivery.Address) + ", " + strings.TrimSpace(input.Delivery.City)
		if _, err := s.deliveries.CreateTx(tx, DeliveryInput{
			OrderID:     order.ID,
			Address:     address,
			ScheduledAt: scheduled,
			Fee:         fee,
			Note:        input.Delivery.Note,
		}); err != nil {
			return err
		}

		if _, err := s.payments.CreateTx(tx, PaymentInput{
			OrderID:  order.ID,
			Mode:     mode,
			Amount:   total,
			Phone:    input.Payment.Phone,
			Operator: input.Payment.Operator,
		}); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(orderID)
}

func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Lines.Product").
		Preload("Lines.Promotion").
		Preload("Delivery").
		Preload("Payment", "status <> ?", models.PaymentStatusRefundReversal).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d not found", id)
		}
		return nil, apperrors.Internal("failed to load order", err)
	}
	return &order, nil
}

func (s *OrderService) List(limit, offset int) ([]models.Order, int64, error) {
	var orders []models.Order
	err := s.db.
		Preload("Lines").
		Preload("Delivery").
		Preload("Payment", "status <> ?", models.PaymentStatusRefundReversal).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list orders", err)
	}
	var count int64
	s.db.Model(&models.Order{}).Count(&count)
	return orders, count, nil
}

func (s *OrderService) ListByClient(clientID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.
		Preload("Lines.Product").
		Preload("Delivery").
		Preload("Payment", "status <> ?", models.PaymentStatusRefundReversal).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list client orders", err)
	}
	return orders, nil
}

// UpdateStatus moves the order through its state machine and fans the
// change out to the delivery and payment records.
func (s *OrderService) UpdateStatus(orderID uint, newStatus string) (*models.Order, error) {
	if !IsValidOrderStatus(newStatus) {
		return nil, apperrors.Validation("unknown order status %q", newStatus)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return applyOrderStatusTx(tx, s.clock, orderID, newStatus, false)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(orderID)
}

// Destroy restores stock, then removes payment, delivery, lines and the
// order itself inside one transaction.
func (s *OrderService) Destroy(orderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrderForUpdate(tx, orderID)
		if err != nil {
			return err
		}

		// Stock was only consumed if the order was never cancelled.
		if order.Status != models.OrderStatusCancelled {
			for _, line := range order.Lines {
				if err := s.products.RestoreStock(tx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.Payment{}).Error; err != nil {
			return apperrors.Internal("failed to delete payments", err)
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.Delivery{}).Error; err != nil {
			return apperrors.Internal("failed to delete delivery", err)
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error; err != nil {
			return apperrors.Internal("failed to delete order lines", err)
		}
		if err := tx.Delete(&models.Order{}, orderID).Error; err != nil {
			return apperrors.Internal("failed to delete order", err)
		}
		return nil
	})
}

// CheckAvailability reports per-line stock without reserving anything.
func (s *OrderService) CheckAvailability(lines []OrderLineInput) (AvailabilityReport, error) {
	report := AvailabilityReport{AllAvailable: true}
	for _, line := range lines {
		var product models.Product
		err := s.db.First(&product, line.ProductID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				report.AllAvailable = false
				report.Lines = append(report.Lines, AvailabilityLine{
					ProductID: line.ProductID,
					Requested: line.Quantity,
				})
				continue
			}
			return AvailabilityReport{}, apperrors.Internal("failed to load product", err)
		}

		inStock := product.Stock >= line.Quantity
		if !inStock {
			report.AllAvailable = false
		}
		report.Lines = append(report.Lines, AvailabilityLine{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: line.Quantity,
			Available: product.Stock,
			InStock:   inStock,
		})
	}
	return report, nil
}

func loadOrderForUpdate(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := tx.
		Preload("Lines").
		Preload("Delivery").
		Preload("Payment", "status <> ?", models.PaymentStatusRefundReversal).
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d not found", orderID)
		}
		return nil, apperrors.Internal("failed to load order", err)
	}
	return &order, nil
}

// applyOrderStatusTx is the single place where an order status change and
// its fan-out to delivery, payment and stock happen. fromDelivery marks
// changes initiated by the delivery side, whose row is already up to date.
func applyOrderStatusTx(tx *gorm.DB, clock Clock, orderID uint, newStatus string, fromDelivery bool) error {
	order, err := loadOrderForUpdate(tx, orderID)
	if err != nil {
		return err
	}
	if order.Status == newStatus {
		return nil
	}
	if !CanTransitionOrder(order.Status, newStatus) {
		return apperrors.BusinessRule(
			"cannot move order %d from %s to %s", orderID, order.Status, newStatus)
	}

	if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", newStatus).Error; err != nil {
		return apperrors.Internal("failed to update order status", err)
	}

	if !fromDelivery && order.Delivery != nil {
		if deliveryStatus, ok := orderToDeliveryStatus[newStatus]; ok &&
			order.Delivery.Status != deliveryStatus {
			if err := tx.Model(&models.Delivery{}).Where("id = ?", order.Delivery.ID).
				Update("status", deliveryStatus).Error; err != nil {
				return apperrors.Internal("failed to propagate delivery status", err)
			}
		}
	}

	switch newStatus {
	case models.OrderStatusDelivered:
		if order.Payment != nil &&
			order.Payment.Mode == models.PaymentModeCashOnDelivery &&
			order.Payment.Status != models.PaymentStatusPaid {
			if err := tx.Model(&models.Payment{}).Where("id = ?", order.Payment.ID).
				Updates(map[string]any{
					"status":  models.PaymentStatusPaid,
					"paid_at": clock.Now(),
				}).Error; err != nil {
				return apperrors.Internal("failed to mark payment paid", err)
			}
		}
	case models.OrderStatusCancelled:
		for _, line := range order.Lines {
			result := tx.Model(&models.Product{}).
				Where("id = ?", line.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", line.Quantity))
			if result.Error != nil {
				return apperrors.Internal("failed to restore stock", result.Error)
			}
		}
		if order.Payment != nil && order.Payment.Status == models.PaymentStatusUnpaid {
			if err := tx.Model(&models.Payment{}).Where("id = ?", order.Payment.ID).
				Update("status", models.PaymentStatusCancelled).Error; err != nil {
				return apperrors.Internal("failed to cancel payment", err)
			}
		}
	}
	return nil
}
