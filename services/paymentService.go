package services

import (
	"errors"
	"time"

	"github.com/ndiayedev/jokkoshop-api/apperrors"
	"github.com/ndiayedev/jokkoshop-api/models"
	"gorm.io/gorm"
)

// PaymentInput is the payload the order orchestrator derives when a new
// order spawns its payment.
type PaymentInput struct {
	OrderID  uint
	Mode     string
	Amount   float64
	Phone    string
	Operator string
}

type PaymentService struct {
	db      *gorm.DB
	clock   Clock
	gateway *GatewayClient
}

func NewPaymentService(db *gorm.DB, clock Clock, gateway *GatewayClient) *PaymentService {
	return &PaymentService{db: db, clock: clock, gateway: gateway}
}

// CreateTx creates the payment inside the caller's transaction. An order
// can have at most one payment; refund reversal rows do not count.
func (s *PaymentService) CreateTx(tx *gorm.DB, input PaymentInput) (*models.Payment, error) {
	if input.Mode != models.PaymentModeCashOnDelivery && input.Mode != models.PaymentModeOnline {
		return nil, apperrors.Validation("unknown payment mode %q", input.Mode)
	}
	if input.Amount < 0 {
		return nil, apperrors.Validation("payment amount must not be negative")
	}

	var existing models.Payment
	err := tx.Where("order_id = ? AND status <> ?", input.OrderID, models.PaymentStatusRefundReversal).
		First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("order %d already has a payment", input.OrderID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to check existing payment", err)
	}

	payment := models.Payment{
		OrderID:  input.OrderID,
		Status:   models.PaymentStatusUnpaid,
		Mode:     input.Mode,
		Amount:   input.Amount,
		Phone:    input.Phone,
		Operator: input.Operator,
	}

	if input.Mode == models.PaymentModeOnline {
		ref, err := s.gateway.InitiateTransaction(input.OrderID, input.Amount, input.Phone, input.Operator)
		if err != nil {
			return nil, err
		}
		payment.TransactionRef = ref
	}

	if err := tx.Create(&payment).Error; err != nil {
		return nil, apperrors.Internal("failed to create payment", err)
	}
	return &payment, nil
}

func (s *PaymentService) Create(input PaymentInput) (*models.Payment, error) {
	var payment *models.Payment
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
		payment = created
		return nil
	})
	return payment, err
}

func (s *PaymentService) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment %d not found", id)
		}
		return nil, apperrors.Internal("failed to load payment", err)
	}
	return &payment, nil
}

// GetByOrder returns the order's regular payment, excluding reversal rows.
func (s *PaymentService) GetByOrder(orderID uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Where("order_id = ? AND status <> ?", orderID, models.PaymentStatusRefundReversal).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d has no payment", orderID)
		}
		return nil, apperrors.Internal("failed to load payment", err)
	}
	return &payment, nil
}

func (s *PaymentService) List() ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, apperrors.Internal("failed to list payments", err)
	}
	return payments, nil
}

func (s *PaymentService) TodayPayments() ([]models.Payment, error) {
	start := startOfDay(s.clock.Now())
	var payments []models.Payment
	err := s.db.Where("paid_at >= ? AND paid_at < ?", start, start.Add(24*time.Hour)).
		Order("paid_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list today's payments", err)
	}
	return payments, nil
}

func (s *PaymentService) MarkPaid(id uint, reference string) (*models.Payment, error) {
	payment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusPaid {
		return nil, apperrors.BusinessRule("payment %d is already paid", id)
	}
	if payment.Status == models.PaymentStatusCancelled {
		return nil, apperrors.BusinessRule("payment %d was cancelled", id)
	}

	now := s.clock.Now()
	updates := map[string]any{
		"status":  models.PaymentStatusPaid,
		"paid_at": now,
	}
	if reference != "" {
		updates["transaction_ref"] = reference
	}
	if err := s.db.Model(payment).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to mark payment paid", err)
	}
	return s.GetByID(id)
}

// Refund creates a negative-amount reversal record and flags the original
// as fully or partially refunded. Only paid payments can be refunded.
func (s *PaymentService) Refund(id uint, amount *float64, reason string) (*models.Payment, error) {
	payment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentStatusPaid {
		return nil, apperrors.BusinessRule("payment %d is not paid, cannot refund", id)
	}

	refund := payment.Amount
	if amount != nil {
		refund = *amount
	}
	if refund <= 0 {
		return nil, apperrors.Validation("refund amount must be positive")
	}
	if refund > payment.Amount {
		return nil, apperrors.BusinessRule(
			"refund amount %.2f exceeds paid amount %.2f", refund, payment.Amount)
	}

	newStatus := models.PaymentStatusRefundedPartial
	if refund == payment.Amount {
		newStatus = models.PaymentStatusRefundedFull
	}

	var reversal models.Payment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		reversal = models.Payment{
			OrderID:        payment.OrderID,
			Status:         models.PaymentStatusRefundReversal,
			Mode:           payment.Mode,
			Amount:         -refund,
			Phone:          payment.Phone,
			Operator:       payment.Operator,
			TransactionRef: localRefundRef(),
			Note:           reason,
		}
		if err := tx.Create(&reversal).Error; err != nil {
			return apperrors.Internal("failed to create refund record", err)
		}
		if err := tx.Model(&models.Payment{}).Where("id = ?", id).
			Update("status", newStatus).Error; err != nil {
			return apperrors.Internal("failed to flag payment refunded", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reversal, nil
}

func (s *PaymentService) Cancel(id uint, reason string) (*models.Payment, error) {
	payment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusPaid {
		return nil, apperrors.BusinessRule("payment %d is already paid, cannot cancel", id)
	}

	updates := map[string]any{"status": models.PaymentStatusCancelled}
	if reason != "" {
		updates["note"] = reason
	}
	if err := s.db.Model(payment).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to cancel payment", err)
	}
	return s.GetByID(id)
}
