package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentStatusUnpaid          = "unpaid"
	PaymentStatusPaid            = "paid"
	PaymentStatusRefundedFull    = "refunded_full"
	PaymentStatusRefundedPartial = "refunded_partial"
	PaymentStatusCancelled       = "cancelled"
	PaymentStatusFailed          = "failed"

	// Status of the negative-amount record created by a refund.
	PaymentStatusRefundReversal = "refund_reversal"

	PaymentModeCashOnDelivery = "cash_on_delivery"
	PaymentModeOnline         = "online"
)

// Payment uniqueness per order is enforced in the payment service rather
// than with a unique index: refund reversal rows share the order id.
type Payment struct {
	gorm.Model
	OrderID        uint       `json:"orderId" gorm:"index"`
	Status         string     `json:"status"`
	Mode           string     `json:"mode"`
	Amount         float64    `json:"amount"`
	PaidAt         *time.Time `json:"paidAt"`
	Phone          string     `json:"phone"`
	Operator       string     `json:"operator"`
	TransactionRef string     `json:"transactionRef"`
	Note           string     `json:"note"`
}
