package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusPreparing      = "preparing"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

type Order struct {
	gorm.Model
	ClientID     uint           `json:"clientId"`
	Client       *User          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Total        float64        `json:"total"`
	Status       string         `json:"status"`
	DeliveryInfo datatypes.JSON `json:"deliveryInfo"`
	PaymentInfo  datatypes.JSON `json:"paymentInfo"`
	Lines        []OrderLine    `json:"lines" gorm:"foreignKey:OrderID"`
	Delivery     *Delivery      `json:"delivery,omitempty" gorm:"foreignKey:OrderID"`
	Payment      *Payment       `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderLine snapshots the unit price at order time; later product price
// changes must not alter existing lines.
type OrderLine struct {
	gorm.Model
	OrderID     uint       `json:"orderId"`
	ProductID   uint       `json:"productId"`
	Product     *Product   `json:"product,omitempty"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unitPrice"`
	LineTotal   float64    `json:"lineTotal"`
	PromotionID *uint      `json:"promotionId"`
	Promotion   *Promotion `json:"promotion,omitempty"`
}

// OrderIsTerminal reports whether no further status transitions are allowed.
func OrderIsTerminal(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}
