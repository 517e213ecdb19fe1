package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DeliveryStatusNotDelivered = "not_delivered"
	DeliveryStatusInProgress   = "in_progress"
	DeliveryStatusDelivered    = "delivered"
	DeliveryStatusCancelled    = "cancelled"
)

type Delivery struct {
	gorm.Model
	OrderID     uint      `json:"orderId" gorm:"uniqueIndex"`
	EmployeeID  *uint     `json:"employeeId"`
	Employee    *User     `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Address     string    `json:"address"`
	Fee         float64   `json:"fee"`
	Note        string    `json:"note"`
}
