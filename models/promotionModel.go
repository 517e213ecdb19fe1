package models

import (
	"time"

	"gorm.io/gorm"
)

type Promotion struct {
	gorm.Model
	Name        string             `json:"name" binding:"required" gorm:"uniqueIndex"`
	Description string             `json:"description"`
	Reduction   int                `json:"reduction" binding:"required,gte=1,lte=100"`
	StartDate   time.Time          `json:"startDate" binding:"required"`
	EndDate     time.Time          `json:"endDate" binding:"required"`
	Active      bool               `json:"active"`
	Products    []PromotionProduct `json:"products,omitempty" gorm:"foreignKey:PromotionID"`
}

// PromotionProduct links a promotion to a product. FixedAmount, when set,
// replaces the percentage reduction with a flat discount.
type PromotionProduct struct {
	gorm.Model
	PromotionID uint     `json:"promotionId" gorm:"uniqueIndex:idx_promotion_product"`
	ProductID   uint     `json:"productId" gorm:"uniqueIndex:idx_promotion_product"`
	FixedAmount *float64 `json:"fixedAmount"`
	Product     *Product `json:"product,omitempty"`
}
