package services

import (
	"errors"
	"math"

	"github.com/ndiayedev/jokkoshop-api/apperrors"
	"github.com/ndiayedev/jokkoshop-api/models"
	"gorm.io/gorm"
)

type PromotionService struct {
	db    *gorm.DB
	clock Clock
}

func NewPromotionService(db *gorm.DB, clock Clock) *PromotionService {
	return &PromotionService{db: db, clock: clock}
}

// PriceQuote is the result of applying the best active promotion to a
// product's price.
type PriceQuote struct {
	ProductID   uint     `json:"productId"`
	Original    float64  `json:"original"`
	Discounted  float64  `json:"discounted"`
	Reduction   int      `json:"reduction"`
	Savings     float64  `json:"savings"`
	PromotionID *uint    `json:"promotionId"`
	FixedAmount *float64 `json:"fixedAmount,omitempty"`
}

func (s *PromotionService) Create(promotion *models.Promotion) error {
	if promotion.Reduction < 1 || promotion.Reduction > 100 {
		return apperrors.Validation("reduction must be between 1 and 100")
	}
	if !promotion.EndDate.After(promotion.StartDate) {
		return apperrors.Validation("end date must be after start date")
	}

	var existing models.Promotion
	err := s.db.Where("name = ?", promotion.Name).First(&existing).Error
	if err == nil {
		return apperrors.Conflict("a promotion named %q already exists", promotion.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Internal("failed to check promotion name", err)
	}

	if err := s.db.Create(promotion).Error; err != nil {
		return apperrors.Internal("failed to create promotion", err)
	}
	return nil
}

func (s *PromotionService) GetByID(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	err := s.db.Preload("Products.Product").First(&promotion, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("promotion %d not found", id)
		}
		return nil, apperrors.Internal("failed to load promotion", err)
	}
	return &promotion, nil
}

func (s *PromotionService) List() ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := s.db.Preload("Products.Product").Find(&promotions).Error; err != nil {
		return nil, apperrors.Internal("failed to list promotions", err)
	}
	return promotions, nil
}

// ListActive returns promotions whose window contains the current time and
// whose flag is set.
func (s *PromotionService) ListActive() ([]models.Promotion, error) {
	now := s.clock.Now()
	var promotions []models.Promotion
	err := s.db.Preload("Products.Product").
		Where("active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Order("reduction DESC").
		Find(&promotions).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list active promotions", err)
	}
	return promotions, nil
}

func (s *PromotionService) Update(id uint, updates map[string]any) (*models.Promotion, error) {
	promotion, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if reduction, ok := updates["reduction"]; ok {
		if r, ok := reduction.(float64); ok && (r < 1 || r > 100) {
			return nil, apperrors.Validation("reduction must be between 1 and 100")
		}
	}
	if err := s.db.Model(promotion).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to update promotion", err)
	}
	return s.GetByID(id)
}

func (s *PromotionService) SetActive(id uint, active bool) (*models.Promotion, error) {
	promotion, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(promotion).Update("active", active).Error; err != nil {
		return nil, apperrors.Internal("failed to toggle promotion", err)
	}
	promotion.Active = active
	return promotion, nil
}

// CanDelete is false while the promotion is referenced by a line of any
// order that is still in flight.
func (s *PromotionService) CanDelete(id uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.OrderLine{}).
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("order_lines.promotion_id = ?", id).
		Where("orders.status IN ?", []string{
			models.OrderStatusPreparing,
			models.OrderStatusReady,
			models.OrderStatusOutForDelivery,
		}).
		Where("orders.deleted_at IS NULL").
		Count(&count).Error
	if err != nil {
		return false, apperrors.Internal("failed to check promotion usage", err)
	}
	return count == 0, nil
}

func (s *PromotionService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	deletable, err := s.CanDelete(id)
	if err != nil {
		return err
	}
	if !deletable {
		return apperrors.BusinessRule("promotion %d is used by orders still in progress", id)
	}
	if err := s.db.Where("promotion_id = ?", id).Delete(&models.PromotionProduct{}).Error; err != nil {
		return apperrors.Internal("failed to remove promotion links", err)
	}
	if err := s.db.Delete(&models.Promotion{}, id).Error; err != nil {
		return apperrors.Internal("failed to delete promotion", err)
	}
	return nil
}

// AttachProduct links a product to a promotion. Re-attaching an already
// linked product only updates the fixed-amount override.
func (s *PromotionService) AttachProduct(promotionID, productID uint, fixedAmount *float64) error {
	if _, err := s.GetByID(promotionID); err != nil {
		return err
	}
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("product %d not found", productID)
		}
		return apperrors.Internal("failed to load product", err)
	}
	if fixedAmount != nil && *fixedAmount < 0 {
		return apperrors.Validation("fixed amount must not be negative")
	}

	var link models.PromotionProduct
	err := s.db.Where("promotion_id = ? AND product_id = ?", promotionID, productID).
		First(&link).Error
	if err == nil {
		return s.db.Model(&link).Update("fixed_amount", fixedAmount).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Internal("failed to check promotion link", err)
	}

	link = models.PromotionProduct{
		PromotionID: promotionID,
		ProductID:   productID,
		FixedAmount: fixedAmount,
	}
	if err := s.db.Create(&link).Error; err != nil {
		return apperrors.Internal("failed to link product to promotion", err)
	}
	return nil
}

func (s *PromotionService) DetachProduct(promotionID, productID uint) error {
	result := s.db.Where("promotion_id = ? AND product_id = ?", promotionID, productID).
		Delete(&models.PromotionProduct{})
	if result.Error != nil {
		return apperrors.Internal("failed to unlink product from promotion", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("product %d is not linked to promotion %d", productID, promotionID)
	}
	return nil
}

// ActivePromotionFor picks the best active promotion linked to the product:
// highest reduction first, most recently created on ties.
func (s *PromotionService) ActivePromotionFor(productID uint) (*models.Promotion, error) {
	return s.activePromotionForTx(s.db, productID)
}

func (s *PromotionService) activePromotionForTx(tx *gorm.DB, productID uint) (*models.Promotion, error) {
	now := s.clock.Now()
	var promotion models.Promotion
	err := tx.
		Joins("JOIN promotion_products ON promotion_products.promotion_id = promotions.id").
		Where("promotion_products.product_id = ?", productID).
		Where("promotion_products.deleted_at IS NULL").
		Where("promotions.active = ?", true).
		Where("promotions.start_date <= ? AND promotions.end_date >= ?", now, now).
		Order("promotions.reduction DESC, promotions.created_at DESC").
		First(&promotion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to resolve active promotion", err)
	}
	return &promotion, nil
}

// PriceWithPromotion computes the discounted price for a product. When
// basePrice is nil the current catalog price is used.
func (s *PromotionService) PriceWithPromotion(productID uint, basePrice *float64) (PriceQuote, error) {
	return s.priceWithPromotionTx(s.db, productID, basePrice)
}

func (s *PromotionService) priceWithPromotionTx(tx *gorm.DB, productID uint, basePrice *float64) (PriceQuote, error) {
	original := 0.0
	if basePrice != nil {
		original = *basePrice
	} else {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return PriceQuote{}, apperrors.NotFound("product %d not found", productID)
			}
			return PriceQuote{}, apperrors.Internal("failed to load product", err)
		}
		original = product.Price
	}

	quote := PriceQuote{
		ProductID:  productID,
		Original:   round2(original),
		Discounted: round2(original),
	}

	promotion, err := s.activePromotionForTx(tx, productID)
	if err != nil {
		return PriceQuote{}, err
	}
	if promotion == nil {
		return quote, nil
	}

	quote.PromotionID = &promotion.ID
	quote.Reduction = promotion.Reduction

	var link models.PromotionProduct
	err = tx.Where("promotion_id = ? AND product_id = ?", promotion.ID, productID).
		First(&link).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return PriceQuote{}, apperrors.Internal("failed to load promotion link", err)
	}

	if err == nil && link.FixedAmount != nil {
		quote.FixedAmount = link.FixedAmount
		quote.Discounted = round2(math.Max(0, original-*link.FixedAmount))
	} else {
		quote.Discounted = round2(original * (1 - float64(promotion.Reduction)/100))
	}
	quote.Savings = round2(quote.Original - quote.Discounted)
	return quote, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
