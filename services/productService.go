package services

import (
	"errors"
	"math"

	"github.com/ndiayedev/jokkoshop-api/apperrors"
	"github.com/ndiayedev/jokkoshop-api/models"
	"gorm.io/gorm"
)

// Stock alert thresholds.
const (
	StockThresholdCritical = 0
	StockThresholdLow      = 5
	StockThresholdMedium   = 10
)

const (
	StockStatusCritical = "critical"
	StockStatusLow      = "low"
	StockStatusMedium   = "medium"
	StockStatusHealthy  = "healthy"
)

// StockReport is a derived read-only view attached to product responses.
// It is never written back to the product row.
type StockReport struct {
	Status         string `json:"status"`
	AlertMessage   string `json:"alertMessage"`
	NeedRestocking bool   `json:"needRestocking"`
}

// ProductView pairs a product with its stock report for API responses.
type ProductView struct {
	models.Product
	StockReport StockReport `json:"stockReport"`
}

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func StockReportFor(stock int) StockReport {
	status := stockStatusFor(stock)
	return StockReport{
		Status:         status,
		AlertMessage:   stockAlertMessage(status),
		NeedRestocking: stock <= StockThresholdLow,
	}
}

func stockStatusFor(stock int) string {
	switch {
	case stock <= StockThresholdCritical:
		return StockStatusCritical
	case stock <= StockThresholdLow:
		return StockStatusLow
	case stock <= StockThresholdMedium:
		return StockStatusMedium
	default:
		return StockStatusHealthy
	}
}

func stockAlertMessage(status string) string {
	switch status {
	case StockStatusCritical:
		return "Stock depleted. Urgent restocking required."
	case StockStatusLow:
		return "Stock is low. Consider restocking."
	case StockStatusMedium:
		return "Stock is moderate. Keep an eye on it."
	default:
		return "Stock is sufficient."
	}
}

func (s *ProductService) view(product models.Product) ProductView {
	return ProductView{Product: product, StockReport: StockReportFor(product.Stock)}
}

func (s *ProductService) Create(product *models.Product) (ProductView, error) {
	if product.CategoryID != 0 {
		var category models.Category
		if err := s.db.First(&category, product.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ProductView{}, apperrors.NotFound("category %d not found", product.CategoryID)
			}
			return ProductView{}, apperrors.Internal("failed to load category", err)
		}
	}
	if err := s.db.Create(product).Error; err != nil {
		return ProductView{}, apperrors.Internal("failed to create product", err)
	}
	s.db.Preload("Category").First(product, product.ID)
	return s.view(*product), nil
}

func (s *ProductService) GetByID(id uint) (ProductView, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductView{}, apperrors.NotFound("product %d not found", id)
		}
		return ProductView{}, apperrors.Internal("failed to load product", err)
	}
	return s.view(product), nil
}

func (s *ProductService) List(search string, limit, offset int) ([]ProductView, int64, error) {
	query := s.db.Preload("Category")
	countQuery := s.db.Model(&models.Product{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
		countQuery = countQuery.Where("name LIKE ?", "%"+search+"%")
	}

	var products []models.Product
	if err := query.Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to list products", err)
	}

	var count int64
	countQuery.Count(&count)

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, s.view(p))
	}
	return views, count, nil
}

func (s *ProductService) Update(id uint, updates map[string]any) (ProductView, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductView{}, apperrors.NotFound("product %d not found", id)
		}
		return ProductView{}, apperrors.Internal("failed to load product", err)
	}

	// Stock is mutated only through reservation, restoration and restock.
	delete(updates, "stock")

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return ProductView{}, apperrors.Internal("failed to update product", err)
	}
	s.db.Preload("Category").First(&product, id)
	return s.view(product), nil
}

func (s *ProductService) Delete(id uint) error {
	var count int64
	s.db.Model(&models.OrderLine{}).Where("product_id = ?", id).Count(&count)
	if count > 0 {
		return apperrors.BusinessRule("product %d is referenced by existing orders", id)
	}
	result := s.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return apperrors.Internal("failed to delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("product %d not found", id)
	}
	return nil
}

// ReserveStock decrements stock inside the caller's transaction. The
// conditional update keeps the decrement atomic under concurrent orders.
func (s *ProductService) ReserveStock(tx *gorm.DB, productID uint, qty int) error {
	if qty < 1 {
		return apperrors.Validation("quantity must be at least 1")
	}

	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return apperrors.Internal("failed to reserve stock", result.Error)
	}
	if result.RowsAffected == 0 {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("product %d not found", productID)
			}
			return apperrors.Internal("failed to load product", err)
		}
		return apperrors.InsufficientStock(
			"insufficient stock for %s: requested %d, available %d",
			product.Name, qty, product.Stock,
		)
	}
	return nil
}

// RestoreStock puts quantity back unconditionally (order cancellation and
// deletion paths).
func (s *ProductService) RestoreStock(tx *gorm.DB, productID uint, qty int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return apperrors.Internal("failed to restore stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("product %d not found", productID)
	}
	return nil
}

func (s *ProductService) Restock(id uint, qty int) (ProductView, error) {
	if qty < 1 {
		return ProductView{}, apperrors.Validation("restock quantity must be at least 1")
	}
	if err := s.RestoreStock(s.db, id, qty); err != nil {
		return ProductView{}, err
	}
	return s.GetByID(id)
}

func (s *ProductService) LowStockProducts() ([]ProductView, error) {
	var products []models.Product
	err := s.db.Preload("Category").
		Where("stock <= ?", StockThresholdLow).
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list low stock products", err)
	}
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, s.view(p))
	}
	return views, nil
}

// StockStatistics breaks the catalog down by stock band.
type StockStatistics struct {
	Total              int64   `json:"total"`
	Critical           int64   `json:"critical"`
	Low                int64   `json:"low"`
	Medium             int64   `json:"medium"`
	Healthy            int64   `json:"healthy"`
	PercentageCritical float64 `json:"percentageCritical"`
	PercentageLow      float64 `json:"percentageLow"`
}

func (s *ProductService) StockStatistics() (StockStatistics, error) {
	var stats StockStatistics
	products := s.db.Model(&models.Product{})

	products.Count(&stats.Total)
	s.db.Model(&models.Product{}).Where("stock <= ?", StockThresholdCritical).Count(&stats.Critical)
	s.db.Model(&models.Product{}).
		Where("stock > ? AND stock <= ?", StockThresholdCritical, StockThresholdLow).
		Count(&stats.Low)
	s.db.Model(&models.Product{}).
		Where("stock > ? AND stock <= ?", StockThresholdLow, StockThresholdMedium).
		Count(&stats.Medium)
	s.db.Model(&models.Product{}).Where("stock > ?", StockThresholdMedium).Count(&stats.Healthy)

	if stats.Total > 0 {
		stats.PercentageCritical = math.Round(float64(stats.Critical)/float64(stats.Total)*10000) / 100
		stats.PercentageLow = math.Round(float64(stats.Low)/float64(stats.Total)*10000) / 100
	}
	return stats, nil
}
