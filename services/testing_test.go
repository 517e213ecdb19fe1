package services

import (
	"testing"
	"time"

	"github.com/ndiayedev/jokkoshop-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database limited to a single
// connection so every query sees the same schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Promotion{},
		&models.PromotionProduct{},
		&models.Order{},
		&models.OrderLine{},
		&models.Delivery{},
		&models.Payment{},
	))
	return db
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{Fullname: "Test User", Email: email, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedPromotion(t *testing.T, db *gorm.DB, name string, reduction int, start, end time.Time, active bool) *models.Promotion {
	t.Helper()
	promotion := models.Promotion{
		Name:      name,
		Reduction: reduction,
		StartDate: start,
		EndDate:   end,
		Active:    active,
	}
	require.NoError(t, db.Create(&promotion).Error)
	return &promotion
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.Stock
}

// newOrderEnv wires the full service graph against one database and clock,
// the same way the HTTP layer does.
func newOrderEnv(db *gorm.DB, clock Clock) (*OrderService, *ProductService, *PromotionService, *DeliveryService, *PaymentService) {
	products := NewProductService(db)
	promotions := NewPromotionService(db, clock)
	deliveries := NewDeliveryService(db, clock)
	payments := NewPaymentService(db, clock, NewGatewayClient())
	orders := NewOrderService(db, clock, products, promotions, deliveries, payments)
	return orders, products, promotions, deliveries, payments
}
