package services

import (
	"testing"
	"time"

	"github.com/ndiayedev/jokkoshop-api/apperrors"
	"github.com/ndiayedev/jokkoshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func codOrderInput(lines []OrderLineInput) CreateOrderInput {
	return CreateOrderInput{
		Lines: lines,
		Delivery: DeliveryDetails{
			Address: "Rue 12, Plateau",
			City:    "Dakar",
		},
		Payment: PaymentDetails{Method: "on-delivery"},
	}
}

func TestCreateOrderComputesTotalAndSpawnsDeliveryAndPayment(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(orderNow)
	orders, _, _, _, _ := newOrderEnv(db, clock)

	phone := seedProduct(t, db, "Phone", 150, 10)
	charger := seedProduct(t, db, "Charger", 25.5, 4)

	order, err := orders.CreateOrder(7, codOrderInput([]OrderLineInput{
		{ProductID: phone.ID, Quantity: 2},
		{ProductID: charger.ID, Quantity: 1},
	}))
	require.NoError(t, err)

	// 2*150 + 25.50 + 1000 fixed tariff for Dakar.
	assert.Equal(t, 1325.5, order.Total)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	assert.Equal(t, uint(7), order.ClientID)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 150.0, order.Lines[0].UnitPrice)
	assert.Equal(t, 300.0, order.Lines[0].LineTotal)

	assert.Equal(t, 8, productStock(t, db, phone.ID))
	assert.Equal(t, 3, productStock(t, db, charger.ID))

	require.NotNil(t, order.Delivery)
	assert.Equal(t, models.DeliveryStatusNotDelivered, order.Delivery.Status)
	assert.Equal(t, 1000.0, order.Delivery.Fee)
	assert.Equal(t, "Rue 12, Plateau, Dakar", order.Delivery.Address)
	assert.True(t, order.Delivery.ScheduledAt.Equal(orderNow.Add(24*time.Hour)))

	require.NotNil(t, order.Payment)
	assert.Equal(t, models.PaymentStatusUnpaid, order.Payment.Status)
	assert.Equal(t, models.PaymentModeCashOnDelivery, order.Payment.Mode)
	assert.Equal(t, 1325.5, order.Payment.Amount)

	assert.NotEmpty(t, order.DeliveryInfo)
	assert.NotEmpty(t, order.PaymentInfo)
}

func TestCreateOrderAppliesActivePromotion(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(orderNow)
	orders, _, promotions, _, _ := newOrderEnv(db, clock)

	product := seedProduct(t, db, "Phone", 100, 10)
	promo := seedPromotion(t, db, "Spring", 20,
		orderNow.Add(-time.Hour), orderNow.Add(time.Hour), true)
	require.NoError(t, promotions.AttachProduct(promo.ID, product.ID, nil))

	order, err := orders.CreateOrder(1, codOrderInput([]OrderLineInput{
		{ProductID: product.ID, Quantity: 3},
	}))
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	assert.Equal(t, 80.0, order.Lines[0].UnitPrice)
	assert.Equal(t, 240.0, order.Lines[0].LineTotal)
	require.NotNil(t, order.Lines[0].PromotionID)
	assert.Equal(t, promo.ID, *order.Lines[0].PromotionID)
	assert.Equal(t, 1240.0, order.Total)
	assert.Equal(t, 7, productStock(t, db, product.ID))
}

func TestOrderLineSnapshotsUnitPrice(t *testing.T) {
	db := newTestDB(t)
	orders, products, _, _, _ := newOrderEnv(db, newFakeClock(orderNow))

	product := seedProduct(t, db, "Phone", 100, 10)
	order, err := orders.CreateOrder(1, codOrderInput([]OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	}))
	require.NoError(t, err)

	_, err = products.Update(product.ID, map[string]any{"price": 500.0})
	require.NoError(t, err)

	reloaded, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, reloaded.Lines[0].UnitPrice)
	assert.Equal(t, order.Total, reloaded.Total)
}

func TestCreateOrderInsufficientStockRollsEverythingBack(t *testing.T) {
	db := newTestDB(t)
	orders, _, _, _, _ := newOrderEnv(db, newFakeClock(orderNow))

	phone := seedProduct(t, db, "Phone", 150, 5)
	charger := seedProduct(t, db, "Charger", 25, 1)

	_, err := orders.CreateOrder(1, codOrderInput([]OrderLineInput{
		{ProductID: phone.ID, Quantity: 2},
		{ProductID: charger.ID, Quantity: 3},
	}))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))

	// The first line's reservation was rolled back too.
	assert.Equal(t, 5, productStock(t, db, phone.ID))
	assert.Equal(t, 1, productStock(t, db, charger.ID))

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.OrderLine{}).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.Delivery{}).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	orders, _, _, _, _ := newOrderEnv(db, newFakeClock(orderNow))
	product := seedProduct(t, db, "Phone", 100, 10)

	input := codOrderInput([]OrderLineInput{{ProductID: product.ID, Quantity: 1}})
	input.Payment.Method = "crypto"
	_, err := orders.CreateOrder(1, input)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = orders.CreateOrder(1, codOrderInput(nil))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = orders.CreateOrder(1, codOrderInput([]OrderLineInput{{ProductID: 999, Quantity: 1}}))
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Equal(t, 10, productStock(t, db, product.ID))
}

func TestUpdateStatusDeliveredSettlesCashOnDelivery(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(orderNow)
	orders, _, _, _, _ := newOrderEnv(db, clock)
	product := seedProduct(t, db, "Phone", 100, 10)

	order, err := orders.CreateOrder(1, codOrderInput([]OrderLineInput{
		{ProductID: product.ID, Quantity: 2},
	}))
	require.NoError(t, err)

	// Forward jump straight to delivered is legal.
	updated, err := orders.UpdateStatus(order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	require.NotNil(t, updated.Delivery)
	assert.Equal(t, models.DeliveryStatusDelivered, updated.Delivery.Status)

	require.NotNil(t, updated.Payment)
	assert.Equal(t, models.PaymentStatusPaid, updated.Payment.Status)
	require.NotNil(t, updated.Payment.PaidAt)
	assert.True(t, updated.Payment.PaidAt.Equal(orderNow))

	// Delivered is terminal.
	_, err = orders.UpdateStatus(order.ID, models.OrderStatusCancelled)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBusinessRule))
}

func TestUpdateStatusCancelledRestoresStockAndCancelsPayment(t *testing.T) {
	db := newTestDB(t)
	orders, _, _, _, _ := newOrderEnv(db, newFakeClock(orderNow))
	product := seedProduct(t, db, "Phone", 100, 10)

	order, err := orders.CreateOrder(1, codOrderInput([]OrderLineInput{
		{ProductID: product.ID, Quantity: 4},
	}))
	require.NoError(t, err)
	assert.Equal(t, 6, productStock(t, db, product.ID))

	updated, err := orders.UpdateStatus(order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 10, productStock(t, db, product.ID))

	require.NotNil(t, updated.Delivery)
	assert.Equal(t, models.DeliveryStatusCancelled, updated.Delivery.Status)
	require.NotNil(t, updated.Payment)
	assert.Equal(t, models.PaymentStatusCancelled, updated.Payment.Status)
}

func TestUpdateStatusRejectsBackwardMoves(t *testing.T) {
	db := newTestDB(t)
	orders, _, _, _, _ := newOrderEnv(db, newFakeClock(orderNow))
	product := seedProduct(t, db, "Phone", 100, 10)

	order, err := orders.CreateOrder(1, codOrderInput([]OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	}))
	require.NoError(t, err)

	_, err = orders.UpdateStatus(order.ID, models.OrderStatusReady)
	require.NoError(t, err)

	_, err = orders.UpdateStatus(order.ID, models.OrderStatusPreparing)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBusinessRule))

	_, err = orders.UpdateStatus(order.ID, "shipped")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCheckAvailabilityDoesNotReserve(t *testing.T) {
	db := newTestDB(t)
	orders, _, _, _, _ := newOrderEnv(db, newFakeClock(orderNow))
	product := seedProduct(t, db, "Phone", 100, 3)

	report, err := orders.CheckAvailability([]OrderLineInput{
		{ProductID: product.ID, Quantity: 2},
		{ProductID: product.ID, Quantity: 5},
		{ProductID: 999, Quantity: 1},
	})
	require.NoError(t, err)
	assert.False(t, report.AllAvailable)
	require.Len(t, report.Lines, 3)
	assert.True(t, report.Lines[0].InStock)
	assert.False(t, report.Lines[1].InStock)
	assert.Equal(t, 3, report.Lines[1].Available)
	assert.False(t, report.Lines[2].InStock)

	// Checking never touches stock.
	assert.Equal(t, 3, productStock(t, db, product.ID))
}

func TestDestroyRestoresStockAndRemovesEverything(t *testing.T) {
	db := newTestDB(t)
	orders, _, _, _, _ := newOrderEnv(db, newFakeClock(orderNow))
	product := seedProduct(t, db, "Phone", 100, 10)

	order, err := orders.CreateOrder(1, codOrderInput([]OrderLineInput{
		{ProductID: product.ID, Quantity: 3},
	}))
	require.NoError(t, err)
	assert.Equal(t, 7, productStock(t, db, product.ID))

	require.NoError(t, orders.Destroy(order.ID))
	assert.Equal(t, 10, productStock(t, db, product.ID))

	_, err = orders.GetByID(order.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDestroyCancelledOrderDoesNotRestoreTwice(t *testing.T) {
	db := newTestDB(t)
	orders, _, _, _, _ := newOrderEnv(db, newFakeClock(orderNow))
	product := seedProduct(t, db, "Phone", 100, 10)

	order, err := orders.CreateOrder(1, codOrderInput([]OrderLineInput{
		{ProductID: product.ID, Quantity: 3},
	}))
	require.NoError(t, err)

	_, err = orders.UpdateStatus(order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 10, productStock(t, db, product.ID))

	require.NoError(t, orders.Destroy(order.ID))
	assert.Equal(t, 10, productStock(t, db, product.ID))
}

func TestListByClient(t *testing.T) {
	db := newTestDB(t)
	orders, _, _, _, _ := newOrderEnv(db, newFakeClock(orderNow))
	product := seedProduct(t, db, "Phone", 100, 20)

	_, err := orders.CreateOrder(1, codOrderInput([]OrderLineInput{{ProductID: product.ID, Quantity: 1}}))
	require.NoError(t, err)
	_, err = orders.CreateOrder(2, codOrderInput([]OrderLineInput{{ProductID: product.ID, Quantity: 1}}))
	require.NoError(t, err)

	mine, err := orders.ListByClient(1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, uint(1), mine[0].ClientID)
}
