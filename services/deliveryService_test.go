package services

import (
	"testing"
	"time"

	"github.com/ndiayedev/jokkoshop-api/apperrors"
	"github.com/ndiayedev/jokkoshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deliveryNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestComputeDeliveryFee(t *testing.T) {
	distance := func(km float64) *float64 { return &km }
	cases := []struct {
		name     string
		city     string
		distance *float64
		want     float64
	}{
		{"dakar tariff", "dakar", nil, 1000},
		{"case and spaces", "  Dakar ", nil, 1000},
		{"pikine", "pikine", nil, 1500},
		{"thies", "thies", nil, 2500},
		{"saint-louis", "saint-louis", nil, 5000},
		{"unknown city per km", "mbour", distance(20), 3000},
		{"per km below floor", "mbour", distance(2), 1000},
		{"unknown city no distance", "mbour", nil, 2500},
		{"zero distance falls back", "mbour", distance(0), 2500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeDeliveryFee(tc.city, tc.distance))
		})
	}
}

func TestDeriveZone(t *testing.T) {
	assert.Equal(t, "medina", DeriveZone("Rue 10 x 25, Medina"))
	assert.Equal(t, "pikine", DeriveZone("Quartier Pikine Nord"))
	assert.Equal(t, ZoneOther, DeriveZone("Keur Massar"))
	assert.Equal(t, ZoneOther, DeriveZone(""))
}

func TestCreateDeliveryConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeliveryService(db, newFakeClock(deliveryNow))

	order := models.Order{ClientID: 1, Status: models.OrderStatusPreparing}
	require.NoError(t, db.Create(&order).Error)

	input := DeliveryInput{
		OrderID:     order.ID,
		Address:     "Plateau, Dakar",
		ScheduledAt: deliveryNow.Add(24 * time.Hour),
		Fee:         1000,
	}
	first, err := svc.Create(input)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusNotDelivered, first.Status)

	_, err = svc.Create(input)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = svc.Create(DeliveryInput{OrderID: 999, Address: "x", ScheduledAt: deliveryNow})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAssignEmployee(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeliveryService(db, newFakeClock(deliveryNow))

	client := seedUser(t, db, "client@test.sn", models.RoleClient)
	employee := seedUser(t, db, "livreur@test.sn", models.RoleEmployee)

	order := models.Order{ClientID: client.ID, Status: models.OrderStatusPreparing}
	require.NoError(t, db.Create(&order).Error)
	delivery, err := svc.Create(DeliveryInput{
		OrderID: order.ID, Address: "Yoff, Dakar", ScheduledAt: deliveryNow.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.AssignEmployee(delivery.ID, client.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBusinessRule))

	assigned, err := svc.AssignEmployee(delivery.ID, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusInProgress, assigned.Status)
	require.NotNil(t, assigned.EmployeeID)
	assert.Equal(t, employee.ID, *assigned.EmployeeID)

	// The order follows the delivery.
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusOutForDelivery, reloaded.Status)
}

func TestMarkDeliveredPropagatesToOrderAndPayment(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(deliveryNow)
	svc := NewDeliveryService(db, clock)

	order := models.Order{ClientID: 1, Status: models.OrderStatusOutForDelivery, Total: 1500}
	require.NoError(t, db.Create(&order).Error)
	payment := models.Payment{
		OrderID: order.ID,
		Status:  models.PaymentStatusUnpaid,
		Mode:    models.PaymentModeCashOnDelivery,
		Amount:  1500,
	}
	require.NoError(t, db.Create(&payment).Error)
	delivery, err := svc.Create(DeliveryInput{
		OrderID: order.ID, Address: "Almadies", ScheduledAt: deliveryNow,
	})
	require.NoError(t, err)

	done, err := svc.MarkDelivered(delivery.ID, "left at the gate")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusDelivered, done.Status)
	assert.Equal(t, "left at the gate", done.Note)

	var reloadedOrder models.Order
	require.NoError(t, db.First(&reloadedOrder, order.ID).Error)
	assert.Equal(t, models.OrderStatusDelivered, reloadedOrder.Status)

	var reloadedPayment models.Payment
	require.NoError(t, db.First(&reloadedPayment, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, reloadedPayment.Status)
	require.NotNil(t, reloadedPayment.PaidAt)
	assert.True(t, reloadedPayment.PaidAt.Equal(deliveryNow))

	_, err = svc.MarkDelivered(delivery.ID, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBusinessRule))
}

func TestUpdateDeliveryIgnoresStatusField(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeliveryService(db, newFakeClock(deliveryNow))

	order := models.Order{ClientID: 1, Status: models.OrderStatusPreparing}
	require.NoError(t, db.Create(&order).Error)
	delivery, err := svc.Create(DeliveryInput{
		OrderID: order.ID, Address: "Ouakam", ScheduledAt: deliveryNow,
	})
	require.NoError(t, err)

	updated, err := svc.Update(delivery.ID, map[string]any{
		"note":   "call before arriving",
		"status": models.DeliveryStatusDelivered,
	})
	require.NoError(t, err)
	assert.Equal(t, "call before arriving", updated.Note)
	assert.Equal(t, models.DeliveryStatusNotDelivered, updated.Status)
}

func TestLateDeliveries(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock(deliveryNow)
	svc := NewDeliveryService(db, clock)

	for i, d := range []models.Delivery{
		{OrderID: 1, Status: models.DeliveryStatusNotDelivered, ScheduledAt: deliveryNow.Add(-2 * time.Hour), Address: "Medina"},
		{OrderID: 2, Status: models.DeliveryStatusDelivered, ScheduledAt: deliveryNow.Add(-2 * time.Hour), Address: "Yoff"},
		{OrderID: 3, Status: models.DeliveryStatusInProgress, ScheduledAt: deliveryNow.Add(2 * time.Hour), Address: "Pikine"},
	} {
		require.NoError(t, db.Create(&d).Error, "seed %d", i)
	}

	late, err := svc.LateDeliveries()
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, uint(1), late[0].OrderID)
}

func TestPlanForGroupsByZone(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeliveryService(db, newFakeClock(deliveryNow))
	employee := seedUser(t, db, "livreur@test.sn", models.RoleEmployee)

	day := deliveryNow
	for _, d := range []models.Delivery{
		{OrderID: 1, Status: models.DeliveryStatusNotDelivered, ScheduledAt: day, Address: "Rue 5, Medina", EmployeeID: &employee.ID},
		{OrderID: 2, Status: models.DeliveryStatusInProgress, ScheduledAt: day.Add(time.Hour), Address: "Cite Pikine"},
		{OrderID: 3, Status: models.DeliveryStatusNotDelivered, ScheduledAt: day, Address: "Keur Massar"},
		{OrderID: 4, Status: models.DeliveryStatusDelivered, ScheduledAt: day, Address: "Medina"},
		{OrderID: 5, Status: models.DeliveryStatusNotDelivered, ScheduledAt: day.AddDate(0, 0, 1), Address: "Medina"},
	} {
		require.NoError(t, db.Create(&d).Error)
	}

	plan, err := svc.PlanFor(day, nil)
	require.NoError(t, err)
	assert.Len(t, plan["medina"], 1)
	assert.Len(t, plan["pikine"], 1)
	assert.Len(t, plan[ZoneOther], 1)

	// Restricted to one employee.
	plan, err = svc.PlanFor(day, &employee.ID)
	require.NoError(t, err)
	assert.Len(t, plan, 1)
	assert.Len(t, plan["medina"], 1)
}

func TestDeliveryStats(t *testing.T) {
	db := newTestDB(t)
	// Rows get a real created_at, so the stats window anchors on real time.
	svc := NewDeliveryService(db, newFakeClock(time.Now()))

	for i, status := range []string{
		models.DeliveryStatusDelivered,
		models.DeliveryStatusDelivered,
		models.DeliveryStatusInProgress,
	} {
		require.NoError(t, db.Create(&models.Delivery{
			OrderID: uint(i + 1), Status: status, ScheduledAt: deliveryNow,
		}).Error)
	}

	stats, err := svc.Stats("day")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats[models.DeliveryStatusDelivered])
	assert.Equal(t, int64(1), stats[models.DeliveryStatusInProgress])
	assert.Equal(t, int64(0), stats[models.DeliveryStatusCancelled])

	_, err = svc.Stats("year")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
