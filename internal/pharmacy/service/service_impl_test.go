package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/clock"
	pharmacydomain "github.com/carelinkhq/carelink/internal/pharmacy/domain"
	pharmacyrepo "github.com/carelinkhq/carelink/internal/pharmacy/repository"
	pharmacyservice "github.com/carelinkhq/carelink/internal/pharmacy/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_pharmacy_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&pharmacydomain.Medicine{},
		&pharmacydomain.CartItem{},
		&pharmacydomain.Order{},
		&pharmacydomain.OrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newPharmacyService(t *testing.T) pharmacydomain.Service {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(5)
	require.NoError(t, err)

	return pharmacyservice.New(pharmacyservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  pharmacyrepo.Provide(),
	})
}

func createMedicine(t *testing.T, svc pharmacydomain.Service, name string, priceCents int64) pharmacydomain.Medicine {
	t.Helper()
	med, err := svc.CreateMedicine(context.Background(), pharmacydomain.CreateMedicineRequest{
		Name:       name,
		PriceCents: priceCents,
		Stock:      100,
	})
	require.NoError(t, err)
	return med
}

func TestCreateMedicine(t *testing.T) {
	svc := newPharmacyService(t)
	ctx := context.Background()

	med := createMedicine(t, svc, "Paracetamol 500mg", 1500)
	assert.NotZero(t, med.ID)

	_, err := svc.CreateMedicine(ctx, pharmacydomain.CreateMedicineRequest{Name: "Paracetamol 500mg", PriceCents: 900})
	assert.ErrorIs(t, err, pharmacydomain.ErrMedicineTaken)

	_, err = svc.CreateMedicine(ctx, pharmacydomain.CreateMedicineRequest{Name: " ", PriceCents: 100})
	assert.ErrorIs(t, err, pharmacydomain.ErrInvalidName)

	_, err = svc.CreateMedicine(ctx, pharmacydomain.CreateMedicineRequest{Name: "Ibuprofen", PriceCents: 0})
	assert.ErrorIs(t, err, pharmacydomain.ErrInvalidPrice)
}

func TestCart(t *testing.T) {
	svc := newPharmacyService(t)
	ctx := context.Background()

	med := createMedicine(t, svc, "Amoxicillin 250mg", 3200)

	item, err := svc.AddToCart(ctx, pharmacydomain.CartMutationRequest{
		UserID:     "patient-1",
		MedicineID: med.ID.String(),
		Quantity:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	// Adding again bumps, capped at the limit.
	item, err = svc.AddToCart(ctx, pharmacydomain.CartMutationRequest{
		UserID:     "patient-1",
		MedicineID: med.ID.String(),
		Quantity:   50,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, item.Quantity)

	require.NoError(t, svc.SetCartQuantity(ctx, pharmacydomain.CartMutationRequest{
		UserID:     "patient-1",
		MedicineID: med.ID.String(),
		Quantity:   3,
	}))

	cart, err := svc.GetCart(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)

	// Zero removes.
	require.NoError(t, svc.SetCartQuantity(ctx, pharmacydomain.CartMutationRequest{
		UserID:     "patient-1",
		MedicineID: med.ID.String(),
		Quantity:   0,
	}))

	cart, err = svc.GetCart(ctx, "patient-1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	err = svc.SetCartQuantity(ctx, pharmacydomain.CartMutationRequest{
		UserID:     "patient-1",
		MedicineID: med.ID.String(),
		Quantity:   1,
	})
	assert.ErrorIs(t, err, pharmacydomain.ErrNotFound)

	_, err = svc.AddToCart(ctx, pharmacydomain.CartMutationRequest{
		UserID:     "patient-1",
		MedicineID: "999999999",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, pharmacydomain.ErrNotFound)
}

func TestCheckout(t *testing.T) {
	svc := newPharmacyService(t)
	ctx := context.Background()

	paracetamol := createMedicine(t, svc, "Paracetamol 500mg", 1500)
	vitamin := createMedicine(t, svc, "Vitamin C 1000mg", 2500)

	_, err := svc.AddToCart(ctx, pharmacydomain.CartMutationRequest{
		UserID: "patient-1", MedicineID: paracetamol.ID.String(), Quantity: 2,
	})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, pharmacydomain.CartMutationRequest{
		UserID: "patient-1", MedicineID: vitamin.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)

	order, err := svc.Checkout(ctx, "patient-1")
	require.NoError(t, err)

	assert.Equal(t, pharmacydomain.OrderPlaced, order.Status)
	assert.EqualValues(t, 2*1500+2500, order.TotalCents)
	require.Len(t, order.Items, 2)

	// Line snapshots carry catalog name and unit price.
	byName := map[string]pharmacydomain.OrderItem{}
	for _, line := range order.Items {
		byName[line.Name] = line
	}
	assert.EqualValues(t, 1500, byName["Paracetamol 500mg"].UnitPriceCents)
	assert.Equal(t, 2, byName["Paracetamol 500mg"].Quantity)

	// Cart is emptied by checkout.
	cart, err := svc.GetCart(ctx, "patient-1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	_, err = svc.Checkout(ctx, "patient-1")
	assert.ErrorIs(t, err, pharmacydomain.ErrEmptyCart)

	stored, err := svc.GetOrder(ctx, "patient-1", order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, order.TotalCents, stored.TotalCents)
	assert.Len(t, stored.Items, 2)

	// Other users cannot see the order.
	_, err = svc.GetOrder(ctx, "patient-2", order.ID.String())
	assert.ErrorIs(t, err, pharmacydomain.ErrNotFound)
}

func TestOrderTransitions(t *testing.T) {
	svc := newPharmacyService(t)
	ctx := context.Background()

	med := createMedicine(t, svc, "Cough Syrup", 4000)
	_, err := svc.AddToCart(ctx, pharmacydomain.CartMutationRequest{
		UserID: "patient-1", MedicineID: med.ID.String(), Quantity: 1,
	})
	require.NoError(t, err)

	order, err := svc.Checkout(ctx, "patient-1")
	require.NoError(t, err)

	_, err = svc.TransitionOrder(ctx, pharmacydomain.OrderTransitionRequest{
		ID: order.ID.String(), Status: pharmacydomain.OrderDelivered,
	})
	assert.ErrorIs(t, err, pharmacydomain.ErrInvalidTransition)

	shipped, err := svc.TransitionOrder(ctx, pharmacydomain.OrderTransitionRequest{
		ID: order.ID.String(), Status: pharmacydomain.OrderShipped,
	})
	require.NoError(t, err)
	assert.Equal(t, pharmacydomain.OrderShipped, shipped.Status)

	delivered, err := svc.TransitionOrder(ctx, pharmacydomain.OrderTransitionRequest{
		ID: order.ID.String(), Status: pharmacydomain.OrderDelivered,
	})
	require.NoError(t, err)
	assert.Equal(t, pharmacydomain.OrderDelivered, delivered.Status)

	_, err = svc.TransitionOrder(ctx, pharmacydomain.OrderTransitionRequest{
		ID: order.ID.String(), Status: pharmacydomain.OrderCancelled,
	})
	assert.ErrorIs(t, err, pharmacydomain.ErrInvalidTransition)
}
